// Command funxy runs the semantic analyzer over a project's source
// files: it walks the configured root for files with a recognized
// source extension, binds, collects, and unifies each one, and reports
// every diagnostic it encounters.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/orbital-lang/funxy/internal/analyzer"
	"github.com/orbital-lang/funxy/internal/config"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/driverconfig"
	"github.com/orbital-lang/funxy/internal/parser"
	"github.com/orbital-lang/funxy/internal/pipeline"
	"github.com/orbital-lang/funxy/internal/registry"
	"github.com/orbital-lang/funxy/internal/utils"
)

// Version is set at build time via: -ldflags "-X main.Version=..."
var Version = config.Version

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(Version)
		return
	}

	cfg, err := driverconfig.Load("funxy.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxy: loading funxy.yaml: %v\n", err)
		os.Exit(1)
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if cfg.Color != nil {
		useColor = *cfg.Color
	}

	reg, err := registry.Open(cfg.RegistryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxy: %v\n", err)
		os.Exit(1)
	}
	defer reg.Close()

	files, err := discoverSourceFiles(cfg.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxy: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	for _, file := range files {
		if !runFile(file, reg, useColor) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func discoverSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if config.HasSourceExt(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func runFile(path string, reg *registry.Registry, useColor bool) bool {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxy: %v\n", err)
		return false
	}

	ctx := pipeline.NewContext(path, string(source))
	pl := pipeline.New(&parser.Processor{}, &analyzer.Processor{})
	ctx = pl.Run(ctx)

	moduleName := utils.ExtractModuleName(path)
	if ctx.AstRoot != nil && ctx.AstRoot.Module != nil {
		if existing, conflict, err := reg.Register(ctx.AstRoot.Module.Namespace, path); err != nil {
			fmt.Fprintf(os.Stderr, "funxy: %v\n", err)
		} else if conflict {
			fmt.Fprintf(os.Stderr, "funxy: module %q already declared by %s (conflicts with %s)\n", ctx.AstRoot.Module.Namespace, existing, path)
			return false
		}
	}
	_ = moduleName

	ok := true
	for _, derr := range ctx.Errors {
		printDiagnostic(path, derr, useColor)
		ok = false
	}
	return ok
}

func printDiagnostic(path string, err *diagnostics.DiagnosticError, useColor bool) {
	if useColor {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s: %s\x1b[0m\n", path, err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", path, err.Error())
}
