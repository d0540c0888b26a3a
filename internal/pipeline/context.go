package pipeline

import (
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/diagnostics"
)

// Context holds everything passed between the driver's pipeline stages.
type Context struct {
	SourceCode string
	FilePath   string

	AstRoot *ast.Program

	// Result is an *analyzer.Result once the analyze stage runs
	// successfully. Typed as interface{} to avoid an import cycle
	// (analyzer's own Processor lives in package analyzer and depends on
	// this package) — callers type-assert after Run, the same trade the
	// teacher's PipelineContext.Loader makes for the same reason.
	Result interface{}

	// Errors accumulates the diagnostics that stages record. Only the
	// analyze stage appends here; the parse stage does not record its
	// parse errors.
	Errors []*diagnostics.DiagnosticError
}

// NewContext creates a context for one source file.
func NewContext(filePath, source string) *Context {
	return &Context{FilePath: filePath, SourceCode: source}
}

// Processor is any pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}
