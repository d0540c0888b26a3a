package analyzer_test

import (
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/orbital-lang/funxy/internal/analyzer"
	"github.com/orbital-lang/funxy/internal/lexer"
	"github.com/orbital-lang/funxy/internal/parser"
)

// programFixtures bundles several independent compilation units as a
// single txtar archive, keyed by filename, so a whole batch of
// end-to-end scenarios can be maintained as one readable block of text
// instead of one Go string literal per case.
const programFixtures = `
-- ok_identity.fx --
module Fixtures.Identity
const identity = (x) => x
const a = identity(1)
const b = identity("s")

-- ok_record.fx --
module Fixtures.Record
type Point = {x: number, y: number}
const origin: Point = {x: 0, y: 0}
const px = origin.x

-- err_type_mismatch.fx --
module Fixtures.Mismatch
const x: number = "not a number"

-- err_unknown_ident.fx --
module Fixtures.Unknown
const x = thisNameDoesNotExist
`

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	arc := txtar.Parse([]byte(programFixtures))
	for _, f := range arc.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("fixture %q not found in archive", name)
	return ""
}

func TestFixtures_ValidProgramsAnalyzeCleanly(t *testing.T) {
	for _, name := range []string{"ok_identity.fx", "ok_record.fx"} {
		src := loadFixture(t, name)
		p := parser.New(lexer.New(src))
		prog := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			t.Fatalf("%s: parse errors: %v", name, errs)
		}
		if _, err := analyzer.Analyze(prog); err != nil {
			t.Errorf("%s: expected successful analysis, got %v", name, err)
		}
	}
}

func TestFixtures_InvalidProgramsFailAnalysis(t *testing.T) {
	for _, name := range []string{"err_type_mismatch.fx", "err_unknown_ident.fx"} {
		src := loadFixture(t, name)
		p := parser.New(lexer.New(src))
		prog := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			t.Fatalf("%s: parse errors: %v", name, errs)
		}
		if _, err := analyzer.Analyze(prog); err == nil {
			t.Errorf("%s: expected analysis to fail", name)
		}
	}
}
