package analyzer

import (
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/scope"
	"github.com/orbital-lang/funxy/internal/token"
	"github.com/orbital-lang/funxy/internal/types"
)

// Result is one compilation unit's fully-solved semantic analysis: the
// scope graph (with every symbol's final, substituted type), the
// expression-level TypeMap, and the substitution itself for callers that
// need to resolve ad-hoc types after the fact.
type Result struct {
	Root    *scope.Scope
	TypeMap map[ast.Node]types.Type
	Subst   types.Subst
	Namer   *Namer
}

// Analyze runs the full binder -> collector -> unifier pipeline over one
// parsed program (spec §4 entry point). The driver-level MissingModule
// check happens first: a Program with no ModuleDecl never reaches the
// binder.
func Analyze(program *ast.Program) (*Result, *diagnostics.DiagnosticError) {
	if program.Module == nil {
		return nil, diagnostics.NewDriver(diagnostics.ErrD001, token.Token{})
	}

	bind, err := BindProgram(program)
	if err != nil {
		return nil, err
	}

	collect, err := CollectProgram(bind)
	if err != nil {
		return nil, err
	}

	subst, err := Unify(collect.Constraints, bind.Namer)
	if err != nil {
		return nil, err
	}

	ApplySubstitutions(bind, collect, subst)

	return &Result{
		Root:    bind.Root,
		TypeMap: collect.TypeMap,
		Subst:   subst,
		Namer:   bind.Namer,
	}, nil
}
