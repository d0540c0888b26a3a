package analyzer_test

import (
	"testing"

	"github.com/orbital-lang/funxy/internal/analyzer"
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/lexer"
	"github.com/orbital-lang/funxy/internal/parser"
	"github.com/orbital-lang/funxy/internal/types"
)

func mustCollect(t *testing.T, src string) (*analyzer.BindResult, *analyzer.CollectResult) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	bind, err := analyzer.BindProgram(prog)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	collect, err := analyzer.CollectProgram(bind)
	if err != nil {
		t.Fatalf("unexpected collect error: %v", err)
	}
	return bind, collect
}

func TestCollectProgram_PrimitiveLiteralTypes(t *testing.T) {
	_, collect := mustCollect(t, "module M\nconst a = 1\nconst b = \"s\"\nconst c = true\n")
	var numLit, strLit, boolLit bool
	for node, ty := range collect.TypeMap {
		pv, ok := node.(*ast.PrimitiveValue)
		if !ok {
			continue
		}
		switch pv.Kind {
		case ast.PrimNumber:
			numLit = ty.String() == "number"
		case ast.PrimString:
			strLit = ty.String() == "string"
		case ast.PrimBoolean:
			boolLit = ty.String() == "boolean"
		}
	}
	if !numLit || !strLit || !boolLit {
		t.Errorf("expected all three primitive literal kinds to be recorded with native types")
	}
}

func TestCollectProgram_ConstDeclEmitsEqualityConstraint(t *testing.T) {
	_, collect := mustCollect(t, "module M\nconst x: number = 1\n")
	if len(collect.Constraints) == 0 {
		t.Fatalf("expected at least one constraint")
	}
	found := false
	for _, c := range collect.Constraints {
		if c.Kind.String() == "Equality" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an Equality constraint binding x's annotation to its initialiser")
	}
}

func TestCollectProgram_BinaryArithmeticConstrainsOperandsToNumber(t *testing.T) {
	_, collect := mustCollect(t, "module M\nconst x = 1 + 2\n")
	foundNumberConstraint := 0
	for _, c := range collect.Constraints {
		if c.Right.String() == "number" {
			foundNumberConstraint++
		}
	}
	if foundNumberConstraint < 2 {
		t.Errorf("expected both operands of + to be constrained to number, found %d", foundNumberConstraint)
	}
}

func TestCollectProgram_IfElseUnifiesBranches(t *testing.T) {
	bind, collect := mustCollect(t, "module M\nconst x = if true { 1 } else { 2 }\n")
	decl := bind.Program.Body[0].(*ast.ConstDecl)
	ifE := decl.Value.(*ast.IfElseExpression)
	ty, ok := collect.TypeMap[ifE]
	if !ok {
		t.Fatalf("expected the if/else expression to be recorded in the type map")
	}
	if _, err := analyzer.Unify(collect.Constraints, bind.Namer); err != nil {
		t.Fatalf("unexpected unify error: %v", err)
	}
	_ = ty
}

func TestCollectProgram_FunctionCallEmitsFunctionCallConstraint(t *testing.T) {
	_, collect := mustCollect(t, "module M\nconst add = (x: number, y: number): number => x + y\nconst z = add(1, 2)\n")
	found := false
	for _, c := range collect.Constraints {
		if _, ok := c.Left.(types.FunctionCallType); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a FunctionCallType constraint to be emitted for the call expression")
	}
}

func TestCollectProgram_EnumCallRecordsEnumCallType(t *testing.T) {
	bind, collect := mustCollect(t, "module M\ntype Option<T> = :Some(T) | :None\nconst x = Option.Some(1)\n")
	decl := bind.Program.Body[1].(*ast.ConstDecl)
	call := decl.Value.(*ast.EnumCallExpression)
	ty, ok := collect.TypeMap[call]
	if !ok {
		t.Fatalf("expected the enum call expression to be recorded")
	}
	ect, ok := ty.(types.EnumCallType)
	if !ok {
		t.Fatalf("expected an EnumCallType, got %T", ty)
	}
	if ect.Member != "Some" || len(ect.Arguments) != 1 {
		t.Errorf("expected Some(1), got %+v", ect)
	}
}

func TestCollectProgram_MatchClausesConstrainSubjectAndResult(t *testing.T) {
	_, collect := mustCollect(t, "module M\ntype Option<T> = :Some(T) | :None\nconst subj = Option.Some(1)\nconst y = match subj { Option.Some(v) => v, Option.None => 0 }\n")
	subsetCount := 0
	for _, c := range collect.Constraints {
		if c.Kind.String() == "Subset" {
			subsetCount++
		}
	}
	if subsetCount == 0 {
		t.Errorf("expected at least one Subset constraint from matching the subject against a clause pattern")
	}
}

func TestCollectProgram_UnknownIdentifierFails(t *testing.T) {
	p := parser.New(lexer.New("module M\nconst x = y\n"))
	prog := p.ParseProgram()
	bind, err := analyzer.BindProgram(prog)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	if _, err := analyzer.CollectProgram(bind); err == nil {
		t.Errorf("expected referencing an undeclared identifier y to fail collection")
	}
}

// Calling a value that has already resolved to a concrete non-function
// type is NotCallable (spec §4.2/§7), not a unifier-level CouldNotUnify.
func TestCollectProgram_CallingNonFunctionFailsWithNotCallable(t *testing.T) {
	p := parser.New(lexer.New("module M\nconst o: {x: number} = {x: 1}\nconst r = o(3)\n"))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	bind, err := analyzer.BindProgram(prog)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	_, collectErr := analyzer.CollectProgram(bind)
	if collectErr == nil {
		t.Fatalf("expected calling a non-function value to fail collection")
	}
	if collectErr.Kind() != diagnostics.KindNotCallable {
		t.Errorf("expected KindNotCallable, got %s", collectErr.Kind())
	}
}
