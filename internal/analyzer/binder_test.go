package analyzer_test

import (
	"testing"

	"github.com/orbital-lang/funxy/internal/analyzer"
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/lexer"
	"github.com/orbital-lang/funxy/internal/parser"
	"github.com/orbital-lang/funxy/internal/types"
)

func mustBind(t *testing.T, src string) *analyzer.BindResult {
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
	return bind
}

func TestBindProgram_ConstDeclInstallsValueSymbol(t *testing.T) {
	bind := mustBind(t, "module M\nconst x = 1\n")
	sym, ok := bind.ProgramScope.LookupValue("x")
	if !ok {
		t.Fatalf("expected x to be bound in the program scope")
	}
	if sym.Type == nil {
		t.Errorf("expected x to have a type assigned")
	}
}

func TestBindProgram_RedeclarationFails(t *testing.T) {
	p := parser.New(lexer.New("module M\nconst x = 1\nconst x = 2\n"))
	prog := p.ParseProgram()
	_, err := analyzer.BindProgram(prog)
	if err == nil {
		t.Fatalf("expected redeclaration of x to fail binding")
	}
}

func TestBindProgram_FunctionExpressionGetsConstName(t *testing.T) {
	bind := mustBind(t, "module M\nconst add = (x, y) => x + y\n")
	decl := bind.Program.Body[0].(*ast.ConstDecl)
	fn := decl.Value.(*ast.FunctionExpression)
	if fn.Identifier != "add" {
		t.Errorf("expected anonymous function to inherit the const name add, got %s", fn.Identifier)
	}
}

func TestBindProgram_AnonymousFunctionGetsGeneratedName(t *testing.T) {
	bind := mustBind(t, "module M\nconst f = () => (() => 1)\n")
	_ = bind
	decl := bind.Program.Body[0].(*ast.ConstDecl)
	outer := decl.Value.(*ast.FunctionExpression)
	if outer.Identifier != "f" {
		t.Errorf("expected outer function to be named f, got %s", outer.Identifier)
	}
	inner, ok := outer.BodyExpr.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("expected the outer function's body to be the inner function expression")
	}
	if inner.Identifier != "fn0" {
		t.Errorf("expected the anonymous inner function to get the generated name fn0, got %s", inner.Identifier)
	}
}

// Parameters are bound in the function body's own scope, not a nested
// child of it.
func TestBindProgram_ParamsShareBodyScope(t *testing.T) {
	bind := mustBind(t, "module M\nconst f = (x) => x\n")
	decl := bind.Program.Body[0].(*ast.ConstDecl)
	fn := decl.Value.(*ast.FunctionExpression)
	funcScope := bind.NodeScope[fn]
	if funcScope == nil {
		t.Fatalf("expected a scope recorded for the function expression")
	}
	if _, ok := funcScope.OwnValue("x"); !ok {
		t.Errorf("expected x to be bound directly in the function's own scope")
	}
}

func TestBindProgram_EnumDeclInstallsBothNamespaces(t *testing.T) {
	bind := mustBind(t, "module M\ntype Option<T> = :Some(T) | :None\n")
	if _, ok := bind.ProgramScope.LookupType("Option"); !ok {
		t.Errorf("expected Option to be installed in the type namespace")
	}
	sym, ok := bind.ProgramScope.LookupValue("Option")
	if !ok {
		t.Fatalf("expected Option to also be installed in the value namespace")
	}
	if _, isEnum := sym.Type.(*types.EnumType); !isEnum {
		t.Errorf("expected Option's value symbol to carry its EnumType, got %T", sym.Type)
	}
}

func TestBindProgram_DuplicateEnumMemberFails(t *testing.T) {
	p := parser.New(lexer.New("module M\ntype Bad = :A | :A\n"))
	prog := p.ParseProgram()
	if _, err := analyzer.BindProgram(prog); err == nil {
		t.Errorf("expected duplicate enum member A to fail binding")
	}
}

func TestBindProgram_TypeDeclSupportsRecursiveReference(t *testing.T) {
	bind := mustBind(t, "module M\ntype Node = {value: number, next: Node}\n")
	sym, ok := bind.ProgramScope.LookupType("Node")
	if !ok {
		t.Fatalf("expected Node to be bound")
	}
	obj, ok := sym.Type.(types.ObjectType)
	if !ok {
		t.Fatalf("expected Node to resolve to an ObjectType, got %T", sym.Type)
	}
	if _, found := obj.Lookup("next"); !found {
		t.Errorf("expected Node.next field to be present")
	}
}

func TestBindProgram_ShadowingAncestorScopeFails(t *testing.T) {
	p := parser.New(lexer.New("module M\nconst x = 1\nconst f = () => {\nconst x = 2\nx\n}\n"))
	prog := p.ParseProgram()
	if _, err := analyzer.BindProgram(prog); err == nil {
		t.Errorf("expected shadowing x inside the function body to fail binding")
	}
}
