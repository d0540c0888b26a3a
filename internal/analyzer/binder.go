// Package analyzer implements the three-phase semantic core: the binder
// (scope construction), the collector (constraint generation), and the
// unifier (constraint solving). All three share the scope graph defined
// in internal/scope.
package analyzer

import (
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/scope"
	"github.com/orbital-lang/funxy/internal/types"
)

// BindResult is bind_program's output: the scope graph plus enough
// bookkeeping for the collector to re-derive, for any AST node that owns
// a scope, exactly which scope it owns.
type BindResult struct {
	Root         *scope.Scope
	ProgramScope *scope.Scope
	Program      *ast.Program
	Namer        *Namer

	// NodeScope records the scope owned by Program, Block, FunctionExpression
	// (its body scope) and MatchClause nodes, plus the type-parameter scope
	// of each EnumDecl and TypeDecl.
	NodeScope map[ast.Node]*scope.Scope
}

type binder struct {
	namer     *Namer
	nodeScope map[ast.Node]*scope.Scope
}

// BindProgram walks the AST and constructs the scope graph, installing
// every declaration as a symbol in its owning scope. It fails fast on
// the first Redeclaration/DuplicateEnumMember/DuplicateTypeParameter
// error (spec §4.1 entry point contract).
func BindProgram(program *ast.Program) (*BindResult, *diagnostics.DiagnosticError) {
	b := &binder{namer: NewNamer(), nodeScope: make(map[ast.Node]*scope.Scope)}

	root := scope.NewRoot()
	progScope := root.NewChild()
	b.nodeScope[program] = progScope

	for _, stmt := range program.Body {
		if err := b.bindStatement(stmt, progScope); err != nil {
			err.CompilationID = b.namer.CompilationID.String()
			return nil, err
		}
	}

	return &BindResult{
		Root:         root,
		ProgramScope: progScope,
		Program:      program,
		Namer:        b.namer,
		NodeScope:    b.nodeScope,
	}, nil
}

func (b *binder) bindStatement(stmt ast.Statement, sc *scope.Scope) *diagnostics.DiagnosticError {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		return b.bindConstDecl(s, sc)
	case *ast.EnumDecl:
		return b.bindEnumDecl(s, sc)
	case *ast.TypeDecl:
		return b.bindTypeDecl(s, sc)
	case *ast.Block:
		_, err := b.bindBlock(s, sc)
		return err
	case *ast.ExpressionStatement:
		return b.bindExpr(s.Expression, sc)
	default:
		return nil
	}
}

// bindConstDecl installs the binding's value symbol(s) in sc *before*
// recursing into the initialiser, matching spec §4.1's ordering (so a
// self-referencing function expression sees its own name, and so an
// initialiser that is itself a const-declaring block cannot see the
// name it is about to shadow).
func (b *binder) bindConstDecl(c *ast.ConstDecl, sc *scope.Scope) *diagnostics.DiagnosticError {
	if c.Name != nil {
		var varType types.Type
		if c.TypeAnnotation != nil {
			varType = b.resolveTypeExpr(c.TypeAnnotation, sc)
		} else {
			varType = b.namer.FreshVar()
		}
		if _, err := sc.DefineValue(c.Name.Name, varType, c); err != nil {
			return diagnostics.NewBinder(diagnostics.ErrB001, c.Name.Tok, c.Name.Name)
		}
		if fe, ok := c.Value.(*ast.FunctionExpression); ok && fe.Identifier == "" {
			fe.Identifier = c.Name.Name
		}
	} else if c.BindPattern != nil {
		if err := b.bindPattern(c.BindPattern, sc); err != nil {
			return err
		}
	}
	return b.bindExpr(c.Value, sc)
}

// bindPattern installs every identifier a destructuring pattern binds as
// a fresh-variable value symbol. Duplicate identifiers inside one
// pattern surface as the same Redeclaration error as any other duplicate
// binding in one scope (spec §4.1 "Duplicate identifiers inside one
// pattern are an error").
func (b *binder) bindPattern(pat ast.Pattern, sc *scope.Scope) *diagnostics.DiagnosticError {
	switch p := pat.(type) {
	case *ast.Identifier:
		if _, err := sc.DefineValue(p.Name, b.namer.FreshVar(), p); err != nil {
			return diagnostics.NewBinder(diagnostics.ErrB001, p.Tok, p.Name)
		}
	case *ast.ArrayDestructure:
		for _, id := range p.Elements {
			if _, err := sc.DefineValue(id.Name, b.namer.FreshVar(), id); err != nil {
				return diagnostics.NewBinder(diagnostics.ErrB001, id.Tok, id.Name)
			}
		}
	case *ast.ObjectDestructure:
		for _, field := range p.Fields {
			if _, err := sc.DefineValue(field, b.namer.FreshVar(), p); err != nil {
				return diagnostics.NewBinder(diagnostics.ErrB001, p.Tok, field)
			}
		}
	case *ast.EnumDestructure:
		for _, id := range p.Bindings {
			if _, err := sc.DefineValue(id.Name, b.namer.FreshVar(), id); err != nil {
				return diagnostics.NewBinder(diagnostics.ErrB001, id.Tok, id.Name)
			}
		}
	}
	return nil
}

func (b *binder) bindEnumDecl(e *ast.EnumDecl, sc *scope.Scope) *diagnostics.DiagnosticError {
	seen := map[string]bool{}
	for _, m := range e.Members {
		if seen[m.Name] {
			return diagnostics.NewBinder(diagnostics.ErrB002, e.Tok, m.Name)
		}
		seen[m.Name] = true
	}

	child := sc.NewChild()
	b.nodeScope[e] = child

	seenParam := map[string]bool{}
	for _, tp := range e.TypeParams {
		if seenParam[tp] {
			return diagnostics.NewBinder(diagnostics.ErrB003, e.Tok, tp)
		}
		seenParam[tp] = true
		if _, err := child.DefineType(tp, types.TypeVariable{Name: tp}, e); err != nil {
			return diagnostics.NewBinder(diagnostics.ErrB001, e.Tok, tp)
		}
	}

	// The declaration name doubles as a value namespace (spec §4.1): an
	// EnumDecl installs the same EnumType into both tables of the parent
	// scope so `Enum.Member(...)` can resolve `Enum` as an expression.
	// Both are installed before the members are resolved, so a member
	// payload that names the enum itself resolves to this EnumType.
	enumType := &types.EnumType{Identifier: e.Name, TypeParams: e.TypeParams}
	if _, err := sc.DefineType(e.Name, enumType, e); err != nil {
		return diagnostics.NewBinder(diagnostics.ErrB001, e.Tok, e.Name)
	}
	if _, err := sc.DefineValue(e.Name, enumType, e); err != nil {
		return diagnostics.NewBinder(diagnostics.ErrB001, e.Tok, e.Name)
	}
	for _, m := range e.Members {
		params := make([]types.Type, len(m.Params))
		for i, p := range m.Params {
			params[i] = b.resolveTypeExpr(p, child)
		}
		enumType.Members = append(enumType.Members, &types.EnumMemberType{Identifier: m.Name, Params: params})
	}
	return nil
}

// bindTypeDecl installs the type name in the parent *before* creating the
// child scope for its type parameters, so a recursive type reference
// resolves to the symbol we later overwrite in place (spec §4.1 ordering).
func (b *binder) bindTypeDecl(t *ast.TypeDecl, sc *scope.Scope) *diagnostics.DiagnosticError {
	sym, err := sc.DefineType(t.Name, types.Identifier{Name: t.Name}, t)
	if err != nil {
		return diagnostics.NewBinder(diagnostics.ErrB001, t.Tok, t.Name)
	}

	child := sc.NewChild()
	b.nodeScope[t] = child

	seenParam := map[string]bool{}
	for _, tp := range t.TypeParams {
		if seenParam[tp] {
			return diagnostics.NewBinder(diagnostics.ErrB003, t.Tok, tp)
		}
		seenParam[tp] = true
		if _, err := child.DefineType(tp, types.TypeVariable{Name: tp}, t); err != nil {
			return diagnostics.NewBinder(diagnostics.ErrB001, t.Tok, tp)
		}
	}

	sym.Type = b.resolveTypeExpr(t.Value, child)
	return nil
}

// bindBlock creates the block's own child scope and binds its body items
// into it in order.
func (b *binder) bindBlock(blk *ast.Block, sc *scope.Scope) (*scope.Scope, *diagnostics.DiagnosticError) {
	child := sc.NewChild()
	b.nodeScope[blk] = child
	for _, stmt := range blk.Body {
		if err := b.bindStatement(stmt, child); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// bindFunctionExpression creates the function's body scope, installs a
// value symbol per parameter in it, allocates a stable identifier if one
// was not forwarded by an enclosing ConstDecl, and installs a type
// symbol in the *parent* scope carrying the FunctionType — so later the
// collector can retrieve it by name the same way any declared type is
// resolved (spec §4.1 FunctionExpression policy).
func (b *binder) bindFunctionExpression(f *ast.FunctionExpression, sc *scope.Scope) *diagnostics.DiagnosticError {
	funcScope := sc.NewChild()
	b.nodeScope[f] = funcScope

	params := make([]types.ParameterType, len(f.Params))
	for i, p := range f.Params {
		var pType types.Type
		if p.TypeAnnotation != nil {
			pType = b.resolveTypeExpr(p.TypeAnnotation, funcScope)
		} else {
			pType = b.namer.FreshVar()
		}
		if _, err := funcScope.DefineValue(p.Name.Name, pType, p); err != nil {
			return diagnostics.NewBinder(diagnostics.ErrB001, p.Name.Tok, p.Name.Name)
		}
		params[i] = types.ParameterType{Identifier: p.Name.Name, Annotation: pType, IsSpread: p.IsSpread}
	}

	if f.Identifier == "" {
		f.Identifier = b.namer.FreshFunctionName()
	}

	var retType types.Type
	if f.ReturnType != nil {
		retType = b.resolveTypeExpr(f.ReturnType, funcScope)
	} else {
		retType = b.namer.FreshVar()
	}

	fnType := types.FunctionType{Params: params, ReturnType: retType, Identifier: f.Identifier}
	if _, err := sc.DefineType(f.Identifier, fnType, f); err != nil {
		return diagnostics.NewBinder(diagnostics.ErrB001, f.Tok, f.Identifier)
	}

	if f.Body != nil {
		// The body shares the function's own scope (spec testable
		// property 4: "parameters appear in the function body's scope"),
		// so we don't call bindBlock (which would nest another scope).
		b.nodeScope[f.Body] = funcScope
		for _, stmt := range f.Body.Body {
			if err := b.bindStatement(stmt, funcScope); err != nil {
				return err
			}
		}
	} else if f.BodyExpr != nil {
		if err := b.bindExpr(f.BodyExpr, funcScope); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) bindExpr(e ast.Expression, sc *scope.Scope) *diagnostics.DiagnosticError {
	switch a := e.(type) {
	case *ast.FunctionExpression:
		return b.bindFunctionExpression(a, sc)
	case *ast.IfElseExpression:
		if err := b.bindExpr(a.Condition, sc); err != nil {
			return err
		}
		if _, err := b.bindBlock(a.Then, sc); err != nil {
			return err
		}
		if a.Else != nil {
			if _, err := b.bindBlock(a.Else, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.MatchExpression:
		if err := b.bindExpr(a.Subject, sc); err != nil {
			return err
		}
		for _, clause := range a.Clauses {
			clauseScope := sc.NewChild()
			b.nodeScope[clause] = clauseScope
			if err := b.bindPattern(clause.Pattern, clauseScope); err != nil {
				return err
			}
			if err := b.bindExpr(clause.Body, clauseScope); err != nil {
				return err
			}
		}
		return nil
	case *ast.Block:
		_, err := b.bindBlock(a, sc)
		return err
	case *ast.CallExpression:
		if err := b.bindExpr(a.Callee, sc); err != nil {
			return err
		}
		for _, arg := range a.Args {
			if err := b.bindExpr(arg, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.DotCallExpression:
		return b.bindExpr(a.Left, sc)
	case *ast.IndexAccessExpression:
		if err := b.bindExpr(a.Left, sc); err != nil {
			return err
		}
		return b.bindExpr(a.Index, sc)
	case *ast.EnumCallExpression:
		if err := b.bindExpr(a.Enum, sc); err != nil {
			return err
		}
		for _, arg := range a.Args {
			if err := b.bindExpr(arg, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.BinaryOperation:
		if err := b.bindExpr(a.Left, sc); err != nil {
			return err
		}
		return b.bindExpr(a.Right, sc)
	case *ast.UnaryOperation:
		return b.bindExpr(a.Operand, sc)
	case *ast.TemplateLiteral:
		for _, span := range a.Spans {
			if err := b.bindExpr(span.Value, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectLiteral:
		for _, p := range a.Properties {
			if err := b.bindExpr(p.Value, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayLiteral:
		for _, elem := range a.Elements {
			if err := b.bindExpr(elem, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.Identifier, *ast.PrimitiveValue:
		return nil
	default:
		return nil
	}
}

// resolveTypeExpr walks a surface-syntax type annotation (built from only
// the Identifier/TypeReference/FunctionType/ObjectType/NativeType/LiteralType
// subset the parser produces) and resolves every Identifier it can
// through the scope graph. An Identifier that cannot be resolved yet is
// left as-is rather than failing binding. The unifier's rule 1 binds only
// a TypeVariable, so such an Identifier unifies against a bare
// TypeVariable and fails with CouldNotUnify against anything else.
func (b *binder) resolveTypeExpr(t types.Type, sc *scope.Scope) types.Type {
	switch v := t.(type) {
	case types.Identifier:
		if sym, ok := sc.LookupType(v.Name); ok {
			return sym.Type
		}
		return v
	case types.TypeReference:
		args := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = b.resolveTypeExpr(a, sc)
		}
		return types.TypeReference{Base: b.resolveTypeExpr(v.Base, sc), Args: args}
	case types.FunctionType:
		params := make([]types.ParameterType, len(v.Params))
		for i, p := range v.Params {
			params[i] = types.ParameterType{Identifier: p.Identifier, Annotation: b.resolveTypeExpr(p.Annotation, sc), IsSpread: p.IsSpread}
		}
		return types.FunctionType{Params: params, ReturnType: b.resolveTypeExpr(v.ReturnType, sc), Identifier: v.Identifier}
	case types.ObjectType:
		props := make([]types.ObjectProperty, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = types.ObjectProperty{Name: p.Name, Value: b.resolveTypeExpr(p.Value, sc)}
		}
		return types.ObjectType{Properties: props, Identifier: v.Identifier}
	default:
		return t
	}
}
