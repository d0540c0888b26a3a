package analyzer

import (
	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/scope"
	"github.com/orbital-lang/funxy/internal/types"
)

// CollectResult is collect_program's output: a node-to-type side table
// plus the full constraint list in true emission order (spec §5 "the
// order constraints are processed is the order in which they were
// emitted" — scope-tree order alone does not guarantee this once scopes
// nest, so the collector keeps its own flat accumulator alongside each
// scope's own list).
type CollectResult struct {
	TypeMap     map[ast.Node]types.Type
	Constraints []*scope.Constraint
}

type collector struct {
	bind        *BindResult
	namer       *Namer
	typeMap     map[ast.Node]types.Type
	constraints []*scope.Constraint
}

// CollectProgram walks the bound AST and emits one constraint per
// expression/declaration rule of spec §4.2, recording every expression's
// collected type in TypeMap.
func CollectProgram(bind *BindResult) (*CollectResult, *diagnostics.DiagnosticError) {
	c := &collector{
		bind:    bind,
		namer:   bind.Namer,
		typeMap: make(map[ast.Node]types.Type),
	}

	sc := bind.ProgramScope
	for _, stmt := range bind.Program.Body {
		if err := c.collectStatement(stmt, sc); err != nil {
			err.CompilationID = c.namer.CompilationID.String()
			return nil, err
		}
	}

	return &CollectResult{TypeMap: c.typeMap, Constraints: c.constraints}, nil
}

// emit appends a constraint both to its owning scope's own list (spec
// §3.2 data model) and to the collector's flat, chronological list (spec
// §5 processing order).
func (c *collector) emit(sc *scope.Scope, left, right types.Type, kind scope.ConstraintKind) {
	cons := sc.AddConstraint(left, right, kind)
	c.constraints = append(c.constraints, cons)
}

func (c *collector) record(node ast.Node, t types.Type) types.Type {
	c.typeMap[node] = t
	return t
}

func (c *collector) collectStatement(stmt ast.Statement, sc *scope.Scope) *diagnostics.DiagnosticError {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		return c.collectConstDecl(s, sc)
	case *ast.EnumDecl:
		return nil // fully resolved by the binder; no constraints to emit
	case *ast.TypeDecl:
		return nil
	case *ast.Block:
		_, err := c.collectBlock(s, sc)
		return err
	case *ast.ExpressionStatement:
		_, err := c.collectExpr(s.Expression, sc)
		return err
	default:
		return nil
	}
}

// collectConstDecl constrains the declared binding's type (or pattern's
// type) to equal the initialiser's collected type (spec §4.2 ConstDecl
// rule). Destructuring forms collect identically to any other pattern —
// collectExpr already handles Identifier/ArrayDestructure/
// ObjectDestructure/EnumDestructure uniformly, so the ConstDecl rule
// itself does not special-case them.
func (c *collector) collectConstDecl(decl *ast.ConstDecl, sc *scope.Scope) *diagnostics.DiagnosticError {
	valType, err := c.collectExpr(decl.Value, sc)
	if err != nil {
		return err
	}

	if decl.Name != nil {
		sym, ok := sc.LookupValue(decl.Name.Name)
		if !ok {
			return diagnostics.NewCollector(diagnostics.ErrC001, decl.Name.Tok, decl.Name.Name)
		}
		c.record(decl.Name, sym.Type)
		c.emit(sc, sym.Type, valType, scope.Equality)
		return nil
	}

	patType, err := c.collectExpr(decl.BindPattern, sc)
	if err != nil {
		return err
	}
	c.emit(sc, patType, valType, scope.Equality)
	return nil
}

// collectBlock collects each body item in the block's own scope and
// returns the type of its final statement/expression (or void for an
// empty block), per spec §4.2 "a Block's type is its last item's type."
func (c *collector) collectBlock(blk *ast.Block, sc *scope.Scope) (types.Type, *diagnostics.DiagnosticError) {
	blockScope, ok := c.bind.NodeScope[blk]
	if !ok {
		blockScope = sc
	}

	var last types.Type = types.NativeType{Kind: types.KVoid}
	for i, stmt := range blk.Body {
		if err := c.collectStatement(stmt, blockScope); err != nil {
			return nil, err
		}
		if i == len(blk.Body)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				last = c.typeMap[es.Expression]
			} else if inner, ok := stmt.(*ast.Block); ok {
				last = c.typeMap[inner]
			}
		}
	}
	return c.record(blk, last), nil
}

// collectExpr collects the type of any Expression, including every
// destructuring Pattern form, per spec §4.2 "pattern collection is
// identical to expression collection."
func (c *collector) collectExpr(e ast.Expression, sc *scope.Scope) (types.Type, *diagnostics.DiagnosticError) {
	switch a := e.(type) {

	case *ast.PrimitiveValue:
		var native types.NativeType
		switch a.Kind {
		case ast.PrimString:
			native = types.NativeType{Kind: types.KString}
		case ast.PrimNumber:
			native = types.NativeType{Kind: types.KNumber}
		case ast.PrimBoolean:
			native = types.NativeType{Kind: types.KBoolean}
		}
		return c.record(a, native), nil

	case *ast.TemplateLiteral:
		for _, span := range a.Spans {
			if _, err := c.collectExpr(span.Value, sc); err != nil {
				return nil, err
			}
		}
		return c.record(a, types.NativeType{Kind: types.KString}), nil

	case *ast.Identifier:
		sym, ok := sc.LookupValue(a.Name)
		if !ok {
			return nil, diagnostics.NewCollector(diagnostics.ErrC001, a.Tok, a.Name)
		}
		return c.record(a, sym.Type), nil

	case *ast.ArrayDestructure:
		elemVar := c.namer.FreshVar()
		for _, id := range a.Elements {
			sym, ok := sc.LookupValue(id.Name)
			if !ok {
				return nil, diagnostics.NewCollector(diagnostics.ErrC001, id.Tok, id.Name)
			}
			c.record(id, sym.Type)
			c.emit(sc, sym.Type, elemVar, scope.Equality)
		}
		arrType := types.TypeReference{Base: types.NativeType{Kind: types.KArray}, Args: []types.Type{elemVar}}
		return c.record(a, arrType), nil

	case *ast.ObjectDestructure:
		props := make([]types.ObjectProperty, len(a.Fields))
		for i, field := range a.Fields {
			sym, ok := sc.LookupValue(field)
			if !ok {
				return nil, diagnostics.NewCollector(diagnostics.ErrC001, a.Tok, field)
			}
			props[i] = types.ObjectProperty{Name: field, Value: sym.Type}
		}
		return c.record(a, types.ObjectType{Properties: props}), nil

	case *ast.EnumDestructure:
		enumSym, ok := sc.LookupType(a.EnumName)
		if !ok {
			return nil, diagnostics.NewCollector(diagnostics.ErrC001, a.Tok, a.EnumName)
		}
		enumType, ok := enumSym.Type.(*types.EnumType)
		if !ok {
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, a.EnumName, a.MemberName)
		}
		member := enumType.MemberByName(a.MemberName)
		if member == nil {
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, a.EnumName, a.MemberName)
		}
		// Spec §9 Open Question (a): destructuring recovery is defined
		// only for a single-parameter member; bind the one binding (if
		// any) to that parameter's declared type directly.
		if len(a.Bindings) > 0 && len(member.Params) > 0 {
			id := a.Bindings[0]
			sym, ok := sc.LookupValue(id.Name)
			if !ok {
				return nil, diagnostics.NewCollector(diagnostics.ErrC001, id.Tok, id.Name)
			}
			c.record(id, sym.Type)
			c.emit(sc, sym.Type, member.Params[0], scope.Equality)
		}
		typeVar := c.namer.FreshVar()
		pat := types.PatternType{
			Pattern: types.EnumPattern{Enum: enumType, Member: a.MemberName},
			TypeVar: typeVar,
		}
		return c.record(a, pat), nil

	case *ast.ObjectLiteral:
		props := make([]types.ObjectProperty, len(a.Properties))
		for i, p := range a.Properties {
			valType, err := c.collectExpr(p.Value, sc)
			if err != nil {
				return nil, err
			}
			props[i] = types.ObjectProperty{Name: p.Name, Value: valType}
		}
		return c.record(a, types.ObjectType{Properties: props}), nil

	case *ast.ArrayLiteral:
		elemVar := c.namer.FreshVar()
		for _, elem := range a.Elements {
			elemType, err := c.collectExpr(elem, sc)
			if err != nil {
				return nil, err
			}
			c.emit(sc, elemType, elemVar, scope.Equality)
		}
		return c.record(a, types.TypeReference{Base: types.NativeType{Kind: types.KArray}, Args: []types.Type{elemVar}}), nil

	case *ast.FunctionExpression:
		funcScope, ok := c.bind.NodeScope[a]
		if !ok {
			funcScope = sc
		}
		sym, ok := sc.LookupType(a.Identifier)
		if !ok {
			return nil, diagnostics.NewCollector(diagnostics.ErrC001, a.Tok, a.Identifier)
		}
		fnType, _ := sym.Type.(types.FunctionType)

		var bodyType types.Type
		if a.Body != nil {
			t, err := c.collectFunctionBody(a.Body, funcScope)
			if err != nil {
				return nil, err
			}
			bodyType = t
		} else {
			t, err := c.collectExpr(a.BodyExpr, funcScope)
			if err != nil {
				return nil, err
			}
			bodyType = t
		}
		c.emit(funcScope, fnType.ReturnType, bodyType, scope.Equality)
		return c.record(a, fnType), nil

	case *ast.IfElseExpression:
		condType, err := c.collectExpr(a.Condition, sc)
		if err != nil {
			return nil, err
		}
		c.emit(sc, condType, types.NativeType{Kind: types.KBoolean}, scope.Equality)

		thenType, err := c.collectBlock(a.Then, sc)
		if err != nil {
			return nil, err
		}
		if a.Else != nil {
			elseType, err := c.collectBlock(a.Else, sc)
			if err != nil {
				return nil, err
			}
			c.emit(sc, thenType, elseType, scope.Equality)
		}
		return c.record(a, thenType), nil

	case *ast.MatchExpression:
		subjectType, err := c.collectExpr(a.Subject, sc)
		if err != nil {
			return nil, err
		}
		resultVar := c.namer.FreshVar()
		for _, clause := range a.Clauses {
			clauseScope, ok := c.bind.NodeScope[clause]
			if !ok {
				clauseScope = sc
			}
			patType, err := c.collectExpr(clause.Pattern, clauseScope)
			if err != nil {
				return nil, err
			}
			// Per decision: clause constraints are emitted in the match's
			// enclosing scope, not the clause's own child scope.
			c.emit(sc, subjectType, patType, scope.Subset)

			bodyType, err := c.collectExpr(clause.Body, clauseScope)
			if err != nil {
				return nil, err
			}
			c.emit(sc, resultVar, bodyType, scope.Equality)
		}
		return c.record(a, resultVar), nil

	case *ast.Block:
		return c.collectBlock(a, sc)

	case *ast.CallExpression:
		calleeType, err := c.collectExpr(a.Callee, sc)
		if err != nil {
			return nil, err
		}
		// Spec §4.2: a callee that has already resolved to something
		// other than a function (or an as-yet-unresolved placeholder) is
		// NotCallable — this must surface here, before the constraint
		// ever reaches the unifier, or it reads back as the unrelated
		// CouldNotUnify.
		switch calleeType.(type) {
		case types.FunctionType, types.TypeVariable, types.Identifier:
			// callable, or not resolved enough yet to say otherwise
		default:
			return nil, diagnostics.NewCollector(diagnostics.ErrC002, a.Tok, calleeType.String())
		}
		argTypes := make([]types.Type, len(a.Args))
		for i, arg := range a.Args {
			t, err := c.collectExpr(arg, sc)
			if err != nil {
				return nil, err
			}
			argTypes[i] = t
		}
		retVar := c.namer.FreshVar()
		callType := types.FunctionCallType{Callee: calleeType, Arguments: argTypes, ReturnType: retVar}
		c.emit(sc, callType, calleeType, scope.Equality)
		return c.record(a, retVar), nil

	case *ast.DotCallExpression:
		leftType, err := c.collectExpr(a.Left, sc)
		if err != nil {
			return nil, err
		}
		switch lt := leftType.(type) {
		case types.ObjectType:
			if val, ok := lt.Lookup(a.Right); ok {
				return c.record(a, val), nil
			}
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, "object", a.Right)
		case *types.EnumType:
			member := lt.MemberByName(a.Right)
			if member == nil {
				return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, lt.Identifier, a.Right)
			}
			return c.record(a, types.EnumCallType{Enum: lt, Member: a.Right}), nil
		case types.TypeVariable:
			fieldVar := c.namer.FreshVar()
			objType := types.ObjectType{Properties: []types.ObjectProperty{{Name: a.Right, Value: fieldVar}}}
			c.emit(sc, leftType, objType, scope.Subset)
			return c.record(a, fieldVar), nil
		default:
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, leftType.String(), a.Right)
		}

	case *ast.IndexAccessExpression:
		leftType, err := c.collectExpr(a.Left, sc)
		if err != nil {
			return nil, err
		}
		indexType, err := c.collectExpr(a.Index, sc)
		if err != nil {
			return nil, err
		}
		c.emit(sc, indexType, types.NativeType{Kind: types.KNumber}, scope.Equality)
		elemVar := c.namer.FreshVar()
		c.emit(sc, leftType, types.TypeReference{Base: types.NativeType{Kind: types.KArray}, Args: []types.Type{elemVar}}, scope.Equality)
		return c.record(a, elemVar), nil

	case *ast.EnumCallExpression:
		enumType, err := c.collectExpr(a.Enum, sc)
		if err != nil {
			return nil, err
		}
		argTypes := make([]types.Type, len(a.Args))
		for i, arg := range a.Args {
			t, err := c.collectExpr(arg, sc)
			if err != nil {
				return nil, err
			}
			argTypes[i] = t
		}
		et, ok := enumType.(*types.EnumType)
		if !ok {
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, enumType.String(), a.Member)
		}
		if et.MemberByName(a.Member) == nil {
			return nil, diagnostics.NewCollector(diagnostics.ErrC003, a.Tok, et.Identifier, a.Member)
		}
		return c.record(a, types.EnumCallType{Enum: et, Member: a.Member, Arguments: argTypes}), nil

	case *ast.BinaryOperation:
		leftType, err := c.collectExpr(a.Left, sc)
		if err != nil {
			return nil, err
		}
		rightType, err := c.collectExpr(a.Right, sc)
		if err != nil {
			return nil, err
		}
		switch a.Operator {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpPow:
			c.emit(sc, leftType, types.NativeType{Kind: types.KNumber}, scope.Equality)
			c.emit(sc, rightType, types.NativeType{Kind: types.KNumber}, scope.Equality)
			return c.record(a, types.NativeType{Kind: types.KNumber}), nil
		case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
			c.emit(sc, leftType, types.NativeType{Kind: types.KNumber}, scope.Equality)
			c.emit(sc, rightType, types.NativeType{Kind: types.KNumber}, scope.Equality)
			return c.record(a, types.NativeType{Kind: types.KBoolean}), nil
		case ast.OpAnd, ast.OpOr:
			c.emit(sc, leftType, types.NativeType{Kind: types.KBoolean}, scope.Equality)
			c.emit(sc, rightType, types.NativeType{Kind: types.KBoolean}, scope.Equality)
			return c.record(a, types.NativeType{Kind: types.KBoolean}), nil
		default: // OpEq, OpNotEq
			c.emit(sc, leftType, rightType, scope.Equality)
			return c.record(a, types.NativeType{Kind: types.KBoolean}), nil
		}

	case *ast.UnaryOperation:
		operandType, err := c.collectExpr(a.Operand, sc)
		if err != nil {
			return nil, err
		}
		if a.Operator == "!" {
			c.emit(sc, operandType, types.NativeType{Kind: types.KBoolean}, scope.Equality)
			return c.record(a, types.NativeType{Kind: types.KBoolean}), nil
		}
		c.emit(sc, operandType, types.NativeType{Kind: types.KNumber}, scope.Equality)
		return c.record(a, types.NativeType{Kind: types.KNumber}), nil

	default:
		return nil, diagnostics.NewCollector(diagnostics.ErrC001, e.GetToken(), "<unsupported expression>")
	}
}

// collectFunctionBody collects a block body without creating a new scope
// (the function's parameters and body share one scope, spec testable
// property 4), returning the type of the final statement.
func (c *collector) collectFunctionBody(blk *ast.Block, funcScope *scope.Scope) (types.Type, *diagnostics.DiagnosticError) {
	var last types.Type = types.NativeType{Kind: types.KVoid}
	for i, stmt := range blk.Body {
		if err := c.collectStatement(stmt, funcScope); err != nil {
			return nil, err
		}
		if i == len(blk.Body)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				last = c.typeMap[es.Expression]
			} else if inner, ok := stmt.(*ast.Block); ok {
				last = c.typeMap[inner]
			}
		}
	}
	return c.record(blk, last), nil
}
