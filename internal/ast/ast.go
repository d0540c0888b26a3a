// Package ast defines the AST node shapes the binder, collector, and
// unifier dispatch on. Nodes are produced by the lexer/parser scaffolding
// and are treated as mutable only for attaching scope/type annotations —
// never restructured once built.
package ast

import (
	"github.com/orbital-lang/funxy/internal/token"
	"github.com/orbital-lang/funxy/internal/types"
)

// TypeExpr is a surface-syntax type annotation, expressed directly in the
// shared Type AST (spec §3.1) — the parser only ever produces the
// Identifier/TypeReference/FunctionType/ObjectType subset; EnumType and
// friends are installed later by the binder.
type TypeExpr = types.Type

// Node is the base interface every AST shape implements.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node appearing in a block's body-item list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node producing a value.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is shared by destructuring bindings and match clauses; it uses
// the same grammar as Expression (identifier, array/object literal, enum
// call) per spec §4.2 "Pattern collection is identical to expression
// collection."
type Pattern = Expression

// Program is the root of every AST the core consumes. It must carry a
// ModuleDecl or the driver boundary rejects it with MissingModule.
type Program struct {
	Tok        token.Token
	Module     *ModuleDecl // nil => driver-level MissingModule error
	Opens      []string
	Imports    []string
	Body       []Statement
}

func (p *Program) GetToken() token.Token { return p.Tok }

// ModuleDecl is `module A.B.C`.
type ModuleDecl struct {
	Tok       token.Token
	Namespace string // dotted, e.g. "A.B.C"
}

func (m *ModuleDecl) GetToken() token.Token { return m.Tok }

// ExpressionStatement wraps a bare expression appearing in a body-item
// list (e.g. a call made for its side effect).
type ExpressionStatement struct {
	Tok        token.Token
	Expression Expression
}

func (e *ExpressionStatement) GetToken() token.Token { return e.Tok }
func (e *ExpressionStatement) statementNode()        {}

// Block is a `{ ... }` body-item list forming its own lexical scope.
type Block struct {
	Tok  token.Token
	Body []Statement
}

func (b *Block) GetToken() token.Token { return b.Tok }
func (b *Block) statementNode()        {}
func (b *Block) expressionNode()       {} // a block is also usable as an expression (last item's value)

// ConstDecl is `const <name|pattern>[: Type] = <expr>`.
type ConstDecl struct {
	Tok            token.Token
	Name           *Identifier // flat binding form
	BindPattern    Pattern     // destructuring form (mutually exclusive with Name)
	TypeAnnotation TypeExpr    // optional
	Value          Expression
}

func (c *ConstDecl) GetToken() token.Token { return c.Tok }
func (c *ConstDecl) statementNode()        {}

// Parameter is one entry of a FunctionExpression's parameter list.
type Parameter struct {
	Tok            token.Token
	Name           *Identifier
	TypeAnnotation TypeExpr // optional
	IsSpread       bool
}

func (p *Parameter) GetToken() token.Token { return p.Tok }

// FunctionExpression is `(params) => body` or `(params): RetType => body`.
type FunctionExpression struct {
	Tok        token.Token
	Identifier string // stable name, assigned by the binder if empty (fn0, fn1, ...)
	Params     []*Parameter
	ReturnType TypeExpr // optional annotation
	Body       *Block
	BodyExpr   Expression // single-expression body form, mutually exclusive with Body
}

func (f *FunctionExpression) GetToken() token.Token { return f.Tok }
func (f *FunctionExpression) expressionNode()       {}

// EnumMemberDecl is one constructor of an EnumDecl, e.g. `:Some(value)`.
type EnumMemberDecl struct {
	Tok    token.Token
	Name   string
	Params []TypeExpr // payload types, in declared order (0 = nullary)
}

// EnumDecl is `type Name[<TypeParams>] = :A | :B(T) | ...`.
type EnumDecl struct {
	Tok           token.Token
	Name          string
	TypeParams    []string
	Members       []*EnumMemberDecl
}

func (e *EnumDecl) GetToken() token.Token { return e.Tok }
func (e *EnumDecl) statementNode()        {}

// TypeDecl is a plain (non-enum) type alias: `type Name[<TypeParams>] = <Type>`.
type TypeDecl struct {
	Tok        token.Token
	Name       string
	TypeParams []string
	Value      TypeExpr
}

func (t *TypeDecl) GetToken() token.Token { return t.Tok }
func (t *TypeDecl) statementNode()        {}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Tok      token.Token
	Callee   Expression
	Args     []Expression
}

func (c *CallExpression) GetToken() token.Token { return c.Tok }
func (c *CallExpression) expressionNode()       {}

// DotCallExpression is `left.right` (field access, enum member ref, or
// partial record inference when left is unresolved).
type DotCallExpression struct {
	Tok   token.Token
	Left  Expression
	Right string
}

func (d *DotCallExpression) GetToken() token.Token { return d.Tok }
func (d *DotCallExpression) expressionNode()       {}

// IndexAccessExpression is `left[index]`.
type IndexAccessExpression struct {
	Tok   token.Token
	Left  Expression
	Index Expression
}

func (i *IndexAccessExpression) GetToken() token.Token { return i.Tok }
func (i *IndexAccessExpression) expressionNode()       {}

// EnumCallExpression is `Enum.Member(args...)` — syntactically a
// DotCallExpression immediately applied; the parser produces this shape
// directly once it recognizes the pattern to simplify collection.
type EnumCallExpression struct {
	Tok    token.Token
	Enum   Expression // identifier naming the enum
	Member string
	Args   []Expression
}

func (e *EnumCallExpression) GetToken() token.Token { return e.Tok }
func (e *EnumCallExpression) expressionNode()       {}

// IfElseExpression is `if cond { ... } else { ... }`. Both branches bind
// their own child scope of the expression's enclosing scope (siblings).
type IfElseExpression struct {
	Tok       token.Token
	Condition Expression
	Then      *Block
	Else      *Block // nil for a bodyless `if` used as a statement
}

func (i *IfElseExpression) GetToken() token.Token { return i.Tok }
func (i *IfElseExpression) expressionNode()        {}

// MatchClause is one `pattern => body` arm of a MatchExpression.
type MatchClause struct {
	Tok     token.Token
	Pattern Pattern
	Body    Expression
}

// MatchExpression is `match subject { clause, clause, ... }`.
type MatchExpression struct {
	Tok     token.Token
	Subject Expression
	Clauses []*MatchClause
}

func (m *MatchExpression) GetToken() token.Token { return m.Tok }
func (m *MatchExpression) expressionNode()        {}

// BinaryOperator enumerates the fixed operator regimes of spec §4.2.
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpPow BinaryOperator = "**"

	OpLt   BinaryOperator = "<"
	OpLtEq BinaryOperator = "<="
	OpGt   BinaryOperator = ">"
	OpGtEq BinaryOperator = ">="

	OpAnd BinaryOperator = "&&"
	OpOr  BinaryOperator = "||"

	OpEq    BinaryOperator = "=="
	OpNotEq BinaryOperator = "!="
)

// BinaryOperation is `left op right`.
type BinaryOperation struct {
	Tok      token.Token
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (b *BinaryOperation) GetToken() token.Token { return b.Tok }
func (b *BinaryOperation) expressionNode()        {}

// UnaryOperation is `op operand` (`!` or unary `-`).
type UnaryOperation struct {
	Tok      token.Token
	Operator string
	Operand  Expression
}

func (u *UnaryOperation) GetToken() token.Token { return u.Tok }
func (u *UnaryOperation) expressionNode()        {}

// Identifier is a bare name reference, used both as an expression and
// (per spec §4.2) as an irrefutable binding pattern.
type Identifier struct {
	Tok   token.Token
	Name  string
}

func (i *Identifier) GetToken() token.Token { return i.Tok }
func (i *Identifier) expressionNode()        {}

// PrimitiveKind is the literal-value discriminator collected to NativeType.
type PrimitiveKind string

const (
	PrimString  PrimitiveKind = "string"
	PrimNumber  PrimitiveKind = "number"
	PrimBoolean PrimitiveKind = "boolean"
)

// PrimitiveValue is a literal string/number/boolean.
type PrimitiveValue struct {
	Tok  token.Token
	Kind PrimitiveKind
}

func (p *PrimitiveValue) GetToken() token.Token { return p.Tok }
func (p *PrimitiveValue) expressionNode()        {}

// TemplateSpan is one `${expr}` hole inside a TemplateLiteral.
type TemplateSpan struct {
	Tok   token.Token
	Value Expression
}

// TemplateLiteral is a backtick string with zero or more embedded spans.
// It always collects to NativeType(string).
type TemplateLiteral struct {
	Tok   token.Token
	Spans []*TemplateSpan
}

func (t *TemplateLiteral) GetToken() token.Token { return t.Tok }
func (t *TemplateLiteral) expressionNode()        {}

// ObjectProperty is one `name: value` entry of an ObjectLiteral, ordered
// by source position per spec §5 ordering guarantees.
type ObjectProperty struct {
	Name  string
	Value Expression
}

// ObjectLiteral is `{ name: value, ... }`.
type ObjectLiteral struct {
	Tok        token.Token
	Properties []*ObjectProperty
}

func (o *ObjectLiteral) GetToken() token.Token { return o.Tok }
func (o *ObjectLiteral) expressionNode()        {}

// ArrayLiteral is `[ expr, ... ]`.
type ArrayLiteral struct {
	Tok      token.Token
	Elements []Expression
}

func (a *ArrayLiteral) GetToken() token.Token { return a.Tok }
func (a *ArrayLiteral) expressionNode()       {}

// ObjectDestructure is the object-pattern form `{a, b}` used in a
// ConstDecl.BindPattern or MatchClause.Pattern.
type ObjectDestructure struct {
	Tok    token.Token
	Fields []string
}

func (o *ObjectDestructure) GetToken() token.Token { return o.Tok }
func (o *ObjectDestructure) expressionNode()       {}

// ArrayDestructure is the array-pattern form `[a, b]`.
type ArrayDestructure struct {
	Tok      token.Token
	Elements []*Identifier
}

func (a *ArrayDestructure) GetToken() token.Token { return a.Tok }
func (a *ArrayDestructure) expressionNode()        {}

// EnumDestructure is the enum-member pattern form `Enum.Member(x)`, used
// both as a match clause pattern and as a ConstDecl destructuring target.
type EnumDestructure struct {
	Tok        token.Token
	EnumName   string
	MemberName string
	Bindings   []*Identifier
}

func (e *EnumDestructure) GetToken() token.Token { return e.Tok }
func (e *EnumDestructure) expressionNode()        {}
