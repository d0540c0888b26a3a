// Package scope implements the scope graph (spec §3.2): the tree of
// lexical scopes the binder constructs and the collector reads from and
// appends constraints to. The unifier keeps its bindings in a separate
// types.Subst; ApplySubstitutions then rewrites symbol types in place.
package scope

import (
	"fmt"

	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/types"
)

// Kind distinguishes the value namespace from the type namespace. Per
// spec §3.2, "no two symbols of the same kind may share a name within one
// scope" — the two namespaces are independent.
type Kind int

const (
	ValueKind Kind = iota
	TypeKind
)

// Symbol is a name bound in a Scope.
type Symbol struct {
	Name string
	Type types.Type
	Kind Kind
	// Scope is a weak back-reference to the owning scope, used only for
	// diagnostics — never a new ownership edge (spec §3.2).
	Scope *Scope
	// DefinitionNode is the AST node that introduced this symbol, if any.
	DefinitionNode ast.Node
}

// ConstraintKind is Equality or Subset (spec §3.3).
type ConstraintKind int

const (
	Equality ConstraintKind = iota
	Subset
)

func (k ConstraintKind) String() string {
	if k == Subset {
		return "Subset"
	}
	return "Equality"
}

// Constraint is one `(left, right, scope, kind)` triple emitted by the
// collector. Equality requires exact unification; Subset requires
// `left ⊆ right` (spec §3.3, structural subset rule §4.3).
type Constraint struct {
	Left  types.Type
	Right types.Type
	Scope *Scope
	Kind  ConstraintKind
}

// Scope is one lexical region: a program, block, function body, if/else
// branch, match clause, enum declaration, or type declaration.
//
// Scopes are owned by their parent; the tree is acyclic by construction.
// Symbols are owned by the scope that declares them; a Symbol's back-
// reference to its Scope is weak (diagnostics only).
type Scope struct {
	Parent   *Scope
	Children []*Scope

	values map[string]*Symbol
	types  map[string]*Symbol

	// insertion order, so iteration (e.g. apply_substitutions' table
	// walk) is deterministic.
	valueOrder []string
	typeOrder  []string

	Constraints []*Constraint
}

// NewRoot creates the root scope with the built-in native types
// pre-installed (spec §3.2).
func NewRoot() *Scope {
	root := newEmpty(nil)
	for _, name := range []string{"string", "number", "boolean"} {
		native, _ := types.NativeByName(name)
		sym := &Symbol{Name: name, Type: native, Kind: TypeKind}
		sym.Scope = root
		root.types[name] = sym
		root.typeOrder = append(root.typeOrder, name)
	}
	return root
}

func newEmpty(parent *Scope) *Scope {
	return &Scope{
		Parent: parent,
		values: make(map[string]*Symbol),
		types:  make(map[string]*Symbol),
	}
}

// NewChild creates a new scope owned by this scope and appends it to the
// ordered child list.
func (s *Scope) NewChild() *Scope {
	child := newEmpty(s)
	s.Children = append(s.Children, child)
	return child
}

// RedeclarationError reports that `name` is already bound, either in this
// scope or in an ancestor (shadowing is forbidden, spec §3.2).
type RedeclarationError struct {
	Name string
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("'%s' is already declared", e.Name)
}

// DefineValue installs a value symbol, failing if `name` is already bound
// as a value anywhere from this scope up to the root (redeclaration and
// shadowing are both forbidden).
func (s *Scope) DefineValue(name string, t types.Type, node ast.Node) (*Symbol, error) {
	if _, found := s.lookupInChain(name, ValueKind); found {
		return nil, &RedeclarationError{Name: name}
	}
	sym := &Symbol{Name: name, Type: t, Kind: ValueKind, Scope: s, DefinitionNode: node}
	s.values[name] = sym
	s.valueOrder = append(s.valueOrder, name)
	return sym, nil
}

// DefineType installs a type symbol under the same redeclaration rule as
// DefineValue, but in the independent type namespace.
func (s *Scope) DefineType(name string, t types.Type, node ast.Node) (*Symbol, error) {
	if _, found := s.lookupInChain(name, TypeKind); found {
		return nil, &RedeclarationError{Name: name}
	}
	sym := &Symbol{Name: name, Type: t, Kind: TypeKind, Scope: s, DefinitionNode: node}
	s.types[name] = sym
	s.typeOrder = append(s.typeOrder, name)
	return sym, nil
}

func (s *Scope) lookupInChain(name string, kind Kind) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		var sym *Symbol
		var ok bool
		if kind == ValueKind {
			sym, ok = cur.values[name]
		} else {
			sym, ok = cur.types[name]
		}
		if ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupValue resolves `name` as a value, searching this scope then each
// ancestor in turn.
func (s *Scope) LookupValue(name string) (*Symbol, bool) {
	return s.lookupInChain(name, ValueKind)
}

// LookupType resolves `name` as a type, searching this scope then each
// ancestor in turn.
func (s *Scope) LookupType(name string) (*Symbol, bool) {
	return s.lookupInChain(name, TypeKind)
}

// OwnValue/OwnType return the symbol if it is declared directly in this
// scope (no ancestor search) — used by tests asserting sibling isolation
// and by tests that look a symbol up in one scope of the tree.
func (s *Scope) OwnValue(name string) (*Symbol, bool) {
	sym, ok := s.values[name]
	return sym, ok
}

func (s *Scope) OwnType(name string) (*Symbol, bool) {
	sym, ok := s.types[name]
	return sym, ok
}

// ValueSymbols returns this scope's own value symbols in declaration
// order (not including ancestors).
func (s *Scope) ValueSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.valueOrder))
	for _, n := range s.valueOrder {
		out = append(out, s.values[n])
	}
	return out
}

// TypeSymbols returns this scope's own type symbols in declaration order.
func (s *Scope) TypeSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.typeOrder))
	for _, n := range s.typeOrder {
		out = append(out, s.types[n])
	}
	return out
}

// AddConstraint appends a constraint to this scope's ordered list (the
// collector is the sole emitter; order is emission order, spec §5) and
// returns it so the caller can also track it in a single flat,
// chronological emission-order list (scope-tree walk order does not
// always match emission order once scopes nest).
func (s *Scope) AddConstraint(left, right types.Type, kind ConstraintKind) *Constraint {
	c := &Constraint{Left: left, Right: right, Scope: s, Kind: kind}
	s.Constraints = append(s.Constraints, c)
	return c
}

// Walk invokes fn on this scope and every descendant, pre-order. Used by
// AllConstraints and by the substitution post-pass, ApplySubstitutions
// (spec §4.3).
func (s *Scope) Walk(fn func(*Scope)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// AllConstraints gathers every scope's constraints across the whole tree,
// in scope-emission order (pre-order, matching Walk).
func (s *Scope) AllConstraints() []*Constraint {
	var out []*Constraint
	s.Walk(func(sc *Scope) {
		out = append(out, sc.Constraints...)
	})
	return out
}
