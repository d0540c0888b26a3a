// Package types implements the single recursive Type AST (spec §3.1) that
// underlies every type expression the binder installs, the collector
// emits, and the unifier solves.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is implemented by every variant of the Type AST.
type Type interface {
	String() string
	typeNode()
}

// NativeKind enumerates the built-in scalar kinds.
type NativeKind string

const (
	KString  NativeKind = "string"
	KNumber  NativeKind = "number"
	KBoolean NativeKind = "boolean"
	KVoid    NativeKind = "void"
	KArray   NativeKind = "array"
	KObject  NativeKind = "object"
	KUnknown NativeKind = "unknown"
)

// NativeType is a built-in scalar.
type NativeType struct{ Kind NativeKind }

func (NativeType) typeNode()         {}
func (n NativeType) String() string  { return string(n.Kind) }

// LiteralType pins a type to a single literal string value (e.g. a
// string-literal discriminator in a record field).
type LiteralType struct{ Value string }

func (LiteralType) typeNode()        {}
func (l LiteralType) String() string { return fmt.Sprintf("%q", l.Value) }

// TypeVariable is an unsolved type — "inference required." Names are
// globally unique within one compilation (spec §3.1 invariant).
type TypeVariable struct{ Name string }

func (TypeVariable) typeNode()        {}
func (t TypeVariable) String() string { return t.Name }

// Identifier is a named type reference awaiting resolution through the
// scope graph.
type Identifier struct{ Name string }

func (Identifier) typeNode()        {}
func (i Identifier) String() string { return i.Name }

// TypeReference is a generic application `Base<Args...>`.
type TypeReference struct {
	Base Type
	Args []Type
}

func (TypeReference) typeNode() {}
func (t TypeReference) String() string {
	if len(t.Args) == 0 {
		return t.Base.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Base.String(), strings.Join(parts, ", "))
}

// ParameterType is a single FunctionType parameter.
type ParameterType struct {
	Identifier string
	Annotation Type
	IsSpread   bool
}

func (ParameterType) typeNode() {}
func (p ParameterType) String() string {
	spread := ""
	if p.IsSpread {
		spread = "..."
	}
	return fmt.Sprintf("%s%s: %s", spread, p.Identifier, p.Annotation.String())
}

// FunctionType is a function's signature.
type FunctionType struct {
	Params     []ParameterType
	ReturnType Type
	Identifier string // the declaration's stable name, if any
}

func (FunctionType) typeNode() {}
func (f FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Annotation.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.ReturnType.String())
}

// FunctionCallType is the shape of a call site: what was called, with
// what, expecting what return.
type FunctionCallType struct {
	Callee     Type
	Arguments  []Type
	ReturnType Type
}

func (FunctionCallType) typeNode() {}
func (f FunctionCallType) String() string {
	parts := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("call(%s)(%s) -> %s", f.Callee.String(), strings.Join(parts, ", "), f.ReturnType.String())
}

// ObjectProperty is one (name, value) entry of an ObjectType, kept in
// source-position order (spec §5 ordering guarantee).
type ObjectProperty struct {
	Name  string
	Value Type
}

// ObjectType is a record: an ordered property list plus an optional
// identifier (set when the record came from a named type declaration).
type ObjectType struct {
	Properties []ObjectProperty
	Identifier string
}

func (ObjectType) typeNode() {}
func (o ObjectType) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Value.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Lookup returns the property named `name` and whether it was found.
func (o ObjectType) Lookup(name string) (Type, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// VariantType is a bare sum of alternative types (used for inline unions;
// EnumType is the named-declaration form, spec §3.1).
type VariantType struct{ Alternatives []Type }

func (VariantType) typeNode() {}
func (v VariantType) String() string {
	parts := make([]string, len(v.Alternatives))
	for i, a := range v.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// EnumMemberType is one constructor of an EnumType.
type EnumMemberType struct {
	Identifier string
	// Params are the member's payload parameter types, in declaration
	// order. Spec §9 Open Question (a): only the first is fully handled
	// by PatternType unification.
	Params []Type
}

func (EnumMemberType) typeNode() {}
func (e EnumMemberType) String() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf(":%s", e.Identifier)
	}
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf(":%s(%s)", e.Identifier, strings.Join(parts, ", "))
}

// EnumType is a named ADT declaration. Its identity for unification
// purposes is pointer identity in the owning scope's type table — two
// EnumType values with the same shape but distinct declarations are
// distinct enums (spec §4.3 rule 5/6).
type EnumType struct {
	Identifier string
	TypeParams []string
	Members    []*EnumMemberType
}

func (*EnumType) typeNode() {}
func (e *EnumType) String() string {
	if len(e.TypeParams) == 0 {
		return e.Identifier
	}
	return fmt.Sprintf("%s<%s>", e.Identifier, strings.Join(e.TypeParams, ", "))
}

// MemberByName returns the member named `name`, or nil.
func (e *EnumType) MemberByName(name string) *EnumMemberType {
	for _, m := range e.Members {
		if m.Identifier == name {
			return m
		}
	}
	return nil
}

// EnumCallType is the type of a value constructed by applying a variant
// to arguments: `Enum.Member(args)`.
type EnumCallType struct {
	Enum      *EnumType
	Member    string
	Arguments []Type
}

func (EnumCallType) typeNode() {}
func (e EnumCallType) String() string {
	parts := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", e.Enum.Identifier, e.Member, strings.Join(parts, ", "))
}

// EnumPattern is the match-pattern form naming a specific variant.
type EnumPattern struct {
	Enum   *EnumType
	Member string
}

func (EnumPattern) typeNode() {}
func (e EnumPattern) String() string { return fmt.Sprintf("%s.%s(_)", e.Enum.Identifier, e.Member) }

// PatternType wraps a destructuring pattern and the fresh variable bound
// to whatever it extracts from the matched value.
type PatternType struct {
	Pattern Type // an EnumPattern, or other pattern-shaped type
	TypeVar TypeVariable
}

func (PatternType) typeNode() {}
func (p PatternType) String() string { return fmt.Sprintf("%s as %s", p.Pattern.String(), p.TypeVar.String()) }

// Subst is a substitution mapping a type-variable name to its current
// type expression. It is a plain map: a binding may name another
// variable, and Apply follows such chains each time without compressing
// them.
type Subst map[string]Type

// Apply rewrites every TypeVariable/Identifier occurrence of t found in s,
// recursively, with cycle protection.
func Apply(t Type, s Subst) Type {
	return applyVisited(t, s, map[string]bool{})
}

func applyVisited(t Type, s Subst, visited map[string]bool) Type {
	switch v := t.(type) {
	case TypeVariable:
		if visited[v.Name] {
			return v
		}
		if repl, ok := s[v.Name]; ok {
			if tv, ok := repl.(TypeVariable); ok && tv.Name == v.Name {
				return v
			}
			nv := copyVisited(visited)
			nv[v.Name] = true
			return applyVisited(repl, s, nv)
		}
		return v
	case Identifier:
		if repl, ok := s[v.Name]; ok {
			return applyVisited(repl, s, visited)
		}
		return v
	case TypeReference:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = applyVisited(a, s, visited)
		}
		return TypeReference{Base: applyVisited(v.Base, s, visited), Args: args}
	case FunctionType:
		params := make([]ParameterType, len(v.Params))
		for i, p := range v.Params {
			params[i] = ParameterType{Identifier: p.Identifier, Annotation: applyVisited(p.Annotation, s, visited), IsSpread: p.IsSpread}
		}
		return FunctionType{Params: params, ReturnType: applyVisited(v.ReturnType, s, visited), Identifier: v.Identifier}
	case FunctionCallType:
		args := make([]Type, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = applyVisited(a, s, visited)
		}
		return FunctionCallType{Callee: applyVisited(v.Callee, s, visited), Arguments: args, ReturnType: applyVisited(v.ReturnType, s, visited)}
	case ObjectType:
		props := make([]ObjectProperty, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = ObjectProperty{Name: p.Name, Value: applyVisited(p.Value, s, visited)}
		}
		return ObjectType{Properties: props, Identifier: v.Identifier}
	case VariantType:
		alts := make([]Type, len(v.Alternatives))
		for i, a := range v.Alternatives {
			alts[i] = applyVisited(a, s, visited)
		}
		return VariantType{Alternatives: alts}
	case EnumCallType:
		args := make([]Type, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = applyVisited(a, s, visited)
		}
		return EnumCallType{Enum: v.Enum, Member: v.Member, Arguments: args}
	case PatternType:
		tv := applyVisited(v.TypeVar, s, visited)
		resolvedTV, _ := tv.(TypeVariable)
		return PatternType{Pattern: applyVisited(v.Pattern, s, visited), TypeVar: resolvedTV}
	default:
		return t
	}
}

func copyVisited(v map[string]bool) map[string]bool {
	nv := make(map[string]bool, len(v)+1)
	for k := range v {
		nv[k] = true
	}
	return nv
}

// FreeTypeVariables returns every TypeVariable name reachable from t, in
// a deterministic (sorted) order. Used by tests asserting variable
// uniqueness (spec §8.6).
func FreeTypeVariables(t Type) []string {
	seen := map[string]bool{}
	collectFreeVars(t, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectFreeVars(t Type, seen map[string]bool) {
	switch v := t.(type) {
	case TypeVariable:
		seen[v.Name] = true
	case TypeReference:
		collectFreeVars(v.Base, seen)
		for _, a := range v.Args {
			collectFreeVars(a, seen)
		}
	case FunctionType:
		for _, p := range v.Params {
			collectFreeVars(p.Annotation, seen)
		}
		collectFreeVars(v.ReturnType, seen)
	case FunctionCallType:
		collectFreeVars(v.Callee, seen)
		for _, a := range v.Arguments {
			collectFreeVars(a, seen)
		}
		collectFreeVars(v.ReturnType, seen)
	case ObjectType:
		for _, p := range v.Properties {
			collectFreeVars(p.Value, seen)
		}
	case VariantType:
		for _, a := range v.Alternatives {
			collectFreeVars(a, seen)
		}
	case EnumCallType:
		for _, a := range v.Arguments {
			collectFreeVars(a, seen)
		}
	case PatternType:
		collectFreeVars(v.Pattern, seen)
		seen[v.TypeVar.Name] = true
	}
}

// NativeByName maps the three root-scope native type names to their
// NativeType (spec §3.2: "root scope is created with string/number/boolean
// pre-installed").
func NativeByName(name string) (NativeType, bool) {
	switch name {
	case "string":
		return NativeType{Kind: KString}, true
	case "number":
		return NativeType{Kind: KNumber}, true
	case "boolean":
		return NativeType{Kind: KBoolean}, true
	}
	return NativeType{}, false
}
