package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/orbital-lang/funxy/internal/types"
)

func TestApply_SubstitutesTypeVariable(t *testing.T) {
	subst := types.Subst{"t0": types.NativeType{Kind: types.KNumber}}
	got := types.Apply(types.TypeVariable{Name: "t0"}, subst)

	want := types.Type(types.NativeType{Kind: types.KNumber})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_Recursive(t *testing.T) {
	subst := types.Subst{
		"t0": types.TypeVariable{Name: "t1"},
		"t1": types.NativeType{Kind: types.KString},
	}
	got := types.Apply(types.TypeVariable{Name: "t0"}, subst)
	if got.String() != "string" {
		t.Errorf("expected chained substitution to resolve to string, got %s", got.String())
	}
}

func TestApply_ThroughFunctionType(t *testing.T) {
	fn := types.FunctionType{
		Params:     []types.ParameterType{{Identifier: "x", Annotation: types.TypeVariable{Name: "t0"}}},
		ReturnType: types.TypeVariable{Name: "t0"},
	}
	subst := types.Subst{"t0": types.NativeType{Kind: types.KNumber}}
	got := types.Apply(fn, subst).(types.FunctionType)

	if got.Params[0].Annotation.String() != "number" || got.ReturnType.String() != "number" {
		t.Errorf("expected both param and return substituted to number, got %s", got.String())
	}
}

// Idempotency: re-applying the same substitution to an already-applied
// type changes nothing (spec testable property 5).
func TestApply_Idempotent(t *testing.T) {
	subst := types.Subst{"t0": types.NativeType{Kind: types.KBoolean}}
	once := types.Apply(types.TypeVariable{Name: "t0"}, subst)
	twice := types.Apply(once, subst)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("applying substitution twice should be a no-op (-once +twice):\n%s", diff)
	}
}

func TestApply_NoSelfBindingCycle(t *testing.T) {
	// A variable bound to itself must not recurse forever.
	subst := types.Subst{"t0": types.TypeVariable{Name: "t0"}}
	got := types.Apply(types.TypeVariable{Name: "t0"}, subst)
	if got.String() != "t0" {
		t.Errorf("expected self-bound variable to remain t0, got %s", got.String())
	}
}

func TestFreeTypeVariables_Sorted(t *testing.T) {
	fn := types.FunctionType{
		Params: []types.ParameterType{
			{Identifier: "a", Annotation: types.TypeVariable{Name: "t2"}},
			{Identifier: "b", Annotation: types.TypeVariable{Name: "t0"}},
		},
		ReturnType: types.TypeVariable{Name: "t1"},
	}
	got := types.FreeTypeVariables(fn)
	want := []string{"t0", "t1", "t2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FreeTypeVariables mismatch (-want +got):\n%s", diff)
	}
}

// Every fresh variable minted across a single compilation is unique
// (spec testable property 6): FreeTypeVariables over a type built from
// several distinct TypeVariable values never collapses names.
func TestFreeTypeVariables_NoCollisionsAcrossDistinctVars(t *testing.T) {
	obj := types.ObjectType{Properties: []types.ObjectProperty{
		{Name: "a", Value: types.TypeVariable{Name: "t0"}},
		{Name: "b", Value: types.TypeVariable{Name: "t1"}},
	}}
	got := types.FreeTypeVariables(obj)
	if len(got) != 2 {
		t.Errorf("expected 2 distinct free variables, got %v", got)
	}
}

func TestNativeByName(t *testing.T) {
	for _, name := range []string{"string", "number", "boolean"} {
		n, ok := types.NativeByName(name)
		if !ok {
			t.Errorf("expected %q to be a native type", name)
		}
		if n.String() != name {
			t.Errorf("expected native %q to render as itself, got %s", name, n.String())
		}
	}
	if _, ok := types.NativeByName("nope"); ok {
		t.Errorf("expected unknown native name to report false")
	}
}

func TestEnumType_PointerIdentity(t *testing.T) {
	a := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some"}}}
	b := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some"}}}

	// Same shape, different declarations: must not be pointer-equal, which
	// is the invariant the unifier's rules 5/6 rely on.
	if a == b {
		t.Fatalf("expected distinct EnumType declarations to have distinct identity")
	}
	if a.MemberByName("Some") == nil {
		t.Errorf("expected MemberByName to find declared member")
	}
	if a.MemberByName("None") != nil {
		t.Errorf("expected MemberByName to return nil for undeclared member")
	}
}

func TestObjectType_Lookup(t *testing.T) {
	o := types.ObjectType{Properties: []types.ObjectProperty{
		{Name: "x", Value: types.NativeType{Kind: types.KNumber}},
	}}
	if _, ok := o.Lookup("x"); !ok {
		t.Errorf("expected to find field x")
	}
	if _, ok := o.Lookup("y"); ok {
		t.Errorf("expected not to find field y")
	}
}
