package analyzer_test

import (
	"testing"

	"github.com/orbital-lang/funxy/internal/analyzer"
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/scope"
	"github.com/orbital-lang/funxy/internal/types"
)

func constraint(left, right types.Type, kind scope.ConstraintKind) []*scope.Constraint {
	return []*scope.Constraint{{Left: left, Right: right, Kind: kind}}
}

// unify is a test-local shorthand that supplies a throwaway Namer, since
// these tests build constraints by hand rather than through the binder.
func unify(constraints []*scope.Constraint) (types.Subst, *diagnostics.DiagnosticError) {
	return analyzer.Unify(constraints, analyzer.NewNamer())
}

func TestUnify_VariableBindsToConcreteType(t *testing.T) {
	subst, err := unify(constraint(types.TypeVariable{Name: "t0"}, types.NativeType{Kind: types.KNumber}, scope.Equality))
	if err != nil {
		t.Fatalf("unexpected unify error: %v", err)
	}
	if subst["t0"].String() != "number" {
		t.Errorf("expected t0 bound to number, got %v", subst["t0"])
	}
}

func TestUnify_NativeTypeMismatchFails(t *testing.T) {
	_, err := unify(constraint(types.NativeType{Kind: types.KNumber}, types.NativeType{Kind: types.KString}, scope.Equality))
	if err == nil {
		t.Errorf("expected number/string mismatch to fail unification")
	}
}

func TestUnify_FunctionTypeArityMismatchFails(t *testing.T) {
	lf := types.FunctionType{Params: []types.ParameterType{{Identifier: "x", Annotation: types.NativeType{Kind: types.KNumber}}}, ReturnType: types.NativeType{Kind: types.KNumber}}
	rf := types.FunctionType{ReturnType: types.NativeType{Kind: types.KNumber}}
	_, err := unify(constraint(lf, rf, scope.Equality))
	if err == nil {
		t.Errorf("expected arity mismatch between function types to fail")
	}
}

func TestUnify_FunctionTypeRecursesIntoParamsAndReturn(t *testing.T) {
	lf := types.FunctionType{
		Params:     []types.ParameterType{{Identifier: "x", Annotation: types.TypeVariable{Name: "t0"}}},
		ReturnType: types.TypeVariable{Name: "t1"},
	}
	rf := types.FunctionType{
		Params:     []types.ParameterType{{Identifier: "y", Annotation: types.NativeType{Kind: types.KNumber}}},
		ReturnType: types.NativeType{Kind: types.KBoolean},
	}
	subst, err := unify(constraint(lf, rf, scope.Equality))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst["t0"].String() != "number" || subst["t1"].String() != "boolean" {
		t.Errorf("expected t0=number, t1=boolean, got %v", subst)
	}
}

func TestUnify_CallAgainstFunctionWithPolymorphicParam(t *testing.T) {
	fn := types.FunctionType{
		Params:     []types.ParameterType{{Identifier: "x", Annotation: types.TypeVariable{Name: "t0"}}},
		ReturnType: types.TypeVariable{Name: "t0"},
	}
	call := types.FunctionCallType{
		Callee:     fn,
		Arguments:  []types.Type{types.NativeType{Kind: types.KNumber}},
		ReturnType: types.TypeVariable{Name: "t1"},
	}
	subst, err := unify(constraint(call, fn, scope.Equality))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst["t1"].String() != "number" {
		t.Errorf("expected the call's return var to resolve to number, got %v", subst["t1"])
	}
}

func TestUnify_EnumTypeIdentity(t *testing.T) {
	option := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some"}}}
	otherOption := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some"}}}

	if _, err := unify(constraint(option, option, scope.Equality)); err != nil {
		t.Errorf("expected identical enum pointer to unify with itself, got %v", err)
	}
	if _, err := unify(constraint(option, otherOption, scope.Equality)); err == nil {
		t.Errorf("expected structurally-identical but distinct enum declarations to fail unification")
	}
}

func TestUnify_EnumCallAgainstEnumType(t *testing.T) {
	option := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some", Params: []types.Type{types.NativeType{Kind: types.KNumber}}}}}
	call := types.EnumCallType{Enum: option, Member: "Some", Arguments: []types.Type{types.NativeType{Kind: types.KNumber}}}

	if _, err := unify(constraint(option, call, scope.Equality)); err != nil {
		t.Errorf("expected call against its own declaring enum to unify, got %v", err)
	}
}

func TestUnify_ObjectTypeEquality(t *testing.T) {
	l := types.ObjectType{Properties: []types.ObjectProperty{{Name: "x", Value: types.TypeVariable{Name: "t0"}}}}
	r := types.ObjectType{Properties: []types.ObjectProperty{{Name: "x", Value: types.NativeType{Kind: types.KNumber}}}}
	subst, err := unify(constraint(l, r, scope.Equality))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst["t0"].String() != "number" {
		t.Errorf("expected t0 bound to number, got %v", subst["t0"])
	}
}

func TestUnify_ObjectTypeEqualityFieldCountMismatchFails(t *testing.T) {
	l := types.ObjectType{Properties: []types.ObjectProperty{{Name: "x", Value: types.NativeType{Kind: types.KNumber}}}}
	r := types.ObjectType{Properties: []types.ObjectProperty{
		{Name: "x", Value: types.NativeType{Kind: types.KNumber}},
		{Name: "y", Value: types.NativeType{Kind: types.KNumber}},
	}}
	if _, err := unify(constraint(l, r, scope.Equality)); err == nil {
		t.Errorf("expected field-count mismatch under Equality to fail")
	}
}

func TestUnify_ObjectTypeSubsetAllowsExtraFields(t *testing.T) {
	small := types.ObjectType{Properties: []types.ObjectProperty{{Name: "x", Value: types.NativeType{Kind: types.KNumber}}}}
	big := types.ObjectType{Properties: []types.ObjectProperty{
		{Name: "x", Value: types.NativeType{Kind: types.KNumber}},
		{Name: "y", Value: types.NativeType{Kind: types.KString}},
	}}
	if _, err := unify(constraint(small, big, scope.Subset)); err != nil {
		t.Errorf("expected subset object unification to succeed, got %v", err)
	}
}

func TestUnify_PatternRecoversEnumArgumentType(t *testing.T) {
	option := &types.EnumType{Identifier: "Option", Members: []*types.EnumMemberType{{Identifier: "Some", Params: []types.Type{types.NativeType{Kind: types.KNumber}}}}}
	call := types.EnumCallType{Enum: option, Member: "Some", Arguments: []types.Type{types.NativeType{Kind: types.KNumber}}}
	pat := types.PatternType{
		Pattern: types.EnumPattern{Enum: option, Member: "Some"},
		TypeVar: types.TypeVariable{Name: "t0"},
	}
	subst, err := unify(constraint(pat, call, scope.Equality))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst["t0"].String() != "number" {
		t.Errorf("expected the destructured variable to resolve to number, got %v", subst["t0"])
	}
}

func TestUnify_OccursCheckRejectsInfiniteType(t *testing.T) {
	v := types.TypeVariable{Name: "t0"}
	fn := types.FunctionType{ReturnType: v, Params: []types.ParameterType{{Identifier: "x", Annotation: v}}}
	if _, err := unify(constraint(v, fn, scope.Equality)); err == nil {
		t.Errorf("expected binding t0 to a function type containing t0 to fail the occurs check")
	}
}

func TestUnify_IncompatibleKindsFailWithDefaultRule(t *testing.T) {
	_, err := unify(constraint(types.NativeType{Kind: types.KNumber}, types.ObjectType{}, scope.Equality))
	if err == nil {
		t.Errorf("expected a native type against an object type to fall through to CouldNotUnify")
	}
}
