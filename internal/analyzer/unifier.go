package analyzer

import (
	"github.com/orbital-lang/funxy/internal/diagnostics"
	"github.com/orbital-lang/funxy/internal/scope"
	"github.com/orbital-lang/funxy/internal/token"
	"github.com/orbital-lang/funxy/internal/types"
)

// Unify solves every constraint collect_program emitted, in emission
// order (spec §4.3), building a single substitution. It fails fast on
// the first constraint that cannot be solved. namer identifies the
// compilation these constraints came from, so the resulting error (if
// any) can be correlated back to it (spec §6 multi-program driver runs).
func Unify(constraints []*scope.Constraint, namer *Namer) (types.Subst, *diagnostics.DiagnosticError) {
	subst := types.Subst{}
	for _, cons := range constraints {
		left := types.Apply(cons.Left, subst)
		right := types.Apply(cons.Right, subst)
		// A call site unifies against a copy of the callee's type with
		// fresh variables, so each call can use a polymorphic function at
		// its own argument types without fixing the function's variables.
		if _, isCall := cons.Left.(types.FunctionCallType); isCall {
			if fn, isFn := right.(types.FunctionType); isFn {
				fresh := types.Subst{}
				for _, name := range types.FreeTypeVariables(fn) {
					fresh[name] = namer.FreshVar()
				}
				right = types.Apply(fn, fresh)
			}
		}
		if err := unifyOne(left, right, cons.Kind, subst); err != nil {
			err.CompilationID = namer.CompilationID.String()
			return nil, err
		}
	}
	return subst, nil
}

// unifyOne applies the nine unification rules of spec §4.3, in order.
func unifyOne(left, right types.Type, kind scope.ConstraintKind, subst types.Subst) *diagnostics.DiagnosticError {
	// Rule 1: a bare type variable on either side binds immediately,
	// regardless of constraint kind.
	if lv, ok := left.(types.TypeVariable); ok {
		return bindVar(lv, right, subst)
	}
	if rv, ok := right.(types.TypeVariable); ok {
		return bindVar(rv, left, subst)
	}

	// Rule 2: two NativeType values unify iff their Kind matches.
	ln, lIsNative := left.(types.NativeType)
	rn, rIsNative := right.(types.NativeType)
	if lIsNative && rIsNative {
		if ln.Kind == rn.Kind {
			return nil
		}
		return diagnostics.NewUnifier(diagnostics.ErrU001, token.Token{}, left.String(), right.String())
	}

	// Rule 3: two FunctionType values unify iff their arity matches and
	// every parameter and the return type recursively unify.
	lf, lIsFn := left.(types.FunctionType)
	rf, rIsFn := right.(types.FunctionType)
	if lIsFn && rIsFn {
		if len(lf.Params) != len(rf.Params) {
			return diagnostics.NewUnifier(diagnostics.ErrU001, token.Token{}, left.String(), right.String())
		}
		for i := range lf.Params {
			if err := unifyOne(types.Apply(lf.Params[i].Annotation, subst), types.Apply(rf.Params[i].Annotation, subst), scope.Equality, subst); err != nil {
				return err
			}
		}
		return unifyOne(types.Apply(lf.ReturnType, subst), types.Apply(rf.ReturnType, subst), scope.Equality, subst)
	}

	// Rule 4: a FunctionCallType unifies against the FunctionType it was
	// built to call. Unify hands each call site a freshly instantiated
	// copy of the function type, so binding a parameter variable here
	// affects only that call; this is what lets one polymorphic function
	// be called at different argument types.
	if lc, ok := left.(types.FunctionCallType); ok {
		if fn, ok := right.(types.FunctionType); ok {
			return unifyCallAgainstFunction(lc, fn, subst)
		}
	}
	if rc, ok := right.(types.FunctionCallType); ok {
		if fn, ok := left.(types.FunctionType); ok {
			return unifyCallAgainstFunction(rc, fn, subst)
		}
	}

	// Rules 5/6: enum identity and construction are decided by pointer
	// identity of the declaring EnumType (spec §4.3 "two enums are the
	// same type iff they came from the same declaration").
	if le, ok := left.(*types.EnumType); ok {
		if re, ok := right.(*types.EnumType); ok {
			if le != re {
				return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, left.String(), right.String())
			}
			return nil
		}
		if rc, ok := right.(types.EnumCallType); ok {
			if le != rc.Enum {
				return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, left.String(), right.String())
			}
			return nil
		}
	}
	if re, ok := right.(*types.EnumType); ok {
		if lc, ok := left.(types.EnumCallType); ok {
			if re != lc.Enum {
				return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, left.String(), right.String())
			}
			return nil
		}
	}
	if lc, ok := left.(types.EnumCallType); ok {
		if rc, ok := right.(types.EnumCallType); ok {
			if lc.Enum != rc.Enum || lc.Member != rc.Member {
				return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, left.String(), right.String())
			}
			if len(lc.Arguments) != len(rc.Arguments) {
				return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, left.String(), right.String())
			}
			for i := range lc.Arguments {
				if err := unifyOne(types.Apply(lc.Arguments[i], subst), types.Apply(rc.Arguments[i], subst), scope.Equality, subst); err != nil {
					return err
				}
			}
			return nil
		}
	}

	// Rule 7: ObjectType unifies structurally. Under Equality both sides
	// must carry exactly the same field set; under Subset, left need
	// only carry a subset of right's fields (or vice versa depending on
	// which side is the pattern) with each shared field unifying.
	lo, lIsObj := left.(types.ObjectType)
	ro, rIsObj := right.(types.ObjectType)
	if lIsObj && rIsObj {
		return unifyObjects(lo, ro, kind, subst)
	}

	// Rule 8: a PatternType wrapping an EnumPattern recovers the bound
	// variable's type from the EnumCallType it matched against — limited
	// to the member's first declared parameter (spec §9 Open Question a).
	if lp, ok := left.(types.PatternType); ok {
		if rc, ok := right.(types.EnumCallType); ok {
			return unifyPatternAgainstCall(lp, rc, subst)
		}
	}
	if rp, ok := right.(types.PatternType); ok {
		if lc, ok := left.(types.EnumCallType); ok {
			return unifyPatternAgainstCall(rp, lc, subst)
		}
	}

	// Rule 9: nothing above matched.
	return diagnostics.NewUnifier(diagnostics.ErrU003, token.Token{}, left.String(), right.String())
}

// bindVar extends subst with v := t, unless t is the same variable
// (a no-op binding), applying an occurs check so a variable can never
// be bound to a type that already contains it.
func bindVar(v types.TypeVariable, t types.Type, subst types.Subst) *diagnostics.DiagnosticError {
	if tv, ok := t.(types.TypeVariable); ok && tv.Name == v.Name {
		return nil
	}
	if occurs(v.Name, t, subst) {
		return diagnostics.NewUnifier(diagnostics.ErrU003, token.Token{}, v.String(), t.String())
	}
	subst[v.Name] = t
	return nil
}

func occurs(name string, t types.Type, subst types.Subst) bool {
	for _, fv := range types.FreeTypeVariables(types.Apply(t, subst)) {
		if fv == name {
			return true
		}
	}
	return false
}

// unifyCallAgainstFunction implements rule 4's branching: a parameter
// whose declared annotation is still a bare TypeVariable is unified
// under Subset, and rule 1 then binds it to the argument type; a
// parameter with a concrete annotation is unified under Equality.
func unifyCallAgainstFunction(call types.FunctionCallType, fn types.FunctionType, subst types.Subst) *diagnostics.DiagnosticError {
	if len(call.Arguments) != len(fn.Params) {
		return diagnostics.NewUnifier(diagnostics.ErrU001, token.Token{}, call.String(), fn.String())
	}
	for i, param := range fn.Params {
		argType := types.Apply(call.Arguments[i], subst)
		paramType := types.Apply(param.Annotation, subst)
		if _, isVar := paramType.(types.TypeVariable); isVar {
			if err := unifyOne(argType, paramType, scope.Subset, subst); err != nil {
				return err
			}
			continue
		}
		if err := unifyOne(argType, paramType, scope.Equality, subst); err != nil {
			return err
		}
	}
	return unifyOne(types.Apply(call.ReturnType, subst), types.Apply(fn.ReturnType, subst), scope.Equality, subst)
}

// unifyObjects unifies two ObjectType values structurally. Equality
// requires both field sets to match exactly; Subset requires every
// field of the smaller side to exist (and unify) on the other.
func unifyObjects(l, r types.ObjectType, kind scope.ConstraintKind, subst types.Subst) *diagnostics.DiagnosticError {
	if kind == scope.Equality && len(l.Properties) != len(r.Properties) {
		return diagnostics.NewUnifier(diagnostics.ErrU001, token.Token{}, l.String(), r.String())
	}
	small, big := l, r
	if kind == scope.Subset && len(r.Properties) < len(l.Properties) {
		small, big = r, l
	}
	for _, prop := range small.Properties {
		val, ok := big.Lookup(prop.Name)
		if !ok {
			return diagnostics.NewUnifier(diagnostics.ErrU001, token.Token{}, l.String(), r.String())
		}
		if err := unifyOne(types.Apply(prop.Value, subst), types.Apply(val, subst), scope.Equality, subst); err != nil {
			return err
		}
	}
	return nil
}

// unifyPatternAgainstCall recovers the type bound by a single-parameter
// enum-member destructure: the pattern's enum must be the call's (the
// members may differ, as when a match clause names another member than
// the one the subject was built with), then the pattern's type variable
// is bound to the call's first argument type, if it has one.
func unifyPatternAgainstCall(pat types.PatternType, call types.EnumCallType, subst types.Subst) *diagnostics.DiagnosticError {
	ep, ok := pat.Pattern.(types.EnumPattern)
	if !ok {
		return diagnostics.NewUnifier(diagnostics.ErrU003, token.Token{}, pat.String(), call.String())
	}
	if ep.Enum != call.Enum {
		return diagnostics.NewUnifier(diagnostics.ErrU002, token.Token{}, pat.String(), call.String())
	}
	if len(call.Arguments) == 0 {
		return nil
	}
	return bindVar(pat.TypeVar, types.Apply(call.Arguments[0], subst), subst)
}

// ApplySubstitutions rewrites every symbol's type in the scope tree and
// every recorded expression type in the collector's TypeMap with the
// final substitution, in place (spec §4.3 post-pass). It is idempotent:
// running it again against the same substitution is a no-op (spec §8.5).
func ApplySubstitutions(bind *BindResult, collect *CollectResult, subst types.Subst) {
	bind.Root.Walk(func(sc *scope.Scope) {
		for _, sym := range sc.ValueSymbols() {
			sym.Type = types.Apply(sym.Type, subst)
		}
		for _, sym := range sc.TypeSymbols() {
			sym.Type = types.Apply(sym.Type, subst)
		}
	})
	for node, t := range collect.TypeMap {
		collect.TypeMap[node] = types.Apply(t, subst)
	}
}
