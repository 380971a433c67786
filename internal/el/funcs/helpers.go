package funcs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

// ErrUnsupported is returned by evaluation of constructs without a rule.
var ErrUnsupported = errors.New("unsupported expression")

// emitRuntime emits flowrt.name(subject, args...).
func emitRuntime(kind Kind, name string) EmitFunc {
	return func(_ Scope, subject Fragment, args []Fragment) Fragment {
		return call(kind, "flowrt."+name, slices.Concat([]Fragment{subject}, args)...).with(RuntimeImport)
	}
}

// emitPackage emits fn(subject, args...) for a function of an imported package.
func emitPackage(kind Kind, fn string, pkg string) EmitFunc {
	return func(_ Scope, subject Fragment, args []Fragment) Fragment {
		return call(kind, fn, slices.Concat([]Fragment{subject}, args)...).with(pkg)
	}
}

// emitMethod emits subject.name(args...).
func emitMethod(kind Kind, name string) EmitFunc {
	return func(_ Scope, subject Fragment, args []Fragment) Fragment {
		return method(kind, subject, name, args...)
	}
}

func emitIdentity(_ Scope, subject Fragment, _ []Fragment) Fragment {
	return subject
}

func evalIdentity(_ *Env, subject Value, _ []Value) (Value, error) {
	return subject, nil
}

func evalText(fn func(string) string) EvalFunc {
	return func(_ *Env, subject Value, _ []Value) (Value, error) {
		return StringValue(fn(subject.Str)), nil
	}
}

func evalText1(fn func(string, string) string) EvalFunc {
	return func(_ *Env, subject Value, args []Value) (Value, error) {
		return StringValue(fn(subject.Str, args[0].Str)), nil
	}
}

func evalText2(fn func(string, string, string) string) EvalFunc {
	return func(_ *Env, subject Value, args []Value) (Value, error) {
		return StringValue(fn(subject.Str, args[0].Str, args[1].Str)), nil
	}
}

func evalPredicate(fn func(string) bool) EvalFunc {
	return func(_ *Env, subject Value, _ []Value) (Value, error) {
		return BooleanValue(fn(subject.Str)), nil
	}
}

func evalPredicate1(fn func(string, string) bool) EvalFunc {
	return func(_ *Env, subject Value, args []Value) (Value, error) {
		return BooleanValue(fn(subject.Str, args[0].Str)), nil
	}
}

// emitRegex emits flowrt.name(subject, pattern, ...). A constant pattern Go's
// regexp cannot compile is unsupported: predicates become false and
// replacements pass the subject through.
func emitRegex(kind Kind, function, name string) EmitFunc {
	emit := emitRuntime(kind, name)

	return func(scope Scope, subject Fragment, args []Fragment) Fragment {
		pattern, ok := args[0].Constant()
		if !ok || flowrt.ValidPattern(pattern) {
			return emit(scope, subject, args)
		}

		reason := function + " pattern not supported by Go regexp"
		if kind == KindBoolean {
			return Unsupported(BooleanConstant(false), reason, slices.Concat([]Fragment{subject}, args)...)
		}

		return Unsupported(subject, reason, args...)
	}
}

// evalRegex fails with ErrUnsupported when the pattern does not compile.
func evalRegex(function string, eval EvalFunc) EvalFunc {
	return func(env *Env, subject Value, args []Value) (Value, error) {
		if !flowrt.ValidPattern(args[0].Str) {
			return Value{}, fmt.Errorf("%s pattern %q: %w", function, args[0].Str, ErrUnsupported)
		}

		return eval(env, subject, args)
	}
}
