package funcs

import (
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

func logicRules() []Rule {
	return []Rule{
		{
			Name: "equals", MinArgs: 1, MaxArgs: 1, Subject: KindAny, Args: []Kind{KindAny}, Result: KindBoolean,
			Emit: emitEquals(false),
			Eval: evalEquals(false),
		},
		{
			Name: "notEquals", MinArgs: 1, MaxArgs: 1, Subject: KindAny, Args: []Kind{KindAny}, Result: KindBoolean,
			Emit: emitEquals(true),
			Eval: evalEquals(true),
		},
		{
			Name: "equalsIgnoreCase", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitPackage(KindBoolean, "strings.EqualFold", pkgStrings),
			Eval: evalPredicate1(strings.EqualFold),
		},
		{
			Name: "and", MinArgs: 1, MaxArgs: 1, Subject: KindBoolean, Args: []Kind{KindBoolean}, Result: KindBoolean,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				return binary(KindBoolean, subject, "&&", args[0])
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return BooleanValue(subject.Bool && args[0].Bool), nil
			},
		},
		{
			Name: "or", MinArgs: 1, MaxArgs: 1, Subject: KindBoolean, Args: []Kind{KindBoolean}, Result: KindBoolean,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				return binary(KindBoolean, subject, "||", args[0])
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return BooleanValue(subject.Bool || args[0].Bool), nil
			},
		},
		{
			Name: "not", Subject: KindBoolean, Result: KindBoolean,
			Emit: func(_ Scope, subject Fragment, _ []Fragment) Fragment {
				return not(subject)
			},
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				return BooleanValue(!subject.Bool), nil
			},
		},
		{
			Name: "ifElse", MinArgs: 2, MaxArgs: 2, Subject: KindBoolean, Args: []Kind{KindAny, KindAny}, Result: KindAny,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				whenTrue, whenFalse := sameKind(args[0], args[1])
				return call(whenTrue.kind, "flowrt.IfElse", subject, whenTrue, whenFalse).with(RuntimeImport)
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				whenTrue, whenFalse := args[0], args[1]
				if whenTrue.Kind != whenFalse.Kind {
					whenTrue, whenFalse = StringValue(whenTrue.Text()), StringValue(whenFalse.Text())
				}

				return flowrt.IfElse(subject.Bool, whenTrue, whenFalse), nil
			},
		},
	}
}

// sameKind converts both fragments to strings unless they already share a kind.
func sameKind(a, b Fragment) (Fragment, Fragment) {
	if a.kind == b.kind {
		return a, b
	}

	a, _ = Coerce(a, KindString)
	b, _ = Coerce(b, KindString)

	return a, b
}

// emitEquals compares numbers, dates and booleans by value and everything
// else by text.
func emitEquals(negate bool) EmitFunc {
	return func(_ Scope, subject Fragment, args []Fragment) Fragment {
		left, right := subject, args[0]

		if left.kind == right.kind && (left.kind == KindNumber || left.kind == KindDate) {
			equal := method(KindBoolean, left, "Equal", right)
			if negate {
				return not(equal)
			}

			return equal
		}

		if left.kind != KindBoolean || right.kind != KindBoolean {
			left, right = sameKind(left, right)
		}

		op := "=="
		if negate {
			op = "!="
		}

		return binary(KindBoolean, left, op, right)
	}
}

func evalEquals(negate bool) EvalFunc {
	return func(_ *Env, subject Value, args []Value) (Value, error) {
		left, right := subject, args[0]

		var equal bool
		switch {
		case left.Kind == KindNumber && right.Kind == KindNumber:
			equal = left.Num.Equal(right.Num)
		case left.Kind == KindDate && right.Kind == KindDate:
			equal = left.Time.Equal(right.Time)
		case left.Kind == KindBoolean && right.Kind == KindBoolean:
			equal = left.Bool == right.Bool
		default:
			equal = left.Text() == right.Text()
		}

		return BooleanValue(equal != negate), nil
	}
}
