package funcs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

func searchRules() []Rule {
	return []Rule{
		{
			Name: "indexOf", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindNumber,
			Emit: emitRuntime(KindNumber, "IndexOf"),
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return NumberValue(flowrt.IndexOf(subject.Str, args[0].Str)), nil
			},
		},
		{
			Name: "lastIndexOf", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindNumber,
			Emit: emitRuntime(KindNumber, "LastIndexOf"),
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return NumberValue(flowrt.LastIndexOf(subject.Str, args[0].Str)), nil
			},
		},
		{
			Name: "contains", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitPackage(KindBoolean, "strings.Contains", pkgStrings),
			Eval: evalPredicate1(strings.Contains),
		},
		{
			Name: "startsWith", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitPackage(KindBoolean, "strings.HasPrefix", pkgStrings),
			Eval: evalPredicate1(strings.HasPrefix),
		},
		{
			Name: "endsWith", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitPackage(KindBoolean, "strings.HasSuffix", pkgStrings),
			Eval: evalPredicate1(strings.HasSuffix),
		},
		{
			Name: "matches", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitRegex(KindBoolean, "matches", "Matches"),
			Eval: evalRegex("matches", evalPredicate1(flowrt.Matches)),
		},
		{
			Name: "find", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: emitRegex(KindBoolean, "find", "Find"),
			Eval: evalRegex("find", evalPredicate1(flowrt.Find)),
		},
		{
			Name: "in", MinArgs: 1, MaxArgs: Variadic, Subject: KindString, Args: []Kind{KindString}, Result: KindBoolean,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				code := fmt.Sprintf("slices.Contains([]string{%s}, %s)", codes(args), subject.code)
				return derive(KindBoolean, code, slices.Concat(args, []Fragment{subject})...).with(pkgSlices)
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				found := slices.ContainsFunc(args, func(arg Value) bool { return arg.Str == subject.Str })
				return BooleanValue(found), nil
			},
		},
		{
			Name: "isEmpty", Subject: KindString, Result: KindBoolean,
			Emit: emitRuntime(KindBoolean, "IsEmpty"),
			Eval: evalPredicate(flowrt.IsEmpty),
		},
		{
			Name: "notEmpty", Subject: KindString, Result: KindBoolean,
			Emit: func(_ Scope, subject Fragment, _ []Fragment) Fragment {
				return not(call(KindBoolean, "flowrt.IsEmpty", subject).with(RuntimeImport))
			},
			Eval: evalPredicate(func(text string) bool { return !flowrt.IsEmpty(text) }),
		},
		{
			Name: "isNull", Subject: KindAny, Result: KindBoolean,
			Emit: emitPresence(false),
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				return BooleanValue(subject.Absent), nil
			},
		},
		{
			Name: "notNull", Subject: KindAny, Result: KindBoolean,
			Emit: emitPresence(true),
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				return BooleanValue(!subject.Absent), nil
			},
		},
	}
}

// emitPresence tests whether the attribute behind a direct lookup is set.
// Computed subjects always exist.
func emitPresence(present bool) EmitFunc {
	return func(scope Scope, subject Fragment, _ []Fragment) Fragment {
		key, ok := subject.Lookup()
		if !ok {
			return BooleanConstant(present).absorb(subject)
		}

		has := derive(KindBoolean, fmt.Sprintf("%s.Has(%s)", scope.Attributes, key), subject)
		if present {
			return has
		}

		return not(has)
	}
}

func not(f Fragment) Fragment {
	negated := f
	negated.code = "!" + f.code
	negated.constant = nil
	negated.lookup = ""

	return negated
}
