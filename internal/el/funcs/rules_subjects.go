package funcs

import (
	"fmt"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

// subjectRules are the functions that start an expression instead of
// operating on a subject.
func subjectRules() []Rule {
	return []Rule{
		{
			Name: "now", Subject: KindNone, Result: KindDate,
			Emit: func(_ Scope, _ Fragment, _ []Fragment) Fragment {
				return Raw(KindDate, "time.Now()", pkgTime)
			},
			Eval: func(env *Env, _ Value, _ []Value) (Value, error) {
				return DateValue(env.Now()), nil
			},
		},
		{
			Name: "uuid", Subject: KindNone, Result: KindString,
			Emit: func(_ Scope, _ Fragment, _ []Fragment) Fragment {
				return Raw(KindString, "uuid.NewString()", pkgUUID)
			},
			Eval: func(env *Env, _ Value, _ []Value) (Value, error) {
				return StringValue(env.NewUUID()), nil
			},
		},
		{
			Name: "hostname", MinArgs: 0, MaxArgs: 1, Subject: KindNone, Args: []Kind{KindBoolean}, Result: KindString,
			Emit: func(_ Scope, _ Fragment, args []Fragment) Fragment {
				return Raw(KindString, "flowrt.Hostname()", RuntimeImport).absorb(args...)
			},
			Eval: func(env *Env, _ Value, _ []Value) (Value, error) {
				return StringValue(env.Hostname()), nil
			},
		},
		{
			Name: "random", Subject: KindNone, Result: KindNumber,
			Emit: func(_ Scope, _ Fragment, _ []Fragment) Fragment {
				return Raw(KindNumber, "flowrt.Int(rand.Int63())", RuntimeImport, pkgRand)
			},
			Eval: func(env *Env, _ Value, _ []Value) (Value, error) {
				return NumberValue(flowrt.Int(env.Random())), nil
			},
		},
		{
			Name: "literal", MinArgs: 1, MaxArgs: 1, Subject: KindNone, Args: []Kind{KindAny}, Result: KindAny,
			Emit: func(_ Scope, _ Fragment, args []Fragment) Fragment {
				return args[0]
			},
			Eval: func(_ *Env, _ Value, args []Value) (Value, error) {
				return args[0], nil
			},
		},
		attributeList("allAttributes", AggregateAll),
		attributeList("anyAttribute", AggregateAny),
		matchingList("allMatchingAttributes", AggregateAll),
		matchingList("anyMatchingAttribute", AggregateAny),
		delineatedList("allDelineatedValues", AggregateAll),
		delineatedList("anyDelineatedValue", AggregateAny),
	}
}

func attributeList(name string, aggregate Aggregate) Rule {
	return Rule{
		Name: name, MinArgs: 1, MaxArgs: Variadic, Subject: KindNone, Args: []Kind{KindString}, Result: KindList,
		Emit: func(_ Scope, _ Fragment, args []Fragment) Fragment {
			return newList(fmt.Sprintf("[]string{%s}", codes(args)), aggregate, true, args...)
		},
		Eval: func(env *Env, _ Value, args []Value) (Value, error) {
			return ListValue(aggregate, lookupValues(env.Attributes, texts(args))), nil
		},
	}
}

func matchingList(name string, aggregate Aggregate) Rule {
	return Rule{
		Name: name, MinArgs: 1, MaxArgs: Variadic, Subject: KindNone, Args: []Kind{KindString}, Result: KindList,
		Emit: func(scope Scope, _ Fragment, args []Fragment) Fragment {
			return newList(fmt.Sprintf("%s.MatchingNames(%s)", scope.Attributes, codes(args)), aggregate, true, args...)
		},
		Eval: func(env *Env, _ Value, args []Value) (Value, error) {
			names := env.Attributes.MatchingNames(texts(args)...)
			return ListValue(aggregate, lookupValues(env.Attributes, names)), nil
		},
	}
}

func delineatedList(name string, aggregate Aggregate) Rule {
	return Rule{
		Name: name, MinArgs: 2, MaxArgs: 2, Subject: KindNone, Args: []Kind{KindString, KindString}, Result: KindList,
		Emit: func(_ Scope, _ Fragment, args []Fragment) Fragment {
			code := fmt.Sprintf("flowrt.DelineatedValues(%s)", codes(args))
			return newList(code, aggregate, false, args...).with(RuntimeImport)
		},
		Eval: func(_ *Env, _ Value, args []Value) (Value, error) {
			parts := flowrt.DelineatedValues(args[0].Str, args[1].Str)
			return ListValue(aggregate, flowrt.Map(parts, StringValue)), nil
		},
	}
}

func lookupValues(attrs flowrt.Attributes, names []string) []Value {
	return flowrt.Map(names, func(name string) Value { return LookupValue(attrs, name) })
}

func texts(values []Value) []string {
	return flowrt.Map(values, func(v Value) string { return v.Str })
}
