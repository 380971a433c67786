package funcs

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

func stringRules() []Rule {
	return []Rule{
		{
			Name: "toUpper", Subject: KindString, Result: KindString,
			Emit: emitPackage(KindString, "strings.ToUpper", pkgStrings),
			Eval: evalText(strings.ToUpper),
		},
		{
			Name: "toLower", Subject: KindString, Result: KindString,
			Emit: emitPackage(KindString, "strings.ToLower", pkgStrings),
			Eval: evalText(strings.ToLower),
		},
		{
			Name: "trim", Subject: KindString, Result: KindString,
			Emit: emitPackage(KindString, "strings.TrimSpace", pkgStrings),
			Eval: evalText(strings.TrimSpace),
		},
		{
			Name: "toString", Subject: KindString, Result: KindString,
			Emit: emitIdentity,
			Eval: evalIdentity,
		},
		{
			Name: "length", Subject: KindString, Result: KindNumber,
			Emit: emitRuntime(KindNumber, "Length"),
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				return NumberValue(flowrt.Length(subject.Str)), nil
			},
		},
		{
			Name: "substring", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindInt}, Result: KindString,
			Emit: emitRuntime(KindString, "SubstringFrom"),
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return StringValue(flowrt.SubstringFrom(subject.Str, args[0].Num.Int())), nil
			},
		},
		{
			Name: "substring", MinArgs: 2, MaxArgs: 2, Subject: KindString, Args: []Kind{KindInt, KindInt}, Result: KindString,
			Emit: emitRuntime(KindString, "Substring"),
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				return StringValue(flowrt.Substring(subject.Str, args[0].Num.Int(), args[1].Num.Int())), nil
			},
		},
		{
			Name: "substringBefore", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitRuntime(KindString, "SubstringBefore"),
			Eval: evalText1(flowrt.SubstringBefore),
		},
		{
			Name: "substringBeforeLast", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitRuntime(KindString, "SubstringBeforeLast"),
			Eval: evalText1(flowrt.SubstringBeforeLast),
		},
		{
			Name: "substringAfter", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitRuntime(KindString, "SubstringAfter"),
			Eval: evalText1(flowrt.SubstringAfter),
		},
		{
			Name: "substringAfterLast", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitRuntime(KindString, "SubstringAfterLast"),
			Eval: evalText1(flowrt.SubstringAfterLast),
		},
		{
			Name: "append", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				return binary(KindString, subject, "+", args[0])
			},
			Eval: evalText1(func(text, suffix string) string { return text + suffix }),
		},
		{
			Name: "prepend", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				return binary(KindString, args[0], "+", subject)
			},
			Eval: evalText1(func(text, prefix string) string { return prefix + text }),
		},
		{
			Name: "padLeft", MinArgs: 1, MaxArgs: 2, Subject: KindString, Args: []Kind{KindInt, KindString}, Result: KindString,
			Emit: emitPad("PadLeft"),
			Eval: evalPad(flowrt.PadLeft),
		},
		{
			Name: "padRight", MinArgs: 1, MaxArgs: 2, Subject: KindString, Args: []Kind{KindInt, KindString}, Result: KindString,
			Emit: emitPad("PadRight"),
			Eval: evalPad(flowrt.PadRight),
		},
		{
			Name: "replace", MinArgs: 2, MaxArgs: 2, Subject: KindString, Args: []Kind{KindString, KindString}, Result: KindString,
			Emit: emitPackage(KindString, "strings.ReplaceAll", pkgStrings),
			Eval: evalText2(strings.ReplaceAll),
		},
		{
			Name: "replaceFirst", MinArgs: 2, MaxArgs: 2, Subject: KindString, Args: []Kind{KindString, KindString}, Result: KindString,
			Emit: emitRegex(KindString, "replaceFirst", "ReplaceFirst"),
			Eval: evalRegex("replaceFirst", evalText2(flowrt.ReplaceFirst)),
		},
		{
			Name: "replaceAll", MinArgs: 2, MaxArgs: 2, Subject: KindString, Args: []Kind{KindString, KindString}, Result: KindString,
			Emit: emitRegex(KindString, "replaceAll", "ReplaceAll"),
			Eval: evalRegex("replaceAll", evalText2(flowrt.ReplaceAll)),
		},
		{
			Name: "replaceNull", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitReplaceNull,
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				if subject.Absent {
					return StringValue(args[0].Str), nil
				}

				return subject, nil
			},
		},
		{
			Name: "replaceEmpty", MinArgs: 1, MaxArgs: 1, Subject: KindString, Args: []Kind{KindString}, Result: KindString,
			Emit: emitRuntime(KindString, "ReplaceEmpty"),
			Eval: evalText1(flowrt.ReplaceEmpty),
		},
		{
			Name: "urlEncode", Subject: KindString, Result: KindString,
			Emit: emitPackage(KindString, "url.QueryEscape", pkgURL),
			Eval: evalText(url.QueryEscape),
		},
		{
			Name: "urlDecode", Subject: KindString, Result: KindString,
			Emit: emitRuntime(KindString, "URLDecode"),
			Eval: evalText(flowrt.URLDecode),
		},
		{
			Name: "base64Encode", Subject: KindString, Result: KindString,
			Emit: emitRuntime(KindString, "Base64Encode"),
			Eval: evalText(flowrt.Base64Encode),
		},
		{
			Name: "base64Decode", Subject: KindString, Result: KindString,
			Emit: emitRuntime(KindString, "Base64Decode"),
			Eval: evalText(flowrt.Base64Decode),
		},
	}
}

// defaultPadding is the pad character NiFi uses when none is given.
const defaultPadding = "_"

func emitPad(name string) EmitFunc {
	return func(_ Scope, subject Fragment, args []Fragment) Fragment {
		if len(args) == 1 {
			args = slices.Concat(args, []Fragment{StringConstant(defaultPadding)})
		}

		return call(KindString, "flowrt."+name, subject, args[0], args[1]).with(RuntimeImport)
	}
}

func evalPad(fn func(string, int, string) string) EvalFunc {
	return func(_ *Env, subject Value, args []Value) (Value, error) {
		pad := defaultPadding
		if len(args) == 2 {
			pad = args[1].Str
		}

		return StringValue(fn(subject.Str, args[0].Num.Int(), pad)), nil
	}
}

// emitReplaceNull substitutes the replacement only for attributes that are not
// set. Computed subjects are never null.
func emitReplaceNull(scope Scope, subject Fragment, args []Fragment) Fragment {
	key, ok := subject.Lookup()
	if !ok {
		return subject.absorb(args[0])
	}

	code := fmt.Sprintf("%s.GetOr(%s, %s)", scope.Attributes, key, args[0].code)

	return derive(KindString, code, subject, args[0])
}
