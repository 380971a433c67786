package funcs

import (
	"fmt"
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

func aggregateRules() []Rule {
	return []Rule{
		{
			Name: "join", MinArgs: 1, MaxArgs: 1, Subject: KindList, Args: []Kind{KindString}, Result: KindString,
			Emit: func(scope Scope, subject Fragment, args []Fragment) Fragment {
				list := ResolveList(scope, subject)
				if list.elem != KindString {
					element, _ := Coerce(derive(list.elem, "v"), KindString)
					code := fmt.Sprintf("flowrt.Map(%s, func(v %s) string { return %s })", list.code, list.elem.GoType(), element.code)
					list = derive(KindList, code, list, element).with(RuntimeImport).with(typeImports(list.elem)...)
				}

				return call(KindString, "strings.Join", list, args[0]).with(pkgStrings)
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				parts := flowrt.Map(subject.List, Value.Text)
				return StringValue(strings.Join(parts, args[0].Str)), nil
			},
		},
		{
			Name: "count", Subject: KindList, Result: KindNumber,
			Emit: func(scope Scope, subject Fragment, _ []Fragment) Fragment {
				switch {
				case subject.names:
					code := fmt.Sprintf("flowrt.CountTrue(flowrt.Map(%s, %s.Has))", subject.code, scope.Attributes)
					return derive(KindNumber, code, subject).with(RuntimeImport)

				case subject.elem == KindBoolean:
					return call(KindNumber, "flowrt.CountTrue", subject).with(RuntimeImport)

				default:
					code := fmt.Sprintf("flowrt.Int(int64(len(%s)))", subject.code)
					return derive(KindNumber, code, subject).with(RuntimeImport)
				}
			},
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				var count int64
				for _, item := range subject.List {
					switch {
					case item.Kind == KindBoolean:
						if item.Bool {
							count++
						}
					case !item.Absent:
						count++
					}
				}

				return NumberValue(flowrt.Int(count)), nil
			},
		},
	}
}
