package funcs

import (
	"github.com/artuross/nifi2go/pkg/flowrt"
)

func dateRules() []Rule {
	return []Rule{
		{
			Name: "format", MinArgs: 1, MaxArgs: 2, Subject: KindDate, Args: []Kind{KindString, KindString}, Result: KindString,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				date := subject
				if len(args) == 2 {
					date = call(KindDate, "flowrt.InZone", subject, args[1]).with(RuntimeImport)
				}

				if pattern, ok := args[0].Constant(); ok {
					if layout, exact := flowrt.ExactDateLayout(pattern); exact {
						return method(KindString, date, "Format", StringConstant(layout)).absorb(args[0])
					}
				}

				return call(KindString, "flowrt.FormatDate", date, args[0]).with(RuntimeImport)
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				date := subject.Time
				if len(args) == 2 {
					date = flowrt.InZone(date, args[1].Str)
				}

				return StringValue(flowrt.FormatDate(date, args[0].Str)), nil
			},
		},
		{
			Name: "toDate", MinArgs: 1, MaxArgs: 2, Subject: KindString, Args: []Kind{KindString, KindString}, Result: KindDate,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				if len(args) == 2 {
					return emitRuntime(KindDate, "ParseDateIn")(Scope{}, subject, args)
				}

				return emitRuntime(KindDate, "ParseDate")(Scope{}, subject, args)
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				if len(args) == 2 {
					return DateValue(flowrt.ParseDateIn(subject.Str, args[0].Str, args[1].Str)), nil
				}

				return DateValue(flowrt.ParseDate(subject.Str, args[0].Str)), nil
			},
		},
	}
}
