package funcs

import (
	"fmt"
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

func numericRules() []Rule {
	return []Rule{
		{
			Name: "toNumber", Subject: KindNumber, Result: KindNumber,
			Emit: emitIdentity,
			Eval: evalIdentity,
		},
		{
			Name: "toDecimal", Subject: KindNumber, Result: KindNumber,
			Emit: emitMethod(KindNumber, "ToDecimal"),
			Eval: evalNumber(flowrt.Number.ToDecimal),
		},
		arithmetic("plus", flowrt.Number.Plus),
		arithmetic("minus", flowrt.Number.Minus),
		arithmetic("multiply", flowrt.Number.Multiply),
		arithmetic("divide", flowrt.Number.Divide),
		arithmetic("mod", flowrt.Number.Mod),
		comparison("gt", flowrt.Number.Gt),
		comparison("ge", flowrt.Number.Ge),
		comparison("lt", flowrt.Number.Lt),
		comparison("le", flowrt.Number.Le),
		{
			Name: "abs", Subject: KindNumber, Result: KindNumber,
			Emit: emitMethod(KindNumber, "Abs"),
			Eval: evalNumber(flowrt.Number.Abs),
		},
		{
			Name: "ceil", Subject: KindNumber, Result: KindNumber,
			Emit: emitMethod(KindNumber, "Ceil"),
			Eval: evalNumber(flowrt.Number.Ceil),
		},
		{
			Name: "floor", Subject: KindNumber, Result: KindNumber,
			Emit: emitMethod(KindNumber, "Floor"),
			Eval: evalNumber(flowrt.Number.Floor),
		},
		{
			Name: "round", Subject: KindNumber, Result: KindNumber,
			Emit: emitMethod(KindNumber, "Round"),
			Eval: evalNumber(flowrt.Number.Round),
		},
		{
			Name: "math", MinArgs: 1, MaxArgs: 1, Subject: KindNumber, Args: []Kind{KindString}, Result: KindNumber,
			Emit: func(_ Scope, subject Fragment, args []Fragment) Fragment {
				name, ok := args[0].Constant()
				if !ok {
					return Unsupported(subject, "math with a computed function name", args[0])
				}

				if _, ok := mathFunctions[name]; !ok {
					return Unsupported(subject, fmt.Sprintf("math function %q", name), args[0])
				}

				return emitMethod(KindNumber, methodName(name))(Scope{}, subject, nil).absorb(args[0])
			},
			Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
				fn, ok := mathFunctions[args[0].Str]
				if !ok {
					return Value{}, fmt.Errorf("math function %q: %w", args[0].Str, ErrUnsupported)
				}

				return NumberValue(fn(subject.Num)), nil
			},
		},
		{
			Name: "toDate", Subject: KindNumber, Result: KindDate,
			Emit: emitRuntime(KindDate, "MillisToDate"),
			Eval: func(_ *Env, subject Value, _ []Value) (Value, error) {
				return DateValue(flowrt.MillisToDate(subject.Num)), nil
			},
		},
	}
}

// mathFunctions are the java.lang.Math functions math() can translate.
var mathFunctions = map[string]func(flowrt.Number) flowrt.Number{
	"abs":   flowrt.Number.Abs,
	"ceil":  flowrt.Number.Ceil,
	"floor": flowrt.Number.Floor,
	"round": flowrt.Number.Round,
	"sqrt":  flowrt.Number.Sqrt,
}

func methodName(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

func arithmetic(name string, fn func(flowrt.Number, flowrt.Number) flowrt.Number) Rule {
	return Rule{
		Name: name, MinArgs: 1, MaxArgs: 1, Subject: KindNumber, Args: []Kind{KindNumber}, Result: KindNumber,
		Emit: emitMethod(KindNumber, methodName(name)),
		Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
			return NumberValue(fn(subject.Num, args[0].Num)), nil
		},
	}
}

func comparison(name string, fn func(flowrt.Number, flowrt.Number) bool) Rule {
	return Rule{
		Name: name, MinArgs: 1, MaxArgs: 1, Subject: KindNumber, Args: []Kind{KindNumber}, Result: KindBoolean,
		Emit: emitMethod(KindBoolean, methodName(name)),
		Eval: func(_ *Env, subject Value, args []Value) (Value, error) {
			return BooleanValue(fn(subject.Num, args[0].Num)), nil
		},
	}
}

func evalNumber(fn func(flowrt.Number) flowrt.Number) EvalFunc {
	return func(_ *Env, subject Value, _ []Value) (Value, error) {
		return NumberValue(fn(subject.Num)), nil
	}
}
