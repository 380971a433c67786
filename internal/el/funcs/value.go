package funcs

import (
	"strconv"
	"time"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

// Value is the interpreted counterpart of a Fragment.
type Value struct {
	Kind      Kind
	Str       string
	Num       flowrt.Number
	Bool      bool
	Time      time.Time
	List      []Value
	Aggregate Aggregate

	// Absent marks a direct attribute read of an attribute that is not set.
	Absent bool

	// Literal marks values written in the expression itself, mirroring
	// constant fragments.
	Literal bool
}

func StringValue(text string) Value {
	return Value{Kind: KindString, Str: text}
}

func NumberValue(n flowrt.Number) Value {
	return Value{Kind: KindNumber, Num: n}
}

func BooleanValue(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Time: t}
}

func ListValue(aggregate Aggregate, values []Value) Value {
	return Value{Kind: KindList, List: values, Aggregate: aggregate}
}

// LookupValue reads an attribute, marking it absent when it is not set.
func LookupValue(attrs flowrt.Attributes, name string) Value {
	text, ok := attrs.Lookup(name)

	value := StringValue(text)
	value.Absent = !ok

	return value
}

// Text renders the value the way it would appear in an attribute.
func (v Value) Text() string {
	text, _ := CoerceValue(v, KindString)
	return text.Str
}

// CoerceValue converts v to the target kind following the same rules as
// Coerce. Int targets produce number values.
func CoerceValue(v Value, to Kind) (Value, bool) {
	if to == KindAny || v.Kind == to {
		return v, true
	}

	out, ok := coerceValue(v, to)
	out.Literal = ok && v.Literal && v.Kind != KindDate && to != KindDate

	return out, ok
}

func coerceValue(v Value, to Kind) (Value, bool) {
	switch v.Kind {
	case KindString:
		switch to {
		case KindNumber, KindInt:
			return NumberValue(flowrt.ToNumber(v.Str)), true
		case KindBoolean:
			return BooleanValue(flowrt.ToBool(v.Str)), true
		case KindDate:
			return DateValue(flowrt.ToDate(v.Str)), true
		}

	case KindNumber:
		switch to {
		case KindString:
			return StringValue(v.Num.String()), true
		case KindInt:
			return v, true
		case KindDate:
			return DateValue(flowrt.MillisToDate(v.Num)), true
		}

	case KindBoolean:
		if to == KindString {
			return StringValue(strconv.FormatBool(v.Bool)), true
		}

	case KindDate:
		switch to {
		case KindString:
			return StringValue(flowrt.DateString(v.Time)), true
		case KindNumber, KindInt:
			return NumberValue(flowrt.DateToNumber(v.Time)), true
		}
	}

	return v, false
}

// TruthValue converts v to a boolean the same way Truth does.
func TruthValue(v Value) (bool, bool) {
	switch v.Kind {
	case KindBoolean:
		return v.Bool, true
	case KindString:
		if v.Literal {
			return ConstantTruth(v.Str), true
		}

		return !flowrt.IsEmpty(v.Str), true
	case KindNumber:
		return !v.Num.IsZero(), true
	case KindDate:
		return !v.Time.IsZero(), true
	}

	return false, false
}

// ReduceValue collapses a list of booleans with its aggregate.
func ReduceValue(v Value) (Value, bool) {
	if v.Kind != KindList {
		return v, true
	}

	bools := make([]bool, 0, len(v.List))
	for _, item := range v.List {
		if item.Kind != KindBoolean {
			return v, false
		}

		bools = append(bools, item.Bool)
	}

	if v.Aggregate == AggregateAny {
		return BooleanValue(flowrt.Any(bools)), true
	}

	return BooleanValue(flowrt.All(bools)), true
}
