package funcs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/artuross/nifi2go/pkg/flowrt"
)

// Scope names the variables emitted code refers to.
type Scope struct {
	// Attributes is a Go expression of type flowrt.Attributes.
	Attributes string
}

// Fragment is the Go source of a side-effect free expression together with
// its static kind and the imports it needs. Compound code is parenthesized so
// a fragment can be used wherever an operand is expected.
type Fragment struct {
	code        string
	kind        Kind
	elem        Kind
	aggregate   Aggregate
	names       bool
	lookup      string
	constant    *string
	imports     []string
	unsupported []string
}

func (f Fragment) String() string {
	return f.code
}

func (f Fragment) Code() string {
	return f.code
}

func (f Fragment) Kind() Kind {
	return f.kind
}

// Elem returns the element kind of a list fragment.
func (f Fragment) Elem() Kind {
	return f.elem
}

// Imports returns the sorted import paths the code refers to.
func (f Fragment) Imports() []string {
	return slices.Clone(f.imports)
}

// Unsupported returns the constructs that could not be translated.
func (f Fragment) Unsupported() []string {
	return slices.Clone(f.unsupported)
}

func (f Fragment) Supported() bool {
	return len(f.unsupported) == 0
}

// Constant returns the literal text of a constant fragment.
func (f Fragment) Constant() (string, bool) {
	if f.constant == nil {
		return "", false
	}

	return *f.constant, true
}

// Lookup returns the Go expression of the attribute name when the fragment is
// a direct attribute read.
func (f Fragment) Lookup() (string, bool) {
	return f.lookup, f.lookup != ""
}

// Raw wraps arbitrary Go code as a fragment of the given kind.
func Raw(kind Kind, code string, imports ...string) Fragment {
	return derive(kind, code).with(imports...)
}

func StringConstant(text string) Fragment {
	return constant(KindString, strconv.Quote(text), text)
}

// NumberConstant emits a flowrt.Number literal for the numeric text.
func NumberConstant(text string) Fragment {
	n := flowrt.ToNumber(text)

	code := fmt.Sprintf("flowrt.Int(%s)", n.String())
	if n.IsDecimal() {
		code = fmt.Sprintf("flowrt.Float(%s)", strconv.FormatFloat(n.Float64(), 'g', -1, 64))
	}

	return constant(KindNumber, code, n.String()).with(RuntimeImport)
}

func BooleanConstant(value bool) Fragment {
	text := strconv.FormatBool(value)
	return constant(KindBoolean, text, text)
}

func constant(kind Kind, code, text string) Fragment {
	fragment := derive(kind, code)
	fragment.constant = &text

	return fragment
}

// Lookup reads the attribute named by the string fragment name.
func Lookup(scope Scope, name Fragment) Fragment {
	fragment := derive(KindString, fmt.Sprintf("%s.Get(%s)", scope.Attributes, name.code), name)
	fragment.lookup = name.code

	return fragment
}

// Unsupported passes subject through unchanged behind a marker comment and
// records reason. List subjects, which cannot pass through, become "".
func Unsupported(subject Fragment, reason string, dropped ...Fragment) Fragment {
	marker := fmt.Sprintf("/* nifi2go: unsupported: %s */ ", reason)

	var fragment Fragment
	if subject.kind == KindList {
		fragment = derive(KindString, marker+`""`).absorb(subject)
	} else {
		fragment = subject
		fragment.code = marker + subject.code
		fragment.lookup = ""
		fragment.constant = nil
	}

	fragment.unsupported = mergeSorted(fragment.unsupported, []string{reason})

	return fragment.absorb(dropped...)
}

// Unmet replaces an unsupported condition with false behind a marker comment,
// so untranslated conditions never match.
func Unmet(condition Fragment) Fragment {
	marker := fmt.Sprintf("/* nifi2go: unsupported: %s */ ", strings.Join(condition.unsupported, "; "))
	return derive(KindBoolean, marker+"false").absorb(condition)
}

// Sprintf emits fmt.Sprintf(format, args...). The format must already have
// every literal % doubled.
func Sprintf(format string, args ...Fragment) Fragment {
	code := fmt.Sprintf("fmt.Sprintf(%s)", codes(append([]Fragment{derive(KindString, strconv.Quote(format))}, args...)))
	return derive(KindString, code, args...).with(pkgFmt)
}

// Truth converts f to a boolean: strings are true unless empty or blank,
// numbers and dates unless zero. "true" and "false" constants become Go
// booleans.
func Truth(f Fragment) Fragment {
	switch f.kind {
	case KindBoolean:
		return f

	case KindString:
		if text, ok := f.Constant(); ok {
			return BooleanConstant(ConstantTruth(text)).absorb(f)
		}

		return not(call(KindBoolean, "flowrt.IsEmpty", f).with(RuntimeImport))

	case KindNumber, KindDate:
		return not(method(KindBoolean, f, "IsZero"))
	}

	return Unsupported(BooleanConstant(false), fmt.Sprintf("%s used as a condition", f.kind), f)
}

// ConstantTruth is the truth of literal text: "true" and "false" in any case
// are booleans, other text is true unless empty or blank.
func ConstantTruth(text string) bool {
	if strings.EqualFold(text, "true") || strings.EqualFold(text, "false") {
		return flowrt.ToBool(text)
	}

	return !flowrt.IsEmpty(text)
}

// derive builds a fragment whose code embeds the code of parts.
func derive(kind Kind, code string, parts ...Fragment) Fragment {
	fragment := Fragment{
		code:        code,
		kind:        kind,
		imports:     []string{},
		unsupported: []string{},
	}

	for _, part := range parts {
		fragment.imports = mergeSorted(fragment.imports, part.imports)
		fragment.unsupported = mergeSorted(fragment.unsupported, part.unsupported)
	}

	return fragment
}

// absorb records the unsupported constructs of fragments whose code is dropped.
func (f Fragment) absorb(dropped ...Fragment) Fragment {
	for _, part := range dropped {
		f.unsupported = mergeSorted(f.unsupported, part.unsupported)
	}

	return f
}

func (f Fragment) with(imports ...string) Fragment {
	f.imports = mergeSorted(f.imports, imports)
	return f
}

// mergeSorted never returns nil so fragments always report a non-nil list.
func mergeSorted(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(append(merged, a...), b...)
	slices.Sort(merged)

	return slices.Compact(merged)
}

// call emits fn(parts...).
func call(kind Kind, fn string, parts ...Fragment) Fragment {
	return derive(kind, fmt.Sprintf("%s(%s)", fn, codes(parts)), parts...)
}

// method emits receiver.name(args...).
func method(kind Kind, receiver Fragment, name string, args ...Fragment) Fragment {
	parts := append([]Fragment{receiver}, args...)
	return derive(kind, fmt.Sprintf("%s.%s(%s)", receiver.code, name, codes(args)), parts...)
}

// binary emits (left op right).
func binary(kind Kind, left Fragment, op string, right Fragment) Fragment {
	return derive(kind, fmt.Sprintf("(%s %s %s)", left.code, op, right.code), left, right)
}

func codes(parts []Fragment) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, part.code)
	}

	return strings.Join(values, ", ")
}

// Coerce converts f to the target kind. It reports false when no conversion
// exists, for example from boolean to number.
func Coerce(f Fragment, to Kind) (Fragment, bool) {
	if to == KindAny || f.kind == to {
		return f, true
	}

	text, isConstant := f.Constant()

	switch f.kind {
	case KindString:
		switch to {
		case KindNumber:
			if isConstant {
				return NumberConstant(text).absorb(f), true
			}

			return call(KindNumber, "flowrt.ToNumber", f).with(RuntimeImport), true

		case KindInt:
			if isConstant {
				return derive(KindInt, strconv.Itoa(flowrt.ToNumber(text).Int())).absorb(f), true
			}

			return derive(KindInt, fmt.Sprintf("flowrt.ToNumber(%s).Int()", f.code), f).with(RuntimeImport), true

		case KindBoolean:
			if isConstant {
				return BooleanConstant(flowrt.ToBool(text)).absorb(f), true
			}

			return call(KindBoolean, "flowrt.ToBool", f).with(RuntimeImport), true

		case KindDate:
			return call(KindDate, "flowrt.ToDate", f).with(RuntimeImport), true
		}

	case KindNumber:
		switch to {
		case KindString:
			if isConstant {
				return StringConstant(text).absorb(f), true
			}

			return method(KindString, f, "String"), true

		case KindInt:
			if isConstant {
				return derive(KindInt, strconv.Itoa(flowrt.ToNumber(text).Int())).absorb(f), true
			}

			return method(KindInt, f, "Int"), true

		case KindDate:
			return call(KindDate, "flowrt.MillisToDate", f).with(RuntimeImport), true
		}

	case KindBoolean:
		if to == KindString {
			if isConstant {
				return StringConstant(text).absorb(f), true
			}

			return call(KindString, "strconv.FormatBool", f).with(pkgStrconv), true
		}

	case KindDate:
		switch to {
		case KindString:
			return call(KindString, "flowrt.DateString", f).with(RuntimeImport), true

		case KindNumber:
			return call(KindNumber, "flowrt.DateToNumber", f).with(RuntimeImport), true

		case KindInt:
			return method(KindInt, call(KindNumber, "flowrt.DateToNumber", f).with(RuntimeImport), "Int"), true
		}
	}

	return f, false
}

// MapList applies rule to every element of a list fragment.
func MapList(scope Scope, list Fragment, rule Rule, args []Fragment) (Fragment, bool) {
	elem := derive(list.elem, "v")
	if list.names {
		elem = Lookup(scope, derive(KindString, "v"))
	}

	subject, ok := Coerce(elem, rule.Subject)
	if !ok {
		return Fragment{}, false
	}

	body := rule.Emit(scope, subject, args)
	if body.kind == KindList || body.kind == KindAny {
		return Fragment{}, false
	}

	code := fmt.Sprintf("flowrt.Map(%s, func(v %s) %s { return %s })", list.code, list.elem.GoType(), body.kind.GoType(), body.code)

	fragment := derive(KindList, code, list, body).with(RuntimeImport)
	fragment.elem = body.kind
	fragment.aggregate = list.aggregate

	return fragment.with(typeImports(list.elem, body.kind)...), true
}

// ResolveList turns a list of attribute names into their values.
func ResolveList(scope Scope, list Fragment) Fragment {
	if !list.names {
		return list
	}

	fragment := derive(KindList, fmt.Sprintf("%s.Values(%s...)", scope.Attributes, list.code), list)
	fragment.elem = KindString
	fragment.aggregate = list.aggregate

	return fragment
}

// Reduce collapses a list of booleans with its aggregate. Other fragments are
// returned unchanged.
func Reduce(scope Scope, f Fragment) Fragment {
	if f.kind != KindList {
		return f
	}

	if f.elem != KindBoolean {
		return Unsupported(f, "multi-attribute expression must end with a boolean function, join or count")
	}

	fn := "flowrt.All"
	if f.aggregate == AggregateAny {
		fn = "flowrt.Any"
	}

	return call(KindBoolean, fn, ResolveList(scope, f)).with(RuntimeImport)
}

func newList(code string, aggregate Aggregate, names bool, parts ...Fragment) Fragment {
	fragment := derive(KindList, code, parts...)
	fragment.elem = KindString
	fragment.aggregate = aggregate
	fragment.names = names

	return fragment
}

func typeImports(kinds ...Kind) []string {
	imports := []string{}
	for _, kind := range kinds {
		switch kind {
		case KindDate:
			imports = append(imports, pkgTime)
		case KindNumber:
			imports = append(imports, RuntimeImport)
		}
	}

	return imports
}
