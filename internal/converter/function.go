package converter

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/el/transpile"
	"github.com/artuross/nifi2go/internal/flow"
)

// Function accumulates the body of a generated processor function. Generated
// functions have the signature of flowrt.ProcessorFunc and read attributes
// from AttributesVar.
type Function struct {
	transpiler  *transpile.Transpiler
	body        strings.Builder
	imports     []string
	notes       []string
	warnings    []string
	unsupported []string
}

// Line appends a formatted line to the function body.
func (fn *Function) Line(format string, args ...any) {
	fmt.Fprintf(&fn.body, format, args...)
	fn.body.WriteByte('\n')
}

func (fn *Function) Import(paths ...string) {
	for _, path := range paths {
		if !slices.Contains(fn.imports, path) {
			fn.imports = append(fn.imports, path)
		}
	}
}

func (fn *Function) Note(format string, args ...any) {
	fn.notes = append(fn.notes, fmt.Sprintf(format, args...))
}

func (fn *Function) Warn(format string, args ...any) {
	fn.warnings = append(fn.warnings, fmt.Sprintf(format, args...))
}

// Text translates a property value with embedded expressions into Go code of
// type string.
func (fn *Function) Text(property, value string) (string, error) {
	fragment, err := fn.transpiler.TranspileEmbedded(value)
	if err != nil {
		return "", fmt.Errorf("property %q: %w", property, err)
	}

	return fn.use(property, fragment), nil
}

// Condition translates a property value into Go code of type bool.
func (fn *Function) Condition(property, value string) (string, error) {
	fragment, err := fn.transpiler.TranspileBoolean(value)
	if err != nil {
		return "", fmt.Errorf("property %q: %w", property, err)
	}

	return fn.use(property, fragment), nil
}

func (fn *Function) use(property string, fragment funcs.Fragment) string {
	fn.Import(fragment.Imports()...)

	for _, reason := range fragment.Unsupported() {
		fn.unsupported = append(fn.unsupported, fmt.Sprintf("%s: %s", property, reason))
	}

	return fragment.Code()
}

func (fn *Function) result(p flow.Processor) Result {
	name := FunctionName(p)

	var code strings.Builder
	fmt.Fprintf(&code, "// %s implements %s %q (%s).\n", name, p.ShortType(), p.Name, p.ID)
	fmt.Fprintf(&code, "func %s(ff *flowrt.FlowFile) (flowrt.Routes, error) {\n", name)
	code.WriteString(fn.body.String())
	code.WriteString("}\n")

	return Result{
		ProcessorID:   p.ID,
		ProcessorName: p.Name,
		ProcessorType: p.Type,
		FunctionName:  name,
		Code:          code.String(),
		Imports:       slices.Sorted(slices.Values(fn.imports)),
		Notes:         fn.notes,
		Warnings:      fn.warnings,
		Unsupported:   fn.unsupported,
	}
}

// FunctionName returns the Go identifier of the function generated for a
// processor: "process", the processor name in CamelCase and the first six
// hexadecimal digits of its ID.
func FunctionName(p flow.Processor) string {
	name := camelCase(p.Name)
	if name == "" {
		name = camelCase(p.ShortType())
	}

	return "process" + name + idSuffix(p.ID)
}

func camelCase(text string) string {
	var name strings.Builder

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		name.WriteString(string(runes))
	}

	return name.String()
}

func idSuffix(id string) string {
	var suffix strings.Builder

	for _, r := range strings.ToLower(id) {
		if suffix.Len() == 6 {
			break
		}

		if strings.ContainsRune("0123456789abcdef", r) {
			suffix.WriteRune(r)
		}
	}

	return strings.ToUpper(suffix.String())
}
