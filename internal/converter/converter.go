package converter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/el/transpile"
	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/log/semconv"
)

// AttributesVar is the expression generated functions read attributes from.
const AttributesVar = "ff.Attributes"

// Result is the Go source generated for a single processor.
type Result struct {
	ProcessorID   string   `json:"processorId" yaml:"processorId"`
	ProcessorName string   `json:"processorName" yaml:"processorName"`
	ProcessorType string   `json:"processorType" yaml:"processorType"`
	FunctionName  string   `json:"functionName" yaml:"functionName"`
	Code          string   `json:"-" yaml:"-"`
	Imports       []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Stub          bool     `json:"stub" yaml:"stub"`
	Notes         []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Unsupported   []string `json:"unsupported,omitempty" yaml:"unsupported,omitempty"`
}

// Convert writes the body of a processor function. A returned error makes
// the registry emit a stub instead.
type Convert func(fn *Function, p flow.Processor) error

type Registry struct {
	transpiler *transpile.Transpiler
	converters map[string]Convert
}

type Option func(r *Registry)

func WithTranspiler(transpiler *transpile.Transpiler) Option {
	return func(r *Registry) {
		r.transpiler = transpiler
	}
}

// NewRegistry returns a registry with the built-in converters.
func NewRegistry(options ...Option) *Registry {
	r := Registry{
		converters: make(map[string]Convert),
	}

	for _, apply := range options {
		apply(&r)
	}

	if r.transpiler == nil {
		r.transpiler = transpile.New(transpile.WithAttributesVar(AttributesVar))
	}

	r.Register("org.apache.nifi.processors.attributes.UpdateAttribute", UpdateAttribute)
	r.Register("org.apache.nifi.processors.standard.RouteOnAttribute", RouteOnAttribute)
	r.Register("org.apache.nifi.processors.standard.LogMessage", LogMessage)
	r.Register("org.apache.nifi.processors.standard.LogAttribute", LogAttribute)
	r.Register("org.apache.nifi.processors.standard.GenerateFlowFile", GenerateFlowFile)
	r.Register("org.apache.nifi.processors.standard.HashContent", HashContent)
	r.Register("org.apache.nifi.processors.standard.ReplaceText", ReplaceText)

	return &r
}

// Register sets the converter for a processor type. Types are matched by
// their unqualified class name.
func (r *Registry) Register(processorType string, convert Convert) {
	r.converters[shortType(processorType)] = convert
}

// Types returns the unqualified names of all supported processor types.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.converters))
}

func (r *Registry) Supports(p flow.Processor) bool {
	_, ok := r.converters[p.ShortType()]
	return ok
}

// Convert generates a function for the processor. Processors without a
// converter, or whose configuration cannot be converted, become stubs.
func (r *Registry) Convert(ctx context.Context, p flow.Processor) Result {
	logger := zerolog.Ctx(ctx).With().
		Str(semconv.ProcessorID, p.ID).
		Str(semconv.ProcessorType, p.ShortType()).
		Logger()

	convert, ok := r.converters[p.ShortType()]
	if !ok {
		logger.Debug().Msg("no converter, generating stub")

		return r.stub(p, fmt.Sprintf("no converter for %s", p.ShortType()))
	}

	fn := r.newFunction()
	if err := convert(fn, p); err != nil {
		logger.Warn().Err(err).Msg("conversion failed, generating stub")

		result := r.stub(p, "conversion failed")
		result.Warnings = append(result.Warnings, err.Error())

		return result
	}

	return fn.result(p)
}

// ConvertAll converts every processor of the flow in order.
func (r *Registry) ConvertAll(ctx context.Context, f *flow.Flow) []Result {
	results := make([]Result, 0, len(f.Processors))
	for _, p := range f.Processors {
		results = append(results, r.Convert(ctx, p))
	}

	return results
}

func (r *Registry) newFunction() *Function {
	return &Function{
		transpiler: r.transpiler,
		imports:    []string{funcs.RuntimeImport},
	}
}

func (r *Registry) stub(p flow.Processor, note string) Result {
	fn := r.newFunction()
	writeStub(fn, p)

	result := fn.result(p)
	result.Stub = true
	result.Notes = append(result.Notes, note)

	return result
}

func shortType(processorType string) string {
	return processorType[strings.LastIndex(processorType, ".")+1:]
}
