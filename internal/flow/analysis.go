package flow

import (
	"maps"
	"slices"
	"strings"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/parser"
)

// Expression is a processor property whose value contains Expression Language.
type Expression struct {
	ProcessorID   string `json:"processorId" yaml:"processorId"`
	ProcessorName string `json:"processorName" yaml:"processorName"`
	Property      string `json:"property" yaml:"property"`
	Value         string `json:"value" yaml:"value"`
}

// Analysis summarizes a flow.
type Analysis struct {
	Name                  string         `json:"name" yaml:"name"`
	Processors            int            `json:"processors" yaml:"processors"`
	ProcessorTypes        map[string]int `json:"processorTypes" yaml:"processorTypes"`
	Connections           int            `json:"connections" yaml:"connections"`
	Relationships         int            `json:"relationships" yaml:"relationships"`
	AutoTerminated        int            `json:"autoTerminated" yaml:"autoTerminated"`
	Expressions           []Expression   `json:"expressions" yaml:"expressions"`
	Functions             []string       `json:"functions" yaml:"functions"`
	UnparsableExpressions int            `json:"unparsableExpressions" yaml:"unparsableExpressions"`
}

// Expressions lists every property value that contains "${", ordered by
// processor and property.
func (f *Flow) Expressions() []Expression {
	expressions := make([]Expression, 0)

	for _, processor := range f.Processors {
		for _, name := range slices.Sorted(maps.Keys(processor.Properties)) {
			value := processor.Properties[name]
			if !strings.Contains(value, "${") {
				continue
			}

			expressions = append(expressions, Expression{
				ProcessorID:   processor.ID,
				ProcessorName: processor.Name,
				Property:      name,
				Value:         value,
			})
		}
	}

	return expressions
}

func (f *Flow) Analyze() Analysis {
	analysis := Analysis{
		Name:           f.Name,
		Processors:     len(f.Processors),
		ProcessorTypes: make(map[string]int),
		Connections:    len(f.Connections),
		Expressions:    f.Expressions(),
	}

	for _, processor := range f.Processors {
		analysis.ProcessorTypes[processor.ShortType()]++
		analysis.Relationships += len(processor.Relationships)

		for _, relationship := range processor.Relationships {
			if relationship.AutoTerminate {
				analysis.AutoTerminated++
			}
		}
	}

	functions := make(map[string]struct{})
	for _, expression := range analysis.Expressions {
		used, err := Functions(expression.Value)
		if err != nil {
			analysis.UnparsableExpressions++
			continue
		}

		for _, name := range used {
			functions[name] = struct{}{}
		}
	}

	analysis.Functions = slices.Sorted(maps.Keys(functions))

	return analysis
}

// Functions returns the sorted names of the functions called in text with
// embedded expressions.
func Functions(text string) ([]string, error) {
	template, err := parser.ParseTemplate(text)
	if err != nil {
		return nil, err
	}

	functions := make(map[string]struct{})
	for _, segment := range template.Segments {
		if segment.Expr != nil {
			collectFunctions(segment.Expr, functions)
		}
	}

	return slices.Sorted(maps.Keys(functions)), nil
}

func collectFunctions(node ast.Node, functions map[string]struct{}) {
	switch node := node.(type) {
	case *ast.Expr:
		collectFunctions(node.Subject, functions)
		for _, call := range node.Calls {
			collectFunctions(call, functions)
		}

	case *ast.Call:
		functions[node.Name] = struct{}{}
		for _, arg := range node.Args {
			collectFunctions(arg, functions)
		}
	}
}
