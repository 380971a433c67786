package generator

import (
	"math"

	"github.com/artuross/nifi2go/internal/converter"
	"github.com/artuross/nifi2go/internal/flow"
)

// Report describes how much of a flow was converted.
type Report struct {
	Flow                   string             `json:"flow" yaml:"flow"`
	Processors             int                `json:"processors" yaml:"processors"`
	Converted              int                `json:"converted" yaml:"converted"`
	Partial                int                `json:"partial" yaml:"partial"`
	Stubs                  int                `json:"stubs" yaml:"stubs"`
	Coverage               float64            `json:"coverage" yaml:"coverage"`
	UnsupportedExpressions int                `json:"unsupportedExpressions" yaml:"unsupportedExpressions"`
	Functions              []string           `json:"functions" yaml:"functions"`
	Results                []converter.Result `json:"results" yaml:"results"`
}

// NewReport summarizes conversion results. A processor is converted when it is
// not a stub and none of its expressions are unsupported; processors with
// unsupported expressions count as partial. Coverage is the percentage of
// converted processors, rounded to one decimal.
func NewReport(f *flow.Flow, results []converter.Result) Report {
	report := Report{
		Flow:       f.Name,
		Processors: len(results),
		Functions:  f.Analyze().Functions,
		Results:    results,
	}

	for _, result := range results {
		switch {
		case result.Stub:
			report.Stubs++

		case len(result.Unsupported) > 0:
			report.Partial++

		default:
			report.Converted++
		}

		report.UnsupportedExpressions += len(result.Unsupported)
	}

	if report.Processors > 0 {
		report.Coverage = math.Round(float64(report.Converted)/float64(report.Processors)*1000) / 10
	}

	return report
}
