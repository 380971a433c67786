package provenance

// Report summarizes the validation of a flow against its provenance.
type Report struct {
	Processors int      `json:"processors" yaml:"processors"`
	Validated  int      `json:"validated" yaml:"validated"`
	Samples    int      `json:"samples" yaml:"samples"`
	Passed     int      `json:"passed" yaml:"passed"`
	Failed     int      `json:"failed" yaml:"failed"`
	Skipped    int      `json:"skipped" yaml:"skipped"`
	Results    []Result `json:"results" yaml:"results"`
}

func NewReport(results []Result) Report {
	report := Report{
		Processors: len(results),
		Results:    results,
	}

	for _, result := range results {
		if len(result.Checks) > 0 {
			report.Validated++
		}

		report.Samples += result.Samples
		report.Passed += result.Passed
		report.Failed += result.Failed
		report.Skipped += result.Skipped
	}

	return report
}

// OK reports whether no check failed.
func (r Report) OK() bool {
	return r.Failed == 0
}
