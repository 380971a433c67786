package provenance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/artuross/nifi2go/internal/converter"
	"github.com/artuross/nifi2go/internal/el/evaluate"
	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/log/semconv"
	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/rs/zerolog"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Functions whose result differs between NiFi and a replay.
var nondeterministic = []string{"hostname", "ip", "nextInt", "now", "random", "thread", "UUID", "uuid"}

// Check compares the behavior of a processor in one sample with what its
// configured expressions produce when interpreted.
type Check struct {
	EventID  int64  `json:"eventId" yaml:"eventId"`
	Property string `json:"property,omitempty" yaml:"property,omitempty"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Status   Status `json:"status" yaml:"status"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Result struct {
	ProcessorID   string  `json:"processorId" yaml:"processorId"`
	ProcessorName string  `json:"processorName" yaml:"processorName"`
	ProcessorType string  `json:"processorType" yaml:"processorType"`
	Samples       int     `json:"samples" yaml:"samples"`
	Passed        int     `json:"passed" yaml:"passed"`
	Failed        int     `json:"failed" yaml:"failed"`
	Skipped       int     `json:"skipped" yaml:"skipped"`
	Checks        []Check `json:"checks" yaml:"checks"`
}

// Validate produces the checks of one sample.
type Validate func(v *Validator, p flow.Processor, sample Sample) []Check

type Validator struct {
	evaluator  *evaluate.Evaluator
	validators map[string]Validate
}

type Option func(v *Validator)

func WithEvaluator(evaluator *evaluate.Evaluator) Option {
	return func(v *Validator) {
		v.evaluator = evaluator
	}
}

func NewValidator(options ...Option) *Validator {
	v := Validator{
		evaluator: nil,
		validators: map[string]Validate{
			"UpdateAttribute":  validateUpdateAttribute,
			"RouteOnAttribute": validateRouteOnAttribute,
		},
	}

	for _, apply := range options {
		apply(&v)
	}

	if v.evaluator == nil {
		v.evaluator = evaluate.New()
	}

	return &v
}

func (v *Validator) Supports(p flow.Processor) bool {
	_, ok := v.validators[p.ShortType()]
	return ok
}

// Validate checks every sample of a processor. Processors without a
// validator get a result without checks.
func (v *Validator) Validate(ctx context.Context, p flow.Processor, samples []Sample) Result {
	logger := zerolog.Ctx(ctx).With().
		Str(semconv.ProcessorID, p.ID).
		Str(semconv.ProcessorType, p.ShortType()).
		Logger()

	result := Result{
		ProcessorID:   p.ID,
		ProcessorName: p.Name,
		ProcessorType: p.ShortType(),
		Samples:       len(samples),
		Checks:        make([]Check, 0),
	}

	validate, ok := v.validators[p.ShortType()]
	if !ok {
		logger.Debug().Msg("no validator for processor")
		return result
	}

	for _, sample := range samples {
		for _, check := range validate(v, p, sample) {
			switch check.Status {
			case StatusPassed:
				result.Passed++

			case StatusFailed:
				result.Failed++
				logger.Warn().
					Int64(semconv.EventID, check.EventID).
					Str(semconv.Property, check.Property).
					Str("expected", check.Expected).
					Str("actual", check.Actual).
					Str("reason", check.Reason).
					Msg("sample does not match")

			case StatusSkipped:
				result.Skipped++
			}

			result.Checks = append(result.Checks, check)
		}
	}

	return result
}

// skipReason returns why an expression cannot be replayed, or "".
func skipReason(expression string) string {
	functions, err := flow.Functions(expression)
	if err != nil {
		return fmt.Sprintf("parse expression: %s", err)
	}

	for _, name := range functions {
		if slices.Contains(nondeterministic, name) {
			return fmt.Sprintf("uses %s()", name)
		}
	}

	return ""
}

// evaluationCheck turns an evaluation error into a finished check. It returns
// false when err is nil.
func evaluationCheck(check Check, err error) (Check, bool) {
	if err == nil {
		return check, false
	}

	check.Reason = err.Error()
	check.Status = StatusFailed
	if errors.Is(err, evaluate.ErrUnsupported) {
		check.Status = StatusSkipped
	}

	return check, true
}

func validateUpdateAttribute(v *Validator, p flow.Processor, sample Sample) []Check {
	env := &funcs.Env{Attributes: flowrt.Attributes(sample.attributes())}
	deleted := p.Property("Delete Attributes Expression")

	checks := make([]Check, 0)
	for _, name := range p.DynamicProperties(converter.UpdateAttributeSettings...) {
		check := Check{EventID: sample.EventID, Property: name}

		expression := p.Properties[name]
		if reason := skipReason(expression); reason != "" {
			check.Status, check.Reason = StatusSkipped, reason
			checks = append(checks, check)
			continue
		}

		expected, err := v.evaluator.EvaluateText(expression, env)
		if failed, done := evaluationCheck(check, err); done {
			checks = append(checks, failed)
			continue
		}

		check.Expected = expected

		actual, ok := sample.Output[name]
		switch {
		case !ok && deleted != "":
			check.Status, check.Reason = StatusSkipped, "attribute may have been deleted"

		case !ok:
			check.Status, check.Reason = StatusFailed, "attribute missing from output"

		case actual == expected:
			check.Actual, check.Status = actual, StatusPassed

		default:
			check.Actual, check.Status = actual, StatusFailed
		}

		checks = append(checks, check)
	}

	return checks
}

func validateRouteOnAttribute(v *Validator, p flow.Processor, sample Sample) []Check {
	if sample.Relationship == "" {
		return nil
	}

	check := Check{EventID: sample.EventID, Actual: sample.Relationship}
	env := &funcs.Env{Attributes: flowrt.Attributes(sample.attributes())}

	names := p.DynamicProperties(converter.PropertyRoutingStrategy)
	matched := make([]string, 0, len(names))
	for _, name := range names {
		expression := p.Properties[name]
		if reason := skipReason(expression); reason != "" {
			check.Property, check.Status, check.Reason = name, StatusSkipped, reason
			return []Check{check}
		}

		truth, err := v.evaluator.EvaluateBoolean(expression, env)
		if failed, done := evaluationCheck(check, err); done {
			failed.Property = name
			return []Check{failed}
		}

		if truth {
			matched = append(matched, name)
		}
	}

	var expected []string
	switch strategy := p.PropertyOr(converter.PropertyRoutingStrategy, converter.RouteToPropertyName); strategy {
	case converter.RouteToPropertyName:
		expected = matched

	case converter.RouteAllMatch:
		if len(names) > 0 && len(matched) == len(names) {
			expected = []string{"matched"}
		}

	case converter.RouteAnyMatches:
		if len(matched) > 0 {
			expected = []string{"matched"}
		}

	default:
		check.Status, check.Reason = StatusSkipped, fmt.Sprintf("unsupported routing strategy %q", strategy)
		return []Check{check}
	}

	if len(expected) == 0 {
		expected = []string{"unmatched"}
	}

	check.Expected = strings.Join(expected, ", ")
	check.Status = StatusFailed
	if slices.Contains(expected, sample.Relationship) {
		check.Status = StatusPassed
	}

	return []Check{check}
}
