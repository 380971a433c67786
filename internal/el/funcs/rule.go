package funcs

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"time"

	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/google/uuid"
)

// Variadic marks a rule without an upper argument bound.
const Variadic = -1

type (
	EmitFunc func(scope Scope, subject Fragment, args []Fragment) Fragment
	EvalFunc func(env *Env, subject Value, args []Value) (Value, error)
)

// Rule describes one EL function for one arity range: the kinds its subject
// and arguments are coerced to, how it is emitted as Go and how it evaluates.
type Rule struct {
	Name    string
	MinArgs int
	MaxArgs int

	// Subject is KindNone for functions that start an expression, such as now().
	Subject Kind
	Args    []Kind
	Result  Kind

	Emit EmitFunc
	Eval EvalFunc
}

// ArgKind returns the kind of the i-th argument. The last declared kind
// repeats for variadic rules.
func (r Rule) ArgKind(i int) Kind {
	if len(r.Args) == 0 {
		return KindAny
	}

	return r.Args[min(i, len(r.Args)-1)]
}

func (r Rule) Accepts(arity int) bool {
	return arity >= r.MinArgs && (r.MaxArgs == Variadic || arity <= r.MaxArgs)
}

// Env supplies the interpreter with attributes and non-deterministic sources.
type Env struct {
	Attributes flowrt.Attributes
	Now        func() time.Time
	NewUUID    func() string
	Hostname   func() string
	Random     func() int64
}

// NewEnv returns an Env over attrs backed by the real clock, UUID generator,
// host name and random source.
func NewEnv(attrs flowrt.Attributes) *Env {
	return &Env{
		Attributes: attrs,
		Now:        time.Now,
		NewUUID:    uuid.NewString,
		Hostname:   flowrt.Hostname,
		Random:     rand.Int63,
	}
}

// Table maps function names to their rules. It is immutable once built.
type Table struct {
	rules map[string][]Rule
}

// NewTable builds the table of supported EL functions.
func NewTable() *Table {
	groups := [][]Rule{
		stringRules(),
		searchRules(),
		logicRules(),
		numericRules(),
		dateRules(),
		subjectRules(),
		aggregateRules(),
	}

	table := Table{
		rules: make(map[string][]Rule),
	}

	for _, group := range groups {
		for _, rule := range group {
			for _, existing := range table.rules[rule.Name] {
				invariant(overlaps(existing, rule), fmt.Sprintf("NewTable: overlapping rules for %s", rule.Name))
			}

			table.rules[rule.Name] = append(table.rules[rule.Name], rule)
		}
	}

	return &table
}

// Lookup returns the rule for the function name called with arity arguments.
func (t *Table) Lookup(name string, arity int) (Rule, bool) {
	for _, rule := range t.rules[name] {
		if rule.Accepts(arity) {
			return rule, true
		}
	}

	return Rule{}, false
}

func (t *Table) Has(name string) bool {
	_, ok := t.rules[name]
	return ok
}

func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.rules))
}

func overlaps(a, b Rule) bool {
	aMax, bMax := a.MaxArgs, b.MaxArgs
	if aMax == Variadic {
		aMax = int(^uint(0) >> 1)
	}
	if bMax == Variadic {
		bMax = int(^uint(0) >> 1)
	}

	return a.MinArgs <= bMax && b.MinArgs <= aMax
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
