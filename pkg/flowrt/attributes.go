package flowrt

import (
	"maps"
	"regexp"
	"slices"
)

// Attributes holds the attributes of a FlowFile. A nil Attributes reads as empty.
type Attributes map[string]string

// Get returns the value of the attribute, or "" when it is not set.
func (a Attributes) Get(name string) string {
	return a[name]
}

func (a Attributes) Lookup(name string) (string, bool) {
	value, ok := a[name]
	return value, ok
}

// Has reports whether the attribute is set, even to an empty value.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// GetOr returns the value of the attribute, or fallback when it is not set.
func (a Attributes) GetOr(name, fallback string) string {
	if value, ok := a[name]; ok {
		return value
	}

	return fallback
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Values returns the values of the named attributes in argument order.
func (a Attributes) Values(names ...string) []string {
	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, a[name])
	}

	return values
}

// MatchingNames returns, in sorted order, the names of all attributes that
// fully match at least one of the regular expressions.
func (a Attributes) MatchingNames(patterns ...string) []string {
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		if re, ok := compileAnchored(pattern); ok {
			matchers = append(matchers, re)
		}
	}

	names := make([]string, 0)
	for _, name := range a.Names() {
		matches := slices.ContainsFunc(matchers, func(re *regexp.Regexp) bool {
			return re.MatchString(name)
		})

		if matches {
			names = append(names, name)
		}
	}

	return names
}

// Matching returns the values of all attributes whose name fully matches the
// regular expression, ordered by attribute name.
func (a Attributes) Matching(pattern string) []string {
	return a.Values(a.MatchingNames(pattern)...)
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}

	return maps.Clone(a)
}

// Merge sets every value in values. The receiver is allocated when nil.
func (a *Attributes) Merge(values map[string]string) {
	if *a == nil {
		*a = make(Attributes, len(values))
	}

	maps.Copy(*a, values)
}

func (a Attributes) Delete(names ...string) {
	for _, name := range names {
		delete(a, name)
	}
}

// DeleteMatching removes all attributes whose name fully matches the regular
// expression. Invalid patterns remove nothing.
func (a Attributes) DeleteMatching(pattern string) {
	re, ok := compileAnchored(pattern)
	if !ok {
		return
	}

	maps.DeleteFunc(a, func(name, _ string) bool {
		return re.MatchString(name)
	})
}
