package flowrt

import "strings"

// Map applies f to every value.
func Map[T, R any](values []T, f func(T) R) []R {
	out := make([]R, 0, len(values))
	for _, value := range values {
		out = append(out, f(value))
	}

	return out
}

// All reports whether every value is true. An empty list is true.
func All(values []bool) bool {
	for _, value := range values {
		if !value {
			return false
		}
	}

	return true
}

// Any reports whether at least one value is true.
func Any(values []bool) bool {
	for _, value := range values {
		if value {
			return true
		}
	}

	return false
}

func CountTrue(values []bool) Number {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}

	return Int(int64(count))
}

// DelineatedValues splits text on delimiter. Empty text has no values.
func DelineatedValues(text, delimiter string) []string {
	if text == "" {
		return []string{}
	}

	if delimiter == "" {
		return []string{text}
	}

	return strings.Split(text, delimiter)
}
