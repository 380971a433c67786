package flowrt

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patternCache  sync.Map // string -> *regexp.Regexp, nil for invalid patterns
	anchoredCache sync.Map
)

func compile(pattern string) (*regexp.Regexp, bool) {
	return compileCached(&patternCache, pattern, pattern)
}

func compileAnchored(pattern string) (*regexp.Regexp, bool) {
	return compileCached(&anchoredCache, pattern, `^(?:`+pattern+`)$`)
}

func compileCached(cache *sync.Map, key, pattern string) (*regexp.Regexp, bool) {
	if cached, ok := cache.Load(key); ok {
		re := cached.(*regexp.Regexp)
		return re, re != nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}

	cache.Store(key, re)

	return re, re != nil
}

// ValidPattern reports whether Go's regexp package accepts pattern. Java-only
// constructs such as lookaround, backreferences and possessive quantifiers
// are rejected.
func ValidPattern(pattern string) bool {
	_, ok := compile(pattern)
	return ok
}

// Matches reports whether the whole text matches the regular expression.
func Matches(text, pattern string) bool {
	re, ok := compileAnchored(pattern)
	return ok && re.MatchString(text)
}

// Find reports whether any part of text matches the regular expression.
func Find(text, pattern string) bool {
	re, ok := compile(pattern)
	return ok && re.MatchString(text)
}

// ReplaceAll replaces every match of the regular expression. The replacement
// uses Java group syntax ($1, ${name}, \$). Invalid patterns leave text unchanged.
func ReplaceAll(text, pattern, replacement string) string {
	re, ok := compile(pattern)
	if !ok {
		return text
	}

	return re.ReplaceAllString(text, convertReplacement(replacement))
}

// ReplaceFirst replaces only the first match of the regular expression.
func ReplaceFirst(text, pattern, replacement string) string {
	re, ok := compile(pattern)
	if !ok {
		return text
	}

	match := re.FindStringSubmatchIndex(text)
	if match == nil {
		return text
	}

	expanded := re.ExpandString(nil, convertReplacement(replacement), text, match)

	return text[:match[0]] + string(expanded) + text[match[1]:]
}

// convertReplacement rewrites a Java replacement string into regexp.Expand
// syntax: $1 becomes ${1} and escaped characters become literals.
func convertReplacement(replacement string) string {
	var out strings.Builder

	for i := 0; i < len(replacement); i++ {
		c := replacement[i]

		switch {
		case c == '\\' && i+1 < len(replacement):
			i++
			if replacement[i] == '$' {
				out.WriteString("$$")
			} else {
				out.WriteByte(replacement[i])
			}

		case c == '$' && i+1 < len(replacement) && isASCIIDigit(replacement[i+1]):
			j := i + 1
			for j < len(replacement) && isASCIIDigit(replacement[j]) {
				j++
			}

			out.WriteString("${" + replacement[i+1:j] + "}")
			i = j - 1

		case c == '$' && i+1 < len(replacement) && replacement[i+1] == '{':
			end := strings.IndexByte(replacement[i:], '}')
			if end < 0 {
				out.WriteString("$$")
				continue
			}

			out.WriteString(replacement[i : i+end+1])
			i += end

		case c == '$':
			out.WriteString("$$")

		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
