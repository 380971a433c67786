package flowrt

import (
	"encoding/base64"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"
)

// SubstringBefore returns the text before the first occurrence of delimiter,
// or text unchanged when the delimiter does not occur.
func SubstringBefore(text, delimiter string) string {
	if delimiter == "" {
		return text
	}

	before, _, found := strings.Cut(text, delimiter)
	if !found {
		return text
	}

	return before
}

// SubstringBeforeLast returns the text before the last occurrence of delimiter,
// or text unchanged when the delimiter does not occur.
func SubstringBeforeLast(text, delimiter string) string {
	if delimiter == "" {
		return text
	}

	index := strings.LastIndex(text, delimiter)
	if index < 0 {
		return text
	}

	return text[:index]
}

// SubstringAfter returns the text after the first occurrence of delimiter, or
// text unchanged when the delimiter does not occur.
func SubstringAfter(text, delimiter string) string {
	if delimiter == "" {
		return text
	}

	_, after, found := strings.Cut(text, delimiter)
	if !found {
		return text
	}

	return after
}

// SubstringAfterLast returns the text after the last occurrence of delimiter,
// or text unchanged when the delimiter does not occur.
func SubstringAfterLast(text, delimiter string) string {
	if delimiter == "" {
		return text
	}

	index := strings.LastIndex(text, delimiter)
	if index < 0 {
		return text
	}

	return text[index+len(delimiter):]
}

// Substring returns the characters in [start, end). Indexes are clamped to the
// text, so out of range values never panic.
func Substring(text string, start, end int) string {
	runes := []rune(text)

	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	return string(runes[start:end])
}

// SubstringFrom returns the characters from start to the end of text.
func SubstringFrom(text string, start int) string {
	return Substring(text, start, utf8.RuneCountInString(text))
}

// IsEmpty reports whether text is empty or contains only whitespace.
func IsEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ReplaceEmpty returns replacement when text is empty or whitespace.
func ReplaceEmpty(text, replacement string) string {
	if IsEmpty(text) {
		return replacement
	}

	return text
}

// PadLeft prepends pad until text is length characters long. Text that is
// already long enough is returned unchanged.
func PadLeft(text string, length int, pad string) string {
	missing := length - utf8.RuneCountInString(text)
	if missing <= 0 || pad == "" {
		return text
	}

	return padding(pad, missing) + text
}

// PadRight appends pad until text is length characters long. Text that is
// already long enough is returned unchanged.
func PadRight(text string, length int, pad string) string {
	missing := length - utf8.RuneCountInString(text)
	if missing <= 0 || pad == "" {
		return text
	}

	return text + padding(pad, missing)
}

func padding(pad string, count int) string {
	runes := []rune(strings.Repeat(pad, count/utf8.RuneCountInString(pad)+1))
	return string(runes[:count])
}

// Length returns the number of characters in text.
func Length(text string) Number {
	return Int(int64(utf8.RuneCountInString(text)))
}

// IndexOf returns the character index of the first occurrence of search, or -1.
func IndexOf(text, search string) Number {
	index := strings.Index(text, search)
	if index < 0 {
		return Int(-1)
	}

	return Int(int64(utf8.RuneCountInString(text[:index])))
}

// LastIndexOf returns the character index of the last occurrence of search, or -1.
func LastIndexOf(text, search string) Number {
	index := strings.LastIndex(text, search)
	if index < 0 {
		return Int(-1)
	}

	return Int(int64(utf8.RuneCountInString(text[:index])))
}

// ToBool reports whether text spells "true", ignoring case and surrounding space.
func ToBool(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "true")
}

// IfElse returns whenTrue if condition holds, whenFalse otherwise.
func IfElse[T any](condition bool, whenTrue, whenFalse T) T {
	if condition {
		return whenTrue
	}

	return whenFalse
}

func Base64Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Base64Decode decodes standard base64. Invalid input decodes to "".
func Base64Decode(text string) string {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return ""
	}

	return string(data)
}

// URLDecode reverses URL query escaping. Invalid input is returned unchanged.
func URLDecode(text string) string {
	decoded, err := url.QueryUnescape(text)
	if err != nil {
		return text
	}

	return decoded
}

// Hostname returns the host name of the machine, or "localhost" when unknown.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}

	return name
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}

// MapLines applies f to every line of text. Line terminators are kept and are
// not passed to f.
func MapLines(text string, f func(line string) string) string {
	var result strings.Builder

	for line := range strings.SplitAfterSeq(text, "\n") {
		// text ending in a newline has no last line
		if line == "" {
			continue
		}

		content := strings.TrimRight(line, "\r\n")
		result.WriteString(f(content))
		result.WriteString(line[len(content):])
	}

	return result.String()
}
