package flowrt

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateLayout renders dates the way NiFi does when a date is used as text.
const DefaultDateLayout = "Mon Jan 02 15:04:05 MST 2006"

// dateElement is one field of a Java date pattern: a Go layout for a
// single field, literal text, or a run of S (milliseconds).
type dateElement struct {
	text    string
	literal bool
	millis  int
}

// dateLayout returns the Go layout of a run of count pattern letters.
func dateLayout(letter byte, count int) (string, bool) {
	switch letter {
	case 'y':
		if count == 2 {
			return "06", true
		}

		return "2006", true

	case 'M':
		return [...]string{"1", "01", "Jan", "January"}[min(count, 4)-1], true

	case 'd':
		return pick(count, "2", "02"), true

	case 'H':
		return "15", true

	case 'h':
		return pick(count, "3", "03"), true

	case 'm':
		return pick(count, "4", "04"), true

	case 's':
		return pick(count, "5", "05"), true

	case 'E':
		if count >= 4 {
			return "Monday", true
		}

		return "Mon", true

	case 'D':
		return "002", true

	case 'a':
		return "PM", true

	case 'z':
		return "MST", true

	case 'Z':
		return "-0700", true

	case 'X':
		return [...]string{"Z07", "Z0700", "Z07:00"}[min(count, 3)-1], true
	}

	return "", false
}

func pick(count int, short, padded string) string {
	if count == 1 {
		return short
	}

	return padded
}

// dateElements splits a Java SimpleDateFormat pattern into fields. Text in
// single quotes is literal and '' is a literal quote. Letters without a Go
// equivalent are kept as literal text.
func dateElements(pattern string) []dateElement {
	var elements []dateElement

	appendLiteral := func(text string) {
		if n := len(elements); n > 0 && elements[n-1].literal {
			elements[n-1].text += text
			return
		}

		elements = append(elements, dateElement{text: text, literal: true})
	}

	rest := pattern
	for rest != "" {
		if rest[0] == '\'' {
			if strings.HasPrefix(rest, "''") {
				appendLiteral("'")
				rest = rest[2:]
				continue
			}

			var quoted strings.Builder
			rest = quotedLiteral(&quoted, rest[1:])
			appendLiteral(quoted.String())
			continue
		}

		letter := rest[0]
		count := 1
		for count < len(rest) && rest[count] == letter {
			count++
		}

		if letter == 'S' {
			elements = append(elements, dateElement{millis: count})
			rest = rest[count:]
			continue
		}

		if layout, ok := dateLayout(letter, count); ok {
			elements = append(elements, dateElement{text: layout})
			rest = rest[count:]
			continue
		}

		appendLiteral(rest[:1])
		rest = rest[1:]
	}

	return elements
}

// layoutSamples render Go layout elements differently from the elements
// themselves and from each other, so a layout that merges pattern fields
// disagrees with field-by-field formatting for at least one of them.
var layoutSamples = []time.Time{
	time.Date(1999, time.December, 31, 11, 59, 58, 123456789, time.FixedZone("XYZ", 3600)),
	time.Date(2008, time.March, 5, 21, 7, 9, 987654321, time.FixedZone("ABC", -5*3600)),
}

// ExactDateLayout converts a Java date pattern into a single Go layout. It
// reports false when the layout does not render the pattern exactly, such as
// milliseconds not written as ".SSS" or literal text Go reads as a layout
// element.
func ExactDateLayout(pattern string) (string, bool) {
	elements := dateElements(pattern)

	var layout strings.Builder
	for _, element := range elements {
		if element.millis > 0 {
			layout.WriteString(strings.Repeat("0", element.millis))
			continue
		}

		layout.WriteString(element.text)
	}

	for _, sample := range layoutSamples {
		if sample.Format(layout.String()) != formatElements(sample, elements) {
			return layout.String(), false
		}
	}

	return layout.String(), true
}

// ConvertDatePattern converts a Java SimpleDateFormat pattern into a Go time
// layout. The layout is exact only when ExactDateLayout reports so.
func ConvertDatePattern(pattern string) string {
	layout, _ := ExactDateLayout(pattern)
	return layout
}

func formatElements(t time.Time, elements []dateElement) string {
	var out strings.Builder
	for _, element := range elements {
		switch {
		case element.literal:
			out.WriteString(element.text)

		case element.millis > 0:
			fmt.Fprintf(&out, "%0*d", element.millis, t.Nanosecond()/int(time.Millisecond))

		default:
			out.WriteString(t.Format(element.text))
		}
	}

	return out.String()
}

// quotedLiteral copies quoted text up to the closing quote and returns what
// follows it. Inside quotes '' is a literal quote.
func quotedLiteral(layout *strings.Builder, rest string) string {
	for rest != "" {
		index := strings.IndexByte(rest, '\'')
		if index < 0 {
			layout.WriteString(rest)
			return ""
		}

		layout.WriteString(rest[:index])
		if strings.HasPrefix(rest[index:], "''") {
			layout.WriteByte('\'')
			rest = rest[index+2:]
			continue
		}

		return rest[index+1:]
	}

	return rest
}

// FormatDate formats t with a Java date pattern. S runs print milliseconds
// zero-padded to the run length, as Java does.
func FormatDate(t time.Time, pattern string) string {
	if layout, ok := ExactDateLayout(pattern); ok {
		return t.Format(layout)
	}

	return formatElements(t, dateElements(pattern))
}

// ParseDate parses text with a Java date pattern in UTC. Text that does not
// match yields the zero time.
func ParseDate(text, pattern string) time.Time {
	return ParseDateIn(text, pattern, "UTC")
}

// ParseDateIn parses text with a Java date pattern in the named time zone.
func ParseDateIn(text, pattern, zone string) time.Time {
	location, err := time.LoadLocation(zone)
	if err != nil {
		location = time.UTC
	}

	t, err := time.ParseInLocation(ConvertDatePattern(pattern), strings.TrimSpace(text), location)
	if err != nil {
		return time.Time{}
	}

	return t
}

// InZone converts t to the named time zone. Unknown zones leave t unchanged.
func InZone(t time.Time, zone string) time.Time {
	location, err := time.LoadLocation(zone)
	if err != nil {
		return t
	}

	return t.In(location)
}

// MillisToDate interprets n as milliseconds since the Unix epoch, in UTC.
func MillisToDate(n Number) time.Time {
	return time.UnixMilli(n.Int64()).UTC()
}

// DateToNumber returns milliseconds since the Unix epoch.
func DateToNumber(t time.Time) Number {
	return Int(t.UnixMilli())
}

// ToDate interprets text as milliseconds since the Unix epoch.
func ToDate(text string) time.Time {
	return MillisToDate(ToNumber(text))
}

func DateString(t time.Time) string {
	return t.Format(DefaultDateLayout)
}
