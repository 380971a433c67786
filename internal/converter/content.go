package converter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/pkg/flowrt"
)

var generateFlowFileSettings = []string{
	"File Size",
	"Batch Size",
	"Data Format",
	"Unique FlowFiles",
	"generate-ff-custom-text",
	"Custom Text",
	"character-set",
	"mime-type",
}

// GenerateFlowFile creates a batch of new FlowFiles with the custom text as
// content, or zero-filled content of the configured size. Dynamic properties
// become attributes of every generated FlowFile. As a source processor it
// accepts a nil FlowFile, whose attributes read as empty.
func GenerateFlowFile(fn *Function, p flow.Processor) error {
	batch, err := strconv.Atoi(p.PropertyOr("Batch Size", "1"))
	if err != nil || batch < 1 {
		return &SettingError{Property: "Batch Size", Value: p.Property("Batch Size")}
	}

	fn.Line("if ff == nil {")
	fn.Line("ff = &flowrt.FlowFile{}")
	fn.Line("}")

	content := "nil"
	if text := p.PropertyOr("generate-ff-custom-text", p.Property("Custom Text")); text != "" {
		code, err := fn.Text("generate-ff-custom-text", text)
		if err != nil {
			return err
		}

		content = "[]byte(" + code + ")"
	} else {
		size, err := parseDataSize(p.PropertyOr("File Size", "0B"))
		if err != nil {
			return err
		}

		if size > 0 {
			content = "make([]byte, " + strconv.FormatInt(size, 10) + ")"
			fn.Note("generated content is zero-filled")
		}
	}

	fn.Line("routes := flowrt.Routes{}")
	fn.Line("for range %d {", batch)
	fn.Line("generated := flowrt.NewFlowFile(%s)", content)

	if names := p.DynamicProperties(generateFlowFileSettings...); len(names) > 0 {
		fn.Line("generated.Attributes.Merge(map[string]string{")
		for _, name := range names {
			code, err := fn.Text(name, p.Properties[name])
			if err != nil {
				return err
			}

			fn.Line("%s: %s,", strconv.Quote(name), code)
		}
		fn.Line("})")
	}

	fn.Line(`routes.Add("success", generated)`)
	fn.Line("}")
	fn.Line("return routes, nil")

	return nil
}

var dataSizePattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*([KMGT]?B)?\s*$`)

var dataSizeUnits = map[string]float64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// parseDataSize parses NiFi data sizes such as "10 KB". Units are powers of 1024.
func parseDataSize(text string) (int64, error) {
	match := dataSizePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, &SettingError{Property: "File Size", Value: text}
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, &SettingError{Property: "File Size", Value: text}
	}

	return int64(value * dataSizeUnits[strings.ToUpper(match[2])]), nil
}

type hashAlgorithm struct {
	pkg string
	sum string
}

var hashAlgorithms = map[string]hashAlgorithm{
	"MD5":     {"crypto/md5", "md5.Sum"},
	"SHA-1":   {"crypto/sha1", "sha1.Sum"},
	"SHA-224": {"crypto/sha256", "sha256.Sum224"},
	"SHA-256": {"crypto/sha256", "sha256.Sum256"},
	"SHA-384": {"crypto/sha512", "sha512.Sum384"},
	"SHA-512": {"crypto/sha512", "sha512.Sum512"},
}

// HashContent stores the hex encoded hash of the content in an attribute.
func HashContent(fn *Function, p flow.Processor) error {
	name := p.PropertyOr("Hash Algorithm", "MD5")

	algorithm, ok := hashAlgorithms[strings.ToUpper(name)]
	if !ok {
		return &SettingError{Property: "Hash Algorithm", Value: name}
	}

	attribute := p.PropertyOr("Hash Attribute Name", "hash.value")

	fn.Import(algorithm.pkg, "encoding/hex")
	fn.Line("sum := %s(ff.Content)", algorithm.sum)
	fn.Line("ff.Attributes.Merge(map[string]string{%s: hex.EncodeToString(sum[:])})", strconv.Quote(attribute))
	fn.Line(`return flowrt.Route("success", ff), nil`)

	return nil
}

const (
	replaceRegex   = "Regex Replace"
	replaceLiteral = "Literal Replace"
	replacePrepend = "Prepend"
	replaceAppend  = "Append"
	replaceAlways  = "Always Replace"

	evaluateLineByLine = "Line-by-Line"
)

// ReplaceText rewrites the content with the replacement strategy, either as a
// whole or line by line.
func ReplaceText(fn *Function, p flow.Processor) error {
	strategy := p.PropertyOr("Replacement Strategy", replaceRegex)

	var searchCode string
	if strategy == replaceRegex || strategy == replaceLiteral {
		search := p.PropertyOr("Regular Expression", p.PropertyOr("Search Value", "(?s)(^.*$)"))
		if strategy == replaceRegex && !strings.Contains(search, "${") && !flowrt.ValidPattern(search) {
			return &SettingError{Property: "Regular Expression", Value: search}
		}

		code, err := fn.Text("Regular Expression", search)
		if err != nil {
			return err
		}

		searchCode = code
	}

	replacement, err := fn.Text("Replacement Value", p.PropertyOr("Replacement Value", "$1"))
	if err != nil {
		return err
	}

	var replace func(text string) string
	switch strategy {
	case replaceRegex:
		replace = func(text string) string {
			return "flowrt.ReplaceAll(" + text + ", " + searchCode + ", replacement)"
		}

	case replaceLiteral:
		fn.Import("strings")
		replace = func(text string) string {
			return "strings.ReplaceAll(" + text + ", " + searchCode + ", replacement)"
		}

	case replacePrepend:
		replace = func(text string) string {
			return "replacement + " + text
		}

	case replaceAppend:
		replace = func(text string) string {
			return text + " + replacement"
		}

	case replaceAlways:
		replace = func(string) string {
			return "replacement"
		}

	default:
		return &SettingError{Property: "Replacement Strategy", Value: strategy}
	}

	fn.Line("replacement := %s", replacement)

	if p.Property("Evaluation Mode") == evaluateLineByLine {
		fn.Line("ff.Content = []byte(flowrt.MapLines(string(ff.Content), func(line string) string {")
		fn.Line("return %s", replace("line"))
		fn.Line("}))")
	} else {
		fn.Line("ff.Content = []byte(%s)", replace("string(ff.Content)"))
	}

	fn.Line(`return flowrt.Route("success", ff), nil`)

	return nil
}
