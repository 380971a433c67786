package converter

import (
	"strconv"
	"strings"

	"github.com/artuross/nifi2go/internal/flow"
)

const importLog = "github.com/rs/zerolog/log"

// NiFi log levels and the zerolog event constructors they map to.
var logLevels = map[string]string{
	"trace": "Trace",
	"debug": "Debug",
	"info":  "Info",
	"warn":  "Warn",
	"error": "Error",
}

// LogMessage logs the prefixed message at the configured level.
func LogMessage(fn *Function, p flow.Processor) error {
	level := logLevel(fn, "log-level", p.PropertyOr("log-level", "info"))

	message, err := fn.Text("log-message", p.Property("log-prefix")+p.Property("log-message"))
	if err != nil {
		return err
	}

	fn.Import(importLog)
	fn.Line("log.%s().", level)
	fn.Line("Str(%q, %s).", "processor", strconv.Quote(p.Name))
	fn.Line("Msg(%s)", message)
	fn.Line(`return flowrt.Route("success", ff), nil`)

	return nil
}

// LogAttribute logs the selected attributes, and optionally the content, as
// fields of a single event.
func LogAttribute(fn *Function, p flow.Processor) error {
	level := logLevel(fn, "Log Level", p.PropertyOr("Log Level", "info"))

	prefix, err := fn.Text("Log prefix", p.Property("Log prefix"))
	if err != nil {
		return err
	}

	include := splitNames(p.Property("Attributes to Log"))
	ignore := splitNames(p.Property("Attributes to Ignore"))
	includePattern := p.PropertyOr("attributes-to-log-regex", ".*")
	ignorePattern := p.Property("attributes-to-ignore-regex")

	fn.Import(importLog)
	fn.Line("event := log.%s().Str(%q, %s)", level, "processor", strconv.Quote(p.Name))
	fn.Line("for _, name := range ff.Attributes.Names() {")

	if len(include) > 0 {
		fn.Import("slices")
		fn.Line("if !slices.Contains(%s, name) {", stringSlice(include))
		fn.Line("continue")
		fn.Line("}")
	} else if includePattern != ".*" {
		fn.Line("if !flowrt.Matches(name, %s) {", strconv.Quote(includePattern))
		fn.Line("continue")
		fn.Line("}")
	}

	if len(ignore) > 0 {
		fn.Import("slices")
		fn.Line("if slices.Contains(%s, name) {", stringSlice(ignore))
		fn.Line("continue")
		fn.Line("}")
	}

	if ignorePattern != "" {
		fn.Line("if flowrt.Matches(name, %s) {", strconv.Quote(ignorePattern))
		fn.Line("continue")
		fn.Line("}")
	}

	fn.Line("event = event.Str(name, ff.Attributes[name])")
	fn.Line("}")

	if strings.EqualFold(p.Property("Log Payload"), "true") {
		fn.Line("event = event.Str(%q, string(ff.Content))", "payload")
	}

	fn.Line("event.Msg(%s)", prefix)
	fn.Line(`return flowrt.Route("success", ff), nil`)

	return nil
}

func logLevel(fn *Function, property, value string) string {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		fn.Warn("%s %q is not supported, logging at info", property, value)
		return "Info"
	}

	return level
}

// splitNames splits a comma separated list of attribute names.
func splitNames(list string) []string {
	names := make([]string, 0)
	for name := range strings.SplitSeq(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func stringSlice(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, strconv.Quote(value))
	}

	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
