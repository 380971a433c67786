package converter

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/artuross/nifi2go/internal/flow"
)

// writeStub writes a function that lists the processor configuration in
// comments and fails with flowrt.ErrNotImplemented.
func writeStub(fn *Function, p flow.Processor) {
	if len(p.Properties) > 0 {
		fn.Line("// Properties:")
		for _, name := range slices.Sorted(maps.Keys(p.Properties)) {
			fn.Line("//   %s: %s", commentText(name), commentText(p.Properties[name]))
		}
	}

	fn.Import("fmt")
	fn.Line("return nil, fmt.Errorf(%q, %s, %s, flowrt.ErrNotImplemented)",
		"%s %q: %w", strconv.Quote(p.ShortType()), strconv.Quote(p.Name))
}

// commentText flattens text so it fits on a single comment line.
func commentText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
