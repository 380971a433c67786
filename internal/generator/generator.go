package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"

	"github.com/artuross/nifi2go/internal/converter"
	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/flow"
)

// Header marks generated files for Go tooling.
const Header = "// Code generated by nifi2go. DO NOT EDIT."

const DefaultPackage = "flow"

type Generator struct {
	pkg string
}

type Option func(g *Generator)

func WithPackage(name string) Option {
	return func(g *Generator) {
		g.pkg = name
	}
}

func New(options ...Option) *Generator {
	g := Generator{
		pkg: DefaultPackage,
	}

	for _, apply := range options {
		apply(&g)
	}

	return &g
}

// Generate renders the converted processors of a flow as one formatted Go
// file: a Processors map, a Connections table and a function per processor.
func (g *Generator) Generate(f *flow.Flow, results []converter.Result) ([]byte, error) {
	results = uniqueFunctionNames(results)

	var source bytes.Buffer

	source.WriteString(Header + "\n")
	if f.Name != "" {
		fmt.Fprintf(&source, "// Source: NiFi flow %q.\n", commentText(f.Name))
	}
	fmt.Fprintf(&source, "\npackage %s\n\n", g.pkg)

	writeImports(&source, results)

	source.WriteString("// Processors maps processor IDs to their generated functions.\n")
	source.WriteString("var Processors = map[string]flowrt.ProcessorFunc{\n")
	for _, result := range results {
		fmt.Fprintf(&source, "%s: %s,\n", strconv.Quote(result.ProcessorID), result.FunctionName)
	}
	source.WriteString("}\n\n")

	source.WriteString("// Connections lists the relationships linking processors.\n")
	source.WriteString("var Connections = []flowrt.Connection{\n")
	for _, connection := range Connections(f) {
		fmt.Fprintf(&source, "{Source: %s, Destination: %s, Relationships: %s},\n",
			strconv.Quote(connection.Source),
			strconv.Quote(connection.Destination),
			stringSlice(connection.Relationships),
		)
	}
	source.WriteString("}\n")

	for _, result := range results {
		source.WriteString("\n")
		source.WriteString(result.Code)
	}

	formatted, err := format.Source(source.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generator.Generate format source: %w", err)
	}

	return formatted, nil
}

// writeImports writes the union of all imports, standard library first.
func writeImports(source *bytes.Buffer, results []converter.Result) {
	imports := []string{funcs.RuntimeImport}
	for _, result := range results {
		imports = append(imports, result.Imports...)
	}

	slices.Sort(imports)
	imports = slices.Compact(imports)

	std := make([]string, 0, len(imports))
	external := make([]string, 0, len(imports))
	for _, path := range imports {
		if strings.Contains(strings.Split(path, "/")[0], ".") {
			external = append(external, path)
		} else {
			std = append(std, path)
		}
	}

	source.WriteString("import (\n")
	for _, path := range std {
		fmt.Fprintf(source, "%s\n", strconv.Quote(path))
	}
	if len(std) > 0 && len(external) > 0 {
		source.WriteString("\n")
	}
	for _, path := range external {
		fmt.Fprintf(source, "%s\n", strconv.Quote(path))
	}
	source.WriteString(")\n\n")
}

// uniqueFunctionNames renames functions whose names collide by appending a
// counter.
func uniqueFunctionNames(results []converter.Result) []converter.Result {
	renamed := slices.Clone(results)
	seen := make(map[string]int, len(results))

	for i, result := range renamed {
		seen[result.FunctionName]++
		if count := seen[result.FunctionName]; count > 1 {
			name := result.FunctionName + strconv.Itoa(count)
			renamed[i].Code = strings.ReplaceAll(result.Code, result.FunctionName+"(", name+"(")
			renamed[i].Code = strings.Replace(renamed[i].Code, "// "+result.FunctionName+" ", "// "+name+" ", 1)
			renamed[i].FunctionName = name
		}
	}

	return renamed
}

func stringSlice(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, strconv.Quote(value))
	}

	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func commentText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
