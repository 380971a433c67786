package transpile_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/format"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/artuross/nifi2go/internal/el/evaluate"
	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/el/transpile"
	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emittedAttributes = flowrt.Attributes{
	"filename": "data.2024.01.15.csv",
	"x":        "hello",
	"y":        "hello",
	"hundred":  "100",
	"two":      "2",
	"three":    "3",
	"one":      "1",
	"five":     "5",
	"ts":       "1700000000123",
	"day":      "2023-11-14",
	"empty":    "",
	"blank":    "  ",
	"list":     "a,b,c",
	"email":    "john@example.com",
	"path":     "/tmp/in/file name.txt",
	"mixed":    "Hello World",
	"num":      "-7.5",
	"attr":     " x ",
}

// TestEmittedMatchesEvaluator compiles the transpiled expressions into a
// program, runs it and compares every result with the interpreter.
func TestEmittedMatchesEvaluator(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles and runs a program")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	type testCase struct {
		input     string
		condition bool
	}

	testCases := []testCase{
		{input: "${filename:toUpper()}"},
		{input: "${filename:substringBeforeLast('.')}"},
		{input: "${filename:substringAfterLast('.')}"},
		{input: "${filename:substringBefore('xyz')}"},
		{input: "${filename:substringAfter('xyz')}"},
		{input: "${filename:substringAfter('.'):substringBefore('.')}"},
		{input: "${hundred:toNumber():multiply(${two}):divide(${three}):plus(${one}):mod(${five})}"},
		{input: "${num:toDecimal():abs()}"},
		{input: "${num:toDecimal():ceil()}"},
		{input: "${num:toDecimal():floor()}"},
		{input: "${num:toDecimal():round()}"},
		{input: "${missing:toUpper():append('!')}"},
		{input: "${missing:replaceNull('none'):toUpper()}"},
		{input: "${empty:replaceEmpty('was empty')}"},
		{input: "${${attr:trim()}}"},
		{input: "${mixed:toLower():replace(' ', '_')}"},
		{input: "${mixed:replaceAll('[aeiou]', '*')}"},
		{input: "${mixed:replaceFirst('o', '0')}"},
		{input: "${mixed:length()}"},
		{input: "${mixed:indexOf('o')}"},
		{input: "${mixed:lastIndexOf('o')}"},
		{input: "${mixed:substring(0, 5)}"},
		{input: "${mixed:substring(6)}"},
		{input: "${x:padLeft(8, '*')}"},
		{input: "${x:padRight(8)}"},
		{input: "${x:prepend('say '):append('!')}"},
		{input: "${email:find('@[a-z]+\\.com')}"},
		{input: "${path:urlEncode()}"},
		{input: "${path:urlEncode():urlDecode()}"},
		{input: "${ts:toDate():format('yyyyMMddHHmmssSSS')}"},
		{input: "${ts:toDate():format('yyyy-MM-dd HH:mm:ss.SSS')}"},
		{input: "${ts:toDate():format('yyy')}"},
		{input: "${ts:toDate():format(\"EEE'day'\")}"},
		{input: "${day:toDate('yyyy-MM-dd', 'UTC'):format('dd/MM/yyyy')}"},
		{input: "${day:toDate('yyyy-MM-dd', 'UTC'):toNumber()}"},
		{input: "${allDelineatedValues(${list}, ','):toUpper():join('-')}"},
		{input: "file_${filename:substringBefore('.')}_${x}.txt"},
		{input: "100% ${x}"},
		{input: "$${x}"},
		{input: "empty=${empty:isEmpty()}"},
		{input: "${x:equals(${y})}", condition: true},
		{input: "${x:equalsIgnoreCase('HELLO')}", condition: true},
		{input: "${x:notEquals('world')}", condition: true},
		{input: "${filename:matches('^[a-z]+\\..*\\.csv$')}", condition: true},
		{input: "${filename:startsWith('data'):and(${filename:endsWith('.csv')})}", condition: true},
		{input: "${filename:contains('2025'):or(${x:isEmpty()})}", condition: true},
		{input: "${blank:isEmpty()}", condition: true},
		{input: "${missing:isNull():not()}", condition: true},
		{input: "${five:toNumber():gt(${three})}", condition: true},
		{input: "${x:in('hello', 'world')}", condition: true},
		{input: "${mixed:length():equals(11)}", condition: true},
		{input: "${empty:isEmpty():ifElse('yes', 'no'):equals('yes')}", condition: true},
		{input: "true", condition: true},
	}

	tr := transpile.New()
	evaluator := evaluate.New()

	imports := []string{"encoding/json", "os", funcs.RuntimeImport}
	codes := make([]string, 0, len(testCases))
	expected := make([]string, 0, len(testCases))

	for _, tc := range testCases {
		env := funcs.NewEnv(emittedAttributes)

		var (
			fragment funcs.Fragment
			err      error
			want     string
		)

		if tc.condition {
			fragment, err = tr.TranspileBoolean(tc.input)
			require.NoError(t, err, tc.input)

			truth, err := evaluator.EvaluateBoolean(tc.input, env)
			require.NoError(t, err, tc.input)

			want = strconv.FormatBool(truth)
		} else {
			fragment, err = tr.TranspileEmbedded(tc.input)
			require.NoError(t, err, tc.input)

			want, err = evaluator.EvaluateText(tc.input, env)
			require.NoError(t, err, tc.input)
		}

		require.True(t, fragment.Supported(), "%s: %v", tc.input, fragment.Unsupported())

		code := fragment.Code()
		if tc.condition {
			code = "strconv.FormatBool(" + code + ")"
			imports = append(imports, "strconv")
		}

		imports = append(imports, fragment.Imports()...)
		codes = append(codes, code)
		expected = append(expected, want)
	}

	source := emittedProgram(t, imports, codes)
	output := runEmitted(t, source)

	var actual []string
	require.NoError(t, json.Unmarshal(output, &actual), string(output))
	require.Len(t, actual, len(testCases))

	for i, tc := range testCases {
		assert.Equal(t, expected[i], actual[i], "%s emitted %s", tc.input, codes[i])
	}
}

func emittedProgram(t *testing.T, imports, codes []string) []byte {
	t.Helper()

	slices.Sort(imports)
	imports = slices.Compact(imports)

	var source bytes.Buffer

	source.WriteString("package main\n\nimport (\n")
	for _, path := range imports {
		fmt.Fprintf(&source, "\t%q\n", path)
	}
	source.WriteString(")\n\nfunc main() {\n\tattrs := flowrt.Attributes{\n")

	for _, name := range emittedAttributes.Names() {
		fmt.Fprintf(&source, "\t\t%q: %q,\n", name, emittedAttributes[name])
	}

	source.WriteString("\t}\n\n\tresults := []string{\n")
	for _, code := range codes {
		fmt.Fprintf(&source, "\t\t%s,\n", code)
	}
	source.WriteString("\t}\n\n\tif err := json.NewEncoder(os.Stdout).Encode(results); err != nil {\n\t\tpanic(err)\n\t}\n}\n")

	formatted, err := format.Source(source.Bytes())
	require.NoError(t, err, source.String())

	return formatted
}

// runEmitted builds source inside this module so the runtime package resolves
// from the working tree.
func runEmitted(t *testing.T, source []byte) []byte {
	t.Helper()

	dir, err := os.MkdirTemp(".", "emitted")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), source, 0o644))

	cmd := exec.Command("go", "run", ".")
	cmd.Dir = dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		t.Fatalf("go run: %v\n%s\n%s", err, stderr.String(), source)
	}
	require.NoError(t, err)

	return output
}
