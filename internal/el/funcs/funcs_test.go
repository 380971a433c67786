package funcs_test

import (
	"go/parser"
	"testing"
	"time"

	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scope = funcs.Scope{Attributes: "attrs"}

func attribute(name string) funcs.Fragment {
	return funcs.Lookup(scope, funcs.StringConstant(name))
}

func TestTable(t *testing.T) {
	table := funcs.NewTable()

	assert.True(t, table.Has("toUpper"))
	assert.False(t, table.Has("jsonPath"))
	assert.Contains(t, table.Names(), "allAttributes")

	_, ok := table.Lookup("substring", 1)
	assert.True(t, ok)

	_, ok = table.Lookup("substring", 3)
	assert.False(t, ok)

	rule, ok := table.Lookup("toDate", 0)
	require.True(t, ok)
	assert.Equal(t, funcs.KindNumber, rule.Subject)

	rule, ok = table.Lookup("toDate", 2)
	require.True(t, ok)
	assert.Equal(t, funcs.KindString, rule.Subject)

	rule, ok = table.Lookup("in", 5)
	require.True(t, ok)
	assert.Equal(t, funcs.KindString, rule.ArgKind(4))
}

func TestCoerce(t *testing.T) {
	type testCase struct {
		name       string
		input      funcs.Fragment
		to         funcs.Kind
		outputCode string
		outputOK   bool
	}

	testCases := []testCase{
		{
			name:       "string constant to number",
			input:      funcs.StringConstant("12"),
			to:         funcs.KindNumber,
			outputCode: "flowrt.Int(12)",
			outputOK:   true,
		},
		{
			name:       "string constant to decimal",
			input:      funcs.StringConstant("1.5"),
			to:         funcs.KindNumber,
			outputCode: "flowrt.Float(1.5)",
			outputOK:   true,
		},
		{
			name:       "attribute to number",
			input:      attribute("size"),
			to:         funcs.KindNumber,
			outputCode: `flowrt.ToNumber(attrs.Get("size"))`,
			outputOK:   true,
		},
		{
			name:       "string constant to int",
			input:      funcs.StringConstant("3"),
			to:         funcs.KindInt,
			outputCode: "3",
			outputOK:   true,
		},
		{
			name:       "number to int",
			input:      funcs.Raw(funcs.KindNumber, "n"),
			to:         funcs.KindInt,
			outputCode: "n.Int()",
			outputOK:   true,
		},
		{
			name:       "boolean to string",
			input:      funcs.Raw(funcs.KindBoolean, "b"),
			to:         funcs.KindString,
			outputCode: "strconv.FormatBool(b)",
			outputOK:   true,
		},
		{
			name:       "date to number",
			input:      funcs.Raw(funcs.KindDate, "d"),
			to:         funcs.KindNumber,
			outputCode: "flowrt.DateToNumber(d)",
			outputOK:   true,
		},
		{
			name:       "string constant to boolean",
			input:      funcs.StringConstant("TRUE"),
			to:         funcs.KindBoolean,
			outputCode: "true",
			outputOK:   true,
		},
		{
			name:       "boolean to number",
			input:      funcs.Raw(funcs.KindBoolean, "b"),
			to:         funcs.KindNumber,
			outputCode: "b",
			outputOK:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, ok := funcs.Coerce(tc.input, tc.to)
			require.Equal(t, tc.outputOK, ok)
			require.Equal(t, tc.outputCode, output.Code())
		})
	}
}

func TestEmit(t *testing.T) {
	table := funcs.NewTable()

	type testCase struct {
		name          string
		function      string
		subject       funcs.Fragment
		args          []funcs.Fragment
		outputCode    string
		outputImports []string
		unsupported   bool
	}

	testCases := []testCase{
		{
			name:          "toUpper",
			function:      "toUpper",
			subject:       attribute("filename"),
			outputCode:    `strings.ToUpper(attrs.Get("filename"))`,
			outputImports: []string{"strings"},
		},
		{
			name:          "isNull of an attribute",
			function:      "isNull",
			subject:       attribute("filename"),
			outputCode:    `!attrs.Has("filename")`,
			outputImports: []string{},
		},
		{
			name:          "notNull of a computed value",
			function:      "notNull",
			subject:       funcs.Raw(funcs.KindString, "s"),
			outputCode:    "true",
			outputImports: []string{},
		},
		{
			name:          "replaceNull of an attribute",
			function:      "replaceNull",
			subject:       attribute("filename"),
			args:          []funcs.Fragment{funcs.StringConstant("x")},
			outputCode:    `attrs.GetOr("filename", "x")`,
			outputImports: []string{},
		},
		{
			name:          "format with a constant pattern",
			function:      "format",
			subject:       funcs.Raw(funcs.KindDate, "d"),
			args:          []funcs.Fragment{funcs.StringConstant("yyyy-MM-dd")},
			outputCode:    `d.Format("2006-01-02")`,
			outputImports: []string{},
		},
		{
			name:          "format with milliseconds outside a fraction",
			function:      "format",
			subject:       funcs.Raw(funcs.KindDate, "d"),
			args:          []funcs.Fragment{funcs.StringConstant("yyyyMMddHHmmssSSS")},
			outputCode:    `flowrt.FormatDate(d, "yyyyMMddHHmmssSSS")`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "format in a time zone",
			function:      "format",
			subject:       funcs.Raw(funcs.KindDate, "d"),
			args:          []funcs.Fragment{funcs.Raw(funcs.KindString, "p"), funcs.StringConstant("UTC")},
			outputCode:    `flowrt.FormatDate(flowrt.InZone(d, "UTC"), p)`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "math sqrt",
			function:      "math",
			subject:       funcs.Raw(funcs.KindNumber, "n"),
			args:          []funcs.Fragment{funcs.StringConstant("sqrt")},
			outputCode:    "n.Sqrt()",
			outputImports: []string{},
		},
		{
			name:          "math with an unknown function",
			function:      "math",
			subject:       funcs.Raw(funcs.KindNumber, "n"),
			args:          []funcs.Fragment{funcs.StringConstant("cbrt")},
			outputCode:    `/* nifi2go: unsupported: math function "cbrt" */ n`,
			outputImports: []string{},
			unsupported:   true,
		},
		{
			name:          "equals numbers",
			function:      "equals",
			subject:       funcs.Raw(funcs.KindNumber, "n"),
			args:          []funcs.Fragment{funcs.NumberConstant("1")},
			outputCode:    "n.Equal(flowrt.Int(1))",
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "equals mixed kinds",
			function:      "equals",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.NumberConstant("1")},
			outputCode:    `(s == "1")`,
			outputImports: []string{},
		},
		{
			name:          "notEquals dates",
			function:      "notEquals",
			subject:       funcs.Raw(funcs.KindDate, "a"),
			args:          []funcs.Fragment{funcs.Raw(funcs.KindDate, "b")},
			outputCode:    "!a.Equal(b)",
			outputImports: []string{},
		},
		{
			name:          "ifElse mixed kinds",
			function:      "ifElse",
			subject:       funcs.Raw(funcs.KindBoolean, "c"),
			args:          []funcs.Fragment{funcs.StringConstant("a"), funcs.NumberConstant("2")},
			outputCode:    `flowrt.IfElse(c, "a", "2")`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "in",
			function:      "in",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.StringConstant("a"), funcs.StringConstant("b")},
			outputCode:    `slices.Contains([]string{"a", "b"}, s)`,
			outputImports: []string{"slices"},
		},
		{
			name:          "plus",
			function:      "plus",
			subject:       funcs.Raw(funcs.KindNumber, "n"),
			args:          []funcs.Fragment{funcs.NumberConstant("2.5")},
			outputCode:    "n.Plus(flowrt.Float(2.5))",
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "padLeft with default padding",
			function:      "padLeft",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.Raw(funcs.KindInt, "10")},
			outputCode:    `flowrt.PadLeft(s, 10, "_")`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "matches",
			function:      "matches",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.StringConstant(`[a-z]+\.csv`)},
			outputCode:    `flowrt.Matches(s, "[a-z]+\\.csv")`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "matches with a computed pattern",
			function:      "matches",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.Raw(funcs.KindString, "p")},
			outputCode:    `flowrt.Matches(s, p)`,
			outputImports: []string{funcs.RuntimeImport},
		},
		{
			name:          "matches with a lookahead",
			function:      "matches",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.StringConstant("(?=x).*")},
			outputCode:    `/* nifi2go: unsupported: matches pattern not supported by Go regexp */ false`,
			outputImports: []string{},
			unsupported:   true,
		},
		{
			name:          "replaceAll with a lookbehind",
			function:      "replaceAll",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.StringConstant("(?<=x)y"), funcs.StringConstant("Q")},
			outputCode:    `/* nifi2go: unsupported: replaceAll pattern not supported by Go regexp */ s`,
			outputImports: []string{},
			unsupported:   true,
		},
		{
			name:          "find with a possessive quantifier",
			function:      "find",
			subject:       funcs.Raw(funcs.KindString, "s"),
			args:          []funcs.Fragment{funcs.StringConstant("a++")},
			outputCode:    `/* nifi2go: unsupported: find pattern not supported by Go regexp */ false`,
			outputImports: []string{},
			unsupported:   true,
		},
		{
			name:          "uuid",
			function:      "uuid",
			outputCode:    "uuid.NewString()",
			outputImports: []string{"github.com/google/uuid"},
		},
		{
			name:          "random",
			function:      "random",
			outputCode:    "flowrt.Int(rand.Int63())",
			outputImports: []string{funcs.RuntimeImport, "math/rand"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, ok := table.Lookup(tc.function, len(tc.args))
			require.True(t, ok)

			output := rule.Emit(scope, tc.subject, tc.args)

			t.Log(pretty.Sprint(output.Code()))

			require.Equal(t, tc.outputCode, output.Code())
			require.Equal(t, tc.outputImports, output.Imports())
			require.Equal(t, tc.unsupported, !output.Supported())

			_, err := parser.ParseExpr(output.Code())
			require.NoError(t, err)
		})
	}
}

func TestLists(t *testing.T) {
	table := funcs.NewTable()

	allAttributes, _ := table.Lookup("allAttributes", 2)
	isEmpty, _ := table.Lookup("isEmpty", 0)
	join, _ := table.Lookup("join", 1)
	count, _ := table.Lookup("count", 0)
	toUpper, _ := table.Lookup("toUpper", 0)

	names := allAttributes.Emit(scope, funcs.Fragment{}, []funcs.Fragment{funcs.StringConstant("a"), funcs.StringConstant("b")})
	assert.Equal(t, funcs.KindList, names.Kind())
	assert.Equal(t, `[]string{"a", "b"}`, names.Code())

	t.Run("map and reduce", func(t *testing.T) {
		mapped, ok := funcs.MapList(scope, names, isEmpty, nil)
		require.True(t, ok)
		assert.Equal(t, funcs.KindBoolean, mapped.Elem())

		reduced := funcs.Reduce(scope, mapped)
		assert.Equal(t, funcs.KindBoolean, reduced.Kind())
		assert.Equal(t, `flowrt.All(flowrt.Map([]string{"a", "b"}, func(v string) bool { return flowrt.IsEmpty(attrs.Get(v)) }))`, reduced.Code())
		assert.Equal(t, []string{funcs.RuntimeImport}, reduced.Imports())
	})

	t.Run("join", func(t *testing.T) {
		output := join.Emit(scope, names, []funcs.Fragment{funcs.StringConstant(",")})
		assert.Equal(t, `strings.Join(attrs.Values([]string{"a", "b"}...), ",")`, output.Code())
		assert.Equal(t, []string{"strings"}, output.Imports())
	})

	t.Run("count names", func(t *testing.T) {
		output := count.Emit(scope, names, nil)
		assert.Equal(t, `flowrt.CountTrue(flowrt.Map([]string{"a", "b"}, attrs.Has))`, output.Code())
	})

	t.Run("non boolean result", func(t *testing.T) {
		mapped, ok := funcs.MapList(scope, names, toUpper, nil)
		require.True(t, ok)

		reduced := funcs.Reduce(scope, mapped)
		assert.False(t, reduced.Supported())
		assert.Equal(t, funcs.KindString, reduced.Kind())
		assert.Contains(t, reduced.Code(), `""`)
	})
}

func TestEval(t *testing.T) {
	table := funcs.NewTable()

	env := &funcs.Env{
		Attributes: flowrt.Attributes{"a": "x", "b": ""},
		Now:        func() time.Time { return time.UnixMilli(0) },
		NewUUID:    func() string { return "00000000-0000-0000-0000-000000000000" },
		Hostname:   func() string { return "localhost" },
		Random:     func() int64 { return 4 },
	}

	type testCase struct {
		name       string
		function   string
		subject    funcs.Value
		args       []funcs.Value
		outputText string
	}

	testCases := []testCase{
		{
			name:       "padLeft",
			function:   "padLeft",
			subject:    funcs.StringValue("test"),
			args:       []funcs.Value{funcs.NumberValue(flowrt.Int(10)), funcs.StringValue("#")},
			outputText: "######test",
		},
		{
			name:       "math sqrt",
			function:   "math",
			subject:    funcs.NumberValue(flowrt.Int(16)),
			args:       []funcs.Value{funcs.StringValue("sqrt")},
			outputText: "4.0",
		},
		{
			name:       "equals mixed kinds",
			function:   "equals",
			subject:    funcs.StringValue("1"),
			args:       []funcs.Value{funcs.NumberValue(flowrt.Int(1))},
			outputText: "true",
		},
		{
			name:       "isNull of an absent attribute",
			function:   "isNull",
			subject:    funcs.LookupValue(env.Attributes, "missing"),
			outputText: "true",
		},
		{
			name:       "replaceNull of a present attribute",
			function:   "replaceNull",
			subject:    funcs.LookupValue(env.Attributes, "b"),
			args:       []funcs.Value{funcs.StringValue("y")},
			outputText: "",
		},
		{
			name:       "format",
			function:   "format",
			subject:    funcs.DateValue(time.UnixMilli(1_600_000_000_000).UTC()),
			args:       []funcs.Value{funcs.StringValue("yyyy/MM/dd")},
			outputText: "2020/09/13",
		},
		{
			name:       "format with milliseconds",
			function:   "format",
			subject:    funcs.DateValue(time.UnixMilli(1_700_000_000_123).UTC()),
			args:       []funcs.Value{funcs.StringValue("yyyyMMddHHmmssSSS")},
			outputText: "20231114221320123",
		},
		{
			name:       "format three letter year",
			function:   "format",
			subject:    funcs.DateValue(time.UnixMilli(1_700_000_000_123).UTC()),
			args:       []funcs.Value{funcs.StringValue("yyy")},
			outputText: "2023",
		},
		{
			name:       "random",
			function:   "random",
			outputText: "4",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, ok := table.Lookup(tc.function, len(tc.args))
			require.True(t, ok)

			output, err := rule.Eval(env, tc.subject, tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.outputText, output.Text())
		})
	}

	t.Run("unknown math function", func(t *testing.T) {
		rule, _ := table.Lookup("math", 1)

		_, err := rule.Eval(env, funcs.NumberValue(flowrt.Int(1)), []funcs.Value{funcs.StringValue("cbrt")})
		require.ErrorIs(t, err, funcs.ErrUnsupported)
	})

	t.Run("patterns Go regexp rejects", func(t *testing.T) {
		patterns := map[string][]funcs.Value{
			"matches":      {funcs.StringValue("(?=x).*")},
			"find":         {funcs.StringValue("a++")},
			"replaceAll":   {funcs.StringValue("(?<=x)y"), funcs.StringValue("Q")},
			"replaceFirst": {funcs.StringValue(`(a)\1`), funcs.StringValue("Q")},
		}

		for function, args := range patterns {
			rule, ok := table.Lookup(function, len(args))
			require.True(t, ok)

			_, err := rule.Eval(env, funcs.StringValue("xyz"), args)
			require.ErrorIs(t, err, funcs.ErrUnsupported, function)
		}
	})

	t.Run("count skips absent attributes", func(t *testing.T) {
		list, _ := table.Lookup("allAttributes", 3)
		count, _ := table.Lookup("count", 0)

		names := []funcs.Value{funcs.StringValue("a"), funcs.StringValue("b"), funcs.StringValue("c")}
		values, err := list.Eval(env, funcs.Value{}, names)
		require.NoError(t, err)

		output, err := count.Eval(env, values, nil)
		require.NoError(t, err)
		require.Equal(t, "2", output.Text())
	})
}
