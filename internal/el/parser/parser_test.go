package parser_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/lexer"
	"github.com/artuross/nifi2go/internal/el/parser"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLexer struct {
	pos    int
	tokens []*lexer.Token
}

func (l *fakeLexer) ReadToken() (*lexer.Token, error) {
	if l.pos >= len(l.tokens) {
		return nil, io.EOF
	}

	token := l.tokens[l.pos]
	l.pos += 1

	return token, nil
}

func TestParser(t *testing.T) {
	t.Run("tokens", func(t *testing.T) {
		lex := &fakeLexer{
			tokens: []*lexer.Token{
				{Type: lexer.TokenTypeExprOpen, Value: "${"},
				{Type: lexer.TokenTypeIdentifier, Value: "filename"},
				{Type: lexer.TokenTypePunctuation, Value: ":"},
				{Type: lexer.TokenTypeIdentifier, Value: "toUpper"},
				{Type: lexer.TokenTypePunctuation, Value: "("},
				{Type: lexer.TokenTypePunctuation, Value: ")"},
				{Type: lexer.TokenTypePunctuation, Value: "}"},
			},
		}

		expr, err := parser.NewParser(lex).Parse()
		require.NoError(t, err)

		expected := &ast.Expr{
			Subject: &ast.Attribute{Name: "filename"},
			Calls: []*ast.Call{
				{Name: "toUpper", Args: []ast.Node{}},
			},
		}

		assert.Equal(t, expected, expr)
	})

	t.Run("expressions", func(t *testing.T) {
		type testCase struct {
			name   string
			input  string
			output *ast.Expr
		}

		testCases := []testCase{
			{
				name:  "bare attribute",
				input: "${filename}",
				output: &ast.Expr{
					Subject: &ast.Attribute{Name: "filename"},
					Calls:   []*ast.Call{},
				},
			},
			{
				name:  "quoted attribute is one name",
				input: "${'a b c,d':equals('abc')}",
				output: &ast.Expr{
					Subject: &ast.Attribute{Name: "a b c,d"},
					Calls: []*ast.Call{
						{Name: "equals", Args: []ast.Node{&ast.Literal{Kind: ast.LiteralString, Value: "abc"}}},
					},
				},
			},
			{
				name:  "chain with literal arguments",
				input: "${filename:substring(0, 5):padLeft(10, '#'):equals(true)}",
				output: &ast.Expr{
					Subject: &ast.Attribute{Name: "filename"},
					Calls: []*ast.Call{
						{Name: "substring", Args: []ast.Node{
							&ast.Literal{Kind: ast.LiteralNumber, Value: "0"},
							&ast.Literal{Kind: ast.LiteralNumber, Value: "5"},
						}},
						{Name: "padLeft", Args: []ast.Node{
							&ast.Literal{Kind: ast.LiteralNumber, Value: "10"},
							&ast.Literal{Kind: ast.LiteralString, Value: "#"},
						}},
						{Name: "equals", Args: []ast.Node{
							&ast.Literal{Kind: ast.LiteralBoolean, Value: "true"},
						}},
					},
				},
			},
			{
				name:  "nested subject",
				input: "${${attr:trim()}}",
				output: &ast.Expr{
					Subject: &ast.Expr{
						Subject: &ast.Attribute{Name: "attr"},
						Calls:   []*ast.Call{{Name: "trim", Args: []ast.Node{}}},
					},
					Calls: []*ast.Call{},
				},
			},
			{
				name:  "nested argument",
				input: "${hundred:toNumber():multiply(${two})}",
				output: &ast.Expr{
					Subject: &ast.Attribute{Name: "hundred"},
					Calls: []*ast.Call{
						{Name: "toNumber", Args: []ast.Node{}},
						{Name: "multiply", Args: []ast.Node{
							&ast.Expr{Subject: &ast.Attribute{Name: "two"}, Calls: []*ast.Call{}},
						}},
					},
				},
			},
			{
				name:  "subjectless function",
				input: "${now():format('yyyy')}",
				output: &ast.Expr{
					Subject: &ast.Call{Name: "now", Args: []ast.Node{}},
					Calls: []*ast.Call{
						{Name: "format", Args: []ast.Node{&ast.Literal{Kind: ast.LiteralString, Value: "yyyy"}}},
					},
				},
			},
			{
				name:  "multi-attribute subject",
				input: "${anyAttribute('a', 'b'):isEmpty()}",
				output: &ast.Expr{
					Subject: &ast.Call{Name: "anyAttribute", Args: []ast.Node{
						&ast.Literal{Kind: ast.LiteralString, Value: "a"},
						&ast.Literal{Kind: ast.LiteralString, Value: "b"},
					}},
					Calls: []*ast.Call{{Name: "isEmpty", Args: []ast.Node{}}},
				},
			},
			{
				name:  "whitespace between tokens",
				input: "${ filename : toLower( ) }",
				output: &ast.Expr{
					Subject: &ast.Attribute{Name: "filename"},
					Calls:   []*ast.Call{{Name: "toLower", Args: []ast.Node{}}},
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				expr, err := parser.Parse(tc.input)
				require.NoError(t, err)

				t.Logf("expression: %v", tc.input)
				t.Log(pretty.Sprint(expr))

				assert.Equal(t, tc.output, expr)
			})
		}
	})

	t.Run("syntax errors", func(t *testing.T) {
		type testCase struct {
			name   string
			input  string
			offset int
		}

		testCases := []testCase{
			{"missing closing brace", "${filename", 10},
			{"missing closing parenthesis", "${a:trim(}", 9},
			{"missing function name", "${a:}", 4},
			{"bare identifier argument", "${a:equals(b)}", 11},
			{"trailing text", "${a}b", 4},
			{"unterminated string", "${a:equals('x)}", 11},
			{"missing call separator", "${a trim()}", 4},
			{"empty expression", "${}", 2},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := parser.Parse(tc.input)
				require.Error(t, err)

				assert.ErrorIs(t, err, parser.ErrSyntax)

				var syntaxErr *parser.SyntaxError
				require.True(t, errors.As(err, &syntaxErr))
				assert.Equal(t, tc.offset, syntaxErr.Offset, syntaxErr.Error())
			})
		}
	})
}

func TestParseTemplate(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		type testCase struct {
			name     string
			input    string
			segments []ast.Segment
		}

		attr := func(name string) *ast.Expr {
			return &ast.Expr{Subject: &ast.Attribute{Name: name}, Calls: []*ast.Call{}}
		}

		testCases := []testCase{
			{
				name:     "plain text",
				input:    "hello world",
				segments: []ast.Segment{{Text: "hello world"}},
			},
			{
				name:     "empty",
				input:    "",
				segments: []ast.Segment{},
			},
			{
				name:     "escaped dollar",
				input:    "price: $$100 and $${literal}",
				segments: []ast.Segment{{Text: "price: $100 and ${literal}"}},
			},
			{
				name:     "lone dollar",
				input:    "cost $5",
				segments: []ast.Segment{{Text: "cost $5"}},
			},
			{
				name:  "interleaved",
				input: "file_${a}_${b}.txt",
				segments: []ast.Segment{
					{Text: "file_"},
					{Expr: attr("a")},
					{Text: "_"},
					{Expr: attr("b")},
					{Text: ".txt"},
				},
			},
			{
				name:  "brace inside string argument",
				input: "${a:append('}')}!",
				segments: []ast.Segment{
					{Expr: &ast.Expr{
						Subject: &ast.Attribute{Name: "a"},
						Calls: []*ast.Call{
							{Name: "append", Args: []ast.Node{&ast.Literal{Kind: ast.LiteralString, Value: "}"}}},
						},
					}},
					{Text: "!"},
				},
			},
			{
				name:  "nested expression",
				input: "x${a:append(${b})}",
				segments: []ast.Segment{
					{Text: "x"},
					{Expr: &ast.Expr{
						Subject: &ast.Attribute{Name: "a"},
						Calls: []*ast.Call{
							{Name: "append", Args: []ast.Node{attr("b")}},
						},
					}},
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				template, err := parser.ParseTemplate(tc.input)
				require.NoError(t, err)

				t.Log(pretty.Sprint(template))

				assert.Equal(t, tc.segments, template.Segments)
			})
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := parser.ParseTemplate("abc ${unterminated")
		require.ErrorIs(t, err, parser.ErrSyntax)

		var syntaxErr *parser.SyntaxError
		require.True(t, errors.As(err, &syntaxErr))
		assert.Equal(t, 4, syntaxErr.Offset)

		_, err = parser.ParseTemplate("ab ${a:equals(b)}")
		require.True(t, errors.As(err, &syntaxErr))
		assert.Equal(t, "ab ${a:equals(b)}", syntaxErr.Input)
		assert.Equal(t, 14, syntaxErr.Offset)
	})

	t.Run("near keeps whole runes", func(t *testing.T) {
		syntaxErr := &parser.SyntaxError{
			Input:  "${" + strings.Repeat("é", 20),
			Offset: 2,
			Err:    errors.New("unexpected rune"),
		}

		near := syntaxErr.Near()
		assert.True(t, utf8.ValidString(near))
		assert.Equal(t, strings.Repeat("é", 16), near)
		assert.Contains(t, syntaxErr.Error(), `near "`+strings.Repeat("é", 16)+`"`)

		syntaxErr.Offset = len(syntaxErr.Input)
		assert.Equal(t, "", syntaxErr.Near())
	})
}
