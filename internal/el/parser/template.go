package parser

import (
	"errors"
	"strings"

	"github.com/artuross/nifi2go/internal/el/ast"
)

var errUnterminatedExpression = errors.New("unterminated expression")

// ParseTemplate splits text into literal segments and ${...} expressions.
// "$$" is a literal "$" and never starts an expression.
func ParseTemplate(text string) (*ast.Template, error) {
	template := ast.Template{
		Segments: make([]ast.Segment, 0),
	}

	var literal strings.Builder

	flush := func() {
		if literal.Len() == 0 {
			return
		}

		template.Segments = append(template.Segments, ast.Segment{Text: literal.String()})
		literal.Reset()
	}

	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "$$"):
			literal.WriteByte('$')
			i += 2

		case strings.HasPrefix(text[i:], "${"):
			end, err := expressionEnd(text, i)
			if err != nil {
				return nil, err
			}

			expr, err := Parse(text[i:end])
			if err != nil {
				var syntaxErr *SyntaxError
				if errors.As(err, &syntaxErr) {
					syntaxErr.Input = text
					syntaxErr.Offset += i
				}

				return nil, err
			}

			flush()
			template.Segments = append(template.Segments, ast.Segment{Expr: expr})
			i = end

		default:
			literal.WriteByte(text[i])
			i++
		}
	}

	flush()

	return &template, nil
}

// expressionEnd returns the offset just past the '}' that closes the
// expression opened at start. Nested expressions and quoted strings are
// skipped so their braces do not close the span.
func expressionEnd(text string, start int) (int, error) {
	depth := 0

	for i := start; i < len(text); i++ {
		switch c := text[i]; {
		case c == '$' && i+1 < len(text) && text[i+1] == '{':
			depth++
			i++

		case c == '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}

		case c == '\'' || c == '"':
			j := i + 1
			for j < len(text) && text[j] != c {
				if text[j] == '\\' {
					j++
				}
				j++
			}

			i = j
		}
	}

	return 0, &SyntaxError{Input: text, Offset: start, Err: errUnterminatedExpression}
}
