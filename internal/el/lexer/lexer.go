package lexer

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType string

const (
	TokenTypeBoolean     TokenType = "BOOLEAN"
	TokenTypeExprOpen    TokenType = "EXPR_OPEN"
	TokenTypeIdentifier  TokenType = "IDENTIFIER"
	TokenTypeNumber      TokenType = "NUMBER"
	TokenTypePunctuation TokenType = "PUNCTUATION"
	TokenTypeString      TokenType = "STRING"
)

var (
	ErrInvalidCharacter = errors.New("invalid character")
	ErrRuneInvalid      = errors.New("decode rune: invalid rune")
	ErrUnterminated     = errors.New("unterminated string")
)

type Point struct {
	Line   int
	Column int
	Offset int
}

type Position struct {
	Start Point
	End   Point
}

type Token struct {
	Type     TokenType
	RawValue string
	Value    string
	Position Position
}

// PositionError locates an error in the input.
type PositionError struct {
	Point Point
	Err   error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Point.Line, e.Point.Column, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

type Lexer struct {
	input    []byte
	point    Point
	position int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		point:    Point{Line: 1, Column: 1},
		position: 0,
	}
}

// Point returns the position of the next unread character.
func (l *Lexer) Point() Point {
	return l.point
}

func (l *Lexer) ReadToken() (*Token, error) {
	if err := l.advanceWhitespace(); err != nil {
		return nil, err
	}

	r, _, err := l.peek()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, l.errorHere(err)
	}

	switch {
	case r == '$':
		return l.readExprOpen()

	case isDigit(r), r == '-' && l.isDigitAt(1):
		return l.readNumber()

	case isPunctuation(r):
		return l.readPunctuation()

	case isStringOpeningCharacter(r):
		return l.readString()

	case isIdentifierOpeningCharacter(r):
		return l.readIdentifier()
	}

	return nil, l.errorHere(ErrInvalidCharacter)
}

func (l *Lexer) advanceWhitespace() error {
	for {
		r, _, err := l.peek()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return l.errorHere(err)
		}

		if !unicode.IsSpace(r) {
			return nil
		}

		_, _ = l.read()

		if r == '\n' {
			l.point.Line++
			l.point.Column = 1
		}
	}
}

func (l *Lexer) readExprOpen() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	r, err := l.read()
	invariant(err != nil || r != '$', "readExprOpen: first character is not '$'")

	next, _, err := l.peek()
	if err != nil || next != '{' {
		return nil, &PositionError{Point: startPoint, Err: ErrInvalidCharacter}
	}

	_, _ = l.read()

	return l.newToken(TokenTypeExprOpen, startPoint, startPos, "${"), nil
}

func (l *Lexer) readIdentifier() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	r, err := l.read()
	invariant(err != nil, "readIdentifier: unexpected read() error when consuming first character")
	invariant(!isIdentifierOpeningCharacter(r), "readIdentifier: first character is not valid")

	value := []rune{r}

	for {
		r, _, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, l.errorHere(err)
		}

		if !isIdentifierContinuationCharacter(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readIdentifier: unexpected read() error after peek()")

		value = append(value, r)
	}

	tokenType := TokenTypeIdentifier
	if slices.Contains([]string{"false", "true"}, string(value)) {
		tokenType = TokenTypeBoolean
	}

	return l.newToken(tokenType, startPoint, startPos, string(value)), nil
}

// readNumber reads -?digits(.digits)?([eE][+-]?digits)?
func (l *Lexer) readNumber() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	if l.input[l.position] == '-' {
		_, _ = l.read()
	}

	l.readDigits()

	if l.byteAt(0) == '.' && l.isDigitAt(1) {
		_, _ = l.read()
		l.readDigits()
	}

	if exp := l.byteAt(0); exp == 'e' || exp == 'E' {
		switch {
		case l.isDigitAt(1):
			_, _ = l.read()
			l.readDigits()

		case (l.byteAt(1) == '+' || l.byteAt(1) == '-') && l.isDigitAt(2):
			_, _ = l.read()
			_, _ = l.read()
			l.readDigits()
		}
	}

	value := string(l.input[startPos:l.position])

	return l.newToken(TokenTypeNumber, startPoint, startPos, value), nil
}

func (l *Lexer) readDigits() {
	for l.isDigitAt(0) {
		_, _ = l.read()
	}
}

func (l *Lexer) readPunctuation() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	r, err := l.read()
	invariant(err != nil, "readPunctuation: unexpected read() error when consuming first character")

	return l.newToken(TokenTypePunctuation, startPoint, startPos, string(r)), nil
}

// readString reads a single or double quoted string. Known escapes are
// decoded; any other backslash sequence is kept verbatim so that regular
// expressions such as '\.gz$' survive.
func (l *Lexer) readString() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	quote, err := l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming first character")
	invariant(!isStringOpeningCharacter(quote), "readString: first character is not valid")

	var value strings.Builder

	for {
		r, _, err := l.peek()
		if err == io.EOF {
			return nil, &PositionError{Point: startPoint, Err: ErrUnterminated}
		}
		if err != nil {
			return nil, l.errorHere(err)
		}

		_, _ = l.read()

		if r == quote {
			break
		}

		if r != '\\' {
			value.WriteRune(r)
			continue
		}

		escaped, _, err := l.peek()
		if err == io.EOF {
			return nil, &PositionError{Point: startPoint, Err: ErrUnterminated}
		}
		if err != nil {
			return nil, l.errorHere(err)
		}

		_, _ = l.read()

		switch escaped {
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case '\\', '\'', '"', '$':
			value.WriteRune(escaped)
		default:
			value.WriteByte('\\')
			value.WriteRune(escaped)
		}
	}

	return l.newToken(TokenTypeString, startPoint, startPos, value.String()), nil
}

func (l *Lexer) newToken(tokenType TokenType, startPoint Point, startPos int, value string) *Token {
	return &Token{
		Type: tokenType,
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
		RawValue: string(l.input[startPos:l.position]),
		Value:    value,
	}
}

func (l *Lexer) errorHere(err error) error {
	return &PositionError{Point: l.point, Err: err}
}

func (l *Lexer) peek() (rune, int, error) {
	if l.position >= len(l.input) {
		return 0, 0, io.EOF
	}

	r, size := utf8.DecodeRune(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, ErrRuneInvalid
	}

	return r, size, nil
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.peek()
	if err != nil {
		return 0, err
	}

	l.position += size
	l.point.Column += size
	l.point.Offset = l.position

	return r, nil
}

func (l *Lexer) byteAt(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}

	return l.input[l.position+offset]
}

func (l *Lexer) isDigitAt(offset int) bool {
	return isDigit(rune(l.byteAt(offset)))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isReserved reports characters that cannot appear in an unquoted attribute
// or function name.
func isReserved(r rune) bool {
	return strings.ContainsRune("${}()[],:;/*'\"", r)
}

func isIdentifierContinuationCharacter(r rune) bool {
	return !unicode.IsSpace(r) && !isReserved(r)
}

func isIdentifierOpeningCharacter(r rune) bool {
	return isIdentifierContinuationCharacter(r) && !isDigit(r) && r != '-'
}

func isStringOpeningCharacter(r rune) bool {
	return r == '\'' || r == '"'
}

func isPunctuation(r rune) bool {
	return slices.Contains([]rune{'}', ':', '(', ')', ','}, r)
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
