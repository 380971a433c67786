package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/lexer"
)

var ErrSyntax = errors.New("syntax error")

// SyntaxError describes malformed expression text.
type SyntaxError struct {
	Input  string
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d near %q: %v", e.Offset, e.Near(), e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// nearRunes bounds the input quoted by SyntaxError.
const nearRunes = 16

// Near returns at most 16 runes of the input starting at the error.
func (e *SyntaxError) Near() string {
	if e.Offset < 0 || e.Offset >= len(e.Input) {
		return ""
	}

	near := e.Input[e.Offset:]

	count := 0
	for i := range near {
		if count == nearRunes {
			return near[:i]
		}

		count++
	}

	return near
}

type Lexer interface {
	ReadToken() (*lexer.Token, error)
}

type Parser struct {
	lexer   Lexer
	tokens  []*lexer.Token
	pos     int
	lastEnd lexer.Point
}

func NewParser(lexer Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

// Parse parses a single ${...} expression spanning the whole input.
func Parse(input string) (*ast.Expr, error) {
	expr, err := NewParser(lexer.NewLexer(input)).Parse()
	if err != nil {
		return nil, newSyntaxError(input, err)
	}

	return expr, nil
}

func (p *Parser) Parse() (*ast.Expr, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	token, err := p.readToken()
	if err == io.EOF {
		return expr, nil
	}
	if err != nil {
		return nil, err
	}

	return nil, p.errorAt(token, fmt.Errorf("unexpected %q after expression", token.RawValue))
}

func (p *Parser) parseExpression() (*ast.Expr, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, p.eofError(err)
	}

	if token.Type != lexer.TokenTypeExprOpen {
		return nil, p.errorAt(token, errors.New("expected '${'"))
	}

	subject, err := p.parseSubject()
	if err != nil {
		return nil, err
	}

	expr := &ast.Expr{
		Subject: subject,
		Calls:   make([]*ast.Call, 0),
	}

	for {
		token, err := p.readToken()
		if err != nil {
			return nil, p.eofError(err)
		}

		if isPunctuation(token, "}") {
			return expr, nil
		}

		if !isPunctuation(token, ":") {
			return nil, p.errorAt(token, errors.New("expected ':' or '}'"))
		}

		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}

		expr.Calls = append(expr.Calls, call)
	}
}

func (p *Parser) parseSubject() (ast.Node, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, p.eofError(err)
	}

	switch token.Type {
	case lexer.TokenTypeExprOpen:
		p.unreadToken()

		return p.parseExpression()

	case lexer.TokenTypeString:
		return &ast.Attribute{Name: token.Value}, nil

	case lexer.TokenTypeIdentifier, lexer.TokenTypeBoolean:
		next, err := p.peekToken()
		if err != nil && err != io.EOF {
			return nil, err
		}

		if err == nil && isPunctuation(next, "(") {
			_, _ = p.readToken()

			return p.parseArguments(token.Value)
		}

		return &ast.Attribute{Name: token.Value}, nil
	}

	return nil, p.errorAt(token, errors.New("expected attribute name, function or expression"))
}

func (p *Parser) parseCall() (*ast.Call, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, p.eofError(err)
	}

	if token.Type != lexer.TokenTypeIdentifier {
		return nil, p.errorAt(token, errors.New("expected function name"))
	}

	if err := p.expectPunctuation("("); err != nil {
		return nil, err
	}

	return p.parseArguments(token.Value)
}

// parseArguments parses the argument list after the opening parenthesis.
func (p *Parser) parseArguments(name string) (*ast.Call, error) {
	call := &ast.Call{
		Name: name,
		Args: make([]ast.Node, 0),
	}

	token, err := p.peekToken()
	if err != nil {
		return nil, p.eofError(err)
	}

	if isPunctuation(token, ")") {
		_, _ = p.readToken()

		return call, nil
	}

	for {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		// expect either , or )
		token, err := p.readToken()
		if err != nil {
			return nil, p.eofError(err)
		}

		if isPunctuation(token, ")") {
			return call, nil
		}

		if !isPunctuation(token, ",") {
			return nil, p.errorAt(token, errors.New("expected ',' or ')' after an argument"))
		}
	}
}

func (p *Parser) parseArgument() (ast.Node, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, p.eofError(err)
	}

	switch token.Type {
	case lexer.TokenTypeString:
		return &ast.Literal{Kind: ast.LiteralString, Value: token.Value}, nil

	case lexer.TokenTypeNumber:
		return &ast.Literal{Kind: ast.LiteralNumber, Value: token.Value}, nil

	case lexer.TokenTypeBoolean:
		return &ast.Literal{Kind: ast.LiteralBoolean, Value: token.Value}, nil

	case lexer.TokenTypeExprOpen:
		p.unreadToken()

		return p.parseExpression()
	}

	return nil, p.errorAt(token, errors.New("expected string, number, boolean or expression"))
}

func (p *Parser) expectPunctuation(value string) error {
	token, err := p.readToken()
	if err != nil {
		return p.eofError(err)
	}

	if !isPunctuation(token, value) {
		return p.errorAt(token, fmt.Errorf("expected '%s'", value))
	}

	return nil
}

func (p *Parser) readToken() (*lexer.Token, error) {
	if p.pos < len(p.tokens) {
		token := p.tokens[p.pos]
		p.pos++
		p.lastEnd = token.Position.End

		return token, nil
	}

	token, err := p.lexer.ReadToken()
	if err != nil {
		return nil, err
	}

	p.tokens = append(p.tokens, token)
	p.pos++
	p.lastEnd = token.Position.End

	return token, nil
}

func (p *Parser) peekToken() (*lexer.Token, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}

	p.unreadToken()

	return token, nil
}

func (p *Parser) unreadToken() {
	p.pos--
}

func (p *Parser) errorAt(token *lexer.Token, err error) error {
	return &lexer.PositionError{Point: token.Position.Start, Err: err}
}

// eofError turns io.EOF into an unexpected end of input at the last token.
func (p *Parser) eofError(err error) error {
	if err == io.EOF {
		return &lexer.PositionError{Point: p.lastEnd, Err: io.ErrUnexpectedEOF}
	}

	return err
}

func isPunctuation(token *lexer.Token, value string) bool {
	return token.Type == lexer.TokenTypePunctuation && token.Value == value
}

func newSyntaxError(input string, err error) *SyntaxError {
	syntaxErr := SyntaxError{
		Input: input,
		Err:   err,
	}

	var positionErr *lexer.PositionError
	if errors.As(err, &positionErr) {
		syntaxErr.Offset = positionErr.Point.Offset
		syntaxErr.Err = positionErr.Err
	}

	return &syntaxErr
}
