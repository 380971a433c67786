package transpile

import (
	"fmt"
	"strings"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/el/parser"
)

// DefaultAttributesVar is the variable emitted code reads attributes from.
const DefaultAttributesVar = "attrs"

// Transpiler translates NiFi Expression Language into Go expressions. It is
// safe for concurrent use.
type Transpiler struct {
	table *funcs.Table
	scope funcs.Scope
}

type Option func(t *Transpiler)

// WithAttributesVar sets the name of the flowrt.Attributes variable.
func WithAttributesVar(name string) Option {
	return func(t *Transpiler) {
		t.scope.Attributes = name
	}
}

func WithTable(table *funcs.Table) Option {
	return func(t *Transpiler) {
		t.table = table
	}
}

func New(options ...Option) *Transpiler {
	t := Transpiler{
		scope: funcs.Scope{Attributes: DefaultAttributesVar},
	}

	for _, apply := range options {
		apply(&t)
	}

	if t.table == nil {
		t.table = funcs.NewTable()
	}

	return &t
}

func (t *Transpiler) Scope() funcs.Scope {
	return t.scope
}

// Transpile translates an expression. Text without "${" is a string
// literal. Input that is exactly one expression keeps the expression's kind,
// anything else is treated as embedded text.
func (t *Transpiler) Transpile(expression string) (funcs.Fragment, error) {
	if !strings.Contains(expression, "${") {
		return funcs.StringConstant(expression), nil
	}

	template, err := parser.ParseTemplate(expression)
	if err != nil {
		return funcs.Fragment{}, err
	}

	if len(template.Segments) == 1 && template.Segments[0].Expr != nil {
		return t.TranspileExpr(template.Segments[0].Expr), nil
	}

	return t.template(template), nil
}

// TranspileEmbedded translates text with embedded expressions into a string
// fragment.
func (t *Transpiler) TranspileEmbedded(text string) (funcs.Fragment, error) {
	template, err := parser.ParseTemplate(text)
	if err != nil {
		return funcs.Fragment{}, err
	}

	return t.template(template), nil
}

// TranspileBoolean translates an expression used as a condition. A condition
// with unsupported parts is emitted as a marked false.
func (t *Transpiler) TranspileBoolean(expression string) (funcs.Fragment, error) {
	fragment, err := t.Transpile(expression)
	if err != nil {
		return funcs.Fragment{}, err
	}

	condition := funcs.Truth(fragment)
	if !condition.Supported() {
		return funcs.Unmet(condition), nil
	}

	return condition, nil
}

// TranspileExpr translates a parsed expression.
func (t *Transpiler) TranspileExpr(expr *ast.Expr) funcs.Fragment {
	current := t.subject(expr.Subject)
	for _, call := range expr.Calls {
		current = t.apply(current, call)
	}

	return funcs.Reduce(t.scope, current)
}

func (t *Transpiler) subject(node ast.Node) funcs.Fragment {
	switch node := node.(type) {
	case *ast.Attribute:
		return funcs.Lookup(t.scope, funcs.StringConstant(node.Name))

	case *ast.Expr:
		name, ok := funcs.Coerce(t.TranspileExpr(node), funcs.KindString)
		if !ok {
			return funcs.Unsupported(funcs.StringConstant(""), "attribute name of kind "+string(name.Kind()), name)
		}

		return funcs.Lookup(t.scope, name)

	case *ast.Call:
		args := t.arguments(node.Args)

		rule, ok := t.table.Lookup(node.Name, len(node.Args))
		if !ok || rule.Subject != funcs.KindNone {
			return funcs.Unsupported(funcs.StringConstant(""), t.unknown(node), args...)
		}

		coerced, reason := coerceArgs(rule, args)
		if reason != "" {
			return funcs.Unsupported(funcs.StringConstant(""), reason, args...)
		}

		return rule.Emit(t.scope, funcs.Fragment{}, coerced)

	default:
		return funcs.Unsupported(funcs.StringConstant(""), fmt.Sprintf("subject %T", node))
	}
}

// apply threads current through one call of the chain.
func (t *Transpiler) apply(current funcs.Fragment, call *ast.Call) funcs.Fragment {
	args := t.arguments(call.Args)

	rule, ok := t.table.Lookup(call.Name, len(call.Args))
	if !ok {
		return funcs.Unsupported(current, t.unknown(call), args...)
	}

	if rule.Subject == funcs.KindNone {
		return funcs.Unsupported(current, call.Name+" cannot be chained", args...)
	}

	coerced, reason := coerceArgs(rule, args)
	if reason != "" {
		return funcs.Unsupported(current, reason, args...)
	}

	if current.Kind() == funcs.KindList && rule.Subject != funcs.KindList {
		mapped, ok := funcs.MapList(t.scope, current, rule, coerced)
		if !ok {
			return funcs.Unsupported(current, call.Name+" on attribute lists", args...)
		}

		return mapped
	}

	subject, ok := funcs.Coerce(current, rule.Subject)
	if !ok {
		return funcs.Unsupported(current, fmt.Sprintf("%s on a %s subject", call.Name, current.Kind()), args...)
	}

	return rule.Emit(t.scope, subject, coerced)
}

func (t *Transpiler) arguments(nodes []ast.Node) []funcs.Fragment {
	args := make([]funcs.Fragment, 0, len(nodes))
	for _, node := range nodes {
		args = append(args, t.argument(node))
	}

	return args
}

func (t *Transpiler) argument(node ast.Node) funcs.Fragment {
	switch node := node.(type) {
	case *ast.Literal:
		switch node.Kind {
		case ast.LiteralBoolean:
			return funcs.BooleanConstant(node.Value == "true")
		case ast.LiteralNumber:
			return funcs.NumberConstant(node.Value)
		default:
			return funcs.StringConstant(node.Value)
		}

	case *ast.Expr:
		return t.TranspileExpr(node)

	default:
		return funcs.Unsupported(funcs.StringConstant(""), fmt.Sprintf("argument %T", node))
	}
}

// unknown describes a call no rule accepts.
func (t *Transpiler) unknown(call *ast.Call) string {
	if t.table.Has(call.Name) {
		return fmt.Sprintf("%s with %d arguments", call.Name, len(call.Args))
	}

	return "function " + call.Name
}

func coerceArgs(rule funcs.Rule, args []funcs.Fragment) ([]funcs.Fragment, string) {
	coerced := make([]funcs.Fragment, 0, len(args))
	for i, arg := range args {
		converted, ok := funcs.Coerce(arg, rule.ArgKind(i))
		if !ok {
			return nil, fmt.Sprintf("%s argument %d of kind %s", rule.Name, i+1, arg.Kind())
		}

		coerced = append(coerced, converted)
	}

	return coerced, ""
}
