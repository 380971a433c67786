package evaluate

import (
	"fmt"
	"strings"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/funcs"
	"github.com/artuross/nifi2go/internal/el/parser"
)

// ErrUnsupported is returned for expressions the transpiler would mark as
// unsupported.
var ErrUnsupported = funcs.ErrUnsupported

// Evaluator interprets Expression Language directly, following the same rules
// the transpiler emits code for.
type Evaluator struct {
	table *funcs.Table
}

type Option func(e *Evaluator)

func WithTable(table *funcs.Table) Option {
	return func(e *Evaluator) {
		e.table = table
	}
}

func New(options ...Option) *Evaluator {
	var e Evaluator
	for _, apply := range options {
		apply(&e)
	}

	if e.table == nil {
		e.table = funcs.NewTable()
	}

	return &e
}

// Evaluate interprets an expression. Text without "${" evaluates to itself,
// a single expression keeps its kind and anything else evaluates as text.
func (e *Evaluator) Evaluate(expression string, env *funcs.Env) (funcs.Value, error) {
	if !strings.Contains(expression, "${") {
		value := funcs.StringValue(expression)
		value.Literal = true

		return value, nil
	}

	template, err := parser.ParseTemplate(expression)
	if err != nil {
		return funcs.Value{}, err
	}

	if len(template.Segments) == 1 && template.Segments[0].Expr != nil {
		return e.expr(template.Segments[0].Expr, withDefaults(env))
	}

	text, err := e.template(template, withDefaults(env))
	if err != nil {
		return funcs.Value{}, err
	}

	value := funcs.StringValue(text)
	value.Literal = template.Expressions() == 0

	return value, nil
}

// EvaluateText interprets text with embedded expressions.
func (e *Evaluator) EvaluateText(text string, env *funcs.Env) (string, error) {
	template, err := parser.ParseTemplate(text)
	if err != nil {
		return "", err
	}

	return e.template(template, withDefaults(env))
}

// EvaluateBoolean interprets an expression used as a condition.
func (e *Evaluator) EvaluateBoolean(expression string, env *funcs.Env) (bool, error) {
	value, err := e.Evaluate(expression, env)
	if err != nil {
		return false, err
	}

	truth, ok := funcs.TruthValue(value)
	if !ok {
		return false, fmt.Errorf("%s used as a condition: %w", value.Kind, ErrUnsupported)
	}

	return truth, nil
}

// EvaluateExpr interprets a parsed expression.
func (e *Evaluator) EvaluateExpr(expr *ast.Expr, env *funcs.Env) (funcs.Value, error) {
	return e.expr(expr, withDefaults(env))
}

func (e *Evaluator) expr(expr *ast.Expr, env *funcs.Env) (funcs.Value, error) {
	current, err := e.subject(expr.Subject, env)
	if err != nil {
		return funcs.Value{}, err
	}

	for _, call := range expr.Calls {
		current, err = e.apply(current, call, env)
		if err != nil {
			return funcs.Value{}, err
		}
	}

	reduced, ok := funcs.ReduceValue(current)
	if !ok {
		return funcs.Value{}, fmt.Errorf("list without a boolean, join or count result: %w", ErrUnsupported)
	}

	return reduced, nil
}

func (e *Evaluator) template(template *ast.Template, env *funcs.Env) (string, error) {
	var text strings.Builder

	for _, segment := range template.Segments {
		if segment.Expr == nil {
			text.WriteString(segment.Text)
			continue
		}

		value, err := e.expr(segment.Expr, env)
		if err != nil {
			return "", err
		}

		text.WriteString(value.Text())
	}

	return text.String(), nil
}

func (e *Evaluator) subject(node ast.Node, env *funcs.Env) (funcs.Value, error) {
	switch node := node.(type) {
	case *ast.Attribute:
		return funcs.LookupValue(env.Attributes, node.Name), nil

	case *ast.Expr:
		name, err := e.expr(node, env)
		if err != nil {
			return funcs.Value{}, err
		}

		return funcs.LookupValue(env.Attributes, name.Text()), nil

	case *ast.Call:
		args, err := e.arguments(node.Args, env)
		if err != nil {
			return funcs.Value{}, err
		}

		rule, ok := e.table.Lookup(node.Name, len(node.Args))
		if !ok || rule.Subject != funcs.KindNone {
			return funcs.Value{}, fmt.Errorf("function %s with %d arguments: %w", node.Name, len(node.Args), ErrUnsupported)
		}

		coerced, err := coerceArgs(rule, args)
		if err != nil {
			return funcs.Value{}, err
		}

		return rule.Eval(env, funcs.Value{}, coerced)

	default:
		return funcs.Value{}, fmt.Errorf("subject %T: %w", node, ErrUnsupported)
	}
}

func (e *Evaluator) apply(current funcs.Value, call *ast.Call, env *funcs.Env) (funcs.Value, error) {
	args, err := e.arguments(call.Args, env)
	if err != nil {
		return funcs.Value{}, err
	}

	rule, ok := e.table.Lookup(call.Name, len(call.Args))
	if !ok || rule.Subject == funcs.KindNone {
		return funcs.Value{}, fmt.Errorf("function %s with %d arguments: %w", call.Name, len(call.Args), ErrUnsupported)
	}

	coerced, err := coerceArgs(rule, args)
	if err != nil {
		return funcs.Value{}, err
	}

	if current.Kind == funcs.KindList && rule.Subject != funcs.KindList {
		return mapList(current, rule, coerced, env)
	}

	subject, ok := funcs.CoerceValue(current, rule.Subject)
	if !ok {
		return funcs.Value{}, fmt.Errorf("%s on a %s subject: %w", call.Name, current.Kind, ErrUnsupported)
	}

	return rule.Eval(env, subject, coerced)
}

// mapList applies rule to every element. Mapped elements are computed
// values, never absent attributes.
func mapList(list funcs.Value, rule funcs.Rule, args []funcs.Value, env *funcs.Env) (funcs.Value, error) {
	mapped := make([]funcs.Value, 0, len(list.List))
	for _, item := range list.List {
		subject, ok := funcs.CoerceValue(item, rule.Subject)
		if !ok {
			return funcs.Value{}, fmt.Errorf("%s on attribute lists: %w", rule.Name, ErrUnsupported)
		}

		value, err := rule.Eval(env, subject, args)
		if err != nil {
			return funcs.Value{}, err
		}

		if value.Kind == funcs.KindList {
			return funcs.Value{}, fmt.Errorf("%s on attribute lists: %w", rule.Name, ErrUnsupported)
		}

		value.Absent = false
		value.Literal = false
		mapped = append(mapped, value)
	}

	return funcs.ListValue(list.Aggregate, mapped), nil
}

func (e *Evaluator) arguments(nodes []ast.Node, env *funcs.Env) ([]funcs.Value, error) {
	args := make([]funcs.Value, 0, len(nodes))
	for _, node := range nodes {
		arg, err := e.argument(node, env)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

func (e *Evaluator) argument(node ast.Node, env *funcs.Env) (funcs.Value, error) {
	switch node := node.(type) {
	case *ast.Literal:
		var value funcs.Value
		switch node.Kind {
		case ast.LiteralBoolean:
			value = funcs.BooleanValue(node.Value == "true")
		case ast.LiteralNumber:
			value, _ = funcs.CoerceValue(funcs.StringValue(node.Value), funcs.KindNumber)
		default:
			value = funcs.StringValue(node.Value)
		}

		value.Literal = true

		return value, nil

	case *ast.Expr:
		return e.expr(node, env)

	default:
		return funcs.Value{}, fmt.Errorf("argument %T: %w", node, ErrUnsupported)
	}
}

func coerceArgs(rule funcs.Rule, args []funcs.Value) ([]funcs.Value, error) {
	coerced := make([]funcs.Value, 0, len(args))
	for i, arg := range args {
		converted, ok := funcs.CoerceValue(arg, rule.ArgKind(i))
		if !ok {
			return nil, fmt.Errorf("%s argument %d of kind %s: %w", rule.Name, i+1, arg.Kind, ErrUnsupported)
		}

		coerced = append(coerced, converted)
	}

	return coerced, nil
}

func withDefaults(env *funcs.Env) *funcs.Env {
	defaults := funcs.NewEnv(nil)
	if env == nil {
		return defaults
	}

	filled := *env
	if filled.Now == nil {
		filled.Now = defaults.Now
	}
	if filled.NewUUID == nil {
		filled.NewUUID = defaults.NewUUID
	}
	if filled.Hostname == nil {
		filled.Hostname = defaults.Hostname
	}
	if filled.Random == nil {
		filled.Random = defaults.Random
	}

	return &filled
}
