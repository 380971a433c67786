package ast

var (
	_ Node = (*Attribute)(nil)
	_ Node = (*Call)(nil)
	_ Node = (*Expr)(nil)
	_ Node = (*Literal)(nil)
)

type Node interface {
	isNode()
}

type LiteralKind string

const (
	LiteralBoolean LiteralKind = "boolean"
	LiteralNumber  LiteralKind = "number"
	LiteralString  LiteralKind = "string"
)

type (
	// Attribute references a FlowFile attribute by a static name.
	Attribute struct {
		Name string
	}

	// Call is a function application. As the subject of an Expr it is a
	// subjectless function such as now().
	Call struct {
		Name string
		Args []Node
	}

	// Expr is ${subject:call():call()}. When Subject is itself an *Expr the
	// value of the inner expression names the attribute to read.
	Expr struct {
		Subject Node
		Calls   []*Call
	}

	Literal struct {
		Kind  LiteralKind
		Value string
	}
)

func (e Attribute) isNode() {}
func (e Call) isNode()      {}
func (e Expr) isNode()      {}
func (e Literal) isNode()   {}

// Template is text with embedded expressions.
type Template struct {
	Segments []Segment
}

// Segment is literal text when Expr is nil.
type Segment struct {
	Text string
	Expr *Expr
}

// Expressions returns the number of expression segments.
func (t *Template) Expressions() int {
	count := 0
	for _, segment := range t.Segments {
		if segment.Expr != nil {
			count++
		}
	}

	return count
}
