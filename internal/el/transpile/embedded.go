package transpile

import (
	"strings"

	"github.com/artuross/nifi2go/internal/el/ast"
	"github.com/artuross/nifi2go/internal/el/funcs"
)

// template joins literal text and string-coerced expressions.
func (t *Transpiler) template(template *ast.Template) funcs.Fragment {
	if template.Expressions() == 0 {
		var text strings.Builder
		for _, segment := range template.Segments {
			text.WriteString(segment.Text)
		}

		return funcs.StringConstant(text.String())
	}

	var format strings.Builder
	args := make([]funcs.Fragment, 0, len(template.Segments))

	for _, segment := range template.Segments {
		if segment.Expr == nil {
			format.WriteString(strings.ReplaceAll(segment.Text, "%", "%%"))
			continue
		}

		// every non-list kind converts to string and lists are reduced
		fragment, _ := funcs.Coerce(t.TranspileExpr(segment.Expr), funcs.KindString)

		format.WriteString("%s")
		args = append(args, fragment)
	}

	if len(template.Segments) == 1 {
		return args[0]
	}

	return funcs.Sprintf(format.String(), args...)
}
