package converter

import (
	"strconv"

	"github.com/artuross/nifi2go/internal/flow"
)

const (
	propertyDeleteAttributes = "Delete Attributes Expression"
	PropertyRoutingStrategy  = "Routing Strategy"
)

// UpdateAttributeSettings are the properties of UpdateAttribute that
// configure the processor instead of naming an attribute.
var UpdateAttributeSettings = []string{
	propertyDeleteAttributes,
	"Store State",
	"Stateful Variables Initial Value",
	"canonical-value-lookup-cache-size",
}

// UpdateAttribute sets every dynamic property as an attribute. All values are
// evaluated against the incoming attributes before any is written, then
// attributes matching the delete expression are removed.
func UpdateAttribute(fn *Function, p flow.Processor) error {
	names := p.DynamicProperties(UpdateAttributeSettings...)

	if len(names) > 0 {
		fn.Line("ff.Attributes.Merge(map[string]string{")
		for _, name := range names {
			code, err := fn.Text(name, p.Properties[name])
			if err != nil {
				return err
			}

			fn.Line("%s: %s,", strconv.Quote(name), code)
		}
		fn.Line("})")
	}

	if pattern := p.Property(propertyDeleteAttributes); pattern != "" {
		code, err := fn.Text(propertyDeleteAttributes, pattern)
		if err != nil {
			return err
		}

		fn.Line("ff.Attributes.DeleteMatching(%s)", code)
	}

	if p.Property("Store State") == "Store state locally" {
		fn.Warn("stateful attributes are not supported, state is not stored")
	}

	fn.Line(`return flowrt.Route("success", ff), nil`)

	return nil
}

// Routing strategies of RouteOnAttribute.
const (
	RouteToPropertyName = "Route to Property name"
	RouteAllMatch       = "Route to 'matched' if all match"
	RouteAnyMatches     = "Route to 'matched' if any matches"
)

// RouteOnAttribute evaluates every dynamic property as a condition and routes
// according to the routing strategy. FlowFiles matching no condition go to
// "unmatched".
func RouteOnAttribute(fn *Function, p flow.Processor) error {
	names := p.DynamicProperties(PropertyRoutingStrategy)

	conditions := make([]string, 0, len(names))
	for _, name := range names {
		code, err := fn.Condition(name, p.Properties[name])
		if err != nil {
			return err
		}

		conditions = append(conditions, code)
	}

	strategy := p.PropertyOr(PropertyRoutingStrategy, RouteToPropertyName)
	switch strategy {
	case RouteToPropertyName:
		fn.Line("routes := flowrt.Routes{}")
		for i, name := range names {
			fn.Line("if %s {", conditions[i])
			fn.Line("routes.Add(%s, ff.Clone())", strconv.Quote(name))
			fn.Line("}")
		}
		fn.Line("if len(routes) == 0 {")
		fn.Line(`routes.Add("unmatched", ff)`)
		fn.Line("}")
		fn.Line("return routes, nil")

	case RouteAllMatch, RouteAnyMatches:
		if len(conditions) == 0 {
			fn.Line(`return flowrt.Route("unmatched", ff), nil`)
			break
		}

		operator := " && "
		if strategy == RouteAnyMatches {
			operator = " || "
		}

		fn.Line("if %s {", joinConditions(conditions, operator))
		fn.Line(`return flowrt.Route("matched", ff), nil`)
		fn.Line("}")
		fn.Line(`return flowrt.Route("unmatched", ff), nil`)

	default:
		return &SettingError{Property: PropertyRoutingStrategy, Value: strategy}
	}

	return nil
}

func joinConditions(conditions []string, operator string) string {
	if len(conditions) == 1 {
		return conditions[0]
	}

	joined := ""
	for i, condition := range conditions {
		if i > 0 {
			joined += operator
		}

		joined += "(" + condition + ")"
	}

	return joined
}
