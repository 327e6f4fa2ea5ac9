package visibility

import (
	"math"
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Conditional is the default Evaluator. It fails open: a missing rule or an
// unrecognised operator leaves the field visible so a configuration mistake
// cannot hide a field for good.
//
// Operators:
//   - equals / notEquals: strict equality against the referenced value
//   - contains: list membership, or substring match when the referenced value
//     is not a list
//   - greaterThan / lessThan: numeric comparison with loose coercion (nil,
//     blank strings and false are 0, true is 1); an absent field and
//     non-numeric values are NaN, which never compares
//   - in: the rule value must be a list holding the referenced value
type Conditional struct{}

var _ Evaluator = Conditional{}

// Visible implements Evaluator.
func (Conditional) Visible(rule *model.ConditionalRule, values map[string]any) bool {
	if rule == nil {
		return true
	}
	current, present := values[rule.Field]

	switch rule.Operator {
	case model.OperatorEquals:
		return coerce.StrictEqual(current, rule.Value)
	case model.OperatorNotEquals:
		return !coerce.StrictEqual(current, rule.Value)
	case model.OperatorContains:
		if list, ok := coerce.List(current); ok {
			return coerce.Contains(list, rule.Value)
		}
		// Non-list values fall back to substring matching on their string
		// form, so 1234 contains 23.
		return strings.Contains(coerce.String(current), coerce.String(rule.Value))
	case model.OperatorGreaterThan:
		return present && compare(current, rule.Value, func(a, b float64) bool { return a > b })
	case model.OperatorLessThan:
		return present && compare(current, rule.Value, func(a, b float64) bool { return a < b })
	case model.OperatorIn:
		list, ok := coerce.List(rule.Value)
		if !ok {
			return false
		}
		return coerce.Contains(list, current)
	default:
		return true
	}
}

func compare(current, target any, op func(a, b float64) bool) bool {
	a := looseNumber(current)
	b := looseNumber(target)
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return op(a, b)
}

func looseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if strings.TrimSpace(v) == "" {
			return 0
		}
	}
	if list, ok := coerce.List(value); ok {
		switch len(list) {
		case 0:
			return 0
		case 1:
			return looseNumber(list[0])
		default:
			return math.NaN()
		}
	}
	return coerce.NumberOrNaN(value)
}
