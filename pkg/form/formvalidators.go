package form

import (
	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Cross-field failure kinds.
const (
	KindMatchFields model.ValidationKind = "matchFields"
	KindDateRange   model.ValidationKind = "dateRange"
)

// FormValidator inspects the whole value map and returns a failure, or nil
// when the form passes.
type FormValidator func(values map[string]any) *validation.Failure

// MatchFields fails when the value of confirm differs from the value of
// field, as in a password confirmation. The failure is attributed to confirm.
func MatchFields(field, confirm, message string) FormValidator {
	if message == "" {
		message = "Fields do not match"
	}
	return func(values map[string]any) *validation.Failure {
		a, b := values[field], values[confirm]
		if coerce.IsEmpty(a) || coerce.IsEmpty(b) {
			return nil
		}
		if coerce.String(a) == coerce.String(b) {
			return nil
		}
		return &validation.Failure{Field: confirm, Kind: KindMatchFields, Message: message}
	}
}

// DateRange fails when both dates are set and start falls after end. Values
// that are not parseable dates are ignored.
func DateRange(start, end, message string) FormValidator {
	if message == "" {
		message = "End date must be after start date"
	}
	return func(values map[string]any) *validation.Failure {
		from, ok := validation.ParseDate(values[start])
		if !ok {
			return nil
		}
		to, ok := validation.ParseDate(values[end])
		if !ok {
			return nil
		}
		if from.After(to) {
			return &validation.Failure{Field: end, Kind: KindDateRange, Message: message}
		}
		return nil
	}
}
