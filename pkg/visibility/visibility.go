// Package visibility decides whether a field is shown given the current form
// values and the field's conditional display rule.
package visibility

import "github.com/goliatone/go-formengine/pkg/model"

// Evaluator determines whether a field governed by rule should be visible
// given the current values keyed by field name.
type Evaluator interface {
	Visible(rule *model.ConditionalRule, values map[string]any) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule *model.ConditionalRule, values map[string]any) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(rule *model.ConditionalRule, values map[string]any) bool {
	return fn(rule, values)
}

// VisibleFields returns the fields of every section, in order, whose
// conditional display rule passes. A nil evaluator uses Conditional.
func VisibleFields(cfg model.FormConfig, values map[string]any, eval Evaluator) []model.FieldConfig {
	if eval == nil {
		eval = Conditional{}
	}
	var out []model.FieldConfig
	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			if eval.Visible(field.ConditionalDisplay, values) {
				out = append(out, field)
			}
		}
	}
	return out
}

// HiddenFieldNames lists the names of fields whose rule currently hides them.
func HiddenFieldNames(cfg model.FormConfig, values map[string]any, eval Evaluator) map[string]struct{} {
	if eval == nil {
		eval = Conditional{}
	}
	hidden := make(map[string]struct{})
	for _, field := range cfg.Fields() {
		if !eval.Visible(field.ConditionalDisplay, values) {
			hidden[field.Name] = struct{}{}
		}
	}
	return hidden
}
