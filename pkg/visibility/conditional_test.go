package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

func TestConditional_Operators(t *testing.T) {
	eval := visibility.Conditional{}

	cases := []struct {
		name   string
		rule   *model.ConditionalRule
		values map[string]any
		want   bool
	}{
		{"no rule", nil, nil, true},
		{"equals match", rule("country", model.OperatorEquals, "US"), map[string]any{"country": "US"}, true},
		{"equals mismatch", rule("country", model.OperatorEquals, "US"), map[string]any{"country": "CA"}, false},
		{"equals numbers across types", rule("count", model.OperatorEquals, 3), map[string]any{"count": 3.0}, true},
		{"equals is strict", rule("count", model.OperatorEquals, "3"), map[string]any{"count": 3}, false},
		{"equals missing field", rule("country", model.OperatorEquals, "US"), map[string]any{}, false},
		{"notEquals", rule("country", model.OperatorNotEquals, "US"), map[string]any{"country": "CA"}, true},
		{"notEquals same", rule("flag", model.OperatorNotEquals, true), map[string]any{"flag": true}, false},
		{"contains list", rule("tags", model.OperatorContains, "go"), map[string]any{"tags": []any{"rust", "go"}}, true},
		{"contains typed list", rule("tags", model.OperatorContains, "go"), map[string]any{"tags": []string{"rust"}}, false},
		{"contains substring", rule("title", model.OperatorContains, "port"), map[string]any{"title": "Quarterly report"}, true},
		{"contains number substring", rule("code", model.OperatorContains, 23), map[string]any{"code": 1234}, true},
		{"greaterThan", rule("budget", model.OperatorGreaterThan, 1000), map[string]any{"budget": "1500"}, true},
		{"greaterThan equal", rule("budget", model.OperatorGreaterThan, 1000), map[string]any{"budget": 1000}, false},
		{"greaterThan NaN", rule("budget", model.OperatorGreaterThan, 1000), map[string]any{"budget": "lots"}, false},
		{"lessThan", rule("age", model.OperatorLessThan, 18), map[string]any{"age": 12}, true},
		{"lessThan missing", rule("age", model.OperatorLessThan, 18), map[string]any{}, false},
		{"lessThan nil is zero", rule("budget", model.OperatorLessThan, 1000), map[string]any{"budget": nil}, true},
		{"lessThan blank is zero", rule("budget", model.OperatorLessThan, 1000), map[string]any{"budget": ""}, true},
		{"lessThan true is one", rule("budget", model.OperatorLessThan, 1000), map[string]any{"budget": true}, true},
		{"greaterThan true is one", rule("agree", model.OperatorGreaterThan, 0), map[string]any{"agree": true}, true},
		{"greaterThan false is zero", rule("agree", model.OperatorGreaterThan, 0), map[string]any{"agree": false}, false},
		{"greaterThan single item list", rule("sizes", model.OperatorGreaterThan, 2), map[string]any{"sizes": []any{"3"}}, true},
		{"greaterThan longer list NaN", rule("sizes", model.OperatorGreaterThan, 0), map[string]any{"sizes": []any{3, 4}}, false},
		{"in list", rule("priority", model.OperatorIn, []any{"high", "critical"}), map[string]any{"priority": "high"}, true},
		{"in list miss", rule("priority", model.OperatorIn, []any{"high", "critical"}), map[string]any{"priority": "low"}, false},
		{"unknown operator fails open", rule("priority", "matches", "x"), map[string]any{"priority": "low"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eval.Visible(tc.rule, tc.values); got != tc.want {
				t.Fatalf("Visible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConditional_InRequiresListValue(t *testing.T) {
	eval := visibility.Conditional{}
	for _, value := range []any{"high", 1, nil, map[string]any{"high": true}, true} {
		r := rule("priority", model.OperatorIn, value)
		for _, current := range []any{"high", 1, nil, true} {
			if eval.Visible(r, map[string]any{"priority": current}) {
				t.Fatalf("in with non-list value %#v should never be visible (current %#v)", value, current)
			}
		}
	}
}

func TestVisibleFields_FiltersAcrossSections(t *testing.T) {
	cfg := model.FormConfig{
		ID: "contact",
		Sections: []model.SectionConfig{
			{Title: "Location", Fields: []model.FieldConfig{
				{Name: "country", Type: model.FieldTypeSelect},
			}},
			{Title: "Details", Fields: []model.FieldConfig{
				{Name: "other", Type: model.FieldTypeText, ConditionalDisplay: rule("country", model.OperatorEquals, "US")},
				{Name: "notes", Type: model.FieldTypeTextarea},
			}},
		},
	}

	names := func(fields []model.FieldConfig) []string {
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}

	got := names(visibility.VisibleFields(cfg, map[string]any{"country": "CA"}, nil))
	if diff := cmp.Diff([]string{"country", "notes"}, got); diff != "" {
		t.Fatalf("visible fields for CA mismatch (-want +got):\n%s", diff)
	}

	got = names(visibility.VisibleFields(cfg, map[string]any{"country": "US"}, nil))
	if diff := cmp.Diff([]string{"country", "other", "notes"}, got); diff != "" {
		t.Fatalf("visible fields for US mismatch (-want +got):\n%s", diff)
	}

	hidden := visibility.HiddenFieldNames(cfg, map[string]any{"country": "CA"}, nil)
	if _, ok := hidden["other"]; !ok || len(hidden) != 1 {
		t.Fatalf("expected only other to be hidden, got %#v", hidden)
	}
}

func TestEvaluatorFunc_Override(t *testing.T) {
	hideAll := visibility.EvaluatorFunc(func(*model.ConditionalRule, map[string]any) bool { return false })
	cfg := model.FormConfig{Sections: []model.SectionConfig{{Fields: []model.FieldConfig{{Name: "a"}}}}}
	if got := visibility.VisibleFields(cfg, nil, hideAll); len(got) != 0 {
		t.Fatalf("expected custom evaluator to hide everything, got %#v", got)
	}
}

func rule(field string, op model.ConditionalOperator, value any) *model.ConditionalRule {
	return &model.ConditionalRule{Field: field, Operator: op, Value: value}
}
