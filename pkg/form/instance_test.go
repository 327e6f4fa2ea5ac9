package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
)

func signupConfig() model.FormConfig {
	return model.FormConfig{
		ID: "signup",
		Sections: []model.SectionConfig{{
			Title: "Account",
			Fields: []model.FieldConfig{
				{Name: "age", Type: model.FieldTypeNumber, Required: true, Min: 18},
				{Name: "email", Type: model.FieldTypeEmail, Required: true},
			},
		}},
	}
}

func TestAssemble_AgeEmailScenario(t *testing.T) {
	inst, err := form.Assemble(signupConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got := inst.Progress(); got != 0 {
		t.Fatalf("expected blank form progress 0, got %d", got)
	}

	if err := inst.SetValue("age", 20); err != nil {
		t.Fatalf("set age: %v", err)
	}
	if err := inst.SetValue("email", "a@b.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if got := inst.Progress(); got != 100 {
		t.Fatalf("expected progress 100, got %d", got)
	}
	for name, failure := range inst.Validate() {
		if failure != nil {
			t.Fatalf("expected %s to be valid, got %#v", name, failure)
		}
	}
	if !inst.Valid() {
		t.Fatalf("expected instance to be valid")
	}

	if err := inst.SetValue("age", 10); err != nil {
		t.Fatalf("set age: %v", err)
	}
	failure := inst.Validate()["age"]
	if failure == nil {
		t.Fatalf("expected age failure")
	}
	if failure.Kind != model.ValidationMin || failure.Field != "age" || failure.Message != "Minimum value is 18" {
		t.Fatalf("unexpected failure %#v", failure)
	}
}

func TestAssemble_DefaultValues(t *testing.T) {
	cfg := model.FormConfig{
		ID: "defaults",
		Sections: []model.SectionConfig{{
			Title: "All",
			Fields: []model.FieldConfig{
				{Name: "text", Type: model.FieldTypeText, Required: true},
				{Name: "agree", Type: model.FieldTypeCheckbox, Required: true},
				{Name: "tags", Type: model.FieldTypeCheckboxGroup, Required: true},
				{Name: "upload", Type: model.FieldTypeFile, Required: true},
				{Name: "count", Type: model.FieldTypeNumber, Required: true},
				{Name: "country", Type: model.FieldTypeSelect, Required: true},
				{Name: "preset", Type: model.FieldTypeText, Value: "hello"},
			},
		}},
	}
	inst, err := form.Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	want := map[string]any{
		"text":    "",
		"agree":   false,
		"tags":    []any{},
		"upload":  []any{},
		"count":   nil,
		"country": nil,
		"preset":  "hello",
	}
	if diff := cmp.Diff(want, inst.RawValues()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}

	// false and [] count as filled; "", nil do not.
	if got := inst.Progress(); got != 50 {
		t.Fatalf("expected progress 50, got %d", got)
	}
}

func TestAssemble_DuplicateFieldAcrossSections(t *testing.T) {
	cfg := model.FormConfig{
		ID: "dupes",
		Sections: []model.SectionConfig{
			{Title: "One", Fields: []model.FieldConfig{{Name: "email", Type: model.FieldTypeEmail}}},
			{Title: "Two", Fields: []model.FieldConfig{{Name: "email", Type: model.FieldTypeText}}},
		},
	}
	inst, err := form.Assemble(cfg)
	if err == nil {
		t.Fatalf("expected configuration error, got instance %#v", inst)
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *model.ConfigError, got %T", err)
	}
	if !errors.Is(err, model.ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if len(cfgErr.Issues) != 1 || cfgErr.Issues[0].Section != "Two" {
		t.Fatalf("unexpected issues %#v", cfgErr.Issues)
	}
}

func TestAssemble_RejectsBrokenRules(t *testing.T) {
	cfg := model.FormConfig{
		ID: "broken",
		Sections: []model.SectionConfig{{
			Title: "S",
			Fields: []model.FieldConfig{
				{Name: "code", Type: model.FieldTypeText, Validators: []model.ValidationRule{{Kind: model.ValidationPattern}}},
				{Name: "other", Type: model.FieldTypeText, ConditionalDisplay: &model.ConditionalRule{Field: "missing", Operator: model.OperatorEquals, Value: 1}},
			},
		}},
	}
	_, err := form.Assemble(cfg)
	if !errors.Is(err, model.ErrMissingRuleValue) || !errors.Is(err, model.ErrUnknownConditionalField) {
		t.Fatalf("expected both issues reported, got %v", err)
	}
}

func TestInstance_ResetRoundTrip(t *testing.T) {
	cfg := signupConfig()
	cfg.Sections[0].Fields = append(cfg.Sections[0].Fields,
		model.FieldConfig{Name: "topics", Type: model.FieldTypeCheckboxGroup, Value: []any{"go"}},
	)
	inst, err := form.Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	initial := inst.RawValues()

	_ = inst.SetValue("age", 44)
	_ = inst.SetValue("topics", []any{"go", "rust"})
	inst.Touch("email")
	inst.Reset()

	if diff := cmp.Diff(initial, inst.RawValues()); diff != "" {
		t.Fatalf("reset values mismatch (-want +got):\n%s", diff)
	}
	if inst.Dirty("age") || inst.Touched("email") || !inst.Pristine() {
		t.Fatalf("reset should clear touched and dirty flags")
	}
}

func TestInstance_ProgressIdempotent(t *testing.T) {
	inst, err := form.Assemble(signupConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	_ = inst.SetValue("age", 30)
	first, second := inst.Progress(), inst.Progress()
	if first != second || first != 50 {
		t.Fatalf("progress not stable: %d then %d", first, second)
	}
}

func TestInstance_SetValueAndPatch(t *testing.T) {
	inst, err := form.Assemble(signupConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	var seen []string
	unsubscribe := inst.OnChange(func(name string, value any) {
		seen = append(seen, name)
	})

	if err := inst.SetValue("nope", 1); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	_ = inst.SetValue("age", 21)
	inst.Patch(map[string]any{"email": "x@y.io", "unknown": true})
	unsubscribe()
	_ = inst.SetValue("age", 22)

	if diff := cmp.Diff([]string{"age"}, seen); diff != "" {
		t.Fatalf("change notifications mismatch (-want +got):\n%s", diff)
	}
	if !inst.Dirty("age") || inst.Dirty("email") {
		t.Fatalf("only SetValue should mark fields dirty")
	}
	if v, _ := inst.Value("email"); v != "x@y.io" {
		t.Fatalf("patch did not assign email, got %v", v)
	}
	if _, ok := inst.Value("unknown"); ok {
		t.Fatalf("patch must ignore unknown keys")
	}
}

func TestInstance_DisabledControls(t *testing.T) {
	cfg := model.FormConfig{
		ID: "disabled",
		Sections: []model.SectionConfig{{
			Title: "S",
			Fields: []model.FieldConfig{
				{Name: "id", Type: model.FieldTypeText, Required: true, Readonly: true},
				{Name: "name", Type: model.FieldTypeText, Value: "Ada"},
			},
		}},
	}
	inst, err := form.Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if f := inst.Validate()["id"]; f != nil {
		t.Fatalf("disabled field should not fail validation, got %#v", f)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, inst.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if _, ok := inst.RawValues()["id"]; !ok {
		t.Fatalf("raw values should include disabled controls")
	}
}

func TestInstance_VisibleFields(t *testing.T) {
	cfg := model.FormConfig{
		ID: "address",
		Sections: []model.SectionConfig{{
			Title: "Where",
			Fields: []model.FieldConfig{
				{Name: "country", Type: model.FieldTypeSelect},
				{Name: "other", Type: model.FieldTypeText, ConditionalDisplay: &model.ConditionalRule{
					Field: "country", Operator: model.OperatorEquals, Value: "US",
				}},
			},
		}},
	}
	inst, err := form.Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	names := func(fields []model.FieldConfig) []string {
		var out []string
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}

	if diff := cmp.Diff([]string{"country"}, names(inst.VisibleFields(map[string]any{"country": "CA"}))); diff != "" {
		t.Fatalf("CA mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"country", "other"}, names(inst.VisibleFields(map[string]any{"country": "US"}))); diff != "" {
		t.Fatalf("US mismatch (-want +got):\n%s", diff)
	}

	_ = inst.SetValue("country", "US")
	if !inst.Visible("other") || len(inst.VisibleFields(nil)) != 2 {
		t.Fatalf("nil data should use current values")
	}
}

func TestInstance_CloneIsIndependent(t *testing.T) {
	inst, err := form.Assemble(signupConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	_ = inst.SetValue("age", 40)
	clone := inst.Clone()
	_ = clone.SetValue("age", 50)

	if v, _ := inst.Value("age"); v != 40 {
		t.Fatalf("clone mutated original, got %v", v)
	}
	if !clone.Dirty("age") {
		t.Fatalf("clone should carry dirty flags")
	}
}
