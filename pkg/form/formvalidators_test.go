package form_test

import (
	"testing"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
)

func TestFormValidators(t *testing.T) {
	cfg := model.FormConfig{
		ID: "project",
		Sections: []model.SectionConfig{{
			Title: "S",
			Fields: []model.FieldConfig{
				{Name: "password", Type: model.FieldTypePassword},
				{Name: "confirmPassword", Type: model.FieldTypePassword},
				{Name: "startDate", Type: model.FieldTypeDate},
				{Name: "endDate", Type: model.FieldTypeDate},
			},
		}},
	}
	inst, err := form.Assemble(cfg, form.WithFormValidator(
		form.MatchFields("password", "confirmPassword", ""),
		form.DateRange("startDate", "endDate", "End must follow start"),
	))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if got := inst.ValidateForm(); len(got) != 0 {
		t.Fatalf("blank form should pass cross-field checks, got %#v", got)
	}

	inst.Patch(map[string]any{
		"password":        "Secret123",
		"confirmPassword": "Secret124",
		"startDate":       "2024-05-10",
		"endDate":         "2024-05-01",
	})
	got := inst.ValidateForm()
	if len(got) != 2 {
		t.Fatalf("expected two failures, got %#v", got)
	}
	if got[0].Field != "confirmPassword" || got[0].Kind != form.KindMatchFields {
		t.Fatalf("unexpected match failure %#v", got[0])
	}
	if got[1].Field != "endDate" || got[1].Message != "End must follow start" {
		t.Fatalf("unexpected date failure %#v", got[1])
	}
	if inst.Valid() {
		t.Fatalf("instance should be invalid while cross-field checks fail")
	}

	inst.Patch(map[string]any{"confirmPassword": "Secret123", "endDate": "2024-06-01"})
	if got := inst.ValidateForm(); len(got) != 0 {
		t.Fatalf("expected cross-field checks to pass, got %#v", got)
	}
}

func TestCompletedSections(t *testing.T) {
	cfg := model.FormConfig{
		Sections: []model.SectionConfig{
			{Title: "Personal", Fields: []model.FieldConfig{{Name: "first", Type: model.FieldTypeText, Required: true}}},
			{Title: "Security", Fields: []model.FieldConfig{{Name: "password", Type: model.FieldTypePassword, Required: true}}},
			{Title: "Extras", Fields: []model.FieldConfig{{Name: "bio", Type: model.FieldTypeTextarea}}},
		},
	}
	got := form.CompletedSections(cfg, map[string]any{"first": "Ada", "password": ""})
	if len(got) != 2 || got[0] != "Personal" || got[1] != "Extras" {
		t.Fatalf("unexpected completed sections %#v", got)
	}
	if p := form.Progress(cfg, map[string]any{"first": "Ada"}); p != 50 {
		t.Fatalf("expected 50, got %d", p)
	}
	if p := form.Progress(model.FormConfig{}, nil); p != 100 {
		t.Fatalf("no required fields should be complete, got %d", p)
	}
}
