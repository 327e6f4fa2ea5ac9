package report_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/report"
	"github.com/goliatone/go-formengine/pkg/testsupport"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestFields(t *testing.T) {
	inst, err := form.Assemble(model.FormConfig{
		ID:    "account",
		Title: "Account",
		Sections: []model.SectionConfig{{Title: "Login", Fields: []model.FieldConfig{
			{Name: "email", Type: model.FieldTypeEmail, Required: true},
			{Name: "password", Type: model.FieldTypePassword, Required: true},
			{Name: "roles", Type: model.FieldTypeCheckboxGroup},
		}}},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	inst.Patch(map[string]any{"email": "bad", "password": "hunter22", "roles": []any{"admin", "dev"}})

	out := report.Fields(inst)
	for _, want := range []string{"Account (100% complete):", "email", "Please enter a valid email address", "********", "[admin, dev]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hunter22") {
		t.Fatalf("password leaked into report:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	if got := report.Errors(map[string]*validation.Failure{"a": nil}); got != "No validation errors" {
		t.Fatalf("unexpected empty report %q", got)
	}
	out := report.Errors(map[string]*validation.Failure{
		"zip":  {Field: "zip", Kind: model.ValidationPattern, Message: "Invalid format"},
		"name": {Field: "name", Kind: model.ValidationRequired, Message: "This field is required"},
		"ok":   nil,
	})
	if strings.Index(out, "name") > strings.Index(out, "zip") {
		t.Fatalf("rows should be sorted by field name:\n%s", out)
	}
	if strings.Contains(out, "ok ") {
		t.Fatalf("passing fields should not be listed:\n%s", out)
	}
}

func TestCatalog(t *testing.T) {
	out := report.Catalog([]model.FormConfig{{
		ID:    "contact",
		Title: "Contact",
		Sections: []model.SectionConfig{{Fields: []model.FieldConfig{
			{Name: "a", Required: true}, {Name: "b"},
		}}},
	}})
	if !strings.Contains(out, "contact") || !strings.Contains(out, "Contact") {
		t.Fatalf("unexpected catalog report:\n%s", out)
	}
	if report.Catalog(nil) != "No forms" {
		t.Fatalf("empty catalog should say so")
	}
}

func TestFields_EmbeddedForm(t *testing.T) {
	inst := testsupport.MustEmbeddedInstance(t, "user-registration")

	out := report.Fields(inst)
	for _, want := range []string{"Personal Information", "firstName", "First name is required"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}
