package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestNewControl_ValidatorOrder(t *testing.T) {
	control := form.NewControl(model.FieldConfig{
		Name:     "budget",
		Type:     model.FieldTypeNumber,
		Required: true,
		Min:      "1000",
		Max:      50000,
		Validators: []model.ValidationRule{
			{Kind: model.ValidationPattern, Value: `\d+`},
		},
	})

	want := []model.ValidationRule{
		{Kind: model.ValidationRequired},
		{Kind: model.ValidationPattern, Value: `\d+`},
		{Kind: model.ValidationMin, Value: 1000.0},
		{Kind: model.ValidationMax, Value: 50000.0},
	}
	if diff := cmp.Diff(want, control.Validators); diff != "" {
		t.Fatalf("validators mismatch (-want +got):\n%s", diff)
	}
}

func TestNewControl_EmailAndDisabled(t *testing.T) {
	control := form.NewControl(model.FieldConfig{Name: "contact", Type: model.FieldTypeEmail, Readonly: true})
	if !control.Disabled {
		t.Fatalf("readonly fields build disabled controls")
	}
	if len(control.Validators) != 1 || control.Validators[0].Kind != model.ValidationEmail {
		t.Fatalf("expected implicit email rule, got %#v", control.Validators)
	}
	if control.Initial != "" {
		t.Fatalf("expected empty string initial value, got %#v", control.Initial)
	}
}

func TestInitialValue_ClonesExplicitValues(t *testing.T) {
	field := model.FieldConfig{Name: "tags", Type: model.FieldTypeCheckboxGroup, Value: []any{"a"}}
	got := form.InitialValue(field).([]any)
	got[0] = "mutated"
	if field.Value.([]any)[0] != "a" {
		t.Fatalf("initial value must not alias the configuration")
	}
}

func TestNewControl_FoldsDeclaredRequired(t *testing.T) {
	control := form.NewControl(model.FieldConfig{
		Name:     "firstName",
		Type:     model.FieldTypeText,
		Required: true,
		Validators: []model.ValidationRule{
			{Kind: model.ValidationRequired, Message: "First name is required"},
			{Kind: model.ValidationMinLength, Value: 2},
		},
	})
	want := []model.ValidationRule{
		{Kind: model.ValidationRequired, Message: "First name is required"},
		{Kind: model.ValidationMinLength, Value: 2},
	}
	if diff := cmp.Diff(want, control.Validators); diff != "" {
		t.Fatalf("validators mismatch (-want +got):\n%s", diff)
	}
}

func TestNewControl_FileAcceptList(t *testing.T) {
	implicit := form.NewControl(model.FieldConfig{Name: "resume", Type: model.FieldTypeFile, Accept: ".pdf,.docx"})
	want := []model.ValidationRule{
		{Kind: model.ValidationCustom, Value: validation.PredicateFileType, Param: ".pdf,.docx"},
	}
	if diff := cmp.Diff(want, implicit.Validators); diff != "" {
		t.Fatalf("implicit validators mismatch (-want +got):\n%s", diff)
	}

	declared := form.NewControl(model.FieldConfig{
		Name:   "avatar",
		Type:   model.FieldTypeFile,
		Accept: "image/*",
		Validators: []model.ValidationRule{
			{Kind: model.ValidationCustom, Value: validation.PredicateFileType, Message: "Images only"},
			{Kind: model.ValidationCustom, Value: validation.PredicateFileSize, Param: 2},
		},
	})
	want = []model.ValidationRule{
		{Kind: model.ValidationCustom, Value: validation.PredicateFileType, Param: "image/*", Message: "Images only"},
		{Kind: model.ValidationCustom, Value: validation.PredicateFileSize, Param: 2},
	}
	if diff := cmp.Diff(want, declared.Validators); diff != "" {
		t.Fatalf("declared validators mismatch (-want +got):\n%s", diff)
	}
}
