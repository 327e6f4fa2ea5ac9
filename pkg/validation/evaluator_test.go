package validation_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestEvaluate_Required(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{{Kind: model.ValidationRequired}}

	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"empty slice", []any{}, false},
		{"empty map", map[string]any{}, false},
		{"whitespace", " ", true},
		{"false", false, true},
		{"zero", 0, true},
		{"list", []string{"a"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := eval.First(tc.value, model.FieldTypeText, rules) == nil
			if got != tc.want {
				t.Fatalf("required(%#v) pass=%v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestEvaluate_FailuresInDeclaredOrder(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{
		{Kind: model.ValidationMinLength, Value: 8, Message: "too short"},
		{Kind: model.ValidationPattern, Value: "[0-9]+", Message: "digits only"},
		{Kind: model.ValidationMaxLength, Value: 2},
	}

	got := eval.Evaluate("abc", model.FieldTypeText, rules)
	want := []validation.Failure{
		{Kind: model.ValidationMinLength, Message: "too short"},
		{Kind: model.ValidationPattern, Message: "digits only"},
		{Kind: model.ValidationMaxLength, Message: "Maximum length is 2 characters"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}

	first := eval.First("abc", model.FieldTypeText, rules)
	if first == nil || first.Message != "too short" {
		t.Fatalf("expected first failure to be minLength, got %#v", first)
	}
}

func TestEvaluate_Email(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{{Kind: model.ValidationEmail}}

	valid := []any{"a@b.com", "first.last+tag@example.co.uk", "user@localhost"}
	for _, value := range valid {
		if f := eval.First(value, model.FieldTypeEmail, rules); f != nil {
			t.Fatalf("expected %q to be a valid email, got %#v", value, f)
		}
	}
	invalid := []any{"plainaddress", "a@", "@b.com", "a b@c.com", 42}
	for _, value := range invalid {
		if f := eval.First(value, model.FieldTypeEmail, rules); f == nil {
			t.Fatalf("expected %v to be rejected", value)
		}
	}
}

func TestEvaluate_EmptyOptionalValuesSkipRules(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{
		{Kind: model.ValidationEmail},
		{Kind: model.ValidationMinLength, Value: 3},
		{Kind: model.ValidationMin, Value: 1},
		{Kind: model.ValidationPattern, Value: "x+"},
	}
	for _, value := range []any{nil, "", []any{}} {
		if got := eval.Evaluate(value, model.FieldTypeNumber, rules); len(got) != 0 {
			t.Fatalf("expected no failures for %#v, got %#v", value, got)
		}
	}
}

func TestEvaluate_LengthBounds(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{
		{Kind: model.ValidationMinLength, Value: 2},
		{Kind: model.ValidationMaxLength, Value: "3"},
	}

	if f := eval.First("héé", model.FieldTypeText, rules); f != nil {
		t.Fatalf("length should count runes, got %#v", f)
	}
	if f := eval.First([]any{"a"}, model.FieldTypeCheckboxGroup, rules); f == nil || f.Kind != model.ValidationMinLength {
		t.Fatalf("expected minLength failure for short collection, got %#v", f)
	}
	if f := eval.First("abcd", model.FieldTypeText, rules); f == nil || f.Kind != model.ValidationMaxLength {
		t.Fatalf("expected maxLength failure, got %#v", f)
	}
	if f := eval.First(12345, model.FieldTypeNumber, rules); f != nil {
		t.Fatalf("numbers have no length and should pass, got %#v", f)
	}
}

func TestEvaluate_NumericBounds(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{
		{Kind: model.ValidationMin, Value: 18},
		{Kind: model.ValidationMax, Value: 99.5},
	}

	cases := []struct {
		name      string
		value     any
		fieldType model.FieldType
		want      model.ValidationKind
	}{
		{"int in range", 20, model.FieldTypeNumber, ""},
		{"numeric string", "42", model.FieldTypeText, ""},
		{"below min", 10, model.FieldTypeNumber, model.ValidationMin},
		{"above max", 100.0, model.FieldTypeNumber, model.ValidationMax},
		{"unparseable number field", "abc", model.FieldTypeNumber, model.ValidationMin},
		{"unparseable text field", "abc", model.FieldTypeText, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := eval.First(tc.value, tc.fieldType, rules)
			var got model.ValidationKind
			if f != nil {
				got = f.Kind
			}
			if got != tc.want {
				t.Fatalf("got failure kind %q, want %q", got, tc.want)
			}
		})
	}

	f := eval.First(10, model.FieldTypeNumber, rules)
	if f == nil || f.Message != "Minimum value is 18" {
		t.Fatalf("expected default min message referencing 18, got %#v", f)
	}
}

func TestEvaluate_Pattern(t *testing.T) {
	eval := validation.New()

	anchored := []model.ValidationRule{{Kind: model.ValidationPattern, Value: "[A-Z]{4}-[0-9]{3}"}}
	if f := eval.First("PROJ-001", model.FieldTypeText, anchored); f != nil {
		t.Fatalf("expected code to match, got %#v", f)
	}
	if f := eval.First("xPROJ-001x", model.FieldTypeText, anchored); f == nil {
		t.Fatalf("unanchored patterns must match the whole value")
	}

	numeric := []model.ValidationRule{{Kind: model.ValidationPattern, Value: `^\d+$`}}
	if f := eval.First(1234, model.FieldTypeNumber, numeric); f != nil {
		t.Fatalf("numbers should be matched as strings, got %#v", f)
	}

	price := []model.ValidationRule{{Kind: model.ValidationPattern, Value: `[0-9]+\$`}}
	if f := eval.First("25$", model.FieldTypeText, price); f != nil {
		t.Fatalf("escaped dollar should match literally, got %#v", f)
	}
	if f := eval.First("25", model.FieldTypeText, price); f == nil {
		t.Fatalf("escaped dollar must not be treated as an anchor")
	}

	either := []model.ValidationRule{{Kind: model.ValidationPattern, Value: `^yes|no$`}}
	if f := eval.First("no", model.FieldTypeText, either); f != nil {
		t.Fatalf("expected alternation to match, got %#v", f)
	}
	if f := eval.First("yes please", model.FieldTypeText, either); f == nil {
		t.Fatalf("alternation must still match the whole value")
	}
}

func TestEvaluate_InvalidDefinitionsPass(t *testing.T) {
	eval := validation.New()
	rules := []model.ValidationRule{
		{Kind: model.ValidationMinLength},
		{Kind: model.ValidationMin, Value: "not a number"},
		{Kind: model.ValidationPattern, Value: "(?=.*[a-z])"},
		{Kind: model.ValidationCustom, Value: "unregistered"},
		{Kind: model.ValidationCustom},
		{Kind: "unknown"},
	}
	if got := eval.Evaluate("value", model.FieldTypeText, rules); len(got) != 0 {
		t.Fatalf("invalid rule definitions should pass, got %#v", got)
	}
}

func TestEvaluate_CustomPredicates(t *testing.T) {
	eval := validation.Default(validation.WithPredicate("even", func(value any, _ model.ValidationRule) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	}))

	cases := []struct {
		predicate string
		value     any
		want      bool
	}{
		{"even", 4, true},
		{"even", 3, false},
		{validation.PredicateURL, "https://example.com/path", true},
		{validation.PredicateURL, "example.com", false},
		{validation.PredicatePhone, "(555) 123-4567", true},
		{validation.PredicatePhone, "12345", false},
		{validation.PredicateCreditCard, "4111 1111 1111 1111", true},
		{validation.PredicateCreditCard, "4111 1111 1111 1112", false},
		{validation.PredicateStrongPassword, "Secret123", true},
		{validation.PredicateStrongPassword, "secret123", false},
	}
	for _, tc := range cases {
		rule := model.ValidationRule{Kind: model.ValidationCustom, Value: tc.predicate}
		got := eval.Passes(tc.value, model.FieldTypeText, rule)
		if got != tc.want {
			t.Fatalf("%s(%v) = %v, want %v", tc.predicate, tc.value, got, tc.want)
		}
	}
}

func TestWithMessages_OverridesTemplates(t *testing.T) {
	eval := validation.New(validation.WithMessages(map[model.ValidationKind]string{
		model.ValidationMin: "must be at least {value}",
	}))
	f := eval.First(1, model.FieldTypeNumber, []model.ValidationRule{{Kind: model.ValidationMin, Value: 2.5}})
	if f == nil || f.Message != "must be at least 2.5" {
		t.Fatalf("unexpected message: %#v", f)
	}
}

func TestDefault_PredicateMessages(t *testing.T) {
	cases := []struct {
		rule  model.ValidationRule
		value any
		want  string
	}{
		{model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateURL}, "nope", "Please enter a valid URL"},
		{model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicatePhone}, "12", "Please enter a valid phone number"},
		{model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateCreditCard}, "1234", "Invalid credit card number"},
		{model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateFileSize, Param: 1},
			[]any{validation.File{Name: "big.pdf", Size: 3 << 20}}, "File size must not exceed 1MB"},
		{model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateFileType, Param: []any{".pdf", "image/png"}},
			[]any{"notes.txt"}, "Allowed file types: .pdf, image/png"},
		{model.ValidationRule{Kind: model.ValidationCustom, Value: "even"}, 3, "Invalid value"},
	}
	eval := validation.Default(validation.WithPredicate("even", func(any, model.ValidationRule) bool { return false }))
	for _, tc := range cases {
		f := eval.First(tc.value, model.FieldTypeText, []model.ValidationRule{tc.rule})
		if f == nil || f.Message != tc.want {
			t.Fatalf("%v: expected message %q, got %#v", tc.rule.Value, tc.want, f)
		}
	}
}

func TestMinAge(t *testing.T) {
	today := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	eval := validation.Default(validation.WithPredicate(validation.PredicateMinAge, validation.MinAge(func() time.Time { return today })))
	rule := model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateMinAge, Param: 18}

	cases := []struct {
		born any
		want bool
	}{
		{"2006-06-15", true},
		{"2006-06-16", false},
		{"2000-01-01T00:00:00Z", true},
		{time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"not a date", false},
	}
	for _, tc := range cases {
		if got := eval.Passes(tc.born, model.FieldTypeDate, rule); got != tc.want {
			t.Fatalf("minAge(%v) = %v, want %v", tc.born, got, tc.want)
		}
	}

	f := eval.First("2015-01-01", model.FieldTypeDate, []model.ValidationRule{rule})
	if f == nil || f.Message != "You must be at least 18 years old" {
		t.Fatalf("unexpected minAge failure %#v", f)
	}
	if !eval.Passes("2015-01-01", model.FieldTypeDate, model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateMinAge}) {
		t.Fatalf("minAge without a parameter should pass")
	}
}

func TestFilePredicates(t *testing.T) {
	eval := validation.Default()
	size := model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateFileSize, Param: 2}
	kind := model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateFileType, Param: ".pdf, image/*"}

	cases := []struct {
		name  string
		rule  model.ValidationRule
		value any
		want  bool
	}{
		{"size under limit", size, []any{validation.File{Name: "a.pdf", Size: 1 << 20}}, true},
		{"size over limit", size, []any{validation.File{Name: "a.pdf", Size: 3 << 20}}, false},
		{"size from decoded map", size, []any{map[string]any{"name": "a.pdf", "size": float64(5 << 20)}}, false},
		{"size unknown", size, []any{"a.pdf"}, true},
		{"type by extension", kind, []any{"docs/report.PDF"}, true},
		{"type family", kind, []any{validation.File{Name: "scan", Type: "image/jpeg"}}, true},
		{"type family from extension", kind, []any{"photo.png"}, true},
		{"type rejected", kind, []any{"notes.txt"}, false},
		{"one bad file fails all", kind, []any{"a.pdf", "b.exe"}, false},
		{"single file value", kind, validation.File{Name: "a.pdf"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eval.Passes(tc.value, model.FieldTypeFile, tc.rule); got != tc.want {
				t.Fatalf("Passes() = %v, want %v", got, tc.want)
			}
		})
	}
}
