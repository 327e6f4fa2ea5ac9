package validation

import (
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

func defaultMessages() map[model.ValidationKind]string {
	return map[model.ValidationKind]string{
		model.ValidationRequired:  "This field is required",
		model.ValidationEmail:     "Please enter a valid email address",
		model.ValidationMinLength: "Minimum length is {value} characters",
		model.ValidationMaxLength: "Maximum length is {value} characters",
		model.ValidationMin:       "Minimum value is {value}",
		model.ValidationMax:       "Maximum value is {value}",
		model.ValidationPattern:   "Invalid format",
		model.ValidationCustom:    "Invalid value",
	}
}

func defaultPredicateMessages() map[string]string {
	return map[string]string{
		PredicateURL:            "Please enter a valid URL",
		PredicatePhone:          "Please enter a valid phone number",
		PredicateCreditCard:     "Invalid credit card number",
		PredicateStrongPassword: "Password must contain uppercase, lowercase, and number",
		PredicateMinAge:         "You must be at least {param} years old",
		PredicateFileSize:       "File size must not exceed {param}MB",
		PredicateFileType:       "Allowed file types: {param}",
	}
}

// message prefers the rule's own message, then the template of a custom
// rule's predicate, then the template for its kind. {value} and {param} are
// replaced with the rule value and parameter.
func (e *Evaluator) message(rule model.ValidationRule) string {
	if msg := strings.TrimSpace(rule.Message); msg != "" {
		return msg
	}
	template, ok := e.predicateTemplate(rule)
	if !ok {
		template, ok = e.messages[rule.Kind]
	}
	if !ok {
		template = "Invalid value"
	}
	return strings.NewReplacer(
		"{value}", coerce.String(rule.Value),
		"{param}", paramString(rule.Param),
	).Replace(template)
}

func (e *Evaluator) predicateTemplate(rule model.ValidationRule) (string, bool) {
	if rule.Kind != model.ValidationCustom {
		return "", false
	}
	name, ok := rule.Value.(string)
	if !ok {
		return "", false
	}
	template, ok := e.predicateMessages[strings.TrimSpace(name)]
	return template, ok
}

func paramString(param any) string {
	list, ok := coerce.List(param)
	if !ok {
		return coerce.String(param)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, coerce.String(item))
	}
	return strings.Join(parts, ", ")
}
