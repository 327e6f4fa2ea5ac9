package form

import (
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Control is the descriptor built for a single field.
type Control struct {
	Name       string
	Type       model.FieldType
	Initial    any
	Disabled   bool
	Validators []model.ValidationRule
}

// NewControl builds the control descriptor for field. Validators are ordered
// as required (when flagged), declared rules, an implicit fileType rule for
// file fields with an accept list, the implicit email rule for email fields,
// then implicit min/max rules for number fields with bounds. A declared
// fileType rule without a parameter checks against the accept list.
// A required rule declared on a required field lends its message to the
// leading required rule instead of being evaluated twice.
func NewControl(field model.FieldConfig) Control {
	return Control{
		Name:       field.Name,
		Type:       field.Type,
		Initial:    InitialValue(field),
		Disabled:   field.Disabled || field.Readonly,
		Validators: buildValidators(field),
	}
}

// InitialValue returns the explicit field value, or the default for the
// field type when none is configured.
func InitialValue(field model.FieldConfig) any {
	if field.Value != nil {
		return cloneValue(field.Value)
	}
	return DefaultValue(field.Type)
}

// DefaultValue is the empty value for a field type: false for checkboxes, an
// empty list for checkbox groups and files, nil for numbers and selects, and
// the empty string otherwise.
func DefaultValue(fieldType model.FieldType) any {
	switch fieldType {
	case model.FieldTypeCheckbox:
		return false
	case model.FieldTypeCheckboxGroup, model.FieldTypeFile:
		return []any{}
	case model.FieldTypeNumber, model.FieldTypeSelect:
		return nil
	default:
		return ""
	}
}

func buildValidators(field model.FieldConfig) []model.ValidationRule {
	var (
		rules       []model.ValidationRule
		hasFileType bool
	)
	if field.Required {
		required := model.ValidationRule{Kind: model.ValidationRequired}
		for _, rule := range field.Validators {
			if rule.Kind == model.ValidationRequired {
				required.Message = rule.Message
				break
			}
		}
		rules = append(rules, required)
	}
	for _, rule := range field.Validators {
		// A declared required rule on a required field is folded into the
		// leading one above.
		if field.Required && rule.Kind == model.ValidationRequired {
			continue
		}
		if isFileTypeRule(rule) {
			hasFileType = true
			if rule.Param == nil && field.Accept != "" {
				rule.Param = field.Accept
			}
		}
		rules = append(rules, rule)
	}
	if field.Type == model.FieldTypeFile && field.Accept != "" && !hasFileType {
		rules = append(rules, model.ValidationRule{
			Kind:  model.ValidationCustom,
			Value: validation.PredicateFileType,
			Param: field.Accept,
		})
	}

	if field.Type == model.FieldTypeEmail {
		rules = append(rules, model.ValidationRule{Kind: model.ValidationEmail})
	}
	if field.Type == model.FieldTypeNumber {
		if bound, ok := coerce.Number(field.Min); ok {
			rules = append(rules, model.ValidationRule{Kind: model.ValidationMin, Value: bound})
		}
		if bound, ok := coerce.Number(field.Max); ok {
			rules = append(rules, model.ValidationRule{Kind: model.ValidationMax, Value: bound})
		}
	}
	return rules
}

func isFileTypeRule(rule model.ValidationRule) bool {
	name, ok := rule.Value.(string)
	return ok && rule.Kind == model.ValidationCustom && strings.TrimSpace(name) == validation.PredicateFileType
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = cloneValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneValue(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
