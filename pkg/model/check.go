package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateField          = errors.New("duplicate field name")
	ErrUnknownConditionalField = errors.New("conditional display references unknown field")
	ErrMissingRuleValue        = errors.New("validation rule requires a value")
	ErrEmptyFieldName          = errors.New("field name is required")
	ErrUnknownFieldType        = errors.New("unknown field type")
)

// Issue locates a single configuration problem.
type Issue struct {
	Section string
	Field   string
	Err     error
}

func (i Issue) Error() string {
	var b strings.Builder
	if i.Section != "" {
		fmt.Fprintf(&b, "section %q: ", i.Section)
	}
	if i.Field != "" {
		fmt.Fprintf(&b, "field %q: ", i.Field)
	}
	b.WriteString(i.Err.Error())
	return b.String()
}

func (i Issue) Unwrap() error { return i.Err }

// ConfigError reports every contract violation found in a FormConfig. It is
// returned instead of silently repairing a broken form definition.
type ConfigError struct {
	FormID string
	Issues []Issue
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Error())
	}
	prefix := "model: invalid form configuration"
	if e.FormID != "" {
		prefix = fmt.Sprintf("model: invalid form configuration %q", e.FormID)
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual issues so errors.Is matches the sentinels.
func (e *ConfigError) Unwrap() []error {
	out := make([]error, 0, len(e.Issues))
	for _, issue := range e.Issues {
		out = append(out, issue)
	}
	return out
}

// Check validates the configuration contract: field names are present and
// unique across sections, field types are known, conditional rules reference
// fields of the same form, and parameterised validation rules carry a value.
// It returns nil or a *ConfigError.
func Check(cfg FormConfig) error {
	var issues []Issue
	seen := make(map[string]string)

	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			if strings.TrimSpace(field.Name) == "" {
				issues = append(issues, Issue{Section: section.Title, Err: ErrEmptyFieldName})
				continue
			}
			if first, exists := seen[field.Name]; exists {
				issues = append(issues, Issue{
					Section: section.Title,
					Field:   field.Name,
					Err:     fmt.Errorf("%w (first declared in section %q)", ErrDuplicateField, first),
				})
				continue
			}
			seen[field.Name] = section.Title
		}
	}

	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			if strings.TrimSpace(field.Name) == "" {
				continue
			}
			if !field.Type.Known() {
				issues = append(issues, Issue{
					Section: section.Title,
					Field:   field.Name,
					Err:     fmt.Errorf("%w %q", ErrUnknownFieldType, field.Type),
				})
			}
			for idx, rule := range field.Validators {
				if rule.Kind.RequiresValue() && rule.Value == nil {
					issues = append(issues, Issue{
						Section: section.Title,
						Field:   field.Name,
						Err:     fmt.Errorf("%w (rule %d, %s)", ErrMissingRuleValue, idx, rule.Kind),
					})
				}
			}
			if cond := field.ConditionalDisplay; cond != nil {
				if _, ok := seen[cond.Field]; !ok {
					issues = append(issues, Issue{
						Section: section.Title,
						Field:   field.Name,
						Err:     fmt.Errorf("%w %q", ErrUnknownConditionalField, cond.Field),
					})
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ConfigError{FormID: cfg.ID, Issues: issues}
}
