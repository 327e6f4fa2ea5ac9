package model

import "sort"

// FieldType enumerates the input kinds a field can take.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeEmail         FieldType = "email"
	FieldTypeNumber        FieldType = "number"
	FieldTypePassword      FieldType = "password"
	FieldTypeTextarea      FieldType = "textarea"
	FieldTypeSelect        FieldType = "select"
	FieldTypeRadio         FieldType = "radio"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeCheckboxGroup FieldType = "checkbox-group"
	FieldTypeDate          FieldType = "date"
	FieldTypeTime          FieldType = "time"
	FieldTypeDatetime      FieldType = "datetime"
	FieldTypeFile          FieldType = "file"
	FieldTypeToggle        FieldType = "toggle"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeText: {}, FieldTypeEmail: {}, FieldTypeNumber: {}, FieldTypePassword: {},
	FieldTypeTextarea: {}, FieldTypeSelect: {}, FieldTypeRadio: {}, FieldTypeCheckbox: {},
	FieldTypeCheckboxGroup: {}, FieldTypeDate: {}, FieldTypeTime: {}, FieldTypeDatetime: {},
	FieldTypeFile: {}, FieldTypeToggle: {},
}

// Known reports whether the type is one of the supported field kinds.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[t]
	return ok
}

// IsChoice reports whether the field picks its value from Options.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckboxGroup:
		return true
	default:
		return false
	}
}

// ValidationKind identifies a declarative validation rule.
type ValidationKind string

const (
	ValidationRequired  ValidationKind = "required"
	ValidationEmail     ValidationKind = "email"
	ValidationMinLength ValidationKind = "minLength"
	ValidationMaxLength ValidationKind = "maxLength"
	ValidationMin       ValidationKind = "min"
	ValidationMax       ValidationKind = "max"
	ValidationPattern   ValidationKind = "pattern"
	ValidationCustom    ValidationKind = "custom"
)

// RequiresValue reports whether rules of this kind are meaningless without a
// comparison value.
func (k ValidationKind) RequiresValue() bool {
	switch k {
	case ValidationMinLength, ValidationMaxLength, ValidationMin, ValidationMax, ValidationPattern:
		return true
	default:
		return false
	}
}

// ValidationRule is a single declarative constraint attached to a field. Value
// carries the bound for minLength/maxLength/min/max, the expression for
// pattern, and the predicate name for custom rules. Param is the argument of a
// custom predicate, such as the years of minAge.
type ValidationRule struct {
	Kind    ValidationKind `json:"type" yaml:"type"`
	Value   any            `json:"value,omitempty" yaml:"value,omitempty"`
	Param   any            `json:"param,omitempty" yaml:"param,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// FieldOption is a selectable entry for select, radio and checkbox-group
// fields.
type FieldOption struct {
	Label    string `json:"label" yaml:"label"`
	Value    any    `json:"value" yaml:"value"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// ConditionalOperator names the comparison used by a ConditionalRule.
type ConditionalOperator string

const (
	OperatorEquals      ConditionalOperator = "equals"
	OperatorNotEquals   ConditionalOperator = "notEquals"
	OperatorContains    ConditionalOperator = "contains"
	OperatorGreaterThan ConditionalOperator = "greaterThan"
	OperatorLessThan    ConditionalOperator = "lessThan"
	OperatorIn          ConditionalOperator = "in"
)

// ConditionalRule shows a field only while another field's value satisfies
// the comparison.
type ConditionalRule struct {
	Field    string              `json:"field" yaml:"field"`
	Operator ConditionalOperator `json:"operator" yaml:"operator"`
	Value    any                 `json:"value" yaml:"value"`
}

// FieldConfig describes one input field. Name must be unique across every
// section of the owning form.
type FieldConfig struct {
	Name               string           `json:"name" yaml:"name"`
	Label              string           `json:"label" yaml:"label"`
	Type               FieldType        `json:"type" yaml:"type"`
	Value              any              `json:"value,omitempty" yaml:"value,omitempty"`
	Placeholder        string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Hint               string           `json:"hint,omitempty" yaml:"hint,omitempty"`
	Required           bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled           bool             `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Readonly           bool             `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Validators         []ValidationRule `json:"validators,omitempty" yaml:"validators,omitempty"`
	Options            []FieldOption    `json:"options,omitempty" yaml:"options,omitempty"`
	Multiple           bool             `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Rows               int              `json:"rows,omitempty" yaml:"rows,omitempty"`
	Accept             string           `json:"accept,omitempty" yaml:"accept,omitempty"`
	Min                any              `json:"min,omitempty" yaml:"min,omitempty"`
	Max                any              `json:"max,omitempty" yaml:"max,omitempty"`
	Step               float64          `json:"step,omitempty" yaml:"step,omitempty"`
	ConditionalDisplay *ConditionalRule `json:"conditionalDisplay,omitempty" yaml:"conditionalDisplay,omitempty"`
	Cols               int              `json:"cols,omitempty" yaml:"cols,omitempty"`
	Order              int              `json:"order,omitempty" yaml:"order,omitempty"`
	CSSClass           string           `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
}

// SectionConfig groups related fields.
type SectionConfig struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FieldConfig `json:"fields" yaml:"fields"`
	Collapsible bool          `json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
	Collapsed   bool          `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Order       int           `json:"order,omitempty" yaml:"order,omitempty"`
}

// OrderedFields returns the section fields sorted by Order. Fields sharing an
// order (including the zero value) keep their declared position.
func (s SectionConfig) OrderedFields() []FieldConfig {
	out := append([]FieldConfig(nil), s.Fields...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Layout is a presentation hint passed through to the hosting UI.
type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
	LayoutGrid       Layout = "grid"
)

// FormConfig is the declarative description of an entire form.
type FormConfig struct {
	ID                string          `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	Title             string          `json:"title" yaml:"title"`
	Description       string          `json:"description,omitempty" yaml:"description,omitempty"`
	Sections          []SectionConfig `json:"sections" yaml:"sections"`
	SubmitButtonText  string          `json:"submitButtonText,omitempty" yaml:"submitButtonText,omitempty"`
	CancelButtonText  string          `json:"cancelButtonText,omitempty" yaml:"cancelButtonText,omitempty"`
	ShowProgressBar   bool            `json:"showProgressBar,omitempty" yaml:"showProgressBar,omitempty"`
	AllowSaveProgress bool            `json:"allowSaveProgress,omitempty" yaml:"allowSaveProgress,omitempty"`
	Layout            Layout          `json:"layout,omitempty" yaml:"layout,omitempty"`
	SchemaVersion     string          `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// Fields returns every field across all sections in declaration order.
func (c FormConfig) Fields() []FieldConfig {
	var out []FieldConfig
	for _, section := range c.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// FieldNames lists the field names across all sections in declaration order.
func (c FormConfig) FieldNames() []string {
	var out []string
	for _, section := range c.Sections {
		for _, field := range section.Fields {
			out = append(out, field.Name)
		}
	}
	return out
}

// Field looks up a field configuration by name.
func (c FormConfig) Field(name string) (FieldConfig, bool) {
	for _, section := range c.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldConfig{}, false
}

// RequiredFieldNames lists the names of fields flagged as required.
func (c FormConfig) RequiredFieldNames() []string {
	var out []string
	for _, section := range c.Sections {
		for _, field := range section.Fields {
			if field.Required {
				out = append(out, field.Name)
			}
		}
	}
	return out
}
