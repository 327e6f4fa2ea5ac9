package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// ExtensionKey names the vendor extension that overrides derived field
// attributes (label, placeholder, hint, type, rows, order).
const ExtensionKey = "x-formengine"

const defaultSectionTitle = "Details"

var formatTypes = map[string]model.FieldType{
	"email":     model.FieldTypeEmail,
	"password":  model.FieldTypePassword,
	"date":      model.FieldTypeDate,
	"date-time": model.FieldTypeDatetime,
	"time":      model.FieldTypeTime,
	"binary":    model.FieldTypeFile,
}

type converter struct {
	logger *zap.Logger
	// active guards against recursive $ref cycles while descending.
	active map[*openapi3.Schema]struct{}
}

func newConverter(logger *zap.Logger) *converter {
	return &converter{logger: logger, active: make(map[*openapi3.Schema]struct{})}
}

func (c *converter) form(op Operation) (model.FormConfig, error) {
	root := flatten(op.RequestBody.Value)
	if schemaType(root) != "object" {
		return model.FormConfig{}, fmt.Errorf("%w: %q", ErrNotObject, op.ID)
	}

	title := op.Summary
	if title == "" {
		title = model.DefaultLabeler(op.ID)
	}
	cfg := model.FormConfig{
		ID:          op.ID,
		Name:        op.ID,
		Title:       title,
		Description: op.Description,
	}

	mainTitle := root.Title
	if mainTitle == "" {
		mainTitle = defaultSectionTitle
	}
	main := model.SectionConfig{Title: mainTitle}
	var nested []model.SectionConfig

	c.active[op.RequestBody.Value] = struct{}{}
	required := requiredSet(root)
	for _, name := range sortedKeys(root.Properties) {
		key := resolveRef(root.Properties[name])
		prop := flatten(key)
		if prop == nil {
			continue
		}
		if schemaType(prop) == "object" && len(prop.Properties) > 0 {
			if _, cycle := c.active[key]; cycle {
				c.logger.Debug("openapi: skipping recursive property", zap.String("property", name))
				continue
			}
			sectionTitle := prop.Title
			if sectionTitle == "" {
				sectionTitle = model.DefaultLabeler(name)
			}
			section := model.SectionConfig{Title: sectionTitle, Description: prop.Description}
			c.collect(&section, name+".", key)
			if len(section.Fields) > 0 {
				nested = append(nested, section)
			}
			continue
		}
		if field, ok := c.field(name, name, prop, required[name]); ok {
			main.Fields = append(main.Fields, field)
		}
	}

	if len(main.Fields) > 0 {
		cfg.Sections = append(cfg.Sections, main)
	}
	cfg.Sections = append(cfg.Sections, nested...)
	if len(cfg.Sections) == 0 {
		return model.FormConfig{}, fmt.Errorf("%w: %q has no supported properties", ErrNotObject, op.ID)
	}
	return cfg, nil
}

// collect flattens the properties of key into section, prefixing names with
// the dotted path of the parent objects.
func (c *converter) collect(section *model.SectionConfig, prefix string, key *openapi3.Schema) {
	c.active[key] = struct{}{}
	defer delete(c.active, key)

	schema := flatten(key)
	required := requiredSet(schema)
	for _, name := range sortedKeys(schema.Properties) {
		child := resolveRef(schema.Properties[name])
		prop := flatten(child)
		if prop == nil {
			continue
		}
		if schemaType(prop) == "object" && len(prop.Properties) > 0 {
			if _, cycle := c.active[child]; cycle {
				c.logger.Debug("openapi: skipping recursive property", zap.String("property", prefix+name))
				continue
			}
			c.collect(section, prefix+name+".", child)
			continue
		}
		if field, ok := c.field(prefix+name, name, prop, required[name]); ok {
			section.Fields = append(section.Fields, field)
		}
	}
}

func (c *converter) field(name, leaf string, s *openapi3.Schema, required bool) (model.FieldConfig, bool) {
	label := s.Title
	if label == "" {
		label = model.DefaultLabeler(leaf)
	}
	field := model.FieldConfig{
		Name:     name,
		Label:    label,
		Hint:     s.Description,
		Value:    s.Default,
		Required: required,
		Readonly: s.ReadOnly,
	}
	if example, ok := s.Example.(string); ok {
		field.Placeholder = example
	}

	switch kind := schemaType(s); kind {
	case "string":
		field.Type = model.FieldTypeText
		if len(s.Enum) > 0 {
			field.Type = model.FieldTypeSelect
			field.Options = enumOptions(s.Enum)
			break
		}
		if mapped, ok := formatTypes[s.Format]; ok {
			field.Type = mapped
		}
		switch s.Format {
		case "email":
			field.Validators = append(field.Validators, model.ValidationRule{Kind: model.ValidationEmail})
		case "uri", "url":
			field.Validators = append(field.Validators, model.ValidationRule{Kind: model.ValidationCustom, Value: validation.PredicateURL})
		}
		field.Validators = append(field.Validators, lengthRules(s.MinLength, s.MaxLength)...)
		if s.Pattern != "" {
			field.Validators = append(field.Validators, model.ValidationRule{Kind: model.ValidationPattern, Value: s.Pattern})
		}
	case "integer", "number":
		field.Type = model.FieldTypeNumber
		if len(s.Enum) > 0 {
			field.Type = model.FieldTypeSelect
			field.Options = enumOptions(s.Enum)
			break
		}
		if kind == "integer" {
			field.Step = 1
		}
		if s.Min != nil {
			field.Min = *s.Min
			field.Validators = append(field.Validators, model.ValidationRule{Kind: model.ValidationMin, Value: *s.Min})
		}
		if s.Max != nil {
			field.Max = *s.Max
			field.Validators = append(field.Validators, model.ValidationRule{Kind: model.ValidationMax, Value: *s.Max})
		}
	case "boolean":
		field.Type = model.FieldTypeCheckbox
	case "array":
		items := resolve(s.Items)
		switch {
		case items != nil && len(items.Enum) > 0:
			field.Type = model.FieldTypeCheckboxGroup
			field.Options = enumOptions(items.Enum)
		case items != nil && schemaType(items) == "string" && items.Format == "binary":
			field.Type = model.FieldTypeFile
			field.Multiple = true
		default:
			c.logger.Debug("openapi: skipping unsupported array property", zap.String("property", name))
			return model.FieldConfig{}, false
		}
		field.Validators = append(field.Validators, lengthRules(s.MinItems, s.MaxItems)...)
	default:
		c.logger.Debug("openapi: skipping unsupported property",
			zap.String("property", name),
			zap.String("type", kind),
		)
		return model.FieldConfig{}, false
	}

	applyExtension(&field, s.Extensions)
	return field, true
}

func lengthRules(lo uint64, hi *uint64) []model.ValidationRule {
	var rules []model.ValidationRule
	if lo > 0 {
		rules = append(rules, model.ValidationRule{Kind: model.ValidationMinLength, Value: int(lo)})
	}
	if hi != nil {
		rules = append(rules, model.ValidationRule{Kind: model.ValidationMaxLength, Value: int(*hi)})
	}
	return rules
}

func enumOptions(values []any) []model.FieldOption {
	options := make([]model.FieldOption, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		options = append(options, model.FieldOption{
			Label: model.DefaultLabeler(coerce.String(value)),
			Value: value,
		})
	}
	return options
}

func applyExtension(field *model.FieldConfig, extensions map[string]any) {
	raw, ok := extensions[ExtensionKey].(map[string]any)
	if !ok {
		return
	}
	if v, ok := raw["label"].(string); ok && v != "" {
		field.Label = v
	}
	if v, ok := raw["placeholder"].(string); ok {
		field.Placeholder = v
	}
	if v, ok := raw["hint"].(string); ok {
		field.Hint = v
	}
	if v, ok := raw["type"].(string); ok {
		if t := model.FieldType(v); t.Known() {
			field.Type = t
		}
	}
	if n, ok := coerce.Int(raw["rows"]); ok {
		field.Rows = n
	}
	if n, ok := coerce.Int(raw["order"]); ok {
		field.Order = n
	}
}

// flatten merges allOf members into a single schema. Properties declared on
// the schema itself win over those pulled in from allOf.
func flatten(s *openapi3.Schema) *openapi3.Schema {
	if s == nil || len(s.AllOf) == 0 {
		return s
	}
	merged := *s
	merged.AllOf = nil
	merged.Properties = make(openapi3.Schemas)
	merged.Required = nil

	for _, ref := range s.AllOf {
		part := flatten(resolveRef(ref))
		if part == nil {
			continue
		}
		if merged.Type == nil {
			merged.Type = part.Type
		}
		for name, prop := range part.Properties {
			merged.Properties[name] = prop
		}
		merged.Required = append(merged.Required, part.Required...)
	}
	for name, prop := range s.Properties {
		merged.Properties[name] = prop
	}
	merged.Required = append(merged.Required, s.Required...)
	return &merged
}

func resolveRef(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func resolve(ref *openapi3.SchemaRef) *openapi3.Schema {
	return flatten(resolveRef(ref))
}

func schemaType(s *openapi3.Schema) string {
	if s == nil {
		return ""
	}
	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			if t != openapi3.TypeNull {
				return t
			}
		}
	}
	switch {
	case len(s.Properties) > 0:
		return "object"
	case s.Items != nil:
		return "array"
	case len(s.Enum) > 0:
		return "string"
	}
	return ""
}

func requiredSet(s *openapi3.Schema) map[string]bool {
	out := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		out[strings.TrimSpace(name)] = true
	}
	return out
}

func sortedKeys(props openapi3.Schemas) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
