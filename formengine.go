// Package formengine turns declarative form configurations into live form
// instances. It re-exports the model types and wraps the form, visibility and
// config packages behind the handful of calls a host UI needs.
package formengine

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

type (
	FormConfig      = model.FormConfig
	SectionConfig   = model.SectionConfig
	FieldConfig     = model.FieldConfig
	FieldOption     = model.FieldOption
	ValidationRule  = model.ValidationRule
	ConditionalRule = model.ConditionalRule
	ConfigError     = model.ConfigError

	// Instance is the live state of an assembled form.
	Instance = form.Instance
	// Failure is a single validation failure.
	Failure = validation.Failure
	// Fetcher retrieves form configurations by id.
	Fetcher = config.Fetcher
)

// Assemble checks cfg and builds an Instance. A configuration that breaks the
// contract, such as a field name repeated across sections, is rejected with a
// *ConfigError.
func Assemble(cfg FormConfig, opts ...form.Option) (*Instance, error) {
	return form.Assemble(cfg, opts...)
}

// VisibleFields lists the fields of cfg whose conditional display rule holds
// for data.
func VisibleFields(cfg FormConfig, data map[string]any) []FieldConfig {
	return visibility.VisibleFields(cfg, data, visibility.Conditional{})
}

// Validate maps each field to its first failure, or nil when it is valid.
func Validate(inst *Instance) map[string]*Failure {
	return inst.Validate()
}

// Progress returns the completion percentage of the required fields of cfg
// given the instance's current values.
func Progress(cfg FormConfig, inst *Instance) int {
	return form.Progress(cfg, inst.RawValues())
}

// Reset clears the instance state and restores every field of cfg to its
// configured default.
func Reset(inst *Instance, cfg FormConfig) {
	inst.Reset()
	defaults := make(map[string]any, len(cfg.Fields()))
	for _, field := range cfg.Fields() {
		defaults[field.Name] = form.InitialValue(field)
	}
	inst.Patch(defaults)
}

// Patch bulk-assigns values without marking fields dirty. Unknown keys are
// ignored.
func Patch(inst *Instance, data map[string]any) {
	inst.Patch(data)
}

// Load fetches the form id and assembles it.
func Load(ctx context.Context, fetcher Fetcher, id string, opts ...form.Option) (*Instance, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("formengine: fetcher is nil")
	}
	cfg, err := fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return form.Assemble(cfg, opts...)
}

// EmbeddedCatalog returns the bundled sample forms with missing labels
// derived from field names.
func EmbeddedCatalog() (*config.Catalog, error) {
	return config.Embedded(model.FillLabels(nil))
}
