// Package model defines the declarative form configuration consumed by the
// engine: a FormConfig holds ordered sections, each section holds ordered
// FieldConfig entries, and each field carries its validation rules and an
// optional conditional display rule. JSON and YAML tags follow the camelCase
// shape used by configuration files (`conditionalDisplay`, `validators`,
// `cols`, `cssClass`) so catalogues can be loaded without a translation layer.
//
// Check inspects a configuration for contract violations (duplicate field
// names, conditional rules that point at unknown fields, parameterised rules
// without a value) and reports them as a *ConfigError.
package model
