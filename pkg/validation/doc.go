// Package validation evaluates declarative validation rules against a field
// value. Evaluation never fails: rules whose parameters are missing or cannot
// be interpreted pass so a form stays usable, and failures are returned as
// data in the order the rules were declared.
package validation
