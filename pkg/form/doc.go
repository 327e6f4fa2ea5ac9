// Package form assembles a FormConfig into a live Instance: one control per
// field keyed by name, holding the current value, disabled state, validators
// and touched/dirty bookkeeping. Instances are owned by a single logical
// session; they are not safe for concurrent mutation.
package form
