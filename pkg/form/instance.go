package form

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

// ErrUnknownField is returned when an operation names a field the form does
// not declare.
var ErrUnknownField = errors.New("form: unknown field")

// ChangeFunc observes a value set through Instance.SetValue.
type ChangeFunc func(name string, value any)

type fieldState struct {
	value   any
	touched bool
	dirty   bool
}

// Instance is the live state derived from a FormConfig.
type Instance struct {
	cfg       model.FormConfig
	order     []string
	controls  map[string]Control
	state     map[string]*fieldState
	listeners map[int]ChangeFunc
	nextID    int
	opts      options
}

// Assemble checks cfg and builds an Instance with one control per field. Any
// configuration issue, including a field name declared in two sections,
// rejects assembly with a *model.ConfigError.
func Assemble(cfg model.FormConfig, opts ...Option) (*Instance, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}

	if err := model.Check(cfg); err != nil {
		o.logger.Debug("form configuration rejected",
			zap.String("form", cfg.ID),
			zap.Error(err),
		)
		return nil, err
	}

	inst := &Instance{
		cfg:       cfg,
		controls:  make(map[string]Control),
		state:     make(map[string]*fieldState),
		listeners: make(map[int]ChangeFunc),
		opts:      o,
	}
	for _, field := range cfg.Fields() {
		control := NewControl(field)
		inst.order = append(inst.order, field.Name)
		inst.controls[field.Name] = control
		inst.state[field.Name] = &fieldState{value: cloneValue(control.Initial)}
	}

	o.logger.Debug("form assembled",
		zap.String("form", cfg.ID),
		zap.Int("fields", len(inst.order)),
	)
	return inst, nil
}

// Config returns the configuration the instance was assembled from.
func (i *Instance) Config() model.FormConfig {
	return i.cfg
}

// Names lists the field names in declaration order.
func (i *Instance) Names() []string {
	return append([]string(nil), i.order...)
}

// Control returns the descriptor built for a field.
func (i *Instance) Control(name string) (Control, bool) {
	control, ok := i.controls[name]
	return control, ok
}

// Value returns the current value of a field.
func (i *Instance) Value(name string) (any, bool) {
	st, ok := i.state[name]
	if !ok {
		return nil, false
	}
	return st.value, true
}

// RawValues returns every field value, including disabled controls.
func (i *Instance) RawValues() map[string]any {
	out := make(map[string]any, len(i.order))
	for _, name := range i.order {
		out[name] = cloneValue(i.state[name].value)
	}
	return out
}

// Values returns the values of enabled controls, the payload handed to a
// submit callback.
func (i *Instance) Values() map[string]any {
	out := make(map[string]any, len(i.order))
	for _, name := range i.order {
		if i.controls[name].Disabled {
			continue
		}
		out[name] = cloneValue(i.state[name].value)
	}
	return out
}

// SetValue records a user edit, marks the field dirty and notifies OnChange
// observers.
func (i *Instance) SetValue(name string, value any) error {
	st, ok := i.state[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	st.value = value
	st.dirty = true

	ids := make([]int, 0, len(i.listeners))
	for id := range i.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		i.listeners[id](name, value)
	}
	return nil
}

// Patch bulk-assigns values, typically to restore saved progress. It does not
// mark fields dirty or notify observers, and keys that do not name a field
// are ignored.
func (i *Instance) Patch(data map[string]any) {
	for name, value := range data {
		st, ok := i.state[name]
		if !ok {
			i.opts.logger.Debug("patch ignored unknown field",
				zap.String("form", i.cfg.ID),
				zap.String("field", name),
			)
			continue
		}
		st.value = cloneValue(value)
	}
}

// Reset restores every field to its configured default and clears touched
// and dirty flags.
func (i *Instance) Reset() {
	for _, name := range i.order {
		i.state[name] = &fieldState{value: cloneValue(i.controls[name].Initial)}
	}
}

// OnChange registers an observer for SetValue and returns a function that
// removes it.
func (i *Instance) OnChange(fn ChangeFunc) func() {
	if fn == nil {
		return func() {}
	}
	id := i.nextID
	i.nextID++
	i.listeners[id] = fn
	return func() { delete(i.listeners, id) }
}

// Touch marks a field as visited.
func (i *Instance) Touch(name string) {
	if st, ok := i.state[name]; ok {
		st.touched = true
	}
}

// MarkAllTouched marks every field as visited, as a host does before showing
// errors on a rejected submit.
func (i *Instance) MarkAllTouched() {
	for _, st := range i.state {
		st.touched = true
	}
}

// Touched reports whether a field has been visited.
func (i *Instance) Touched(name string) bool {
	st, ok := i.state[name]
	return ok && st.touched
}

// Dirty reports whether a field has been edited through SetValue.
func (i *Instance) Dirty(name string) bool {
	st, ok := i.state[name]
	return ok && st.dirty
}

// Pristine reports whether no field has been edited since assembly or reset.
func (i *Instance) Pristine() bool {
	for _, st := range i.state {
		if st.dirty {
			return false
		}
	}
	return true
}

// Errors evaluates every validator of a field and returns the failures in
// validator order. Disabled fields never fail.
func (i *Instance) Errors(name string) []validation.Failure {
	control, ok := i.controls[name]
	if !ok || control.Disabled {
		return nil
	}
	failures := i.opts.evaluator.Evaluate(i.state[name].value, control.Type, control.Validators)
	for idx := range failures {
		failures[idx].Field = name
	}
	return failures
}

// Check evaluates value against the validators of a field without storing
// it and returns the first failure, or nil.
func (i *Instance) Check(name string, value any) *validation.Failure {
	control, ok := i.controls[name]
	if !ok || control.Disabled {
		return nil
	}
	failure := i.opts.evaluator.First(value, control.Type, control.Validators)
	if failure != nil {
		failure.Field = name
	}
	return failure
}

// Validate maps every field name to its first failure, or nil when the field
// is valid.
func (i *Instance) Validate() map[string]*validation.Failure {
	out := make(map[string]*validation.Failure, len(i.order))
	for _, name := range i.order {
		failures := i.Errors(name)
		if len(failures) == 0 {
			out[name] = nil
			continue
		}
		first := failures[0]
		out[name] = &first
	}
	return out
}

// ValidateForm runs the registered cross-field validators.
func (i *Instance) ValidateForm() []validation.Failure {
	var out []validation.Failure
	values := i.RawValues()
	for _, v := range i.opts.formValidators {
		if f := v(values); f != nil {
			out = append(out, *f)
		}
	}
	return out
}

// Valid reports whether every enabled field and every cross-field validator
// passes.
func (i *Instance) Valid() bool {
	for _, name := range i.order {
		if len(i.Errors(name)) > 0 {
			return false
		}
	}
	return len(i.ValidateForm()) == 0
}

// VisibleFields filters the configured fields through the conditional display
// evaluator. A nil data map uses the instance's current values.
func (i *Instance) VisibleFields(data map[string]any) []model.FieldConfig {
	if data == nil {
		data = i.RawValues()
	}
	return visibility.VisibleFields(i.cfg, data, i.opts.visibility)
}

// Visible reports whether a single field is currently shown.
func (i *Instance) Visible(name string) bool {
	field, ok := i.cfg.Field(name)
	if !ok {
		return false
	}
	return i.opts.visibility.Visible(field.ConditionalDisplay, i.RawValues())
}

// Progress returns the completion percentage of required fields.
func (i *Instance) Progress() int {
	return Progress(i.cfg, i.RawValues())
}

// Clone returns an independent copy of the instance state. Change observers
// are not carried over.
func (i *Instance) Clone() *Instance {
	out := &Instance{
		cfg:       i.cfg,
		order:     append([]string(nil), i.order...),
		controls:  i.controls,
		state:     make(map[string]*fieldState, len(i.state)),
		listeners: make(map[int]ChangeFunc),
		opts:      i.opts,
	}
	for name, st := range i.state {
		out.state[name] = &fieldState{
			value:   cloneValue(st.value),
			touched: st.touched,
			dirty:   st.dirty,
		}
	}
	return out
}
