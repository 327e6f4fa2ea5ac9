package submission

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Submission is the payload produced by a successful Build.
type Submission struct {
	FormID    string         `json:"formId" msgpack:"formId"`
	Data      map[string]any `json:"data" msgpack:"data"`
	Timestamp time.Time      `json:"timestamp" msgpack:"timestamp"`
	UserID    string         `json:"userId,omitempty" msgpack:"userId,omitempty"`
}

// SubmitFunc persists a submission. It is supplied by the host.
type SubmitFunc func(ctx context.Context, sub Submission) error

// InvalidError reports that a form failed validation. Fields maps each
// failing field to its first message.
type InvalidError struct {
	FormID string
	Fields map[string]string
}

func (e *InvalidError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("submission: form %q is invalid (%s)", e.FormID, strings.Join(names, ", "))
}

// ErrNoSubmitFunc is returned by Submit when no callback is configured.
var ErrNoSubmitFunc = errors.New("submission: submit func is nil")

// Option configures Build and Submit.
type Option func(*options)

type options struct {
	userID      string
	now         func() time.Time
	visibleOnly bool
	sanitize    bool
	logger      *zap.Logger
}

// WithUserID records the submitting user.
func WithUserID(id string) Option {
	return func(o *options) { o.userID = id }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithVisibleOnly drops fields hidden by their conditional display rule from
// both validation and the payload.
func WithVisibleOnly() Option {
	return func(o *options) { o.visibleOnly = true }
}

// WithoutSanitize keeps string values exactly as entered. Password fields are
// never sanitised.
func WithoutSanitize() Option {
	return func(o *options) { o.sanitize = false }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolve(opts []Option) options {
	o := options{
		now:      time.Now,
		sanitize: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Build marks every field touched, validates the instance and returns the
// payload of enabled fields. An invalid form yields an *InvalidError and no
// payload.
func Build(inst *form.Instance, opts ...Option) (Submission, error) {
	o := resolve(opts)
	formID := inst.Config().ID

	inst.MarkAllTouched()

	include := func(name string) bool {
		return !o.visibleOnly || inst.Visible(name)
	}

	invalid := make(map[string]string)
	for name, failure := range inst.Validate() {
		if failure != nil && include(name) {
			invalid[name] = failure.Message
		}
	}
	for _, failure := range inst.ValidateForm() {
		if _, seen := invalid[failure.Field]; !seen && include(failure.Field) {
			invalid[failure.Field] = failure.Message
		}
	}
	if len(invalid) > 0 {
		o.logger.Debug("submission rejected",
			zap.String("form", formID),
			zap.Int("invalid", len(invalid)),
		)
		return Submission{}, &InvalidError{FormID: formID, Fields: invalid}
	}

	data := inst.Values()
	for name, value := range data {
		if !include(name) {
			delete(data, name)
			continue
		}
		if o.sanitize && !verbatim(inst, name) {
			data[name] = sanitizeValue(value)
		}
	}

	return Submission{
		FormID:    formID,
		Data:      data,
		Timestamp: o.now().UTC(),
		UserID:    o.userID,
	}, nil
}

// verbatim reports whether a field keeps its value untouched by sanitising.
// Passwords are submitted exactly as validated.
func verbatim(inst *form.Instance, name string) bool {
	control, ok := inst.Control(name)
	return ok && control.Type == model.FieldTypePassword
}

// Submit builds the payload and hands it to fn.
func Submit(ctx context.Context, inst *form.Instance, fn SubmitFunc, opts ...Option) (Submission, error) {
	if fn == nil {
		return Submission{}, ErrNoSubmitFunc
	}
	sub, err := Build(inst, opts...)
	if err != nil {
		return Submission{}, err
	}
	if err := fn(ctx, sub); err != nil {
		return Submission{}, fmt.Errorf("submission: submit %q: %w", sub.FormID, err)
	}
	resolve(opts).logger.Info("form submitted",
		zap.String("form", sub.FormID),
		zap.Int("fields", len(sub.Data)),
	)
	return sub, nil
}
