// Package prompt fills an assembled form interactively on a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often a single field is re-prompted after a
// validation failure. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxAttempts = n
		}
	}
}

// Filler walks a form section by section and prompts for every visible,
// enabled field.
type Filler struct {
	driver      PromptDriver
	logger      *zap.Logger
	maxAttempts int
}

// NewFiller builds a Filler. Without WithDriver it prompts on the terminal
// through survey.
func NewFiller(options ...Option) *Filler {
	f := &Filler{logger: zap.NewNop(), maxAttempts: 5}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill prompts for each field in section and field order, re-evaluating
// visibility after every answer. Answers are checked against the field
// validators inside the driver and again once returned, so a field is asked
// until it passes. Cross-field failures re-prompt the field they are
// attributed to. The instance keeps every answer given before an error, so an
// aborted fill can still be saved.
func (f *Filler) Fill(ctx context.Context, inst *form.Instance) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	cfg := inst.Config()
	if cfg.Title != "" {
		if err := f.driver.Info(ctx, cfg.Title); err != nil {
			return err
		}
	}

	for _, section := range orderedSections(cfg) {
		if err := f.driver.Info(ctx, "== "+section.Title+" =="); err != nil {
			return err
		}
		for _, field := range section.OrderedFields() {
			if err := f.fillField(ctx, inst, field); err != nil {
				return err
			}
		}
		if cfg.ShowProgressBar {
			if err := f.driver.Info(ctx, fmt.Sprintf("Progress: %d%%", inst.Progress())); err != nil {
				return err
			}
		}
	}

	for round := 0; ; round++ {
		failures := inst.ValidateForm()
		if len(failures) == 0 {
			return nil
		}
		if f.maxAttempts > 0 && round >= f.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, failures[0].Field)
		}
		for _, failure := range failures {
			_ = f.driver.Info(ctx, "  ! "+failure.Message)
			field, ok := cfg.Field(failure.Field)
			if !ok {
				continue
			}
			if err := f.fillField(ctx, inst, field); err != nil {
				return err
			}
		}
	}
}

func (f *Filler) fillField(ctx context.Context, inst *form.Instance, field model.FieldConfig) error {
	control, ok := inst.Control(field.Name)
	if !ok || control.Disabled || !inst.Visible(field.Name) {
		return nil
	}

	attempts := 0
	// check runs inside the driver. Once attempts are exhausted it lets the
	// answer through so the failure below can end the fill.
	check := func(value any) error {
		failure := inst.Check(field.Name, value)
		if failure == nil {
			return nil
		}
		attempts++
		f.rejected(field.Name, failure, attempts)
		if f.exhausted(attempts) {
			return nil
		}
		return errors.New(failure.Message)
	}

	for {
		current, _ := inst.Value(field.Name)
		value, err := f.ask(ctx, field, current, check)
		if err != nil {
			return err
		}
		if err := inst.SetValue(field.Name, value); err != nil {
			return err
		}
		inst.Touch(field.Name)

		failures := inst.Errors(field.Name)
		if len(failures) == 0 {
			return nil
		}
		if !f.exhausted(attempts) {
			attempts++
			f.rejected(field.Name, &failures[0], attempts)
			if err := f.driver.Info(ctx, "  ! "+failures[0].Message); err != nil {
				return err
			}
		}
		if f.exhausted(attempts) {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

func (f *Filler) exhausted(attempts int) bool {
	return f.maxAttempts > 0 && attempts >= f.maxAttempts
}

func (f *Filler) rejected(name string, failure *validation.Failure, attempt int) {
	f.logger.Debug("answer rejected",
		zap.String("field", name),
		zap.String("rule", string(failure.Kind)),
		zap.Int("attempt", attempt),
	)
}

const notANumber = "Please enter a number"

func (f *Filler) ask(ctx context.Context, field model.FieldConfig, current any, check func(any) error) (any, error) {
	label := displayLabel(field)
	help := field.Hint
	checkText := func(answer string) error { return check(answer) }

	switch field.Type {
	case model.FieldTypeCheckbox, model.FieldTypeToggle:
		b, _ := current.(bool)
		return f.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: b, Help: help})

	case model.FieldTypeSelect, model.FieldTypeRadio:
		options := enabledOptions(field.Options)
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      optionLabels(options),
			DefaultIndex: optionIndex(options, current),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, nil
		}
		return options[idx].Value, nil

	case model.FieldTypeCheckboxGroup:
		options := enabledOptions(field.Options)
		var defaults []int
		if list, ok := coerce.List(current); ok {
			for _, v := range list {
				if idx := optionIndex(options, v); idx >= 0 {
					defaults = append(defaults, idx)
				}
			}
		}
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(options),
			Defaults: defaults,
			Help:     help,
			Validate: func(picked []int) error { return check(pickedValues(options, picked)) },
		})
		if err != nil {
			return nil, err
		}
		return pickedValues(options, picked), nil

	case model.FieldTypeNumber:
		def := ""
		if current != nil {
			def = coerce.String(current)
		}
		return f.askParsed(ctx, InputConfig{Message: label, Default: def, Help: help}, parseNumber, check)

	case model.FieldTypePassword:
		return f.driver.Password(ctx, InputConfig{Message: label, Default: coerce.String(current), Help: help, Validate: checkText})

	case model.FieldTypeTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: coerce.String(current), Help: help, Validate: checkText})

	case model.FieldTypeFile:
		var def string
		if files := validation.Files(current); len(files) > 0 {
			def = files[0].Name
		}
		return f.askParsed(ctx, InputConfig{Message: label + " (path)", Default: def, Help: help}, parseFile, check)

	default:
		return f.driver.Input(ctx, InputConfig{Message: label, Default: coerce.String(current), Help: help, Validate: checkText})
	}
}

// askParsed asks for text that must be converted before it can be checked.
// Conversion errors are repeated here for drivers that skip Validate.
func (f *Filler) askParsed(ctx context.Context, cfg InputConfig, parse func(string) (any, error), check func(any) error) (any, error) {
	cfg.Validate = func(answer string) error {
		value, err := parse(answer)
		if err != nil {
			return err
		}
		return check(value)
	}
	for {
		raw, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return nil, err
		}
		value, err := parse(raw)
		if err == nil {
			return value, nil
		}
		if err := f.driver.Info(ctx, "  ! "+err.Error()); err != nil {
			return nil, err
		}
	}
}

func parseNumber(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(notANumber)
	}
	return n, nil
}

// parseFile turns a path into a file descriptor carrying its size and the
// MIME type registered for its extension.
func parseFile(raw string) (any, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return []any{}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return []any{validation.File{
		Name: path,
		Size: info.Size(),
		Type: mime.TypeByExtension(filepath.Ext(path)),
	}}, nil
}

func pickedValues(options []model.FieldOption, picked []int) []any {
	out := make([]any, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx].Value)
		}
	}
	return out
}

func orderedSections(cfg model.FormConfig) []model.SectionConfig {
	out := append([]model.SectionConfig(nil), cfg.Sections...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

func displayLabel(field model.FieldConfig) string {
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	if field.Required {
		label += " *"
	}
	return label
}

func enabledOptions(options []model.FieldOption) []model.FieldOption {
	out := make([]model.FieldOption, 0, len(options))
	for _, opt := range options {
		if !opt.Disabled {
			out = append(out, opt)
		}
	}
	return out
}

func optionLabels(options []model.FieldOption) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
		if out[i] == "" {
			out[i] = coerce.String(opt.Value)
		}
	}
	return out
}

func optionIndex(options []model.FieldOption, value any) int {
	if value == nil {
		return -1
	}
	for i, opt := range options {
		if coerce.StrictEqual(opt.Value, value) {
			return i
		}
	}
	return -1
}
