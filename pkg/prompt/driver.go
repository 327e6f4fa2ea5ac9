package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a single-line or password prompt. Validate runs on
// every answer before it is accepted; an error is shown and the question
// repeats.
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(answer string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt. Validate only
// applies to multi-select and receives the picked indices.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int
	Help         string
	PageSize     int
	Validate     func(picked []int) error
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(answer string) error
}

// PromptDriver asks questions on behalf of a Filler. A driver that cannot
// validate inline may ignore the Validate hooks: the Filler checks every
// answer again once it is returned.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a driver asking through survey on the process
// terminal. Info messages go to out, or stdout when out is nil. opts apply to
// every question, e.g. survey.WithStdio or survey.WithIcons.
func NewSurveyDriver(out io.Writer, opts ...survey.AskOpt) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out, opts: opts}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	q := &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, q, &answer, textCheck(cfg.Validate, ""))
	return answer, err
}

// Password keeps cfg.Default when the answer is left blank, since survey
// cannot prefill a masked field.
func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	q := &survey.Password{Message: cfg.Message, Help: cfg.Help}
	if err := d.ask(ctx, q, &answer, textCheck(cfg.Validate, cfg.Default)); err != nil {
		return "", err
	}
	if answer == "" {
		answer = cfg.Default
	}
	return answer, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	q := &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, q, &answer, nil)
	return answer, err
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	q := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		q.Default = cfg.Options[cfg.DefaultIndex]
	}
	// survey writes the picked option's index into an int response.
	answer := -1
	if err := d.ask(ctx, q, &answer, nil); err != nil {
		return -1, err
	}
	return answer, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	q := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	var defaults []string
	for _, idx := range cfg.Defaults {
		if idx >= 0 && idx < len(cfg.Options) {
			defaults = append(defaults, cfg.Options[idx])
		}
	}
	if len(defaults) > 0 {
		q.Default = defaults
	}
	var answer []int
	if err := d.ask(ctx, q, &answer, selectionCheck(cfg.Validate)); err != nil {
		return nil, err
	}
	return answer, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	q := &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, q, &answer, textCheck(cfg.Validate, ""))
	return answer, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one question. Ctrl-C surfaces as ErrAborted so callers can save
// what was answered so far.
func (d *surveyDriver) ask(ctx context.Context, q survey.Prompt, response any, check survey.Validator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := d.opts
	if check != nil {
		opts = append(append([]survey.AskOpt(nil), d.opts...), survey.WithValidator(check))
	}
	if err := survey.AskOne(q, response, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func textCheck(fn func(string) error, blank string) survey.Validator {
	if fn == nil {
		return nil
	}
	return func(ans any) error {
		answer, _ := ans.(string)
		if answer == "" {
			answer = blank
		}
		return fn(answer)
	}
}

func selectionCheck(fn func([]int) error) survey.Validator {
	if fn == nil {
		return nil
	}
	return func(ans any) error {
		picked, _ := ans.([]core.OptionAnswer)
		indices := make([]int, 0, len(picked))
		for _, option := range picked {
			indices = append(indices, option.Index)
		}
		return fn(indices)
	}
}
