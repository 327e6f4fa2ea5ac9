package session

import (
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/snapshot"
	"github.com/goliatone/go-formengine/pkg/submission"
)

// Status is the lifecycle stage of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// State is an immutable view of a session. Instance must be treated as
// read-only by holders of a State; transitions work on clones.
type State struct {
	Status     Status
	FormID     string
	Instance   *form.Instance
	Progress   int
	Err        error
	Submission *submission.Submission
}

// Action is one of the variants declared in this package.
type Action interface {
	isAction()
}

// LoadRequested starts fetching a form.
type LoadRequested struct{ FormID string }

// LoadSucceeded carries the assembled instance for FormID.
type LoadSucceeded struct {
	FormID   string
	Instance *form.Instance
}

// LoadFailed reports a fetch or assembly failure.
type LoadFailed struct {
	FormID string
	Err    error
}

// FieldChanged records a user edit.
type FieldChanged struct {
	Name  string
	Value any
}

// ProgressRestored patches saved values into the form. It is ignored once the
// form has been edited.
type ProgressRestored struct{ Progress snapshot.Progress }

// FormReset restores every field default.
type FormReset struct{}

// SubmitRequested asks for the current values to be submitted.
type SubmitRequested struct{}

// SubmitSucceeded reports an accepted submission.
type SubmitSucceeded struct{ Submission submission.Submission }

// SubmitFailed reports a rejected submission, either invalid input or a
// failing backend.
type SubmitFailed struct{ Err error }

func (LoadRequested) isAction()    {}
func (LoadSucceeded) isAction()    {}
func (LoadFailed) isAction()       {}
func (FieldChanged) isAction()     {}
func (ProgressRestored) isAction() {}
func (FormReset) isAction()        {}
func (SubmitRequested) isAction()  {}
func (SubmitSucceeded) isAction()  {}
func (SubmitFailed) isAction()     {}
