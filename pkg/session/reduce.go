package session

import (
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/snapshot"
)

// Reduce returns the state that follows s after a. It never mutates s or the
// instance it holds. Actions that do not apply to the current status, such as
// an edit while loading or a stale load result, leave the state unchanged.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case LoadRequested:
		return State{Status: StatusLoading, FormID: action.FormID}

	case LoadSucceeded:
		if s.Status != StatusLoading || action.FormID != s.FormID || action.Instance == nil {
			return s
		}
		return State{
			Status:   StatusReady,
			FormID:   s.FormID,
			Instance: action.Instance,
			Progress: action.Instance.Progress(),
		}

	case LoadFailed:
		if s.Status != StatusLoading || action.FormID != s.FormID {
			return s
		}
		return State{Status: StatusFailed, FormID: s.FormID, Err: action.Err}

	case FieldChanged:
		if !editable(s) {
			return s
		}
		next := s.Instance.Clone()
		if err := next.SetValue(action.Name, action.Value); err != nil {
			return s
		}
		return ready(s, next, nil)

	case ProgressRestored:
		if !editable(s) || !s.Instance.Pristine() {
			return s
		}
		next := s.Instance.Clone()
		if err := snapshot.Restore(next, action.Progress); err != nil {
			return s
		}
		return ready(s, next, nil)

	case FormReset:
		if !editable(s) && s.Status != StatusSubmitted {
			return s
		}
		next := s.Instance.Clone()
		next.Reset()
		return ready(s, next, nil)

	case SubmitRequested:
		if !editable(s) {
			return s
		}
		out := s
		out.Status = StatusSubmitting
		out.Err = nil
		return out

	case SubmitSucceeded:
		if s.Status != StatusSubmitting {
			return s
		}
		sub := action.Submission
		out := s
		out.Status = StatusSubmitted
		out.Submission = &sub
		return out

	case SubmitFailed:
		if s.Status != StatusSubmitting {
			return s
		}
		next := s.Instance.Clone()
		next.MarkAllTouched()
		return ready(s, next, action.Err)
	}
	return s
}

func editable(s State) bool {
	return s.Status == StatusReady && s.Instance != nil
}

func ready(s State, inst *form.Instance, err error) State {
	return State{
		Status:   StatusReady,
		FormID:   s.FormID,
		Instance: inst,
		Progress: inst.Progress(),
		Err:      err,
	}
}
