// Package snapshot saves and restores partially completed forms so a user can
// resume later. Snapshots are encoded with MessagePack.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-formengine/pkg/form"
)

var (
	// ErrNotFound reports that no snapshot exists for a form.
	ErrNotFound = errors.New("snapshot: not found")
	// ErrFormMismatch reports a snapshot restored into a different form.
	ErrFormMismatch = errors.New("snapshot: form id mismatch")
)

// Progress is the saved state of a partially completed form.
type Progress struct {
	FormID            string         `msgpack:"formId" json:"formId"`
	Data              map[string]any `msgpack:"data" json:"data"`
	CompletedSections []string       `msgpack:"completedSections" json:"completedSections"`
	LastUpdated       time.Time      `msgpack:"lastUpdated" json:"lastUpdated"`
}

// Capture records the current values of inst, including disabled fields.
func Capture(inst *form.Instance) Progress {
	cfg := inst.Config()
	values := inst.RawValues()
	return Progress{
		FormID:            cfg.ID,
		Data:              values,
		CompletedSections: form.CompletedSections(cfg, values),
		LastUpdated:       time.Now().UTC(),
	}
}

// Restore patches the saved values into inst. Keys that no longer name a
// field are ignored, so snapshots survive configuration changes.
func Restore(inst *form.Instance, p Progress) error {
	if id := inst.Config().ID; p.FormID != id {
		return fmt.Errorf("%w: snapshot %q, form %q", ErrFormMismatch, p.FormID, id)
	}
	inst.Patch(p.Data)
	return nil
}

// Encode serialises p.
func Encode(p Progress) ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode %q: %w", p.FormID, err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode. Integers decode as int64 or
// uint64 and maps as map[string]any.
func Decode(data []byte) (Progress, error) {
	var p Progress
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&p); err != nil {
		return Progress{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return p, nil
}
