package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formengine/pkg/model"
)

// FileFetcher reads forms from a single document on disk. The file is read on
// every Fetch so edits are picked up without a restart.
type FileFetcher struct {
	Path string
}

var _ Fetcher = FileFetcher{}

// Fetch implements Fetcher.
func (f FileFetcher) Fetch(ctx context.Context, id string) (model.FormConfig, error) {
	if f.Path == "" {
		return model.FormConfig{}, fmt.Errorf("config: file path is required")
	}
	select {
	case <-ctx.Done():
		return model.FormConfig{}, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return model.FormConfig{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("config: read %s: %w", f.Path, err)
	}
	forms, err := Parse(data, f.Path)
	if err != nil {
		return model.FormConfig{}, err
	}
	return pick(forms, id, f.Path)
}

// pick selects id from forms. An empty id selects the only form of a
// single-form document.
func pick(forms []model.FormConfig, id, source string) (model.FormConfig, error) {
	if id == "" && len(forms) == 1 {
		return forms[0], nil
	}
	for _, form := range forms {
		if form.ID == id {
			return form, nil
		}
	}
	return model.FormConfig{}, fmt.Errorf("%w: %q in %s", ErrFormNotFound, id, source)
}
