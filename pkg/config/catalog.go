package config

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Catalog is an in-memory set of forms keyed by id.
type Catalog struct {
	forms   map[string]model.FormConfig
	sources map[string]string
}

var _ Fetcher = (*Catalog)(nil)

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A form id
// declared twice, in one file or across files, is an error. Decorators run on
// each form after parsing.
func LoadFS(fsys fs.FS, decorators ...model.Decorator) (*Catalog, error) {
	catalog := &Catalog{
		forms:   make(map[string]model.FormConfig),
		sources: make(map[string]string),
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if err := catalog.add(form, path, decorators); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *Catalog) add(form model.FormConfig, source string, decorators []model.Decorator) error {
	if first, exists := c.sources[form.ID]; exists {
		return fmt.Errorf("%w %q (file %s, first declared in %s)", ErrDuplicateForm, form.ID, source, first)
	}
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			return fmt.Errorf("config: decorate %q: %w", form.ID, err)
		}
	}
	c.forms[form.ID] = form
	c.sources[form.ID] = source
	return nil
}

// Fetch implements Fetcher.
func (c *Catalog) Fetch(ctx context.Context, id string) (model.FormConfig, error) {
	select {
	case <-ctx.Done():
		return model.FormConfig{}, ctx.Err()
	default:
	}
	form, ok := c.Form(id)
	if !ok {
		return model.FormConfig{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return form, nil
}

// Form returns the form registered under id.
func (c *Catalog) Form(id string) (model.FormConfig, bool) {
	if c == nil {
		return model.FormConfig{}, false
	}
	form, ok := c.forms[id]
	return form, ok
}

// Source returns the file a form was loaded from.
func (c *Catalog) Source(id string) string {
	if c == nil {
		return ""
	}
	return c.sources[id]
}

// IDs lists the catalogue ids in lexical order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.forms))
	for id := range c.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of forms.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.forms)
}

func isFormFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
