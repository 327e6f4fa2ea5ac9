package config

import (
	"context"
	"errors"

	"github.com/goliatone/go-formengine/pkg/model"
)

var (
	// ErrFormNotFound reports that no form with the requested id exists.
	ErrFormNotFound = errors.New("config: form not found")
	// ErrEmptyDocument reports a document without content.
	ErrEmptyDocument = errors.New("config: document is empty")
	// ErrDuplicateForm reports two forms sharing an id.
	ErrDuplicateForm = errors.New("config: duplicate form id")
	// ErrMissingFormID reports a form declared without an id.
	ErrMissingFormID = errors.New("config: form id is required")
)

// Fetcher retrieves a form configuration by id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (model.FormConfig, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (model.FormConfig, error)

// Fetch implements Fetcher.
func (fn FetcherFunc) Fetch(ctx context.Context, id string) (model.FormConfig, error) {
	return fn(ctx, id)
}
