package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/model"
)

var (
	ErrOperationNotFound = errors.New("openapi: operation not found")
	ErrNoRequestBody     = errors.New("openapi: operation has no request body schema")
	ErrNotObject         = errors.New("openapi: request body schema is not an object")
)

// Operation summarises one operation of a document.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody *openapi3.SchemaRef
}

// Option configures the conversion.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	resolveExternal bool
	validate        bool
}

// WithLogger attaches a logger that reports skipped properties.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExternalRefs allows $ref values that point outside the document.
func WithExternalRefs() Option {
	return func(o *options) {
		o.resolveExternal = true
	}
}

// WithValidation validates the document before conversion.
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Operations lists every operation in the document keyed by operationId.
// Operations without an id are keyed as "<method>:<path>" in lower case.
func Operations(ctx context.Context, raw []byte, opts ...Option) (map[string]Operation, error) {
	doc, err := load(ctx, raw, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return collectOperations(doc), nil
}

// FormFromOperation derives a form configuration from the request body of
// the operation with the given id. The form id is the operation id; its title
// is the operation summary when present.
func FormFromOperation(ctx context.Context, raw []byte, operationID string, opts ...Option) (model.FormConfig, error) {
	o := newOptions(opts)
	doc, err := load(ctx, raw, o)
	if err != nil {
		return model.FormConfig{}, err
	}

	op, ok := collectOperations(doc)[operationID]
	if !ok {
		return model.FormConfig{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return model.FormConfig{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	cfg, err := newConverter(o.logger).form(op)
	if err != nil {
		return model.FormConfig{}, err
	}
	if err := model.Check(cfg); err != nil {
		return model.FormConfig{}, err
	}
	return cfg, nil
}

func load(ctx context.Context, raw []byte, o options) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: o.resolveExternal,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if o.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

var methods = []string{
	http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
	http.MethodPatch, http.MethodHead, http.MethodOptions, http.MethodTrace,
}

func collectOperations(doc *openapi3.T) map[string]Operation {
	out := make(map[string]Operation)
	if doc.Paths == nil {
		return out
	}

	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range methods {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out[id] = Operation{
				ID:          id,
				Method:      method,
				Path:        path,
				Summary:     operation.Summary,
				Description: operation.Description,
				RequestBody: requestSchema(operation.RequestBody),
			}
		}
	}
	return out
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}
