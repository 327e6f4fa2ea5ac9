package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

var ErrEmptyDocument = errors.New("openapi: document payload is empty")

// ReadOptions configures ReadDocument.
type ReadOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

// ReadOption mutates ReadOptions.
type ReadOption func(*ReadOptions)

// WithHTTPClient injects the client used for http(s) locations.
func WithHTTPClient(client *http.Client) ReadOption {
	return func(opts *ReadOptions) {
		opts.HTTPClient = client
	}
}

// WithReadTimeout caps remote fetch durations.
func WithReadTimeout(timeout time.Duration) ReadOption {
	return func(opts *ReadOptions) {
		opts.Timeout = timeout
	}
}

// ReadDocument returns the raw bytes of the OpenAPI document at location,
// which is either a file path or an http(s) URL.
func ReadDocument(ctx context.Context, location string, options ...ReadOption) ([]byte, error) {
	opts := ReadOptions{Timeout: 10 * time.Second}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}

	if isRemote(location) {
		return readHTTP(ctx, location, opts)
	}
	return readFile(ctx, location)
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	return data, nil
}

func readHTTP(ctx context.Context, location string, opts ReadOptions) ([]byte, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi: fetch %s: unexpected status %s", location, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openapi: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, location)
	}
	return data, nil
}
