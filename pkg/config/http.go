package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/model"
)

// StatusError reports a non-2xx response from a form endpoint.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("config: GET %s: unexpected status %s", e.URL, e.Status)
}

// HTTPFetcher retrieves forms from an HTTP endpoint at <BaseURL>/<id>.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithHTTPLogger attaches a logger for request tracing.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher builds a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, options ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (model.FormConfig, error) {
	if f.baseURL == "" {
		return model.FormConfig{}, errors.New("config: base url is required")
	}
	if id == "" {
		return model.FormConfig{}, ErrMissingFormID
	}
	target := f.baseURL + "/" + url.PathEscape(id)

	reqCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return model.FormConfig{}, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("form fetch failed", zap.String("url", target), zap.Error(err))
		return model.FormConfig{}, fmt.Errorf("config: GET %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	f.logger.Debug("form fetched",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.FormConfig{}, &StatusError{URL: target, Status: resp.Status, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("config: read %s: %w", target, err)
	}
	forms, err := Parse(data, target)
	if err != nil {
		return model.FormConfig{}, err
	}
	return pick(forms, id, target)
}
