package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
)

// EnvUpdateGoldens rewrites golden files instead of comparing against them.
const EnvUpdateGoldens = "UPDATE_GOLDENS"

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustEmbeddedForm returns a form from the embedded catalogue.
func MustEmbeddedForm(t *testing.T, id string) model.FormConfig {
	t.Helper()

	catalog, err := config.Embedded()
	if err != nil {
		t.Fatalf("load embedded catalogue: %v", err)
	}
	cfg, err := catalog.Fetch(Context(), id)
	if err != nil {
		t.Fatalf("fetch %q: %v", id, err)
	}
	return cfg
}

// MustAssemble assembles cfg or fails the test.
func MustAssemble(t *testing.T, cfg model.FormConfig, opts ...form.Option) *form.Instance {
	t.Helper()

	inst, err := form.Assemble(cfg, opts...)
	if err != nil {
		t.Fatalf("assemble %q: %v", cfg.ID, err)
	}
	return inst
}

// MustEmbeddedInstance assembles a form from the embedded catalogue.
func MustEmbeddedInstance(t *testing.T, id string, opts ...form.Option) *form.Instance {
	t.Helper()
	return MustAssemble(t, MustEmbeddedForm(t, id), opts...)
}

// LoadFormConfig reads a JSON or YAML form file holding exactly one form,
// returning an error for callers managing setup outside of *testing.T.
func LoadFormConfig(path string) (model.FormConfig, error) {
	if path == "" {
		return model.FormConfig{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	forms, err := config.Parse(data, path)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("testsupport: parse form: %w", err)
	}
	if len(forms) != 1 {
		return model.FormConfig{}, fmt.Errorf("testsupport: %s holds %d forms, want 1", path, len(forms))
	}
	return forms[0], nil
}

// MustLoadFormConfig is LoadFormConfig for tests.
func MustLoadFormConfig(t *testing.T, path string) model.FormConfig {
	t.Helper()

	cfg, err := LoadFormConfig(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return cfg
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv(EnvUpdateGoldens) == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareJSONGolden marshals got and compares it with the JSON golden at
// path. Both sides are decoded into generic values first so formatting and
// numeric types do not cause spurious diffs. The returned string is empty when
// they match.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	payload, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden value: %v", err)
	}
	if WriteMaybeGolden(t, path, append(payload, '\n')) {
		return ""
	}

	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	return cmp.Diff(want, have)
}
