package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/snapshot"
)

func registration(t *testing.T) *form.Instance {
	t.Helper()
	inst, err := form.Assemble(model.FormConfig{
		ID: "registration",
		Sections: []model.SectionConfig{
			{Title: "Personal", Fields: []model.FieldConfig{
				{Name: "firstName", Type: model.FieldTypeText, Required: true},
				{Name: "interests", Type: model.FieldTypeCheckboxGroup},
			}},
			{Title: "Security", Fields: []model.FieldConfig{
				{Name: "password", Type: model.FieldTypePassword, Required: true},
				{Name: "newsletter", Type: model.FieldTypeToggle, Value: true},
			}},
		},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return inst
}

func TestCaptureRestore_FileStore(t *testing.T) {
	ctx := context.Background()
	inst := registration(t)
	inst.Patch(map[string]any{"firstName": "Ada", "interests": []any{"tech", "music"}})

	p := snapshot.Capture(inst)
	if diff := cmp.Diff([]string{"Personal"}, p.CompletedSections); diff != "" {
		t.Fatalf("completed sections mismatch (-want +got):\n%s", diff)
	}

	store := snapshot.NewFileStore(t.TempDir())
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "registration")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(p, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	fresh := registration(t)
	if err := snapshot.Restore(fresh, loaded); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(inst.RawValues(), fresh.RawValues()); diff != "" {
		t.Fatalf("restored values mismatch (-want +got):\n%s", diff)
	}
	if fresh.Dirty("firstName") {
		t.Fatalf("restoring progress must not mark fields dirty")
	}

	if err := store.Delete(ctx, "registration"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "registration"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "registration"); err != nil {
		t.Fatalf("deleting twice should succeed, got %v", err)
	}
}

func TestRestore_FormMismatch(t *testing.T) {
	inst := registration(t)
	err := snapshot.Restore(inst, snapshot.Progress{FormID: "other"})
	if !errors.Is(err, snapshot.ErrFormMismatch) {
		t.Fatalf("expected ErrFormMismatch, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	if _, err := store.Load(ctx, "x"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := snapshot.Progress{FormID: "x", Data: map[string]any{"flag": true, "note": "hi"}}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "x")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(p.Data, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}
