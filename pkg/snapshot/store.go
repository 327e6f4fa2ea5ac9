package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store persists snapshots keyed by form id.
type Store interface {
	Save(ctx context.Context, p Progress) error
	Load(ctx context.Context, formID string) (Progress, error)
	Delete(ctx context.Context, formID string) error
}

// FileStore keeps one file per form under a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

var _ Store = (*FileStore)(nil)

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) FileStoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first Save.
func NewFileStore(dir string, options ...FileStoreOption) *FileStore {
	s := &FileStore{dir: dir, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Path returns the file a form's snapshot is stored in.
func (s *FileStore) Path(formID string) string {
	return filepath.Join(s.dir, url.PathEscape(formID)+".msgpack")
}

// Save writes p, replacing any previous snapshot atomically.
func (s *FileStore) Save(ctx context.Context, p Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.FormID == "" {
		return errors.New("snapshot: form id is required")
	}
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: save %q: %w", p.FormID, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("snapshot: save %q: %w", p.FormID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: save %q: %w", p.FormID, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(p.FormID)); err != nil {
		return fmt.Errorf("snapshot: save %q: %w", p.FormID, err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("form", p.FormID),
		zap.Int("fields", len(p.Data)),
	)
	return nil
}

// Load reads the snapshot for formID.
func (s *FileStore) Load(ctx context.Context, formID string) (Progress, error) {
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}
	data, err := os.ReadFile(s.Path(formID))
	if errors.Is(err, fs.ErrNotExist) {
		return Progress{}, fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	if err != nil {
		return Progress{}, fmt.Errorf("snapshot: load %q: %w", formID, err)
	}
	return Decode(data)
}

// Delete removes the snapshot for formID. Deleting a missing snapshot is not
// an error.
func (s *FileStore) Delete(ctx context.Context, formID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path(formID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("snapshot: delete %q: %w", formID, err)
	}
	return nil
}

// MemoryStore keeps encoded snapshots in memory. It is safe for concurrent
// use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, p Progress) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[p.FormID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, formID string) (Progress, error) {
	s.mu.RLock()
	data, ok := s.items[formID]
	s.mu.RUnlock()
	if !ok {
		return Progress{}, fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	return Decode(data)
}

func (s *MemoryStore) Delete(_ context.Context, formID string) error {
	s.mu.Lock()
	delete(s.items, formID)
	s.mu.Unlock()
	return nil
}
