package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/snapshot"
	"github.com/goliatone/go-formengine/pkg/submission"
)

var (
	// ErrStopped is returned by Dispatch once the store has stopped.
	ErrStopped = errors.New("session: store stopped")
	// ErrAlreadyRunning is returned by every call to Run after the first.
	ErrAlreadyRunning = errors.New("session: store already running")
)

// Option configures a Store.
type Option func(*Store)

// WithSubmitFunc sets the callback that persists submissions.
func WithSubmitFunc(fn submission.SubmitFunc) Option {
	return func(s *Store) { s.submit = fn }
}

// WithSnapshots enables saved progress for forms that allow it: progress is
// restored after load, saved after each edit and dropped after a successful
// submit.
func WithSnapshots(store snapshot.Store) Option {
	return func(s *Store) { s.snapshots = store }
}

// WithFormOptions forwards options to form.Assemble.
func WithFormOptions(opts ...form.Option) Option {
	return func(s *Store) { s.formOpts = append(s.formOpts, opts...) }
}

// WithSubmissionOptions forwards options to submission.Submit.
func WithSubmissionOptions(opts ...submission.Option) Option {
	return func(s *Store) { s.subOpts = append(s.subOpts, opts...) }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns a session State. Dispatch is safe from any goroutine; state
// transitions happen only on the goroutine running Run.
type Store struct {
	fetcher   config.Fetcher
	submit    submission.SubmitFunc
	snapshots snapshot.Store
	formOpts  []form.Option
	subOpts   []submission.Option
	logger    *zap.Logger

	actions chan Action
	done    chan struct{}
	effects sync.WaitGroup
	started sync.Once

	// Snapshot work is applied by a single worker. restores run before
	// writes; writes keep only the latest pending one per form, nil meaning
	// delete.
	pendingMu sync.Mutex
	restores  []string
	writes    map[string]*snapshot.Progress
	wake      chan struct{}

	mu     sync.RWMutex
	state  State
	subs   map[int]chan State
	nextID int
}

// NewStore builds an idle store that loads forms through fetcher.
func NewStore(fetcher config.Fetcher, options ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		logger:  zap.NewNop(),
		actions: make(chan Action, 64),
		done:    make(chan struct{}),
		writes:  make(map[string]*snapshot.Progress),
		wake:    make(chan struct{}, 1),
		state:   State{Status: StatusIdle},
		subs:    make(map[int]chan State),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the latest state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel receiving every new state and a function that
// cancels the subscription. Slow subscribers only see the most recent state.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch queues an action.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	select {
	case <-s.done:
		return ErrStopped
	default:
	}
	select {
	case s.actions <- a:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes actions until ctx is cancelled, then waits for in-flight
// effects and pending snapshot writes to finish. A store runs once.
func (s *Store) Run(ctx context.Context) error {
	first := false
	s.started.Do(func() { first = true })
	if !first {
		return ErrAlreadyRunning
	}

	s.effects.Add(1)
	go s.persist(ctx)

	defer func() {
		close(s.done)
		s.effects.Wait()
		s.mu.Lock()
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-s.actions:
			s.apply(ctx, a)
		}
	}
}

func (s *Store) apply(ctx context.Context, a Action) {
	prev := s.State()
	next := Reduce(prev, a)

	s.mu.Lock()
	s.state = next
	for _, ch := range s.subs {
		publish(ch, next)
	}
	s.mu.Unlock()

	if prev.Status != next.Status {
		s.logger.Debug("session transition",
			zap.String("form", next.FormID),
			zap.String("from", string(prev.Status)),
			zap.String("to", string(next.Status)),
			zap.String("action", fmt.Sprintf("%T", a)),
		)
	}
	s.runEffects(ctx, prev, next, a)
}

func publish(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}

func (s *Store) runEffects(ctx context.Context, prev, next State, a Action) {
	switch action := a.(type) {
	case LoadRequested:
		s.spawn(ctx, func() Action { return s.load(ctx, action.FormID) })

	case LoadSucceeded:
		if next.Status == StatusReady && prev.Status == StatusLoading && s.snapshotsEnabled(next) {
			s.queueRestore(next.FormID)
		}

	case FieldChanged:
		if next.Instance != prev.Instance && s.snapshotsEnabled(next) {
			p := snapshot.Capture(next.Instance)
			s.queueWrite(next.FormID, &p)
		}

	case SubmitRequested:
		if next.Status != StatusSubmitting {
			return
		}
		inst := next.Instance.Clone()
		s.spawn(ctx, func() Action {
			sub, err := submission.Submit(ctx, inst, s.submitFunc(), s.subOpts...)
			if err != nil {
				return SubmitFailed{Err: err}
			}
			return SubmitSucceeded{Submission: sub}
		})

	case SubmitSucceeded:
		if next.Status == StatusSubmitted && s.snapshotsEnabled(next) {
			s.queueWrite(next.FormID, nil)
		}
	}
}

func (s *Store) snapshotsEnabled(st State) bool {
	return s.snapshots != nil && st.Instance != nil && st.Instance.Config().AllowSaveProgress
}

func (s *Store) submitFunc() submission.SubmitFunc {
	if s.submit != nil {
		return s.submit
	}
	return func(context.Context, submission.Submission) error { return nil }
}

func (s *Store) load(ctx context.Context, formID string) Action {
	if s.fetcher == nil {
		return LoadFailed{FormID: formID, Err: errors.New("session: fetcher is nil")}
	}
	cfg, err := s.fetcher.Fetch(ctx, formID)
	if err != nil {
		s.logger.Warn("form load failed", zap.String("form", formID), zap.Error(err))
		return LoadFailed{FormID: formID, Err: err}
	}
	inst, err := form.Assemble(cfg, s.formOpts...)
	if err != nil {
		s.logger.Warn("form assembly failed", zap.String("form", formID), zap.Error(err))
		return LoadFailed{FormID: formID, Err: err}
	}
	return LoadSucceeded{FormID: formID, Instance: inst}
}

func (s *Store) queueRestore(formID string) {
	s.pendingMu.Lock()
	s.restores = append(s.restores, formID)
	s.pendingMu.Unlock()
	s.signal()
}

func (s *Store) queueWrite(formID string, p *snapshot.Progress) {
	s.pendingMu.Lock()
	s.writes[formID] = p
	s.pendingMu.Unlock()
	s.signal()
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// persist is the only goroutine touching the snapshot store, so a slow write
// can never land after a newer one. Pending writes are flushed on stop.
func (s *Store) persist(ctx context.Context) {
	defer s.effects.Done()
	for {
		select {
		case <-s.wake:
			s.flush(ctx)
		case <-s.done:
			s.flush(context.WithoutCancel(ctx))
			return
		}
	}
}

func (s *Store) flush(ctx context.Context) {
	s.pendingMu.Lock()
	restores := s.restores
	s.restores = nil
	ids := make([]string, 0, len(s.writes))
	for id := range s.writes {
		ids = append(ids, id)
	}
	writes := s.writes
	s.writes = make(map[string]*snapshot.Progress)
	s.pendingMu.Unlock()
	sort.Strings(ids)

	for _, formID := range restores {
		if a := s.restore(ctx, formID); a != nil {
			s.post(ctx, a)
		}
	}
	for _, formID := range ids {
		if p := writes[formID]; p != nil {
			if err := s.snapshots.Save(ctx, *p); err != nil {
				s.logger.Warn("snapshot save failed", zap.String("form", formID), zap.Error(err))
			}
			continue
		}
		if err := s.snapshots.Delete(ctx, formID); err != nil {
			s.logger.Warn("snapshot delete failed", zap.String("form", formID), zap.Error(err))
		}
	}
}

func (s *Store) restore(ctx context.Context, formID string) Action {
	p, err := s.snapshots.Load(ctx, formID)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			s.logger.Warn("snapshot load failed", zap.String("form", formID), zap.Error(err))
		}
		return nil
	}
	return ProgressRestored{Progress: p}
}

// spawn runs fn as an effect and dispatches the action it returns, if any.
func (s *Store) spawn(ctx context.Context, fn func() Action) {
	s.effects.Add(1)
	go func() {
		defer s.effects.Done()
		if a := fn(); a != nil {
			s.post(ctx, a)
		}
	}()
}

func (s *Store) post(ctx context.Context, a Action) {
	select {
	case s.actions <- a:
	case <-s.done:
	case <-ctx.Done():
	}
}
