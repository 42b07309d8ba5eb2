// ABOUTME: Ledger store holding customers, debts, payments and settings
// ABOUTME: Single-writer in-memory source of truth with change subscriptions
package ledger

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Change describes which collections a mutation touched.
type Change struct {
	Customers bool
	Debts     bool
	Payments  bool
	Settings  bool
}

// Store is the authoritative ledger state. All mutations are applied under a
// single write lock and published as a whole; readers never observe a
// half-applied mutation. Create one per process and pass it to consumers.
//
// The store performs no input validation. Callers are expected to run
// ValidateCustomer and ValidateAmount before mutating.
type Store struct {
	mu    sync.RWMutex
	state State

	now    func() time.Time
	newID  func() string
	logger *log.Logger

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the entity id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithState rehydrates the store from a previously persisted state.
func WithState(state State) Option {
	return func(s *Store) { s.state = state.clone() }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store with default reminder settings.
func New(opts ...Option) *Store {
	s := &Store{
		state:  NewState(),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
		subs:   make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies fn under the write lock, then notifies subscribers outside it.
func (s *Store) mutate(fn func(st *State) Change) {
	s.mu.Lock()
	change := fn(&s.state)
	s.mu.Unlock()

	if change == (Change{}) {
		return
	}

	s.subMu.Lock()
	subs := make([]func(Change), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub(change)
	}
}

func (s *Store) read(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// UpdateOption tunes update semantics.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	markPending bool
}

// SkipSync leaves the entity's sync status untouched, so recording an
// outcome through a patch does not re-queue the entity.
func SkipSync() UpdateOption {
	return func(o *updateOptions) { o.markPending = false }
}

func resolveUpdateOptions(opts []UpdateOption) updateOptions {
	o := updateOptions{markPending: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func timePtr(t time.Time) *time.Time {
	return &t
}
