package store

import (
	"sync"

	"github.com/go-logr/logr"
)

// Store owns the entity state. Mutations are applied one at a time; readers get immutable snapshots.
type Store struct {
	mu    sync.RWMutex
	state State

	logger *logr.Logger
}

func New() *Store {
	return &Store{
		state: NewState(),
	}
}

func (s *Store) WithLogger(logger logr.Logger) *Store {
	s.logger = &logger

	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Store) Version() uint64 {
	return s.State().Version()
}

// Apply runs the mutations in order, atomically, and reports whether any of them changed the state.
func (s *Store) Apply(mutations ...Mutation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false

	for _, mutation := range mutations {
		next, ok := mutation.Apply(s.state)
		if !ok {
			s.logInfo(2, "Mutation is a no-op", "mutation", mutation.Name, "key", mutation.Key)

			continue
		}

		s.logInfo(3, "Mutation applied", "mutation", mutation.Name, "key", mutation.Key, "version", next.Version())

		s.state = next
		changed = true
	}

	return changed
}

func (s *Store) logInfo(level int, msg string, keysAndValues ...any) {
	if s.logger == nil {
		return
	}

	s.logger.V(level).Info(msg, keysAndValues...)
}
