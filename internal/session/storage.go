package session

import (
	"context"
	"sync"
	"time"

	"edalens/domain/core"
	"edalens/domain/dataset"
	"edalens/internal"
)

// Store keeps sessions in memory and forgets them after an idle TTL
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *internal.Logger
	onResize func(n int)
}

// Option customizes a Store
type Option func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithResizeHook is called with the session count after every create or delete
func WithResizeHook(fn func(n int)) Option {
	return func(s *Store) { s.onResize = fn }
}

// NewStore creates an empty store
func NewStore(ttl time.Duration, logger *internal.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &Store{
		sessions: make(map[core.SessionID]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		onResize: func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Touch returns the session for id, creating an empty one if it is unknown, and refreshes its idle clock
func (s *Store) Touch(id core.SessionID) Session {
	s.mu.Lock()
	sess, created := s.getOrCreateLocked(id)
	sess.LastSeen = s.now()
	snapshot := *sess
	n := len(s.sessions)
	s.mu.Unlock()

	if created {
		s.logger.Debug("[Session] Created %s", id)
		s.onResize(n)
	}
	return snapshot
}

// Get returns a snapshot of the session without creating or refreshing it
func (s *Store) Get(id core.SessionID) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Load replaces whatever the session held with a freshly parsed table
func (s *Store) Load(id core.SessionID, fileName string, fingerprint core.Hash, table *dataset.Table) Session {
	return s.update(id, func(sess *Session, now time.Time) {
		sess.State = StateLoaded
		sess.Table = table
		sess.FileName = fileName
		sess.Fingerprint = fingerprint
		sess.Err = ""
		sess.LoadedAt = now
	})
}

// Fail records a rejected upload; any previously loaded table is dropped
func (s *Store) Fail(id core.SessionID, fileName string, message string) Session {
	return s.update(id, func(sess *Session, _ time.Time) {
		sess.State = StateError
		sess.Table = nil
		sess.FileName = fileName
		sess.Fingerprint = ""
		sess.Err = message
		sess.LoadedAt = time.Time{}
	})
}

// Reset discards the session entirely
func (s *Store) Reset(id core.SessionID) {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if existed {
		s.logger.Debug("[Session] Reset %s", id)
		s.onResize(n)
	}
}

// Len counts live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many it removed
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("[Session] Swept %d idle sessions (%d remaining)", removed, n)
		s.onResize(n)
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) update(id core.SessionID, apply func(sess *Session, now time.Time)) Session {
	s.mu.Lock()
	sess, created := s.getOrCreateLocked(id)
	now := s.now()
	apply(sess, now)
	sess.LastSeen = now
	snapshot := *sess
	n := len(s.sessions)
	s.mu.Unlock()

	if created {
		s.onResize(n)
	}
	return snapshot
}

func (s *Store) getOrCreateLocked(id core.SessionID) (*Session, bool) {
	if sess, ok := s.sessions[id]; ok {
		return sess, false
	}
	sess := &Session{ID: id, State: StateEmpty}
	s.sessions[id] = sess
	return sess, true
}
