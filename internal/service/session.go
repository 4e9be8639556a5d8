package service

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/forecast"
)

// Session holds one dashboard user's product cache and in-flight computation.
type Session struct {
	ID string

	products *forecast.ProductCache

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	lastUsed time.Time
}

func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		products: forecast.NewProductCache(),
		lastUsed: time.Now(),
	}
}

// Products returns the session's product cache.
func (s *Session) Products() *forecast.ProductCache {
	return s.products
}

// Run executes fn as the session's current computation. Starting a new Run cancels
// the previous one; a run that was replaced returns domain.ErrSuperseded instead of its result.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context, products *forecast.ProductCache) (*domain.RecommendationReport, error)) (*domain.RecommendationReport, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	mine := s.seq
	s.cancel = cancel
	s.lastUsed = time.Now()
	s.mu.Unlock()

	report, err := fn(runCtx, s.products)

	s.mu.Lock()
	current := s.seq == mine
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()

	if !current {
		return nil, domain.ErrSuperseded
	}
	return report, err
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// SessionStore keeps sessions by ID and drops the ones idle longer than ttl.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for id, creating it when needed. An empty id yields a
// throwaway session that is not stored.
func (st *SessionStore) Get(id string) *Session {
	if id == "" {
		return NewSession("")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictLocked(time.Now())

	sess, ok := st.sessions[id]
	if !ok {
		sess = NewSession(id)
		st.sessions[id] = sess
		return sess
	}
	sess.touch()
	return sess
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) evictLocked(now time.Time) {
	for id, sess := range st.sessions {
		if now.Sub(sess.idleSince()) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
