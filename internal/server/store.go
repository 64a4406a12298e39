package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/session"
)

// Session is one browser's state. Its mutex serializes every request of
// the session, so a session is recomputed by one request at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	state    *session.State
	report   *crispdm.Report
	lastSeen time.Time
}

// Store holds sessions in memory and drops those idle for longer than ttl.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	newState func() *session.State
	now      func() time.Time
}

// NewStore returns an empty store. newState builds the state of each new
// session.
func NewStore(ttl time.Duration, newState func() *session.State) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newState: newState,
		now:      time.Now,
	}
}

// Get returns the session for id, creating one with a fresh id when id is
// empty or unknown. created reports whether a new session was made.
func (s *Store) Get(id string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastSeen = now
		return sess, false
	}

	s.sweepLocked(now)

	sess = &Session{
		ID:       uuid.NewString(),
		state:    s.newState(),
		lastSeen: now,
	}
	s.sessions[sess.ID] = sess
	activeSessions.Set(float64(len(s.sessions)))
	return sess, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// analysis refreshes the session's dataset for p and returns the matching
// report, rebuilding it only when a new dataset was drawn. The caller holds
// sess.mu.
func (sess *Session) analysis(p datasets.Params, opts crispdm.ReportOptions) (*crispdm.Report, error) {
	ds, regenerated, err := sess.state.Refresh(p)
	if err != nil {
		return nil, err
	}
	if regenerated {
		regenerationTotal.WithLabelValues(boolLabel(ds.Seeded)).Inc()
	}
	if !regenerated && sess.report != nil {
		return sess.report, nil
	}

	start := time.Now()
	r, err := crispdm.BuildReport(p, ds, opts)
	fitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		fitTotal.WithLabelValues("error").Inc()
		sess.report = nil
		return nil, err
	}
	fitTotal.WithLabelValues("ok").Inc()

	sess.report = r
	return r, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
