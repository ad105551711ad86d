package memory

import (
	"context"
	"sync"
	"time"

	"github.com/manas360/practice-api/internal/domain"
)

// SessionStore is the canonical in-memory session repository. It holds
// sessions in insertion order with an id index for O(1) lookup, and lives for
// the process lifetime; there is no delete and no durability.
type SessionStore struct {
	mu       sync.RWMutex
	sessions []domain.Session
	index    map[string]int
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		index: make(map[string]int),
	}
}

// Append inserts a new session, failing on identifier collision
func (s *SessionStore) Append(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[session.ID]; exists {
		return domain.ErrDuplicateID
	}

	s.index[session.ID] = len(s.sessions)
	s.sessions = append(s.sessions, cloneSession(session))
	return nil
}

// Get returns a copy of the session with the given identifier
func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return cloneSession(s.sessions[i]), nil
}

// All returns every session in insertion order. The returned slice and its
// response slices are copies; mutation must go through the update methods.
func (s *SessionStore) All(ctx context.Context) []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = cloneSession(sess)
	}
	return out
}

// UpdateStatus replaces only the status field of the matching session
func (s *SessionStore) UpdateStatus(ctx context.Context, id string, status domain.SessionStatus) (domain.Session, error) {
	return s.update(id, func(sess *domain.Session) {
		sess.Status = status
	})
}

// Reschedule replaces only the start instant of the matching session
func (s *SessionStore) Reschedule(ctx context.Context, id string, date time.Time) (domain.Session, error) {
	return s.update(id, func(sess *domain.Session) {
		sess.Date = date
	})
}

// SetNotes rewrites the clinical notes of the matching session
func (s *SessionStore) SetNotes(ctx context.Context, id string, notes string) (domain.Session, error) {
	return s.update(id, func(sess *domain.Session) {
		sess.ClinicalNotes = notes
	})
}

// SetSummary replaces the AI-generated summary of the matching session
func (s *SessionStore) SetSummary(ctx context.Context, id string, summary string) (domain.Session, error) {
	return s.update(id, func(sess *domain.Session) {
		sess.AISummary = summary
	})
}

// AppendResponse records a patient response on the matching session.
// Responses are append-only; existing entries are never rewritten.
func (s *SessionStore) AppendResponse(ctx context.Context, id string, resp domain.SessionResponse) (domain.Session, error) {
	return s.update(id, func(sess *domain.Session) {
		sess.PatientResponses = append(sess.PatientResponses, resp)
	})
}

func (s *SessionStore) update(id string, apply func(*domain.Session)) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	apply(&s.sessions[i])
	return cloneSession(s.sessions[i]), nil
}

func cloneSession(sess domain.Session) domain.Session {
	out := sess
	if sess.PatientResponses != nil {
		out.PatientResponses = make([]domain.SessionResponse, len(sess.PatientResponses))
		copy(out.PatientResponses, sess.PatientResponses)
	}
	return out
}
