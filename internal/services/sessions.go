package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

// Session is one open assignment wizard. All access goes through its mutex.
type Session struct {
	mu sync.Mutex

	ID        string
	TeacherID string
	ClassID   string
	CreatedAt time.Time

	builder *wizard.Builder
	catalog models.Catalog

	// savedAssignmentID is the draft row written by the first save
	savedAssignmentID string
	submitting        bool
	lastUsed          time.Time
}

func newSession(teacherID, classID string, catalog models.Catalog, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		ClassID:   classID,
		CreatedAt: now,
		builder:   wizard.NewBuilder(classID),
		catalog:   catalog,
		lastUsed:  now,
	}
}

// SessionManager keeps wizard sessions in memory and expires idle ones.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewSessionManager(ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (m *SessionManager) Create(teacherID, classID string, catalog models.Catalog) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := newSession(teacherID, classID, catalog, m.now())
	m.sessions[s.ID] = s
	return s
}

// Get returns the session when it exists, belongs to teacherID and has not
// idled past the TTL. A successful lookup counts as activity.
func (m *SessionManager) Get(teacherID, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.TeacherID != teacherID {
		return nil, ErrSessionNotFound
	}

	now := m.now()
	s.mu.Lock()
	expired := !s.submitting && now.Sub(s.lastUsed) > m.ttl
	if !expired {
		s.lastUsed = now
	}
	s.mu.Unlock()

	if expired {
		delete(m.sessions, sessionID)
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Remove drops the session unless a submission is in flight. The check and
// the delete happen under both locks so no submission can start in between.
func (m *SessionManager) Remove(teacherID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.TeacherID != teacherID {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}
	delete(m.sessions, sessionID)
	if m.now().Sub(s.lastUsed) > m.ttl {
		return ErrSessionExpired
	}
	return nil
}

// ExpiresAt is when s expires if left idle from now on.
func (m *SessionManager) ExpiresAt(s *Session) time.Time {
	return s.lastUsed.Add(m.ttl)
}

// Sweep drops idle sessions and returns how many were removed.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := !s.submitting && now.Sub(s.lastUsed) > m.ttl
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps every interval until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("Expired idle wizard sessions", "count", n, "active", m.Len())
			}
		}
	}
}
