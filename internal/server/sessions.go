package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/orchestrator"
)

// SessionCookie carries the editing session id.
const SessionCookie = "resumegen_session"

// SessionFactory starts a new editing session.
type SessionFactory func(ctx context.Context) (*orchestrator.Orchestrator, error)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Sessions maps cookie ids to editing sessions. Sessions idle for longer than
// the ttl are closed on a later Resolve.
type Sessions struct {
	mu       sync.Mutex
	factory  SessionFactory
	sessions map[string]*sessionEntry
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time
	swept    time.Time
}

type sessionEntry struct {
	session  *orchestrator.Orchestrator
	lastSeen time.Time
}

func newSessions(factory SessionFactory, logger *zap.Logger, ttl time.Duration) *Sessions {
	return &Sessions{
		factory:  factory,
		sessions: make(map[string]*sessionEntry),
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Resolve returns the session named by the request cookie, starting a new
// one when the cookie is missing, unknown or expired.
func (s *Sessions) Resolve(c *gin.Context) (*orchestrator.Orchestrator, error) {
	id, err := c.Cookie(SessionCookie)
	s.mu.Lock()
	now := s.now()
	expired := s.sweepLocked(now)
	if err == nil {
		if entry, ok := s.sessions[id]; ok {
			entry.lastSeen = now
			s.mu.Unlock()
			s.closeAll(expired, "session expired")
			return entry.session, nil
		}
	}
	s.mu.Unlock()
	s.closeAll(expired, "session expired")

	session, err := s.factory(c.Request.Context())
	if err != nil {
		return nil, err
	}
	id = uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{session: session, lastSeen: s.now()}
	s.mu.Unlock()

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", zap.String("session", id))
	return session, nil
}

// sweepLocked detaches sessions idle past the ttl. A full scan runs at most
// once per quarter ttl.
func (s *Sessions) sweepLocked(now time.Time) map[string]*orchestrator.Orchestrator {
	if s.ttl <= 0 || now.Sub(s.swept) < s.ttl/4 {
		return nil
	}
	s.swept = now
	var expired map[string]*orchestrator.Orchestrator
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) <= s.ttl {
			continue
		}
		if expired == nil {
			expired = make(map[string]*orchestrator.Orchestrator)
		}
		expired[id] = entry.session
		delete(s.sessions, id)
	}
	return expired
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close flushes every session.
func (s *Sessions) Close() error {
	s.mu.Lock()
	sessions := make(map[string]*orchestrator.Orchestrator, len(s.sessions))
	for id, entry := range s.sessions {
		sessions[id] = entry.session
	}
	s.sessions = make(map[string]*sessionEntry)
	s.mu.Unlock()

	return s.closeAll(sessions, "session closed")
}

func (s *Sessions) closeAll(sessions map[string]*orchestrator.Orchestrator, msg string) error {
	var first error
	for id, session := range sessions {
		if err := session.Close(); err != nil {
			s.logger.Warn("session close failed", zap.String("session", id), zap.Error(err))
			if first == nil {
				first = err
			}
			continue
		}
		s.logger.Debug(msg, zap.String("session", id))
	}
	return first
}
