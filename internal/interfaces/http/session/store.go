// Package session keeps one console controller per browser page session.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName is the cookie carrying the session id
const CookieName = "catalog_session"

const contextKey = "console_session"

// Factory builds the controller of a new session, wired to its notifier
type Factory func(notifier console.Notifier) *console.Controller

// Session is one page session: a controller and its notices
type Session struct {
	ID         string
	Controller *console.Controller
	Notices    *NoticeBoard

	startOnce sync.Once
	mu        sync.Mutex
	lastSeen  time.Time
}

// EnsureStarted runs the controller startup sequence once per session
func (s *Session) EnsureStarted(ctx context.Context) {
	s.startOnce.Do(func() {
		// failures are already on the notice board
		_ = s.Controller.Start(ctx)
	})
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store holds the live sessions.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	factory     Factory
	noticeTTL   time.Duration
	idleTimeout time.Duration
	secure      bool
	now         func() time.Time
	log         *zap.Logger
}

// Option customizes a Store
type Option func(*Store)

// WithNoticeTTL sets how long notices stay visible
func WithNoticeTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.noticeTTL = ttl
	}
}

// WithIdleTimeout sets how long an unused session is kept
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.idleTimeout = d
	}
}

// WithSecureCookie marks the session cookie as HTTPS only
func WithSecureCookie(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithLogger sets the store logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates an empty session store
func NewStore(factory Factory, opts ...Option) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		factory:     factory,
		noticeTTL:   3 * time.Second,
		idleTimeout: 30 * time.Minute,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a live session and marks it as used
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// Create starts a new session with a fresh controller
func (s *Store) Create() *Session {
	board := NewNoticeBoard(s.noticeTTL)
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.factory(board),
		Notices:    board,
		lastSeen:   s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Debug("Session created", zap.String("session_id", sess.ID))
	return sess
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTimeout {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("Idle sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done
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

// Middleware attaches the caller's session to the request, creating one
// when the cookie is missing or refers to an expired session.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(CookieName); err == nil {
			sess, _ = s.Get(id)
		}
		if sess == nil {
			sess = s.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, sess.ID, 0, "/", "", s.secure, true)
		}

		c.Set(contextKey, sess)
		c.Set(logger.SessionIDKey, sess.ID)
		// startup runs once per session, so a dropped first request must not cut it short
		sess.EnsureStarted(context.WithoutCancel(c.Request.Context()))
		c.Next()
	}
}

// FromContext returns the session attached by Middleware
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return nil
}
