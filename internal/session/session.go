package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"qa-forum-web/internal/domain"
	"qa-forum-web/internal/repository"
)

// Session is the per-request view of who is browsing. A zero Session is
// anonymous.
type Session struct {
	ID       string
	Token    string
	Identity *domain.Identity
}

// Authenticated reports whether the session holds a bearer token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Owns reports whether the decoded identity matches the given user id.
func (s *Session) Owns(userID int64) bool {
	return s != nil && s.Identity != nil && s.Identity.ID == userID
}

// HasRole reports whether the decoded identity carries exactly role.
func (s *Session) HasRole(role string) bool {
	return s != nil && Allow(s.Identity, role)
}

// maxTouchInterval bounds how often a busy session writes its idle clock.
const maxTouchInterval = time.Minute

type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Manager binds a browser cookie to the durable token store.
type Manager struct {
	repo   repository.SessionRepository
	opts   Options
	logger *logrus.Logger
}

func NewManager(repo repository.SessionRepository, opts Options, logger *logrus.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "forum_session"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{repo: repo, opts: opts, logger: logger}
}

// Load resolves the request's session. Every failure degrades to anonymous.
// A session in use has its idle clock and cookie lifetime renewed, at most
// once per touch interval.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}

	ctx := r.Context()
	stored, err := m.repo.Get(ctx, c.Value)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.WithError(err).Warn("load session")
		}
		return &Session{}
	}
	m.touch(ctx, w, stored)

	s := &Session{ID: stored.ID, Token: stored.Token}
	identity, err := DecodeIdentity(stored.Token)
	if err != nil {
		m.logger.WithError(err).WithField("session", stored.ID).Warn("failed to decode token")
		return s
	}
	s.Identity = identity
	return s
}

func (m *Manager) touch(ctx context.Context, w http.ResponseWriter, stored *domain.Session) {
	if m.opts.MaxAge <= 0 || time.Since(stored.UpdatedAt) < m.touchInterval() {
		return
	}
	if err := m.repo.Touch(ctx, stored.ID); err != nil {
		m.logger.WithError(err).WithField("session", stored.ID).Warn("touch session")
		return
	}
	m.setCookie(w, stored.ID)
}

func (m *Manager) touchInterval() time.Duration {
	return min(m.opts.MaxAge/10, maxTouchInterval)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.opts.MaxAge.Seconds()),
	})
}

// Start persists a freshly issued token, replacing any session the browser
// already had.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, token, userInfo string) (*Session, error) {
	if c, err := r.Cookie(m.opts.CookieName); err == nil && c.Value != "" {
		if err := m.repo.Delete(ctx, c.Value); err != nil {
			m.logger.WithError(err).Warn("drop previous session")
		}
	}

	stored := &domain.Session{
		ID:       uuid.NewString(),
		Token:    token,
		UserInfo: userInfo,
	}
	if err := m.repo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.setCookie(w, stored.ID)

	s := &Session{ID: stored.ID, Token: token}
	if identity, err := DecodeIdentity(token); err == nil {
		s.Identity = identity
	}
	return s, nil
}

// End forgets the token and expires the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, cerr := r.Cookie(m.opts.CookieName); cerr == nil && c.Value != "" {
		err = m.repo.Delete(ctx, c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		MaxAge:   -1,
	})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Purge removes sessions idle for longer than the configured max age.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	if m.opts.MaxAge <= 0 {
		return 0, nil
	}
	return m.repo.DeleteIdleSince(ctx, time.Now().Add(-m.opts.MaxAge))
}
