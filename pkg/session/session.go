package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrSignedOut is returned when a token is requested from a session that
	// is not logged in.
	ErrSignedOut = errors.New("session: signed out")
	// ErrInvalidToken is returned by verifiers for unknown tokens.
	ErrInvalidToken = errors.New("session: invalid token")
)

// User identifies the admin behind a session.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	TenantID string `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
}

// Session holds the bearer token of one signed-in admin. The zero value is a
// signed-out session.
type Session struct {
	mu    sync.RWMutex
	token string
	user  User
}

// New returns a signed-out session.
func New() *Session {
	return &Session{}
}

// Login stores the token and user, replacing any previous login.
func (s *Session) Login(token string, user User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session: token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

// Logout clears the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
}

// Token returns the bearer token. It satisfies restclient.TokenSource.
func (s *Session) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrSignedOut
	}
	return s.token, nil
}

// User returns the signed-in user.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Active reports whether the session is logged in.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

type sessionKey struct{}

// ContextWithSession attaches the session to ctx.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session attached to ctx.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// StaticTokens verifies bearer tokens against a fixed table.
type StaticTokens map[string]User

// VerifyToken resolves the user owning token.
func (t StaticTokens) VerifyToken(_ context.Context, token string) (User, error) {
	user, ok := t[strings.TrimSpace(token)]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return user, nil
}

// ParseStaticTokens reads "token=user_id[@tenant]" entries.
func ParseStaticTokens(entries []string) (StaticTokens, error) {
	tokens := StaticTokens{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, subject, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(token) == "" || strings.TrimSpace(subject) == "" {
			return nil, errors.New("session: token entries must look like token=user[@tenant]")
		}
		userID, tenant, _ := strings.Cut(strings.TrimSpace(subject), "@")
		tokens[strings.TrimSpace(token)] = User{ID: userID, Name: userID, TenantID: tenant}
	}
	return tokens, nil
}
