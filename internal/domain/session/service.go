package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrdash/internal/platform/cache"
	"hrdash/internal/remote"
)

// Manager owns the login/logout lifecycle and acts as the session provider
// for the rest of the core: a single injectable holder with get/set/
// subscribe instead of ambient globals.
type Manager struct {
	cache     *cache.Store
	verifier  remote.CredentialVerifier
	jwtSecret string

	mu      sync.Mutex
	current *Session
	subs    map[int]func(*Session)
	nextSub int
}

func NewManager(store *cache.Store, verifier remote.CredentialVerifier, jwtSecret string) *Manager {
	return &Manager{
		cache:     store,
		verifier:  verifier,
		jwtSecret: jwtSecret,
		subs:      map[int]func(*Session){},
	}
}

// Restore loads a previously persisted session so a restarted agent picks
// up where the device left off. A corrupt entry is dropped, not fatal.
func (m *Manager) Restore() {
	raw, ok, err := m.cache.Get(cache.KeySession)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("session restore failed", "err", err)
		}
		return
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		slog.Warn("session entry corrupt, discarding", "err", err)
		_ = m.cache.Delete(cache.KeySession)
		return
	}
	m.Set(&sess)
}

// Login validates input locally, verifies credentials remotely and persists
// the resulting session. Validation failures never reach the network, and a
// rejected verification is surfaced once with no automatic retry.
func (m *Manager) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	payload, err := m.verifier.Verify(ctx, remote.VerifyRequest{
		Role:        string(input.Role),
		Identifier:  strings.TrimSpace(input.Identifier),
		SecondaryID: strings.TrimSpace(input.SecondaryID),
		Secret:      input.Secret,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	sess := &Session{
		Role:        input.Role,
		SubjectID:   payload.SubjectID,
		DisplayName: payload.DisplayName,
		Token:       payload.Token,
		Claims:      payload.Claims,
		IssuedAt:    time.Now().UTC(),
	}
	m.applyTokenClaims(sess)
	if sess.SubjectID == "" {
		return nil, fmt.Errorf("%w: payload carries no subject id", ErrAuthFailed)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := m.cache.Put(cache.KeySession, raw); err != nil {
		return nil, err
	}

	m.Set(sess)
	return sess, nil
}

// Logout signs out remotely on a best-effort basis, then unconditionally
// clears the session and completion entries for the active role.
func (m *Manager) Logout(ctx context.Context) error {
	sess, ok := m.Get()
	if !ok {
		return ErrNoSession
	}

	if err := m.verifier.SignOut(ctx, sess.Token); err != nil {
		slog.Warn("remote sign-out failed", "err", err)
	}

	var firstErr error
	if err := m.cache.Delete(cache.KeySession); err != nil {
		firstErr = err
	}
	if err := m.cache.Delete(cache.CompletionKey(string(sess.Role))); err != nil && firstErr == nil {
		firstErr = err
	}

	m.Set(nil)
	return firstErr
}

func (m *Manager) Get() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	copied := *m.current
	return &copied, true
}

// Set replaces the in-memory session and notifies subscribers. Persistence
// is Login/Logout's job; Set alone never touches the cache, which lets
// tests install a fake session without touching storage.
func (m *Manager) Set(sess *Session) {
	m.mu.Lock()
	m.current = sess
	subs := make([]func(*Session), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

func (m *Manager) Subscribe(fn func(*Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func validateInput(input LoginInput) error {
	if !input.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, input.Role)
	}
	if strings.TrimSpace(input.Identifier) == "" {
		return fmt.Errorf("%w: identifier", ErrMissingField)
	}
	if input.Secret == "" {
		return fmt.Errorf("%w: secret", ErrMissingField)
	}
	switch input.Role {
	case RoleManager, RoleEmployee:
		if strings.TrimSpace(input.SecondaryID) == "" {
			return fmt.Errorf("%w: secondary id", ErrMissingField)
		}
	}
	return nil
}

// applyTokenClaims fills subject id and display name from the token when
// the payload left them blank, and keeps the raw claim map around for the
// profile synthesizer. The token is verified when a shared secret is
// configured; otherwise claims are read unverified, trusting transport
// auth the same way the dashboard shell does.
func (m *Manager) applyTokenClaims(sess *Session) {
	if sess.Token == "" {
		return
	}

	claims := jwt.MapClaims{}
	var err error
	if m.jwtSecret != "" {
		_, err = jwt.ParseWithClaims(sess.Token, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(m.jwtSecret), nil
		})
	} else {
		_, _, err = jwt.NewParser().ParseUnverified(sess.Token, claims)
	}
	if err != nil {
		slog.Warn("session token claims unreadable", "err", err)
		return
	}

	if sess.Claims == nil {
		sess.Claims = map[string]any{}
	}
	for k, v := range claims {
		if _, exists := sess.Claims[k]; !exists {
			sess.Claims[k] = v
		}
	}
	if sess.SubjectID == "" {
		sess.SubjectID = claimString(claims, "uid", "sub")
	}
	if sess.DisplayName == "" {
		sess.DisplayName = claimString(claims, "name", "displayName")
	}
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
