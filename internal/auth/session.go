package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/repository"
)

// SessionManager issues, resolves, and revokes opaque session tokens.
type SessionManager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	tokenLen int
	now      func() time.Time
}

// NewSessionManager builds a manager over the given session store.
func NewSessionManager(sessions repository.SessionRepository, ttl time.Duration, tokenLen int) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if tokenLen <= 0 {
		tokenLen = 16
	}
	return &SessionManager{
		sessions: sessions,
		ttl:      ttl,
		tokenLen: tokenLen,
		now:      time.Now,
	}
}

// TTL returns the session lifetime, used for cookie expiry.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for the username and returns the token together
// with its expiry time. Multiple concurrent sessions per user are allowed.
func (m *SessionManager) Issue(ctx context.Context, username string) (string, time.Time, error) {
	raw := make([]byte, m.tokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(raw)

	issuedAt := m.now()
	if err := m.sessions.Create(ctx, token, username, issuedAt); err != nil {
		return "", time.Time{}, err
	}
	return token, issuedAt.Add(m.ttl), nil
}

// Resolve sweeps expired sessions, then looks up the token. A missing or
// expired token resolves to (nil, nil); only storage faults return an error.
// Expiry is measured from issuance, not last use.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	// lazy sweep; deleting already-deleted rows is a no-op so concurrent
	// sweeps are safe
	cutoff := m.now().Add(-m.ttl)
	if err := m.sessions.DeleteExpired(ctx, cutoff); err != nil {
		return nil, err
	}

	session, err := m.sessions.GetWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// Revoke deletes the session; revoking an unknown token is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.sessions.Delete(ctx, token)
}
