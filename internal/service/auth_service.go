package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jeerawut3427/personal-system/internal/auth"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/events"
	"github.com/jeerawut3427/personal-system/internal/repository"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// AuthService coordinates login and logout flows: throttle check, credential
// verification, and session issuance.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	throttle   *auth.LoginThrottle
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   *auth.SessionManager
	Throttle   *auth.LoginThrottle
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
	}
}

// SessionManager exposes the underlying manager for dispatcher usage.
func (s *AuthService) SessionManager() *auth.SessionManager {
	return s.sessions
}

// Login authenticates a user from the given client address. The throttle is
// consulted before credentials so a locked-out address learns nothing about
// credential correctness.
func (s *AuthService) Login(ctx context.Context, username, password, remoteAddr string) (*domain.User, string, time.Time, error) {
	if s.throttle.Locked(remoteAddr) {
		s.publish(ctx, events.EventLoginLockedOut, username, events.LoginAttemptPayload{
			Username: username, RemoteAddr: remoteAddr,
		})
		return nil, "", time.Time{}, util.NewRateLimited("too many failed attempts, try again later")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}
	if user == nil || !auth.VerifyPassword(user.Salt, user.Key, password) {
		s.throttle.RecordFailure(remoteAddr)
		s.publish(ctx, events.EventLoginFailed, username, events.LoginAttemptPayload{
			Username: username, RemoteAddr: remoteAddr,
		})
		return nil, "", time.Time{}, util.NewValidationError("invalid username or password", nil)
	}

	s.throttle.Reset(remoteAddr)

	token, expiresAt, err := s.sessions.Issue(ctx, user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventLoginSucceeded, username, events.LoginAttemptPayload{
		Username: username, RemoteAddr: remoteAddr,
	})
	return user, token, expiresAt, nil
}

// Logout revokes the caller's session; unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
