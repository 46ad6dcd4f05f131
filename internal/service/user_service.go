package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/auth"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/events"
	"github.com/jeerawut3427/personal-system/internal/repository"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// UserInput carries account fields for create/update operations. Password is
// optional on update; empty means keep the current credential.
type UserInput struct {
	Username   string
	Password   string
	Rank       string
	FirstName  string
	LastName   string
	Position   string
	Department string
	Role       string
}

// UserService manages accounts. One bootstrap admin account is protected
// from deletion.
type UserService struct {
	users             repository.UserRepository
	dispatcher        events.Dispatcher
	logger            *zap.Logger
	bootstrapUsername string
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger, bootstrapUsername string) *UserService {
	return &UserService{
		users:             users,
		dispatcher:        dispatcher,
		logger:            logger,
		bootstrapUsername: bootstrapUsername,
	}
}

// List returns accounts, optionally filtered by a search term.
func (s *UserService) List(ctx context.Context, searchTerm string) ([]domain.User, error) {
	return s.users.List(ctx, searchTerm)
}

// Create adds a new account.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, util.NewValidationError("username and password are required", nil)
	}
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, util.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	salt, key, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if !role.Valid() {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username:   input.Username,
		Salt:       salt,
		Key:        key,
		Rank:       input.Rank,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Position:   input.Position,
		Department: input.Department,
		Role:       role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, input.Username)
	return user, nil
}

// Update rewrites an account's profile, re-deriving the credential only when
// a new password is supplied.
func (s *UserService) Update(ctx context.Context, input UserInput) error {
	if input.Username == "" {
		return util.NewValidationError("username is required", nil)
	}
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user")
		}
		return err
	}

	user.Rank = input.Rank
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Position = input.Position
	user.Department = input.Department
	if role := domain.Role(input.Role); role.Valid() {
		user.Role = role
	}

	if input.Password != "" {
		salt, key, err := auth.HashPassword(input.Password)
		if err != nil {
			return err
		}
		user.Salt = salt
		user.Key = key
		err = s.users.Update(ctx, user)
		if err != nil {
			return err
		}
	} else if err := s.users.UpdateProfile(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventUserUpdated, input.Username)
	return nil
}

// Delete removes an account. The bootstrap admin can never be deleted.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if username == s.bootstrapUsername {
		return util.NewValidationError("the primary administrator account cannot be deleted", nil)
	}
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user")
		}
		return err
	}
	s.publish(ctx, events.EventUserDeleted, username)
	return nil
}

// EnsureBootstrapAdmin seeds the protected admin account on first start.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, password string) error {
	if _, err := s.users.GetByUsername(ctx, s.bootstrapUsername); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if password == "" {
		s.logger.Warn("bootstrap admin missing and no BOOTSTRAP_ADMIN_PASSWORD set; skipping seed")
		return nil
	}

	salt, key, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username:   s.bootstrapUsername,
		Salt:       salt,
		Key:        key,
		Position:   "administrator",
		Department: "headquarters",
		Role:       domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("username", s.bootstrapUsername))
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, username string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     username,
		Timestamp: time.Now(),
		Payload:   events.UserChangedPayload{Username: username},
	})
}
