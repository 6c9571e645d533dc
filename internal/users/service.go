// Package users implements registration and listing of users.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dailydiet/internal/session"
)

// Service defines the users service interface
type Service interface {
	Register(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

type service struct {
	repo     Repository
	sessions session.Manager
	now      func() time.Time
}

// NewService creates a new users service
func NewService(repo Repository, sessions session.Manager) Service {
	return &service{
		repo:     repo,
		sessions: sessions,
		now:      time.Now,
	}
}

// Register creates the user and makes sure the caller ends up with a session.
// sessionID is the token the caller already carries, empty if none.
func (s *service) Register(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	user := &User{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CreatedAt: s.now().UTC(),
	}

	// the unique constraint still catches a concurrent registration
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	reg := &Registration{User: user}

	if sessionID == "" {
		token, err := s.sessions.Create(ctx, user.ID)
		if err != nil {
			return nil, s.rollback(ctx, user, fmt.Errorf("failed to issue session: %w", err))
		}
		reg.SessionID = token
		reg.Issued = true
		slog.InfoContext(ctx, "Registered user", "user_id", user.ID, "session", "issued")
		return reg, nil
	}

	err = s.sessions.Bind(ctx, sessionID, user.ID)
	switch {
	case err == nil:
		reg.SessionID = sessionID
		slog.InfoContext(ctx, "Registered user", "user_id", user.ID, "session", "bound")
	case errors.Is(err, session.ErrSessionExists):
		slog.InfoContext(ctx, "Registered user", "user_id", user.ID, "session", "kept")
	default:
		return nil, s.rollback(ctx, user, fmt.Errorf("failed to bind session: %w", err))
	}

	return reg, nil
}

// rollback removes a user whose session could not be stored so the email stays free for a retry
func (s *service) rollback(ctx context.Context, user *User, cause error) error {
	if err := s.repo.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to remove user after session error",
			"user_id", user.ID,
			"error", err,
		)
		return errors.Join(cause, err)
	}
	return cause
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
