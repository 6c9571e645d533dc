// Package auth resolves the session cookie into the calling user.
// The authorizer is read-only: sessions are issued by user registration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dailydiet/internal/session"
	"dailydiet/internal/users"
)

// ErrUnauthenticated is returned when the request has no usable session
var ErrUnauthenticated = errors.New("unauthenticated")

// UserLookup loads users by id
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// AuthorizedHandler is a gin handler that receives the resolved caller
type AuthorizedHandler func(c *gin.Context, user users.User)

// Authorizer maps session tokens to users
type Authorizer struct {
	sessions session.Manager
	users    UserLookup
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(sessions session.Manager, users UserLookup) *Authorizer {
	return &Authorizer{sessions: sessions, users: users}
}

// Resolve returns the user owning token.
// A missing token, unknown session or dangling user all yield ErrUnauthenticated.
func (a *Authorizer) Resolve(ctx context.Context, token string) (users.User, error) {
	if token == "" {
		return users.User{}, ErrUnauthenticated
	}

	sess, err := a.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrInvalidSession) {
		return users.User{}, ErrUnauthenticated
	}
	if err != nil {
		return users.User{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	user, err := a.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, users.ErrUserNotFound) {
		return users.User{}, ErrUnauthenticated
	}
	if err != nil {
		return users.User{}, fmt.Errorf("failed to load session user: %w", err)
	}

	return *user, nil
}

// Require wraps next so it only runs for requests carrying a valid session cookie
func (a *Authorizer) Require(next AuthorizedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get session ID from cookie
		token, _ := c.Cookie(session.CookieName)

		user, err := a.Resolve(c.Request.Context(), token)
		if errors.Is(err, ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "Session lookup failed",
				"error", err,
				"request_id", c.GetString("request_id"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		}

		// request logging only, handlers receive the user explicitly
		c.Set("user_id", user.ID)

		next(c, user)
	}
}
