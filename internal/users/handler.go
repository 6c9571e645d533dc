package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dailydiet/internal/session"
	"dailydiet/internal/validation"
)

// Handler handles HTTP requests for users
type Handler struct {
	service      Service
	secureCookie bool
}

// NewHandler creates a new users handler.
// secureCookie marks the session cookie Secure (production).
func NewHandler(service Service, secureCookie bool) *Handler {
	validation.Register()
	return &Handler{service: service, secureCookie: secureCookie}
}

// Register handles POST /users
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message(err)})
		return
	}

	// a missing cookie yields "" which asks the service for a fresh session
	sessionID, _ := c.Cookie(session.CookieName)

	reg, err := h.service.Register(c.Request.Context(), req, sessionID)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "user already exists"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to register user"})
		return
	}

	if reg.Issued {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(
			session.CookieName,
			reg.SessionID,
			int(session.MaxAge.Seconds()),
			"/",
			"",
			h.secureCookie,
			true, // httpOnly
		)
	}

	c.Status(http.StatusCreated)
}

// List handles GET /users
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}
