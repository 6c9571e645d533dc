// Package session provides cookie session management.
// Sessions map an opaque token to a user id and are kept in a Store
// (Postgres by default, Redis optionally) for a fixed window.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the cookie carrying the session token
	CookieName = "sessionId"
	// MaxAge is how long an issued session stays valid
	MaxAge = 7 * 24 * time.Hour
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when binding a token that already has a session
	ErrSessionExists = errors.New("session already exists")
	// ErrInvalidSession is returned when session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the interface for session management operations
type Manager interface {
	// Create issues a fresh token for userID
	Create(ctx context.Context, userID string) (string, error)
	// Bind links a caller-supplied token to userID unless it is already bound
	Bind(ctx context.Context, sessionID, userID string) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Ping(ctx context.Context) error
}

// manager implements Manager interface
type manager struct {
	store Store
	now   func() time.Time
}

// NewManager creates a new session manager
func NewManager(store Store) Manager {
	return &manager{
		store: store,
		now:   time.Now,
	}
}

func key(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Create creates a new session and returns the session ID
func (m *manager) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()

	if err := m.Bind(ctx, sessionID, userID); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Bind stores the session under sessionID for MaxAge
func (m *manager) Bind(ctx context.Context, sessionID, userID string) error {
	now := m.now()
	sess := &Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(MaxAge),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := m.store.SetNX(ctx, key(sessionID), string(data), MaxAge)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}

	return nil
}

// Get retrieves a session by ID.
// Expiry is left to the store, no extra check is made here.
func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := m.store.Get(ctx, key(sessionID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidSession
	}

	return &sess, nil
}

// Ping checks the underlying store
func (m *manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}
