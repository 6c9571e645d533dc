package users

import "time"

// User represents a registered user
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the request payload for POST /users
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank"`
	LastName  string `json:"lastName" binding:"required,notblank"`
	Email     string `json:"email" binding:"required,email"`
}

// Registration is the outcome of a successful registration.
// Issued is set when a new session token must be handed to the client.
type Registration struct {
	User      *User
	SessionID string
	Issued    bool
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
