package events

import (
	"time"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventLoginDenied    EventType = "login_denied"
	EventTokenRefreshed EventType = "token_refreshed"
	EventTokenRevoked   EventType = "token_revoked"
)

// Event represents a security event emitted by the auth service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// LoginDeniedPayload payload.
type LoginDeniedPayload struct {
	Reason string `json:"reason"`
}

// TokenRevokedPayload payload.
type TokenRevokedPayload struct {
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}
