package domain

import "time"

// TokenKind differentiates access vs refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Principal represents the authenticated caller derived from verified claims.
// It is never persisted by this service.
type Principal struct {
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
