package dto

import "github.com/spec-kit/auth-gateway/internal/domain"

// UserDataResponse returned by identity endpoints.
type UserDataResponse struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ProfileResponse includes token metadata alongside the identity.
type ProfileResponse struct {
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IssuedAt  int64       `json:"issued_at"`
	ExpiresAt int64       `json:"expires_at"`
}
