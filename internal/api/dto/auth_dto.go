package dto

import "github.com/spec-kit/auth-gateway/internal/domain"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for minting a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest payload for revoking a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterResponse returned on successful registration.
type RegisterResponse struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// LoginResponse returned on successful login.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Role         domain.Role `json:"role"`
	Email        string      `json:"email"`
}

// RefreshResponse returned on successful refresh. The refresh token is not
// rotated, so only a new access token is issued.
type RefreshResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Role        domain.Role `json:"role"`
	Email       string      `json:"email"`
}
