package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/auth"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// UsersHandler exposes identity endpoints for authenticated principals.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": dto.UserDataResponse{Email: principal.Email, Role: principal.Role},
	})
}

// Profile handles GET /users/profile, including token metadata.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": dto.ProfileResponse{
			Email:     principal.Email,
			Role:      principal.Role,
			IssuedAt:  principal.IssuedAt.Unix(),
			ExpiresAt: principal.ExpiresAt.Unix(),
		},
	})
}
