package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/auth"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// AdminHandler exposes admin-scoped endpoints.
type AdminHandler struct{}

// NewAdminHandler constructs handler.
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message": fmt.Sprintf("Welcome, admin %s", principal.Email),
		},
	})
}

// UserData handles GET /admin/user-data, reachable by users and admins.
func (h *AdminHandler) UserData(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserDataResponse{Email: principal.Email, Role: principal.Role},
		},
	})
}
