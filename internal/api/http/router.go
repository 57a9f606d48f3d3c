package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/api/http/handlers"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Users             *handlers.UsersHandler
	Admin             *handlers.AdminHandler
	Gate              *auth.Gate
	Limiter           *ratelimit.Limiter
	Logger            *zap.Logger
	RateLimitFailOpen bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", RateLimitByIP(cfg.Limiter, cfg.Logger, cfg.RateLimitFailOpen), cfg.Auth.Register)
	authGroup.Post("/login", RateLimitByIdentity(cfg.Limiter, cfg.Logger, cfg.RateLimitFailOpen), cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)

	users := app.Group("/users", cfg.Gate.RequireRoles(domain.RoleUser, domain.RoleAdmin))
	users.Get("/me", cfg.Users.Me)
	users.Get("/profile", cfg.Users.Profile)

	admin := app.Group("/admin")
	admin.Get("/dashboard", cfg.Gate.RequireRoles(domain.RoleAdmin), cfg.Admin.Dashboard)
	admin.Get("/user-data", cfg.Gate.RequireRoles(domain.RoleUser, domain.RoleAdmin), cfg.Admin.UserData)
}
