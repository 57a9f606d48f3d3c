package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/revocation"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

const principalKey = "auth_principal"

// Gate validates and authorizes bearer tokens per request.
type Gate struct {
	tokens      *TokenManager
	revocations *revocation.Store
	logger      *zap.Logger
}

// NewGate constructs the gate.
func NewGate(tokens *TokenManager, revocations *revocation.Store, logger *zap.Logger) *Gate {
	return &Gate{tokens: tokens, revocations: revocations, logger: logger}
}

// Authorize validates an access token and checks role membership. An empty
// allowed set admits any authenticated principal. It returns the verified
// principal or a typed rejection; it never partially trusts an unverified
// token.
func (g *Gate) Authorize(bearer string, allowed ...domain.Role) (*domain.Principal, error) {
	claims, err := g.tokens.ParseToken(bearer, domain.TokenKindAccess)
	if err != nil {
		return nil, MapTokenError(err)
	}

	if len(allowed) > 0 {
		member := false
		for _, role := range allowed {
			if claims.Role == role {
				member = true
				break
			}
		}
		if !member {
			return nil, apperrors.NewForbidden("you do not have permission to access this resource")
		}
	}

	principal := claims.Principal()
	return &principal, nil
}

// AuthorizeRefresh validates a refresh token including its revocation state.
// A store failure during the revocation check is treated as revoked: the
// caller is rejected rather than silently allowed.
func (g *Gate) AuthorizeRefresh(ctx context.Context, token string) (*Claims, error) {
	claims, err := g.tokens.ParseToken(token, domain.TokenKindRefresh)
	if err != nil {
		return nil, MapTokenError(err)
	}

	revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		g.logger.Error("revocation check failed; rejecting token", zap.Error(err))
		return nil, apperrors.NewTokenError("TOKEN_REVOKED", "refresh token revoked")
	}
	if revoked {
		return nil, apperrors.NewTokenError("TOKEN_REVOKED", "refresh token revoked")
	}
	return claims, nil
}

// RequireRoles returns middleware enforcing authentication and role
// membership for protected routes. The validated principal is exposed to
// downstream handlers via the request context.
func (g *Gate) RequireRoles(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer, err := BearerFromHeader(c.Get("Authorization"))
		if err != nil {
			return err
		}

		principal, err := g.Authorize(bearer, allowed...)
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// MapTokenError converts codec failures into client-facing domain errors.
func MapTokenError(err error) error {
	switch {
	case errors.Is(err, ErrTokenSignatureInvalid):
		return apperrors.NewTokenError("TOKEN_SIGNATURE_INVALID", "invalid token")
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewTokenError("TOKEN_EXPIRED", "token expired")
	case errors.Is(err, ErrTokenKindMismatch):
		return apperrors.NewTokenError("TOKEN_KIND_MISMATCH", "token not valid for this endpoint")
	case errors.Is(err, ErrTokenMalformed):
		return apperrors.NewTokenError("TOKEN_MALFORMED", "invalid token")
	default:
		return apperrors.MapError(err)
	}
}
