package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/revocation"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

func newTestGate(t *testing.T) (*Gate, *TokenManager, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tm := NewTokenManager(testAuthConfig())
	return NewGate(tm, revocation.NewStore(client), zap.NewNop()), tm, mr
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestAuthorizeEmptyRoleSetAdmitsAnyPrincipal(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	token, _, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	principal, err := gate.Authorize(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", principal.Email)
	assert.Equal(t, domain.RoleUser, principal.Role)
	assert.False(t, principal.IssuedAt.IsZero())
	assert.False(t, principal.ExpiresAt.IsZero())
}

func TestAuthorizeRoleMembership(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	userToken, _, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tm.IssueAccessToken("root@x.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = gate.Authorize(userToken, domain.RoleAdmin)
	assert.Equal(t, "FORBIDDEN", errorCode(t, err))

	principal, err := gate.Authorize(adminToken, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, principal.Role)

	principal, err = gate.Authorize(userToken, domain.RoleUser, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, principal.Role)
}

func TestAuthorizeRejectsRefreshTokenAtAccessGate(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	refresh, _, _, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = gate.Authorize(refresh)
	assert.Equal(t, "TOKEN_KIND_MISMATCH", errorCode(t, err))
}

func TestAuthorizeRefreshRejectsRevoked(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	token, jti, expiresAt, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	ctx := context.Background()
	claims, err := gate.AuthorizeRefresh(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)

	store := gate.revocations
	require.NoError(t, store.Revoke(ctx, jti, expiresAt))

	_, err = gate.AuthorizeRefresh(ctx, token)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, err))
}

func TestAuthorizeRefreshFailsClosedWhenStoreDown(t *testing.T) {
	gate, tm, mr := newTestGate(t)

	token, _, _, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	mr.Close()

	_, err = gate.AuthorizeRefresh(context.Background(), token)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, err),
		"store failure must reject, never silently allow")
}

func TestBearerFromHeader(t *testing.T) {
	token, err := BearerFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = BearerFromHeader("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "abc", "Basic abc", "Bearerabc"} {
		_, err := BearerFromHeader(header)
		assert.Error(t, err, "header %q", header)
	}
}

func TestRequireRolesMiddleware(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		},
	})
	app.Get("/protected", gate.RequireRoles(domain.RoleUser), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"email": principal.Email})
	})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	req = httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestExpiredTokenDeniedAtGate(t *testing.T) {
	gate, tm, _ := newTestGate(t)

	token, _, err := tm.sign("a@x.com", domain.RoleUser, domain.TokenKindAccess, "", -time.Minute)
	require.NoError(t, err)

	_, err = gate.Authorize(token)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, err))
}
