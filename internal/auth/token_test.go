package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		JWTAlgorithm:          "HS256",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLDays:   7,
		BcryptCost:            4,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, expiresAt, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ParseToken(token, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.TokenKindAccess, claims.Kind)
	assert.Empty(t, claims.ID, "access tokens carry no revocation identifier")
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)

	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 15*time.Minute, ttl)
}

func TestRefreshTokenCarriesFreshIdentifier(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token1, jti1, _, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)
	token2, jti2, _, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	assert.NotEmpty(t, jti1)
	assert.NotEmpty(t, jti2)
	assert.NotEqual(t, jti1, jti2, "identifiers are minted once per token")
	assert.NotEqual(t, token1, token2)

	claims, err := tm.ParseToken(token1, domain.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, jti1, claims.ID)
	assert.Equal(t, domain.TokenKindRefresh, claims.Kind)

	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	other := NewTokenManager(config.AuthConfig{
		JWTSecret:             "other-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLDays:   7,
	})

	token, _, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = other.ParseToken(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, _, err := tm.sign("a@x.com", domain.RoleUser, domain.TokenKindAccess, "", -time.Minute)
	require.NoError(t, err)

	_, err = tm.ParseToken(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tm.ParseToken(token, domain.TokenKindAccess)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestParseTokenRejectsKindMismatch(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	access, _, err := tm.IssueAccessToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)
	refresh, _, _, err := tm.IssueRefreshToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseToken(refresh, domain.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenKindMismatch)

	_, err = tm.ParseToken(access, domain.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenKindMismatch)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, _, err := tm.sign("a@x.com", domain.Role("superuser"), domain.TokenKindAccess, "", time.Minute)
	require.NoError(t, err)

	_, err = tm.ParseToken(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
