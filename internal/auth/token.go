package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/domain"
)

// Decode failures callers are expected to branch on.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenKindMismatch     = errors.New("token kind mismatch")
)

// TokenManager issues and validates signed JWT tokens.
type TokenManager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager. Unknown algorithms fall back to HS256.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	method := jwt.SigningMethodHS256
	switch cfg.JWTAlgorithm {
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	}

	accessTTL := cfg.AccessTokenTTL()
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL()
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Claims describes the JWT payload. The registered ID field carries the
// revocation identifier (jti) on refresh tokens and is empty on access tokens.
type Claims struct {
	Email string           `json:"email"`
	Role  domain.Role      `json:"role"`
	Kind  domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into the caller identity handed to handlers.
func (c *Claims) Principal() domain.Principal {
	p := domain.Principal{Email: c.Email, Role: c.Role}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}

// IssueAccessToken builds and signs a short-lived access token.
// Access tokens carry no jti and cannot be revoked before expiry.
func (tm *TokenManager) IssueAccessToken(email string, role domain.Role) (string, time.Time, error) {
	return tm.sign(email, role, domain.TokenKindAccess, "", tm.accessTTL)
}

// IssueRefreshToken builds and signs a refresh token with a fresh revocation
// identifier. The identifier is returned alongside the token.
func (tm *TokenManager) IssueRefreshToken(email string, role domain.Role) (string, string, time.Time, error) {
	jti := uuid.NewString()
	token, expiresAt, err := tm.sign(email, role, domain.TokenKindRefresh, jti, tm.refreshTTL)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

func (tm *TokenManager) sign(email string, role domain.Role, kind domain.TokenKind, jti string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Role:  role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies signature and expiry, then checks the token is of the
// expected kind. Claims are never inspected before the signature verifies.
func (tm *TokenManager) ParseToken(tokenStr string, kind domain.TokenKind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != tm.method {
			return nil, ErrTokenSignatureInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != kind {
		return nil, ErrTokenKindMismatch
	}
	if claims.Email == "" || !claims.Role.Valid() || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if kind == domain.TokenKindRefresh && claims.ID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
