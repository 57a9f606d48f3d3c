package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/events"
	"github.com/spec-kit/auth-gateway/internal/repository"
	"github.com/spec-kit/auth-gateway/internal/revocation"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Email        string
	Role         domain.Role
}

// RefreshResult is the result of a successful token refresh.
type RefreshResult struct {
	AccessToken string
	Email       string
	Role        domain.Role
}

// AuthService coordinates registration, login and token lifecycle flows.
type AuthService struct {
	users       repository.UserRepository
	tokens      *auth.TokenManager
	gate        *auth.Gate
	revocations *revocation.Store
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	TokenManager    *auth.TokenManager
	Gate            *auth.Gate
	RevocationStore *revocation.Store
	Dispatcher      events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		tokens:      deps.TokenManager,
		gate:        deps.Gate,
		revocations: deps.RevocationStore,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a new account with the given role.
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateIdentity(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		Email:   user.Email,
		Payload: events.UserRegisteredPayload{UserID: user.ID, Role: user.Role},
	})
	return user, nil
}

// Login authenticates credentials and mints an access/refresh token pair.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publishLoginDenied(ctx, email, "unknown email")
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publishLoginDenied(ctx, email, "password mismatch")
		return nil, apperrors.NewInvalidCredentials()
	}

	accessToken, _, err := s.tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, _, _, err := s.tokens.IssueRefreshToken(user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, Email: user.Email})
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

// Refresh validates a refresh token (including revocation state) and mints a
// fresh access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.gate.AuthorizeRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokens.IssueAccessToken(claims.Email, claims.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventTokenRefreshed, Email: claims.Email})
	return &RefreshResult{
		AccessToken: accessToken,
		Email:       claims.Email,
		Role:        claims.Role,
	}, nil
}

// Logout registers the refresh token's identifier in the revocation store
// for the token's remaining lifetime. Revoking twice is idempotent. A store
// failure surfaces to the caller; the revocation is never silently dropped.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseToken(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenMalformed) {
			return apperrors.NewValidationError("malformed refresh token", nil)
		}
		return auth.MapTokenError(err)
	}

	expiresAt := claims.ExpiresAt.Time
	if err := s.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTokenRevoked,
		Email:   claims.Email,
		Payload: events.TokenRevokedPayload{JTI: claims.ID, ExpiresAt: expiresAt},
	})
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *AuthService) publishLoginDenied(ctx context.Context, email, reason string) {
	s.publish(ctx, events.Event{
		Type:    events.EventLoginDenied,
		Email:   email,
		Payload: events.LoginDeniedPayload{Reason: reason},
	})
}
