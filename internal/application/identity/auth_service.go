package identity

import (
	"context"
	"errors"
	"time"

	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService authenticates the single librarian account
type AuthService struct {
	credentials *auth.Credentials
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	credentials *auth.Credentials,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		credentials: credentials,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
		now:         time.Now,
	}
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.credentials.Verify(req.Username, req.Password); err != nil {
		s.logger.Warn("Login failed", zap.String("username", req.Username))
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(s.credentials.Username())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Librarian logged in", zap.String("username", req.Username))
	return &LoginResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Username:    s.credentials.Username(),
	}, nil
}

// Authenticate validates a bearer token and rejects revoked ones. When the
// blacklist cannot be reached the token is accepted and the failure logged.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := s.jwtService.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return errors.New("logout: token id is required")
	}
	ttl := input.ExpiresAt.Sub(s.now())
	if err := s.blacklist.Add(ctx, input.TokenJTI, ttl); err != nil {
		return err
	}
	s.logger.Info("Librarian logged out", zap.String("username", input.Username))
	return nil
}

// Me describes the authenticated librarian
func (s *AuthService) Me(_ context.Context, username string) *CurrentUserResult {
	return &CurrentUserResult{Username: username, Role: auth.RoleLibrarian}
}
