package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/auth"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	creds, err := auth.NewCredentials("librarian", "", "correct horse")
	require.NoError(t, err)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "identity-test-secret-at-least-32-chars",
		AccessTokenExpiration: 24 * time.Hour,
		Issuer:                "library-test",
	})
	return NewAuthService(creds, jwtService, auth.NewInMemoryTokenBlacklist(), nil)
}

func TestAuthService_Login(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	result, err := s.Login(ctx, LoginRequest{Username: "librarian", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "librarian", result.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)

	claims, err := s.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "librarian", claims.Username)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	s := newTestAuthService(t)

	for _, req := range []LoginRequest{
		{Username: "librarian", Password: "wrong"},
		{Username: "intruder", Password: "correct horse"},
	} {
		_, err := s.Login(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	result, err := s.Login(ctx, LoginRequest{Username: "librarian", Password: "correct horse"})
	require.NoError(t, err)
	claims, err := s.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, LogoutInput{
		Username:  claims.Username,
		TokenJTI:  claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}))

	_, err = s.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)

	assert.Error(t, s.Logout(ctx, LogoutInput{}))
}

func TestAuthService_Me(t *testing.T) {
	me := newTestAuthService(t).Me(context.Background(), "librarian")
	assert.Equal(t, "librarian", me.Username)
	assert.Equal(t, auth.RoleLibrarian, me.Role)
}

type unreachableBlacklist struct{}

func (unreachableBlacklist) Add(context.Context, string, time.Duration) error {
	return errors.New("connection refused")
}

func (unreachableBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestAuthService_AuthenticateWhenBlacklistUnavailable(t *testing.T) {
	s := newTestAuthService(t)
	s.blacklist = unreachableBlacklist{}
	ctx := context.Background()

	result, err := s.Login(ctx, LoginRequest{Username: "librarian", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := s.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "librarian", claims.Username)

	assert.Error(t, s.Logout(ctx, LogoutInput{TokenJTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time}))
}
