package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/library/backend/internal/infrastructure/auth"
	"github.com/library/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuthenticator struct {
	tokens map[string]*auth.Claims
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrInvalidToken
}

func librarianClaims() *auth.Claims {
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
		Username:         "librarian",
		Role:             auth.RoleLibrarian,
	}
}

func newJWTRouter(authenticator TokenAuthenticator, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Authenticator: authenticator,
		SkipPaths:     []string{"/api/v1/auth/login"},
		Logger:        log,
	}))
	handler := func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Username+"|"+logger.GetUsername(c.Request.Context()))
	}
	router.GET("/api/v1/loans", handler)
	router.POST("/api/v1/auth/login", handler)
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	authenticator := &fakeAuthenticator{tokens: map[string]*auth.Claims{"good-token": librarianClaims()}}

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"good-token")
		w := httptest.NewRecorder()
		newJWTRouter(authenticator, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "librarian|librarian", w.Body.String())
	})

	t.Run("skip paths need no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		w := httptest.NewRecorder()
		newJWTRouter(authenticator, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", header: "", code: "UNAUTHORIZED"},
		{name: "wrong scheme", header: "Basic abc", code: "UNAUTHORIZED"},
		{name: "empty token", header: "Bearer   ", code: "UNAUTHORIZED"},
		{name: "unknown token", header: "Bearer forged", code: "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			newJWTRouter(authenticator, nil).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_AuthenticatorErrors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: auth.ErrExpiredToken, code: "TOKEN_EXPIRED"},
		{err: auth.ErrTokenNotYetValid, code: "TOKEN_NOT_VALID"},
		{err: auth.ErrTokenBlacklisted, code: "TOKEN_REVOKED"},
		{err: auth.ErrInvalidClaims, code: "INVALID_TOKEN"},
		{err: errors.New("boom"), code: "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.err.Error(), func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+"whatever")
			w := httptest.NewRecorder()
			newJWTRouter(&fakeAuthenticator{err: tt.err}, zap.New(core)).ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, "JWT authentication failed", logs.All()[0].Message)
		})
	}
}

func TestGetJWTClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))

	c.Set(JWTClaimsKey, "not claims")
	assert.Nil(t, GetJWTClaims(c))

	claims := librarianClaims()
	c.Set(JWTClaimsKey, claims)
	assert.Same(t, claims, GetJWTClaims(c))
}
