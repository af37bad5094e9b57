package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/library/backend/internal/interfaces/http/handler"
	"github.com/library/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers of the API
type Handlers struct {
	Auth   *handler.AuthHandler
	Item   *handler.ItemHandler
	Member *handler.MemberHandler
	Loan   *handler.LoanHandler
	Fine   *handler.FineHandler
	Health *handler.HealthHandler
}

// RoutesConfig configures authentication of the API routes
type RoutesConfig struct {
	Authenticator middleware.TokenAuthenticator
	// LoginLimiter throttles login attempts per client IP when set
	LoginLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// RegisterRoutes mounts every API route under APIPrefix. All routes but
// login and health require a librarian token.
func RegisterRoutes(engine *gin.Engine, h Handlers, cfg RoutesConfig) *Router {
	auth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Authenticator: cfg.Authenticator,
		SkipPaths:     []string{APIPrefix + "/auth/login", APIPrefix + "/health"},
		Logger:        cfg.Logger,
	})

	login := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter)}, login...)
	}

	return NewRouter(engine, auth).Mount(
		Resource{Name: "health", Routes: []Route{
			route(http.MethodGet, "/health", h.Health.Health),
		}},
		Resource{Name: "auth", Prefix: "/auth", Routes: []Route{
			route(http.MethodPost, "/login", login...),
			route(http.MethodPost, "/logout", h.Auth.Logout),
			route(http.MethodGet, "/me", h.Auth.Me),
		}},
		Resource{Name: "items", Prefix: "/items", Routes: []Route{
			route(http.MethodGet, "", h.Item.List),
			route(http.MethodPost, "", h.Item.Create),
			route(http.MethodGet, "/:id", h.Item.GetByID),
			route(http.MethodPut, "/:id", h.Item.Update),
			route(http.MethodDelete, "/:id", h.Item.Delete),
			route(http.MethodGet, "/:id/availability", h.Item.Availability),
		}},
		Resource{Name: "members", Prefix: "/members", Routes: []Route{
			route(http.MethodGet, "", h.Member.List),
			route(http.MethodPost, "", h.Member.Register),
			route(http.MethodGet, "/:id", h.Member.GetByID),
			route(http.MethodPut, "/:id", h.Member.Update),
			route(http.MethodDelete, "/:id", h.Member.Delete),
		}},
		Resource{Name: "loans", Prefix: "/loans", Routes: []Route{
			route(http.MethodGet, "", h.Loan.List),
			route(http.MethodPost, "", h.Loan.Create),
			route(http.MethodGet, "/open", h.Loan.ListOpen),
			route(http.MethodGet, "/overdue", h.Loan.ListOverdue),
			route(http.MethodGet, "/:id", h.Loan.GetByID),
			route(http.MethodDelete, "/:id", h.Loan.Delete),
			route(http.MethodPut, "/:id/return", h.Loan.Return),
			route(http.MethodGet, "/:id/fines", h.Loan.ListFines),
		}},
		Resource{Name: "fines", Prefix: "/fines", Routes: []Route{
			route(http.MethodGet, "", h.Fine.List),
			route(http.MethodPost, "", h.Fine.Record),
			route(http.MethodGet, "/:id", h.Fine.GetByID),
			route(http.MethodDelete, "/:id", h.Fine.Delete),
		}},
	)
}
