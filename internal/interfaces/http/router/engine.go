package router

import (
	"github.com/gin-gonic/gin"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/library/backend/internal/infrastructure/logger"
	"github.com/library/backend/internal/interfaces/http/dto"
	"github.com/library/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig selects the middleware chain of the engine
type EngineConfig struct {
	Production       bool
	HTTP             config.HTTPConfig
	Logger           *zap.Logger
	TracingEnabled   bool
	ServiceName      string
	ProfilingEnabled bool
	// GlobalLimiter is applied to every request when set
	GlobalLimiter *middleware.RateLimiter
}

// NewEngine creates the gin engine with the global middleware chain:
// request id, recovery, tracing, access log, security headers, CORS, body
// limit and rate limit
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(cfg.ServiceName), middleware.SpanEnricher())
	}
	if cfg.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.GlobalLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.GlobalLimiter))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeRouteNotFound), dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound,
			"Route not found",
			c.GetString(logger.GinRequestIDKey),
		))
	})

	return engine, nil
}
