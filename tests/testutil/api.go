package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/library/backend/internal/application/catalog"
	"github.com/library/backend/internal/application/identity"
	lendingapp "github.com/library/backend/internal/application/lending"
	membershipapp "github.com/library/backend/internal/application/membership"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/library/backend/internal/infrastructure/auth"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/library/backend/internal/infrastructure/persistence"
	"github.com/library/backend/internal/interfaces/http/handler"
	"github.com/library/backend/internal/interfaces/http/middleware"
	"github.com/library/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/require"
)

// Librarian credentials accepted by a TestAPI
const (
	LibrarianUsername = "librarian"
	LibrarianPassword = "correct horse battery"
)

// TestAPI is the complete HTTP API over an in-memory database
type TestAPI struct {
	Engine    *gin.Engine
	DB        *persistence.Database
	Blacklist *auth.InMemoryTokenBlacklist
	// Token is a valid librarian bearer token
	Token string
	// Today is the day the lending services consider current
	Today time.Time
}

// APIOption customises a TestAPI
type APIOption func(*apiOptions)

type apiOptions struct {
	today        time.Time
	loginLimiter *middleware.RateLimiter
	metrics      lendingapp.Metrics
	http         config.HTTPConfig
}

// WithToday fixes the current day of the lending services
func WithToday(today time.Time) APIOption {
	return func(o *apiOptions) { o.today = today }
}

// WithLoginLimiter throttles the login route
func WithLoginLimiter(limiter *middleware.RateLimiter) APIOption {
	return func(o *apiOptions) { o.loginLimiter = limiter }
}

// WithLendingMetrics records lending outcomes into m
func WithLendingMetrics(m lendingapp.Metrics) APIOption {
	return func(o *apiOptions) { o.metrics = m }
}

// WithHTTPConfig overrides the engine's HTTP settings
func WithHTTPConfig(cfg config.HTTPConfig) APIOption {
	return func(o *apiOptions) { o.http = cfg }
}

// NewTestAPI wires repositories, services, handlers and routes the same way
// the server does. The current day defaults to 2024-03-10.
func NewTestAPI(t *testing.T, opts ...APIOption) *TestAPI {
	t.Helper()

	o := apiOptions{
		today: Day(2024, time.March, 10),
		http:  config.HTTPConfig{MaxBodySize: 1 << 20},
	}
	for _, opt := range opts {
		opt(&o)
	}

	db := NewSQLiteDatabase(t)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	fineRepo := persistence.NewGormFineRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	today := o.today
	clock := func() time.Time { return today }
	lendingOpts := []lendingapp.Option{lendingapp.WithClock(clock), lendingapp.WithMetrics(o.metrics)}

	itemService := catalogapp.NewItemService(itemRepo, nil)
	memberService := membershipapp.NewMemberService(memberRepo, membershipapp.MemberServiceConfig{}, nil)
	lendingService := lendingapp.NewLendingService(txScope, loanRepo,
		lending.DefaultDamagePolicy(valueobject.DefaultCurrency), nil, lendingOpts...)
	fineService := lendingapp.NewFineService(fineRepo, loanRepo, valueobject.DefaultCurrency, nil, lendingOpts...)

	credentials, err := auth.NewCredentials(LibrarianUsername, "", LibrarianPassword)
	require.NoError(t, err)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-at-least-32-characters",
		AccessTokenExpiration: 24 * time.Hour,
		Issuer:                "library-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identity.NewAuthService(credentials, jwtService, blacklist, nil)

	engine, err := router.NewEngine(router.EngineConfig{HTTP: o.http})
	require.NoError(t, err)
	router.RegisterRoutes(engine, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Item:   handler.NewItemHandler(itemService),
		Member: handler.NewMemberHandler(memberService),
		Loan:   handler.NewLoanHandler(lendingService, fineService),
		Fine:   handler.NewFineHandler(fineService),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": db.PingContext,
		}),
	}, router.RoutesConfig{
		Authenticator: authService,
		LoginLimiter:  o.loginLimiter,
	})

	token, err := jwtService.Generate(LibrarianUsername)
	require.NoError(t, err)

	return &TestAPI{
		Engine:    engine,
		DB:        db,
		Blacklist: blacklist,
		Token:     token.AccessToken,
		Today:     today,
	}
}
