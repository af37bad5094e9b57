package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/library/backend/internal/application/catalog"
	identityapp "github.com/library/backend/internal/application/identity"
	lendingapp "github.com/library/backend/internal/application/lending"
	membershipapp "github.com/library/backend/internal/application/membership"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/library/backend/internal/infrastructure/auth"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/library/backend/internal/infrastructure/logger"
	"github.com/library/backend/internal/infrastructure/persistence"
	"github.com/library/backend/internal/infrastructure/telemetry"
	"github.com/library/backend/internal/interfaces/http/handler"
	"github.com/library/backend/internal/interfaces/http/middleware"
	"github.com/library/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The OTLP log bridge needs a logger of its own before the real one exists
	bootLog, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	collector := telemetry.Collector{
		Endpoint:    cfg.Telemetry.CollectorEndpoint,
		ServiceName: serviceName,
		Insecure:    cfg.Telemetry.Insecure,
	}
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   cfg.Telemetry.LogsEnabled,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting library backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Collector:     collector,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: serviceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link profiles to spans", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite {
		// PostgreSQL schemas come from cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create SQLite schema", zap.Error(err))
		}
	}
	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        dbSystem,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	poolMetrics, err := telemetry.RegisterPoolMetrics(meterProvider.Meter("library/db"), func() (telemetry.PoolStats, error) {
		stats, err := db.Stats()
		return telemetry.PoolStats{
			MaxOpen: stats.MaxOpenConnections,
			Open:    stats.OpenConnections,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
		}, err
	})
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": db.PingContext,
	}

	// Token blacklist
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		healthChecks["redis"] = redisBlacklist.Ping
		log.Info("Token blacklist backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, revoked tokens are kept in memory")
	}

	// Lending rules
	currency := valueobject.Currency(cfg.Lending.Currency)
	damageAmount, err := valueobject.NewMoneyFromString(cfg.Lending.DamageFineAmount, currency)
	if err != nil {
		log.Fatal("Invalid damage fine amount", zap.String("amount", cfg.Lending.DamageFineAmount), zap.Error(err))
	}
	damagePolicy := lending.DamagePolicy{Reason: cfg.Lending.DamageFineReason, Amount: damageAmount}

	lendingMetrics, err := telemetry.NewLendingMetrics(meterProvider.Meter("library/lending"))
	if err != nil {
		log.Fatal("Failed to create lending metrics", zap.Error(err))
	}

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	fineRepo := persistence.NewGormFineRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	itemService := catalogapp.NewItemService(itemRepo, log)
	memberService := membershipapp.NewMemberService(memberRepo, membershipapp.MemberServiceConfig{
		RegistrationMaxAttempts: cfg.Lending.RegistrationMaxAttempts,
	}, log)
	lendingService := lendingapp.NewLendingService(txScope, loanRepo, damagePolicy, log,
		lendingapp.WithMetrics(lendingMetrics))
	fineService := lendingapp.NewFineService(fineRepo, loanRepo, currency, log,
		lendingapp.WithMetrics(lendingMetrics))

	credentials, err := auth.NewCredentials(cfg.Librarian.Username, cfg.Librarian.PasswordHash, cfg.Librarian.Password)
	if err != nil {
		log.Fatal("Invalid librarian credentials", zap.Error(err))
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(credentials, jwtService, blacklist, log)

	// Rate limiters
	var globalLimiter, loginLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		globalLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		globalLimiter.StartCleanup(ctx)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginLimiter.StartCleanup(ctx)
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Production:       cfg.IsProduction(),
		HTTP:             cfg.HTTP,
		Logger:           log,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ServiceName:      serviceName,
		ProfilingEnabled: profiler.IsEnabled(),
		GlobalLimiter:    globalLimiter,
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	router.RegisterRoutes(engine, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Item:   handler.NewItemHandler(itemService),
		Member: handler.NewMemberHandler(memberService),
		Loan:   handler.NewLoanHandler(lendingService, fineService),
		Fine:   handler.NewFineHandler(fineService),
		Health: handler.NewHealthHandler(healthChecks),
	}, router.RoutesConfig{
		Authenticator: authService,
		LoginLimiter:  loginLimiter,
		Logger:        log,
	})

	if cfg.HTTP.SwaggerEnabled {
		router.MountSwagger(engine)
		log.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	cancel()

	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}
	if err := poolMetrics.Unregister(); err != nil {
		log.Warn("Failed to unregister database pool metrics", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Error("Failed to flush logs", zap.Error(err))
	}
}
