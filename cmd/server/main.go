package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	identityapp "github.com/pokedex/backend/internal/application/identity"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/cache"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"github.com/pokedex/backend/internal/infrastructure/persistence"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
	"github.com/pokedex/backend/internal/interfaces/graphql"
	"github.com/pokedex/backend/internal/interfaces/http/handler"
	"github.com/pokedex/backend/internal/interfaces/http/middleware"
	"github.com/pokedex/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	// Only the API signs tokens, so only the API insists on a secret
	if err := cfg.JWT.Validate(); err != nil {
		panic("Invalid JWT configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	telemetry.ServiceVersion = version
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// OTLP log export: rebuild the logger with the bridge core attached
	logProvider, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		bridged, err := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    serviceName,
			LoggerProvider: logProvider,
			Level:          logger.ParseLevel(cfg.Log.Level),
		}))
		if err != nil {
			log.Fatal("Failed to attach log exporter", zap.Error(err))
		}
		log = bridged
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Pokedex API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(cfg.Profiling, serviceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	metrics := telemetry.NewMetrics()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.SQLDB(); err == nil {
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and the lookup cache when enabled
	var redisClient *redis.Client
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	cacheOpts := []cache.FactoryOption{
		cache.WithLogger(log),
		cache.WithLookupRecorder(metrics),
	}
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		cacheOpts = append(cacheOpts, cache.WithRedisClient(redisClient))
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled: revoked tokens are tracked in memory and lost on restart")
	}
	pokemonCache, closeCache := cache.NewPokemonCache(cfg.Cache, cacheOpts...)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	userRepo := persistence.NewGormUserRepository(db.DB)
	pokemonRepo := persistence.NewGormPokemonRepository(db.DB)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	pokemonService := catalogapp.NewPokemonService(pokemonRepo, pokemonCache, cfg.Cache.TTL, log)

	// GraphQL
	resolver := graphql.NewResolver(pokemonService, authService, log)
	schema, err := graphql.NewSchema(resolver, cfg.GraphQL.MaxDepth, log)
	if err != nil {
		log.Fatal("Failed to build GraphQL schema", zap.Error(err))
	}
	graphqlHandler := graphql.NewHandler(schema, graphql.HandlerConfig{
		Path:       cfg.GraphQL.Path,
		Playground: cfg.GraphQL.Playground,
		Metrics:    metrics,
		Logger:     log,
	})

	// Health checks
	checks := []handler.DependencyCheck{
		{Name: "database", Check: db.PingContext},
	}
	if redisClient != nil {
		checks = append(checks, handler.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	healthHandler := handler.NewHealthHandler(version, log, checks...)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID so every later log line and span can carry it
	// 2. Access log and panic recovery
	// 3. Tracing, then span enrichment and metrics inside the server span
	// 4. Security headers, CORS, rate limiting and body size limit
	// 5. OptionalAuth last so resolvers see the principal
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(serviceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.TraceAttributes())
	engine.Use(middleware.HTTPMetrics(metrics))
	engine.Use(middleware.ProfilingLabels(profiler.IsEnabled()))

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.SecureWithConfig(securityCfg))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.OptionalAuth(middleware.AuthConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}))

	r := router.NewRouter(engine).
		Register(healthHandler).
		Register(graphqlHandler)
	if cfg.Metrics.Enabled {
		scrape := router.NewDomainGroup("metrics", "").
			Handle(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
		r.Register(scrape)
		log.Info("Metrics endpoint enabled", zap.String("group", scrape.Name()), zap.String("path", cfg.Metrics.Path))
	}
	r.Setup()
	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("route", route))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if err := closeCache(); err != nil {
		log.Warn("Error closing cache", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down log exporter", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
