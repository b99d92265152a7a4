package main

import (
	"context"

	internalconfig "github.com/Sarobii/microme/internal/config"
	"github.com/Sarobii/microme/internal/ingest"
	"github.com/Sarobii/microme/internal/lexicon"
	"github.com/Sarobii/microme/internal/persona"
	"github.com/Sarobii/microme/internal/pipeline"
	"github.com/Sarobii/microme/internal/simulation"
	"github.com/Sarobii/microme/internal/store"
	"github.com/Sarobii/microme/internal/strategy"
	"github.com/Sarobii/microme/internal/transparency"
	"github.com/Sarobii/microme/pkg/auth"
	"github.com/Sarobii/microme/pkg/cache"
	"github.com/Sarobii/microme/pkg/config"
	"github.com/Sarobii/microme/pkg/database"
	"github.com/Sarobii/microme/pkg/logging"
	"github.com/Sarobii/microme/pkg/monitoring"
	"github.com/Sarobii/microme/pkg/server"
	"github.com/Sarobii/microme/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("microme")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting microme (post-history analysis pipeline)")

	cfg := internalconfig.Load()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	st := store.NewSQLStore(db)
	if err := st.EnsureSchema(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to ensure database schema")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("microme", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("microme", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   cfg.JWTSecret,
	}))

	// Lexicons and templates are immutable; load once and inject.
	lex, err := lexicon.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load lexicon configuration")
	}

	orchestrator := pipeline.NewOrchestrator(
		st,
		ingest.NewService(st, logger),
		persona.NewAnalyzer(lex),
		strategy.NewGenerator(),
		transparency.NewBuilder(),
		simulation.NewSimulator(),
		logger,
	)

	artifactCache := cache.New(cache.Options{
		TTL:        cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
	})
	handler := pipeline.NewHandler(orchestrator, st, artifactCache, logger)

	// Setup router with unified monitoring (health/metrics only)
	router := server.SetupServiceRouter(logger, "microme", healthChecker, metricsCollector)
	apiGroup := router.Group("/api")
	apiGroup.Use(auth.JWTAuthMiddleware([]byte(cfg.JWTSecret)))
	handler.RegisterRoutes(apiGroup)

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("microme", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
