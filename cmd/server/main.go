// Package main initializes and starts the flashcard study server,
// setting up configuration, logging, the database, the cache,
// repositories, services, handlers, and background jobs.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/avoronin/cardbox/internal/cache"
	"github.com/avoronin/cardbox/internal/config"
	"github.com/avoronin/cardbox/internal/db"
	"github.com/avoronin/cardbox/internal/jobs"
	"github.com/avoronin/cardbox/internal/logger"
	"github.com/avoronin/cardbox/internal/repository"
	"github.com/avoronin/cardbox/internal/server/handler/http"
	"github.com/avoronin/cardbox/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	database, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// One shared read cache in front of the repositories.
	readCache := cache.New(options.CacheTTL)

	// Initialize repositories.
	cardRepo := repository.NewFlashcardRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	// Initialize business-logic services.
	studyService := service.NewStudyService(cardRepo, categoryRepo, statsRepo, readCache, zapLogger)
	statsService := service.NewStatsService(statsRepo, readCache)

	// Create HTTP handlers.
	categoryHandler := &http.CategoryHandler{CategoryService: studyService}
	cardHandler := &http.CardHandler{CardService: studyService}
	studyHandler := &http.StudyHandler{StudyService: studyService}
	statsHandler := &http.StatsHandler{StatsService: statsService}

	// Build the router with middleware and routes.
	router := http.NewRouter(categoryHandler, cardHandler, studyHandler, statsHandler, zapLogger)

	// Start background maintenance: cache sweeping and removal of
	// soft-deleted cards past their retention.
	background := jobs.New(database, readCache, options.DeletedRetention, zapLogger)
	background.Start(context.Background())
	defer background.Stop()

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
