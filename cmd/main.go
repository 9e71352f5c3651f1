package main

import (
	"fmt"
	"os"

	"github.com/pagecraft/doctree-backend/internal/clients/redis"
	"github.com/pagecraft/doctree-backend/internal/db"
	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/logger"
	"github.com/pagecraft/doctree-backend/internal/repos"
	"github.com/pagecraft/doctree-backend/internal/services"
	"github.com/pagecraft/doctree-backend/internal/utils"
)

// Bootstrap entry: opens the database, runs migrations and verifies the
// collaborator wiring. The HTTP layer that fronts DocumentService lives
// outside this repository.
func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	mode := doctree.ParseBuilderMode(utils.GetEnv("BUILDER_MODE", "breakdance", log))

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	conn := dbService.DB()

	// Repos
	docRepo := repos.NewDocumentRepo(conn, log)

	// Cache invalidation is optional wiring; without Redis the engine
	// still works, saves just skip the signal.
	invalidator, err := redis.NewCacheInvalidator(log, mode)
	if err != nil {
		log.Warn("Cache invalidator init failed, saves will not signal", "error", err)
		invalidator = nil
	}
	if invalidator != nil {
		defer invalidator.Close()
	}

	_ = services.NewDocumentService(conn, log, docRepo, invalidator, mode)
	log.Info("doctree-backend ready", "builder_mode", string(mode))
}
