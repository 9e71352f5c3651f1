package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pagecraft/doctree-backend/internal/clients/redis"
	"github.com/pagecraft/doctree-backend/internal/db"
	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/logger"
	"github.com/pagecraft/doctree-backend/internal/repos"
	"github.com/pagecraft/doctree-backend/internal/services"
	"github.com/pagecraft/doctree-backend/internal/utils"
)

type idList []int

func (l *idList) String() string {
	parts := make([]string, len(*l))
	for i, id := range *l {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(v string) error {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*l = append(*l, id)
	return nil
}

// Maintenance sweep: loads stored documents, re-runs the integrity pass
// and validation, reports issue counts and (unless dry-run) resaves the
// canonical form so caches regenerate.
func main() {
	var ids idList
	var dryRun bool
	var limit int
	flag.Var(&ids, "id", "document id to revalidate (repeatable; default all)")
	flag.BoolVar(&dryRun, "dry-run", false, "report without resaving")
	flag.IntVar(&limit, "limit", 0, "limit number of documents processed")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	mode := doctree.ParseBuilderMode(utils.GetEnv("BUILDER_MODE", "breakdance", log))

	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	conn := dbService.DB()
	docRepo := repos.NewDocumentRepo(conn, log)

	var invalidator redis.CacheInvalidator
	if !dryRun {
		invalidator, err = redis.NewCacheInvalidator(log, mode)
		if err != nil {
			log.Warn("Cache invalidator init failed, resaves will not signal", "error", err)
			invalidator = nil
		} else {
			defer invalidator.Close()
		}
	}

	docService := services.NewDocumentService(conn, log, docRepo, invalidator, mode)
	ctx := context.Background()

	if len(ids) == 0 {
		all, err := docRepo.ListIDs(ctx, nil, limit)
		if err != nil {
			log.Error("Listing document ids failed", "error", err)
			os.Exit(1)
		}
		ids = all
	} else if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	failed := 0
	for _, id := range ids {
		tree, err := docService.Get(ctx, id)
		if err != nil {
			log.Warn("Skipping document", "document_id", id, "error", err)
			failed++
			continue
		}
		result := docService.Validate(tree)
		log.Info("Revalidated document",
			"document_id", id,
			"valid", result.Valid,
			"errors", result.ErrorCount,
			"warnings", result.WarningCount,
		)
		for _, issue := range result.Errors {
			log.Debug("Validation error", "document_id", id, "code", issue.Code, "path", issue.Path, "message", issue.Message)
		}
		if dryRun {
			continue
		}
		if _, err := docService.Save(ctx, id, tree); err != nil {
			log.Warn("Resave failed", "document_id", id, "error", err)
			failed++
		}
	}

	log.Info("Sweep complete", "processed", len(ids), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
