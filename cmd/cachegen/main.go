// Command cachegen runs the offline score producers: content similarity,
// co-occurrence, recency and the weight bootstrap. Each run rewrites the
// score blobs as a unit; the serving process reloads them on demand.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/config"
	"github.com/arxrec/arxrec/internal/database"
	"github.com/arxrec/arxrec/internal/producers"
	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Cache generation failed")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	var library store.LibraryStore
	switch cfg.Library.Driver {
	case "postgres":
		library = store.NewPostgresLibrary(db.PG, logger)
	case "sqlite":
		library = store.NewSQLiteLibrary(db.SQLite, logger)
	default:
		return fmt.Errorf("unknown library driver: %s", cfg.Library.Driver)
	}

	corpus, err := store.LoadCorpus(cfg.Stores.CorpusPath)
	if err != nil {
		return err
	}
	logger.WithField("papers", len(corpus.PaperIDs)).Info("Corpus loaded")

	// Content similarity
	contentProducer := producers.NewContentProducer(library, corpus, cfg.Producers.ContentCandidates, logger)
	contentScores, err := contentProducer.Build(ctx)
	if err != nil {
		return fmt.Errorf("content producer: %w", err)
	}
	if err := store.SaveScoreBlob(cfg.Stores.ContentScorePath, contentScores); err != nil {
		return err
	}
	logger.WithField("users", len(contentScores)).Info("Content scores written")

	// Co-occurrence
	cfScores, err := producers.BuildCooccurrenceScores(ctx, library, cfg.Producers.MaxNeighbors, logger)
	if err != nil {
		return fmt.Errorf("co-occurrence producer: %w", err)
	}
	if err := store.SaveScoreBlob(cfg.Stores.CFScorePath, cfScores); err != nil {
		return err
	}
	logger.WithField("users", len(cfScores)).Info("Co-occurrence scores written")

	// Recency
	timeScores := producers.BuildRecencyScores(corpus, cfg.Producers.RecentPrefixes, logger)
	if err := store.SaveScoreBlob(cfg.Stores.RecencyScorePath, timeScores); err != nil {
		return err
	}

	// Weight bootstrap
	weights := store.NewWeightStore(cfg.Stores.WeightPath, logger)
	if err := weights.LoadOrInit(); err != nil {
		return err
	}
	defaults := map[string]float64{
		models.SignalContent: cfg.Engine.BootstrapWeights.Content,
		models.SignalCF:      cfg.Engine.BootstrapWeights.CF,
		models.SignalRecency: cfg.Engine.BootstrapWeights.Recency,
	}
	if err := producers.EnsureDefaultWeights(ctx, library, weights, defaults, logger); err != nil {
		return err
	}

	logger.Info("All caches generated")
	return nil
}
