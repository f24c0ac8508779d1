package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/config"
	"github.com/arxrec/arxrec/internal/database"
	"github.com/arxrec/arxrec/internal/engine"
	"github.com/arxrec/arxrec/internal/messaging"
	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

// App wires the stores, the engine and the optional feedback bus for one
// process run.
type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	engine   *engine.Engine
	feedback *messaging.FeedbackBus
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	library, err := libraryStore(cfg, db, app.logger)
	if err != nil {
		return nil, err
	}

	// A missing or malformed score blob refuses startup: serving on
	// partial signals would silently skew every ranking.
	signals := store.NewSignalStore(cfg.Stores, app.logger)
	if err := signals.Load(); err != nil {
		return nil, fmt.Errorf("failed to load signal stores: %w", err)
	}

	weights := store.NewWeightStore(cfg.Stores.WeightPath, app.logger)
	if err := weights.Load(); err != nil {
		return nil, fmt.Errorf("failed to load weight store: %w", err)
	}

	// No followee provider exists yet; the engine treats nil as a provider
	// with no followees.
	app.engine = engine.New(signals, weights, library, nil, db.Redis, &cfg.Engine, app.logger)

	if len(cfg.Kafka.Brokers) > 0 {
		bus, err := messaging.NewFeedbackBus(&cfg.Kafka, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize feedback bus: %w", err)
		}
		app.feedback = bus
	}

	return app, nil
}

func libraryStore(cfg *config.Config, db *database.Database, logger *logrus.Logger) (store.LibraryStore, error) {
	switch cfg.Library.Driver {
	case "postgres":
		return store.NewPostgresLibrary(db.PG, logger), nil
	case "sqlite":
		return store.NewSQLiteLibrary(db.SQLite, logger), nil
	default:
		return nil, fmt.Errorf("unknown library driver: %s", cfg.Library.Driver)
	}
}

// Engine exposes the recommendation engine to callers embedding the app.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Start launches the feedback consumer when a bus is configured. It
// returns immediately; the consumer stops when ctx is canceled.
func (a *App) Start(ctx context.Context) {
	if a.feedback == nil {
		a.logger.Info("Feedback bus disabled, accepting feedback via direct calls only")
		return
	}

	go func() {
		err := a.feedback.ConsumeFeedback(ctx, func(ctx context.Context, event models.FeedbackEvent) error {
			return a.engine.RecordFeedback(ctx, event.UserID, event.PaperID)
		})
		if err != nil && ctx.Err() == nil {
			a.logger.WithError(err).Error("Feedback consumer stopped")
		}
	}()

	a.logger.Info("Feedback consumer started")
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.feedback != nil {
		if err := a.feedback.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing feedback bus")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
