package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"NewscastDigest/internal/config"
	"NewscastDigest/internal/infrastructure/analysis"
	"NewscastDigest/internal/infrastructure/scheduler"
	"NewscastDigest/internal/infrastructure/scraper"
	"NewscastDigest/internal/infrastructure/storage"
	"NewscastDigest/internal/infrastructure/wechat"
	"NewscastDigest/internal/logging"
	"NewscastDigest/internal/ports"
	"NewscastDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := scraper.NewTranscriptScanner(
		cfg.Source.DayURL,
		cfg.Source.ContentSelector,
		nil,
		baseLogger.With("component", "scraper"),
	)

	store := storage.NewJSONStore(cfg.Storage.DataFile)

	var archive ports.Archive
	if cfg.Storage.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			baseLogger.Error("archive disabled, cannot open database", "error", err)
		} else {
			archive = storage.NewPostgresArchive(db)
		}
	}

	publisher := wechat.NewClient(cfg.WeChat, baseLogger.With("component", "wechat"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Parser:     scraper.NewStructuredParser(),
		Store:      store,
		Archive:    archive,
		Publisher:  publisher,
		Counter:    analysis.NewKeywordCounter(),
		Renderer:   analysis.NewCloudRenderer(cfg.Analysis.FontFile),
		Logger:     baseLogger.With("component", "pipeline"),
		StartDay:   cfg.Range.StartDay,
		EndDay:     cfg.Range.EndDay,
		Author:     cfg.WeChat.Author,
		ImageDir:   cfg.Analysis.ImageDir,
		Categories: toCategories(cfg.Analysis.Categories),
		Workers:    cfg.Workers,
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
}

// Run executes a single pipeline pass, or keeps rerunning it on the
// configured cron schedule until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	logger := a.logger.With("run_id", uuid.NewString())
	logger.Info("application starting")

	if spec := a.cfg.Scheduler.CronExpression; spec != "" {
		sched := usecase.NewScheduler(scheduler.NewCronScheduler(spec), a.pipeline, logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		logger.Info("scheduled mode", "cron", spec)
		<-ctx.Done()
		return sched.Stop(context.Background())
	}

	return a.pipeline.Run(ctx)
}

func toCategories(cfg []config.CategoryConfig) []usecase.Category {
	categories := make([]usecase.Category, 0, len(cfg))
	for _, cat := range cfg {
		categories = append(categories, usecase.Category{
			Name:        cat.Name,
			KeywordFile: cat.KeywordFile,
			ImageBase:   cat.ImageBase,
			Title:       cat.Title,
		})
	}
	return categories
}
