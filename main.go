package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	api "summarizer-backend/cmd/api"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/internal/summary/scheduler"
	"summarizer-backend/internal/summary/usecase"
	"summarizer-backend/pkg/ai"
	"summarizer-backend/pkg/config"
	"summarizer-backend/pkg/database"
	"summarizer-backend/pkg/feed"
	"summarizer-backend/pkg/logger"
	"summarizer-backend/pkg/scraper"
	"summarizer-backend/pkg/sse"
)

func main() {
	boot := logger.Bootstrap()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot.Fatalw("failed to load config", "error", err)
	}

	log, err := logger.New(logger.Options{
		Dir:     cfg.Log.Dir,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
	if err != nil {
		boot.Fatalw("failed to initialise logger", "error", err)
	}

	err = run(cfg, log)
	_ = log.Sync()
	if err != nil {
		boot.Errorw("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	summaryRepo, pinger, closeDB, err := openStorage(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB()

	// Runtime settings feed the Ollama provider on every call
	settings := api.NewSettingsHandler(cfg.Summarizer.Ollama.BaseURL, cfg.Summarizer.Ollama.Model, log)

	aiService, err := ai.NewSummarizerService(ctx, ai.Config{
		Provider:          ai.ProviderType(cfg.Summarizer.Provider),
		Fallback:          ai.ProviderType(cfg.Summarizer.Fallback),
		Sentences:         cfg.Summarizer.Sentences,
		MaxInputChars:     cfg.Summarizer.MaxInputChars,
		MaxTokens:         cfg.Summarizer.MaxTokens,
		SystemInstruction: cfg.Summarizer.SystemInstruction,
		GetOllamaBaseURL:  settings.OllamaBaseURL,
		GetOllamaModel:    settings.OllamaModel,
		GeminiAPIKey:      cfg.Summarizer.Gemini.APIKey,
		GeminiModel:       cfg.Summarizer.Gemini.Model,
		BedrockRegion:     cfg.Summarizer.Bedrock.Region,
		BedrockModel:      cfg.Summarizer.Bedrock.Model,
		BedrockAPIKey:     cfg.Summarizer.Bedrock.APIKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialise summarizer: %w", err)
	}
	log.Infow("summarizer initialised", "provider", aiService.Name())

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	fetcher := scraper.NewContentFetcher(scraper.Config{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
		MaxBytes:  cfg.Scraper.MaxBytes,
	})

	// Initialize SummaryWorkerService for background summaries
	worker := usecase.NewSummaryWorkerService(summaryRepo, fetcher, aiService, sseManager, usecase.SummaryWorkerConfig{
		Workers:    cfg.Summarizer.Workers,
		QueueSize:  cfg.Summarizer.QueueSize,
		JobTimeout: cfg.Summarizer.JobTimeout,
	}, log)
	worker.Start()

	schedCfg := scheduler.Config{
		Interval:    cfg.Scheduler.Interval,
		RetryAfter:  cfg.Scheduler.RetryAfter,
		BatchSize:   cfg.Scheduler.BatchSize,
		MaxAttempts: cfg.Scheduler.MaxAttempts,
	}
	if aiService.Name() == string(ai.ProviderNoop) {
		// Nothing would ever fill the pending records
		schedCfg.Interval = 0
	}
	pendingScheduler := scheduler.NewPendingSummaryScheduler(summaryRepo, worker, schedCfg, log)
	pendingScheduler.Start()

	summaryUc := usecase.NewSummaryUsecase(summaryRepo, worker, feed.NewReader(cfg.Scraper.Timeout, cfg.Scraper.UserAgent), log)

	// Initialize HTTP handler
	handler := api.NewHandler(summaryUc, settings, sseManager, pinger, cfg, log)
	srv := handler.NewServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server starting", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		pendingScheduler.Stop()
		worker.Stop()
		// Ends open event streams so Shutdown does not wait on them
		sseManager.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// openStorage returns the repository for cfg.Driver, a health pinger (nil for
// the in-memory store) and a close func
func openStorage(cfg config.Database, log *zap.SugaredLogger) (repository.SummaryRepository, database.Pinger, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn("using in-memory storage, records are lost on restart")
		return repository.NewMemorySummaryRepository(), nil, func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&domain.TextSummary{}); err != nil {
		database.Close(db)
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		database.Close(db)
		return nil, nil, nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	log.Infow("database connected", "driver", cfg.Driver)

	closeDB := func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}
	return repository.NewGormSummaryRepository(db), sqlDB, closeDB, nil
}
