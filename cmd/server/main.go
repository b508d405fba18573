package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scythe504/stopgo-backend/internal/assets"
	"github.com/scythe504/stopgo-backend/internal/config"
	"github.com/scythe504/stopgo-backend/internal/game"
	"github.com/scythe504/stopgo-backend/internal/quiz"
	"github.com/scythe504/stopgo-backend/internal/server"
)

func main() {
	config.InitConfig()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("[main] logger: %v", err)
	}
	entry := log.NewEntry(logger)

	pool, err := buildPool(cfg, entry)
	if err != nil {
		entry.Fatalf("[main] trivia: %v", err)
	}

	var provider quiz.Provider
	if cfg.QuizURL != "" {
		provider = quiz.NewHTTPProvider(cfg.QuizURL, entry)
		entry.Infof("[main] quiz questions from %s", cfg.QuizURL)
	}

	var preloader assets.Preloader
	if len(cfg.AssetURLs) > 0 {
		preloader = assets.NewHTTPPreloader(entry)
	}

	manager := game.NewManager(func() game.Options {
		return game.Options{
			Tuning:         cfg.Tuning,
			Quiz:           provider,
			Fallback:       pool,
			Preloader:      preloader,
			AssetURLs:      cfg.AssetURLs,
			PreloadTimeout: cfg.PreloadTimeout,
		}
	}, cfg.SessionIdle, entry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.NewServer(cfg.Addr, manager, entry).ListenAndServe(ctx)
	})
	g.Go(func() error {
		return manager.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		entry.Fatalf("[main] server stopped: %v", err)
	}
	entry.Info("[main] bye")
}

// buildPool returns the embedded trivia set, extended with the operator's CSV
// file when one is configured.
func buildPool(cfg config.Config, logger *log.Entry) (*quiz.Pool, error) {
	pool := quiz.DefaultPool()
	if cfg.TriviaCSV == "" {
		return pool, nil
	}
	questions, err := quiz.ReadCSVFile(cfg.TriviaCSV)
	if err != nil {
		return nil, err
	}
	pool.Add(questions...)
	logger.Infof("[buildPool] loaded %d questions from %s (pool=%d)", len(questions), cfg.TriviaCSV, pool.Len())
	return pool, nil
}
