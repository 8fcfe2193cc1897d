package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agriguard/agriguard/internal/api"
	"github.com/agriguard/agriguard/internal/config"
	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/pipeline"
	"github.com/agriguard/agriguard/internal/report"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	classifier, err := report.ClassifierFromFile(cfg.ClassifierRulesFile)
	if err != nil {
		log.Error("failed to load classifier rules", "path", cfg.ClassifierRulesFile, "error", err)
		os.Exit(1)
	}
	seg := report.NewSegmenter(classifier)

	// The Gemini client is optional: without a key, segmentation endpoints
	// still work and diagnosis requests report the missing configuration.
	var gemini *diagnose.GeminiClient
	var gen diagnose.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err = diagnose.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, diagnose.NewLLMStats(time.Hour))
		if err != nil {
			log.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		gen = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set; diagnosis disabled")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, gen, seg, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, gemini, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.GenerateTimeout*pipeline.MaxRetries + 60*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting agriguard", "port", cfg.Port, "model", cfg.GeminiModel, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
