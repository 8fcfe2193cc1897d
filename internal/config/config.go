package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/agriguard/agriguard/internal/locale"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	// Auth; empty disables it.
	APIKey string

	// Gemini generation
	GeminiAPIKey    string
	GeminiModel     string
	GenerateTimeout time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Request limits
	MaxUploadBytes      int64
	MaxDescriptionChars int

	// Job state
	JobTTL time.Duration

	// Segmentation
	ClassifierRulesFile string
	DefaultLanguage     locale.Language

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		APIKey: os.Getenv("AGRIGUARD_API_KEY"),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-flash-latest"),
		GenerateTimeout: envDuration("GENERATE_TIMEOUT", 90*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes:      envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		MaxDescriptionChars: envInt("MAX_DESCRIPTION_CHARS", 4000),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ClassifierRulesFile: os.Getenv("CLASSIFIER_RULES_FILE"),
		DefaultLanguage:     locale.Language(strings.ToLower(envOr("DEFAULT_LANGUAGE", string(locale.Default)))),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxDescriptionChars <= 0 {
		cfg.MaxDescriptionChars = 4000
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 90 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate reports settings the service cannot start with. A missing
// GEMINI_API_KEY is not one of them: segmentation works without it and
// diagnosis requests report the missing key.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	if _, err := locale.Parse(string(c.DefaultLanguage)); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_LANGUAGE: %w", err))
	}
	if c.ClassifierRulesFile != "" {
		if _, err := os.Stat(c.ClassifierRulesFile); err != nil {
			errs = append(errs, fmt.Errorf("CLASSIFIER_RULES_FILE: %w", err))
		}
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
