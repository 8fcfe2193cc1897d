package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agriguard/agriguard/internal/locale"
)

var allKeys = []string{
	"PORT", "LOG_LEVEL", "AGRIGUARD_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL",
	"GENERATE_TIMEOUT", "WORKER_COUNT", "MAX_QUEUE_SIZE", "MAX_UPLOAD_BYTES",
	"MAX_DESCRIPTION_CHARS", "JOB_TTL", "CLASSIFIER_RULES_FILE",
	"DEFAULT_LANGUAGE", "PDF_FALLBACK_PDFTOTEXT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-flash-latest" {
		t.Errorf("expected default model, got %q", cfg.GeminiModel)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("expected 4 workers and queue 100, got %d and %d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.DefaultLanguage != locale.English {
		t.Errorf("expected en, got %q", cfg.DefaultLanguage)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("GENERATE_TIMEOUT", "30s")
	t.Setenv("DEFAULT_LANGUAGE", "HI")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("expected model override, got %q", cfg.GeminiModel)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.WorkerCount)
	}
	if cfg.GenerateTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.GenerateTimeout)
	}
	if cfg.DefaultLanguage != locale.Hindi {
		t.Errorf("expected hi, got %q", cfg.DefaultLanguage)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback off")
	}
}

func TestLoad_ClampsInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("MAX_QUEUE_SIZE", "zero")
	t.Setenv("JOB_TTL", "-5m")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected fallback queue size 100, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected clamped TTL 1h, got %v", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(rules, []byte("- category: treatment\n  keywords: [dose]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	cfg.ClassifierRulesFile = rules
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.Port = "http"
	cfg.DefaultLanguage = "fr"
	cfg.ClassifierRulesFile = filepath.Join(t.TempDir(), "missing.yaml")
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"PORT", "DEFAULT_LANGUAGE", "CLASSIFIER_RULES_FILE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}
