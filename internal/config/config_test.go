package config

import (
	"os"
	"path/filepath"
	"testing"

	"dummymodule/internal/expr"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Limits.MaxLen != 512 {
		t.Errorf("expected MaxLen=512, got %d", cfg.Limits.MaxLen)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
	if cfg.Metrics.Textfile != "" {
		t.Errorf("expected metrics textfile disabled, got %s", cfg.Metrics.Textfile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultLimitsMatchEvaluator(t *testing.T) {
	if got, want := DefaultConfig().EvaluatorLimits(), expr.DefaultLimits(); got != want {
		t.Errorf("default limits drifted: config %+v, evaluator %+v", got, want)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Limits.MaxDigitsPerNumber = 9
	cfg.Logging.Format = "console"
	cfg.Metrics.Textfile = "/var/lib/node_exporter/dummymodule.prom"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Limits.MaxDigitsPerNumber != 9 {
		t.Errorf("expected MaxDigitsPerNumber=9, got %d", loaded.Limits.MaxDigitsPerNumber)
	}
	if loaded.Logging.Format != "console" {
		t.Errorf("expected Format=console, got %s", loaded.Logging.Format)
	}
	if loaded.Metrics.Textfile != cfg.Metrics.Textfile {
		t.Errorf("expected Textfile=%s, got %s", cfg.Metrics.Textfile, loaded.Metrics.Textfile)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits:\n  max_terms: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Limits.MaxTerms != 4 {
		t.Errorf("expected MaxTerms=4, got %d", cfg.Limits.MaxTerms)
	}
	if cfg.Limits.MaxFactors != 128 {
		t.Errorf("expected default MaxFactors=128, got %d", cfg.Limits.MaxFactors)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Limits.MaxLen != 512 {
		t.Errorf("expected defaults, got %+v", cfg.Limits)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected defaults, got %+v", cfg.Logging)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxTerms = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for max_terms=0")
	}

	cfg = DefaultConfig()
	cfg.Limits.MaxDigitsPerNumber = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative max_digits_per_number")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown level")
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown format")
	}
}
