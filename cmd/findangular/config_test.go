package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateConfigCreatesDefaultFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "findangular.toml")

	cfg, created, err := LoadOrCreateConfig(cfgPath)
	if err != nil {
		t.Fatalf("load or create config: %v", err)
	}
	if !created {
		t.Fatalf("expected config file to be created")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file on disk: %v", err)
	}

	defaults := DefaultAppConfig()
	if cfg.Input.Path != defaults.Input.Path {
		t.Fatalf("unexpected default input path: got=%q want=%q", cfg.Input.Path, defaults.Input.Path)
	}
	if cfg.Compute.Threads != defaults.Compute.Threads {
		t.Fatalf("unexpected default threads: got=%d want=%d", cfg.Compute.Threads, defaults.Compute.Threads)
	}
}

func TestLoadOrCreateConfigMergesWithDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "findangular.toml")
	content := `
[input]
path = ./stars/custom.csv
max_records = 50000 ; ingestion guardrail

[compute]
threads = 8 # worker goroutines

[output]
force_plain = true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, created, err := LoadOrCreateConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if created {
		t.Fatalf("did not expect config creation when file already exists")
	}

	defaults := DefaultAppConfig()
	if cfg.Input.Path != "./stars/custom.csv" {
		t.Fatalf("unexpected input path: %q", cfg.Input.Path)
	}
	if cfg.Input.MaxRecords != 50000 {
		t.Fatalf("unexpected max_records: %d", cfg.Input.MaxRecords)
	}
	if cfg.Compute.Threads != 8 {
		t.Fatalf("unexpected threads: %d", cfg.Compute.Threads)
	}
	if !cfg.Output.ForcePlain {
		t.Fatalf("expected force_plain=true")
	}
	if cfg.Output.Precision != defaults.Output.Precision {
		t.Fatalf("expected default precision=%d, got=%d", defaults.Output.Precision, cfg.Output.Precision)
	}
	if cfg.Resources.MemoryBudgetPercent != defaults.Resources.MemoryBudgetPercent {
		t.Fatalf("expected default memory_budget_percent=%d, got=%d", defaults.Resources.MemoryBudgetPercent, cfg.Resources.MemoryBudgetPercent)
	}
}

func TestLoadOrCreateConfigRejectsUnknownKeys(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "findangular.toml")
	content := "[compute]\nthread_count = 4\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadOrCreateConfig(cfgPath); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadOrCreateConfigRejectsKeysOutsideSections(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "findangular.toml")
	content := "threads = 4\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadOrCreateConfig(cfgPath); err == nil {
		t.Fatalf("expected error for key outside section")
	}
}

func TestNormalizeClampsOutOfRangeValues(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Output.Precision = 40
	cfg.Resources.MemoryBudgetPercent = 99
	cfg.normalize()

	if cfg.Output.Precision != 17 {
		t.Fatalf("precision not clamped: %d", cfg.Output.Precision)
	}
	if cfg.Resources.MemoryBudgetPercent != 95 {
		t.Fatalf("memory budget percent not clamped: %d", cfg.Resources.MemoryBudgetPercent)
	}
}
