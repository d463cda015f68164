package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultConfigPath = "findangular.toml"

type AppConfig struct {
	Input     InputConfig
	Compute   ComputeConfig
	Output    OutputConfig
	Resources ResourcesConfig
}

type InputConfig struct {
	Path       string
	MaxRecords int
}

type ComputeConfig struct {
	// Threads is the worker count for the pairwise reduction. 0 selects a
	// default from the CPU count; negative values are rejected before any
	// work starts.
	Threads int
}

type OutputConfig struct {
	Precision  int
	ForcePlain bool
}

type ResourcesConfig struct {
	MaxWorkers          int
	MemoryBudgetPercent int
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Input: InputConfig{
			Path:       "data/tycho-trimmed.csv",
			MaxRecords: 0,
		},
		Compute: ComputeConfig{
			Threads: 1,
		},
		Output: OutputConfig{
			Precision:  6,
			ForcePlain: false,
		},
		Resources: ResourcesConfig{
			MaxWorkers:          0,
			MemoryBudgetPercent: 80,
		},
	}
}

func LoadOrCreateConfig(path string) (AppConfig, bool, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, false, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := writeDefaultConfig(path, cfg); err != nil {
			return cfg, false, err
		}
		return cfg, true, nil
	}

	if len(data) > 0 {
		if err := parseConfig(data, &cfg); err != nil {
			return cfg, false, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.normalize()
	return cfg, false, nil
}

func writeDefaultConfig(path string, cfg AppConfig) error {
	body := []byte(renderConfig(cfg))
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write default config %q: %w", path, err)
	}
	return nil
}

func parseConfig(data []byte, cfg *AppConfig) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	section := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("line %d: expected key=value", lineNo)
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := cleanConfigValue(parts[1])

		switch section {
		case "input":
			if err := parseInputKey(cfg, key, value, lineNo); err != nil {
				return err
			}
		case "compute":
			if err := parseComputeKey(cfg, key, value, lineNo); err != nil {
				return err
			}
		case "output":
			if err := parseOutputKey(cfg, key, value, lineNo); err != nil {
				return err
			}
		case "resources":
			if err := parseResourcesKey(cfg, key, value, lineNo); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: key %q outside known section", lineNo, key)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func cleanConfigValue(raw string) string {
	v := strings.TrimSpace(stripInlineComment(raw))
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			v = v[1 : len(v)-1]
		}
	}
	return strings.TrimSpace(v)
}

func stripInlineComment(raw string) string {
	inQuote := byte(0)
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if inQuote != 0 {
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			inQuote = ch
			continue
		}
		if ch == '#' || ch == ';' {
			if i == 0 || raw[i-1] == ' ' || raw[i-1] == '\t' {
				return strings.TrimSpace(raw[:i])
			}
		}
	}
	return strings.TrimSpace(raw)
}

func parseInputKey(cfg *AppConfig, key, value string, lineNo int) error {
	switch key {
	case "path":
		cfg.Input.Path = value
	case "max_records":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid int for input.max_records", lineNo)
		}
		cfg.Input.MaxRecords = n
	default:
		return fmt.Errorf("line %d: unknown key %q in [input]", lineNo, key)
	}
	return nil
}

func parseComputeKey(cfg *AppConfig, key, value string, lineNo int) error {
	switch key {
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid int for compute.threads", lineNo)
		}
		cfg.Compute.Threads = n
	default:
		return fmt.Errorf("line %d: unknown key %q in [compute]", lineNo, key)
	}
	return nil
}

func parseOutputKey(cfg *AppConfig, key, value string, lineNo int) error {
	switch key {
	case "precision":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid int for output.precision", lineNo)
		}
		cfg.Output.Precision = n
	case "force_plain":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid bool for output.force_plain", lineNo)
		}
		cfg.Output.ForcePlain = b
	default:
		return fmt.Errorf("line %d: unknown key %q in [output]", lineNo, key)
	}
	return nil
}

func parseResourcesKey(cfg *AppConfig, key, value string, lineNo int) error {
	switch key {
	case "max_workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid int for resources.max_workers", lineNo)
		}
		cfg.Resources.MaxWorkers = n
	case "memory_budget_percent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid int for resources.memory_budget_percent", lineNo)
		}
		cfg.Resources.MemoryBudgetPercent = n
	default:
		return fmt.Errorf("line %d: unknown key %q in [resources]", lineNo, key)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool: %s", value)
	}
}

func renderConfig(cfg AppConfig) string {
	return fmt.Sprintf(`# findangular configuration (TOML style)

[input]
path = %s
max_records = %d

[compute]
# 0 selects a default derived from the CPU count
threads = %d

[output]
precision = %d
force_plain = %t

[resources]
max_workers = %d
memory_budget_percent = %d
`, cfg.Input.Path, cfg.Input.MaxRecords,
		cfg.Compute.Threads,
		cfg.Output.Precision, cfg.Output.ForcePlain,
		cfg.Resources.MaxWorkers, cfg.Resources.MemoryBudgetPercent)
}

func (c *AppConfig) normalize() {
	defaults := DefaultAppConfig()

	if c.Input.Path == "" {
		c.Input.Path = defaults.Input.Path
	}
	if c.Input.MaxRecords < 0 {
		c.Input.MaxRecords = defaults.Input.MaxRecords
	}

	if c.Output.Precision < 0 {
		c.Output.Precision = defaults.Output.Precision
	}
	if c.Output.Precision > 17 {
		c.Output.Precision = 17
	}

	if c.Resources.MaxWorkers < 0 {
		c.Resources.MaxWorkers = defaults.Resources.MaxWorkers
	}
	if c.Resources.MemoryBudgetPercent <= 0 {
		c.Resources.MemoryBudgetPercent = defaults.Resources.MemoryBudgetPercent
	}
	if c.Resources.MemoryBudgetPercent < 10 {
		c.Resources.MemoryBudgetPercent = 10
	}
	if c.Resources.MemoryBudgetPercent > 95 {
		c.Resources.MemoryBudgetPercent = 95
	}
}
