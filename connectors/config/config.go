package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	dc "stage-dashboard/domain/config"
	"stage-dashboard/domain/progress"

	"gopkg.in/yaml.v3"
)

type Config = dc.Config

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./config.yml"

// Defaults returns the published feeds the dashboard shipped with.
func Defaults() *Config {
	return &Config{
		Datasets: []dc.Dataset{
			{ID: "2025", URL: "https://docs.google.com/spreadsheets/d/e/2PACX-1vQ6VzfDGFdbH04pR3UulzwqT4XrDqJku3UEBdfPAyMYuqbq8uP1kN1Mx2tm2uA5ug/pub?gid=1933262051&single=true&output=csv"},
			{ID: "2026", URL: "https://docs.google.com/spreadsheets/d/e/2PACX-1vQ6VzfDGFdbH04pR3UulzwqT4XrDqJku3UEBdfPAyMYuqbq8uP1kN1Mx2tm2uA5ug/pub?gid=504234142&single=true&output=csv"},
		},
	}
}

// Path resolves the config location from CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return &c, nil
}

// LoadOrDefault loads path, falling back to Defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("config.default", "path", path, "reason", "file not found")
		return Defaults(), nil
	}
	return c, err
}

func validate(c *Config) error {
	seen := map[string]bool{}
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("datasets[%d]: id is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("datasets[%d]: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = true
		if strings.TrimSpace(d.URL) == "" {
			return fmt.Errorf("datasets[%d] %q: url is required", i, d.ID)
		}
	}
	if _, ok := progress.ParseFailurePolicy(c.Dashboard.OnFailure); !ok {
		return fmt.Errorf("dashboard.on_failure: unknown policy %q (retain|clear)", c.Dashboard.OnFailure)
	}
	return nil
}
