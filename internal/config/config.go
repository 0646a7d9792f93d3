// Package config loads fleet-deck settings from config.toml, falling back
// to defaults when the file is missing or malformed. Configuration problems
// never abort startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Tools the fleet can host. The tool name doubles as the sink filename
// prefix (<tool>_fleet_<workspace>.log).
const (
	ToolClaude = "claude"
	ToolGemini = "gemini"
)

// FleetConfig is the [fleet] section of config.toml.
type FleetConfig struct {
	// LogDir is where session log sinks are created.
	LogDir string `toml:"log_dir"`
	// DefaultTool is the agent launched when -backend is not given.
	DefaultTool string `toml:"default_tool"`
	// MaxAgents caps how many sessions one launch creates.
	MaxAgents int `toml:"max_agents"`
}

// DashboardConfig is the [dashboard] section of config.toml.
type DashboardConfig struct {
	// TickSeconds is the reconciliation interval.
	TickSeconds int `toml:"tick_seconds"`
	// ActiveWithinSeconds is the window in which an agent counts as active.
	ActiveWithinSeconds int `toml:"active_within_seconds"`
	// StaleAfterSeconds is when an agent with no recent update shows stale.
	StaleAfterSeconds int `toml:"stale_after_seconds"`
	// HistoryLines is how many status history entries a card shows.
	HistoryLines int `toml:"history_lines"`
}

// Config is the full config.toml structure.
type Config struct {
	Fleet     FleetConfig     `toml:"fleet"`
	Dashboard DashboardConfig `toml:"dashboard"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fleet: FleetConfig{
			LogDir:      os.TempDir(),
			DefaultTool: ToolClaude,
			MaxAgents:   3,
		},
		Dashboard: DashboardConfig{
			TickSeconds:         1,
			ActiveWithinSeconds: 60,
			StaleAfterSeconds:   300,
			HistoryLines:        18,
		},
	}
}

// DataDir returns the fleet-deck data directory (~/.fleet-deck), creating
// it if needed. FLEET_DECK_HOME overrides the location.
func DataDir() (string, error) {
	if dir := os.Getenv("FLEET_DECK_HOME"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create data directory: %w", err)
		}
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".fleet-deck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration from path. A missing file or a parse error
// yields the defaults; individual out-of-range values fall back per field.
func Load(path string) *Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default()
	}

	defaults := Default()
	if cfg.Fleet.LogDir == "" {
		cfg.Fleet.LogDir = defaults.Fleet.LogDir
	}
	switch cfg.Fleet.DefaultTool {
	case ToolClaude, ToolGemini:
	default:
		cfg.Fleet.DefaultTool = defaults.Fleet.DefaultTool
	}
	if cfg.Fleet.MaxAgents <= 0 {
		cfg.Fleet.MaxAgents = defaults.Fleet.MaxAgents
	}
	if cfg.Dashboard.TickSeconds <= 0 {
		cfg.Dashboard.TickSeconds = defaults.Dashboard.TickSeconds
	}
	if cfg.Dashboard.ActiveWithinSeconds <= 0 {
		cfg.Dashboard.ActiveWithinSeconds = defaults.Dashboard.ActiveWithinSeconds
	}
	if cfg.Dashboard.StaleAfterSeconds <= cfg.Dashboard.ActiveWithinSeconds {
		cfg.Dashboard.StaleAfterSeconds = defaults.Dashboard.StaleAfterSeconds
	}
	if cfg.Dashboard.HistoryLines <= 0 {
		cfg.Dashboard.HistoryLines = defaults.Dashboard.HistoryLines
	}
	return cfg
}

// LoadDefault loads the configuration from the data directory.
func LoadDefault() *Config {
	dir, err := DataDir()
	if err != nil {
		return Default()
	}
	return Load(filepath.Join(dir, "config.toml"))
}
