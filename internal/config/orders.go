package config

import (
	"encoding/json"
	"fmt"
	"os"

	"hlcli/internal/paths"
)

// OrderConfig holds per-user order defaults.
type OrderConfig struct {
	Slippage float64 `json:"slippage"`
}

// DefaultOrderConfig is used whenever the file is missing or unreadable.
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{Slippage: 1.0}
}

// LoadOrderConfig reads order defaults, falling back to defaults on any
// failure. A corrupt file never blocks a command.
func LoadOrderConfig() OrderConfig {
	path, err := paths.OrderConfigPath()
	if err != nil {
		return DefaultOrderConfig()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return DefaultOrderConfig()
	}
	var cfg OrderConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DefaultOrderConfig()
	}
	return cfg
}

// UpdateOrderConfig applies the given overrides and rewrites the file.
func UpdateOrderConfig(slippage *float64) (OrderConfig, error) {
	if _, err := paths.EnsureDir(); err != nil {
		return OrderConfig{}, err
	}
	path, err := paths.OrderConfigPath()
	if err != nil {
		return OrderConfig{}, err
	}

	cfg := LoadOrderConfig()
	if slippage != nil {
		cfg.Slippage = *slippage
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return OrderConfig{}, err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return OrderConfig{}, fmt.Errorf("write %s: %w", path, err)
	}
	return cfg, nil
}
