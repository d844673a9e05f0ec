// Package paths resolves the files hlcli keeps under its data directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDir overrides the default data directory when set.
const EnvDir = "HYPERLIQUID_CLI_DIR"

// Dir returns the hlcli data directory, ~/.hl unless overridden by EnvDir.
func Dir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".hl"), nil
}

// EnsureDir creates the data directory if it does not exist.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

func join(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// DBPath returns the account database path.
func DBPath() (string, error) { return join("hl.db") }

// OrderConfigPath returns the order defaults file path.
func OrderConfigPath() (string, error) { return join("order-config.json") }

// ServerSocketPath returns the daemon's unix socket path.
func ServerSocketPath() (string, error) { return join("server.sock") }

// ServerPidPath returns the daemon's pid marker path.
func ServerPidPath() (string, error) { return join("server.pid") }

// ServerLogPath returns the daemon's log file path.
func ServerLogPath() (string, error) { return join("server.log") }

// ServerStatusPath returns the daemon's status marker path.
func ServerStatusPath() (string, error) { return join("server.json") }
