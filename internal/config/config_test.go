package config

import (
	"testing"

	"github.com/spf13/pflag"

	"hlcli/internal/paths"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())
	t.Setenv("HL_TESTNET", "")
	t.Setenv("HL_LOG_LEVEL", "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Testnet || cfg.Daemonize || cfg.LogLevel != "info" {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
}

func TestLoadFlagsWin(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("testnet", false, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--testnet", "--log-level=debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Testnet || cfg.LogLevel != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())
	t.Setenv("HL_TESTNET", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Testnet {
		t.Fatalf("env not applied: %+v", cfg)
	}
}
