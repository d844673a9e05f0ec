package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hlcli/internal/config"
	"hlcli/internal/daemon"
	"hlcli/internal/paths"
)

func main() {
	root := &cobra.Command{
		Use:          "hl-server",
		Short:        "Background caching daemon for hlcli",
		SilenceUsage: true,
		RunE:         runServer,
	}

	root.Flags().Bool("testnet", false, "use testnet instead of mainnet")
	root.Flags().BoolP("daemonize", "d", false, "detach and run in the background")
	root.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if _, err := paths.EnsureDir(); err != nil {
		return err
	}
	logPath, err := paths.ServerLogPath()
	if err != nil {
		return err
	}

	if cfg.Daemonize && !daemon.Detached() {
		pid, err := daemon.Detach(logPath)
		if err != nil {
			return err
		}
		fmt.Printf("hl-server started in the background (pid %d)\n", pid)
		return nil
	}

	logger, err := newLogger(cfg.LogLevel, logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting hl-server",
		zap.Bool("testnet", cfg.Testnet),
		zap.Int("pid", os.Getpid()),
	)

	return daemon.Run(daemon.Config{Testnet: cfg.Testnet}, logger)
}

func newLogger(level, logPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{logPath}

	return cfg.Build()
}
