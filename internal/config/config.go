// Package config resolves runtime settings, the active wallet, and order
// defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hlcli/internal/paths"
)

// Config holds runtime settings merged from flags, HL_* environment
// variables, and an optional config file in the data directory.
type Config struct {
	Testnet   bool
	Daemonize bool
	LogLevel  string
}

// Load merges config file, environment, and flags into Config.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("testnet", false)
	v.SetDefault("daemonize", false)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if dir, err := paths.Dir(); err == nil {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return Config{
		Testnet:   v.GetBool("testnet"),
		Daemonize: v.GetBool("daemonize"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}
