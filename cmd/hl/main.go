package main

import (
	"os"

	"github.com/spf13/cobra"

	"hlcli/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "hl",
		Short:        "Hyperliquid command line",
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("testnet", false, "use testnet instead of mainnet")

	root.AddCommand(newPriceCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newAssetCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(newConfigCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the persistent flags with env and file config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}
