package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hlcli/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update order defaults",
		RunE:  runConfig,
	}
	cmd.Flags().Float64("slippage", 0, "default market order slippage in percent")
	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("slippage") {
		slippage, _ := cmd.Flags().GetFloat64("slippage")
		if slippage <= 0 {
			return fmt.Errorf("slippage must be positive")
		}
		updated, err := config.UpdateOrderConfig(&slippage)
		if err != nil {
			return err
		}
		fmt.Printf("slippage set to %.2f%%\n", updated.Slippage)
		return nil
	}

	cfg := config.LoadOrderConfig()
	fmt.Printf("slippage: %.2f%%\n", cfg.Slippage)
	return nil
}
