package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hlcli/internal/hlapi"
	"hlcli/internal/ipc"
)

func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price [coin]",
		Short: "Show mid prices, served from the daemon cache when available",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPrice,
	}
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	coin := ""
	if len(args) == 1 {
		coin = args[0]
	}

	// The daemon's cache answers without touching the remote API. When it is
	// not running, fall back to one direct fetch.
	if client, err := ipc.TryConnect(); err == nil && client != nil {
		defer client.Close()
		cached, err := client.GetPrices(coin)
		if err != nil {
			return err
		}
		printPrices(cached.Data, time.Now().UnixMilli()-cached.CachedAt)
		return nil
	}

	api := hlapi.NewClient(cfg.Testnet)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mids, err := api.AllMids(ctx)
	if err != nil {
		return err
	}

	if coin != "" {
		upper := strings.ToUpper(coin)
		price, ok := mids[upper]
		if !ok {
			return fmt.Errorf("coin not found: %s", coin)
		}
		mids = map[string]string{upper: price}
	}
	printPrices(mids, -1)
	return nil
}

func printPrices(mids map[string]string, ageMs int64) {
	coins := make([]string, 0, len(mids))
	for coin := range mids {
		coins = append(coins, coin)
	}
	sort.Strings(coins)
	for _, coin := range coins {
		fmt.Printf("%-12s %s\n", coin, mids[coin])
	}
	if ageMs >= 0 {
		fmt.Printf("(cached %dms ago)\n", ageMs)
	}
}
