package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hlcli/internal/hlapi"
)

func newAssetCmd() *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Inspect a single market",
	}
	assetCmd.AddCommand(&cobra.Command{
		Use:   "book <coin>",
		Short: "Show the order book",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssetBook,
	})
	return assetCmd
}

const (
	bookMaxLevels = 10
	bookBarWidth  = 20
)

// depthLevel is one book level with its cumulative size from the inside of
// the book outward.
type depthLevel struct {
	Level      hlapi.BookLevel
	Cumulative float64
}

// cumulativeDepth takes up to max levels and accumulates sizes in order.
func cumulativeDepth(levels []hlapi.BookLevel, max int) []depthLevel {
	if len(levels) > max {
		levels = levels[:max]
	}
	out := make([]depthLevel, 0, len(levels))
	sum := 0.0
	for _, level := range levels {
		sz, _ := strconv.ParseFloat(level.Sz, 64)
		sum += sz
		out = append(out, depthLevel{Level: level, Cumulative: sum})
	}
	return out
}

// depthBar renders a cumulative-size ratio as a bar of at least one cell.
func depthBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled)
}

func runAssetBook(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	coin := strings.ToUpper(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	book, err := hlapi.NewClient(cfg.Testnet).L2Book(ctx, coin)
	if err != nil {
		return err
	}

	var bids, asks []hlapi.BookLevel
	if len(book.Levels) > 0 {
		bids = book.Levels[0]
	}
	if len(book.Levels) > 1 {
		asks = book.Levels[1]
	}

	askDepth := cumulativeDepth(asks, bookMaxLevels)
	bidDepth := cumulativeDepth(bids, bookMaxLevels)

	maxCumulative := 0.0
	if len(askDepth) > 0 {
		maxCumulative = askDepth[len(askDepth)-1].Cumulative
	}
	if len(bidDepth) > 0 && bidDepth[len(bidDepth)-1].Cumulative > maxCumulative {
		maxCumulative = bidDepth[len(bidDepth)-1].Cumulative
	}

	printLevel := func(d depthLevel) {
		bar := depthBar(0, bookBarWidth)
		if maxCumulative > 0 {
			bar = depthBar(d.Cumulative/maxCumulative, bookBarWidth)
		}
		fmt.Printf("%-12s %-12s %-4d %s\n", d.Level.Px, d.Level.Sz, d.Level.N, bar)
	}

	fmt.Printf("%s Order Book\n\n", coin)
	fmt.Printf("%-12s %-12s %-4s %s\n", "price", "size", "#", "depth")

	// Asks from worst to best, then bids from best to worst, so the spread
	// sits in the middle.
	if len(askDepth) == 0 {
		fmt.Println("No asks")
	}
	for i := len(askDepth) - 1; i >= 0; i-- {
		printLevel(askDepth[i])
	}
	if len(bidDepth) == 0 {
		fmt.Println("No bids")
	}
	for _, d := range bidDepth {
		printLevel(d)
	}
	return nil
}
