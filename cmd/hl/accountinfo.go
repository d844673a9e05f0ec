package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"hlcli/internal/config"
	"hlcli/internal/hlapi"
	"hlcli/internal/validation"
)

func newAccountInfoCmd(use, short string, run func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE:  run,
	}
	cmd.Flags().String("user", "", "user address (defaults to the configured wallet)")
	return cmd
}

// resolveUser picks the address to query: the --user flag when given, else the
// configured wallet.
func resolveUser(cmd *cobra.Command, testnet bool) (common.Address, error) {
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		return validation.ValidateAddress(user)
	}
	wallet, err := config.LoadWallet(testnet)
	if err != nil {
		return common.Address{}, err
	}
	if wallet.WalletAddress == nil {
		return common.Address{}, fmt.Errorf("no wallet configured: run 'hl account add' or set %s", config.EnvWalletAddress)
	}
	return *wallet.WalletAddress, nil
}

type positionRow struct {
	Coin          string
	Size          string
	EntryPx       string
	PositionValue string
	UnrealizedPnl string
	Leverage      string
	LiquidationPx string
}

// positionRows flattens a clearinghouse state to display rows, dropping
// zero-size positions.
func positionRows(state hlapi.ClearinghouseState) []positionRow {
	rows := make([]positionRow, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		p := ap.Position
		szi, err := decimal.NewFromString(p.Szi)
		if err != nil || szi.IsZero() {
			continue
		}
		row := positionRow{
			Coin:          p.Coin,
			Size:          p.Szi,
			EntryPx:       "-",
			PositionValue: p.PositionValue,
			UnrealizedPnl: p.UnrealizedPnl,
			Leverage:      fmt.Sprintf("%dx %s", p.Leverage.Value, p.Leverage.Type),
			LiquidationPx: "-",
		}
		if p.EntryPx != nil {
			row.EntryPx = *p.EntryPx
		}
		if p.LiquidationPx != nil {
			row.LiquidationPx = *p.LiquidationPx
		}
		rows = append(rows, row)
	}
	return rows
}

func runAccountPositions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	user, err := resolveUser(cmd, cfg.Testnet)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	state, err := hlapi.NewClient(cfg.Testnet).ClearinghouseState(ctx, user.Hex())
	if err != nil {
		return err
	}

	rows := positionRows(state)
	if len(rows) == 0 {
		fmt.Println("No open positions")
	} else {
		fmt.Printf("%-12s %12s %12s %12s %12s %-12s %12s\n",
			"Coin", "Size", "Entry", "Value", "PnL", "Leverage", "Liq. Price")
		for _, r := range rows {
			fmt.Printf("%-12s %12s %12s %12s %12s %-12s %12s\n",
				r.Coin, r.Size, r.EntryPx, r.PositionValue, r.UnrealizedPnl, r.Leverage, r.LiquidationPx)
		}
	}
	fmt.Println()
	fmt.Printf("Account Value: %s\n", state.MarginSummary.AccountValue)
	fmt.Printf("Total Margin Used: %s\n", state.MarginSummary.TotalMarginUsed)
	return nil
}

type orderRow struct {
	Oid       uint64
	Coin      string
	Side      string
	Sz        string
	LimitPx   string
	Timestamp string
}

// orderRows maps open orders to display rows. The wire encodes the side as
// "B" for bids; anything else is an ask.
func orderRows(orders []hlapi.OpenOrder) []orderRow {
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		side := "Sell"
		if o.Side == "B" {
			side = "Buy"
		}
		rows = append(rows, orderRow{
			Oid:       o.Oid,
			Coin:      o.Coin,
			Side:      side,
			Sz:        o.Sz,
			LimitPx:   o.LimitPx,
			Timestamp: time.UnixMilli(int64(o.Timestamp)).Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

func runAccountOrders(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	user, err := resolveUser(cmd, cfg.Testnet)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	orders, err := hlapi.NewClient(cfg.Testnet).OpenOrders(ctx, user.Hex())
	if err != nil {
		return err
	}

	rows := orderRows(orders)
	if len(rows) == 0 {
		fmt.Println("No open orders")
		return nil
	}
	fmt.Printf("%-12s %-12s %-6s %12s %12s  %s\n", "Order ID", "Coin", "Side", "Size", "Price", "Time")
	for _, r := range rows {
		fmt.Printf("%-12d %-12s %-6s %12s %12s  %s\n", r.Oid, r.Coin, r.Side, r.Sz, r.LimitPx, r.Timestamp)
	}
	return nil
}

type balanceRow struct {
	Token     string
	Total     string
	Hold      string
	Available string
}

// balanceRows drops zero balances and derives the available amount.
func balanceRows(balances []hlapi.SpotBalance) []balanceRow {
	rows := make([]balanceRow, 0, len(balances))
	for _, b := range balances {
		total, err := decimal.NewFromString(b.Total)
		if err != nil || total.IsZero() {
			continue
		}
		hold, err := decimal.NewFromString(b.Hold)
		if err != nil {
			hold = decimal.Zero
		}
		rows = append(rows, balanceRow{
			Token:     b.Coin,
			Total:     b.Total,
			Hold:      b.Hold,
			Available: total.Sub(hold).String(),
		})
	}
	return rows
}

func runAccountBalances(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	user, err := resolveUser(cmd, cfg.Testnet)
	if err != nil {
		return err
	}

	api := hlapi.NewClient(cfg.Testnet)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	perp, err := api.ClearinghouseState(ctx, user.Hex())
	if err != nil {
		return err
	}
	spot, err := api.SpotClearinghouseState(ctx, user.Hex())
	if err != nil {
		return err
	}

	fmt.Printf("Perpetuals Balance: %s USD\n\n", perp.MarginSummary.AccountValue)
	fmt.Println("Spot Balances:")
	rows := balanceRows(spot.Balances)
	if len(rows) == 0 {
		fmt.Println("No spot balances")
		return nil
	}
	fmt.Printf("%-12s %14s %14s %14s\n", "Token", "Total", "Hold", "Available")
	for _, r := range rows {
		fmt.Printf("%-12s %14s %14s %14s\n", r.Token, r.Total, r.Hold, r.Available)
	}
	return nil
}
