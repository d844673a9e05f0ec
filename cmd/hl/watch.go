package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hlcli/internal/term"
	"hlcli/internal/ws"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [coin...]",
		Short: "Stream live mid prices",
		RunE:  runWatch,
	}
}

type allMidsData struct {
	Mids map[string]string `json:"mids"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	filter := make(map[string]bool, len(args))
	for _, coin := range args {
		filter[strings.ToUpper(coin)] = true
	}

	client, err := ws.Connect(cfg.Testnet)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Subscribe(ws.SubAllMidsAllDexs()); err != nil {
		return err
	}

	// Ctrl-C restores the cursor before exit; the read loop ends when Close
	// fails the pending read.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		term.Show()
		client.Close()
	}()
	term.Hide()
	defer term.Show()

	for {
		msg, err := client.NextJSON()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return err
		}
		if msg == nil {
			return nil
		}

		channel, err := ws.Channel(msg)
		if err != nil || channel != "allMids" {
			continue
		}
		raw, err := ws.Data(msg)
		if err != nil {
			continue
		}
		var data allMidsData
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		renderMids(data.Mids, filter)
	}
}

func renderMids(mids map[string]string, filter map[string]bool) {
	coins := make([]string, 0, len(mids))
	for coin := range mids {
		if len(filter) > 0 && !filter[strings.ToUpper(coin)] {
			continue
		}
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	term.Clear()
	fmt.Printf("mid prices  %s  (ctrl-c to quit)\n\n", term.Timestamp())
	for _, coin := range coins {
		fmt.Printf("%-14s %s\n", coin, mids[coin])
	}
}
