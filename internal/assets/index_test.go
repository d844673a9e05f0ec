package assets

import (
	"strings"
	"testing"

	"hlcli/internal/hlapi"
)

func perpMeta(coins ...string) hlapi.PerpMeta {
	universe := make([]hlapi.PerpAssetMeta, 0, len(coins))
	for _, c := range coins {
		universe = append(universe, hlapi.PerpAssetMeta{SzDecimals: 2, Name: c, MaxLeverage: 50})
	}
	return hlapi.PerpMeta{Universe: universe}
}

func spotMeta(pairs ...string) hlapi.SpotMeta {
	universe := make([]hlapi.SpotUniverse, 0, len(pairs))
	for i, p := range pairs {
		universe = append(universe, hlapi.SpotUniverse{Tokens: []uint32{1, 0}, Name: p, Index: uint32(i)})
	}
	return hlapi.SpotMeta{Universe: universe}
}

func TestResolvesMainPerpIndex(t *testing.T) {
	idx, err := ResolveIndex([]hlapi.PerpMeta{perpMeta("BTC", "ETH")}, spotMeta(), "ETH")
	if err != nil || idx != 1 {
		t.Fatalf("got %d %v", idx, err)
	}
}

func TestResolvesBuilderPerpIndex(t *testing.T) {
	metas := []hlapi.PerpMeta{perpMeta("BTC"), perpMeta("DEX:AAA", "DEX:BBB", "DEX:CCC")}
	idx, err := ResolveIndex(metas, spotMeta(), "DEX:CCC")
	if err != nil || idx != 110_002 {
		t.Fatalf("got %d %v", idx, err)
	}
}

func TestResolvesSpotIndex(t *testing.T) {
	idx, err := ResolveIndex([]hlapi.PerpMeta{perpMeta()}, spotMeta("PURR/USDC", "ABC/USDC"), "ABC/USDC")
	if err != nil || idx != 10_001 {
		t.Fatalf("got %d %v", idx, err)
	}
}

func TestUnknownCoinErrors(t *testing.T) {
	_, err := ResolveIndex([]hlapi.PerpMeta{perpMeta("BTC")}, spotMeta("PURR/USDC"), "NOPE")
	if err == nil || !strings.Contains(err.Error(), "unknown coin") {
		t.Fatalf("unexpected error: %v", err)
	}
}
