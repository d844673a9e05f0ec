package hlapi

import (
	"encoding/json"
	"fmt"
)

// PerpMeta describes one perp dex: its asset universe and collateral token.
type PerpMeta struct {
	Universe        []PerpAssetMeta `json:"universe"`
	CollateralToken uint64          `json:"collateralToken"`
	MarginTables    json.RawMessage `json:"marginTables,omitempty"`
}

// PerpAssetMeta is one tradable perp asset.
type PerpAssetMeta struct {
	SzDecimals   uint32 `json:"szDecimals"`
	Name         string `json:"name"`
	MaxLeverage  uint32 `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated,omitempty"`
	IsDelisted   bool   `json:"isDelisted,omitempty"`
}

// PerpAssetCtx is the live market context for one perp asset.
type PerpAssetCtx struct {
	Funding      string          `json:"funding"`
	OpenInterest string          `json:"openInterest"`
	PrevDayPx    string          `json:"prevDayPx"`
	DayNtlVlm    string          `json:"dayNtlVlm"`
	Premium      *string         `json:"premium,omitempty"`
	OraclePx     string          `json:"oraclePx"`
	MarkPx       string          `json:"markPx"`
	MidPx        *string         `json:"midPx,omitempty"`
	ImpactPxs    json.RawMessage `json:"impactPxs,omitempty"`
	DayBaseVlm   *string         `json:"dayBaseVlm,omitempty"`
}

// DexAssetCtxs pairs a dex name with its asset contexts. The empty name is the
// primary dex. On the wire it is a two-element array [dex, ctxs].
type DexAssetCtxs struct {
	Dex  string
	Ctxs []PerpAssetCtx
}

// MarshalJSON encodes the pair as [dex, ctxs].
func (d DexAssetCtxs) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{d.Dex, d.Ctxs})
}

// UnmarshalJSON decodes the [dex, ctxs] pair form.
func (d *DexAssetCtxs) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("dex asset ctxs: expected 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &d.Dex); err != nil {
		return err
	}
	return json.Unmarshal(parts[1], &d.Ctxs)
}

// AllDexsAssetCtxs is the full per-dex context list for one refresh cycle.
type AllDexsAssetCtxs struct {
	Ctxs []DexAssetCtxs `json:"ctxs"`
}

// SpotMeta is the spot token table plus pair universe.
type SpotMeta struct {
	Tokens   []SpotToken    `json:"tokens"`
	Universe []SpotUniverse `json:"universe"`
}

// SpotToken is one entry of the spot token table.
type SpotToken struct {
	Name        string `json:"name"`
	SzDecimals  uint32 `json:"szDecimals"`
	WeiDecimals uint32 `json:"weiDecimals"`
	Index       uint32 `json:"index"`
	TokenID     string `json:"tokenId"`
	IsCanonical bool   `json:"isCanonical,omitempty"`
}

// SpotUniverse is one tradable spot pair.
type SpotUniverse struct {
	Tokens      []uint32 `json:"tokens"`
	Name        string   `json:"name"`
	Index       uint32   `json:"index"`
	IsCanonical bool     `json:"isCanonical,omitempty"`
}

// SpotAssetCtx is the live market context for one spot pair.
type SpotAssetCtx struct {
	CirculatingSupply string  `json:"circulatingSupply"`
	Coin              string  `json:"coin"`
	DayNtlVlm         string  `json:"dayNtlVlm"`
	MarkPx            string  `json:"markPx"`
	MidPx             *string `json:"midPx,omitempty"`
	PrevDayPx         string  `json:"prevDayPx"`
	TotalSupply       *string `json:"totalSupply,omitempty"`
	DayBaseVlm        *string `json:"dayBaseVlm,omitempty"`
}

// OpenOrder is one resting order of a user.
type OpenOrder struct {
	Coin      string `json:"coin"`
	LimitPx   string `json:"limitPx"`
	Oid       uint64 `json:"oid"`
	Side      string `json:"side"`
	Sz        string `json:"sz"`
	Timestamp uint64 `json:"timestamp"`
}

// ClearinghouseState is a user's perp margin state.
type ClearinghouseState struct {
	AssetPositions     []AssetPosition `json:"assetPositions"`
	MarginSummary      MarginSummary   `json:"marginSummary"`
	CrossMarginSummary MarginSummary   `json:"crossMarginSummary"`
	Withdrawable       string          `json:"withdrawable,omitempty"`
	Time               uint64          `json:"time,omitempty"`
}

// AssetPosition wraps one position with its margin kind.
type AssetPosition struct {
	Position Position `json:"position"`
	Kind     string   `json:"type"`
}

// Position is one open perp position.
type Position struct {
	Coin          string   `json:"coin"`
	Szi           string   `json:"szi"`
	EntryPx       *string  `json:"entryPx,omitempty"`
	PositionValue string   `json:"positionValue"`
	UnrealizedPnl string   `json:"unrealizedPnl"`
	Leverage      Leverage `json:"leverage"`
	LiquidationPx *string  `json:"liquidationPx,omitempty"`
}

// Leverage holds the margin mode and multiplier of a position.
type Leverage struct {
	Type  string `json:"type"`
	Value uint32 `json:"value"`
}

// MarginSummary aggregates account-level margin numbers.
type MarginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalMarginUsed string `json:"totalMarginUsed"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUsd     string `json:"totalRawUsd"`
}

// SpotClearinghouseState is a user's spot balance set.
type SpotClearinghouseState struct {
	Balances []SpotBalance `json:"balances"`
}

// SpotBalance is one spot token balance.
type SpotBalance struct {
	Coin  string `json:"coin"`
	Hold  string `json:"hold"`
	Total string `json:"total"`
}

// L2Book is an order book snapshot: levels[0] bids, levels[1] asks.
type L2Book struct {
	Coin   string        `json:"coin"`
	Levels [][]BookLevel `json:"levels"`
	Time   uint64        `json:"time"`
}

// BookLevel is one price level of the book.
type BookLevel struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
	N  uint64 `json:"n"`
}
