// Package hlapi is a typed client for the Hyperliquid info endpoint. Every data
// product is one POST with a {"type": ...} discriminated body.
package hlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	mainnetURL = "https://api.hyperliquid.xyz"
	testnetURL = "https://api.hyperliquid-testnet.xyz"
)

// Client issues info requests against one network.
type Client struct {
	testnet bool
	baseURL string
	http    *http.Client
}

// NewClient builds a client for mainnet or testnet.
func NewClient(testnet bool) *Client {
	base := mainnetURL
	if testnet {
		base = testnetURL
	}
	return newClientWithBaseURL(testnet, base)
}

func newClientWithBaseURL(testnet bool, base string) *Client {
	return &Client{
		testnet: testnet,
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Testnet reports which network the client talks to.
func (c *Client) Testnet() bool { return c.testnet }

// InfoURL returns the info endpoint URL.
func (c *Client) InfoURL() string { return c.baseURL + "/info" }

func (c *Client) postInfo(ctx context.Context, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode info request: %w", err)
	}

	url := c.InfoURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "hlcli")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("hyperliquid api error (%d): %s", res.StatusCode, text)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid json response: %w", err)
	}
	return nil
}

// AllMids returns the latest mid price per symbol.
func (c *Client) AllMids(ctx context.Context) (map[string]string, error) {
	var mids map[string]string
	if err := c.postInfo(ctx, map[string]any{"type": "allMids"}, &mids); err != nil {
		return nil, err
	}
	return mids, nil
}

// Meta returns the primary dex perp metadata.
func (c *Client) Meta(ctx context.Context) (PerpMeta, error) {
	var meta PerpMeta
	err := c.postInfo(ctx, map[string]any{"type": "meta"}, &meta)
	return meta, err
}

// AllPerpMetas returns metadata for every perp dex, primary first.
func (c *Client) AllPerpMetas(ctx context.Context) ([]PerpMeta, error) {
	var metas []PerpMeta
	if err := c.postInfo(ctx, map[string]any{"type": "allPerpMetas"}, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

// MetaAndAssetCtxs returns the primary dex metadata and asset contexts.
func (c *Client) MetaAndAssetCtxs(ctx context.Context) (PerpMeta, []PerpAssetCtx, error) {
	return c.MetaAndAssetCtxsForDex(ctx, "")
}

// MetaAndAssetCtxsForDex returns metadata and asset contexts for one dex.
// The empty dex name selects the primary dex.
func (c *Client) MetaAndAssetCtxsForDex(ctx context.Context, dex string) (PerpMeta, []PerpAssetCtx, error) {
	body := map[string]any{"type": "metaAndAssetCtxs"}
	if dex != "" {
		body["dex"] = dex
	}

	// The response is a two-element array [meta, ctxs].
	var items []json.RawMessage
	if err := c.postInfo(ctx, body, &items); err != nil {
		return PerpMeta{}, nil, err
	}
	if len(items) != 2 {
		return PerpMeta{}, nil, fmt.Errorf("metaAndAssetCtxs: expected 2 elements, got %d", len(items))
	}

	var meta PerpMeta
	if err := json.Unmarshal(items[0], &meta); err != nil {
		return PerpMeta{}, nil, fmt.Errorf("metaAndAssetCtxs meta: %w", err)
	}
	var ctxs []PerpAssetCtx
	if err := json.Unmarshal(items[1], &ctxs); err != nil {
		return PerpMeta{}, nil, fmt.Errorf("metaAndAssetCtxs ctxs: %w", err)
	}
	return meta, ctxs, nil
}

// SpotMeta returns the spot token table and pair universe.
func (c *Client) SpotMeta(ctx context.Context) (SpotMeta, error) {
	var meta SpotMeta
	err := c.postInfo(ctx, map[string]any{"type": "spotMeta"}, &meta)
	return meta, err
}

// SpotMetaAndAssetCtxs returns the spot metadata and pair contexts together.
func (c *Client) SpotMetaAndAssetCtxs(ctx context.Context) (SpotMeta, []SpotAssetCtx, error) {
	var items []json.RawMessage
	if err := c.postInfo(ctx, map[string]any{"type": "spotMetaAndAssetCtxs"}, &items); err != nil {
		return SpotMeta{}, nil, err
	}
	if len(items) != 2 {
		return SpotMeta{}, nil, fmt.Errorf("spotMetaAndAssetCtxs: expected 2 elements, got %d", len(items))
	}

	var meta SpotMeta
	if err := json.Unmarshal(items[0], &meta); err != nil {
		return SpotMeta{}, nil, fmt.Errorf("spotMetaAndAssetCtxs meta: %w", err)
	}
	var ctxs []SpotAssetCtx
	if err := json.Unmarshal(items[1], &ctxs); err != nil {
		return SpotMeta{}, nil, fmt.Errorf("spotMetaAndAssetCtxs ctxs: %w", err)
	}
	return meta, ctxs, nil
}

// OpenOrders returns a user's resting orders across all dexes.
func (c *Client) OpenOrders(ctx context.Context, user string) ([]OpenOrder, error) {
	var orders []OpenOrder
	err := c.postInfo(ctx, map[string]any{"type": "openOrders", "user": user, "dex": "ALL_DEXS"}, &orders)
	return orders, err
}

// ClearinghouseState returns a user's perp margin state.
func (c *Client) ClearinghouseState(ctx context.Context, user string) (ClearinghouseState, error) {
	var state ClearinghouseState
	err := c.postInfo(ctx, map[string]any{"type": "clearinghouseState", "user": user}, &state)
	return state, err
}

// SpotClearinghouseState returns a user's spot balances.
func (c *Client) SpotClearinghouseState(ctx context.Context, user string) (SpotClearinghouseState, error) {
	var state SpotClearinghouseState
	err := c.postInfo(ctx, map[string]any{"type": "spotClearinghouseState", "user": user}, &state)
	return state, err
}

// L2Book returns the order book snapshot for one coin.
func (c *Client) L2Book(ctx context.Context, coin string) (L2Book, error) {
	var book L2Book
	err := c.postInfo(ctx, map[string]any{"type": "l2Book", "coin": coin}, &book)
	return book, err
}

// CheckHealth validates connectivity with a cheap allMids call.
func (c *Client) CheckHealth(ctx context.Context) error {
	var mids map[string]string
	if err := c.postInfo(ctx, map[string]any{"type": "allMids"}, &mids); err != nil {
		return fmt.Errorf("hyperliquid api health check failed: %w", err)
	}
	return nil
}
