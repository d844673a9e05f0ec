// Package daemon implements the hl-server process: a five-slot timestamped
// cache kept warm by independent pollers and served over a unix-socket RPC.
package daemon

import (
	"sync"
	"time"

	"hlcli/internal/hlapi"
)

// connectedWindowMs is how fresh the mids slot must be for the daemon to
// consider itself connected to the upstream API.
const connectedWindowMs = 5_000

// Clock returns the current time in milliseconds. Injected so cache tests can
// run on a fake timeline.
type Clock func() int64

func systemClock() int64 { return time.Now().UnixMilli() }

type entry[T any] struct {
	data      T
	updatedAt int64
}

// Cache holds the latest snapshot of each data product. Slots start empty and
// are replaced wholesale by their owning poller; readers see either nothing or
// a complete snapshot with its refresh timestamp.
type Cache struct {
	clock Clock

	mu        sync.RWMutex
	mids      *entry[map[string]string]
	assetCtxs *entry[hlapi.AllDexsAssetCtxs]
	perpMetas *entry[[]hlapi.PerpMeta]
	spotMeta  *entry[hlapi.SpotMeta]
	spotCtxs  *entry[[]hlapi.SpotAssetCtx]
}

// NewCache builds an empty cache on the given clock. A nil clock means wall
// time.
func NewCache(clock Clock) *Cache {
	if clock == nil {
		clock = systemClock
	}
	return &Cache{clock: clock}
}

// SetMids replaces the mids slot.
func (c *Cache) SetMids(mids map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mids = &entry[map[string]string]{data: mids, updatedAt: c.clock()}
}

// SetAssetCtxs replaces the per-dex asset context slot.
func (c *Cache) SetAssetCtxs(ctxs hlapi.AllDexsAssetCtxs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assetCtxs = &entry[hlapi.AllDexsAssetCtxs]{data: ctxs, updatedAt: c.clock()}
}

// SetPerpMetas replaces the perp metadata slot.
func (c *Cache) SetPerpMetas(metas []hlapi.PerpMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perpMetas = &entry[[]hlapi.PerpMeta]{data: metas, updatedAt: c.clock()}
}

// SetSpot replaces the spot metadata and spot context slots under one write
// acquisition, so a reader never sees one half of a cycle without the other.
func (c *Cache) SetSpot(meta hlapi.SpotMeta, ctxs []hlapi.SpotAssetCtx) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	c.spotMeta = &entry[hlapi.SpotMeta]{data: meta, updatedAt: now}
	c.spotCtxs = &entry[[]hlapi.SpotAssetCtx]{data: ctxs, updatedAt: now}
}

// Mids returns the mids slot, its refresh timestamp, and whether it is populated.
func (c *Cache) Mids() (map[string]string, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mids == nil {
		return nil, 0, false
	}
	return c.mids.data, c.mids.updatedAt, true
}

// AssetCtxs returns the per-dex asset context slot.
func (c *Cache) AssetCtxs() (hlapi.AllDexsAssetCtxs, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.assetCtxs == nil {
		return hlapi.AllDexsAssetCtxs{}, 0, false
	}
	return c.assetCtxs.data, c.assetCtxs.updatedAt, true
}

// PerpMetas returns the perp metadata slot.
func (c *Cache) PerpMetas() ([]hlapi.PerpMeta, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.perpMetas == nil {
		return nil, 0, false
	}
	return c.perpMetas.data, c.perpMetas.updatedAt, true
}

// SpotMeta returns the spot metadata slot.
func (c *Cache) SpotMeta() (hlapi.SpotMeta, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.spotMeta == nil {
		return hlapi.SpotMeta{}, 0, false
	}
	return c.spotMeta.data, c.spotMeta.updatedAt, true
}

// SpotCtxs returns the spot context slot.
func (c *Cache) SpotCtxs() ([]hlapi.SpotAssetCtx, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.spotCtxs == nil {
		return nil, 0, false
	}
	return c.spotCtxs.data, c.spotCtxs.updatedAt, true
}

// Status derives per-slot presence and age. Pure; never fails.
func (c *Cache) Status() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.clock()
	return CacheStatus{
		HasMids:          c.mids != nil,
		HasAssetCtxs:     c.assetCtxs != nil,
		HasPerpMetas:     c.perpMetas != nil,
		HasSpotMeta:      c.spotMeta != nil,
		HasSpotAssetCtxs: c.spotCtxs != nil,
		MidsAge:          ageOf(c.mids, now),
		AssetCtxsAge:     ageOf(c.assetCtxs, now),
		PerpMetasAge:     ageOf(c.perpMetas, now),
		SpotMetaAge:      ageOf(c.spotMeta, now),
		SpotAssetCtxsAge: ageOf(c.spotCtxs, now),
	}
}

// Connected reports whether the mids slot is populated and strictly fresher
// than the connectivity window.
func (c *Cache) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mids == nil {
		return false
	}
	return c.clock()-c.mids.updatedAt < connectedWindowMs
}

func ageOf[T any](e *entry[T], now int64) *int64 {
	if e == nil {
		return nil
	}
	age := now - e.updatedAt
	return &age
}
