package daemon

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"hlcli/internal/hlapi"
)

const (
	midsInterval      = 500 * time.Millisecond
	perpCtxsInterval  = 1500 * time.Millisecond
	perpMetasInterval = 60 * time.Second
	spotInterval      = 1500 * time.Millisecond
)

// pollers keep the cache warm. Each loop owns its slot(s) exclusively and
// replaces them wholesale; upstream failures are logged and the stale slot is
// kept. Fetches run on a background context so an in-flight call finishes even
// when shutdown has been requested.
type pollers struct {
	api   *hlapi.Client
	cache *Cache
	log   *zap.Logger
}

func (p *pollers) runMids(ctx context.Context) error {
	ticker := time.NewTicker(midsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mids, err := p.api.AllMids(context.Background())
			if err != nil {
				p.log.Warn("fetch allMids failed", zap.Error(err))
				continue
			}
			p.cache.SetMids(mids)
		}
	}
}

func (p *pollers) runPerpCtxs(ctx context.Context) error {
	ticker := time.NewTicker(perpCtxsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.refreshPerpCtxs()
		}
	}
}

// refreshPerpCtxs fetches the primary dex contexts, then each builder dex
// derived from the cached perp metadata. One dex failing is skipped; contexts
// already fetched this cycle are kept.
func (p *pollers) refreshPerpCtxs() {
	_, primary, err := p.api.MetaAndAssetCtxs(context.Background())
	if err != nil {
		p.log.Warn("fetch metaAndAssetCtxs failed", zap.Error(err))
		return
	}

	metas, _, _ := p.cache.PerpMetas()
	dexes := derivePerpDexes(metas)

	all := hlapi.AllDexsAssetCtxs{Ctxs: make([]hlapi.DexAssetCtxs, 0, 1+len(dexes))}
	all.Ctxs = append(all.Ctxs, hlapi.DexAssetCtxs{Dex: "", Ctxs: primary})
	for _, dex := range dexes {
		_, ctxs, err := p.api.MetaAndAssetCtxsForDex(context.Background(), dex)
		if err != nil {
			p.log.Warn("fetch metaAndAssetCtxs failed", zap.String("dex", dex), zap.Error(err))
			continue
		}
		all.Ctxs = append(all.Ctxs, hlapi.DexAssetCtxs{Dex: dex, Ctxs: ctxs})
	}
	p.cache.SetAssetCtxs(all)
}

// derivePerpDexes infers builder dex names from the cached perp metadata:
// every entry after index 0 contributes the prefix before ':' of its first
// asset's name. Deduplicated and sorted. There is no dedicated dex-listing
// call upstream, so this naming convention is load-bearing.
func derivePerpDexes(metas []hlapi.PerpMeta) []string {
	seen := make(map[string]struct{})
	for i, meta := range metas {
		if i == 0 || len(meta.Universe) == 0 {
			continue
		}
		name := meta.Universe[0].Name
		prefix, _, found := strings.Cut(name, ":")
		if !found {
			continue
		}
		seen[prefix] = struct{}{}
	}

	dexes := make([]string, 0, len(seen))
	for dex := range seen {
		dexes = append(dexes, dex)
	}
	sort.Strings(dexes)
	return dexes
}

func (p *pollers) runPerpMetas(ctx context.Context) error {
	// Warm the slot immediately so the dex derivation and external queries
	// have metadata before the first 60s tick.
	p.refreshPerpMetas()

	ticker := time.NewTicker(perpMetasInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.refreshPerpMetas()
		}
	}
}

func (p *pollers) refreshPerpMetas() {
	metas, err := p.api.AllPerpMetas(context.Background())
	if err != nil {
		p.log.Warn("fetch allPerpMetas failed", zap.Error(err))
		return
	}
	p.cache.SetPerpMetas(metas)
}

func (p *pollers) runSpot(ctx context.Context) error {
	ticker := time.NewTicker(spotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			meta, ctxs, err := p.api.SpotMetaAndAssetCtxs(context.Background())
			if err != nil {
				p.log.Warn("fetch spotMetaAndAssetCtxs failed", zap.Error(err))
				continue
			}
			p.cache.SetSpot(meta, ctxs)
		}
	}
}
