// Package assets maps coins to exchange asset indices.
package assets

import (
	"fmt"

	"hlcli/internal/hlapi"
)

// ResolveIndex returns the asset index for a coin:
//   - primary dex perps use their position in universe 0
//   - builder dex perps use 100000 + dexIndex*10000 + marketIndex
//   - spot pairs use 10000 + spotIndex
func ResolveIndex(perpMetas []hlapi.PerpMeta, spotMeta hlapi.SpotMeta, coin string) (uint32, error) {
	for dexIndex, dex := range perpMetas {
		for marketIndex, asset := range dex.Universe {
			if asset.Name != coin {
				continue
			}
			if dexIndex == 0 {
				return uint32(marketIndex), nil
			}
			return 100_000 + uint32(dexIndex)*10_000 + uint32(marketIndex), nil
		}
	}

	for spotIndex, pair := range spotMeta.Universe {
		if pair.Name == coin {
			return 10_000 + uint32(spotIndex), nil
		}
	}

	return 0, fmt.Errorf("unknown coin: %s", coin)
}
