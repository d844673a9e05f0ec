package daemon

import "encoding/json"

// rpcRequest is one line of the IPC protocol.
type rpcRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// rpcResponse carries exactly one of result or error. CachedAt accompanies a
// result sourced from a timestamped slot.
type rpcResponse struct {
	ID       string `json:"id"`
	Result   any    `json:"result,omitempty"`
	CachedAt *int64 `json:"cachedAt,omitempty"`
	Error    string `json:"error,omitempty"`
}

func responseOK(id string, result any, cachedAt *int64) rpcResponse {
	return rpcResponse{ID: id, Result: result, CachedAt: cachedAt}
}

func responseErr(id, message string) rpcResponse {
	return rpcResponse{ID: id, Error: message}
}

// CacheStatus reports per-slot presence and age in milliseconds. Ages are nil
// for slots that have never been refreshed.
type CacheStatus struct {
	HasMids          bool   `json:"hasMids"`
	HasAssetCtxs     bool   `json:"hasAssetCtxs"`
	HasPerpMetas     bool   `json:"hasPerpMetas"`
	HasSpotMeta      bool   `json:"hasSpotMeta"`
	HasSpotAssetCtxs bool   `json:"hasSpotAssetCtxs"`
	MidsAge          *int64 `json:"midsAge"`
	AssetCtxsAge     *int64 `json:"assetCtxsAge"`
	PerpMetasAge     *int64 `json:"perpMetasAge"`
	SpotMetaAge      *int64 `json:"spotMetaAge"`
	SpotAssetCtxsAge *int64 `json:"spotAssetCtxsAge"`
}

// ServerStatus is the getStatus payload.
type ServerStatus struct {
	Running   bool        `json:"running"`
	Testnet   bool        `json:"testnet"`
	Connected bool        `json:"connected"`
	StartedAt int64       `json:"startedAt"`
	Uptime    int64       `json:"uptime"`
	Cache     CacheStatus `json:"cache"`
}

// StatusFile is the marker written next to the socket once the daemon is bound.
type StatusFile struct {
	Testnet   bool  `json:"testnet"`
	StartedAt int64 `json:"startedAt"`
}
