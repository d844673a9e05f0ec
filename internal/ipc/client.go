// Package ipc is the client side of the hl-server line protocol.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"hlcli/internal/daemon"
	"hlcli/internal/hlapi"
	"hlcli/internal/paths"
)

// requestTimeout bounds one request/response round trip.
const requestTimeout = 5 * time.Second

// Cached pairs a decoded result with the slot timestamp it came from.
type Cached[T any] struct {
	Data     T
	CachedAt int64
}

type rpcRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type rpcResponse struct {
	ID       string          `json:"id"`
	Result   json.RawMessage `json:"result,omitempty"`
	CachedAt *int64          `json:"cachedAt,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Client is one connection to the daemon. Not safe for concurrent use; CLI
// commands are sequential.
type Client struct {
	conn      net.Conn
	reader    *bufio.Reader
	requestID uint64
}

// Connect dials the daemon's socket.
func Connect() (*Client, error) {
	socketPath, err := paths.ServerSocketPath()
	if err != nil {
		return nil, err
	}
	conn, err := net.DialTimeout("unix", socketPath, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close releases the connection.
func (c *Client) Close() error { return c.conn.Close() }

// IsServerRunning is the cheap liveness hint: the socket path exists. Only a
// completed getStatus round trip proves a live daemon.
func IsServerRunning() (bool, error) {
	socketPath, err := paths.ServerSocketPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(socketPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TryConnect returns a verified client, or nil when the daemon is not running.
// A socket path with no live listener counts as not running.
func TryConnect() (*Client, error) {
	running, err := IsServerRunning()
	if err != nil || !running {
		return nil, err
	}
	client, err := Connect()
	if err != nil {
		return nil, nil
	}
	if _, err := client.GetStatus(); err != nil {
		client.Close()
		return nil, nil
	}
	return client, nil
}

// request sends one line and reads lines until the matching id arrives or the
// deadline passes. Responses with foreign ids are skipped, which tolerates
// out-of-order replies on a shared connection.
func (c *Client) request(method string, params any) (rpcResponse, error) {
	c.requestID++
	id := strconv.FormatUint(c.requestID, 10)

	raw, err := json.Marshal(rpcRequest{ID: id, Method: method, Params: params})
	if err != nil {
		return rpcResponse{}, err
	}
	if err := c.conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		return rpcResponse{}, err
	}
	if _, err := c.conn.Write(append(raw, '\n')); err != nil {
		return rpcResponse{}, fmt.Errorf("send %s: %w", method, err)
	}

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return rpcResponse{}, fmt.Errorf("request timeout: %s", method)
			}
			return rpcResponse{}, fmt.Errorf("connection closed: %w", err)
		}

		var resp rpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			return rpcResponse{}, fmt.Errorf("invalid server response: %s", line)
		}
		if resp.ID != id {
			continue
		}
		if resp.Error != "" {
			return rpcResponse{}, errors.New(resp.Error)
		}
		return resp, nil
	}
}

func decodeResult[T any](resp rpcResponse, method string) (T, error) {
	var out T
	if resp.Result == nil {
		return out, fmt.Errorf("%s: missing result", method)
	}
	if err := json.Unmarshal(resp.Result, &out); err != nil {
		return out, fmt.Errorf("invalid %s result: %w", method, err)
	}
	return out, nil
}

func decodeCached[T any](resp rpcResponse, method string) (Cached[T], error) {
	data, err := decodeResult[T](resp, method)
	if err != nil {
		return Cached[T]{}, err
	}
	if resp.CachedAt == nil {
		return Cached[T]{}, fmt.Errorf("%s: missing cachedAt", method)
	}
	return Cached[T]{Data: data, CachedAt: *resp.CachedAt}, nil
}

// GetStatus fetches the daemon status.
func (c *Client) GetStatus() (daemon.ServerStatus, error) {
	resp, err := c.request("getStatus", nil)
	if err != nil {
		return daemon.ServerStatus{}, err
	}
	return decodeResult[daemon.ServerStatus](resp, "getStatus")
}

// Shutdown asks the daemon to terminate.
func (c *Client) Shutdown() error {
	_, err := c.request("shutdown", nil)
	return err
}

// GetPrices fetches the cached mids, optionally filtered to one coin.
func (c *Client) GetPrices(coin string) (Cached[map[string]string], error) {
	var params any
	if coin != "" {
		params = map[string]string{"coin": coin}
	}
	resp, err := c.request("getPrices", params)
	if err != nil {
		return Cached[map[string]string]{}, err
	}
	return decodeCached[map[string]string](resp, "getPrices")
}

// GetAssetCtxs fetches the cached per-dex perp contexts.
func (c *Client) GetAssetCtxs() (Cached[hlapi.AllDexsAssetCtxs], error) {
	resp, err := c.request("getAssetCtxs", nil)
	if err != nil {
		return Cached[hlapi.AllDexsAssetCtxs]{}, err
	}
	return decodeCached[hlapi.AllDexsAssetCtxs](resp, "getAssetCtxs")
}

// GetPerpMeta fetches the cached perp metadata list.
func (c *Client) GetPerpMeta() (Cached[[]hlapi.PerpMeta], error) {
	resp, err := c.request("getPerpMeta", nil)
	if err != nil {
		return Cached[[]hlapi.PerpMeta]{}, err
	}
	return decodeCached[[]hlapi.PerpMeta](resp, "getPerpMeta")
}

// GetSpotMeta fetches the cached spot metadata.
func (c *Client) GetSpotMeta() (Cached[hlapi.SpotMeta], error) {
	resp, err := c.request("getSpotMeta", nil)
	if err != nil {
		return Cached[hlapi.SpotMeta]{}, err
	}
	return decodeCached[hlapi.SpotMeta](resp, "getSpotMeta")
}

// GetSpotAssetCtxs fetches the cached spot contexts.
func (c *Client) GetSpotAssetCtxs() (Cached[[]hlapi.SpotAssetCtx], error) {
	resp, err := c.request("getSpotAssetCtxs", nil)
	if err != nil {
		return Cached[[]hlapi.SpotAssetCtx]{}, err
	}
	return decodeCached[[]hlapi.SpotAssetCtx](resp, "getSpotAssetCtxs")
}
