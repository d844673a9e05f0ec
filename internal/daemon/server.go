package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"
)

// server owns the IPC side of the daemon: an accept loop on the unix socket
// and one read-dispatch-write loop per connection.
type server struct {
	cache     *Cache
	clock     Clock
	log       *zap.Logger
	testnet   bool
	startedAt int64

	// requestShutdown broadcasts daemon termination. Called after the shutdown
	// response has been flushed to the client.
	requestShutdown context.CancelFunc
}

// acceptLoop serves connections until the shutdown context fires. Each
// connection runs independently; a bad client affects nobody else.
func (s *server) acceptLoop(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close()
			if err := s.serveConn(conn); err != nil {
				// Mostly client disconnects; not worth more than debug.
				s.log.Debug("connection closed", zap.Error(err))
			}
		}()
	}
}

// serveConn runs the per-connection loop until EOF or a shutdown dispatch.
// Request lines have no length cap, matching the client's reader.
func (s *server) serveConn(conn net.Conn) error {
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		raw, readErr := reader.ReadString('\n')
		line := strings.TrimSpace(raw)
		if line != "" {
			var req rpcRequest
			err := json.Unmarshal([]byte(line), &req)
			if err != nil || req.ID == "" || req.Method == "" {
				// Missing id/method fields are as malformed as broken JSON.
				if werr := writeResponse(writer, responseErr("0", "Invalid JSON")); werr != nil {
					return werr
				}
			} else {
				resp, shutdown := s.handleRequest(req)
				if err := writeResponse(writer, resp); err != nil {
					return err
				}
				if shutdown {
					// The response is on the wire; now the daemon may go down.
					s.log.Info("shutdown requested via ipc")
					s.requestShutdown()
					return nil
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

func writeResponse(w *bufio.Writer, resp rpcResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// handleRequest dispatches one request against the closed method set. The
// second return value asks the caller to trigger daemon shutdown after the
// response has been written.
func (s *server) handleRequest(req rpcRequest) (rpcResponse, bool) {
	switch req.Method {
	case "getPrices":
		return s.handleGetPrices(req), false

	case "getAssetCtxs":
		ctxs, at, ok := s.cache.AssetCtxs()
		if !ok {
			return responseErr(req.ID, "No data available"), false
		}
		return responseOK(req.ID, ctxs, &at), false

	case "getPerpMeta":
		metas, at, ok := s.cache.PerpMetas()
		if !ok {
			return responseErr(req.ID, "No data available"), false
		}
		return responseOK(req.ID, metas, &at), false

	case "getSpotMeta":
		meta, at, ok := s.cache.SpotMeta()
		if !ok {
			return responseErr(req.ID, "No data available"), false
		}
		return responseOK(req.ID, meta, &at), false

	case "getSpotAssetCtxs":
		ctxs, at, ok := s.cache.SpotCtxs()
		if !ok {
			return responseErr(req.ID, "No data available"), false
		}
		return responseOK(req.ID, ctxs, &at), false

	case "getStatus":
		status := ServerStatus{
			Running:   true,
			Testnet:   s.testnet,
			Connected: s.cache.Connected(),
			StartedAt: s.startedAt,
			Uptime:    s.clock() - s.startedAt,
			Cache:     s.cache.Status(),
		}
		return responseOK(req.ID, status, nil), false

	case "shutdown":
		return responseOK(req.ID, map[string]bool{"ok": true}, nil), true

	default:
		return responseErr(req.ID, "Unknown method: "+req.Method), false
	}
}

func (s *server) handleGetPrices(req rpcRequest) rpcResponse {
	var params struct {
		Coin string `json:"coin"`
	}
	if len(req.Params) > 0 {
		// Malformed params behave like absent ones; the request line itself
		// already parsed as JSON.
		_ = json.Unmarshal(req.Params, &params)
	}

	mids, at, ok := s.cache.Mids()
	if !ok {
		return responseErr(req.ID, "No data available")
	}

	if params.Coin != "" {
		upper := strings.ToUpper(params.Coin)
		price, found := mids[upper]
		if !found {
			return responseErr(req.ID, "Coin not found: "+params.Coin)
		}
		return responseOK(req.ID, map[string]string{upper: price}, &at)
	}
	return responseOK(req.ID, mids, &at)
}
