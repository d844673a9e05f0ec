package ipc

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hlcli/internal/paths"
)

// fakeServer accepts one connection and answers each request line with the
// given canned responses, in order, regardless of content.
func fakeServer(t *testing.T, responses func(line string) []string) {
	t.Helper()
	sock, err := paths.ServerSocketPath()
	if err != nil {
		t.Fatalf("socket path: %v", err)
	}
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			for _, resp := range responses(strings.TrimSpace(line)) {
				if _, err := conn.Write([]byte(resp + "\n")); err != nil {
					return
				}
			}
		}
	}()
}

func TestIsServerRunningMatchesSocketExistence(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())

	running, err := IsServerRunning()
	if err != nil || running {
		t.Fatalf("expected not running: %v %v", running, err)
	}

	sock, _ := paths.ServerSocketPath()
	if err := os.WriteFile(sock, nil, 0o644); err != nil {
		t.Fatalf("write socket stub: %v", err)
	}
	running, err = IsServerRunning()
	if err != nil || !running {
		t.Fatalf("expected running: %v %v", running, err)
	}
}

func TestTryConnectNoSocket(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())

	client, err := TryConnect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatalf("expected nil client without a socket")
	}
}

func TestTryConnectDeadListener(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(paths.EnvDir, tmp)

	// A plain file at the socket path: exists, but nothing listens.
	if err := os.WriteFile(filepath.Join(tmp, "server.sock"), nil, 0o644); err != nil {
		t.Fatalf("write socket stub: %v", err)
	}

	client, err := TryConnect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatalf("expected nil client for a dead socket path")
	}
}

func TestRequestCorrelation(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())
	fakeServer(t, func(string) []string {
		// A stray response with a foreign id precedes the real one.
		return []string{
			`{"id":"99","result":{"stale":true}}`,
			`{"id":"1","result":{"BTC":"50000"},"cachedAt":123}`,
		}
	})

	client, err := Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	prices, err := client.GetPrices("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices.Data["BTC"] != "50000" || prices.CachedAt != 123 {
		t.Fatalf("prices mismatch: %+v", prices)
	}
}

func TestErrorResponseBecomesFailure(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())
	fakeServer(t, func(string) []string {
		return []string{`{"id":"1","error":"No data available"}`}
	})

	client, err := Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	_, err = client.GetPrices("")
	if err == nil || err.Error() != "No data available" {
		t.Fatalf("expected the server error verbatim, got %v", err)
	}
}

func TestIdsIncreasePerConnection(t *testing.T) {
	t.Setenv(paths.EnvDir, t.TempDir())

	seen := make(chan string, 2)
	fakeServer(t, func(line string) []string {
		// Echo back whatever id the client sent.
		id := "1"
		if strings.Contains(line, `"id":"2"`) {
			id = "2"
		}
		seen <- id
		return []string{`{"id":"` + id + `","result":{"running":true,"testnet":false,"connected":false,"startedAt":0,"uptime":0,"cache":{"hasMids":false,"hasAssetCtxs":false,"hasPerpMetas":false,"hasSpotMeta":false,"hasSpotAssetCtxs":false,"midsAge":null,"assetCtxsAge":null,"perpMetasAge":null,"spotMetaAge":null,"spotAssetCtxsAge":null}}}`}
	})

	client, err := Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if _, err := client.GetStatus(); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := client.GetStatus(); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first, second := <-seen, <-seen; first != "1" || second != "2" {
		t.Fatalf("ids not monotonically assigned: %s, %s", first, second)
	}
}
