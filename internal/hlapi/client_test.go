package hlapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func infoServer(t *testing.T, handler func(body map[string]any) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/info" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		status, resp := handler(body)
		w.WriteHeader(status)
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return newClientWithBaseURL(false, srv.URL)
}

func TestAllMids(t *testing.T) {
	client := infoServer(t, func(body map[string]any) (int, string) {
		if body["type"] != "allMids" {
			t.Errorf("unexpected type: %v", body["type"])
		}
		return 200, `{"BTC":"50000.5","ETH":"3000.25"}`
	})

	mids, err := client.AllMids(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"BTC": "50000.5", "ETH": "3000.25"}
	if !reflect.DeepEqual(mids, want) {
		t.Fatalf("mids mismatch: %v", mids)
	}
}

func TestMetaAndAssetCtxsForDex(t *testing.T) {
	client := infoServer(t, func(body map[string]any) (int, string) {
		if body["type"] != "metaAndAssetCtxs" {
			t.Errorf("unexpected type: %v", body["type"])
		}
		if body["dex"] != "test" {
			t.Errorf("dex not forwarded: %v", body["dex"])
		}
		return 200, `[
			{"universe":[{"szDecimals":2,"name":"TEST:AAA","maxLeverage":10}],"collateralToken":0},
			[{"funding":"0.0001","openInterest":"100","prevDayPx":"1","dayNtlVlm":"5","oraclePx":"1.1","markPx":"1.2"}]
		]`
	})

	meta, ctxs, err := client.MetaAndAssetCtxsForDex(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.Universe) != 1 || meta.Universe[0].Name != "TEST:AAA" {
		t.Fatalf("meta mismatch: %+v", meta)
	}
	if len(ctxs) != 1 || ctxs[0].MarkPx != "1.2" {
		t.Fatalf("ctxs mismatch: %+v", ctxs)
	}
}

func TestMetaAndAssetCtxsPrimaryOmitsDex(t *testing.T) {
	client := infoServer(t, func(body map[string]any) (int, string) {
		if _, ok := body["dex"]; ok {
			t.Errorf("dex should be omitted for the primary dex")
		}
		return 200, `[{"universe":[],"collateralToken":0},[]]`
	})

	if _, _, err := client.MetaAndAssetCtxs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSpotMetaAndAssetCtxs(t *testing.T) {
	client := infoServer(t, func(body map[string]any) (int, string) {
		if body["type"] != "spotMetaAndAssetCtxs" {
			t.Errorf("unexpected type: %v", body["type"])
		}
		return 200, `[
			{"tokens":[{"name":"USDC","szDecimals":2,"weiDecimals":6,"index":0,"tokenId":"0"}],
			 "universe":[{"tokens":[1,0],"name":"PURR/USDC","index":0}]},
			[{"circulatingSupply":"1","coin":"PURR/USDC","dayNtlVlm":"2","markPx":"3","prevDayPx":"4"}]
		]`
	})

	meta, ctxs, err := client.SpotMetaAndAssetCtxs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.Tokens) != 1 || meta.Tokens[0].Name != "USDC" {
		t.Fatalf("meta mismatch: %+v", meta)
	}
	if len(ctxs) != 1 || ctxs[0].Coin != "PURR/USDC" {
		t.Fatalf("ctxs mismatch: %+v", ctxs)
	}
}

func TestHTTPErrorSurfacesStatusAndBody(t *testing.T) {
	client := infoServer(t, func(map[string]any) (int, string) {
		return 429, "rate limited"
	})

	_, err := client.AllMids(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "429") || !strings.Contains(got, "rate limited") {
		t.Fatalf("error missing detail: %s", got)
	}
}

func TestDexAssetCtxsPairEncoding(t *testing.T) {
	pair := DexAssetCtxs{Dex: "test", Ctxs: []PerpAssetCtx{{Funding: "0", OpenInterest: "1", PrevDayPx: "2", DayNtlVlm: "3", OraclePx: "4", MarkPx: "5"}}}
	raw, err := json.Marshal(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded DexAssetCtxs
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Dex != "test" || len(decoded.Ctxs) != 1 || decoded.Ctxs[0].MarkPx != "5" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	// Wire form is a two-element array.
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
		t.Fatalf("expected [dex, ctxs] array: %s", raw)
	}
}
