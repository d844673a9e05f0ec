// Package ws is the streaming client for the exchange websocket feed.
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

const (
	mainnetEndpoint = "wss://api.hyperliquid.xyz/ws"
	testnetEndpoint = "wss://api.hyperliquid-testnet.xyz/ws"
)

// Subscription is the payload of one subscribe request.
type Subscription map[string]any

// SubAllMidsAllDexs subscribes to mid prices across every dex.
func SubAllMidsAllDexs() Subscription {
	return Subscription{"type": "allMids", "dex": "ALL_DEXS"}
}

// SubL2Book subscribes to the order book of one coin.
func SubL2Book(coin string) Subscription {
	return Subscription{"type": "l2Book", "coin": coin}
}

// SubOrderUpdates subscribes to a user's order updates.
func SubOrderUpdates(user string) Subscription {
	return Subscription{"type": "orderUpdates", "user": user}
}

// SubActiveAssetData subscribes to a user's live asset data for one coin.
func SubActiveAssetData(user, coin string) Subscription {
	return Subscription{"type": "activeAssetData", "user": user, "coin": coin}
}

// Client is one websocket connection to the feed.
type Client struct {
	conn *websocket.Conn
}

// Connect dials the feed for the chosen network.
func Connect(testnet bool) (*Client, error) {
	url := mainnetEndpoint
	if testnet {
		url = testnetEndpoint
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect failed: %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Close shuts the connection down.
func (c *Client) Close() error { return c.conn.Close() }

// Subscribe sends one subscribe request.
func (c *Client) Subscribe(sub Subscription) error {
	req := map[string]any{"method": "subscribe", "subscription": sub}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("websocket subscribe: %w", err)
	}
	return nil
}

// NextJSON returns the next text message as decoded JSON, answering pings and
// skipping binary frames. A closed stream returns (nil, nil).
func (c *Client) NextJSON() (map[string]json.RawMessage, error) {
	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, nil
			}
			return nil, fmt.Errorf("websocket read failed: %w", err)
		}

		switch kind {
		case websocket.TextMessage:
			var msg map[string]json.RawMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				return nil, fmt.Errorf("invalid websocket json message: %w", err)
			}
			return msg, nil
		case websocket.BinaryMessage:
			continue
		}
	}
}

// Channel extracts the channel name of a feed message.
func Channel(msg map[string]json.RawMessage) (string, error) {
	raw, ok := msg["channel"]
	if !ok {
		return "", fmt.Errorf("missing channel in websocket message")
	}
	var channel string
	if err := json.Unmarshal(raw, &channel); err != nil {
		return "", fmt.Errorf("invalid channel in websocket message: %w", err)
	}
	return channel, nil
}

// Data extracts the data payload of a feed message.
func Data(msg map[string]json.RawMessage) (json.RawMessage, error) {
	raw, ok := msg["data"]
	if !ok {
		return nil, fmt.Errorf("missing data in websocket message")
	}
	return raw, nil
}
