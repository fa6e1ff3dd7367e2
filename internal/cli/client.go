package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nhooyr.io/websocket"

	"github.com/dropfour/dropfour/internal/protocol"
)

// Client is a websocket client for the game server
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the server's websocket endpoint. The base URL may use
// http(s) or ws(s) scheme.
func Dial(ctx context.Context, serverURL string) (*Client, error) {
	url := strings.TrimSuffix(serverURL, "/")
	url = strings.Replace(url, "http://", "ws://", 1)
	url = strings.Replace(url, "https://", "wss://", 1)
	url += "/ws"

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Send writes one frame
func (c *Client) Send(ctx context.Context, msg any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling frame: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.conn.Write(wctx, websocket.MessageText, raw)
}

// Ready announces the client is ready and wants a roster
func (c *Client) Ready(ctx context.Context) error {
	return c.Send(ctx, map[string]string{"type": protocol.TypeClientReady})
}

// Invite asks the named player for a match
func (c *Client) Invite(ctx context.Context, opponent string) error {
	return c.Send(ctx, map[string]string{"type": protocol.TypeClientInvite, "opponent": opponent})
}

// Accept accepts a pending invitation from the named player
func (c *Client) Accept(ctx context.Context, from string) error {
	return c.Send(ctx, map[string]string{"type": protocol.TypeClientAcceptInvite, "from": from})
}

// Reject declines a pending invitation from the named player
func (c *Client) Reject(ctx context.Context, from string) error {
	return c.Send(ctx, map[string]string{"type": protocol.TypeClientRejectInvite, "from": from})
}

// Play drops a piece into the given column
func (c *Client) Play(ctx context.Context, col int) error {
	return c.Send(ctx, map[string]any{"type": protocol.TypeClientPlay, "col": col})
}

// Read blocks for the next server frame and decodes it by type
func (c *Client) Read(ctx context.Context) (protocol.ServerMessage, error) {
	_, raw, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeServerMessage(raw)
}

func decodeServerMessage(raw []byte) (protocol.ServerMessage, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	var (
		msg protocol.ServerMessage
		err error
	)
	switch envelope.Type {
	case protocol.TypeClients:
		var m protocol.Clients
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeInvitation:
		var m protocol.Invitation
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeCountdown:
		var m protocol.Countdown
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeServerData:
		var m protocol.ServerData
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeGameResult:
		var m protocol.GameResult
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeOpponentDisconnected:
		var m protocol.OpponentDisconnected
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeError:
		var m protocol.Error
		err = json.Unmarshal(raw, &m)
		msg = m
	default:
		return nil, fmt.Errorf("unknown frame type %q", envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s frame: %w", envelope.Type, err)
	}
	return msg, nil
}
