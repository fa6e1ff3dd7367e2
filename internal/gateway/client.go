package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/dropfour/dropfour/internal/model"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Buffer size for outgoing frames
	sendBufferSize = 64
)

// Client is one connected player's socket with a buffered outbound queue.
// All writes happen on the write pump goroutine; the connection does not
// support concurrent writers.
type Client struct {
	id   model.ConnID
	conn *websocket.Conn
	send chan []byte

	logger *zap.Logger
}

func newClient(id model.ConnID, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With(zap.String("conn_id", string(id))),
	}
}

// enqueue offers a frame to the outbound queue. A full queue drops the
// frame; the fixed-rate rebroadcast makes the next one equivalent.
func (c *Client) enqueue(raw []byte) bool {
	select {
	case c.send <- raw:
		return true
	default:
		c.logger.Warn("frame dropped, send buffer full")
		return false
	}
}

// writePump drains the outbound queue until the connection's context ends
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, raw)
			cancel()
			if err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				// Closing here unblocks the read loop, which runs teardown
				c.conn.Close(websocket.StatusAbnormalClosure, "write failed")
				return
			}
		}
	}
}
