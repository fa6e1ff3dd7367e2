package gateway

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/protocol"
)

// Hub tracks live connections by connection ID
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger,
	}
}

// Register adds a client's connection
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		zap.String("conn_id", string(c.id)),
		zap.Int("total_clients", total),
	)
}

// Unregister removes a client's connection. The write pump is stopped by
// the connection context, not by the hub.
func (h *Hub) Unregister(id model.ConnID) {
	h.mu.Lock()
	_, ok := h.clients[id]
	delete(h.clients, id)
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("client unregistered",
			zap.String("conn_id", string(id)),
			zap.Int("total_clients", total),
		)
	}
}

// Send encodes and enqueues a frame for one connection. False means the
// connection is gone, the frame would not encode, or the queue was full.
func (h *Hub) Send(id model.ConnID, msg protocol.ServerMessage) bool {
	raw, err := protocol.EncodeServerMessage(msg)
	if err != nil {
		h.logger.Error("encoding frame", zap.Error(err))
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return c.enqueue(raw)
}

// Len returns the number of live connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
