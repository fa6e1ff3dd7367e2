package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/dropfour/dropfour/internal/model"
)

// Handler owns the websocket endpoint: upgrade, identity assignment, read
// loop, and teardown.
type Handler struct {
	dispatcher *Dispatcher
	hub        *Hub
	logger     *zap.Logger
}

// NewHandler creates the websocket handler
func NewHandler(dispatcher *Dispatcher, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		hub:        hub,
		logger:     logger,
	}
}

// ServeHTTP upgrades the connection and runs its read loop until the peer
// goes away
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	id := model.ConnID(uuid.NewString())
	logger := h.logger.With(zap.String("conn_id", string(id)))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := newClient(id, conn, h.logger)
	h.hub.Register(client)
	defer h.hub.Unregister(id)

	go client.writePump(ctx)

	name, err := h.dispatcher.OnConnect(ctx, id)
	if err != nil {
		logger.Warn("no identity available", zap.Error(err))
		conn.Close(websocket.StatusTryAgainLater, "no identity available")
		return
	}
	logger.Info("player connected", zap.String("player", string(name)))

	// Teardown must run even when the request context is already dead
	defer h.dispatcher.OnDisconnect(context.Background(), id)

	for {
		typ, raw, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Info("player disconnected", zap.String("player", string(name)))
			} else {
				logger.Info("read loop ended",
					zap.String("player", string(name)),
					zap.Error(err),
				)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		h.dispatcher.HandleMessage(ctx, id, raw)
	}
}
