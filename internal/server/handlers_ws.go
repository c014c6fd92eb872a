package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/robog-two/wishlily-db/internal/hub"
	"github.com/robog-two/wishlily-db/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Wishlist pages are served from arbitrary origins
	},
}

// handleWebSocket owns the read pump of one connection. The connection
// carries no identity of its own; it joins channels through register
// frames handled by the protocol handler.
func (s *Server) handleWebSocket(c echo.Context) error {
	if !websocket.IsWebSocketUpgrade(c.Request()) {
		return c.JSON(500, map[string]any{
			"message": "This is a websocket endpoint. Please use a websocket client.",
			"success": false,
		})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		return nil
	}

	metrics.WebSocketConnectionsCurrent.Inc()
	defer metrics.WebSocketConnectionsCurrent.Dec()

	// The server-side transport is writable as soon as Upgrade returns,
	// so the client skips the connecting state entirely.
	client := hub.NewClient(conn, s.clock)
	client.Open()
	defer client.Close()

	ctx := c.Request().Context()
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.protocol.Handle(ctx, data, client)
	}

	return nil
}
