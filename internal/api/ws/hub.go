package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"
)

// Subscriber yields encoded state events. *events.Bus implements it.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan []byte, func(), error)
}

// Hub streams state events to WebSocket clients.
type Hub struct {
	events         Subscriber
	originPatterns []string
}

// NewHub creates a new WebSocket hub. originPatterns are host patterns
// accepted for cross-origin upgrades; same-origin is always allowed.
func NewHub(events Subscriber, originPatterns ...string) *Hub {
	return &Hub{events: events, originPatterns: originPatterns}
}

// ServeEvents handles GET /ws/events. Each committed mutation and each
// dashboard refresh is forwarded as one JSON text message. Clients are
// expected to refetch the views they show.
func (h *Hub) ServeEvents(w http.ResponseWriter, r *http.Request) {
	// The stream outlives the server's WriteTimeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// The client only listens; CloseRead handles control frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.events.Subscribe(ctx)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
