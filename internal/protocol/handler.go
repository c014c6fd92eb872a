package protocol

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/hub"
	"github.com/robog-two/wishlily-db/internal/metrics"
)

const reconcileTimeout = 30 * time.Second

// Registry is the slice of the hub the handler needs.
type Registry interface {
	Register(channel domain.Channel, client *hub.Client)
	Send(channel domain.Channel, message any)
}

// Reconciler re-resolves one wish and propagates any drift.
type Reconciler interface {
	Reconcile(ctx context.Context, userID, wishlistID, wishID string) error
}

// Handler decodes inbound transport frames and dispatches them.
//
// Every connection on the single websocket endpoint is multiplexed
// through one Handler; dispatch keys purely on the channel embedded in
// each frame, the physical connection only matters for registration.
type Handler struct {
	registry   Registry
	reconciler Reconciler
}

func NewHandler(registry Registry, reconciler Reconciler) *Handler {
	return &Handler{registry: registry, reconciler: reconciler}
}

// Handle processes one inbound text frame from a connection. Malformed
// frames are logged and discarded; no error frame is ever written back
// to the sender. Unknown actions are a silent no-op.
func (h *Handler) Handle(ctx context.Context, data []byte, client *hub.Client) {
	msg, err := Decode(data)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			return
		}
		slog.Warn("Discarding malformed frame", "error", err)
		metrics.WebSocketFramesDiscarded.Inc()
		return
	}

	switch m := msg.(type) {
	case Register:
		h.registry.Register(m.Channel(), client)
	case Reload:
		h.registry.Send(m.Channel(), NewReloadEvent())
	case Upgrade:
		// Reconciliation does store and resolver I/O; run it off the
		// read pump so a slow resolve never stalls frame handling.
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
			defer cancel()
			if err := h.reconciler.Reconcile(ctx, m.UserID, m.WishlistID, m.WishID); err != nil {
				slog.Error("Reconcile failed",
					"user_id", m.UserID,
					"wishlist_id", m.WishlistID,
					"wish_id", m.WishID,
					"error", err,
				)
			}
		}()
	}
}
