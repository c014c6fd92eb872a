package hub

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/metrics"
)

const commandTimeout = 5 * time.Second

// --- Command types ---

type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	channel domain.Channel
	client  *Client
}

type sendCmd struct {
	baseHubCmd
	channel domain.Channel
	data    []byte
}

type listenersCmd struct {
	baseHubCmd
	channel domain.Channel
	reply   chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub is the process-local connection registry and broadcast
// dispatcher. All state is owned by a single goroutine fed through a
// command channel; registration is append-only and dispatch always
// sees the registrants current at dispatch time.
//
// A connection registered on this instance is invisible to any other
// instance: cross-instance fan-out is deliberately out of scope.
type Hub struct {
	cmdCh    chan hubCmd
	clock    clockwork.Clock
	channels map[string][]*Client
	done     chan struct{}
}

// NewHub creates a hub and starts its dispatch loop.
func NewHub(clock clockwork.Clock) *Hub {
	h := &Hub{
		cmdCh:    make(chan hubCmd, 256),
		clock:    clock,
		channels: make(map[string][]*Client),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

var _ domain.Broadcaster = (*Hub)(nil)

// Register appends a client to the channel's list, creating it if
// absent. No deduplication: registering the same client twice yields
// duplicate deliveries. Clients are never removed, not even on close;
// a closed client simply discards everything delivered to it.
func (h *Hub) Register(channel domain.Channel, client *Client) {
	h.enqueue(registerCmd{channel: channel, client: client})
}

// enqueue hands a command to the dispatch loop. After Stop the loop no
// longer drains cmdCh, so commands are dropped instead of parked in the
// buffer forever. The done check runs first: a stopped hub must never
// accept a command into the buffer, or a caller waiting on its reply
// would hang.
func (h *Hub) enqueue(cmd hubCmd) bool {
	select {
	case <-h.done:
		slog.Debug("Dropping hub command after shutdown")
		return false
	default:
	}

	select {
	case h.cmdCh <- cmd:
		return true
	case <-h.done:
		slog.Debug("Dropping hub command after shutdown")
		return false
	}
}

// Send marshals the message once and delivers it to every client
// currently registered under the channel, per each client's readiness
// state. Best effort: there is no acknowledgment and nothing is
// requeued or reported lost.
func (h *Hub) Send(channel domain.Channel, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "error", err)
		return
	}
	h.enqueue(sendCmd{channel: channel, data: data})
}

// Listeners returns the number of clients registered under a channel.
// Returns -1 if the command times out.
func (h *Hub) Listeners(channel domain.Channel) int {
	reply := make(chan int, 1)
	if !h.enqueue(listenersCmd{channel: channel, reply: reply}) {
		// Stopped hubs hold no registrations.
		return 0
	}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-reply:
		return count
	case <-timer.Chan():
		slog.Warn("Listeners command timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the dispatch loop and closes every registered
// client. Safe to call more than once.
func (h *Hub) Stop() {
	h.enqueue(stopCmd{})
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			h.handleRegister(c)
		case sendCmd:
			h.handleSend(c)
		case listenersCmd:
			c.reply <- len(h.channels[c.channel.String()])
		case stopCmd:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	key := c.channel.String()
	h.channels[key] = append(h.channels[key], c.client)

	metrics.HubRegisteredConnections.Inc()
	metrics.HubActiveChannels.Set(float64(len(h.channels)))

	slog.Debug("Client registered",
		"user_id", c.channel.UserID,
		"wishlist_id", c.channel.WishlistID,
		"total_clients", len(h.channels[key]),
	)
}

func (h *Hub) handleSend(c sendCmd) {
	for _, client := range h.channels[c.channel.String()] {
		client.Deliver(c.data)
	}
}

func (h *Hub) handleStop() {
	total := 0
	for key, clients := range h.channels {
		for _, client := range clients {
			client.Close()
		}
		total += len(clients)
		delete(h.channels, key)
	}

	metrics.HubActiveChannels.Set(0)
	slog.Info("Hub shutdown complete", "disconnected_clients", total)
}
