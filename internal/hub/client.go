package hub

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/robog-two/wishlily-db/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	messageBufferSize = 16
)

// State is the readiness state of a client's transport.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is the transport surface the client writes to. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client wraps one transport connection. It starts in StateConnecting;
// messages delivered before Open are parked in a small outbox and
// drained exactly once on the connecting-to-open transition. Messages
// delivered after Close are dropped. Delivery is best effort: a message
// parked on a connection that never opens is lost, not requeued.
type Client struct {
	conn  Conn
	clock clockwork.Clock

	mu      sync.Mutex
	state   State
	pending [][]byte

	sendCh   chan []byte
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewClient creates a client in StateConnecting and starts its writer
// pump. Call Open once the transport is ready to transmit.
func NewClient(conn Conn, clock clockwork.Clock) *Client {
	c := &Client{
		conn:   conn,
		clock:  clock,
		state:  StateConnecting,
		sendCh: make(chan []byte, messageBufferSize),
		done:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// State returns the current readiness state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open transitions the client to StateOpen and drains the outbox in
// delivery order. Calling Open on an open or closed client is a no-op.
func (c *Client) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnecting {
		return
	}

	for _, msg := range c.pending {
		c.enqueueLocked(msg)
	}
	c.pending = nil
	c.state = StateOpen
}

// Deliver hands a serialized message to this client. Open clients get
// it queued for transmission, connecting clients get it parked until
// Open, closed clients drop it.
func (c *Client) Deliver(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConnecting:
		c.pending = append(c.pending, data)
		metrics.HubDeferredDeliveries.Inc()
	case StateOpen:
		c.enqueueLocked(data)
	case StateClosed:
		metrics.HubDroppedDeliveries.Inc()
	}
}

func (c *Client) enqueueLocked(data []byte) {
	select {
	case c.sendCh <- data:
		metrics.HubMessagesSent.Inc()
	default:
		// Writer is stalled; best-effort delivery drops the message.
		slog.Warn("Dropping message for stalled client")
		metrics.HubDroppedDeliveries.Inc()
	}
}

// Close marks the client closed and tears down the transport. The
// client stays wherever it is registered; further deliveries are
// dropped.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		c.markClosed()
		close(c.done)
		_ = c.conn.Close()
	})
	c.wg.Wait()
}

func (c *Client) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}

func (c *Client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg, ok := <-c.sendCh:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.markClosed()
				return
			}
		case <-ticker.Chan():
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.markClosed()
				return
			}
		case <-c.done:
			return
		}
	}
}
