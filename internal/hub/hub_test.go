package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robog-two/wishlily-db/internal/domain"
)

// fakeConn records written text frames.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType != websocket.TextMessage {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) frame(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.frames[i])
}

// waitForFrames polls until the conn has received the expected number of frames.
func waitForFrames(conn *fakeConn, expected int) bool {
	for i := 0; i < 100; i++ {
		if conn.frameCount() == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return conn.frameCount() == expected
}

func testChannel() domain.Channel {
	return domain.Channel{UserID: "11111111-2222-3333-4444-555555555555", WishlistID: "0123456789abcdef01234567"}
}

func TestClient_DeferredDeliveryDrainsOnceOnOpen(t *testing.T) {
	conn := &fakeConn{}
	client := NewClient(conn, clockwork.NewFakeClock())
	t.Cleanup(client.Close)

	client.Deliver([]byte("first"))
	client.Deliver([]byte("second"))

	// Nothing transmits while connecting.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, conn.frameCount())

	client.Open()
	require.True(t, waitForFrames(conn, 2))
	assert.Equal(t, "first", conn.frame(0))
	assert.Equal(t, "second", conn.frame(1))

	// A second Open must not replay the outbox.
	client.Open()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, conn.frameCount())
}

func TestClient_DeliverAfterCloseIsDropped(t *testing.T) {
	conn := &fakeConn{}
	client := NewClient(conn, clockwork.NewFakeClock())
	client.Open()
	client.Close()

	client.Deliver([]byte("lost"))

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, conn.frameCount())
	assert.Equal(t, StateClosed, client.State())
}

func TestClient_NeverOpenedLosesPendingMessages(t *testing.T) {
	conn := &fakeConn{}
	client := NewClient(conn, clockwork.NewFakeClock())

	client.Deliver([]byte("parked"))
	client.Close()

	// The parked message is gone for good: closing drops the outbox.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, conn.frameCount())
}

func TestHub_FanOutByReadiness(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := NewHub(clock)
	t.Cleanup(h.Stop)

	channel := testChannel()

	openConn, connectingConn, closedConn := &fakeConn{}, &fakeConn{}, &fakeConn{}

	openClient := NewClient(openConn, clock)
	openClient.Open()

	connectingClient := NewClient(connectingConn, clock)

	closedClient := NewClient(closedConn, clock)
	closedClient.Open()
	closedClient.Close()

	h.Register(channel, openClient)
	h.Register(channel, connectingClient)
	h.Register(channel, closedClient)
	require.Equal(t, 3, h.Listeners(channel))

	h.Send(channel, map[string]string{"action": "reload"})

	require.True(t, waitForFrames(openConn, 1))
	assert.JSONEq(t, `{"action":"reload"}`, openConn.frame(0))

	// Still connecting: nothing transmitted yet.
	assert.Equal(t, 0, connectingConn.frameCount())

	// Once open, the deferred message goes out exactly once.
	connectingClient.Open()
	require.True(t, waitForFrames(connectingConn, 1))
	assert.JSONEq(t, `{"action":"reload"}`, connectingConn.frame(0))

	// The closed connection never hears anything.
	assert.Equal(t, 0, closedConn.frameCount())
}

func TestHub_ChannelIsolation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := NewHub(clock)
	t.Cleanup(h.Stop)

	chanA := domain.Channel{UserID: "11111111-2222-3333-4444-555555555555", WishlistID: "aaaaaaaaaaaaaaaaaaaaaaaa"}
	chanB := domain.Channel{UserID: "99999999-8888-7777-6666-555555555555", WishlistID: "bbbbbbbbbbbbbbbbbbbbbbbb"}

	connA, connB := &fakeConn{}, &fakeConn{}
	clientA := NewClient(connA, clock)
	clientA.Open()
	clientB := NewClient(connB, clock)
	clientB.Open()

	h.Register(chanA, clientA)
	h.Register(chanB, clientB)

	h.Send(chanA, map[string]string{"action": "reload"})

	require.True(t, waitForFrames(connA, 1))
	assert.Equal(t, 0, connB.frameCount())
}

func TestHub_DuplicateRegistrationDuplicatesDelivery(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := NewHub(clock)
	t.Cleanup(h.Stop)

	channel := testChannel()
	conn := &fakeConn{}
	client := NewClient(conn, clock)
	client.Open()

	h.Register(channel, client)
	h.Register(channel, client)
	require.Equal(t, 2, h.Listeners(channel))

	h.Send(channel, map[string]string{"action": "reload"})

	require.True(t, waitForFrames(conn, 2))
}

func TestHub_SendPreservesOrderOnOpenConnection(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := NewHub(clock)
	t.Cleanup(h.Stop)

	channel := testChannel()
	conn := &fakeConn{}
	client := NewClient(conn, clock)
	client.Open()
	h.Register(channel, client)

	h.Send(channel, map[string]string{"seq": "1"})
	h.Send(channel, map[string]string{"seq": "2"})

	require.True(t, waitForFrames(conn, 2))
	assert.JSONEq(t, `{"seq":"1"}`, conn.frame(0))
	assert.JSONEq(t, `{"seq":"2"}`, conn.frame(1))
}

func TestHub_CommandsAfterStopAreDroppedNotParked(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := NewHub(clock)

	channel := testChannel()
	conn := &fakeConn{}
	client := NewClient(conn, clock)
	client.Open()

	h.Register(channel, client)
	require.Equal(t, 1, h.Listeners(channel))

	h.Stop()

	// More sends than the command buffer holds: every one must return
	// immediately instead of parking once the buffer fills.
	for i := 0; i < 300; i++ {
		h.Send(channel, map[string]string{"action": "reload"})
	}
	h.Register(channel, client)

	assert.Equal(t, 0, h.Listeners(channel))
	assert.Equal(t, 0, conn.frameCount())

	// A second Stop returns instead of blocking on the dead loop.
	h.Stop()
}

func TestHub_ListenersOnUnknownChannelIsZero(t *testing.T) {
	h := NewHub(clockwork.NewFakeClock())
	t.Cleanup(h.Stop)

	assert.Equal(t, 0, h.Listeners(testChannel()))
}
