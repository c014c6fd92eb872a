package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/protocol"
)

func dialWebSocket(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/product-update-websocket"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForListeners(t *testing.T, srv *Server, channel domain.Channel, want int) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if srv.hub.Listeners(channel) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("channel never reached %d listeners", want)
}

func TestHandleWebSocket_NonUpgradeRequestRejected(t *testing.T) {
	srv := newTestServer(t, &mockWishService{})
	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/product-update-websocket")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandleWebSocket_RegisterThenBroadcastReachesClient(t *testing.T) {
	srv := newTestServer(t, &mockWishService{})
	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	conn := dialWebSocket(t, ts)
	channel := domain.Channel{UserID: testUserID, WishlistID: testWishlistID}

	err := conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"action":"register","userId":"`+testUserID+`","wishlistId":"`+testWishlistID+`"}`))
	require.NoError(t, err)

	waitForListeners(t, srv, channel, 1)

	srv.hub.Send(channel, protocol.NewReloadEvent())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"reload"}`, string(data))
}

func TestHandleWebSocket_ReloadFrameFansOutToViewers(t *testing.T) {
	srv := newTestServer(t, &mockWishService{})
	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	viewer := dialWebSocket(t, ts)
	sender := dialWebSocket(t, ts)
	channel := domain.Channel{UserID: testUserID, WishlistID: testWishlistID}

	err := viewer.WriteMessage(websocket.TextMessage,
		[]byte(`{"action":"register","userId":"`+testUserID+`","wishlistId":"`+testWishlistID+`"}`))
	require.NoError(t, err)
	waitForListeners(t, srv, channel, 1)

	err = sender.WriteMessage(websocket.TextMessage,
		[]byte(`{"action":"reload","userId":"`+testUserID+`","wishlistId":"`+testWishlistID+`"}`))
	require.NoError(t, err)

	require.NoError(t, viewer.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := viewer.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"reload"}`, string(data))
}

func TestHandleWebSocket_MalformedFrameKeepsConnectionAlive(t *testing.T) {
	srv := newTestServer(t, &mockWishService{})
	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	conn := dialWebSocket(t, ts)
	channel := domain.Channel{UserID: testUserID, WishlistID: testWishlistID}

	err := conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	require.NoError(t, err)

	// The connection survives the malformed frame and can still register.
	err = conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"action":"register","userId":"`+testUserID+`","wishlistId":"`+testWishlistID+`"}`))
	require.NoError(t, err)

	waitForListeners(t, srv, channel, 1)
}
