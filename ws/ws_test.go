package ws

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akinalp/masala/pkg"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{}

func (fakeAuth) Authorize(r *http.Request, _ string) (string, error) {
	if r.URL.Query().Get("key") == "dash" {
		return "dashboard-key", nil
	}
	if r.Header.Get("Authorization") == "Bearer good-token" {
		return "admin@example.com", nil
	}
	return "", fmt.Errorf("%w: Unauthorized", pkg.ErrUnauthorized)
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, fakeAuth{}, []string{"*"}).HandleConnection))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws?" + query
	return websocket.DefaultDialer.Dial(url, nil)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHandleConnection_Unauthorized(t *testing.T) {
	_, srv := startHub(t)

	_, resp, err := dial(t, srv, "key=wrong")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleConnection_ReadyAndBroadcast(t *testing.T) {
	hub, srv := startHub(t)

	conn, _, err := dial(t, srv, "token=good-token")
	require.NoError(t, err)
	defer conn.Close()

	ready := readEvent(t, conn)
	assert.Equal(t, OpReady, ready.Op)
	assert.Equal(t, map[string]any{"actor": "admin@example.com"}, ready.Data)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToAll(Event{Op: OpOrderStatusUpdate, Data: OrderStatusData{OrderID: "ORD00000001", Status: "Shipped"}})
	hub.BroadcastToAll(Event{Op: OpOrderStatusUpdate, Data: OrderStatusData{OrderID: "ORD00000001", Status: "Delivered"}})

	first := readEvent(t, conn)
	second := readEvent(t, conn)
	assert.Equal(t, OpOrderStatusUpdate, first.Op)
	assert.Equal(t, "Shipped", first.Data.(map[string]any)["status"])
	assert.Equal(t, first.Seq+1, second.Seq)
}

func TestHeartbeat(t *testing.T) {
	_, srv := startHub(t)

	conn, _, err := dial(t, srv, "key=dash")
	require.NoError(t, err)
	defer conn.Close()

	readEvent(t, conn) // ready

	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))
	assert.Equal(t, OpHeartbeatAck, readEvent(t, conn).Op)
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub, srv := startHub(t)

	conn, _, err := dial(t, srv, "key=dash")
	require.NoError(t, err)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// Bağlı client yokken broadcast bloklamaz.
	hub.BroadcastToAll(Event{Op: OpContactCreate})
}

func TestShutdownClosesConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, fakeAuth{}, []string{"*"}).HandleConnection))
	defer srv.Close()

	conn, _, err := dial(t, srv, "key=dash")
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestNopPublisher(t *testing.T) {
	assert.NotPanics(t, func() { NopPublisher().BroadcastToAll(Event{Op: OpOrderCreate}) })
}
