package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/xpkg/logger"
)

func testGatewayClient(t *testing.T, g *Gateway) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(g.Handle))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The handshake completes before registration; wait for the client to
	// show up in the registry.
	deadline := time.Now().Add(2 * time.Second)
	for {
		g.mu.Lock()
		registered := len(g.clients) > 0
		g.mu.Unlock()
		if registered {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastFromManyGoroutines(t *testing.T) {
	g := NewGateway(logger.New("test"))
	conn := testGatewayClient(t, g)

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Broadcast([]byte(`{"event":"order.created"}`))
		}()
	}

	received := 0
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received < writers {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"order.created"}`, string(msg))
		received++
	}

	wg.Wait()
	g.mu.Lock()
	assert.Len(t, g.clients, 1)
	g.mu.Unlock()
}

func TestRunFansOutDeliveries(t *testing.T) {
	g := NewGateway(logger.New("test"))
	conn := testGatewayClient(t, g)

	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Body: []byte(`{"event":"cash.session_opened"}`)}
	deliveries <- amqp.Delivery{Body: []byte(`{"event":"cash.session_closed"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx, deliveries)
		close(done)
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"cash.session_opened"}`, string(first))

	_, second, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"cash.session_closed"}`, string(second))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop on context cancel")
	}
}

func TestBroadcastDropsDeadClient(t *testing.T) {
	g := NewGateway(logger.New("test"))
	conn := testGatewayClient(t, g)

	conn.Close()
	// A closed peer is detected on write and removed from the registry.
	deadline := time.Now().Add(2 * time.Second)
	for {
		g.Broadcast([]byte(`{}`))
		g.mu.Lock()
		remaining := len(g.clients)
		g.mu.Unlock()
		if remaining == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("dead client was never dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
