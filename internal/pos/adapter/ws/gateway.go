package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"

	"restopos/internal/xpkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser clients are served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway consumes the notification exchange and fans every envelope out to
// all connected websocket clients.
type Gateway struct {
	mylog logger.Logger

	mu sync.Mutex
	// Each connection carries its own write lock; websocket connections
	// allow at most one writer at a time.
	clients map[*websocket.Conn]*sync.Mutex
}

func NewGateway(mylog logger.Logger) *Gateway {
	return &Gateway{
		mylog:   mylog,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away. Inbound frames are drained and discarded; this channel
// is broadcast-only.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.mylog.Action("ws_upgrade_failed").Error("failed to upgrade connection", err)
		return
	}

	g.mu.Lock()
	g.clients[conn] = &sync.Mutex{}
	count := len(g.clients)
	g.mu.Unlock()
	g.mylog.Action("ws_client_connected").Debug("client connected", "clients", count)

	go func() {
		defer g.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (g *Gateway) drop(conn *websocket.Conn) {
	g.mu.Lock()
	if _, ok := g.clients[conn]; ok {
		delete(g.clients, conn)
		conn.Close()
	}
	count := len(g.clients)
	g.mu.Unlock()
	g.mylog.Action("ws_client_disconnected").Debug("client disconnected", "clients", count)
}

// Broadcast sends raw JSON to every connected client. The per-connection lock
// serializes writes, so Broadcast is safe to call from any goroutine. Write
// failures drop the client; the rest keep receiving.
func (g *Gateway) Broadcast(message []byte) {
	g.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(g.clients))
	for conn, writeMu := range g.clients {
		conns[conn] = writeMu
	}
	g.mu.Unlock()

	for conn, writeMu := range conns {
		writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, message)
		writeMu.Unlock()
		if err != nil {
			g.drop(conn)
		}
	}
}

// Run consumes the delivery stream until the context is cancelled. Deliveries
// are broadcast in arrival order from this single loop.
func (g *Gateway) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			g.mylog.Action("ws_gateway_stopped").Info("stopping fan-out due to context cancel")
			return
		case msg, ok := <-deliveries:
			if !ok {
				g.mylog.Action("ws_gateway_stopped").Info("delivery channel closed")
				return
			}
			g.Broadcast(msg.Body)
		}
	}
}

// Stop closes every client connection.
func (g *Gateway) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for conn := range g.clients {
		conn.Close()
		delete(g.clients, conn)
	}
}
