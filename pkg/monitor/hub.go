package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// clientBuffer is the per-client send queue size. Clients that fall
// further behind than this start losing events.
const clientBuffer = 32

// Hub streams run events to WebSocket clients and serves dashboard
// snapshots over HTTP.
type Hub struct {
	mu        sync.RWMutex
	collector *Collector
	dashboard *Dashboard
	clients   map[*hubClient]struct{}
	upgrader  websocket.Upgrader
	addr      string
	listener  net.Listener
	server    *http.Server
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub that broadcasts the collector's events. The
// dashboard is kept up to date from the same events and provides
// the initial state sent to new clients.
func NewHub(addr string, collector *Collector, dashboard *Dashboard) *Hub {
	h := &Hub{
		collector: collector,
		dashboard: dashboard,
		clients:   make(map[*hubClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		addr: addr,
	}

	collector.OnEvent(func(event RunEvent) {
		h.dashboard.UpdateFromEvent(event)
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		h.broadcast(data)
	})

	return h
}

// Handler returns the HTTP handler serving the monitor endpoints:
// /ws for the event stream, /snapshot for the current dashboard
// state, and /healthz.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/snapshot", h.handleSnapshot)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Start listens on the configured address and serves until the
// context is cancelled.
func (h *Hub) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("monitor listen: %w", err)
	}

	h.mu.Lock()
	h.listener = listener
	h.server = &http.Server{Handler: h.Handler()}
	server := h.server
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		// Close() does not touch hijacked connections, so the
		// WebSocket clients have to be closed explicitly.
		h.closeClients()
		server.Close()
	}()

	if err := server.Serve(listener); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Addr returns the address the hub is listening on. Before Start it
// returns the configured address.
func (h *Hub) Addr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.listener == nil {
		return h.addr
	}
	return h.listener.Addr().String()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &hubClient{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	// Queue the current snapshot so late joiners see where the run
	// stands before the next event arrives. The client is not
	// registered yet, so the buffered send cannot block.
	if data, err := json.Marshal(h.dashboard.Snapshot()); err == nil {
		client.send <- data
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go client.writeLoop()
	client.readLoop()

	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	close(client.send)
	conn.Close()
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.dashboard.Snapshot())
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

func (h *Hub) closeClients() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.conn.Close()
	}
}

func (c *hubClient) writeLoop() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readLoop consumes client frames until the connection drops. The
// hub never acts on inbound messages; reading is what surfaces the
// disconnect.
func (c *hubClient) readLoop() {
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
