package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"guardhq/internal/realtime/bus"
	"guardhq/internal/realtime/metrics"
	"guardhq/internal/realtime/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the console origin; the deployment
		// fronts this with its own origin policy.
		return true
	},
}

// Hub streams bus events to WebSocket clients. It subscribes to the bus
// wildcard once and fans out; a client that cannot keep up is dropped
// rather than allowed to stall the emitter.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu          sync.RWMutex
	clients     map[*wsClient]struct{}
	unsubscribe func()
}

type wsClient struct {
	conn  *websocket.Conn
	send  chan []byte
	types map[string]bool
}

// NewHub creates a Hub subscribed to every event on the bus.
func NewHub(eventBus *bus.Bus, logger *slog.Logger, m *metrics.Metrics) *Hub {
	h := &Hub{
		logger:  logger,
		metrics: m,
		clients: make(map[*wsClient]struct{}),
	}
	h.unsubscribe = eventBus.Subscribe(models.EventAny, h.broadcast)
	return h
}

// Close detaches the hub from the bus and disconnects every client.
func (h *Hub) Close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// ClientCount reports the connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(event models.RealtimeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal realtime event", "type", event.Type, "error", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if len(client.types) > 0 && !client.types[event.Type] {
			continue
		}
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(h.clients, client)
			h.observeDisconnect()
		}
	}
}

// ServeWS upgrades the connection and streams events. The optional types
// query parameter narrows the stream to a comma-separated list of event
// types; absent means everything.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	client := &wsClient{
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		types: parseTypeFilter(r.URL.Query().Get("types")),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WebsocketClients.Inc()
	}

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) readPump(client *wsClient) {
	defer func() {
		h.drop(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// The stream is one-way; inbound frames only keep the connection
		// alive.
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", "error", err.Error())
			}
			return
		}
	}
}

func (h *Hub) drop(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.observeDisconnect()
	}
}

func (h *Hub) observeDisconnect() {
	if h.metrics != nil {
		h.metrics.WebsocketClients.Dec()
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func parseTypeFilter(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	types := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types[t] = true
		}
	}
	return types
}
