package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/events"
)

// Hub tracks the connected callback clients. Register and unregister
// requests are serialised through Run.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	provider FigureProvider
	metrics  *infrastructure.BusinessMetrics
	stats    *Stats
	logger   *slog.Logger

	quit     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub that answers callbacks with provider. metrics may
// be nil.
func NewHub(provider FigureProvider, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		provider:   provider,
		metrics:    metrics,
		stats:      newStats(),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Run is the hub loop. It returns when ctx is done or Stop is called, after
// telling every client the server is going away and closing it.
func (h *Hub) Run(ctx context.Context) error {
	h.logger.InfoContext(ctx, "WebSocket hub started")
	defer func() {
		h.Stop()
		if n := h.Broadcast(events.NewErrorMessage("", CodeShuttingDown, "server is shutting down")); n > 0 {
			h.logger.Info("Shutdown notice sent", slog.Int("clients", n))
		}
		h.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Hub shutting down", slog.String("reason", ctx.Err().Error()))
			return nil

		case <-h.quit:
			h.logger.Info("Hub shutting down", slog.String("reason", "stopped"))
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.stats.connected()

			h.logger.InfoContext(client.context(), "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			client.queue(events.Message{
				ID:        client.id,
				Type:      events.MessageTypeConnect,
				Timestamp: time.Now().UTC(),
				Data:      map[string]string{"status": "connected", "client_id": client.id},
			})

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			delete(h.clients, client)
			count := len(h.clients)
			h.mu.Unlock()
			if !ok {
				continue
			}
			client.closeSend()
			h.stats.disconnected()

			h.logger.InfoContext(client.context(), "Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Register hands a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client; unknown clients are ignored
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client and returns how many accepted it
func (h *Hub) Broadcast(msg events.Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast", slog.String("error", err.Error()))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for client := range h.clients {
		if client.queueRaw(data) {
			sent++
		}
	}
	return sent
}

// Stats returns a snapshot of the hub counters
func (h *Hub) Stats() StatsSnapshot {
	return h.stats.Snapshot()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
		h.stats.disconnected()
	}
}
