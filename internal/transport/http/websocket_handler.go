package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	ws "github.com/justas-b/ecommerce-dashboard/internal/websocket"
)

// WebSocketHandler upgrades /ws requests and attaches them to the hub
type WebSocketHandler struct {
	hub          *ws.Hub
	upgrader     websocket.Upgrader
	pingPeriod   time.Duration
	pongWait     time.Duration
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// WebSocketOptions configures the upgrader and keepalive
type WebSocketOptions struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingPeriod      time.Duration
	PongWait        time.Duration

	// CheckOrigin overrides the same-origin check of the upgrader
	CheckOrigin func(r *http.Request) bool
}

// NewWebSocketHandler creates a websocket handler
func NewWebSocketHandler(hub *ws.Hub, opts WebSocketOptions, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *WebSocketHandler {
	if errorHandler == nil {
		errorHandler = apperrors.NewErrorHandler(logger, false)
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin:     opts.CheckOrigin,
		},
		pingPeriod:   opts.PingPeriod,
		pongWait:     opts.PongWait,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "websocket")),
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := middleware.GetReqID(ctx)
	if traceID == "" {
		traceID = infrastructure.GetTraceID(ctx)
	}

	if !websocket.IsWebSocketUpgrade(r) {
		h.errorHandler.HandleError(w, r, apperrors.ErrWebSocketUpgrade)
		return
	}

	// Upgrade writes its own HTTP error on failure
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	client, ok := ws.Serve(h.hub, ws.WrapConn(conn),
		ws.WithTraceID(traceID),
		ws.WithKeepalive(h.pingPeriod, h.pongWait),
		ws.WithClientLogger(h.logger),
	)
	if !ok {
		h.logger.WarnContext(ctx, "WebSocket rejected, hub stopped",
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	h.logger.InfoContext(ctx, "WebSocket connection established",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))
}
