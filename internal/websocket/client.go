package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Default keepalive; pingPeriod must be less than pongWait
	defaultPongWait   = 60 * time.Second
	defaultPingPeriod = (defaultPongWait * 9) / 10

	// Maximum callback request size
	maxMessageSize = 4096

	// Time allowed to answer one callback
	callbackTimeout = 10 * time.Second

	sendBuffer = 64
)

// Error codes of callback error messages
const (
	CodeInvalidRequest  = "invalid_request"
	CodeInvalidArgument = "invalid_argument"
	CodeInternal        = "internal_error"
	CodeShuttingDown    = "shutting_down"
)

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages, closed by the hub
	send   chan []byte
	sendMu sync.Mutex
	closed bool

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	pongWait    time.Duration
	pingPeriod  time.Duration

	logger *slog.Logger
}

// ClientOption customises a Client
type ClientOption func(*Client)

// WithTraceID tags the client's logs with traceID
func WithTraceID(traceID string) ClientOption {
	return func(c *Client) { c.traceID = traceID }
}

// WithKeepalive sets the ping period and pong timeout. Non-positive values
// keep the defaults.
func WithKeepalive(pingPeriod, pongWait time.Duration) ClientOption {
	return func(c *Client) {
		if pingPeriod > 0 && pongWait > pingPeriod {
			c.pingPeriod, c.pongWait = pingPeriod, pongWait
		}
	}
}

// WithClientLogger sets the base logger
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for conn attached to hub
func NewClient(hub *Hub, conn Connection, opts ...ClientOption) *Client {
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		id:          uuid.New().String(),
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pongWait:    defaultPongWait,
		pingPeriod:  defaultPingPeriod,
		logger:      hub.logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", c.id),
	)
	if c.traceID != "" {
		c.logger = c.logger.With(slog.String("trace_id", c.traceID))
	}
	return c
}

// ID returns the client id
func (c *Client) ID() string {
	return c.id
}

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads callback requests until the connection fails and answers
// each one in order
func (c *Client) ReadPump() {
	ctx := c.context()
	defer func() {
		c.logger.InfoContext(ctx, "WebSocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.queue(c.handle(ctx, raw))
	}
}

// handle answers one raw callback request
func (c *Client) handle(ctx context.Context, raw []byte) events.Message {
	var req events.CallbackRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.hub.stats.request(true)
		c.logger.WarnContext(ctx, "Malformed callback request", slog.String("error", err.Error()))
		return events.NewErrorMessage("", CodeInvalidRequest, "request is not valid JSON")
	}

	ctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()

	chartReq := req.ChartRequest()
	fig, err := c.hub.provider.Figure(ctx, chartReq)
	c.hub.stats.request(err != nil)
	c.hub.metrics.RecordWebSocketMessage(ctx, chartReq.Chart, err)
	if err != nil {
		code, msg := errorCode(err)
		c.logger.DebugContext(ctx, "Callback rejected",
			slog.String("request_id", req.ID),
			slog.String("chart", chartReq.Chart),
			slog.String("error", err.Error()))
		return events.NewErrorMessage(req.ID, code, msg)
	}
	return events.NewFigureMessage(req.ID, fig)
}

// errorCode maps a provider error onto a callback error code and a client
// safe message
func errorCode(err error) (string, string) {
	var appErr *apperrors.AppError
	if errors.Is(err, apperrors.ErrInvalidArgument) && errors.As(err, &appErr) {
		return CodeInvalidArgument, appErr.Message
	}
	return CodeInternal, "failed to compute figure"
}

// queue marshals msg onto the send buffer
func (c *Client) queue(msg events.Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", slog.String("error", err.Error()))
		return false
	}
	return c.queueRaw(data)
}

// queueRaw never blocks; a full buffer drops the message
func (c *Client) queueRaw(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.hub.stats.droppedMessages.Add(1)
		c.logger.Warn("Client buffer full, message dropped")
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump writes queued messages and keepalive pings until the hub
// closes the send channel or a write fails
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.context(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.hub.stats.messagesSent.Add(1)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// Serve registers a client for conn and starts its pumps. It returns false
// without starting them when the hub has stopped.
func Serve(hub *Hub, conn Connection, opts ...ClientOption) (*Client, bool) {
	client := NewClient(hub, conn, opts...)
	if !hub.Register(client) {
		conn.Close()
		return client, false
	}
	go client.WritePump()
	go client.ReadPump()
	return client, true
}
