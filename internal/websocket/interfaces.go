package websocket

import (
	"context"
	"time"

	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

// Connection is the subset of a gorilla connection used by a Client
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// FigureProvider answers callback requests
type FigureProvider interface {
	Figure(ctx context.Context, req api.ChartRequest) (domain.Figure, error)
}
