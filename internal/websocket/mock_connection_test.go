package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errConnClosed = errors.New("connection closed")

// mockConnection feeds ReadMessage from a channel and records writes
type mockConnection struct {
	mu       sync.Mutex
	inbound  chan []byte
	written  chan []byte
	closed   bool
	closeErr chan struct{}
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		inbound:  make(chan []byte, 16),
		written:  make(chan []byte, 64),
		closeErr: make(chan struct{}),
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errConnClosed
	}
	if messageType == websocket.TextMessage {
		m.written <- data
	}
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.inbound:
		return websocket.TextMessage, data, nil
	case <-m.closeErr:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseGoingAway}
	}
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.closeErr)
	}
	return nil
}

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConnection) SetReadDeadline(time.Time) error   { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetReadLimit(int64)                {}
func (m *mockConnection) SetPongHandler(func(string) error) {}
func (m *mockConnection) RemoteAddr() string                { return "127.0.0.1:50000" }
