// Package events contains the message contracts of the dashboard callback
// channel.
package events

import (
	"time"

	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeFigure  MessageType = "figure"
	MessageTypeError   MessageType = "error"
	MessageTypeConnect MessageType = "connect"
)

// CallbackRequest is sent by the page whenever a control changes
type CallbackRequest struct {
	ID     string           `json:"id"`
	Chart  string           `json:"chart"`
	Params api.ChartRequest `json:"params"`
}

// ChartRequest merges the chart name into the params
func (r CallbackRequest) ChartRequest() api.ChartRequest {
	req := r.Params
	if r.Chart != "" {
		req.Chart = r.Chart
	}
	return req
}

// Message is the envelope of every server message
type Message struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewFigureMessage wraps a callback result
func NewFigureMessage(id string, data interface{}) Message {
	return Message{ID: id, Type: MessageTypeFigure, Timestamp: time.Now().UTC(), Data: data}
}

// NewErrorMessage reports a failed callback
func NewErrorMessage(id, code, message string) Message {
	return Message{
		ID:        id,
		Type:      MessageTypeError,
		Timestamp: time.Now().UTC(),
		Data:      ErrorData{Code: code, Message: message},
	}
}
