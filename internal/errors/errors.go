package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a transport-level failure with a fixed status and error
// code. The predefined values are templates; attach the underlying error
// with WithCause.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`

	cause error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is matches any APIError carrying the same error code
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.ErrorCode == e.ErrorCode
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithCause returns a copy of e wrapping cause
func (e *APIError) WithCause(cause error) *APIError {
	c := *e
	c.cause = cause
	return &c
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

var (
	// ErrChartRender is returned when a figure cannot be drawn as PNG
	ErrChartRender = New(http.StatusInternalServerError, "CHART_RENDER_FAILED", "Chart rendering failed")

	// ErrWebSocketUpgrade is returned when /ws is hit without a websocket
	// handshake
	ErrWebSocketUpgrade = New(http.StatusBadRequest, "WEBSOCKET_UPGRADE_REQUIRED", "WebSocket upgrade required")
)
