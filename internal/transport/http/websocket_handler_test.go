package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/shared/testutil"
	ws "github.com/justas-b/ecommerce-dashboard/internal/websocket"
	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/events"
)

type wireMessage struct {
	ID   string                 `json:"id"`
	Type events.MessageType     `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func TestWebSocketHandler_Callback(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	svc := new(mockDashboardService)
	svc.On("Figure", mock.Anything, api.ChartRequest{Chart: "country", Order: "tail"}).Return(countryFigure, nil)
	svc.On("Figure", mock.Anything, api.ChartRequest{Chart: "country", Order: "middle"}).Return(domain.Figure{},
		apperrors.NewInvalidArgumentError("order", "middle", "head", "tail"))

	hub := ws.NewHub(svc, nil, logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	srv := httptest.NewServer(NewWebSocketHandler(hub, WebSocketOptions{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}, nil, logger))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var connect wireMessage
	require.NoError(t, conn.ReadJSON(&connect))
	assert.Equal(t, events.MessageTypeConnect, connect.Type)

	require.NoError(t, conn.WriteJSON(events.CallbackRequest{
		ID:     "1",
		Chart:  "country",
		Params: api.ChartRequest{Order: "tail"},
	}))
	var figure wireMessage
	require.NoError(t, conn.ReadJSON(&figure))
	assert.Equal(t, "1", figure.ID)
	assert.Equal(t, events.MessageTypeFigure, figure.Type)
	assert.Equal(t, "Orders per Country", figure.Data["title"])

	require.NoError(t, conn.WriteJSON(events.CallbackRequest{
		ID:     "2",
		Chart:  "country",
		Params: api.ChartRequest{Order: "middle"},
	}))
	var failure wireMessage
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, "2", failure.ID)
	assert.Equal(t, events.MessageTypeError, failure.Type)
	assert.Equal(t, ws.CodeInvalidArgument, failure.Data["code"])
	assert.Contains(t, failure.Data["message"], "head, tail")

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_RejectsPlainRequest(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := ws.NewHub(new(mockDashboardService), nil, logger)

	rec := httptest.NewRecorder()
	NewWebSocketHandler(hub, WebSocketOptions{}, apperrors.NewErrorHandler(logger, false), logger).
		ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeWebSocket, problem["type"])
	assert.Equal(t, "WEBSOCKET_UPGRADE_REQUIRED", problem["error_code"])
}
