package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"money": func(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) },
	}).ParseFS(templateFS, "templates/dashboard.html"),
)

// dashboardPage is the data of the dashboard template
type dashboardPage struct {
	Title     string
	Version   string
	Overview  domain.Overview
	Winners   *domain.Winners
	Charts    []string
	Analytics []string
	WebSocket bool
}

// PageHandler renders the dashboard page
type PageHandler struct {
	service      DashboardServiceInterface
	version      string
	websocket    bool
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewPageHandler creates the page handler. websocket controls whether the
// page script opens the callback channel or falls back to plain requests.
func NewPageHandler(service DashboardServiceInterface, version string, websocket bool, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:      service,
		version:      version,
		websocket:    websocket,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "page")),
	}
}

// ServeDashboard handles GET /
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page := dashboardPage{
		Title:     "E-commerce Dashboard",
		Version:   h.version,
		Overview:  overview,
		Charts:    api.ChartNames,
		Analytics: []string{"orders", "revenue", "mean_revenue"},
		WebSocket: h.websocket,
	}

	// An empty dataset has no winners; the page shows the panel as empty
	winners, err := h.service.Winners(ctx)
	switch {
	case err == nil:
		page.Winners = &winners
	case apperrors.IsType(err, apperrors.ErrTypeNotFound) || errors.Is(err, dataprocessing.ErrEmptyDataset):
	default:
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "dashboard template failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(ctx)))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
