package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/justas-b/ecommerce-dashboard/internal/charts"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	mw "github.com/justas-b/ecommerce-dashboard/internal/middleware"
)

// DashboardHandler serves the dashboard panels and charts
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *mw.Validator
	renderer     *charts.Renderer
	metrics      *infrastructure.BusinessMetrics
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a dashboard handler. metrics may be nil.
func NewDashboardHandler(
	service DashboardServiceInterface,
	renderer *charts.Renderer,
	metrics *infrastructure.BusinessMetrics,
	errorHandler *apperrors.ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	if renderer == nil {
		renderer = charts.NewRenderer()
	}
	return &DashboardHandler{
		service:      service,
		validator:    mw.NewValidator(logger),
		renderer:     renderer,
		metrics:      metrics,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/overview", h.GetOverview)
		r.Get("/winners", h.GetWinners)
		r.Get("/charts/{chart}", h.GetChart)
	})
	r.Get("/charts/{chart}/image", h.GetChartImage)

	return r
}

// GetOverview handles GET /api/dashboard/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, overview)
}

// GetWinners handles GET /api/dashboard/winners
func (h *DashboardHandler) GetWinners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.service.Winners(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, winners)
}

// GetChart handles GET /api/dashboard/charts/{chart}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req, err := h.validator.ChartRequestFromQuery(r, chi.URLParam(r, "chart"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fig, err := h.service.Figure(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, fig)
}

// GetChartImage handles GET /api/dashboard/charts/{chart}/image. The PNG is
// rendered into a buffer so a drawing failure still yields a problem
// response.
func (h *DashboardHandler) GetChartImage(w http.ResponseWriter, r *http.Request) {
	chart := chi.URLParam(r, "chart")
	req, err := h.validator.ChartRequestFromQuery(r, chart)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fig, err := h.service.Figure(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	img, err := h.renderer.RenderBytes(fig)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chart render failed",
			slog.String("chart", chart),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		h.errorHandler.HandleError(w, r, apperrors.ErrChartRender.WithCause(err))
		return
	}
	h.metrics.RecordChartRender(r.Context(), chart)

	w.Header().Set("Content-Type", charts.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
