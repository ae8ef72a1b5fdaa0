package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/justas-b/ecommerce-dashboard/internal/charts"
	"github.com/justas-b/ecommerce-dashboard/internal/config"
	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/exporter"
	"github.com/justas-b/ecommerce-dashboard/internal/files"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	customMiddleware "github.com/justas-b/ecommerce-dashboard/internal/middleware"
	"github.com/justas-b/ecommerce-dashboard/internal/services"
	handlers "github.com/justas-b/ecommerce-dashboard/internal/transport/http"
	ws "github.com/justas-b/ecommerce-dashboard/internal/websocket"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	DatasetMetrics *infrastructure.DatasetMetrics
	Registry       *prometheus.Registry

	Dataset          *dataprocessing.Dataset
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	WebSocketHub     *ws.Hub
	ErrorHandler     *apperrors.ErrorHandler

	Router *chi.Mux
	Server *http.Server
}

// NewApplication loads the configuration, initializes the global logger
// and builds the application
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New wires every component for cfg. The dataset is loaded here; a load
// failure is returned and nothing is served.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.String("git_commit", contracts.GitCommit))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: contracts.Version,
		EnableTracing:  cfg.Telemetry.TracingEnabled,
		EnableMetrics:  cfg.Telemetry.MetricsEnabled,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		ErrorHandler:  apperrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := a.initializeMetrics(); err != nil {
		return nil, err
	}
	if err := a.loadDataset(ctx); err != nil {
		providers.Shutdown(context.Background())
		return nil, err
	}
	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) initializeMetrics() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	// The dataset gauges share the exporter's registry when metrics are on
	a.Registry = a.OTelProviders.Registry
	if a.Registry == nil {
		a.Registry = prometheus.NewRegistry()
	}
	a.DatasetMetrics, err = infrastructure.NewDatasetMetrics(a.Registry)
	if err != nil {
		return fmt.Errorf("failed to create dataset metrics: %w", err)
	}
	return nil
}

// loadDataset runs the transformer once. The resulting dataset is never
// mutated afterwards.
func (a *Application) loadDataset(ctx context.Context) error {
	dsCfg, err := config.LoadDatasetConfig(a.Config.Paths.DatasetConfig)
	if err != nil {
		return apperrors.NewConfigError("failed to load dataset config", err)
	}

	var rng *rand.Rand
	if a.Config.Data.Seed != 0 {
		rng = rand.New(rand.NewSource(a.Config.Data.Seed))
	}
	generator := dataprocessing.NewGenerator(dataprocessing.DefaultCountries(), rng)

	manager := files.NewManager(a.Config.Paths.DataDir, a.Logger)
	opts := []dataprocessing.TransformerOption{
		dataprocessing.WithLogger(a.Logger),
		dataprocessing.WithRecordWriter(exporter.NewCSVWriter(manager, a.Logger)),
		dataprocessing.WithGeneration(a.Config.Data.GeneratedRows, a.Config.Data.GenerateStart, a.Config.Data.GenerateEnd),
		dataprocessing.WithGeneratedFileName(a.Config.Data.GeneratedFile),
	}
	if a.Config.Data.DiscoverLatest {
		opts = append(opts, dataprocessing.WithDiscovery(files.NewDiscovery(a.Config.Paths.DataDir)))
	}

	start := time.Now()
	result := dataprocessing.NewTransformer(dsCfg, a.Config.Paths.DataDir, generator, opts...).Transform(ctx)
	ds, err := result.Unwrap()
	if err != nil {
		a.Logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("source", result.Source),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	a.Dataset = ds
	a.DatasetMetrics.Observe(ds.Len(), ds.Synthetic())
	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", ds.Source()),
		slog.Int("orders", ds.Len()),
		slog.Bool("synthetic", ds.Synthetic()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (a *Application) initializeServices() {
	a.DashboardService = services.NewDashboardService(a.Dataset, a.Metrics, a.Logger)

	healthOpts := []services.HealthOption{services.WithBuildInfo(contracts.BuildTime, contracts.GitCommit)}
	if a.Config.WebSocket.Enabled {
		a.WebSocketHub = ws.NewHub(a.DashboardService, a.Metrics, a.Logger)
		healthOpts = append(healthOpts, services.WithClientCounter(a.WebSocketHub))
	}
	a.HealthService = services.NewHealthService(contracts.Version, a.Config.Paths, a.Dataset, a.Logger, healthOpts...)
}

// setupRouter builds the chi router. Middleware order: RequestID, RealIP,
// OTel, logger, recoverer, security headers, CORS, rate limiter, and a
// timeout on /api only.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	renderer := charts.NewRenderer()
	dashboard := handlers.NewDashboardHandler(a.DashboardService, renderer, a.Metrics, a.ErrorHandler, a.Logger)
	health := handlers.NewHealthHandler(a.HealthService, a.Logger)
	page := handlers.NewPageHandler(a.DashboardService, contracts.Version, a.WebSocketHub != nil, a.ErrorHandler, a.Logger)

	r.Get("/", page.ServeDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Mount("/dashboard", dashboard.Routes())
		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)
	})

	if a.WebSocketHub != nil {
		r.Handle("/ws", handlers.NewWebSocketHandler(a.WebSocketHub, handlers.WebSocketOptions{
			ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
			WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
			PingPeriod:      a.Config.WebSocket.PingPeriod,
			PongWait:        a.Config.WebSocket.PongWait,
			CheckOrigin:     a.checkOrigin,
		}, a.ErrorHandler, a.Logger))
	}

	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.Registry))

	a.Router = r
}

// checkOrigin accepts same-host upgrades and the configured CORS origins
func (a *Application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Serve runs the server on ln and the hub until ctx is cancelled or one of
// them fails, then shuts everything down
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.WebSocketHub != nil {
		g.Go(func() error {
			return a.WebSocketHub.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run listens on the configured port and serves until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.Logger.InfoContext(ctx, "Dashboard available",
		slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return a.Serve(ctx, ln)
}
