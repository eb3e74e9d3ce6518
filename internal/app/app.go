package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"scorepanel/internal/config"
	"scorepanel/internal/dataset"
	apierrors "scorepanel/internal/errors"
	"scorepanel/internal/infrastructure"
	customMiddleware "scorepanel/internal/middleware"
	"scorepanel/internal/services"
	handlers "scorepanel/internal/transport/http"
	"scorepanel/pkg/contracts"
)

var (
	// BuildTime is the ldflags build time, or the start time of an
	// unstamped build
	BuildTime = buildTime()
	// BuildID is the ldflags commit, or a per-day hash of the version
	BuildID = generateBuildID()
)

func buildTime() string {
	if contracts.BuildTime != "unknown" {
		return contracts.BuildTime
	}
	return time.Now().Format(time.RFC3339)
}

func generateBuildID() string {
	if contracts.GitCommit != "unknown" {
		return contracts.GitCommit
	}
	h := sha256.New()
	h.Write([]byte(config.AppVersion))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Loader        *dataset.Loader
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report *services.ReportService
	Health *services.HealthService
}

// NewApplication loads the configuration and logger and builds the
// application around them
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the application from an already loaded configuration. The
// dataset is read once here; a source that cannot be read stops startup.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if len(cfg.Data.Views) == 0 {
		cfg.Data.Views = config.DefaultViews()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("source", config.ResolveDataPath(cfg.Data.SourcePath)))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        infrastructure.WithComponent(logger, "app"),
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()
	if err := app.performStartupHealthCheck(ctx); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices creates all application services
func (a *Application) initializeServices() error {
	a.Loader = dataset.NewLoader(a.Logger, a.Metrics)

	report := services.NewReportService(a.Config, a.Loader, a.Metrics, a.Logger)
	health := services.NewHealthService(config.AppVersion, BuildTime, BuildID, report, a.Logger)

	a.Services = &ServiceContainer{
		Report: report,
		Health: health,
	}
	return nil
}

// setupRouter builds the router. Ordering: RequestID, RealIP, OTel,
// Logger, Recoverer, then security and rate limiting.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		handlers.NewHealthHandler(a.Services.Health, a.Logger).Routes(r)

		validator := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler, a.Services.Report.ViewIDs())
		reportHandler := handlers.NewReportHandler(a.Services.Report, validator, a.ErrorHandler, a.Metrics, a.Logger)

		r.Route("/report", func(r chi.Router) {
			r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
			r.Use(customMiddleware.Compress(5, "application/json", "text/csv", "image/svg+xml"))
			r.Mount("/", reportHandler.Routes())
		})
	})
}

// getCORSConfig returns CORS configuration for the API
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(runCtx, cancel); err != nil {
		return err
	}

	<-runCtx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}

// performStartupHealthCheck loads the dataset and reports what it holds.
// Failure to read the source is fatal.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	ds, err := a.Services.Report.Dataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to load data source: %w", err)
	}

	regionals := ds.Regionals(a.Config.Data.ExcludedRegionals)
	if len(regionals) == 0 {
		a.Logger.WarnContext(ctx, "Data source has no regional",
			slog.String("source", ds.Source))
	}

	for _, v := range a.Config.Data.Views {
		if _, err := ds.Table(v.Sheet); err != nil {
			a.Logger.WarnContext(ctx, "View sheet missing, the view will report an error",
				slog.String("view", string(v.ID)),
				slog.String("sheet", v.Sheet))
		}
	}

	a.Logger.InfoContext(ctx, "Startup health check passed",
		slog.String("source", ds.Source),
		slog.Int("sheets", len(ds.Sheets())),
		slog.Int("rows", ds.Rows()),
		slog.Int("regionals", len(regionals)))
	return nil
}
