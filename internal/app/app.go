package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"supernova/internal/config"
	"supernova/internal/dataprocessing"
	apierrors "supernova/internal/errors"
	"supernova/internal/exporter"
	"supernova/internal/infrastructure"
	customMiddleware "supernova/internal/middleware"
	"supernova/internal/services"
	"supernova/internal/session"
	handlers "supernova/internal/transport/http"
	"supernova/internal/validation"
	"supernova/pkg/contracts"
)

// limiterIdle is how long a client's rate limiter survives without traffic
const limiterIdle = 10 * time.Minute

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.DashboardMetrics
	Store            session.Store
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	RateLimiter      *customMiddleware.RateLimiter
	ErrorHandler     *apierrors.ErrorHandler

	memoryStore *session.MemoryStore
	startTime   time.Time
}

// NewApplication loads configuration and the global logger, then builds the
// application from them.
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

// New wires an application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("version", contracts.Version),
		slog.String("addr", cfg.Server.Addr()),
		slog.String("session_backend", cfg.Session.Backend))

	providers, err := initTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		startTime:     time.Now(),
	}

	if err := app.initializeServices(); err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func initTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*infrastructure.OTelProviders, error) {
	if !cfg.TracingEnabled && !cfg.MetricsEnabled {
		return infrastructure.NoopProviders(logger), nil
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	if cfg.ServiceName != "" {
		otelCfg.ServiceName = cfg.ServiceName
	}
	otelCfg.EnableTracing = cfg.TracingEnabled
	otelCfg.EnableMetrics = cfg.MetricsEnabled
	otelCfg.TraceExporter = cfg.TraceExporter

	return infrastructure.InitializeOTel(otelCfg, logger)
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	a.Store = store

	metrics, err := infrastructure.CreateDashboardMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create dashboard metrics: %w", err)
	}
	a.Metrics = metrics

	var activeSessions func() int64
	if a.memoryStore != nil {
		activeSessions = func() int64 { return int64(a.memoryStore.Len()) }
	}
	if err := infrastructure.RegisterRuntimeMetrics(a.OTelProviders.Meter, a.startTime, activeSessions); err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	a.DashboardService = services.NewDashboardService(services.DashboardDeps{
		Store:     store,
		Pipeline:  dataprocessing.NewPipeline(a.Config.Search.MatchTimeout),
		Exporter:  exporter.New(),
		Validator: validation.NewFileValidator(a.Logger, a.Config.Upload.MaxBytes),
		Tracer:    a.OTelProviders.Tracer,
		Metrics:   metrics,
		Logger:    a.Logger,
	})
	a.HealthService = services.NewHealthService(store, a.Config.Session.Backend, a.Logger)

	if a.Config.Security.RateLimit.Enabled {
		a.RateLimiter = customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
	}

	return nil
}

// openStore creates the configured session store
func (a *Application) openStore() (session.Store, error) {
	switch a.Config.Session.Backend {
	case config.SessionBackendRedis:
		store, err := session.NewRedisStore(a.Config.Session.RedisURL, a.Config.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis session store: %w", err)
		}
		return store, nil
	default:
		a.memoryStore = session.NewMemoryStore(a.Config.Session.TTL)
		return a.memoryStore, nil
	}
}

// setupRouter configures the HTTP router with all routes
// Ordering: RequestID → RealIP → OTel → Errors → Security → CORS → RateLimit → Timeout.
// The errors middleware is also the access log and the panic recoverer.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			MaxAge:         300,
			Logger:         a.Logger,
		}))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Prometheus scrapes are not rate limited
	r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)

	r.Group(func(r chi.Router) {
		if a.RateLimiter != nil {
			r.Use(a.RateLimiter.Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		a.setupHTMLRoutes(r)
		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validationMiddleware := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(
			a.DashboardService,
			validationMiddleware,
			handlers.DashboardHandlerConfig{
				MaxUploadBytes: a.Config.Upload.MaxBytes,
				SecureCookie:   a.Config.Session.SecureCookie,
			},
			a.Logger,
			a.ErrorHandler,
		)
		r.Mount("/dashboard", dashboardHandler.Routes())
	})
}

// setupHTMLRoutes serves the dashboard page
func (a *Application) setupHTMLRoutes(r chi.Router) {
	r.Get("/", handlers.ServeDashboard(a.Config.Upload.MaxBytes, a.Logger))
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Serve accepts connections on ln until ctx is cancelled, running the
// background janitors alongside, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening", slog.String("addr", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.memoryStore != nil && a.Config.Session.SweepEvery > 0 {
		g.Go(func() error {
			a.runEvery(ctx, a.Config.Session.SweepEvery, func() {
				if n := a.memoryStore.Sweep(); n > 0 {
					a.Logger.InfoContext(ctx, "expired sessions swept", slog.Int("count", n))
				}
			})
			return nil
		})
	}

	if a.RateLimiter != nil {
		g.Go(func() error {
			a.runEvery(ctx, limiterIdle, func() {
				if n := a.RateLimiter.Cleanup(limiterIdle); n > 0 {
					a.Logger.DebugContext(ctx, "idle rate limiters removed", slog.Int("count", n))
				}
			})
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return a.Stop()
	})

	return g.Wait()
}

func (a *Application) runEvery(ctx context.Context, every time.Duration, fn func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// Stop gracefully shuts down the application
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.InfoContext(ctx, "Shutting down application")

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session store close: %w", err))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.Logger.ErrorContext(ctx, "Application shutdown incomplete", slog.String("error", err.Error()))
		return err
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run listens on the configured address and serves until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	return a.Serve(ctx, ln)
}
