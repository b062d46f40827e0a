package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/http/apierr"
	"github.com/tuanvumaihuynh/shelflife/internal/http/metric"
	"github.com/tuanvumaihuynh/shelflife/internal/http/middleware"
	"github.com/tuanvumaihuynh/shelflife/internal/http/swagger"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	healthChecker  db.HealthChecker
	catalogSvc     service.CatalogService
	stockRecordSvc service.StockRecordService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	registry *prometheus.Registry,
	healthChecker db.HealthChecker,
	catalogSvc service.CatalogService,
	stockRecordSvc service.StockRecordService,
) *Service {
	return &Service{
		cfg:            cfg,
		logger:         log.With(slog.String("service", "http")),
		registry:       registry,
		metrics:        metric.NewWithRegisterer(registry),
		healthChecker:  healthChecker,
		catalogSvc:     catalogSvc,
		stockRecordSvc: stockRecordSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with middlewares, docs and API routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	product := newProductHandler(s.catalogSvc)
	stockRecord := newStockRecordHandler(s.stockRecordSvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handle(product.ListProducts))
			r.Post("/", s.handle(product.CreateProduct))
			r.Get("/{id}", s.handle(product.GetProduct))
			r.Put("/{id}", s.handle(product.UpdateProduct))
			r.Delete("/{id}", s.handle(product.DeleteProduct))
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handle(stockRecord.ListStockRecords))
			r.Post("/", s.handle(stockRecord.SubmitStockRecord))
			r.Get("/expiring", s.handle(stockRecord.ListExpiringStockRecords))
			r.Get("/check-duplicate", s.handle(stockRecord.CheckDuplicate))
			r.Get("/preview", s.handle(stockRecord.PreviewExpiry))
			r.Delete("/{id}", s.handle(stockRecord.DeleteStockRecord))
		})
	})

	r.Get("/healthz", s.handle(s.health))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an API handler that leaves error rendering to the service.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.healthChecker.IsHealthy(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		return writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}

	return writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 && res.Code != apperr.DuplicateRecordErrorCode {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
