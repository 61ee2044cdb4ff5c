package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	calchandler "abacus/internal/calculation/handler"
	calcmetrics "abacus/internal/calculation/metrics"
	calcservice "abacus/internal/calculation/service"
	"abacus/internal/catalog"
	"abacus/internal/platform/config"
	"abacus/internal/platform/httpserver"
	"abacus/internal/platform/logger"
	platformmetrics "abacus/internal/platform/metrics"
	"abacus/internal/platform/tracing"
	"abacus/internal/registry"
	"abacus/pkg/platform/httputil"
	"abacus/pkg/platform/middleware/metadata"
	"abacus/pkg/platform/middleware/requestid"
	"abacus/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Calculator logic lives in the catalog packages.
func main() {
	cfg, err := config.Load(os.Getenv("ABACUS_CONFIG"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// The catalog must be complete before the first request is served; a
	// duplicate id aborts startup.
	reg := registry.New()
	if err := catalog.Bootstrap(reg); err != nil {
		return err
	}
	m := calcmetrics.New()
	m.SetRegistrySize(reg.Len())
	log.Info("calculator catalog loaded",
		"calculators", reg.Len(),
		"categories", reg.Categories(),
	)

	backends, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		backends.Close(closeCtx)
	}()

	opts := []calcservice.Option{
		calcservice.WithLogger(log),
		calcservice.WithMetrics(m),
		calcservice.WithTracer(otel.Tracer("abacus/internal/calculation/service")),
		calcservice.WithBatchLimits(cfg.Calculation.BatchConcurrency, cfg.Calculation.MaxBatchSize),
	}
	if backends.usage != nil {
		opts = append(opts, calcservice.WithUsageStore(backends.usage))
	}
	if backends.audit != nil {
		opts = append(opts, calcservice.WithAuditPublisher(backends.audit))
	}
	svc, err := calcservice.New(reg, opts...)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server, newRouter(calchandler.New(svc, log, m), backends))

	g, gctx := errgroup.WithContext(ctx)
	if backends.worker != nil {
		g.Go(func() error {
			if err := backends.worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		log.Info("starting abacus", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRouter mounts the API behind the request-scoped middleware chain.
func newRouter(calculations *calchandler.Handler, backends *infra) http.Handler {
	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", healthHandler(backends))
	router.Handle("/metrics", platformmetrics.Handler())
	calculations.Register(router)
	return router
}

// healthHandler reports backend health. Failure details stay in the log;
// callers only see the status.
func healthHandler(backends *infra) http.HandlerFunc {
	log := backends.log
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := backends.Health(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
