package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"github.com/spf13/cobra"

	"github.com/socialchef/telekit/instrument/asynqtrace"
	"github.com/socialchef/telekit/instrument/httptrace"
	"github.com/socialchef/telekit/instrument/pgxtrace"
	"github.com/socialchef/telekit/internal/config"
	"github.com/socialchef/telekit/internal/logger"
	"github.com/socialchef/telekit/telemetry"
)

const (
	serviceModule = "github.com/socialchef/telekit/cmd/telekit-demo"
	pingTask      = "demo:ping"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	tc := cfg.TelemetryConfig()
	tc.ModulePrefix = modulePrefix
	tc.TraceScopes = append(tc.TraceScopes, "github.com/riandyrn/otelchi", httptrace.ScopeName, pgxtrace.ScopeName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := telemetry.InitConfig(ctx, tc)
	if err != nil {
		logger.New(cfg.Env).Error("Failed to init telemetry", "error", err, "project", tc.ProjectName)
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}()

	// package main resolves to module "main"; bind the real path instead.
	lg := h.Logger().With(logger.ModuleKey, serviceModule)

	var pool *pgxpool.Pool
	if url := os.Getenv("DATABASE_URL"); url != "" {
		pool, err = pgxtrace.NewPool(ctx, url, h.TracerProvider())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
	}

	var jobs *asynq.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opt, err := asynq.ParseRedisURI(redisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		jobs = asynq.NewClient(opt)
		defer jobs.Close()

		srv := asynq.NewServer(opt, asynq.Config{Concurrency: 2})
		mux := asynq.NewServeMux()
		mux.Use(asynqtrace.Middleware(h.TracerProvider()))
		mux.HandleFunc(pingTask, func(ctx context.Context, t *asynq.Task) error {
			lg.InfoContext(ctx, "Processed ping job", "payload", string(t.Payload()))
			return nil
		})
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
		defer srv.Shutdown()
	}

	r := newRouter(h, lg, pool, jobs)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Starting server", "port", cfg.Port, "log_file", h.LogFile())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		lg.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRouter(h *telemetry.Handle, lg *slog.Logger, pool *pgxpool.Pool, jobs *asynq.Client) chi.Router {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware("telekit-demo",
		otelchi.WithChiRoutes(r),
		otelchi.WithTracerProvider(h.TracerProvider()),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	metricCfg := otelchimetric.NewBaseConfig("telekit-demo", otelchimetric.WithMeterProvider(h.MeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "traceparent", "tracestate"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	tracer := h.Tracer(serviceModule)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "ping")
		defer span.End()

		lg.DebugContext(ctx, "Handling ping")
		lg.InfoContext(ctx, "Pong", "remote", r.RemoteAddr)
		w.Write([]byte("pong"))
	})

	if pool != nil {
		r.Get("/db", func(w http.ResponseWriter, r *http.Request) {
			if err := pool.Ping(r.Context()); err != nil {
				lg.ErrorContext(r.Context(), "Database ping failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("OK"))
		})
	}

	if jobs != nil {
		r.Post("/jobs/ping", func(w http.ResponseWriter, r *http.Request) {
			info, err := jobs.EnqueueContext(r.Context(), asynq.NewTask(pingTask, []byte(r.RemoteAddr)))
			if err != nil {
				lg.ErrorContext(r.Context(), "Failed to enqueue job", "error", err)
				http.Error(w, "enqueue failed", http.StatusInternalServerError)
				return
			}
			lg.InfoContext(r.Context(), "Enqueued job", "task_id", info.ID)
			w.WriteHeader(http.StatusAccepted)
		})
	}

	if mh := h.MetricsHandler(); mh != nil {
		r.Handle("/metrics", mh)
	}

	return r
}
