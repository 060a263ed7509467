package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/reminder"
	"github.com/mmynk/tripledger/internal/service"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/internal/storage/sqlstore"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dsn := cfg.DBPath
	if cfg.DBType == sqlstore.DialectPostgres {
		dsn = cfg.DatabaseURL
	}
	store, err := sqlstore.Open(ctx, cfg.DBType, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "type", cfg.DBType, "participants", len(cfg.Participants))

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	authLimiter, err := middleware.NewMemoryLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT %q: %w", cfg.AuthRateLimit, err)
	}

	// Read procedures accept anonymous callers only when the ledger is public.
	readAuth := middleware.RequireAuth(jwtManager)
	if cfg.PublicView {
		readAuth = middleware.OptionalAuth(jwtManager)
		logger.Warn("PUBLIC_VIEW enabled, ledger is readable without login")
	}

	mux := http.NewServeMux()

	ledgerSvc := service.NewLedgerService(store, cfg.Participants, cfg.Currency, logger)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(ledgerSvc, connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		readAuth,
		middleware.LoggingInterceptor(logger),
		middleware.RequireAdmin(service.AdminProcedures...),
	))
	mux.Handle(ledgerPath, ledgerHandler)

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, cfg.IsAdminEmail, logger)
	authPath, authHandler := api.NewAuthServiceHandler(authSvc, connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RateLimit(authLimiter, logger, service.PublicAuthProcedures...),
		middleware.RequireAuth(jwtManager, service.PublicAuthProcedures...),
		middleware.LoggingInterceptor(logger),
	))
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", healthHandler(store))

	staticHandler, err := newStaticHandler(cfg.StaticPath, logger)
	if err != nil {
		return err
	}
	mux.Handle("/", staticHandler)

	job := reminder.NewJob(store, cfg.Participants, cfg.Currency, m, logger)
	if _, err := job.Run(ctx); err != nil {
		logger.Warn("Initial reminder run failed", "error", err)
	}
	scheduler, err := reminder.Start(job, cfg.ReminderSpec)
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	// Add logging and CORS middleware, then h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// newStaticHandler serves the frontend; unknown paths fall back to index.html.
func newStaticHandler(staticPath string, logger *slog.Logger) (http.Handler, error) {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown Connect procedures must not get the SPA page
		if strings.HasPrefix(r.URL.Path, "/tripledger.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
