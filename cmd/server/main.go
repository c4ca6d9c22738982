package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devplatform/community-api/internal/auth"
	"github.com/devplatform/community-api/internal/config"
	"github.com/devplatform/community-api/internal/graphql"
	"github.com/devplatform/community-api/internal/i18n"
	"github.com/devplatform/community-api/internal/memstore"
	"github.com/devplatform/community-api/internal/mongodb"
	"github.com/devplatform/community-api/internal/prometheus"
	"github.com/devplatform/community-api/internal/resolvers"
	"github.com/devplatform/community-api/internal/seed"
	"github.com/devplatform/community-api/internal/store"
	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

var (
	requestsTotal = promauto.NewCounterVec(
		promclient.CounterOpts{
			Name: "community_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		promclient.HistogramOpts{
			Name:    "community_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: promclient.DefBuckets,
		},
		[]string{"method", "path"},
	)

	graphqlErrors = promauto.NewCounterVec(
		promclient.CounterOpts{
			Name: "community_api_graphql_errors_total",
			Help: "Total number of errors returned in GraphQL responses",
		},
		[]string{"code"},
	)
)

// closer is implemented by store backends holding external connections
type closer interface {
	Close()
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := setupLogger(cfg)
	logger.WithField("backend", cfg.StoreBackend).Info("Starting Community API")

	// Initialize business-level Prometheus metrics
	logger.Info("Initializing Prometheus metrics")
	prometheus.Init()

	backend, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize store")
	}
	if c, ok := backend.(closer); ok {
		defer c.Close()
	}

	// Wrap the store with metrics collector
	instrumented := prometheus.NewStoreCollector(backend)
	logger.Info("Store wrapped with Prometheus metrics collector")

	// Initialize GraphQL schema
	logger.Info("Initializing GraphQL schema")
	translator := i18n.NewTranslator(cfg.DefaultLocale)
	gqlSchema := graphql.NewSchema(resolvers.New(instrumented, translator, logger), logger)

	// Setup HTTP server
	srv := setupHTTPServer(cfg, gqlSchema, instrumented, translator, logger)

	// Start metrics server in background
	go startMetricsServer(cfg, logger)

	// Start main server in background
	go func() {
		logger.WithField("port", cfg.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(srv, cfg, logger)
}

// openStore connects the configured backend
func openStore(cfg *config.Config, logger *logrus.Logger) (store.Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		mem, _, err := openMemoryStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	mgr, err := mongodb.NewManager(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := mgr.HealthCheck(ctx); err != nil {
		logger.WithError(err).Warn("Initial MongoDB health check failed")
	} else {
		logger.Info("MongoDB connection successful")
	}

	// Tag uniqueness relies on the unique index, so startup fails without it
	initializer := mongodb.NewInitializer(logger, cfg.MongoConnectTimeout)
	if err := initializer.EnsureIndexes(context.Background(), mgr.Database()); err != nil {
		mgr.Close()
		return nil, err
	}
	return mgr, nil
}

// openMemoryStore builds the in-memory backend, loading the built-in fixtures
// when cfg.SeedMemory is set. The seed result is nil otherwise.
func openMemoryStore(cfg *config.Config, logger *logrus.Logger) (*memstore.Store, *seed.Result, error) {
	logger.Warn("Using in-memory store; data is lost on restart")
	mem := memstore.New(logger)
	if !cfg.SeedMemory {
		return mem, nil, nil
	}

	res, err := seed.NewSeeder(mem, logger).Apply(context.Background(), seed.DefaultSpec())
	if err != nil {
		return nil, nil, fmt.Errorf("seeding memory store: %w", err)
	}
	for key, id := range res.Users {
		logger.WithFields(logrus.Fields{"user": key, "id": id.Hex()}).Info("Seeded user")
	}
	return mem, res, nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func setupHTTPServer(cfg *config.Config, gqlSchema *graphql.Schema, s store.Store, translator *i18n.Translator, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()

	// GraphQL endpoint
	mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:           gqlSchema.GetSchemaPtr(),
		Pretty:           cfg.IsDevelopment(),
		GraphiQL:         cfg.IsDevelopment(),
		ResultCallbackFn: resultLogger(logger),
	}))

	// Health endpoint (liveness probe)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Readiness endpoint (readiness probe)
	mux.HandleFunc("/ready", readyHandler(s, logger))

	// Apply middleware, innermost first
	authMw := auth.NewMiddleware(cfg.JWTSecret, logger)
	var h http.Handler = authMw.ExtractToken(mux)
	h = translator.Middleware(h)
	h = metricsMiddleware()(h)
	h = loggingMiddleware(logger)(h)
	h = corsHandler(cfg).Handler(h)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func readyHandler(s store.Store, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.HealthCheck(ctx); err != nil {
			logger.WithError(err).Warn("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// resultLogger logs and counts the errors of every GraphQL response
func resultLogger(logger *logrus.Logger) handler.ResultCallbackFn {
	return func(ctx context.Context, params *gql.Params, result *gql.Result, responseBody []byte) {
		if len(result.Errors) == 0 {
			return
		}
		for _, e := range result.Errors {
			code, _ := e.Extensions["code"].(string)
			if code == "" {
				code = "internal"
			}
			graphqlErrors.WithLabelValues(code).Inc()
		}
		logger.WithFields(logrus.Fields{
			"operation":  params.OperationName,
			"errors":     result.Errors,
			"request_id": requestIDFromContext(ctx),
		}).Warn("GraphQL errors")
	}
}

func startMetricsServer(cfg *config.Config, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mux,
	}

	logger.WithField("port", cfg.MetricsPort).Info("Starting metrics server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("Metrics server failed")
	}
}

// Middleware

func corsHandler(cfg *config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept-Language", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Language"},
		MaxAge:         3600,
	})
}

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func loggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

			// Wrap response writer to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.statusCode,
				"duration":    time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
				"request_id":  requestID,
			}).Info("HTTP request")
		})
	}
}

func metricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			requestsTotal.WithLabelValues(r.Method, r.URL.Path, fmt.Sprintf("%d", rw.statusCode)).Inc()
			requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func waitForShutdown(srv *http.Server, cfg *config.Config, logger *logrus.Logger) {
	// Create channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until signal received
	sig := <-quit
	logger.WithField("signal", sig.String()).Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDuration())
	defer cancel()

	// Shutdown HTTP server
	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}

	logger.Info("Shutdown complete")
}
