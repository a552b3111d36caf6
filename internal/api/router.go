package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/plotweave/internal/analysis"
	"github.com/Harshitk-cp/plotweave/internal/api/handlers"
	mw "github.com/Harshitk-cp/plotweave/internal/api/middleware"
	"github.com/Harshitk-cp/plotweave/internal/buildconfig"
	"github.com/Harshitk-cp/plotweave/internal/config"
	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/Harshitk-cp/plotweave/internal/service"
	"github.com/Harshitk-cp/plotweave/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and the pieces that need lifecycle management.
type App struct {
	Router      *chi.Mux
	Analysis    *service.AnalysisService
	RateLimiter *mw.RateLimiter
	metrics     *mw.MetricsCollector
	startTime   time.Time
}

// NewApp wires the service graph. A nil db serves previews only.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	var analysisStore domain.AnalysisStore
	if db != nil {
		analysisStore = store.NewAnalysisStore(db)
	} else {
		logger.Warn("no database configured, serving previews only")
	}

	analysisSvc := service.NewAnalysisService(analysisStore, analysis.NewPipeline(), logger)
	analysisSvc.SetLimits(config.AnalysisConcurrency(), config.MaxTextBytes())
	if err := analysisSvc.SetDefaultThreshold(config.ConfidenceThreshold()); err != nil {
		logger.Warn("ignoring configured confidence threshold", zap.Error(err))
	}

	analysisHandler := handlers.NewAnalysisHandler(analysisSvc)

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		Analysis:    analysisSvc,
		RateLimiter: mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
		metrics:     mw.NewMetricsCollector(),
		startTime:   time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiter.Middleware)

	// Unauthenticated
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/analyze/batch", analysisHandler.AnalyzeBatch)
		r.Route("/stories/{storyID}", func(r chi.Router) {
			r.Delete("/", analysisHandler.Delete)
			r.Post("/analyze", analysisHandler.Analyze)
			r.Get("/characters", analysisHandler.Characters)
			r.Get("/events", analysisHandler.Events)
		})
	})

	return app
}

// Start runs background maintenance until ctx is done.
func (app *App) Start(ctx context.Context) {
	go app.RateLimiter.Run(ctx, time.Minute)
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "storage": "disabled"})
			return
		}

		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "storage": "postgres"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		snap := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      snap.Requests,
			"in_flight":          snap.InFlight,
			"client_error_count": snap.ClientErrors,
			"server_error_count": snap.ServerErrors,
			"request_bytes":      snap.RequestBytes,
			"storage_enabled":    app.Analysis.CanPersist(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var _ domain.AnalysisStore = (*store.AnalysisStore)(nil)
