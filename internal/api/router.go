package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/inferlab/inquest/internal/api/handlers"
	mw "github.com/inferlab/inquest/internal/api/middleware"
	"github.com/inferlab/inquest/internal/buildconfig"
	"github.com/inferlab/inquest/internal/config"
	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/service"
	"github.com/inferlab/inquest/internal/store"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router  *chi.Mux
	Svc     *service.ConsultationService
	Janitor *service.Janitor

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the consultation service and HTTP surface over the loaded
// knowledge base. The pool may be nil; the server then runs without the
// archive and /v1/archive answers 503.
func NewApp(kb *domain.KnowledgeBase, db *pgxpool.Pool, logger *zap.Logger) *App {
	var archive domain.ArchiveStore
	if db != nil {
		archive = store.NewArchiveStore(db)
	}

	// Services
	svc := service.NewConsultationService(kb, archive, logger)
	svc.SetMaxDepth(config.MaxResolutionDepth())
	janitor := service.NewJanitor(svc, logger)
	janitor.SetTTL(config.SessionTTL())

	// Handlers
	consultationHandler := handlers.NewConsultationHandler(svc)
	archiveHandler := handlers.NewArchiveHandler(archive)
	kbHandler := handlers.NewKBHandler(kb)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Svc:       svc,
		Janitor:   janitor,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes when an API key is configured
	r.Route("/v1", func(r chi.Router) {
		if key := config.APIKey(); key != "" {
			r.Use(mw.APIKeyAuth(key))
		}

		// Consultations
		r.Route("/consultations", func(r chi.Router) {
			r.Post("/", consultationHandler.Create)
			r.Get("/", consultationHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", consultationHandler.Get)
				r.Delete("/", consultationHandler.Cancel)
				r.Post("/answer", consultationHandler.Answer)
				r.Get("/findings", consultationHandler.Findings)
			})
		})

		// Archived consultations
		r.Route("/archive", func(r chi.Router) {
			r.Get("/", archiveHandler.List)
			r.Get("/{id}", archiveHandler.GetByID)
		})

		// Knowledge base introspection
		r.Get("/kb", kbHandler.Get)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "archive": "disabled", "version": buildconfig.Version()})
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "archive": "ok", "version": buildconfig.Version()})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
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
var (
	_ domain.ArchiveStore = (*store.ArchiveStore)(nil)
)
