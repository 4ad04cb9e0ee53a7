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

	"github.com/ideakiln/ideakiln/internal/api/handlers"
	mw "github.com/ideakiln/ideakiln/internal/api/middleware"
	"github.com/ideakiln/ideakiln/internal/buildconfig"
	"github.com/ideakiln/ideakiln/internal/config"
	"github.com/ideakiln/ideakiln/internal/domain"
	"github.com/ideakiln/ideakiln/internal/embedding"
	"github.com/ideakiln/ideakiln/internal/llm"
	"github.com/ideakiln/ideakiln/internal/search"
	"github.com/ideakiln/ideakiln/internal/service"
	"github.com/ideakiln/ideakiln/internal/store"
)

// Compile-time checks that the stores satisfy their domain interfaces.
var (
	_ domain.SessionStore   = (*store.SessionStore)(nil)
	_ domain.MessageStore   = (*store.MessageStore)(nil)
	_ domain.BeliefStore    = (*store.BeliefStore)(nil)
	_ domain.CandidateStore = (*store.CandidateStore)(nil)
	_ domain.RiskStore      = (*store.RiskStore)(nil)
	_ domain.MemoryDocStore = (*store.MemoryDocStore)(nil)
	_ domain.TurnStore      = (*store.TurnStore)(nil)
)

// App holds the router and shared metrics state.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	sessionStore := store.NewSessionStore(db)
	messageStore := store.NewMessageStore(db)
	beliefStore := store.NewBeliefStore(db)
	candidateStore := store.NewCandidateStore(db)
	riskStore := store.NewRiskStore(db)
	memoryDocStore := store.NewMemoryDocStore(db)
	turnStore := store.NewTurnStore(db)

	// External clients via provider factory
	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", config.LLMProvider()), zap.Error(err))
		llmClient = llm.NewMockClient()
	} else {
		logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))
	}

	searchClient, err := search.NewClient(config.SearchProvider(), config.SearchAPIKey())
	if err != nil {
		logger.Warn("search client initialization failed", zap.String("provider", config.SearchProvider()), zap.Error(err))
		searchClient = search.NewMockClient()
	} else {
		logger.Info("search client initialized", zap.String("provider", config.SearchProvider()))
	}

	embeddingClient, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
	if err != nil {
		logger.Warn("embedding client initialization failed", zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
		embeddingClient = embedding.NewMockClient()
	} else {
		logger.Info("embedding client initialized", zap.String("provider", config.EmbeddingProvider()))
	}

	// Services
	researchSvc := service.NewResearchService(searchClient,
		time.Duration(config.SearchMinIntervalMS())*time.Millisecond, logger)
	researchSvc.Timeout = time.Duration(config.SearchTimeoutMS()) * time.Millisecond

	handoffSvc := service.NewHandoffService(sessionStore, messageStore, memoryDocStore,
		llmClient, embeddingClient, logger)
	handoffSvc.TokenBudget = config.TokenBudget()

	interviewSvc := service.NewInterviewService(sessionStore, messageStore, beliefStore,
		candidateStore, riskStore, turnStore, llmClient, researchSvc, handoffSvc, logger)
	memorySvc := service.NewMemoryService(memoryDocStore, embeddingClient, logger)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(interviewSvc, memorySvc)
	candidateHandler := handlers.NewCandidateHandler(interviewSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/messages", sessionHandler.PostMessage)
				r.Get("/state", sessionHandler.GetState)
				r.Get("/memory", sessionHandler.GetMemory)
				r.Post("/candidate/capture", candidateHandler.Capture)
				r.Post("/candidate/discard", candidateHandler.Discard)
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"version":        buildconfig.VersionInfo(),
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
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
