package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/manas360/practice-api/internal/api/handler"
	customMiddleware "github.com/manas360/practice-api/internal/api/middleware"
	"github.com/manas360/practice-api/internal/config"
	"github.com/manas360/practice-api/internal/insight"
	"github.com/manas360/practice-api/internal/llm"
	"github.com/manas360/practice-api/internal/scheduling"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, scheduler *scheduling.Service, insights *insight.Service, llmRouter *llm.Router) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(scheduler, insights)
	patientHandler := handler.NewPatientHandler(scheduler, insights)
	analyticsHandler := handler.NewAnalyticsHandler(scheduler)
	insightHandler := handler.NewInsightHandler(insights)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)

		// LLM providers
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		// Session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Post("/", sessionHandler.Create)
			r.Get("/export.csv", sessionHandler.ExportCSV)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Post("/status", sessionHandler.UpdateStatus)
				r.Post("/reschedule", sessionHandler.Reschedule)
				r.Post("/notes", sessionHandler.SetNotes)
				r.Post("/responses", sessionHandler.AddResponse)
				r.Post("/summary", sessionHandler.Summarize)
				r.Get("/export", sessionHandler.ExportJSON)
			})
		})

		// Patient routes
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientHandler.List)
			r.Get("/{patientID}/history", patientHandler.History)
			r.Post("/{patientID}/prediction", patientHandler.Predict)
		})

		// Analytics routes
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/stats", analyticsHandler.Stats)
			r.Get("/status-distribution", analyticsHandler.StatusDistribution)
			r.Get("/duration-series", analyticsHandler.DurationSeries)
		})

		// Insight routes
		r.Post("/insights/trends", insightHandler.Trends)
	})

	return r
}
