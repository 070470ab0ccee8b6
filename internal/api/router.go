package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Broker-Document-Importer/internal/api/middleware"
	"github.com/ndewijer/Broker-Document-Importer/internal/config"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

// NewRouter creates and configures the HTTP router.
// Detect and parse are read-only and public; everything that stores,
// exposes or removes imported activities requires the API key.
func NewRouter(
	systemService *service.SystemService,
	importService *service.ImportService,
	activityService *service.ActivityService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/import", func(r chi.Router) {
			importHandler := handlers.NewImportHandler(importService)
			r.Post("/detect", importHandler.Detect)
			r.Post("/parse", importHandler.Parse)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/", importHandler.Import)
				r.Post("/batch", importHandler.ImportBatch)
			})
		})

		r.Route("/activity", func(r chi.Router) {
			activityHandler := handlers.NewActivityHandler(activityService)
			r.Use(custommiddleware.APIKeyMiddleware)
			r.Get("/", activityHandler.Activities)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", activityHandler.GetActivity)
				r.Get("/reparse", activityHandler.ReparseActivity)
				r.Delete("/", activityHandler.DeleteActivity)
			})
		})
	})

	return r
}
