package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. Identity arrives via the X-User-Email
// header set by the fronting auth proxy; routes that act on approval
// requests reject anonymous calls themselves.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", userHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/floody/{spreadsheetID}", func(r chi.Router) {
			r.Post("/import", h.ImportSpreadsheet)
			r.Post("/export", h.ExportSpreadsheet)
		})

		r.Route("/gtmrequest", func(r chi.Router) {
			r.Post("/", h.CreateGtmRequest)
			r.Get("/{requestID}", h.GetGtmRequest)
			r.Post("/{requestID}/approve", h.ApproveGtmRequest)
			r.Post("/{requestID}/reject", h.RejectGtmRequest)
		})
	})

	return r
}
