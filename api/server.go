/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the calculator frontend

ROUTE GROUPS:
  /api/calculate, /api/rates, /api/docs, /api/version, /api/pdf/*
                        Public calculator
  /api/scenarios/*      Canned training events
  /api/admin/*          Password-protected configuration
  /*                    Static files (frontend)

STATIC FILE SERVING:
  Serves the built frontend from web/dist/ when present, falling back to
  index.html for client-side routing.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/acmcalc/serve.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds router options from process configuration.
type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string // defaults to ./web/dist
	RequestLogging bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Password"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", h.Calculate)
		r.Get("/rates", h.GetRates)
		r.Get("/docs", h.GetDocs)
		r.Get("/version", h.GetVersion)
		r.Get("/pdf/{type}", h.GetPDF)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/{id}", h.GetScenario)
			r.Post("/{id}/calculate", h.CalculateScenario)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)
				r.Post("/rates", h.ReplaceRates)
				r.Post("/docs", h.ReplaceDocs)
				r.Post("/version", h.ReplaceVersion)
				r.Post("/upload/{type}", h.UploadPDF)
				r.Get("/revisions", h.ListRevisions)
				r.Get("/monitor", h.GetMonitor)
				r.Post("/monitor/run", h.RunMonitor)
			})
		})
	})

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>HRD Corp ACM Calculator</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>HRD Corp ACM Calculator API</h1>
<p>The frontend is not built. The API is available:</p>
<ul>
<li><a href="/api/version">/api/version</a> - Edition stamp</li>
<li><a href="/api/rates">/api/rates</a> - Rate table</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Canned training events</li>
<li>POST /api/calculate - Calculate a training event</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
