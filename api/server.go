/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the review frontend

ROUTE GROUPS:
  /api/imports/*      Workbook upload and review sessions
  /api/employees/*    Employee reference data
  /api/calendar/*     Holiday/poya reference data
  /api/leave-grants   Approved leave grants
  /api/attendance     Committed attendance entries

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Import review sessions
		r.Route("/imports", func(r chi.Router) {
			r.Post("/", h.CreateImport)
			r.Route("/{token}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.CancelSession)
				r.Post("/approve-all", h.ApproveAll)
				r.Route("/rows/{rowId}", func(r chi.Router) {
					r.Patch("/", h.EditRow)
					r.Post("/approve", h.ApproveRow)
					r.Post("/skip", h.SkipRow)
				})
			})
		})

		// Reference data
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
		})
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.ListCalendarEvents)
			r.Post("/", h.CreateCalendarEvent)
		})
		r.Post("/leave-grants", h.CreateLeaveGrant)
		r.Get("/attendance", h.ListAttendance)
	})

	return r
}
