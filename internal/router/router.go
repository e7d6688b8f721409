package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgeform/edgeform/internal/auth"
	"github.com/edgeform/edgeform/internal/handler"
	mw "github.com/edgeform/edgeform/internal/middleware"
)

func New(
	secrets auth.SecretSource,
	authH *handler.AuthHandler,
	subH *handler.SubmissionHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)
		r.Post("/submit", subH.Submit)
		r.Get("/submissions", subH.ListPublic)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			// Nested sub-routers don't inherit the custom 405 handler.
			r.MethodNotAllowed(methodNotAllowed)
			r.Use(auth.Middleware(secrets))

			r.Get("/submissions", subH.ListAdmin)
			r.Delete("/submissions", subH.Delete)
			r.Get("/forms/{formId}/stats", subH.Stats)
		})
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"success":false,"error":"method not allowed"}`))
}
