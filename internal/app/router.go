package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfspace/shelfspace/internal/auth"
	"github.com/shelfspace/shelfspace/internal/categories"
	"github.com/shelfspace/shelfspace/internal/items"
	"github.com/shelfspace/shelfspace/internal/uploads"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Guard             *auth.Guard
	AuthHandler       *auth.Handler
	CategoriesHandler *categories.Handler
	ItemsHandler      *items.Handler
	UploadsHandler    *uploads.Handler
}

// NewRouter constructs the chi.Router with ShelfSpace defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r, params.Guard)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Guard.RequireAuth)
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
			r.Route("/items", params.ItemsHandler.MountRoutes)
			r.Route("/uploads", params.UploadsHandler.MountRoutes)
		})
	})

	return r
}
