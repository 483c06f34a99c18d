package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/rasoi/internal/imagestore"
	"github.com/starford/rasoi/internal/recipeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *recipeservice.Service, images *imagestore.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	ih := NewImageHandler(images)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Dataset.
	r.Get("/recipes", h.ListRecipes)
	r.Post("/recipes", h.CreateRecipe)
	r.Get("/stats", h.Stats)
	r.Get("/export", h.Export)

	// Runtime configuration.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// Hub upload.
	r.Post("/upload", h.Upload)

	// Stored images.
	r.Get("/images/{filename}", ih.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
