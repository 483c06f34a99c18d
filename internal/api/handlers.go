package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/rasoi/internal/apperr"
	"github.com/starford/rasoi/internal/imagestore"
	"github.com/starford/rasoi/internal/recipeservice"
	"github.com/starford/rasoi/internal/settings"
)

const maxRecipeBytes = 20 << 20 // fields + one image

// Handler holds API route handlers.
type Handler struct {
	svc *recipeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recipeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateRecipe handles POST /api/recipes (multipart/form-data with the
// record fields plus an optional "image" file).
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecipeBytes)
	if err := r.ParseMultipartForm(maxRecipeBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("request too large or invalid multipart form"))
		return
	}

	in := recipeservice.NewRecipe{
		Name:         r.FormValue("name"),
		Language:     r.FormValue("language"),
		Region:       r.FormValue("region"),
		Ingredients:  r.FormValue("ingredients"),
		Instructions: r.FormValue("instructions"),
		Difficulty:   r.FormValue("difficulty"),
	}
	for _, f := range []struct {
		field string
		dst   *int
	}{
		{"prep_time_minutes", &in.PrepTimeMinutes},
		{"cook_time_minutes", &in.CookTimeMinutes},
		{"servings", &in.Servings},
	} {
		v, err := formInt(r, f.field)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("%s must be an integer", f.field)))
			return
		}
		*f.dst = v
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		data, readErr := io.ReadAll(file)
		_ = file.Close()
		if readErr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to read image"))
			return
		}
		in.Image = &recipeservice.ImageUpload{Filename: header.Filename, Data: data}
	case errors.Is(err, http.ErrMissingFile):
		// Image is optional.
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("invalid image field"))
		return
	}

	rec, err := h.svc.AddRecipe(r.Context(), in)
	if err != nil {
		var verr *recipeservice.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: verr.Messages})
		case errors.Is(err, imagestore.ErrInvalidImage):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("create recipe failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to save recipe"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ListRecipes handles GET /api/recipes with an optional language filter.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	recs, total, err := h.svc.ListRecipes(r.Context(), language)
	if err != nil {
		slog.Error("list recipes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to load dataset"))
		return
	}
	writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: recs, Total: total})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to load dataset"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /api/export, serving the dataset as a dated CSV
// download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.ExportCSV(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export dataset"))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetSettings handles GET /api/settings with the credential masked.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.svc.Settings()
	if err != nil {
		slog.Error("load settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to load settings"))
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		RepoID:      cfg.RepoID,
		HubTokenSet: cfg.HubToken != "",
	})
}

// UpdateSettings handles PUT /api/settings. The blob is rewritten whole; an
// empty hub_token keeps the stored credential (GET never echoes it back).
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	current, err := h.svc.Settings()
	if err != nil {
		slog.Error("load settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to load settings"))
		return
	}
	next := settings.Settings{HubToken: req.HubToken, RepoID: req.RepoID}
	if next.HubToken == "" {
		next.HubToken = current.HubToken
	}
	if err := h.svc.SaveSettings(next); err != nil {
		slog.Error("save settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save settings"))
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		RepoID:      next.RepoID,
		HubTokenSet: next.HubToken != "",
	})
}

// Upload handles POST /api/upload, pushing the dataset to the hub.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	msg, err := h.svc.Upload(r.Context(), req.RepoID, req.IncludeImages)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNoData):
			writeJSON(w, http.StatusConflict, errorBody("no recipes to upload"))
		case errors.Is(err, apperr.ErrAuth):
			writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrTransmission):
			writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		default:
			slog.Error("upload failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("upload failed"))
		}
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{Message: msg})
}

// formInt parses an optional integer form field; absence means zero.
func formInt(r *http.Request, field string) (int, error) {
	v := r.FormValue(field)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
