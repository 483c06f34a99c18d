// Package recipeservice coordinates validation, image persistence, the CSV
// repository, and hub uploads behind one API used by HTTP, CLI, and MCP
// surfaces.
package recipeservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starford/rasoi/internal/apperr"
	"github.com/starford/rasoi/internal/hub"
	"github.com/starford/rasoi/internal/imagestore"
	"github.com/starford/rasoi/internal/models"
	"github.com/starford/rasoi/internal/recipestore"
	"github.com/starford/rasoi/internal/settings"
	"github.com/starford/rasoi/internal/sse"
)

// ValidationError is the recoverable, user-facing rejection of a submission.
// The input was not persisted; the user may correct and resubmit.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewRecipe is a candidate submission before validation and enrichment.
type NewRecipe struct {
	Name         string
	Language     string
	Region       string
	Ingredients  string
	Instructions string

	PrepTimeMinutes int
	CookTimeMinutes int
	Servings        int
	Difficulty      string

	// Image attaches raw bytes; ImageFilename references a file already in
	// the image store. At most one of the two is set.
	Image         *ImageUpload
	ImageFilename string
}

// ImageUpload carries the raw bytes of an attached image plus the original
// filename (for its extension).
type ImageUpload struct {
	Filename string
	Data     []byte
}

// Stats summarizes the dataset for the sidebar.
type Stats struct {
	Total      int            `json:"total"`
	ByLanguage map[string]int `json:"by_language"`
}

// Service is the application core behind every user action.
type Service struct {
	store    *recipestore.Store
	images   *imagestore.Store
	settings *settings.Store
	uploader *hub.Uploader
	broker   *sse.Broker

	now func() time.Time
}

// NewService wires the service. broker may be nil (CLI usage).
func NewService(store *recipestore.Store, images *imagestore.Store, sets *settings.Store, uploader *hub.Uploader, broker *sse.Broker) *Service {
	return &Service{
		store:    store,
		images:   images,
		settings: sets,
		uploader: uploader,
		broker:   broker,
		now:      time.Now,
	}
}

// AddRecipe validates in, persists the attached image (if any), and appends
// the record to the dataset. A *ValidationError means nothing was persisted.
func (s *Service) AddRecipe(_ context.Context, in NewRecipe) (models.Recipe, error) {
	if msgs := models.ValidateInput(in.Name, in.Ingredients, in.Instructions); len(msgs) > 0 {
		return models.Recipe{}, &ValidationError{Messages: msgs}
	}

	servings := in.Servings
	if servings == 0 {
		servings = models.DefaultServings
	}

	rec := models.Recipe{
		Name:             strings.TrimSpace(in.Name),
		Language:         models.NormalizeLanguage(in.Language),
		Region:           strings.TrimSpace(in.Region),
		Ingredients:      strings.TrimSpace(in.Ingredients),
		Instructions:     strings.TrimSpace(in.Instructions),
		PrepTimeMinutes:  in.PrepTimeMinutes,
		CookTimeMinutes:  in.CookTimeMinutes,
		TotalTimeMinutes: in.PrepTimeMinutes + in.CookTimeMinutes,
		Servings:         servings,
		Difficulty:       in.Difficulty,
		DateAdded:        s.now().Format(models.DateFormat),
	}
	if err := rec.Validate(); err != nil {
		return models.Recipe{}, &ValidationError{Messages: []string{err.Error()}}
	}

	// The image is written before the row so the stored filename always
	// names a file that exists at append time.
	switch {
	case in.Image != nil:
		filename, err := s.images.Save(in.Image.Data, rec.Name, in.Image.Filename)
		if err != nil {
			return models.Recipe{}, err
		}
		rec.ImageFilename = filename
	case in.ImageFilename != "":
		if !s.images.Exists(in.ImageFilename) {
			return models.Recipe{}, fmt.Errorf("image %s: %w", in.ImageFilename, apperr.ErrNotFound)
		}
		rec.ImageFilename = in.ImageFilename
	}

	if err := s.store.Append(rec); err != nil {
		return models.Recipe{}, err
	}
	if s.broker != nil {
		s.broker.PublishRecipeCreated(rec.Name, rec.Language)
	}
	return rec, nil
}

// ListRecipes returns records in insertion order, optionally filtered by
// language, along with the unfiltered total.
func (s *Service) ListRecipes(_ context.Context, language string) ([]models.Recipe, int, error) {
	recs, err := s.store.Load()
	if err != nil {
		return nil, 0, err
	}
	total := len(recs)
	if language == "" {
		return recs, total, nil
	}
	filtered := make([]models.Recipe, 0, len(recs))
	for _, r := range recs {
		if r.Language == language {
			filtered = append(filtered, r)
		}
	}
	return filtered, total, nil
}

// Stats computes the sidebar summary: record count and per-language breakdown.
func (s *Service) Stats(_ context.Context) (Stats, error) {
	recs, err := s.store.Load()
	if err != nil {
		return Stats{}, err
	}
	byLang := make(map[string]int)
	for _, r := range recs {
		byLang[r.Language]++
	}
	return Stats{Total: len(recs), ByLanguage: byLang}, nil
}

// ExportCSV re-encodes the whole dataset as a downloadable artifact named
// with the current date.
func (s *Service) ExportCSV(_ context.Context) ([]byte, string, error) {
	recs, err := s.store.Load()
	if err != nil {
		return nil, "", err
	}
	data, err := recipestore.EncodeCSV(recs)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("indic_recipes_%s.csv", s.now().Format("20060102"))
	return data, filename, nil
}

// Settings returns the runtime configuration blob.
func (s *Service) Settings() (settings.Settings, error) {
	return s.settings.Load()
}

// SaveSettings rewrites the runtime configuration blob.
func (s *Service) SaveSettings(cfg settings.Settings) error {
	return s.settings.Save(cfg)
}

// Upload pushes the dataset to the hub. repoID falls back to the configured
// one; the credential always comes from settings.
func (s *Service) Upload(ctx context.Context, repoID string, includeImages bool) (string, error) {
	cfg, err := s.settings.Load()
	if err != nil {
		return "", err
	}
	if repoID == "" {
		repoID = cfg.RepoID
	}
	if repoID == "" {
		return "", fmt.Errorf("%w: no repository configured", apperr.ErrAuth)
	}
	if cfg.HubToken == "" {
		return "", fmt.Errorf("%w: no hub token configured", apperr.ErrAuth)
	}

	msg, err := s.uploader.Upload(ctx, repoID, cfg.HubToken, includeImages)
	if err != nil {
		return "", err
	}
	if s.broker != nil {
		s.broker.Publish(sse.Event{Type: "upload.finished", Data: map[string]string{"repo": repoID}})
	}
	return msg, nil
}
