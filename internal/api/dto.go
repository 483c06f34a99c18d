package api

import (
	"github.com/starford/rasoi/internal/models"
	"github.com/starford/rasoi/internal/recipeservice"
)

// RecipeListResponse wraps the dataset listing. Total counts the whole
// dataset even when a language filter narrowed the list.
type RecipeListResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int             `json:"total"`
}

// StatsResponse is the sidebar summary (aliased from the service layer).
type StatsResponse = recipeservice.Stats

// SettingsResponse exposes the runtime configuration with the credential
// masked.
type SettingsResponse struct {
	RepoID      string `json:"repo_id"`
	HubTokenSet bool   `json:"hub_token_set"`
}

// UpdateSettingsRequest is the request body for PUT /settings. An empty
// hub_token keeps the stored one; the blob is rewritten whole either way.
type UpdateSettingsRequest struct {
	HubToken string `json:"hub_token"`
	RepoID   string `json:"repo_id"`
}

// UploadRequest is the request body for POST /upload.
type UploadRequest struct {
	RepoID        string `json:"repo_id"`
	IncludeImages bool   `json:"include_images"`
}

// UploadResponse reports a finished upload.
type UploadResponse struct {
	Message string `json:"message"`
}
