// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the recipe dataset tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/rasoi/internal/imagestore"
	"github.com/starford/rasoi/internal/recipeservice"
)

// Server wraps the MCP server with dataset tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *recipeservice.Service
	images *imagestore.Store
}

// New creates a new MCP server with all dataset tools registered.
func New(svc *recipeservice.Service, images *imagestore.Store) *Server {
	s := &Server{svc: svc, images: images}

	s.mcp = server.NewMCPServer(
		"Rasoi",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_recipe",
		mcp.WithDescription("Add one recipe record to the local dataset. "+
			"Fields MUST follow the dataset schema; read it first via the "+
			"get_recipe_schema tool or the rasoi://recipe-format resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Recipe name (at least 3 characters)")),
		mcp.WithString("language", mcp.Required(), mcp.Description("Language of origin; unrecognized values are stored as Other")),
		mcp.WithString("region", mcp.Description("Optional region or state, e.g. Andhra Pradesh")),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Ingredient list (at least 10 characters)")),
		mcp.WithString("instructions", mcp.Required(), mcp.Description("Step-by-step instructions (at least 20 characters)")),
		mcp.WithNumber("prep_time_minutes", mcp.Description("Preparation time in minutes")),
		mcp.WithNumber("cook_time_minutes", mcp.Description("Cooking time in minutes")),
		mcp.WithNumber("servings", mcp.Description("Servings, defaults to 4")),
		mcp.WithString("difficulty", mcp.Required(), mcp.Description("One of Easy, Medium, Hard")),
		mcp.WithString("image_filename", mcp.Description("Filename previously returned by import_recipe_image")),
	), s.addRecipe)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List dataset records, optionally filtered by language."),
		mcp.WithString("language", mcp.Description("Optional language filter (empty for all)")),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("dataset_stats",
		mcp.WithDescription("Return the record count and per-language breakdown."),
	), s.datasetStats)

	s.mcp.AddTool(mcp.NewTool("get_recipe_schema",
		mcp.WithDescription("Returns the canonical recipe dataset schema. "+
			"Call this before adding recipes to ensure correct field values."),
	), s.getRecipeSchema)

	s.mcp.AddTool(mcp.NewTool("import_recipe_image",
		mcp.WithDescription("Download a recipe image from an http(s) URL or base64 data URI "+
			"and store it under a content-addressed filename. Returns the filename to pass "+
			"as image_filename to add_recipe."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Image source: http(s) URL or data URI")),
		mcp.WithString("recipe_name", mcp.Required(), mcp.Description("Recipe name used to derive the stored filename")),
	), s.importRecipeImage)

	// Resource: dataset schema contract.
	s.mcp.AddResource(
		mcp.NewResource("rasoi://recipe-format", "Recipe Dataset Schema",
			mcp.WithResourceDescription("Canonical schema that all dataset records must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecipeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) addRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := recipeservice.NewRecipe{
		Name:            req.GetString("name", ""),
		Language:        req.GetString("language", ""),
		Region:          req.GetString("region", ""),
		Ingredients:     req.GetString("ingredients", ""),
		Instructions:    req.GetString("instructions", ""),
		PrepTimeMinutes: req.GetInt("prep_time_minutes", 0),
		CookTimeMinutes: req.GetInt("cook_time_minutes", 0),
		Servings:        req.GetInt("servings", 0),
		Difficulty:      req.GetString("difficulty", ""),
		ImageFilename:   req.GetString("image_filename", ""),
	}

	rec, err := s.svc.AddRecipe(ctx, in)
	if err != nil {
		var verr *recipeservice.ValidationError
		if errors.As(err, &verr) {
			out, _ := json.Marshal(map[string]any{"errors": verr.Messages})
			return mcp.NewToolResultError(string(out)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language := req.GetString("language", "")
	recs, total, err := s.svc.ListRecipes(ctx, language)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"recipes": recs,
		"total":   total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) datasetStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecipeSchema(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecipeFormatContract), nil
}

func (s *Server) readRecipeFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "rasoi://recipe-format",
			MIMEType: "text/markdown",
			Text:     RecipeFormatContract,
		},
	}, nil
}

func (s *Server) importRecipeImage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipeName, err := req.RequireString("recipe_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, ext, err := fetchImage(rawURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filename, err := s.images.Save(data, recipeName, "image"+ext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store image: %v", err)), nil
	}

	out, _ := json.Marshal(map[string]string{"filename": filename})
	return mcp.NewToolResultText(string(out)), nil
}
