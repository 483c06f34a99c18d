package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/rasoi/internal/testutil"
)

func testServer(t *testing.T) (*Server, *testutil.Env) {
	t.Helper()
	svc, env := testutil.TestService(t)
	return New(svc, env.Images), env
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "add_recipe":
		result, err = srv.addRecipe(ctx, req)
	case "list_recipes":
		result, err = srv.listRecipes(ctx, req)
	case "dataset_stats":
		result, err = srv.datasetStats(ctx, req)
	case "get_recipe_schema":
		result, err = srv.getRecipeSchema(ctx, req)
	case "import_recipe_image":
		result, err = srv.importRecipeImage(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func recipeArgs(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":              name,
		"language":          "Telugu",
		"ingredients":       "rice, chicken, saffron, spices",
		"instructions":      "marinate the chicken and layer it with parboiled rice",
		"prep_time_minutes": 20,
		"cook_time_minutes": 40,
		"difficulty":        "Hard",
	}
}

func TestAddAndListRecipes(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "add_recipe", recipeArgs("Hyderabadi Biryani"))
	if r.IsError {
		t.Fatalf("add_recipe failed: %s", resultText(r))
	}
	var rec struct {
		TotalTimeMinutes int `json:"total_time_minutes"`
		Servings         int `json:"servings"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.TotalTimeMinutes != 60 || rec.Servings != 4 {
		t.Errorf("record = %+v", rec)
	}

	r = callTool(t, srv, "list_recipes", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Hyderabadi Biryani") {
		t.Errorf("list missing record: %s", resultText(r))
	}
}

func TestAddRecipeValidationErrors(t *testing.T) {
	srv, env := testServer(t)

	args := recipeArgs("Hi")
	args["ingredients"] = "salt"
	args["instructions"] = "boil it"
	r := callTool(t, srv, "add_recipe", args)
	if !r.IsError {
		t.Fatal("expected error result")
	}
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &payload); err != nil {
		t.Fatalf("error payload not JSON: %q", resultText(r))
	}
	if len(payload.Errors) != 3 {
		t.Errorf("errors = %v, want 3", payload.Errors)
	}

	recs, _ := env.Store.Load()
	if len(recs) != 0 {
		t.Error("rejected submission was persisted")
	}
}

func TestAddRecipeMissingImageReference(t *testing.T) {
	srv, _ := testServer(t)
	args := recipeArgs("Masala Dosa")
	args["image_filename"] = "nope_12345678.png"
	r := callTool(t, srv, "add_recipe", args)
	if !r.IsError {
		t.Error("expected error for dangling image reference")
	}
}

func TestImportRecipeImageDataURI(t *testing.T) {
	srv, env := testServer(t)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testutil.PNG(t, color.White))
	r := callTool(t, srv, "import_recipe_image", map[string]interface{}{
		"url":         uri,
		"recipe_name": "Masala Dosa",
	})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
	var out struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.Filename, "Masala_Dosa_") || !strings.HasSuffix(out.Filename, ".png") {
		t.Errorf("filename = %q", out.Filename)
	}
	if !env.Images.Exists(out.Filename) {
		t.Error("imported image not stored")
	}

	// The returned filename is accepted by add_recipe.
	args := recipeArgs("Masala Dosa")
	args["image_filename"] = out.Filename
	if res := callTool(t, srv, "add_recipe", args); res.IsError {
		t.Errorf("add_recipe with imported image failed: %s", resultText(res))
	}
}

func TestImportRecipeImageRejectsBadSource(t *testing.T) {
	srv, _ := testServer(t)

	cases := []string{
		"data:text/plain;base64,aGVsbG8=",
		"ftp://example.com/dish.png",
		"http://169.254.169.254/latest/meta-data",
	}
	for _, uri := range cases {
		r := callTool(t, srv, "import_recipe_image", map[string]interface{}{
			"url":         uri,
			"recipe_name": "Dal",
		})
		if !r.IsError {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestDatasetStats(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "add_recipe", recipeArgs("Pesarattu"))

	r := callTool(t, srv, "dataset_stats", map[string]interface{}{})
	var stats struct {
		Total      int            `json:"total"`
		ByLanguage map[string]int `json:"by_language"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.ByLanguage["Telugu"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetRecipeSchema(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_recipe_schema", nil)
	text := resultText(r)
	if !strings.Contains(text, "total_time_minutes") || !strings.Contains(text, "difficulty") {
		t.Errorf("schema contract looks wrong: %q", text)
	}
}
