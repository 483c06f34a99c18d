package recipeservice_test

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/starford/rasoi/internal/apperr"
	"github.com/starford/rasoi/internal/models"
	"github.com/starford/rasoi/internal/recipeservice"
	"github.com/starford/rasoi/internal/settings"
	"github.com/starford/rasoi/internal/testutil"
)

func newRecipe(name string) recipeservice.NewRecipe {
	return recipeservice.NewRecipe{
		Name:            name,
		Language:        "Telugu",
		Region:          "Telangana",
		Ingredients:     "rice, chicken, saffron, spices",
		Instructions:    "marinate the chicken and layer it with parboiled rice",
		PrepTimeMinutes: 20,
		CookTimeMinutes: 40,
		Difficulty:      models.DifficultyHard,
	}
}

func TestAddRecipeDerivedFields(t *testing.T) {
	svc, env := testutil.TestService(t)

	rec, err := svc.AddRecipe(context.Background(), newRecipe("Hyderabadi Biryani"))
	if err != nil {
		t.Fatalf("AddRecipe: %v", err)
	}
	if rec.TotalTimeMinutes != 60 {
		t.Errorf("total = %d, want 60", rec.TotalTimeMinutes)
	}
	if rec.Servings != models.DefaultServings {
		t.Errorf("servings = %d, want default %d", rec.Servings, models.DefaultServings)
	}
	if _, err := time.Parse(models.DateFormat, rec.DateAdded); err != nil {
		t.Errorf("date_added %q: %v", rec.DateAdded, err)
	}

	recs, err := env.Store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0] != rec {
		t.Errorf("stored %+v, returned %+v", recs, rec)
	}
}

func TestAddRecipeValidationRejected(t *testing.T) {
	svc, env := testutil.TestService(t)

	in := newRecipe("Hi")
	in.Ingredients = "salt"
	in.Instructions = "boil it"
	_, err := svc.AddRecipe(context.Background(), in)

	var verr *recipeservice.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Messages) != 3 {
		t.Errorf("messages = %v, want 3", verr.Messages)
	}

	recs, _ := env.Store.Load()
	if len(recs) != 0 {
		t.Errorf("rejected submission was persisted: %v", recs)
	}
}

func TestAddRecipeUnknownLanguageNormalized(t *testing.T) {
	svc, _ := testutil.TestService(t)
	in := newRecipe("Dal Makhani")
	in.Language = "Esperanto"
	rec, err := svc.AddRecipe(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Language != "Other" {
		t.Errorf("language = %q, want Other", rec.Language)
	}
}

func TestAddRecipeWithImage(t *testing.T) {
	svc, env := testutil.TestService(t)

	in := newRecipe("Masala Dosa")
	in.Image = &recipeservice.ImageUpload{
		Filename: "dosa.png",
		Data:     testutil.PNG(t, color.White),
	}
	rec, err := svc.AddRecipe(context.Background(), in)
	if err != nil {
		t.Fatalf("AddRecipe: %v", err)
	}
	if rec.ImageFilename == "" {
		t.Fatal("image filename not recorded")
	}
	if !strings.HasPrefix(rec.ImageFilename, "Masala_Dosa_") {
		t.Errorf("filename = %q", rec.ImageFilename)
	}
	if !env.Images.Exists(rec.ImageFilename) {
		t.Error("referenced image file does not exist")
	}
}

func TestAddRecipeBadImageNotPersisted(t *testing.T) {
	svc, env := testutil.TestService(t)

	in := newRecipe("Masala Dosa")
	in.Image = &recipeservice.ImageUpload{Filename: "dosa.png", Data: []byte("junk")}
	if _, err := svc.AddRecipe(context.Background(), in); err == nil {
		t.Fatal("expected error for undecodable image")
	}
	recs, _ := env.Store.Load()
	if len(recs) != 0 {
		t.Errorf("record persisted despite image failure: %v", recs)
	}
}

func TestListRecipesFilter(t *testing.T) {
	svc, _ := testutil.TestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ name, lang string }{
		{"Pesarattu", "Telugu"},
		{"Dal Makhani", "Hindi"},
		{"Gongura Pachadi", "Telugu"},
	} {
		in := newRecipe(tc.name)
		in.Language = tc.lang
		if _, err := svc.AddRecipe(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	all, total, err := svc.ListRecipes(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || total != 3 {
		t.Errorf("all = %d, total = %d", len(all), total)
	}

	telugu, total, err := svc.ListRecipes(ctx, "Telugu")
	if err != nil {
		t.Fatal(err)
	}
	if len(telugu) != 2 {
		t.Errorf("filtered = %d, want 2", len(telugu))
	}
	if total != 3 {
		t.Errorf("total = %d, want unfiltered 3", total)
	}
}

func TestStats(t *testing.T) {
	svc, _ := testutil.TestService(t)
	ctx := context.Background()

	for _, lang := range []string{"Telugu", "Telugu", "Hindi"} {
		in := newRecipe("Recipe " + lang)
		in.Language = lang
		if _, err := svc.AddRecipe(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.ByLanguage["Telugu"] != 2 || stats.ByLanguage["Hindi"] != 1 {
		t.Errorf("by_language = %v", stats.ByLanguage)
	}
}

func TestExportCSVDatedFilename(t *testing.T) {
	svc, _ := testutil.TestService(t)
	ctx := context.Background()
	if _, err := svc.AddRecipe(ctx, newRecipe("Avial")); err != nil {
		t.Fatal(err)
	}

	data, filename, err := svc.ExportCSV(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := "indic_recipes_" + time.Now().Format("20060102") + ".csv"
	if filename != want {
		t.Errorf("filename = %q, want %q", filename, want)
	}
	if !strings.Contains(string(data), "Avial") {
		t.Errorf("export missing record: %q", data)
	}
	if !strings.HasPrefix(string(data), "name,language,") {
		t.Errorf("export missing header: %q", data)
	}
}

func TestUploadUsesConfiguredSettings(t *testing.T) {
	svc, env := testutil.TestService(t)
	ctx := context.Background()
	if _, err := svc.AddRecipe(ctx, newRecipe("Avial")); err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveSettings(settings.Settings{HubToken: "tok", RepoID: "alice/indic-recipes"}); err != nil {
		t.Fatal(err)
	}

	msg, err := svc.Upload(ctx, "", false)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.Contains(msg, "alice/indic-recipes") {
		t.Errorf("message = %q", msg)
	}
	if got := env.Hub.Uploaded(); len(got) != 1 {
		t.Errorf("uploaded = %v", got)
	}
}

func TestUploadWithoutCredential(t *testing.T) {
	svc, env := testutil.TestService(t)
	ctx := context.Background()
	if _, err := svc.AddRecipe(ctx, newRecipe("Avial")); err != nil {
		t.Fatal(err)
	}
	_ = svc.SaveSettings(settings.Settings{RepoID: "alice/indic-recipes"})

	_, err := svc.Upload(ctx, "", false)
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
	if got := env.Hub.Uploaded(); len(got) != 0 {
		t.Errorf("uploaded = %v, want none", got)
	}
}

func TestUploadEmptyRepository(t *testing.T) {
	svc, _ := testutil.TestService(t)
	_ = svc.SaveSettings(settings.Settings{HubToken: "tok", RepoID: "alice/indic-recipes"})

	_, err := svc.Upload(context.Background(), "", false)
	if !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
