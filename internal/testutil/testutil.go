// Package testutil provides shared test helpers for wiring a service over
// temporary data directories.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/rasoi/internal/hub"
	"github.com/starford/rasoi/internal/imagestore"
	"github.com/starford/rasoi/internal/recipeservice"
	"github.com/starford/rasoi/internal/recipestore"
	"github.com/starford/rasoi/internal/settings"
)

// FakeHubClient records transmissions instead of talking to the network.
type FakeHubClient struct {
	WhoamiErr error
	UploadErr error

	mu       sync.Mutex
	uploaded []string
}

func (f *FakeHubClient) Whoami(context.Context) (string, error) {
	if f.WhoamiErr != nil {
		return "", f.WhoamiErr
	}
	return "tester", nil
}

func (f *FakeHubClient) UploadFile(_ context.Context, _, pathInRepo string, _ []byte) error {
	if f.UploadErr != nil {
		return f.UploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, pathInRepo)
	return nil
}

// Uploaded returns the paths transmitted so far.
func (f *FakeHubClient) Uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploaded...)
}

// Env bundles the stores behind a test service.
type Env struct {
	Store    *recipestore.Store
	Images   *imagestore.Store
	Settings *settings.Store
	Hub      *FakeHubClient
}

// TestService wires a full service over a temp directory with a fake hub
// client and no event broker.
func TestService(t *testing.T) (*recipeservice.Service, *Env) {
	t.Helper()

	dir := t.TempDir()
	store := recipestore.New(filepath.Join(dir, "recipes.csv"))
	images, err := imagestore.New(filepath.Join(dir, "recipe_images"))
	if err != nil {
		t.Fatal(err)
	}
	sets := settings.NewStore(filepath.Join(dir, "app_config.json"))
	fake := &FakeHubClient{}
	uploader := hub.NewUploader(store.Path(), images, func(string) hub.Client { return fake })

	svc := recipeservice.NewService(store, images, sets, uploader, nil)
	return svc, &Env{Store: store, Images: images, Settings: sets, Hub: fake}
}

// PNG renders a tiny solid-color image for upload tests.
func PNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
