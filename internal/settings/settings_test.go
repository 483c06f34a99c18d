package settings

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "app_config.json"))
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Settings{}) {
		t.Errorf("got %+v, want zero value", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "app_config.json"))
	want := Settings{HubToken: "hf_secret", RepoID: "alice/indic-recipes"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSaveOverwritesWhole(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "app_config.json"))
	_ = s.Save(Settings{HubToken: "hf_secret", RepoID: "alice/indic-recipes"})
	_ = s.Save(Settings{RepoID: "alice/other"})

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.HubToken != "" {
		t.Errorf("token survived whole-file rewrite: %q", got.HubToken)
	}
	if got.RepoID != "alice/other" {
		t.Errorf("repo = %q", got.RepoID)
	}
}
