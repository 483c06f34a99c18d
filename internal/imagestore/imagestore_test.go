package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// pngBytes renders a tiny solid-color PNG so Save's decode check passes.
func pngBytes(t *testing.T, c color.Color) []byte {
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

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "recipe_images"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSaveFilenamePattern(t *testing.T) {
	s := tempStore(t)
	name, err := s.Save(pngBytes(t, color.White), "Hyderabadi Biryani!", "dish.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	pattern := regexp.MustCompile(`^Hyderabadi_Biryani_[0-9a-f]{8}\.png$`)
	if !pattern.MatchString(name) {
		t.Errorf("filename %q does not match %v", name, pattern)
	}
	if !s.Exists(name) {
		t.Error("saved file does not exist")
	}
}

func TestSaveIdempotent(t *testing.T) {
	s := tempStore(t)
	data := pngBytes(t, color.White)

	first, err := s.Save(data, "Masala Dosa", "a.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := s.Save(data, "Masala Dosa", "a.png")
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if first != second {
		t.Errorf("identical bytes+name yielded %q then %q", first, second)
	}

	names, _ := s.List()
	if len(names) != 1 {
		t.Errorf("file count = %d, want 1 (overwrite, not duplicate)", len(names))
	}
}

func TestSaveDifferentBytesDiverge(t *testing.T) {
	s := tempStore(t)
	a, err := s.Save(pngBytes(t, color.White), "Masala Dosa", "a.png")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(pngBytes(t, color.Black), "Masala Dosa", "a.png")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("different bytes yielded the same filename %q", a)
	}
}

func TestSaveRejects(t *testing.T) {
	s := tempStore(t)
	valid := pngBytes(t, color.White)

	if _, err := s.Save(nil, "Dal", "a.png"); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := s.Save(valid, "Dal", "a.gif"); err == nil {
		t.Error("expected error for disallowed extension")
	}
	if _, err := s.Save(valid, "Dal", "noext"); err == nil {
		t.Error("expected error for missing extension")
	}
	if _, err := s.Save([]byte("not an image"), "Dal", "a.png"); err == nil {
		t.Error("expected error for undecodable bytes")
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hyderabadi Biryani!", "Hyderabadi_Biryani"},
		{"  Aloo  Gobi  ", "Aloo__Gobi"},
		{"chole-bhature_2", "chole-bhature_2"},
		{"@#$%", ""},
		{"पनीर टिक्का", "पनीर_टिक्का"},
	}
	for _, tc := range cases {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestListMissingDir(t *testing.T) {
	s := tempStore(t)
	if err := os.RemoveAll(s.Dir()); err != nil {
		t.Fatal(err)
	}
	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("len = %d, want 0", len(names))
	}
}

func TestPathTraversalBlocked(t *testing.T) {
	s := tempStore(t)
	for _, name := range []string{"../escape.png", "a/b.png", ""} {
		if _, err := s.Path(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}
