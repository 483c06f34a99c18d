// Package imagestore persists recipe images under content-addressed names.
package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"

	"github.com/starford/rasoi/internal/checksum"
	"github.com/starford/rasoi/internal/storage"
)

// ErrInvalidImage marks rejections of the upload itself (bad extension,
// undecodable bytes) as opposed to filesystem failures.
var ErrInvalidImage = errors.New("invalid image")

var allowedExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true,
}

// Store owns a flat directory of recipe images. There is no manifest; file
// existence is the only state.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if missing.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("imagestore: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: create dir: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute image directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a deterministic filename derived from the display
// name and a short content digest: <sanitized>_<8hex>.<ext>. Identical bytes
// under the same name collide on the same filename and overwrite silently;
// different bytes or names produce distinct files.
func (s *Store) Save(data []byte, displayName, originalFilename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image data", ErrInvalidImage)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported extension %q (allowed: jpg, jpeg, png)", ErrInvalidImage, ext)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := SanitizeName(displayName)
	if name == "" {
		name = "recipe"
	}
	filename := fmt.Sprintf("%s_%s.%s", name, checksum.Short(data), ext)

	abs, err := storage.SafeJoin(s.dir, filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("imagestore: write %s: %w", filename, err)
	}
	return filename, nil
}

// Path resolves filename inside the image directory, rejecting traversal.
func (s *Store) Path(filename string) (string, error) {
	return storage.SafeJoin(s.dir, filename)
}

// Exists reports whether filename is present in the image directory.
func (s *Store) Exists(filename string) bool {
	abs, err := storage.SafeJoin(s.dir, filename)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// List returns every filename in the image directory. A missing directory
// yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("imagestore: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// SanitizeName keeps alphanumerics, spaces, hyphens, and underscores from a
// display name, trims it, and replaces spaces with underscores.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
