// Package recipestore implements the append-only CSV repository that is the
// single source of truth for the recipe dataset.
package recipestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/starford/rasoi/internal/models"
	"github.com/starford/rasoi/internal/storage"
)

// Header is the fixed column order of the backing CSV file. It must stay
// stable across appends so the file remains appendable by any consumer.
var Header = []string{
	"name",
	"language",
	"region",
	"ingredients",
	"instructions",
	"prep_time_minutes",
	"cook_time_minutes",
	"total_time_minutes",
	"servings",
	"difficulty",
	"image_filename",
	"date_added",
}

// Store is the CSV-backed recipe repository. It owns a cached snapshot of the
// file contents: populated on first Load, invalidated only by a successful
// Append. External edits to the file are not observed until then.
type Store struct {
	path string

	mu     sync.Mutex
	cache  []models.Recipe
	loaded bool
}

// New creates a Store backed by the CSV file at path. The file may not exist
// yet; it is created on first Append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing CSV file.
func (s *Store) Path() string {
	return s.path
}

// Load returns every record in insertion order. The result is cached; a
// missing backing file yields an empty slice.
func (s *Store) Load() ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return append([]models.Recipe(nil), s.cache...), nil
	}
	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	s.cache = recs
	s.loaded = true
	return append([]models.Recipe(nil), recs...), nil
}

// Append adds rec as the last row. The whole file is re-read and rewritten
// (atomically), and the cached snapshot is invalidated so the next Load
// reflects the new row.
func (s *Store) Append(rec models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read fresh from disk rather than trusting the cache.
	recs, err := s.readAll()
	if err != nil {
		return err
	}
	recs = append(recs, rec)

	data, err := EncodeCSV(recs)
	if err != nil {
		return err
	}
	if err := storage.WriteAtomic(s.path, data); err != nil {
		return err
	}

	s.cache = nil
	s.loaded = false
	return nil
}

// Invalidate drops the cached snapshot so the next Load re-reads the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.loaded = false
}

func (s *Store) readAll() ([]models.Recipe, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Recipe{}, nil
		}
		return nil, fmt.Errorf("recipestore: read %s: %w", s.path, err)
	}
	return DecodeCSV(data)
}

// EncodeCSV renders records as the backing CSV format, header row included.
func EncodeCSV(recs []models.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("recipestore: write header: %w", err)
	}
	for _, r := range recs {
		if err := w.Write(toRow(r)); err != nil {
			return nil, fmt.Errorf("recipestore: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("recipestore: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses backing-file bytes into records, preserving row order.
func DecodeCSV(data []byte) ([]models.Recipe, error) {
	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("recipestore: parse csv: %w", err)
	}
	if len(rows) == 0 {
		return []models.Recipe{}, nil
	}
	if len(rows[0]) != len(Header) {
		return nil, fmt.Errorf("recipestore: unexpected column count %d, want %d", len(rows[0]), len(Header))
	}
	recs := make([]models.Recipe, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("recipestore: row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func toRow(r models.Recipe) []string {
	return []string{
		r.Name,
		r.Language,
		r.Region,
		r.Ingredients,
		r.Instructions,
		strconv.Itoa(r.PrepTimeMinutes),
		strconv.Itoa(r.CookTimeMinutes),
		strconv.Itoa(r.TotalTimeMinutes),
		strconv.Itoa(r.Servings),
		r.Difficulty,
		r.ImageFilename,
		r.DateAdded,
	}
}

func fromRow(row []string) (models.Recipe, error) {
	var rec models.Recipe
	if len(row) != len(Header) {
		return rec, fmt.Errorf("column count %d, want %d", len(row), len(Header))
	}
	prep, err := strconv.Atoi(row[5])
	if err != nil {
		return rec, fmt.Errorf("prep_time_minutes: %w", err)
	}
	cook, err := strconv.Atoi(row[6])
	if err != nil {
		return rec, fmt.Errorf("cook_time_minutes: %w", err)
	}
	total, err := strconv.Atoi(row[7])
	if err != nil {
		return rec, fmt.Errorf("total_time_minutes: %w", err)
	}
	servings, err := strconv.Atoi(row[8])
	if err != nil {
		return rec, fmt.Errorf("servings: %w", err)
	}
	return models.Recipe{
		Name:             row[0],
		Language:         row[1],
		Region:           row[2],
		Ingredients:      row[3],
		Instructions:     row[4],
		PrepTimeMinutes:  prep,
		CookTimeMinutes:  cook,
		TotalTimeMinutes: total,
		Servings:         servings,
		Difficulty:       row[9],
		ImageFilename:    row[10],
		DateAdded:        row[11],
	}, nil
}
