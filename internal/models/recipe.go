// Package models defines the domain types for Rasoi.
package models

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateFormat is the timestamp layout used for Recipe.DateAdded.
const DateFormat = "2006-01-02 15:04:05"

// Difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// DefaultServings is applied when a submission leaves servings unset.
const DefaultServings = 4

// Languages is the recognized language set; submissions outside it use "Other".
var Languages = []string{
	"Telugu", "Hindi", "Tamil", "Kannada", "Malayalam",
	"Marathi", "Bengali", "Gujarati", "Punjabi", "Other",
}

// Recipe represents one row of the recipe dataset. Rows are append-only and
// never mutated in place.
type Recipe struct {
	Name             string `json:"name"`
	Language         string `json:"language"`
	Region           string `json:"region"`
	Ingredients      string `json:"ingredients"`
	Instructions     string `json:"instructions"`
	PrepTimeMinutes  int    `json:"prep_time_minutes"`
	CookTimeMinutes  int    `json:"cook_time_minutes"`
	TotalTimeMinutes int    `json:"total_time_minutes"`
	Servings         int    `json:"servings"`
	Difficulty       string `json:"difficulty"`
	ImageFilename    string `json:"image_filename,omitempty"`
	DateAdded        string `json:"date_added"`
}

// Free-text minimum lengths, measured after trimming.
const (
	minNameLen         = 3
	minIngredientsLen  = 10
	minInstructionsLen = 20
)

// ValidateInput checks the free-text fields of a candidate submission and
// returns one message per violated rule. The rules are independent: every
// violation produces its own message, and an empty result means the input
// passed. Callers must not persist a submission that produced messages.
func ValidateInput(name, ingredients, instructions string) []string {
	var msgs []string
	checks := []struct {
		value string
		min   int
		msg   string
	}{
		{name, minNameLen, "Recipe name must be at least 3 characters long"},
		{ingredients, minIngredientsLen, "Ingredients must be at least 10 characters long"},
		{instructions, minInstructionsLen, "Instructions must be at least 20 characters long"},
	}
	for _, c := range checks {
		err := validation.Validate(strings.TrimSpace(c.value),
			validation.Required.Error(c.msg),
			validation.RuneLength(c.min, 0).Error(c.msg),
		)
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

// Validate checks the full record against the dataset schema. It is called
// on the complete record just before it is appended.
func (r Recipe) Validate() error {
	// ozzo skips rules on zero values, so the derived-total invariant is
	// enforced directly: it must hold even when every time field is zero.
	if r.TotalTimeMinutes != r.PrepTimeMinutes+r.CookTimeMinutes {
		return errors.New("total_time_minutes: must equal prep time plus cook time")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(minNameLen, 0)),
		validation.Field(&r.Language, validation.Required, validation.In(asAny(Languages)...)),
		validation.Field(&r.Ingredients, validation.Required, validation.RuneLength(minIngredientsLen, 0)),
		validation.Field(&r.Instructions, validation.Required, validation.RuneLength(minInstructionsLen, 0)),
		validation.Field(&r.PrepTimeMinutes, validation.Min(0)),
		validation.Field(&r.CookTimeMinutes, validation.Min(0)),
		validation.Field(&r.Servings, validation.Required, validation.Min(1)),
		validation.Field(&r.Difficulty, validation.Required,
			validation.In(DifficultyEasy, DifficultyMedium, DifficultyHard)),
		validation.Field(&r.DateAdded, validation.Required, validation.Date(DateFormat)),
	)
}

// NormalizeLanguage maps unrecognized languages to "Other".
func NormalizeLanguage(lang string) string {
	for _, l := range Languages {
		if l == lang {
			return lang
		}
	}
	return "Other"
}

func asAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
