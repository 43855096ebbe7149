package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Subject is the cache partition key: a state for catalog fetches, or a
// (state, place) pair for place detail. Immutable for the life of a request.
type Subject struct {
	State string `json:"state"`
	Place string `json:"place,omitempty"`
}

// StateSubject builds a subject for a state-wide catalog fetch.
func StateSubject(state string) Subject {
	return Subject{State: strings.TrimSpace(state)}
}

// PlaceSubject builds a subject for a single place within a state.
func PlaceSubject(state, place string) Subject {
	return Subject{State: strings.TrimSpace(state), Place: strings.TrimSpace(place)}
}

// IsZero reports whether the subject carries no state at all.
func (s Subject) IsZero() bool {
	return s.State == ""
}

// Key returns the normalized partition key used for cache lookups.
func (s Subject) Key() string {
	if s.Place == "" {
		return NormalizeKey(s.State)
	}
	return NormalizeKey(s.State) + "/" + NormalizeKey(s.Place)
}

// String renders the subject for prompts and log fields.
func (s Subject) String() string {
	if s.Place == "" {
		return s.State
	}
	return s.Place + ", " + s.State
}

// keyFolder lowercases and strips diacritics so "Māori Bāgh" and "maori bagh"
// share one conflict key.
var keyFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey folds a free-text name into its conflict-key form: trimmed,
// lowercased, diacritics removed, inner whitespace collapsed.
func NormalizeKey(name string) string {
	folded, _, err := transform.String(keyFolder, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
