// Package schema declares the per-entity field contracts and validates raw
// generative candidates against them. One generic validator, one schema
// instance per entity kind.
package schema

import (
	"github.com/yatradesk/tourdata/internal/model"
)

// FieldType selects the coercion rule applied to a candidate value.
type FieldType int

const (
	TypeString FieldType = iota
	TypeStringList
	TypeFloat
	TypeInt
	TypeBool
	TypeObjectList
	TypeCoordinates
)

// Field declares one payload field: whether it is mandatory, its default
// when absent, and the numeric range it must fall in when bounded.
type Field struct {
	Key      string
	Type     FieldType
	Required bool
	Aliases  []string // accepted alternate keys in model output
	Default  any
	Min      *float64
	Max      *float64
}

// Schema is the capability set for one entity kind: field contract, prompt
// template, and output-size cap for the generative call.
type Schema struct {
	Kind            model.Kind
	Fields          []Field
	MaxOutputTokens int64
	Prompt          func(subject model.Subject) string

	// Derive, when set, computes server-side fields from the validated
	// payload (e.g. mapping the first tag onto the allowed place types).
	Derive func(payload map[string]any)
}

// ForKind returns the schema registered for an entity kind.
func ForKind(kind model.Kind) (Schema, bool) {
	s, ok := registry[kind]
	return s, ok
}

var registry = map[model.Kind]Schema{
	model.KindPlace:       placeSchema,
	model.KindFestival:    festivalSchema,
	model.KindPlaceDetail: placeDetailSchema,
}

func f64(v float64) *float64 {
	return &v
}
