package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// Kind identifies the entity type flowing through the pipeline. Each kind
// has its own schema, prompt template, and conflict key.
type Kind string

const (
	KindPlace       Kind = "place"
	KindFestival    Kind = "festival"
	KindPlaceDetail Kind = "place_detail"
)

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPlace, KindFestival, KindPlaceDetail:
		return true
	}
	return false
}

// Source records the provenance of a returned record set.
type Source string

const (
	SourceCached    Source = "cached"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
	SourceEmpty     Source = "empty"
)

// Record is the generic cache envelope: identity columns plus the validated
// entity payload. The payload holds only schema-approved fields.
type Record struct {
	ID        string         `json:"id,omitempty"`
	Kind      Kind           `json:"kind"`
	Subject   Subject        `json:"subject"`
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload"`
	Source    Source         `json:"source"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// NaturalKey is the conflict key the store enforces uniqueness on:
// normalized name within the record's subject partition.
func (r Record) NaturalKey() string {
	return string(r.Kind) + "|" + r.Subject.Key() + "|" + NormalizeKey(r.Name)
}

// Decode unmarshals the record payload into a typed view such as Place or
// Festival. The round-trip through JSON keeps the payload map authoritative.
func (r Record) Decode(v any) error {
	raw, err := json.Marshal(r.Payload)
	if err != nil {
		return eris.Wrap(err, "model: marshal payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return eris.Wrapf(err, "model: decode %s payload", r.Kind)
	}
	return nil
}
