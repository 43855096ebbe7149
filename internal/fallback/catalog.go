// Package fallback serves a small curated catalog used when generation and
// the cache both come up empty. Seeds ship embedded in the binary; unknown
// subjects simply have no seeds.
package fallback

import (
	_ "embed"
	"encoding/json"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/yatradesk/tourdata/internal/model"
)

//go:embed seeds.yaml
var seedsYAML []byte

type seedFile struct {
	States map[string]seedState `yaml:"states"`
}

type seedState struct {
	Places    []map[string]any `yaml:"places"`
	Festivals []map[string]any `yaml:"festivals"`
}

// Catalog holds the curated seed records, indexed by normalized state key.
type Catalog struct {
	states map[string]seedState
}

// Load parses the embedded seed file.
func Load() (*Catalog, error) {
	return parse(seedsYAML)
}

func parse(raw []byte) (*Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "fallback: parse seeds")
	}
	states := make(map[string]seedState, len(f.States))
	for name, s := range f.States {
		states[model.NormalizeKey(name)] = s
	}
	return &Catalog{states: states}, nil
}

// Records returns the seed records for a subject and kind, tagged as
// fallback. An unknown subject or kind yields an empty slice.
func (c *Catalog) Records(kind model.Kind, subject model.Subject) []model.Record {
	state, ok := c.states[model.NormalizeKey(subject.State)]
	if !ok {
		return nil
	}

	var payloads []map[string]any
	switch kind {
	case model.KindPlace:
		payloads = state.Places
	case model.KindFestival:
		payloads = state.Festivals
	default:
		return nil
	}

	records := make([]model.Record, 0, len(payloads))
	for _, p := range payloads {
		name, _ := p["name"].(string)
		if name == "" {
			continue
		}
		records = append(records, model.Record{
			Kind:    kind,
			Subject: subject,
			Name:    name,
			Payload: normalizePayload(p),
			Source:  model.SourceFallback,
		})
	}
	return records
}

// normalizePayload round-trips the YAML-decoded map through JSON so nested
// values carry the same types as validated generative payloads.
func normalizePayload(p map[string]any) map[string]any {
	raw, err := json.Marshal(p)
	if err != nil {
		return p
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return p
	}
	return out
}
