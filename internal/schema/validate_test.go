package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatradesk/tourdata/internal/model"
)

var jharkhand = model.StateSubject("Jharkhand")

func TestValidate_DropsMissingName(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Dassam Falls", "short_desc": "A waterfall."},
		{"short_desc": "No name at all."},
		{"name": "   ", "short_desc": "Whitespace name."},
		{"name": "Netarhat", "short_desc": "A hill station."},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 2)
	assert.Equal(t, 2, dropped)
	// Survivors keep their input order.
	assert.Equal(t, "Dassam Falls", records[0].Name)
	assert.Equal(t, "Netarhat", records[1].Name)
}

func TestValidate_DropsMissingMandatoryField(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Hundru Falls"},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	assert.Empty(t, records)
	assert.Equal(t, 1, dropped)
}

func TestValidate_AcceptsAlias(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Hundru Falls", "description": "Tall waterfall."},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "Tall waterfall.", records[0].Payload["short_desc"])
}

func TestValidate_ConfidenceOutOfRange(t *testing.T) {
	candidates := []map[string]any{
		{"name": "A", "short_desc": "ok", "confidence_score": 1.4},
		{"name": "B", "short_desc": "ok", "confidence_score": -0.1},
		{"name": "C", "short_desc": "ok", "confidence_score": 0.9},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, "C", records[0].Name)
}

func TestValidate_BadCoordinatesDropRecord(t *testing.T) {
	candidates := []map[string]any{
		{"name": "A", "short_desc": "ok", "likely_coordinates": "23.2,85.5"},
		{"name": "B", "short_desc": "ok", "likely_coordinates": map[string]any{"lat": 123.0, "lon": 85.0}},
		{"name": "C", "short_desc": "ok", "likely_coordinates": map[string]any{"lat": 23.2, "lon": 85.5}},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Equal(t, 2, dropped)
	coords, ok := records[0].Payload["likely_coordinates"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 23.2, coords["lat"], 1e-9)
}

func TestValidate_NullCoordinatesAllowed(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Netarhat", "short_desc": "ok", "likely_coordinates": nil},
	}

	records, dropped := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Zero(t, dropped)
	assert.Nil(t, records[0].Payload["likely_coordinates"])
}

func TestValidate_FestivalDefaults(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Sarhul", "description": "Spring festival."},
	}

	records, dropped := Validate(candidates, festivalSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Zero(t, dropped)
	p := records[0].Payload
	assert.Equal(t, 1, p["duration_days"])
	assert.Equal(t, []string{}, p["traditions"])
	assert.Equal(t, false, p["estimated_date"])
}

func TestValidate_StringListDropsNonStrings(t *testing.T) {
	candidates := []map[string]any{
		{"name": "A", "short_desc": "ok", "tags": []any{"nature", 42.0, " waterfall ", ""}},
	}

	records, _ := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"nature", "waterfall"}, records[0].Payload["tags"])
}

func TestValidate_TrimsName(t *testing.T) {
	candidates := []map[string]any{
		{"name": "  Dassam Falls  ", "short_desc": "ok"},
	}

	records, _ := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	assert.Equal(t, "Dassam Falls", records[0].Name)
	assert.Equal(t, "Dassam Falls", records[0].Payload["name"])
}

func TestValidate_UnknownFieldsStripped(t *testing.T) {
	candidates := []map[string]any{
		{"name": "A", "short_desc": "ok", "hallucinated_field": "junk"},
	}

	records, _ := Validate(candidates, placeSchema, jharkhand)

	require.Len(t, records, 1)
	_, present := records[0].Payload["hallucinated_field"]
	assert.False(t, present)
}

func TestDerivePlaceType(t *testing.T) {
	tests := []struct {
		name string
		tags []any
		want any
	}{
		{"first recognized tag wins", []any{"waterfall", "Nature", "historical"}, "nature"},
		{"no recognized tag", []any{"waterfall", "scenic"}, nil},
		{"empty tags", []any{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := []map[string]any{
				{"name": "X", "short_desc": "ok", "tags": tt.tags},
			}
			records, _ := Validate(candidates, placeSchema, jharkhand)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Payload["type"])
		})
	}
}

func TestForKind(t *testing.T) {
	for _, kind := range []model.Kind{model.KindPlace, model.KindFestival, model.KindPlaceDetail} {
		s, ok := ForKind(kind)
		require.True(t, ok, "kind %s", kind)
		assert.Equal(t, kind, s.Kind)
		assert.Positive(t, s.MaxOutputTokens)
		assert.NotEmpty(t, s.Prompt(model.PlaceSubject("Jharkhand", "Netarhat")))
	}

	_, ok := ForKind(model.Kind("bogus"))
	assert.False(t, ok)
}
