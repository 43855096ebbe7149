package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dassam Falls", "dassam falls"},
		{"  DASSAM   FALLS  ", "dassam falls"},
		{"Māluṅgā", "malunga"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestSubjectKey(t *testing.T) {
	assert.Equal(t, "jharkhand", StateSubject(" Jharkhand ").Key())
	assert.Equal(t, "jharkhand/netarhat", PlaceSubject("Jharkhand", "Netarhat").Key())
}

func TestSubjectString(t *testing.T) {
	assert.Equal(t, "Jharkhand", StateSubject("Jharkhand").String())
	assert.Equal(t, "Netarhat, Jharkhand", PlaceSubject("Jharkhand", "Netarhat").String())
}

func TestRecordNaturalKey(t *testing.T) {
	a := Record{Kind: KindPlace, Subject: StateSubject("Jharkhand"), Name: "Dassam Falls"}
	b := Record{Kind: KindPlace, Subject: StateSubject("JHARKHAND"), Name: "dassam  falls"}

	assert.Equal(t, a.NaturalKey(), b.NaturalKey())

	c := Record{Kind: KindFestival, Subject: StateSubject("Jharkhand"), Name: "Dassam Falls"}
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}

func TestRecordDecode(t *testing.T) {
	rec := Record{
		Kind: KindPlace,
		Name: "Dassam Falls",
		Payload: map[string]any{
			"name":               "Dassam Falls",
			"short_desc":         "A waterfall.",
			"type":               "nature",
			"tags":               []string{"nature", "waterfall"},
			"likely_coordinates": map[string]any{"lat": 23.251, "lon": 85.582},
			"confidence_score":   0.9,
		},
	}

	var p Place
	require.NoError(t, rec.Decode(&p))
	assert.Equal(t, "Dassam Falls", p.Name)
	assert.Equal(t, "nature", p.Type)
	require.NotNil(t, p.Coordinates)
	assert.InDelta(t, 23.251, p.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 0.9, p.ConfidenceScore, 1e-9)
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindPlace.Valid())
	assert.True(t, KindFestival.Valid())
	assert.True(t, KindPlaceDetail.Valid())
	assert.False(t, Kind("company").Valid())
}
