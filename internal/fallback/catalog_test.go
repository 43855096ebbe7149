package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatradesk/tourdata/internal/model"
)

func TestLoad_EmbeddedSeeds(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	places := c.Records(model.KindPlace, model.StateSubject("Jharkhand"))
	require.NotEmpty(t, places)

	names := make([]string, len(places))
	for i, r := range places {
		names[i] = r.Name
		assert.Equal(t, model.SourceFallback, r.Source)
		assert.Equal(t, model.KindPlace, r.Kind)
	}
	assert.Contains(t, names, "Dassam Falls")
	assert.Contains(t, names, "Betla National Park")
}

func TestRecords_StateKeyNormalized(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Records(model.KindPlace, model.StateSubject("  JHARKHAND ")))
}

func TestRecords_UnknownSubject(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Empty(t, c.Records(model.KindPlace, model.StateSubject("Atlantis")))
}

func TestRecords_NoSeedsForPlaceDetail(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Empty(t, c.Records(model.KindPlaceDetail, model.PlaceSubject("Jharkhand", "Netarhat")))
}

func TestRecords_PayloadDecodesAsTypedView(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	festivals := c.Records(model.KindFestival, model.StateSubject("Jharkhand"))
	require.NotEmpty(t, festivals)

	var f model.Festival
	require.NoError(t, festivals[0].Decode(&f))
	assert.NotEmpty(t, f.Name)
	assert.NotEmpty(t, f.Description)
	assert.Positive(t, f.DurationDays)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := parse([]byte("states: [not a map"))
	require.Error(t, err)
}
