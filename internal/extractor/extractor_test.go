package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_BareArray(t *testing.T) {
	items, err := Extract(`[{"name":"Dassam Falls"},{"name":"Netarhat"}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dassam Falls", items[0]["name"])
	assert.Equal(t, "Netarhat", items[1]["name"])
}

func TestExtract_SingleObject(t *testing.T) {
	items, err := Extract(`{"name":"Betla National Park","long_desc":"..."}`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Betla National Park", items[0]["name"])
}

func TestExtract_FencedWithLanguageTag(t *testing.T) {
	raw := "```json\n[{\"name\":\"Hundru Falls\"}]\n```"
	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hundru Falls", items[0]["name"])
}

func TestExtract_FenceInsideProse(t *testing.T) {
	raw := "Here is the list you asked for:\n```json\n[{\"name\":\"Netarhat\"}]\n```\nLet me know if you need more."
	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Netarhat", items[0]["name"])
}

func TestExtract_ArrayInsideProse(t *testing.T) {
	raw := `Sure! The places are [{"name":"Dassam Falls"}] as requested.`
	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dassam Falls", items[0]["name"])
}

func TestExtract_BracketsInsideStrings(t *testing.T) {
	raw := `Answer: [{"name":"Fort [ruins]","short_desc":"has } and ] inside"}] trailing prose`
	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fort [ruins]", items[0]["name"])
}

func TestExtract_NoJSON(t *testing.T) {
	_, err := Extract("I cannot help with that request.")

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, len("I cannot help with that request."), extErr.RawLen)
	assert.Contains(t, extErr.Snippet, "I cannot help")
}

func TestExtract_TruncatedArray(t *testing.T) {
	_, err := Extract(`[{"name":"Dassam Falls"},{"name":"Hundr`)

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
}

func TestExtract_Empty(t *testing.T) {
	_, err := Extract("   \n  ")

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
}

func TestExtract_SnippetCapped(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}

	_, err := Extract(string(long))

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, 5000, extErr.RawLen)
	assert.LessOrEqual(t, len(extErr.Snippet), snippetLen)
}
