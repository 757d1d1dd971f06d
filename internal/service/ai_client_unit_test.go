package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тесты для parseStoryboardJSON и вспомогательных функций

func TestParseStoryboardJSON(t *testing.T) {
	valid := `{"title":"Lisbon Light","summary":"s","themeColor":"#E8A13C","segments":[{"caption":"c","narrative":"n","moodColor":"#112233","location":"Alfama","tags":["warm","old","bright"],"estimatedTimeOfDay":"Sunset"}]}`

	t.Run("Plain JSON", func(t *testing.T) {
		data, err := parseStoryboardJSON(valid)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Light", data.Title)
		require.Len(t, data.Segments, 1)
		assert.Equal(t, "Alfama", data.Segments[0].Location)
		assert.Equal(t, []string{"warm", "old", "bright"}, data.Segments[0].Tags)
	})

	t.Run("Markdown fenced JSON", func(t *testing.T) {
		data, err := parseStoryboardJSON("```json\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Light", data.Title)
	})

	t.Run("Bare fence without language tag", func(t *testing.T) {
		data, err := parseStoryboardJSON("```\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Light", data.Title)
	})

	t.Run("Surrounding whitespace", func(t *testing.T) {
		data, err := parseStoryboardJSON("\n\n  " + valid + "  \n")
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Light", data.Title)
	})

	t.Run("Not JSON", func(t *testing.T) {
		_, err := parseStoryboardJSON("Sorry, I cannot create a storyboard.")
		assert.Error(t, err)
	})

	t.Run("Missing title", func(t *testing.T) {
		_, err := parseStoryboardJSON(`{"summary":"s","segments":[]}`)
		assert.Error(t, err)
	})

	t.Run("Missing segments", func(t *testing.T) {
		_, err := parseStoryboardJSON(`{"title":"t","summary":"s"}`)
		assert.Error(t, err)
	})

	t.Run("Empty segments list is valid", func(t *testing.T) {
		data, err := parseStoryboardJSON(`{"title":"t","segments":[]}`)
		require.NoError(t, err)
		assert.Empty(t, data.Segments)
	})
}

func TestCalculateCost(t *testing.T) {
	assert.Equal(t, 0.0, calculateCost(0, 0))
	// 1М входных = $2.50, 1М выходных = $10.00
	assert.InDelta(t, 2.5, calculateCost(1_000_000, 0), 1e-9)
	assert.InDelta(t, 10.0, calculateCost(0, 1_000_000), 1e-9)
	assert.InDelta(t, 0.0125, calculateCost(1000, 1000), 1e-9)
}

func TestGenerationParamValues(t *testing.T) {
	temp := 0.7
	maxTok := 2048

	assert.Equal(t, float32(1.0), float32Val(nil))
	assert.InDelta(t, 0.7, float64(float32Val(&temp)), 1e-6)
	assert.Equal(t, 0, intVal(nil))
	assert.Equal(t, 2048, intVal(&maxTok))
}

func TestDecodeDataURI(t *testing.T) {
	t.Run("Valid PNG data URI", func(t *testing.T) {
		raw, mime, ok := decodeDataURI("data:image/png;base64,aGVsbG8=")
		require.True(t, ok)
		assert.Equal(t, "image/png", mime)
		assert.Equal(t, []byte("hello"), raw)
	})

	t.Run("Missing mime defaults to jpeg", func(t *testing.T) {
		raw, mime, ok := decodeDataURI("data:;base64,aGVsbG8=")
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", mime)
		assert.Equal(t, []byte("hello"), raw)
	})

	t.Run("Not a data URI", func(t *testing.T) {
		_, _, ok := decodeDataURI("https://example.com/a.jpg")
		assert.False(t, ok)
	})

	t.Run("Not base64 encoded", func(t *testing.T) {
		_, _, ok := decodeDataURI("data:image/png,rawpayload")
		assert.False(t, ok)
	})

	t.Run("Broken base64 payload", func(t *testing.T) {
		_, _, ok := decodeDataURI("data:image/png;base64,%%%")
		assert.False(t, ok)
	})
}
