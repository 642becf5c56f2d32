package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlons/parlons-api/internal/domain"
)

func TestNormalizeCanonicalEnvelope(t *testing.T) {
	t.Parallel()

	payload := `{
		"sentences": [
			{
				"original": "the cat sleeps",
				"french": "le chat dort",
				"category": "animals",
				"words": ["le", "chat", "dort"],
				"timestamp": "2025-06-01T10:00:00Z",
				"mastered": true,
				"attempts": 1,
				"firstAttemptCorrect": true
			}
		],
		"lastUpdated": "2025-06-01T10:05:00Z"
	}`

	snapshot, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, snapshot.Sentences, 1)

	record := snapshot.Sentences[0]
	assert.Equal(t, "le chat dort", record.French)
	assert.True(t, record.Mastered)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), record.Timestamp)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC), snapshot.LastUpdated)
}

func TestNormalizeBareArray(t *testing.T) {
	t.Parallel()

	payload := `[
		{"original": "a", "french": "a-fr", "category": "x", "timestamp": 1717236000000},
		{"original": "b", "french": "b-fr", "category": "x", "isCorrect": true}
	]`

	snapshot, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, snapshot.Sentences, 2)

	// Epoch-millisecond timestamps are accepted.
	assert.Equal(t, time.UnixMilli(1717236000000).UTC(), snapshot.Sentences[0].Timestamp)
	// The legacy "isCorrect" spelling maps to Mastered.
	assert.True(t, snapshot.Sentences[1].Mastered)
}

func TestNormalizeLegacyLearnedMap(t *testing.T) {
	t.Parallel()

	payload := `{
		"learned": {
			"the cat sleeps|animals": {"french": "le chat dort", "mastered": true},
			"good morning|greetings": {
				"original": "good morning",
				"category": "greetings",
				"french": "bonjour"
			}
		}
	}`

	snapshot, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, snapshot.Sentences, 2)

	byOriginal := map[string]domain.SentenceRecord{}
	for _, record := range snapshot.Sentences {
		byOriginal[record.Original] = record
	}

	// Identity fields missing from the record body are recovered from the
	// map key.
	cat, ok := byOriginal["the cat sleeps"]
	require.True(t, ok)
	assert.Equal(t, "animals", cat.Category)
	assert.True(t, cat.Mastered)

	morning, ok := byOriginal["good morning"]
	require.True(t, ok)
	assert.Equal(t, "greetings", morning.Category)
}

func TestNormalizeMasteredWinsOverLegacyIsCorrect(t *testing.T) {
	t.Parallel()

	payload := `[{"original": "a", "french": "a-fr", "mastered": false, "isCorrect": true}]`

	snapshot, err := Normalize([]byte(payload))
	require.NoError(t, err)
	assert.False(t, snapshot.Sentences[0].Mastered)
}

func TestNormalizeRejectsUnknownShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload string
	}{
		{name: "empty payload", payload: ""},
		{name: "scalar", payload: `42`},
		{name: "object without known fields", payload: `{"foo": "bar"}`},
		{name: "malformed json", payload: `{"sentences": [`},
		{name: "bad timestamp string", payload: `[{"original":"a","french":"b","timestamp":"yesterday"}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize([]byte(tc.payload))
			assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
		})
	}
}
