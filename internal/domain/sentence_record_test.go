package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSentenceRecordValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		record  SentenceRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  SentenceRecord{Original: "the cat", French: "le chat", Category: "animals"},
			wantErr: nil,
		},
		{
			name:    "missing original",
			record:  SentenceRecord{French: "le chat", Category: "animals"},
			wantErr: ErrEmptyOriginal,
		},
		{
			name:    "blank original",
			record:  SentenceRecord{Original: "   ", French: "le chat"},
			wantErr: ErrEmptyOriginal,
		},
		{
			name:    "missing translation",
			record:  SentenceRecord{Original: "the cat", Category: "animals"},
			wantErr: ErrEmptyTranslation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.record.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	t.Parallel()

	older := SentenceRecord{
		Original:  "A",
		French:    "A-fr",
		Category:  "Cat",
		Words:     []string{"A-fr"},
		Timestamp: time.Unix(90, 0),
		Mastered:  true,
	}
	newer := SentenceRecord{
		Original:  "A",
		French:    "A-fr-edited",
		Category:  "Cat",
		Words:     []string{"A-fr-edited"},
		Timestamp: time.Unix(100, 0),
		Mastered:  false,
	}

	t.Run("newer incoming replaces scalar fields", func(t *testing.T) {
		t.Parallel()
		merged := Merge(older, newer, MergeSession)
		assert.Equal(t, newer, merged)
	})

	t.Run("older incoming never overwrites newer stored", func(t *testing.T) {
		t.Parallel()
		merged := Merge(newer, older, MergeSession)
		assert.Equal(t, time.Unix(100, 0), merged.Timestamp)
		assert.Equal(t, "A-fr-edited", merged.French)
	})

	t.Run("equal timestamps favor incoming for idempotent replay", func(t *testing.T) {
		t.Parallel()
		same := newer
		merged := Merge(newer, same, MergeSession)
		assert.Equal(t, same, merged)
	})
}

func TestMergeRemoteUnionsCorrectness(t *testing.T) {
	t.Parallel()

	// Local store holds the newer, not-yet-mastered record; the remote
	// snapshot supplies an older record with confirmed mastery. The merge
	// keeps the newer timestamp but never regresses recorded mastery.
	local := SentenceRecord{
		Original:  "A",
		French:    "A-fr",
		Category:  "Cat",
		Timestamp: time.Unix(100, 0),
		Mastered:  false,
	}
	remote := SentenceRecord{
		Original:            "A",
		French:              "A-fr",
		Category:            "Cat",
		Timestamp:           time.Unix(90, 0),
		Mastered:            true,
		FirstAttemptCorrect: true,
	}

	merged := Merge(local, remote, MergeRemote)
	assert.Equal(t, time.Unix(100, 0), merged.Timestamp)
	assert.True(t, merged.Mastered)
	assert.True(t, merged.FirstAttemptCorrect)

	// A session merge takes the incoming verdict verbatim instead.
	sessionMerged := Merge(remote, local, MergeSession)
	assert.False(t, sessionMerged.Mastered)
}

func TestBuildRevisionProgress(t *testing.T) {
	t.Parallel()

	records := []SentenceRecord{
		{Original: "A", French: "a", Category: "x", Timestamp: time.Unix(100, 0), Mastered: true},
		{Original: "B", French: "b", Category: "x", Timestamp: time.Unix(300, 0)},
		{Original: "C", French: "c", Category: "y", Timestamp: time.Unix(200, 0), Mastered: true},
	}

	progress := BuildRevisionProgress(records)

	assert.Len(t, progress.Records, 3)
	assert.Equal(t, []RecordKey{
		{Original: "A", Category: "x"},
		{Original: "C", Category: "y"},
	}, progress.Learned)
	assert.Equal(t, time.Unix(300, 0), progress.LastReviewed)
}
