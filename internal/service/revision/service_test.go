package revision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/store"
	"github.com/parlons/parlons-api/internal/store/memstore"
)

type fakePersister struct {
	saves    [][]domain.SentenceRecord
	failWith error
}

func (p *fakePersister) SaveRecords(
	_ context.Context,
	_ domain.LanguageCode,
	_ string,
	records []domain.SentenceRecord,
) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.saves = append(p.saves, records)
	return nil
}

func (p *fakePersister) LoadRecords(
	_ context.Context,
	_ domain.LanguageCode,
	_ string,
) ([]domain.SentenceRecord, error) {
	return nil, nil
}

type fakeNotifier struct {
	counts  []int
	sources []string
}

func (n *fakeNotifier) NotifyMerge(
	_ context.Context,
	_ domain.LanguageCode,
	count int,
	source string,
) {
	n.counts = append(n.counts, count)
	n.sources = append(n.sources, source)
}

type fakeRemote struct {
	snapshot *domain.RemoteSnapshot
	loadErr  error
	saved    []*domain.RemoteSnapshot
}

func (r *fakeRemote) Load(_ context.Context, _ string) (*domain.RemoteSnapshot, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.snapshot, nil
}

func (r *fakeRemote) Save(_ context.Context, _ string, snapshot *domain.RemoteSnapshot) error {
	r.saved = append(r.saved, snapshot)
	return nil
}

type fixture struct {
	service   Service
	records   *memstore.RecordStore
	persister *fakePersister
	notifier  *fakeNotifier
	remote    *fakeRemote
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	if cfg.Language == "" {
		cfg.Language = "fr"
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "default"
	}
	if cfg.LessonSize == 0 {
		cfg.LessonSize = 5
	}

	f := &fixture{
		records:   memstore.New(),
		persister: &fakePersister{},
		notifier:  &fakeNotifier{},
		remote:    &fakeRemote{},
	}
	f.service = NewService(cfg, f.records, f.persister, f.remote, f.notifier, nil)
	return f
}

func record(original string, ts int64, mastered bool) domain.SentenceRecord {
	return domain.SentenceRecord{
		Original:  original,
		French:    original + "-fr",
		Category:  "Cat",
		Timestamp: time.Unix(ts, 0),
		Mastered:  mastered,
	}
}

func TestMergeSessionPersistsAndNotifies(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})

	session := &domain.Session{
		Language:  "fr",
		Sentences: []domain.SentenceRecord{record("A", 100, true), record("B", 101, false)},
	}

	result, err := f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, &MergeResult{Merged: 2, Rejected: 0, Source: "session"}, result)

	// The store was made durable synchronously, before the notification.
	require.Len(t, f.persister.saves, 1)
	assert.Len(t, f.persister.saves[0], 2)
	assert.Equal(t, []int{2}, f.notifier.counts)
	assert.Equal(t, []string{"session"}, f.notifier.sources)
}

func TestMergeSessionNilSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})
	_, err := f.service.MergeSession(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilSession)
}

func TestMergeRemoteUnionDoesNotRegressMastery(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})

	// Local store holds the newer record without mastery.
	f.records.Upsert(record("A", 100, false))

	// Remote snapshot supplies an older record with mastered=true.
	snapshot := &domain.RemoteSnapshot{
		Sentences: []domain.SentenceRecord{record("A", 90, true)},
	}
	result, err := f.service.MergeRemote(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Merged)

	got, err := f.records.Get(domain.RecordKey{Original: "A", Category: "Cat"})
	require.NoError(t, err)
	assert.Equal(t, time.Unix(100, 0), got.Timestamp)
	assert.True(t, got.Mastered)
}

func TestMergeRejectsMalformedRecordsWithoutAborting(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})

	missingFrench := domain.SentenceRecord{Original: "B", Category: "Cat", Timestamp: time.Unix(50, 0)}
	session := &domain.Session{
		Language:  "fr",
		Sentences: []domain.SentenceRecord{missingFrench, record("A", 100, true)},
	}

	result, err := f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Merged)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, f.records.Len())
}

func TestMergeIdenticalBatchIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})

	session := &domain.Session{
		Language:  "fr",
		Sentences: []domain.SentenceRecord{record("A", 100, true)},
	}

	_, err := f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)
	before := f.records.All()

	_, err = f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, before, f.records.All())
}

func TestMergeAtCapEvictsSingleOldest(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{StoreCap: 3})

	for i, original := range []string{"one", "two", "three"} {
		f.records.Upsert(record(original, int64(100+i), true))
	}

	session := &domain.Session{
		Language:  "fr",
		Sentences: []domain.SentenceRecord{record("four", 200, true)},
	}
	_, err := f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 3, f.records.Len())
	_, err = f.records.Get(domain.RecordKey{Original: "one", Category: "Cat"})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	_, err = f.records.Get(domain.RecordKey{Original: "four", Category: "Cat"})
	assert.NoError(t, err)
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})
	f.persister.failWith = store.ErrPersistence

	session := &domain.Session{
		Language:  "fr",
		Sentences: []domain.SentenceRecord{record("A", 100, true)},
	}

	result, err := f.service.MergeSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Merged)

	// In-memory state stays authoritative and the notification still fires.
	assert.Equal(t, 1, f.records.Len())
	assert.Equal(t, []int{1}, f.notifier.counts)
}

func TestReconcileRemote(t *testing.T) {
	t.Parallel()

	t.Run("merges the loaded snapshot", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Config{})
		f.remote.snapshot = &domain.RemoteSnapshot{
			Sentences: []domain.SentenceRecord{record("A", 100, true)},
		}

		result, err := f.service.ReconcileRemote(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Merged)
		assert.Equal(t, 1, f.records.Len())
	})

	t.Run("missing snapshot is not an error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Config{})
		f.remote.loadErr = store.ErrSnapshotNotFound

		result, err := f.service.ReconcileRemote(context.Background())
		require.NoError(t, err)
		assert.Zero(t, result.Merged)
	})

	t.Run("transport failure surfaces a service error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Config{})
		f.remote.loadErr = store.ErrRemoteUnavailable

		_, err := f.service.ReconcileRemote(context.Background())
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.ErrorIs(t, err, store.ErrRemoteUnavailable)
	})

	t.Run("disabled remote", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Config{})
		f.service = NewService(
			Config{Language: "fr", ContextKey: "default", LessonSize: 5},
			f.records, f.persister, nil, f.notifier, nil,
		)
		_, err := f.service.ReconcileRemote(context.Background())
		assert.ErrorIs(t, err, ErrRemoteDisabled)
	})
}

func TestRecordResultAnnotatesNextReview(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})
	f.records.Upsert(record("A", 100, true))
	key := domain.RecordKey{Original: "A", Category: "Cat"}

	before := time.Now().UTC()
	require.NoError(t, f.service.RecordResult(context.Background(), key, true))

	got, err := f.records.Get(key)
	require.NoError(t, err)
	assert.True(t, got.Mastered, "failed revision must not regress recorded mastery")
	assert.Equal(t, 1, got.Attempts)
	assert.WithinDuration(t, before.Add(24*time.Hour), got.NextReview, 5*time.Second)

	require.NoError(t, f.service.RecordResult(context.Background(), key, false))
	got, err = f.records.Get(key)
	require.NoError(t, err)
	assert.True(t, got.Mastered)
	assert.WithinDuration(t, time.Now().UTC().Add(10*time.Minute), got.NextReview, 5*time.Second)
}

func TestRecordResultUnknownKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})

	err := f.service.RecordResult(
		context.Background(),
		domain.RecordKey{Original: "missing", Category: "Cat"},
		true,
	)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.True(t, errors.Is(err, store.ErrRecordNotFound))
}

func TestProgressReflectsStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Config{})
	f.records.Upsert(record("A", 100, true))
	f.records.Upsert(record("B", 200, false))

	progress := f.service.Progress(context.Background())
	assert.Len(t, progress.Records, 2)
	assert.Equal(t, []domain.RecordKey{{Original: "A", Category: "Cat"}}, progress.Learned)
	assert.Equal(t, time.Unix(200, 0), progress.LastReviewed)
}
