package revision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/platform/logger"
	"github.com/parlons/parlons-api/internal/store"
)

// Config holds the engine tunables the revision service needs.
type Config struct {
	Language   domain.LanguageCode
	ContextKey string
	StoreCap   int
	LessonSize int
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	cfg       Config
	records   store.RecordStore
	persister store.Persister
	remote    store.RemoteStore // nil when remote sync is disabled
	notifier  MergeNotifier     // nil when no coordinator is wired (tests)
	logger    *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// NewService creates the revision service.
func NewService(
	cfg Config,
	records store.RecordStore,
	persister store.Persister,
	remote store.RemoteStore,
	notifier MergeNotifier,
	log *slog.Logger,
) Service {
	if records == nil {
		panic("records cannot be nil")
	}
	if persister == nil {
		panic("persister cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		cfg:       cfg,
		records:   records,
		persister: persister,
		remote:    remote,
		notifier:  notifier,
		logger:    log.With(slog.String("component", "revision_service")),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// MergeSession implements Service.MergeSession.
func (s *serviceImpl) MergeSession(
	ctx context.Context,
	session *domain.Session,
) (*MergeResult, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	return s.merge(ctx, session.Sentences, domain.MergeSession, "session"), nil
}

// MergeRemote implements Service.MergeRemote.
func (s *serviceImpl) MergeRemote(
	ctx context.Context,
	snapshot *domain.RemoteSnapshot,
) (*MergeResult, error) {
	if snapshot == nil {
		return nil, ErrNilSnapshot
	}
	return s.merge(ctx, snapshot.Sentences, domain.MergeRemote, "remote"), nil
}

// ReconcileRemote implements Service.ReconcileRemote.
func (s *serviceImpl) ReconcileRemote(ctx context.Context) (*MergeResult, error) {
	if s.remote == nil {
		return nil, ErrRemoteDisabled
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.remote.Load(ctx, s.contextKey())
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			log.Debug("no remote snapshot for context", slog.String("context_key", s.contextKey()))
			return &MergeResult{Source: "remote"}, nil
		}
		return nil, &ServiceError{
			Operation: "reconcile_remote",
			Message:   "failed to load remote snapshot",
			Err:       err,
		}
	}

	return s.MergeRemote(ctx, snapshot)
}

// Progress implements Service.Progress.
func (s *serviceImpl) Progress(_ context.Context) *domain.RevisionProgress {
	return domain.BuildRevisionProgress(s.records.All())
}

// RecordResult implements Service.RecordResult.
func (s *serviceImpl) RecordResult(
	ctx context.Context,
	key domain.RecordKey,
	correct bool,
) error {
	record, err := s.records.Get(key)
	if err != nil {
		return &ServiceError{
			Operation: "record_revision_result",
			Message:   fmt.Sprintf("no record for sentence %q", key.Original),
			Err:       err,
		}
	}

	now := s.now()
	record.Timestamp = now
	record.NextReview = NextReviewAt(correct, now)
	record.Attempts++

	s.merge(ctx, []domain.SentenceRecord{record}, domain.MergeSession, "revision")
	return nil
}

// merge is the single primitive both the session path and the remote path
// go through. For each accepted record it resolves against the stored
// record with the same identity key, then makes the whole store durable
// synchronously before the coordinator is notified.
func (s *serviceImpl) merge(
	ctx context.Context,
	incoming []domain.SentenceRecord,
	policy domain.MergePolicy,
	source string,
) *MergeResult {
	log := logger.FromContextOrDefault(ctx, s.logger)
	result := &MergeResult{Source: source}

	for _, record := range incoming {
		// Malformed or partial payloads must not corrupt local state:
		// reject the single record, never the batch.
		if err := record.Validate(); err != nil {
			result.Rejected++
			log.Warn("rejected record at merge boundary",
				slog.String("source", source),
				slog.String("original", record.Original),
				slog.String("error", err.Error()))
			continue
		}

		existing, err := s.records.Get(record.Key())
		if err == nil {
			record = domain.Merge(existing, record, policy)
		}
		s.records.Upsert(record)
		result.Merged++
	}

	s.persist(ctx, log)

	if s.notifier != nil {
		s.notifier.NotifyMerge(ctx, s.cfg.Language, result.Merged, source)
	}

	log.Debug("merge completed",
		slog.String("source", source),
		slog.Int("merged", result.Merged),
		slog.Int("rejected", result.Rejected),
		slog.Int("store_size", s.records.Len()))
	return result
}

// persist makes the store durable. Failures are logged, not propagated:
// in-memory state remains authoritative until the next successful write,
// and a persist error must never block the exercise flow above.
func (s *serviceImpl) persist(ctx context.Context, log *slog.Logger) {
	snapshot := s.records.Compact(s.cfg.StoreCap)
	if err := s.persister.SaveRecords(ctx, s.cfg.Language, s.cfg.ContextKey, snapshot); err != nil {
		log.Warn("local persist failed, in-memory state remains authoritative",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(snapshot)))
	}
}

func (s *serviceImpl) contextKey() string {
	return fmt.Sprintf("%s:%s", s.cfg.Language, s.cfg.ContextKey)
}
