package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/domain/mastery"
	"github.com/parlons/parlons-api/internal/platform/logger"
)

// state of the session state machine. finalizing only exists inside
// Finish, under the lock, so callers observe idle or active.
type state int

const (
	stateIdle state = iota
	stateActive
	stateFinalizing
)

// attemptState tracks one in-progress exercise item, scoped to the active
// session and discarded when it ends.
type attemptState struct {
	attempts  []bool
	completed bool
}

// Verify interface compliance at compile time
var _ Manager = (*managerImpl)(nil)

type managerImpl struct {
	evaluator     mastery.Evaluator
	canceller     SyncCanceller // nil when no coordinator is wired
	xpPerMastered int
	logger        *slog.Logger

	mu      sync.Mutex
	state   state
	current *domain.Session
	items   map[domain.RecordKey]*attemptState

	now func() time.Time
}

// NewManager creates a session Manager. The manager is explicitly
// constructed and injected by the owning context; there is no process-wide
// singleton.
func NewManager(
	evaluator mastery.Evaluator,
	canceller SyncCanceller,
	xpPerMastered int,
	log *slog.Logger,
) Manager {
	if evaluator == nil {
		panic("evaluator cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &managerImpl{
		evaluator:     evaluator,
		canceller:     canceller,
		xpPerMastered: xpPerMastered,
		logger:        log.With(slog.String("component", "session_manager")),
		state:         stateIdle,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start implements Manager.Start.
func (m *managerImpl) Start(
	ctx context.Context,
	language domain.LanguageCode,
	category string,
) (uuid.UUID, error) {
	if strings.TrimSpace(string(language)) == "" {
		return uuid.Nil, domain.ErrEmptyLanguage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	if m.state == stateActive {
		log.Debug("start requested while session active, returning active id",
			slog.String("session_id", m.current.ID.String()))
		return m.current.ID, nil
	}

	m.current = &domain.Session{
		ID:        uuid.New(),
		StartTime: m.now(),
		Language:  language,
		Category:  category,
		Sentences: make([]domain.SentenceRecord, 0),
	}
	m.items = make(map[domain.RecordKey]*attemptState)
	m.state = stateActive

	log.Info("session started",
		slog.String("session_id", m.current.ID.String()),
		slog.String("language", string(language)),
		slog.String("category", category))
	return m.current.ID, nil
}

// AddAttempt implements Manager.AddAttempt.
func (m *managerImpl) AddAttempt(
	ctx context.Context,
	item AttemptItem,
	correct bool,
) (*AttemptResult, error) {
	if strings.TrimSpace(item.Original) == "" || strings.TrimSpace(item.French) == "" {
		return nil, ErrInvalidItem
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateActive {
		return nil, &ServiceError{
			Operation: "add_attempt",
			Message:   "attempt submitted outside an active session",
			Err:       ErrNoActiveSession,
		}
	}

	key := domain.RecordKey{Original: item.Original, Category: item.Category}
	st, ok := m.items[key]
	if !ok {
		st = &attemptState{}
		m.items[key] = st
	}
	st.attempts = append(st.attempts, correct)

	verdict, err := m.evaluator.Evaluate(st.attempts)
	if err != nil {
		return nil, &ServiceError{
			Operation: "add_attempt",
			Message:   "failed to evaluate attempt history",
			Err:       err,
		}
	}

	if correct && !st.completed {
		st.completed = true
		m.current.Sentences = append(m.current.Sentences, domain.SentenceRecord{
			Original:            item.Original,
			French:              item.French,
			Audio:               item.Audio,
			Category:            item.Category,
			Words:               item.Words,
			Timestamp:           m.now(),
			Mastered:            verdict.Mastered,
			Attempts:            verdict.TotalAttempts,
			FirstAttemptCorrect: verdict.FirstAttemptCorrect,
		})
	} else if st.completed {
		// A retry after completion updates the recorded verdict; extra
		// attempts can only ever revoke mastery, never grant it.
		for i := range m.current.Sentences {
			if m.current.Sentences[i].Key() == key {
				m.current.Sentences[i].Mastered = verdict.Mastered
				m.current.Sentences[i].Attempts = verdict.TotalAttempts
				m.current.Sentences[i].Timestamp = m.now()
				break
			}
		}
	}

	m.recomputeStatsLocked()

	log := logger.FromContextOrDefault(ctx, m.logger)
	log.Debug("attempt recorded",
		slog.String("session_id", m.current.ID.String()),
		slog.String("original", item.Original),
		slog.Bool("correct", correct),
		slog.Int("total_attempts", verdict.TotalAttempts),
		slog.Bool("mastered", verdict.Mastered))

	return &AttemptResult{
		Verdict:   verdict,
		Completed: st.completed,
		Stats:     m.current.Stats,
	}, nil
}

// Finish implements Manager.Finish.
func (m *managerImpl) Finish(ctx context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateActive {
		// Finishing is idempotent: no active session means nothing to do.
		return nil, nil
	}
	m.state = stateFinalizing

	finished := m.current
	finished.EndTime = m.now()
	finished.Stats.Duration = finished.EndTime.Sub(finished.StartTime)
	finished.Stats.XPGained = m.xpPerMastered * finished.MasteredCount()

	m.current = nil
	m.items = nil
	m.state = stateIdle

	log := logger.FromContextOrDefault(ctx, m.logger)
	log.Info("session finished",
		slog.String("session_id", finished.ID.String()),
		slog.Int("total_items", finished.Stats.TotalItems),
		slog.Int("score", finished.Stats.Score),
		slog.Int("xp_gained", finished.Stats.XPGained),
		slog.Duration("duration", finished.Stats.Duration))

	return finished, nil
}

// Reset implements Manager.Reset.
func (m *managerImpl) Reset(ctx context.Context) {
	m.mu.Lock()
	abandoned := m.current
	m.current = nil
	m.items = nil
	m.state = stateIdle
	m.mu.Unlock()

	// An abandoned session must not write stale data after the fact.
	if m.canceller != nil {
		m.canceller.CancelPending()
	}

	if abandoned != nil {
		log := logger.FromContextOrDefault(ctx, m.logger)
		log.Info("session abandoned", slog.String("session_id", abandoned.ID.String()))
	}
}

// ActiveID implements Manager.ActiveID.
func (m *managerImpl) ActiveID() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateActive {
		return uuid.Nil, false
	}
	return m.current.ID, true
}

// recomputeStatsLocked rebuilds the aggregates from scratch: score and
// accuracy are recomputed, not accumulated, to avoid drift. Callers must
// hold the lock.
func (m *managerImpl) recomputeStatsLocked() {
	score := m.current.MasteredCount()
	total := len(m.items)

	m.current.Stats.Score = score
	m.current.Stats.TotalItems = total
	if total > 0 {
		m.current.Stats.Accuracy = float64(score) / float64(total)
	} else {
		m.current.Stats.Accuracy = 0
	}
}
