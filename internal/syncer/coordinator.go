// Package syncer coordinates remote synchronization: it debounces pushes
// so the remote store is not hammered on every single mastered sentence,
// and broadcasts merge notifications to registered consumers.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/events"
	"github.com/parlons/parlons-api/internal/service/revision"
	"github.com/parlons/parlons-api/internal/store"
)

// Config holds the coordinator settings for one learner context.
type Config struct {
	Language   domain.LanguageCode
	ContextKey string

	// Window is the quiet period after the last merge before the push
	// fires. Each merge event restarts it, so only the last merge within
	// the window triggers an actual remote push.
	Window time.Duration

	// PushTimeout bounds one remote push attempt.
	PushTimeout time.Duration
}

// Verify interface compliance at compile time
var _ revision.MergeNotifier = (*Coordinator)(nil)

// Coordinator owns the debounced remote push for one learner context and
// the merge broadcast channel.
type Coordinator struct {
	cfg     Config
	records store.RecordStore
	remote  store.RemoteStore // nil disables pushes; broadcasts still fire
	emitter events.Emitter
	logger  *slog.Logger

	mu      sync.Mutex
	pending *scheduledPush
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(
	cfg Config,
	records store.RecordStore,
	remote store.RemoteStore,
	emitter events.Emitter,
	log *slog.Logger,
) *Coordinator {
	if records == nil {
		panic("records cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = 5 * time.Second
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = 15 * time.Second
	}
	return &Coordinator{
		cfg:     cfg,
		records: records,
		remote:  remote,
		emitter: emitter,
		logger:  log.With(slog.String("component", "sync_coordinator")),
	}
}

// NotifyMerge implements revision.MergeNotifier. It broadcasts the merge
// to registered consumers, then restarts the debounce timer so the push
// fires once the merge burst quiets down.
func (c *Coordinator) NotifyMerge(
	ctx context.Context,
	language domain.LanguageCode,
	count int,
	source string,
) {
	if c.emitter != nil {
		event := events.NewMergeCompleted(count, source, language)
		if err := c.emitter.Emit(ctx, event); err != nil {
			c.logger.Warn("merge broadcast handler failed",
				slog.String("error", err.Error()),
				slog.String("source", source))
		}
	}

	if c.remote == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.pending = newScheduledPush(c.cfg.Window, c.push)

	c.logger.Debug("remote push scheduled",
		slog.String("source", source),
		slog.Duration("window", c.cfg.Window))
}

// CancelPending cancels any pending push task. Used on session abandon and
// shutdown so stale data is never written after the fact.
func (c *Coordinator) CancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

// push sends the full current snapshot of the store, never a diff: the
// remote format is a whole-document overwrite. On failure the timer is not
// rescheduled; the next merge event retries naturally.
func (c *Coordinator) push() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PushTimeout)
	defer cancel()

	snapshot := &domain.RemoteSnapshot{
		Sentences:   c.records.All(),
		LastUpdated: time.Now().UTC(),
	}

	contextKey := string(c.cfg.Language) + ":" + c.cfg.ContextKey
	if err := c.remote.Save(ctx, contextKey, snapshot); err != nil {
		c.logger.Warn("remote push failed, next merge will retry",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(snapshot.Sentences)))
		return
	}

	c.logger.Info("remote push completed",
		slog.Int("record_count", len(snapshot.Sentences)))
}
