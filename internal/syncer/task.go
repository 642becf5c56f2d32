package syncer

import (
	"sync"
	"time"
)

// scheduledPush is an explicit cancellable scheduled task. Cancellation is
// a method, not an implicit timer-field mutation, so ownership stays with
// the coordinator.
type scheduledPush struct {
	timer *time.Timer

	mu        sync.Mutex
	cancelled bool
}

// newScheduledPush schedules fn to run once after delay.
func newScheduledPush(delay time.Duration, fn func()) *scheduledPush {
	task := &scheduledPush{}
	task.timer = time.AfterFunc(delay, func() {
		task.mu.Lock()
		cancelled := task.cancelled
		task.mu.Unlock()
		if !cancelled {
			fn()
		}
	})
	return task
}

// Cancel stops the task. A task whose function is already running cannot
// be stopped, but a cancelled task will never start.
func (t *scheduledPush) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.timer.Stop()
}
