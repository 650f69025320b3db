package core

// scheduler.go delays the initial load of a list.
//
// A new list starts in the loading state and receives its seed data after a
// short delay. The pending task holds only a weak reference to the list, and
// checks that the list is still open and the task not cancelled before it
// applies anything. A torn-down list is therefore never mutated.

import (
	"log/slog"
	"sync"
	"time"
	"weak"
)

// DefaultSeedDelay is how long a new list stays in the loading state.
const DefaultSeedDelay = time.Second

// SeedOutcome reports how a seed task ended.
type SeedOutcome string

const (
	SeedPending   SeedOutcome = "pending"
	SeedApplied   SeedOutcome = "applied"
	SeedCancelled SeedOutcome = "cancelled"
	SeedAbandoned SeedOutcome = "abandoned" // list closed or collected before the task fired
)

// SeedOptions configures ScheduleSeed. Zero values select defaults.
type SeedOptions struct {
	Delay    time.Duration
	Generate func() []Record
	OnDone   func(SeedOutcome)
}

// SeedTask is a pending load of seed data into a list.
type SeedTask struct {
	list     weak.Pointer[List]
	generate func() []Record
	onDone   func(SeedOutcome)

	mu      sync.Mutex
	timer   *time.Timer
	outcome SeedOutcome
	done    chan struct{}
}

// ScheduleSeed loads generated records into list after opts.Delay.
func ScheduleSeed(list *List, opts SeedOptions) *SeedTask {
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Generate == nil {
		opts.Generate = func() []Record { return Generate(DefaultSeedCount) }
	}
	t := &SeedTask{
		list:     weak.Make(list),
		generate: opts.Generate,
		onDone:   opts.OnDone,
		outcome:  SeedPending,
		done:     make(chan struct{}),
	}

	t.mu.Lock()
	t.timer = time.AfterFunc(opts.Delay, t.fire)
	t.mu.Unlock()
	return t
}

func (t *SeedTask) fire() {
	list := t.list.Value()
	if list == nil || list.Closed() {
		t.finish(SeedAbandoned)
		return
	}

	records := t.generate()

	// Cancel may have raced with generation; the load and the outcome are
	// decided under the same lock.
	t.mu.Lock()
	if t.outcome != SeedPending {
		t.mu.Unlock()
		return
	}
	outcome := SeedApplied
	if err := list.Load(records); err != nil {
		outcome = SeedAbandoned
	}
	t.setLocked(outcome)
	t.mu.Unlock()

	if outcome == SeedApplied {
		slog.Debug("seed data applied", "records", len(records))
	}
	t.report(outcome)
}

// Cancel stops the task if it has not applied yet. It reports whether the
// task was still pending.
func (t *SeedTask) Cancel() bool {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	return t.finish(SeedCancelled)
}

// finish records the outcome once. Later calls are ignored.
func (t *SeedTask) finish(outcome SeedOutcome) bool {
	t.mu.Lock()
	if t.outcome != SeedPending {
		t.mu.Unlock()
		return false
	}
	t.setLocked(outcome)
	t.mu.Unlock()

	t.report(outcome)
	return true
}

func (t *SeedTask) setLocked(outcome SeedOutcome) {
	t.outcome = outcome
	close(t.done)
}

func (t *SeedTask) report(outcome SeedOutcome) {
	if t.onDone != nil {
		t.onDone(outcome)
	}
}

// Done is closed when the task has applied, been cancelled or been abandoned.
func (t *SeedTask) Done() <-chan struct{} {
	return t.done
}

// Outcome returns the current state of the task.
func (t *SeedTask) Outcome() SeedOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}
