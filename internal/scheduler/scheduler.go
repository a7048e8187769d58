package scheduler

import (
	"time"
)

// Scheduler is a cooperative, single-threaded, tick-driven task runner.
//
// Execute is called repeatedly from the owner's run loop with no fixed
// period; each call evaluates every registered task once, in registration
// order, and runs the ones that are due. Callbacks run to completion on the
// calling goroutine; nothing here preempts, retries, or recovers them.
//
// Same-tick ordering is an explicit contract: tasks execute in registration
// order, and a task enabled or restarted during a tick (by an earlier task's
// callback or hook) is not executed until a subsequent tick, regardless of
// where it sits in the registration order.
//
// Thread Safety: none. The scheduler and all its tasks belong to a single
// goroutine; calls from other goroutines must be funnelled through it.
type Scheduler struct {
	tasks []*Task
	clock func() time.Time
	tick  uint64
}

// New creates an empty scheduler using the wall clock.
func New() *Scheduler {
	return &Scheduler{
		clock: time.Now,
	}
}

// SetClock replaces the scheduler's time source. Intended for tests that
// step simulated time through task intervals.
func (s *Scheduler) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// Add registers a task. Registration order fixes same-tick execution
// precedence, so register tasks in the order they should run when due
// together.
//
// Returns:
//   - error: ErrNilTask or ErrTaskRegistered
func (s *Scheduler) Add(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	if t.sched != nil {
		return ErrTaskRegistered
	}
	t.sched = s
	s.tasks = append(s.tasks, t)
	return nil
}

// TaskCount returns the number of registered tasks.
func (s *Scheduler) TaskCount() int {
	return len(s.tasks)
}

// Execute runs one scheduler tick.
//
// A task is due when it is enabled and the time since its last run has
// reached its interval (plus any pending deferral from RestartDelayed). A
// zero interval is due on every tick. On execution the task's last-run time
// advances, its
// callback runs, and a bounded task that exhausts its iteration budget is
// disabled, firing OnDisable.
func (s *Scheduler) Execute() {
	s.tick++
	cur := s.tick
	now := s.now()

	for _, t := range s.tasks {
		// An earlier task this tick may have disabled or freshly enabled it.
		if !t.enabled || t.enabledTick == cur {
			continue
		}
		if now.Sub(t.lastRun) < t.interval+t.delay {
			continue
		}

		t.lastRun = now
		t.delay = 0

		enabledTickBefore := t.enabledTick
		if t.callback != nil {
			t.callback()
		}

		// If the callback restarted its own task, the fresh cycle owns the
		// iteration budget; leave it alone.
		if t.enabledTick != enabledTickBefore {
			continue
		}
		if t.remaining > 0 {
			t.remaining--
			if t.remaining == 0 {
				t.Disable()
			}
		}
	}
}

// now returns the current time from the configured clock.
func (s *Scheduler) now() time.Time {
	return s.clock()
}
