package scheduler

import (
	"time"
)

// Iteration limits for NewTask.
const (
	// Forever runs the task until it is explicitly disabled.
	Forever = -1

	// Once runs the task for a single due execution, then auto-disables it.
	Once = 1
)

// Callback is the work a task performs on each due execution.
type Callback func()

// EnableHook runs when a task transitions disabled→enabled. Returning false
// vetoes the transition: the task stays disabled and no state is touched.
type EnableHook func() bool

// DisableHook runs when a task transitions enabled→disabled, including the
// automatic disable after a bounded task exhausts its iterations.
type DisableHook func()

// TaskOptions configures a new task.
type TaskOptions struct {
	// Name identifies the task in logs. Required.
	Name string

	// Interval is the minimum time between due executions.
	// Zero means due on every tick.
	Interval time.Duration

	// Iterations bounds the number of executions: Once for one-shot tasks,
	// Forever (or zero) for unbounded tasks.
	Iterations int

	// Callback is invoked on each due execution. May be nil for tasks whose
	// only behaviour lives in the hooks (e.g. a timed actuator pulse).
	Callback Callback

	// OnEnable is invoked on the disabled→enabled transition and may veto it.
	OnEnable EnableHook

	// OnDisable is invoked on the enabled→disabled transition.
	OnDisable DisableHook
}

// Task is a schedulable unit of work.
//
// Tasks are created at startup, registered with a Scheduler, and toggled via
// Enable/Disable/Restart for the appliance's operating lifetime; they are
// never destroyed during normal operation. A task's callback never executes
// while the task is disabled.
//
// Tasks are owned by the scheduler goroutine and must only be manipulated
// from it (from the run loop or from inside another task's callback/hook).
type Task struct {
	name       string
	interval   time.Duration
	iterations int

	callback  Callback
	onEnable  EnableHook
	onDisable DisableHook

	sched *Scheduler

	enabled   bool
	lastRun   time.Time
	remaining int

	// delay defers the next due check beyond interval (set by RestartDelayed).
	delay time.Duration

	// enabledTick records the tick during which the task was last enabled, so
	// a task enabled mid-tick does not execute until a subsequent tick.
	enabledTick uint64
}

// NewTask creates a task from the given options. The task starts disabled and
// must be registered with a Scheduler before it can run.
func NewTask(opts TaskOptions) *Task {
	iterations := opts.Iterations
	if iterations == 0 {
		iterations = Forever
	}
	return &Task{
		name:       opts.Name,
		interval:   opts.Interval,
		iterations: iterations,
		callback:   opts.Callback,
		onEnable:   opts.OnEnable,
		onDisable:  opts.OnDisable,
	}
}

// Name returns the task's identifier.
func (t *Task) Name() string {
	return t.name
}

// IsEnabled reports whether the task is currently enabled.
func (t *Task) IsEnabled() bool {
	return t.enabled
}

// Enable transitions the task to enabled.
//
// If the task is already enabled this is a no-op. Otherwise OnEnable is
// invoked; if it returns false the transition is vetoed, the task stays
// disabled, and its last-run time is not reset. On a successful transition
// the iteration budget is reset and the last-run time is set to now, so the
// first execution respects the task's interval.
func (t *Task) Enable() {
	if t.enabled {
		return
	}
	if t.onEnable != nil && !t.onEnable() {
		// Vetoed: drop any pending deferral so it cannot leak into a later enable.
		t.delay = 0
		return
	}
	t.enabled = true
	t.remaining = t.iterations
	t.lastRun = t.now()
	t.enabledTick = t.currentTick()
}

// Disable transitions the task to disabled, invoking OnDisable.
// Disabling an already-disabled task is a no-op, so OnDisable fires at most
// once per enabled period.
func (t *Task) Disable() {
	if !t.enabled {
		return
	}
	// Clear the flag before the hook so a re-entrant Disable from inside
	// OnDisable cannot fire the hook twice.
	t.enabled = false
	if t.onDisable != nil {
		t.onDisable()
	}
}

// Restart disables then immediately re-enables the task.
//
// For an enabled task this closes the current cycle (OnDisable) and opens a
// new one (OnEnable); for a disabled task it only opens a new cycle. Hooks
// with side effects must be written to tolerate this.
func (t *Task) Restart() {
	t.Disable()
	t.delay = 0
	t.Enable()
}

// RestartDelayed is Restart with the next due check deferred by d beyond the
// task's normal interval. The deferral applies to the first execution only.
func (t *Task) RestartDelayed(d time.Duration) {
	t.Disable()
	t.delay = d
	t.Enable()
}

// now returns the scheduler's clock, falling back to the wall clock for
// unregistered tasks.
func (t *Task) now() time.Time {
	if t.sched != nil {
		return t.sched.now()
	}
	return time.Now()
}

// currentTick returns the scheduler's tick counter (zero when unregistered).
func (t *Task) currentTick() uint64 {
	if t.sched != nil {
		return t.sched.tick
	}
	return 0
}
