// Package scheduler implements the appliance's cooperative task engine.
//
// The engine is single-threaded, non-preemptive and tick-driven: the run loop
// calls Execute repeatedly, and each tick evaluates the registered tasks in
// registration order, running those that are due. There are no goroutines,
// locks or queues inside; exactly one callback executes at a time and runs
// to completion, which is why the task graph can share mutable state freely.
//
// # Task Lifecycle
//
// Tasks are created once at startup, registered, and then toggled through
// Enable, Disable, Restart, and RestartDelayed for the life of the process.
// The enable transition can be vetoed by the task's OnEnable hook, which the
// task graph uses to gate publish tasks on broker connectivity: a Restart
// issued while disconnected is silently absorbed instead of queued.
//
// One-shot tasks (Iterations: Once) auto-disable after their single due
// execution, firing OnDisable. The water-pump task encodes its watering
// duration this way: enabling turns the pump on, and the task's natural
// expiry turns it off exactly once, however the task was started.
//
// # Ordering Guarantees
//
//   - Within one tick, due tasks execute in registration order.
//   - A task enabled or restarted during a tick does not execute until a
//     subsequent tick, even if its interval is zero.
//
// Callbacks must not block: a sleeping callback stalls every other task,
// including connectivity servicing.
package scheduler
