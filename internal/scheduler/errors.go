package scheduler

import "errors"

// Sentinel errors for task registration.
var (
	// ErrNilTask is returned when registering a nil task.
	ErrNilTask = errors.New("scheduler: task cannot be nil")

	// ErrTaskRegistered is returned when a task is registered twice.
	ErrTaskRegistered = errors.New("scheduler: task already registered")
)
