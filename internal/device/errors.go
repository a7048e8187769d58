package device

import "errors"

// Sentinel errors for device operations.
var (
	// ErrNoSensor indicates a sensor driver was not wired in.
	ErrNoSensor = errors.New("device: sensor not configured")

	// ErrInvalidReading indicates a reading failed repository validation.
	ErrInvalidReading = errors.New("device: invalid reading")
)
