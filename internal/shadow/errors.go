package shadow

import "errors"

// Sentinel errors for shadow service operations.
var (
	// ErrMissingThing indicates the service was built without a thing name.
	ErrMissingThing = errors.New("shadow: thing name is required")

	// ErrMissingBroker indicates the service was built without a transport.
	ErrMissingBroker = errors.New("shadow: broker is required")

	// ErrMissingState indicates the service was built without device state.
	ErrMissingState = errors.New("shadow: device state is required")

	// ErrSensorRead indicates a sensor could not be read for a measurement
	// publish.
	ErrSensorRead = errors.New("shadow: sensor read failed")
)
