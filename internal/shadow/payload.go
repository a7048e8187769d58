package shadow

import (
	"time"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
)

// Wire documents exchanged with the thing shadow service and the fleet
// backend. The field names are the external contract; changing them breaks
// the cloud side.

// UpdateDocument is published to the shadow update topic. It reports the
// actuator outputs and thresholds the appliance currently holds.
//
//	{"state": {"reported": {"lampState": true, ...}}}
type UpdateDocument struct {
	State UpdateState `json:"state"`
}

// UpdateState carries the reported section of an update document.
type UpdateState struct {
	Reported device.Snapshot `json:"reported"`
}

// DeltaDocument arrives on the shadow delta topic when the desired state
// diverges from the reported state. Only the diverging fields are present,
// so both thresholds are pointers.
type DeltaDocument struct {
	State     DeltaState `json:"state"`
	Version   int64      `json:"version"`
	Timestamp int64      `json:"timestamp"`
}

// DeltaState holds the desired threshold changes from a delta document.
type DeltaState struct {
	LightThreshold    *float64 `json:"lightThreshold"`
	MoistureThreshold *float64 `json:"moistureThreshold"`
}

// CommandDocument arrives on the commands topic and overrides an actuator
// directly, bypassing the threshold logic. Absent fields leave the actuator
// untouched.
type CommandDocument struct {
	LampState *bool `json:"lampState"`
	PumpState *bool `json:"pumpState"`
}

// MeasurementDocument is published to the measurements topic, independent of
// the shadow document.
type MeasurementDocument struct {
	ThingName    string  `json:"thingName"`
	LightLux     float64 `json:"lightLux"`
	TemperatureC float64 `json:"temperatureCelsius"`
	HumidityPct  float64 `json:"humidityPercent"`
	Moisture     float64 `json:"moisture"`
	Timestamp    string  `json:"timestamp"`
}

// StatusDocument is published retained to the status topic on connect. Its
// offline counterpart is the transport's last-will message.
type StatusDocument struct {
	Status    string `json:"status"`
	ThingName string `json:"thing_name"`
	Timestamp string `json:"timestamp"`
}

func newStatusDocument(thing string) StatusDocument {
	return StatusDocument{
		Status:    "online",
		ThingName: thing,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
