package device

import (
	"context"
	"time"
)

// Reading is a single recorded sensor measurement set.
//
// The history mirrors published measurement documents: every measurement that
// goes out to the broker is also stored locally, so the appliance keeps a
// queryable record of what it reported without a round trip to the cloud.
type Reading struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// ThingName identifies the appliance the reading belongs to.
	ThingName string `json:"thing_name"`

	// Sensor values at capture time.
	LightLux     float64 `json:"light_lux"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	Moisture     float64 `json:"moisture"`

	// CreatedAt is the capture timestamp (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// ReadingRepository stores and retrieves sensor reading history.
//
// Implementations must be thread-safe and use UTC timestamps.
type ReadingRepository interface {
	// RecordReading persists one measurement set.
	RecordReading(ctx context.Context, reading Reading) error

	// RecentReadings returns recent readings for the thing, newest first.
	// Implementations may clamp limit to an internal maximum.
	RecentReadings(ctx context.Context, thingName string, limit int) ([]Reading, error)
}
