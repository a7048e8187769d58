package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSensorMetric writes a single sensor measurement to InfluxDB.
//
// The write is non-blocking; data is batched and sent asynchronously. Writes
// while disconnected are dropped silently, matching the appliance's policy of
// never blocking the task loop on telemetry.
//
// Parameters:
//   - thing: The appliance's thing name (e.g., "happy-herbs-01")
//   - measurement: The metric name (e.g., "temperature_c", "moisture")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteSensorMetric("happy-herbs-01", "temperature_c", 21.5)
//	client.WriteSensorMetric("happy-herbs-01", "light_lux", 183.0)
func (c *Client) WriteSensorMetric(thing string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor_readings",
		map[string]string{
			"thing":       thing,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
