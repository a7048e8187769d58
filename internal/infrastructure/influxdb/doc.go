// Package influxdb provides an optional time-series sink for sensor telemetry.
//
// Each published measurement is mirrored to InfluxDB so greenhouse dashboards
// can chart light, temperature, humidity and moisture over time. The sink is
// strictly best-effort: writes are batched, non-blocking, and dropped while
// disconnected. The local SQLite history remains the durable record.
package influxdb
