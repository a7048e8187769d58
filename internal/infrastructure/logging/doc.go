// Package logging provides structured logging for the Happy Herbs appliance.
//
// It wraps log/slog with the appliance's defaults: JSON output for fleet log
// shipping, level filtering from configuration, and service/version fields on
// every record. Domain packages accept a small consumer-side Logger interface
// rather than this concrete type, so tests can pass no-op implementations.
package logging
