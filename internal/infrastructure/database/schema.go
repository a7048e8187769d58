package database

import (
	"context"
	"fmt"
)

// schema holds the appliance's local storage schema. The appliance is a
// single-owner embedded database, so the schema is applied idempotently at
// startup instead of through a migration chain.
const schema = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    thing_name TEXT NOT NULL,
    light_lux REAL NOT NULL,
    temperature_c REAL NOT NULL,
    humidity_pct REAL NOT NULL,
    moisture REAL NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sensor_readings_created_at
    ON sensor_readings (thing_name, created_at DESC);
`

// InitSchema creates the appliance's tables if they do not exist.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialising schema: %w", err)
	}
	return nil
}
