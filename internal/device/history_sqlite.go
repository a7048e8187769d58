package device

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SQLiteReadingRepository implements ReadingRepository using SQLite.
//
// It stores one row per measurement set in the sensor_readings table.
type SQLiteReadingRepository struct {
	db *sql.DB
}

// NewSQLiteReadingRepository creates a new SQLite reading repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteReadingRepository: Repository instance ready for use
func NewSQLiteReadingRepository(db *sql.DB) *SQLiteReadingRepository {
	return &SQLiteReadingRepository{db: db}
}

// RecordReading inserts a new sensor reading row.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - reading: Measurement set to persist
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteReadingRepository) RecordReading(ctx context.Context, reading Reading) error {
	if reading.ThingName == "" {
		return fmt.Errorf("%w: thing name is required", ErrInvalidReading)
	}

	createdAt := reading.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sensor_readings (thing_name, light_lux, temperature_c, humidity_pct, moisture, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reading.ThingName,
		reading.LightLux,
		reading.TemperatureC,
		reading.HumidityPct,
		reading.Moisture,
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting sensor reading: %w", err)
	}

	return nil
}

// RecentReadings returns recent readings for a thing, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - thingName: Appliance identifier
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []Reading: Readings ordered by created_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteReadingRepository) RecentReadings(ctx context.Context, thingName string, limit int) ([]Reading, error) {
	if thingName == "" {
		return nil, fmt.Errorf("thing name is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, thing_name, light_lux, temperature_c, humidity_pct, moisture, created_at
		 FROM sensor_readings
		 WHERE thing_name = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		thingName,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sensor readings: %w", err)
	}
	defer rows.Close()

	readings := make([]Reading, 0, limit)
	for rows.Next() {
		var reading Reading
		var createdAt string

		if err := rows.Scan(
			&reading.ID,
			&reading.ThingName,
			&reading.LightLux,
			&reading.TemperatureC,
			&reading.HumidityPct,
			&reading.Moisture,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning sensor reading: %w", err)
		}

		timestamp, err := parseReadingTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		reading.CreatedAt = timestamp

		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensor readings: %w", err)
	}

	return readings, nil
}

// PruneReadings deletes readings older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Duration to retain (rows older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteReadingRepository) PruneReadings(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sensor_readings WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting sensor readings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseReadingTimestamp parses a timestamp stored in SQLite.
//
// Rows inserted by RecordReading carry RFC3339 timestamps; rows created by
// the column default use SQLite's "YYYY-MM-DD HH:MM:SS" format.
func parseReadingTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02 15:04:05", value)
	if fallbackErr == nil {
		return fallback.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
