package database

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestOpen_CreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := Open(Config{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	// Second run must be a no-op, not an error.
	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() second run error = %v", err)
	}

	// Table exists and accepts inserts.
	_, err := db.ExecContext(ctx,
		`INSERT INTO sensor_readings (thing_name, light_lux, temperature_c, humidity_pct, moisture)
		 VALUES (?, ?, ?, ?, ?)`,
		"herbs-test", 120.5, 22.1, 55.0, 41.0,
	)
	if err != nil {
		t.Fatalf("inserting reading: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sensor_readings").Scan(&count); err != nil {
		t.Fatalf("counting readings: %v", err)
	}
	if count != 1 {
		t.Errorf("reading count = %d, want 1", count)
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
