package main

import (
	"context"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("HAPPYHERBS_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HAPPYHERBS_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("expected default path %q, got %q", defaultConfigPath, got)
	}

	t.Setenv("HAPPYHERBS_CONFIG", "/etc/happyherbs/config.yaml")
	if got := getConfigPath(); got != "/etc/happyherbs/config.yaml" {
		t.Errorf("expected env override, got %q", got)
	}
}
