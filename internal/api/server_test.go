package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeReadings struct {
	readings []device.Reading
	err      error
}

func (f *fakeReadings) RecordReading(_ context.Context, reading device.Reading) error {
	f.readings = append(f.readings, reading)
	return nil
}

func (f *fakeReadings) RecentReadings(_ context.Context, _ string, _ int) ([]device.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.readings, nil
}

type fakeHealth struct{ err error }

func (f *fakeHealth) HealthCheck(context.Context) error { return f.err }

func newTestState() *device.State {
	return device.NewState(device.StateOptions{
		LampPin:           device.NewSimulatedOutput(),
		PumpPin:           device.NewSimulatedOutput(),
		LightThreshold:    200,
		MoistureThreshold: 30,
	})
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()

	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}
	if deps.State == nil {
		deps.State = newTestState()
	}
	if deps.ThingName == "" {
		deps.ThingName = "happy-herbs-01"
	}
	deps.Config = config.APIConfig{Enabled: true, Host: "127.0.0.1", Port: 8080}

	server, err := New(deps)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	return server
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Deps{State: newTestState()}); err == nil {
		t.Error("expected error for missing logger")
	}
	if _, err := New(Deps{Logger: nopLogger{}}); err == nil {
		t.Error("expected error for missing state")
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, Deps{
		Health:    &fakeHealth{},
		Connected: func() bool { return true },
		Version:   "1.2.3",
	})

	rec := doRequest(server, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if !resp.Connected {
		t.Error("expected connected true")
	}
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", resp.Version)
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	server := newTestServer(t, Deps{
		Health: &fakeHealth{err: errors.New("disk full")},
	})

	rec := doRequest(server, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Database != "error" {
		t.Errorf("expected database error, got %q", resp.Database)
	}
}

func TestHandleGetState(t *testing.T) {
	state := newTestState()
	state.WriteLamp(true)
	server := newTestServer(t, Deps{State: state})

	rec := doRequest(server, http.MethodGet, "/api/v1/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.State.Lamp {
		t.Error("expected lamp on in state response")
	}
	if resp.State.LightThreshold != 200 {
		t.Errorf("expected light threshold 200, got %v", resp.State.LightThreshold)
	}
}

func TestHandleSetThresholds(t *testing.T) {
	state := newTestState()
	notified := 0
	server := newTestServer(t, Deps{
		State:               state,
		OnThresholdsChanged: func() { notified++ },
	})

	rec := doRequest(server, http.MethodPut, "/api/v1/thresholds",
		`{"lightThreshold": 450, "moistureThreshold": 55}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := state.LightThreshold(); got != 450 {
		t.Errorf("expected light threshold 450, got %v", got)
	}
	if got := state.MoistureThreshold(); got != 55 {
		t.Errorf("expected moisture threshold 55, got %v", got)
	}
	if notified != 1 {
		t.Errorf("expected 1 threshold notification, got %d", notified)
	}
}

func TestHandleSetThresholdsValidation(t *testing.T) {
	server := newTestServer(t, Deps{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"no fields", `{}`},
		{"negative light", `{"lightThreshold": -1}`},
		{"negative moisture", `{"moistureThreshold": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(server, http.MethodPut, "/api/v1/thresholds", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleListReadings(t *testing.T) {
	repo := &fakeReadings{readings: []device.Reading{
		{ThingName: "happy-herbs-01", LightLux: 120, CreatedAt: time.Now().UTC()},
	}}
	server := newTestServer(t, Deps{Readings: repo})

	rec := doRequest(server, http.MethodGet, "/api/v1/readings?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Thing    string           `json:"thing"`
		Readings []device.Reading `json:"readings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(resp.Readings))
	}
	if resp.Readings[0].LightLux != 120 {
		t.Errorf("expected light 120, got %v", resp.Readings[0].LightLux)
	}
}

func TestHandleListReadingsUnavailable(t *testing.T) {
	server := newTestServer(t, Deps{})

	rec := doRequest(server, http.MethodGet, "/api/v1/readings", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a repository, got %d", rec.Code)
	}
}

func TestHandleListReadingsBadLimit(t *testing.T) {
	server := newTestServer(t, Deps{Readings: &fakeReadings{}})

	rec := doRequest(server, http.MethodGet, "/api/v1/readings?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", rec.Code)
	}
}
