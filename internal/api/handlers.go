package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
)

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Thing     string `json:"thing"`
	Version   string `json:"version"`
	Connected bool   `json:"connected"`
	Database  string `json:"database"`
}

// stateResponse wraps the reported appliance state.
type stateResponse struct {
	Thing string          `json:"thing"`
	State device.Snapshot `json:"state"`
}

// thresholdsRequest is the body of the thresholds endpoint. Absent fields
// leave the corresponding threshold untouched.
type thresholdsRequest struct {
	LightThreshold    *float64 `json:"lightThreshold"`
	MoistureThreshold *float64 `json:"moistureThreshold"`
}

// handleHealth reports appliance liveness, transport connectivity, and
// local storage health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Thing:    s.thing,
		Version:  s.version,
		Database: "ok",
	}
	if s.connected != nil {
		resp.Connected = s.connected()
	}

	status := http.StatusOK
	if s.health != nil {
		if err := s.health.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "error"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

// handleGetState returns the reported appliance state: actuator outputs and
// thresholds. Live sensor reads stay on the scheduler thread; this endpoint
// never touches the drivers.
func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		Thing: s.thing,
		State: s.state.Snapshot(),
	})
}

// handleSetThresholds updates one or both actuation thresholds and schedules
// a shadow publish so the remote document follows.
func (s *Server) handleSetThresholds(w http.ResponseWriter, r *http.Request) {
	var req thresholdsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.LightThreshold == nil && req.MoistureThreshold == nil {
		writeBadRequest(w, "at least one of lightThreshold, moistureThreshold is required")
		return
	}
	if req.LightThreshold != nil && *req.LightThreshold < 0 {
		writeBadRequest(w, "lightThreshold must be non-negative")
		return
	}
	if req.MoistureThreshold != nil && *req.MoistureThreshold < 0 {
		writeBadRequest(w, "moistureThreshold must be non-negative")
		return
	}

	if req.LightThreshold != nil {
		s.state.SetLightThreshold(*req.LightThreshold)
	}
	if req.MoistureThreshold != nil {
		s.state.SetMoistureThreshold(*req.MoistureThreshold)
	}
	if s.onThresholdsChanged != nil {
		s.onThresholdsChanged()
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Thing: s.thing,
		State: s.state.Snapshot(),
	})
}

// handleListReadings returns recent sensor readings, newest first.
// The limit query parameter caps the result; the repository clamps it.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	if s.readings == nil {
		writeNotFound(w, "reading history is not available")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	readings, err := s.readings.RecentReadings(r.Context(), s.thing, limit)
	if err != nil {
		s.logger.Error("listing readings failed", "error", err)
		writeInternalError(w, "failed to list readings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"thing":    s.thing,
		"readings": readings,
	})
}
