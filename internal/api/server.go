// Package api provides the local bench API for the Happy Herbs appliance.
//
// It exposes the appliance's live state, thresholds, and reading history
// over HTTP for bench diagnosis and LAN dashboards. The cloud-facing path
// stays MQTT; this surface is read-mostly, unauthenticated, and bound to
// loopback by default.
//
// The server follows the same lifecycle pattern as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker reports whether local storage is usable.
// Implemented by database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Logger is the logging interface the server needs.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.APIConfig
	Logger Logger

	// State is the shared appliance state. Required.
	State *device.State

	// Readings serves the history endpoint. Optional; the endpoint returns
	// 404 when absent.
	Readings device.ReadingRepository

	// Health checks local storage for the health endpoint. Optional.
	Health HealthChecker

	// Connected reports transport connectivity for the health endpoint.
	// Optional.
	Connected func() bool

	// OnThresholdsChanged is invoked after a threshold write so the shadow
	// can be updated. Optional.
	OnThresholdsChanged func()

	// ThingName appears in responses so dashboards can label the appliance.
	ThingName string

	Version string
}

// Server is the HTTP bench API server.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg                 config.APIConfig
	logger              Logger
	state               *device.State
	readings            device.ReadingRepository
	health              HealthChecker
	connected           func() bool
	onThresholdsChanged func()
	thing               string
	version             string
	server              *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, state)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("device state is required")
	}

	return &Server{
		cfg:                 deps.Config,
		logger:              deps.Logger,
		state:               deps.State,
		readings:            deps.Readings,
		health:              deps.Health,
		connected:           deps.Connected,
		onThresholdsChanged: deps.OnThresholdsChanged,
		thing:               deps.ThingName,
		version:             deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server, waiting for in-flight
// requests up to the shutdown timeout.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
