// Happy Herbs - Networked Gardening Appliance
//
// This is the main entry point for the Happy Herbs firmware. The appliance
// keeps a potted plant alive: it waters on low soil moisture, supplements
// dim ambient light with a grow lamp, and mirrors its state to a remote
// thing shadow over MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letung3105/serverless-iot-esp32/internal/api"
	"github.com/letung3105/serverless-iot-esp32/internal/device"
	"github.com/letung3105/serverless-iot-esp32/internal/garden"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/database"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/influxdb"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/logging"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/mqtt"
	"github.com/letung3105/serverless-iot-esp32/internal/scheduler"
	"github.com/letung3105/serverless-iot-esp32/internal/shadow"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Happy Herbs",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialising schema: %w", err)
	}

	readingRepo := device.NewSQLiteReadingRepository(db.DB)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Appliance state with simulated drivers. Real hardware builds swap
	// these for the I2C/GPIO driver implementations.
	seed := time.Now().UnixNano()
	state := device.NewState(device.StateOptions{
		Light:             device.NewSimulatedLightSensor(seed),
		Climate:           device.NewSimulatedClimateSensor(seed + 1),
		Moisture:          device.NewSimulatedMoistureSensor(seed + 2),
		LampPin:           device.NewSimulatedOutput(),
		PumpPin:           device.NewSimulatedOutput(),
		LightThreshold:    cfg.Thresholds.LightLux,
		MoistureThreshold: cfg.Thresholds.Moisture,
	})

	// MQTT client is created disconnected; the service loop owns the
	// handshake and every retry after it.
	mqttClient, err := mqtt.NewClient(cfg.MQTT, cfg.Thing.Name)
	if err != nil {
		return fmt.Errorf("creating MQTT client: %w", err)
	}
	mqttClient.SetLogger(log)

	serviceOpts := shadow.ServiceOptions{
		ThingName: cfg.Thing.Name,
		Broker:    mqttClient,
		State:     state,
		QoS:       byte(cfg.MQTT.QoS),
		Logger:    log,
		History:   readingRepo,
	}
	if influxClient != nil {
		serviceOpts.Metrics = influxClient
	}
	svc, err := shadow.NewService(serviceOpts)
	if err != nil {
		return fmt.Errorf("creating shadow service: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		svc.Disconnect()
	}()

	mqttClient.SetOnConnectionLost(svc.HandleConnectionLost)
	svc.SetOnStateChange(func(cs shadow.ConnState) {
		log.Info("connection state changed", "state", cs.String())
	})

	// Task graph
	sched := scheduler.New()
	graph, err := garden.NewGraph(garden.GraphOptions{
		Service:   svc,
		State:     state,
		Scheduler: sched,
		Tasks:     cfg.Tasks,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("creating task graph: %w", err)
	}
	svc.SetOnShadowDirty(graph.RequestShadowUpdate)

	// Local bench API (optional)
	if cfg.API.Enabled {
		apiServer, apiErr := api.New(api.Deps{
			Config:              cfg.API,
			Logger:              log,
			State:               state,
			Readings:            readingRepo,
			Health:              db,
			Connected:           svc.Connected,
			OnThresholdsChanged: graph.MarkShadowDirty,
			ThingName:           cfg.Thing.Name,
			Version:             version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	// Prometheus metrics endpoint (optional)
	if cfg.Metrics.Enabled {
		metricsSrv := startMetricsServer(cfg.Metrics.Addr, log)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if shutdownErr := metricsSrv.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Error("error shutting down metrics server", "error", shutdownErr)
			}
		}()
		log.Info("metrics server started", "addr", cfg.Metrics.Addr)
	}

	graph.Start()
	log.Info("initialisation complete, entering run loop",
		"thing", cfg.Thing.Name,
		"tick", cfg.Tasks.TickInterval(),
	)

	// The run loop is the appliance's single thread of execution: every task
	// callback runs here, one at a time, to completion.
	ticker := time.NewTicker(cfg.Tasks.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			log.Info("Happy Herbs stopped")
			return nil
		case <-ticker.C:
			graph.Tick()
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses HAPPYHERBS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HAPPYHERBS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startMetricsServer serves the Prometheus scrape endpoint in the background.
func startMetricsServer(addr string, log *logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
