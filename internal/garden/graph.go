package garden

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
	"github.com/letung3105/serverless-iot-esp32/internal/scheduler"
)

// Syncer is the slice of the shadow service the orchestration graph drives.
type Syncer interface {
	Connect() error
	Connected() bool
	Loop()
	PublishShadowUpdate() error
	PublishSensorsMeasurements() error
}

// Logger is the logging interface the graph needs.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Graph owns the fixed task set that encodes the appliance's behavior:
// connection maintenance, shadow announcements, measurement publishing,
// and the watering and lighting checks.
//
// Task wiring is the behavioral contract. The pump duration is the WaterPump
// task's lifetime rather than an explicit timer: enabling the task turns the
// pump on and its one-shot expiry turns it off, so the off-write happens
// exactly once however the task was started. ShadowUpdate and SensorsPublish
// gate on connectivity in their enable hooks, so restarts issued while
// disconnected are absorbed instead of queued.
type Graph struct {
	service       Syncer
	state         *device.State
	sched         *scheduler.Scheduler
	logger        Logger
	announceDelay time.Duration

	// shadowDirty is the only cross-goroutine entry into the graph; the
	// service loop folds it into task wiring on its next run.
	shadowDirty atomic.Bool

	serviceLoop            *scheduler.Task
	shadowUpdate           *scheduler.Task
	sensorsPublish         *scheduler.Task
	periodicSensorsPublish *scheduler.Task
	waterPump              *scheduler.Task
	moistureCheck          *scheduler.Task
	lightCheck             *scheduler.Task
}

// GraphOptions configures a new Graph.
type GraphOptions struct {
	// Service is the shadow service. Required.
	Service Syncer

	// State is the shared appliance state. Required.
	State *device.State

	// Scheduler receives the graph's tasks. Required.
	Scheduler *scheduler.Scheduler

	// Tasks holds the intervals and durations from config.yaml.
	Tasks config.TasksConfig

	// Logger for diagnostics. Required.
	Logger Logger
}

// NewGraph builds and registers the task graph.
//
// Tasks are registered in a fixed order and execute in that order within a
// tick: the service loop first, so inbound messages are routed before any
// check runs, then the publish tasks, then the actuator and check tasks.
//
// Parameters:
//   - opts: Graph configuration
//
// Returns:
//   - *Graph: Graph with all tasks registered, none enabled
//   - error: If a required option is missing or registration fails
func NewGraph(opts GraphOptions) (*Graph, error) {
	if opts.Service == nil {
		return nil, errors.New("garden: service is required")
	}
	if opts.State == nil {
		return nil, errors.New("garden: state is required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("garden: scheduler is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("garden: logger is required")
	}

	g := &Graph{
		service:       opts.Service,
		state:         opts.State,
		sched:         opts.Scheduler,
		logger:        opts.Logger,
		announceDelay: opts.Tasks.AnnounceDelay(),
	}

	g.serviceLoop = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "service-loop",
		Interval:   0,
		Iterations: scheduler.Forever,
		Callback:   g.runServiceLoop,
	})
	g.shadowUpdate = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "shadow-update",
		Interval:   0,
		Iterations: scheduler.Once,
		OnEnable:   g.connectedGuard,
		Callback:   g.runShadowUpdate,
	})
	g.sensorsPublish = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "sensors-publish",
		Interval:   0,
		Iterations: scheduler.Once,
		OnEnable:   g.connectedGuard,
		Callback:   g.runSensorsPublish,
	})
	g.periodicSensorsPublish = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "periodic-sensors-publish",
		Interval:   opts.Tasks.SensorsPublishInterval(),
		Iterations: scheduler.Forever,
		Callback:   func() { g.sensorsPublish.Restart() },
	})
	g.waterPump = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "water-pump",
		Interval:   opts.Tasks.PumpDuration(),
		Iterations: scheduler.Once,
		OnEnable:   g.pumpOn,
		OnDisable:  g.pumpOff,
	})
	g.moistureCheck = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "moisture-check",
		Interval:   opts.Tasks.MoistureCheckInterval(),
		Iterations: scheduler.Forever,
		Callback:   g.runMoistureCheck,
	})
	g.lightCheck = scheduler.NewTask(scheduler.TaskOptions{
		Name:       "light-check",
		Interval:   opts.Tasks.LightCheckInterval(),
		Iterations: scheduler.Forever,
		Callback:   g.runLightCheck,
	})

	tasks := []*scheduler.Task{
		g.serviceLoop,
		g.shadowUpdate,
		g.sensorsPublish,
		g.periodicSensorsPublish,
		g.waterPump,
		g.moistureCheck,
		g.lightCheck,
	}
	for _, t := range tasks {
		if err := g.sched.Add(t); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Start enables the always-on tasks. The gated one-shots (ShadowUpdate,
// SensorsPublish) and the pump stay disabled until something restarts them.
func (g *Graph) Start() {
	g.serviceLoop.Enable()
	g.periodicSensorsPublish.Enable()
	g.moistureCheck.Enable()
	g.lightCheck.Enable()
	g.logger.Info("task graph started",
		"tasks", g.sched.TaskCount(),
		"announce_delay", g.announceDelay,
	)
}

// Tick drives one scheduler pass. The main run loop calls it at the
// configured tick interval.
func (g *Graph) Tick() {
	schedulerTicksTotal.Inc()
	g.sched.Execute()
}

// RequestShadowUpdate schedules a shadow publish on the next tick. Wire it
// to the shadow service's dirty hook so inbound threshold and command
// changes are reported back. Must only be called from the scheduler
// goroutine; other goroutines use MarkShadowDirty.
func (g *Graph) RequestShadowUpdate() {
	g.shadowUpdate.Restart()
}

// MarkShadowDirty requests a shadow publish from outside the scheduler
// goroutine. The service loop issues the actual restart on its next run, so
// the usual connectivity guard still applies.
func (g *Graph) MarkShadowDirty() {
	g.shadowDirty.Store(true)
}

// connectedGuard gates the one-shot publish tasks. A restart issued while
// disconnected is absorbed here and never queued.
func (g *Graph) connectedGuard() bool {
	return g.service.Connected()
}

func (g *Graph) runServiceLoop() {
	if g.shadowDirty.CompareAndSwap(true, false) {
		g.shadowUpdate.Restart()
	}

	if g.service.Connected() {
		connectedGauge.Set(1)
		g.service.Loop()
		return
	}

	connectedGauge.Set(0)
	if err := g.service.Connect(); err != nil {
		connectAttemptsTotal.WithLabelValues(resultFailure).Inc()
		g.logger.Debug("connect attempt failed", "error", err)
		return
	}

	connectAttemptsTotal.WithLabelValues(resultSuccess).Inc()
	connectedGauge.Set(1)
	// Give the transport a beat to settle before announcing full state.
	g.shadowUpdate.RestartDelayed(g.announceDelay)
}

func (g *Graph) runShadowUpdate() {
	if err := g.service.PublishShadowUpdate(); err != nil {
		publishTotal.WithLabelValues(kindShadowUpdate, resultFailure).Inc()
		g.logger.Warn("shadow update failed", "error", err)
		return
	}
	publishTotal.WithLabelValues(kindShadowUpdate, resultSuccess).Inc()
}

func (g *Graph) runSensorsPublish() {
	if err := g.service.PublishSensorsMeasurements(); err != nil {
		publishTotal.WithLabelValues(kindMeasurements, resultFailure).Inc()
		g.logger.Warn("measurement publish failed", "error", err)
		return
	}
	publishTotal.WithLabelValues(kindMeasurements, resultSuccess).Inc()
}

// pumpOn opens the pump's run window. The matching off-write lives in
// pumpOff, fired exactly once when the one-shot expires or is disabled.
func (g *Graph) pumpOn() bool {
	g.state.WritePump(true)
	pumpRunsTotal.Inc()
	g.logger.Info("water pump on")
	g.shadowUpdate.Restart()
	return true
}

func (g *Graph) pumpOff() {
	g.state.WritePump(false)
	g.logger.Info("water pump off")
	g.shadowUpdate.Restart()
}

func (g *Graph) runMoistureCheck() {
	moisture, err := g.state.ReadMoisture()
	if err != nil {
		g.logger.Warn("moisture read failed", "error", err)
		return
	}

	threshold := g.state.MoistureThreshold()
	g.logger.Debug("moisture check", "moisture", moisture, "threshold", threshold)
	if moisture < threshold {
		g.waterPump.Restart()
	}
}

func (g *Graph) runLightCheck() {
	// Lamp off first so the reading sees ambient light, not its own lamp.
	g.state.WriteLamp(false)

	light, err := g.state.ReadLight()
	if err != nil {
		g.logger.Warn("light read failed", "error", err)
		return
	}

	threshold := g.state.LightThreshold()
	g.logger.Debug("light check", "light", light, "threshold", threshold)
	if light < threshold {
		g.state.WriteLamp(true)
	}
	g.shadowUpdate.Restart()
}
