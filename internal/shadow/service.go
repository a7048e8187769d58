package shadow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/letung3105/serverless-iot-esp32/internal/device"
	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/mqtt"
)

const (
	// inboundQueueSize bounds the number of messages waiting for the next
	// Loop drain. Messages beyond this are dropped and logged.
	inboundQueueSize = 32

	// recordTimeout bounds local history writes so a stuck database cannot
	// stall the scheduler goroutine.
	recordTimeout = 2 * time.Second
)

// ConnState describes the service's view of the transport connection.
type ConnState int

// Connection states.
const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

// String returns a human-readable connection state name.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Broker is the transport the service publishes through. Implemented by
// mqtt.Client; tests substitute a fake.
type Broker interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Recorder persists published measurement sets locally. Implemented by
// device.SQLiteReadingRepository.
type Recorder interface {
	RecordReading(ctx context.Context, reading device.Reading) error
}

// MetricsWriter forwards sensor values to a time-series sink. Implemented by
// influxdb.Client.
type MetricsWriter interface {
	WriteSensorMetric(thing string, measurement string, value float64)
}

// Logger is the logging interface the service needs.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type inboundMessage struct {
	topic   string
	payload []byte
}

// Service synchronizes the appliance with its thing shadow.
//
// Inbound transport callbacks run on the transport's goroutines; the service
// only queues them there. Loop, called from the scheduler goroutine, drains
// the queue so all state mutation happens on the single task thread.
type Service struct {
	thing   string
	qos     byte
	broker  Broker
	state   *device.State
	logger  Logger
	topics  mqtt.Topics
	inbound chan inboundMessage

	history Recorder
	metrics MetricsWriter

	mu            sync.Mutex
	connState     ConnState
	onStateChange func(ConnState)
	onShadowDirty func()
}

// ServiceOptions configures a new Service.
type ServiceOptions struct {
	// ThingName identifies the appliance to the shadow service. Required.
	ThingName string

	// Broker is the transport. Required.
	Broker Broker

	// State is the shared appliance state. Required.
	State *device.State

	// QoS for outbound publishes.
	QoS byte

	// Logger for diagnostics. Required.
	Logger Logger

	// History persists published measurements locally. Optional.
	History Recorder

	// Metrics forwards sensor values to a time-series sink. Optional.
	Metrics MetricsWriter
}

// NewService creates a shadow service.
//
// Parameters:
//   - opts: Service configuration
//
// Returns:
//   - *Service: Service ready for Connect
//   - error: If a required option is missing
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.ThingName == "" {
		return nil, ErrMissingThing
	}
	if opts.Broker == nil {
		return nil, ErrMissingBroker
	}
	if opts.State == nil {
		return nil, ErrMissingState
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("shadow: logger is required")
	}

	return &Service{
		thing:   opts.ThingName,
		qos:     opts.QoS,
		broker:  opts.Broker,
		state:   opts.State,
		logger:  opts.Logger,
		inbound: make(chan inboundMessage, inboundQueueSize),
		history: opts.History,
		metrics: opts.Metrics,
	}, nil
}

// SetOnStateChange registers a hook invoked whenever the connection state
// changes. The entrypoint logs transitions through it. The hook fires on
// whichever goroutine drove the transition, including the transport's
// connection-lost goroutine, so it must be safe for concurrent use and must
// not block.
func (s *Service) SetOnStateChange(hook func(ConnState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = hook
}

// SetOnShadowDirty registers a hook invoked whenever an inbound message
// mutated the reported state, so a shadow update can be scheduled.
func (s *Service) SetOnShadowDirty(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShadowDirty = hook
}

// Connect performs one connection attempt: transport handshake, topic
// subscriptions, and a retained online status publish.
//
// No retries happen here. The service-loop task calls Connect again on a
// later tick when the attempt fails.
//
// Returns:
//   - error: nil on success, otherwise the wrapped handshake or subscribe error
func (s *Service) Connect() error {
	s.setConnState(StateConnecting)

	if err := s.broker.Connect(); err != nil {
		s.setConnState(StateDisconnected)
		return fmt.Errorf("connecting transport: %w", err)
	}

	// Clean sessions drop subscriptions on disconnect; resubscribe on every
	// successful handshake.
	subscriptions := []string{
		s.topics.ShadowUpdateDelta(s.thing),
		s.topics.Commands(s.thing),
	}
	for _, topic := range subscriptions {
		if err := s.broker.Subscribe(topic, s.qos, s.enqueue); err != nil {
			s.broker.Disconnect()
			s.setConnState(StateDisconnected)
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
	}

	if err := s.publishStatus(); err != nil {
		s.logger.Warn("online status publish failed", "error", err)
	}

	s.setConnState(StateConnected)
	s.logger.Info("shadow service connected", "thing", s.thing)
	return nil
}

// Disconnect closes the transport connection.
func (s *Service) Disconnect() {
	s.broker.Disconnect()
	s.setConnState(StateDisconnected)
}

// Connected reports whether the transport connection is up.
func (s *Service) Connected() bool {
	return s.broker.IsConnected()
}

// State returns the service's view of the connection state.
func (s *Service) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connState
}

// HandleConnectionLost records an unexpected disconnect. Wire it to the
// transport's connection-lost callback; the service-loop task notices the
// dropped connection on its next tick and reconnects.
func (s *Service) HandleConnectionLost(err error) {
	s.logger.Warn("transport connection lost", "error", err)
	s.setConnState(StateDisconnected)
}

// enqueue is the transport-side message handler. It runs on the transport's
// goroutines and must not touch device state; it only queues the message for
// the next Loop drain.
func (s *Service) enqueue(topic string, payload []byte) error {
	msg := inboundMessage{topic: topic, payload: payload}
	select {
	case s.inbound <- msg:
		return nil
	default:
		s.logger.Warn("inbound queue full, dropping message", "topic", topic)
		return nil
	}
}

// Loop drains queued inbound messages. Called once per service-loop tick on
// the scheduler goroutine, so routed handlers mutate state serialized with
// every other task.
func (s *Service) Loop() {
	for {
		select {
		case msg := <-s.inbound:
			s.HandleCallback(msg.topic, msg.payload)
		default:
			return
		}
	}
}

// HandleCallback routes an inbound message by topic suffix.
//
// Shadow delta messages update thresholds; command messages override
// actuators. Unparseable payloads are dropped without touching state.
//
// Parameters:
//   - topic: The topic the message arrived on
//   - payload: The raw message payload
func (s *Service) HandleCallback(topic string, payload []byte) {
	switch {
	case strings.HasSuffix(topic, mqtt.TopicSuffixShadowDelta):
		s.handleDelta(payload)
	case strings.HasSuffix(topic, mqtt.TopicSuffixCommands):
		s.handleCommand(payload)
	default:
		s.logger.Debug("ignoring message on unrouted topic", "topic", topic)
	}
}

func (s *Service) handleDelta(payload []byte) {
	var doc DeltaDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.logger.Warn("dropping malformed shadow delta", "error", err)
		return
	}

	changed := false
	if doc.State.LightThreshold != nil {
		s.state.SetLightThreshold(*doc.State.LightThreshold)
		s.logger.Info("light threshold updated from shadow", "threshold", *doc.State.LightThreshold)
		changed = true
	}
	if doc.State.MoistureThreshold != nil {
		s.state.SetMoistureThreshold(*doc.State.MoistureThreshold)
		s.logger.Info("moisture threshold updated from shadow", "threshold", *doc.State.MoistureThreshold)
		changed = true
	}

	if changed {
		s.notifyShadowDirty()
	}
}

func (s *Service) handleCommand(payload []byte) {
	var doc CommandDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.logger.Warn("dropping malformed command", "error", err)
		return
	}

	changed := false
	if doc.LampState != nil {
		s.state.WriteLamp(*doc.LampState)
		s.logger.Info("lamp overridden by command", "on", *doc.LampState)
		changed = true
	}
	if doc.PumpState != nil {
		s.state.WritePump(*doc.PumpState)
		s.logger.Info("pump overridden by command", "on", *doc.PumpState)
		changed = true
	}

	if changed {
		s.notifyShadowDirty()
	}
}

// PublishShadowUpdate serializes the current reported state and publishes it
// to the shadow update topic. Drops the publish silently when disconnected;
// the next reconnect announces full state anyway.
//
// Returns:
//   - error: nil on success or when dropped, otherwise the publish error
func (s *Service) PublishShadowUpdate() error {
	if !s.Connected() {
		s.logger.Debug("skipping shadow update while disconnected")
		return nil
	}

	doc := UpdateDocument{State: UpdateState{Reported: s.state.Snapshot()}}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding shadow update: %w", err)
	}

	if err := s.broker.Publish(s.topics.ShadowUpdate(s.thing), payload, s.qos, false); err != nil {
		return fmt.Errorf("publishing shadow update: %w", err)
	}

	s.logger.Debug("shadow update published", "thing", s.thing)
	return nil
}

// PublishSensorsMeasurements reads every sensor, publishes the measurement
// document, and fans the values out to local history and the time-series
// sink. Drops the publish silently when disconnected.
//
// Returns:
//   - error: nil on success or when dropped, otherwise the read or publish error
func (s *Service) PublishSensorsMeasurements() error {
	if !s.Connected() {
		s.logger.Debug("skipping measurement publish while disconnected")
		return nil
	}

	light, err := s.state.ReadLight()
	if err != nil {
		return fmt.Errorf("%w: light: %w", ErrSensorRead, err)
	}
	temperature, err := s.state.ReadTemperature()
	if err != nil {
		return fmt.Errorf("%w: temperature: %w", ErrSensorRead, err)
	}
	humidity, err := s.state.ReadHumidity()
	if err != nil {
		return fmt.Errorf("%w: humidity: %w", ErrSensorRead, err)
	}
	moisture, err := s.state.ReadMoisture()
	if err != nil {
		return fmt.Errorf("%w: moisture: %w", ErrSensorRead, err)
	}

	now := time.Now().UTC()
	doc := MeasurementDocument{
		ThingName:    s.thing,
		LightLux:     light,
		TemperatureC: temperature,
		HumidityPct:  humidity,
		Moisture:     moisture,
		Timestamp:    now.Format(time.RFC3339),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding measurements: %w", err)
	}

	if err := s.broker.Publish(s.topics.Measurements(s.thing), payload, s.qos, false); err != nil {
		return fmt.Errorf("publishing measurements: %w", err)
	}

	s.recordReading(device.Reading{
		ThingName:    s.thing,
		LightLux:     light,
		TemperatureC: temperature,
		HumidityPct:  humidity,
		Moisture:     moisture,
		CreatedAt:    now,
	})
	s.writeMetrics(light, temperature, humidity, moisture)

	s.logger.Debug("measurements published", "thing", s.thing, "light", light, "moisture", moisture)
	return nil
}

func (s *Service) publishStatus() error {
	payload, err := json.Marshal(newStatusDocument(s.thing))
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	if err := s.broker.Publish(s.topics.Status(s.thing), payload, 1, true); err != nil {
		return fmt.Errorf("publishing status: %w", err)
	}
	return nil
}

func (s *Service) recordReading(reading device.Reading) {
	if s.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.history.RecordReading(ctx, reading); err != nil {
		s.logger.Warn("recording reading failed", "error", err)
	}
}

func (s *Service) writeMetrics(light, temperature, humidity, moisture float64) {
	if s.metrics == nil {
		return
	}

	s.metrics.WriteSensorMetric(s.thing, "light_lux", light)
	s.metrics.WriteSensorMetric(s.thing, "temperature_c", temperature)
	s.metrics.WriteSensorMetric(s.thing, "humidity_pct", humidity)
	s.metrics.WriteSensorMetric(s.thing, "moisture", moisture)
}

func (s *Service) setConnState(next ConnState) {
	s.mu.Lock()
	prev := s.connState
	s.connState = next
	hook := s.onStateChange
	s.mu.Unlock()

	if prev != next && hook != nil {
		hook(next)
	}
}

func (s *Service) notifyShadowDirty() {
	s.mu.Lock()
	hook := s.onShadowDirty
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}
