package device

import (
	"fmt"
	"sync"
)

// State is the mutable snapshot of the appliance: sensor access, actuator
// outputs, and the actuation thresholds.
//
// State is owned by the firmware process and shared by reference among tasks.
// Task execution is serialized by the scheduler, but MQTT transport callbacks
// run on their own goroutines, so all access goes through an RWMutex rather
// than relying on the caller's discipline.
type State struct {
	mu sync.RWMutex

	light    LightSensor
	climate  ClimateSensor
	moisture MoistureSensor

	lampPin Output
	pumpPin Output

	lampOn bool
	pumpOn bool

	lightThreshold    float64
	moistureThreshold float64
}

// StateOptions configures a new State.
type StateOptions struct {
	Light    LightSensor
	Climate  ClimateSensor
	Moisture MoistureSensor

	// LampPin and PumpPin are required.
	LampPin Output
	PumpPin Output

	// Initial thresholds, normally from configuration.
	LightThreshold    float64
	MoistureThreshold float64
}

// NewState creates the appliance state and drives both actuators to a known
// off position.
func NewState(opts StateOptions) *State {
	s := &State{
		light:             opts.Light,
		climate:           opts.Climate,
		moisture:          opts.Moisture,
		lampPin:           opts.LampPin,
		pumpPin:           opts.PumpPin,
		lightThreshold:    opts.LightThreshold,
		moistureThreshold: opts.MoistureThreshold,
	}
	s.WriteLamp(false)
	s.WritePump(false)
	return s
}

// WriteLamp sets the lamp output. The write is synchronous: the new level is
// observable through Lamp() before WriteLamp returns.
func (s *State) WriteLamp(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lampPin != nil {
		s.lampPin.Write(on)
	}
	s.lampOn = on
}

// WritePump sets the water pump output.
func (s *State) WritePump(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pumpPin != nil {
		s.pumpPin.Write(on)
	}
	s.pumpOn = on
}

// Lamp reports the last written lamp level.
func (s *State) Lamp() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lampOn
}

// Pump reports the last written pump level.
func (s *State) Pump() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pumpOn
}

// SetLightThreshold updates the illuminance below which the lamp turns on.
func (s *State) SetLightThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightThreshold = v
}

// LightThreshold returns the current light threshold.
func (s *State) LightThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightThreshold
}

// SetMoistureThreshold updates the soil moisture level below which watering starts.
func (s *State) SetMoistureThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moistureThreshold = v
}

// MoistureThreshold returns the current moisture threshold.
func (s *State) MoistureThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moistureThreshold
}

// ReadLight reads the ambient light sensor.
func (s *State) ReadLight() (float64, error) {
	if s.light == nil {
		return 0, fmt.Errorf("%w: light", ErrNoSensor)
	}
	return s.light.ReadLight()
}

// ReadTemperature reads the air temperature sensor.
func (s *State) ReadTemperature() (float64, error) {
	if s.climate == nil {
		return 0, fmt.Errorf("%w: climate", ErrNoSensor)
	}
	return s.climate.ReadTemperature()
}

// ReadHumidity reads the relative humidity sensor.
func (s *State) ReadHumidity() (float64, error) {
	if s.climate == nil {
		return 0, fmt.Errorf("%w: climate", ErrNoSensor)
	}
	return s.climate.ReadHumidity()
}

// ReadMoisture reads the soil moisture sensor.
func (s *State) ReadMoisture() (float64, error) {
	if s.moisture == nil {
		return 0, fmt.Errorf("%w: moisture", ErrNoSensor)
	}
	return s.moisture.ReadMoisture()
}

// Snapshot is a point-in-time copy of the reported appliance state: the
// actuator outputs and thresholds mirrored to the thing shadow.
type Snapshot struct {
	Lamp              bool    `json:"lampState"`
	Pump              bool    `json:"pumpState"`
	LightThreshold    float64 `json:"lightThreshold"`
	MoistureThreshold float64 `json:"moistureThreshold"`
}

// Snapshot returns a consistent copy of the reported state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Lamp:              s.lampOn,
		Pump:              s.pumpOn,
		LightThreshold:    s.lightThreshold,
		MoistureThreshold: s.moistureThreshold,
	}
}
