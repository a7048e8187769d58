package device

import (
	"math/rand"
	"sync"
)

// Simulated drivers stand in for real sensor and actuator hardware. They let
// the full orchestration loop run on a development machine where no I2C bus
// or GPIO pins exist.

// SimulatedLightSensor produces pseudo-random illuminance readings.
type SimulatedLightSensor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedLightSensor creates a light sensor driver seeded with seed.
func NewSimulatedLightSensor(seed int64) *SimulatedLightSensor {
	return &SimulatedLightSensor{rng: rand.New(rand.NewSource(seed))}
}

// ReadLight returns a simulated illuminance in lux.
func (s *SimulatedLightSensor) ReadLight() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * 1000.0, nil // 0–1000 lx
}

// SimulatedClimateSensor produces pseudo-random temperature and humidity
// readings.
type SimulatedClimateSensor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedClimateSensor creates a climate sensor driver seeded with seed.
func NewSimulatedClimateSensor(seed int64) *SimulatedClimateSensor {
	return &SimulatedClimateSensor{rng: rand.New(rand.NewSource(seed))}
}

// ReadTemperature returns a simulated temperature in degrees Celsius.
func (s *SimulatedClimateSensor) ReadTemperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 20.0 + s.rng.Float64()*15.0, nil // 20–35 °C
}

// ReadHumidity returns a simulated relative humidity percentage.
func (s *SimulatedClimateSensor) ReadHumidity() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 40.0 + s.rng.Float64()*40.0, nil // 40–80 %
}

// SimulatedMoistureSensor produces pseudo-random soil moisture readings.
type SimulatedMoistureSensor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedMoistureSensor creates a moisture sensor driver seeded with seed.
func NewSimulatedMoistureSensor(seed int64) *SimulatedMoistureSensor {
	return &SimulatedMoistureSensor{rng: rand.New(rand.NewSource(seed))}
}

// ReadMoisture returns a simulated soil moisture percentage.
func (s *SimulatedMoistureSensor) ReadMoisture() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * 100.0, nil // 0–100 %
}

// SimulatedOutput records the last value written to a digital output.
type SimulatedOutput struct {
	mu sync.Mutex
	on bool
}

// NewSimulatedOutput creates a digital output driver, initially off.
func NewSimulatedOutput() *SimulatedOutput {
	return &SimulatedOutput{}
}

// Write sets the simulated output level.
func (o *SimulatedOutput) Write(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.on = on
}

// On reports the last written output level.
func (o *SimulatedOutput) On() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.on
}
