package device

import (
	"errors"
	"testing"
)

func newTestState(t *testing.T) (*State, *SimulatedOutput, *SimulatedOutput) {
	t.Helper()

	lamp := NewSimulatedOutput()
	pump := NewSimulatedOutput()
	state := NewState(StateOptions{
		Light:             NewSimulatedLightSensor(1),
		Climate:           NewSimulatedClimateSensor(2),
		Moisture:          NewSimulatedMoistureSensor(3),
		LampPin:           lamp,
		PumpPin:           pump,
		LightThreshold:    200,
		MoistureThreshold: 30,
	})
	return state, lamp, pump
}

func TestNewStateDrivesOutputsOff(t *testing.T) {
	state, lamp, pump := newTestState(t)

	if state.Lamp() {
		t.Error("expected lamp off after construction")
	}
	if state.Pump() {
		t.Error("expected pump off after construction")
	}
	if lamp.On() {
		t.Error("expected lamp pin driven low after construction")
	}
	if pump.On() {
		t.Error("expected pump pin driven low after construction")
	}
}

func TestWriteLampIsSynchronous(t *testing.T) {
	state, lamp, _ := newTestState(t)

	state.WriteLamp(true)

	if !state.Lamp() {
		t.Error("expected Lamp() to observe write immediately")
	}
	if !lamp.On() {
		t.Error("expected lamp pin driven high immediately")
	}

	state.WriteLamp(false)

	if state.Lamp() {
		t.Error("expected Lamp() to observe second write")
	}
	if lamp.On() {
		t.Error("expected lamp pin driven low")
	}
}

func TestWritePumpIsSynchronous(t *testing.T) {
	state, _, pump := newTestState(t)

	state.WritePump(true)

	if !state.Pump() {
		t.Error("expected Pump() to observe write immediately")
	}
	if !pump.On() {
		t.Error("expected pump pin driven high immediately")
	}
}

func TestThresholdAccessors(t *testing.T) {
	state, _, _ := newTestState(t)

	if got := state.LightThreshold(); got != 200 {
		t.Errorf("expected initial light threshold 200, got %v", got)
	}
	if got := state.MoistureThreshold(); got != 30 {
		t.Errorf("expected initial moisture threshold 30, got %v", got)
	}

	state.SetLightThreshold(450)
	state.SetMoistureThreshold(55)

	if got := state.LightThreshold(); got != 450 {
		t.Errorf("expected light threshold 450, got %v", got)
	}
	if got := state.MoistureThreshold(); got != 55 {
		t.Errorf("expected moisture threshold 55, got %v", got)
	}
}

func TestSnapshotIsConsistentCopy(t *testing.T) {
	state, _, _ := newTestState(t)

	state.WriteLamp(true)
	state.SetLightThreshold(300)

	snap := state.Snapshot()

	if !snap.Lamp {
		t.Error("expected snapshot lamp on")
	}
	if snap.Pump {
		t.Error("expected snapshot pump off")
	}
	if snap.LightThreshold != 300 {
		t.Errorf("expected snapshot light threshold 300, got %v", snap.LightThreshold)
	}
	if snap.MoistureThreshold != 30 {
		t.Errorf("expected snapshot moisture threshold 30, got %v", snap.MoistureThreshold)
	}

	// Mutating state afterwards must not change the snapshot.
	state.WriteLamp(false)
	if !snap.Lamp {
		t.Error("expected snapshot to be unaffected by later writes")
	}
}

func TestSensorReadsWithinRange(t *testing.T) {
	state, _, _ := newTestState(t)

	light, err := state.ReadLight()
	if err != nil {
		t.Fatalf("ReadLight: %v", err)
	}
	if light < 0 || light > 1000 {
		t.Errorf("light reading %v outside simulated range", light)
	}

	temp, err := state.ReadTemperature()
	if err != nil {
		t.Fatalf("ReadTemperature: %v", err)
	}
	if temp < 20 || temp > 35 {
		t.Errorf("temperature reading %v outside simulated range", temp)
	}

	humidity, err := state.ReadHumidity()
	if err != nil {
		t.Fatalf("ReadHumidity: %v", err)
	}
	if humidity < 40 || humidity > 80 {
		t.Errorf("humidity reading %v outside simulated range", humidity)
	}

	moisture, err := state.ReadMoisture()
	if err != nil {
		t.Fatalf("ReadMoisture: %v", err)
	}
	if moisture < 0 || moisture > 100 {
		t.Errorf("moisture reading %v outside simulated range", moisture)
	}
}

func TestMissingSensorReturnsErrNoSensor(t *testing.T) {
	state := NewState(StateOptions{
		LampPin: NewSimulatedOutput(),
		PumpPin: NewSimulatedOutput(),
	})

	if _, err := state.ReadLight(); !errors.Is(err, ErrNoSensor) {
		t.Errorf("ReadLight: expected ErrNoSensor, got %v", err)
	}
	if _, err := state.ReadTemperature(); !errors.Is(err, ErrNoSensor) {
		t.Errorf("ReadTemperature: expected ErrNoSensor, got %v", err)
	}
	if _, err := state.ReadHumidity(); !errors.Is(err, ErrNoSensor) {
		t.Errorf("ReadHumidity: expected ErrNoSensor, got %v", err)
	}
	if _, err := state.ReadMoisture(); !errors.Is(err, ErrNoSensor) {
		t.Errorf("ReadMoisture: expected ErrNoSensor, got %v", err)
	}
}
