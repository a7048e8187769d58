// Package device models the appliance hardware for Happy Herbs.
//
// It holds the shared appliance state (actuator levels and actuation
// thresholds), the driver interfaces for sensors and outputs, simulated
// drivers for development hosts, and the local history of published sensor
// readings.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                          Device Layer                            │
//	│                                                                  │
//	│  ┌────────────────┐   ┌────────────────┐   ┌─────────────────┐  │
//	│  │     State      │   │    Drivers     │   │ Reading History │  │
//	│  │   (state.go)   │──▶│  (sensors.go)  │   │  (history.go)   │  │
//	│  │                │   │                │   │                 │  │
//	│  │ • Actuators    │   │ • LightSensor  │   │ • SQLite store  │  │
//	│  │ • Thresholds   │   │ • Climate      │   │ • Newest first  │  │
//	│  │ • Snapshot     │   │ • Moisture     │   │ • Pruning       │  │
//	│  └────────────────┘   │ • Output       │   └─────────────────┘  │
//	│                       └────────────────┘                        │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - State: Mutex-guarded appliance state shared between tasks and MQTT callbacks
//   - Snapshot: Point-in-time copy of the reported state for shadow publishes
//   - Reading: One recorded measurement set (light, temperature, humidity, moisture)
//   - ReadingRepository: Storage contract for reading history
//
// # Concurrency
//
// Task execution is serialized by the scheduler, but transport callbacks run
// on their own goroutines. All State access therefore goes through an
// RWMutex; callers never lock around it themselves.
//
// # Usage
//
//	state := device.NewState(device.StateOptions{
//	    Light:             device.NewSimulatedLightSensor(1),
//	    Climate:           device.NewSimulatedClimateSensor(2),
//	    Moisture:          device.NewSimulatedMoistureSensor(3),
//	    LampPin:           device.NewSimulatedOutput(),
//	    PumpPin:           device.NewSimulatedOutput(),
//	    LightThreshold:    200,
//	    MoistureThreshold: 30,
//	})
//
//	state.WriteLamp(true)
//	snap := state.Snapshot()
package device
