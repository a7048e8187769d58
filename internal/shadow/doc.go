// Package shadow synchronizes the appliance with its thing shadow.
//
// The service owns all MQTT traffic for the appliance: it publishes reported
// state to the shadow update topic, publishes sensor measurements, and routes
// inbound delta and command messages into the shared device state.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                        Shadow Service                             │
//	│                                                                   │
//	│  transport goroutines          scheduler goroutine                │
//	│  ┌─────────────────┐   queue   ┌──────────────────────────────┐   │
//	│  │ enqueue()       │──────────▶│ Loop() → HandleCallback()    │   │
//	│  │ (subscription   │  chan 32  │  • delta → thresholds        │   │
//	│  │  callbacks)     │           │  • command → actuators       │   │
//	│  └─────────────────┘           └──────────────────────────────┘   │
//	│                                                                   │
//	│  PublishShadowUpdate()          PublishSensorsMeasurements()      │
//	│  reported state → shadow        sensors → measurements topic      │
//	│                                 fan-out: SQLite + InfluxDB        │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Connection Ownership
//
// The service never reconnects on its own. Connect performs exactly one
// handshake attempt; the orchestration layer's service-loop task calls it
// again on a later tick after a failure or a lost connection. This keeps
// retry policy in one visible place instead of inside the transport.
//
// # Concurrency
//
// Subscription callbacks run on the transport's goroutines and only enqueue.
// Loop drains the queue from the scheduler goroutine, so every state
// mutation is serialized with task execution. Disconnected publishes are
// dropped, not queued; the reconnect announce republishes full state.
package shadow
