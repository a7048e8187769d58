// Package garden wires the appliance's behavior as a task graph.
//
// Seven tasks encode everything the appliance does. The service loop owns
// connection maintenance and inbound traffic; two gated one-shots publish the
// shadow document and the measurement document; the periodic, watering, and
// lighting tasks drive them.
//
//	ServiceLoop ──connect──▶ ShadowUpdate (delayed announce)
//	PeriodicSensorsPublish ──▶ SensorsPublish
//	MoistureCheck ──below threshold──▶ WaterPump ──on/off──▶ ShadowUpdate
//	LightCheck ──▶ lamp, ShadowUpdate
//
// # State Machine
//
// Disconnected → ServiceLoop attempts connect each tick → Connected →
// delayed ShadowUpdate announces presence → steady-state periodic checks.
// A lost connection falls back to the first state on the next tick; nothing
// here is fatal and nothing retries faster than the tick interval.
//
// # Actuator Lifetimes
//
// The water pump's run time is the WaterPump task's lifetime: the enable
// hook turns the pump on and the one-shot expiry turns it off through the
// disable hook. Idempotent disable guarantees the off-write fires exactly
// once per activation, however the task was started or stopped.
package garden
