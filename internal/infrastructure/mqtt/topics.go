package mqtt

import "fmt"

// Topic prefixes for the appliance's MQTT traffic.
//
// Shadow topics follow the AWS IoT Device Shadow scheme
// ($aws/things/{thing}/shadow/...); appliance-owned topics live under the
// happyherbs/ prefix.
const (
	// TopicPrefixShadow is the base for thing shadow topics.
	TopicPrefixShadow = "$aws/things"

	// TopicPrefixAppliance is the base for appliance-owned topics.
	TopicPrefixAppliance = "happyherbs"

	// TopicSuffixShadowDelta identifies shadow delta messages during routing.
	TopicSuffixShadowDelta = "/shadow/update/delta"

	// TopicSuffixCommands identifies manual actuator override messages.
	TopicSuffixCommands = "/commands"
)

// Topics provides builders for the appliance's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	updateTopic := topics.ShadowUpdate("happy-herbs-01")
//	// Returns: "$aws/things/happy-herbs-01/shadow/update"
type Topics struct{}

// ShadowUpdate returns the topic for publishing reported shadow state.
//
// Example: $aws/things/happy-herbs-01/shadow/update
func (Topics) ShadowUpdate(thing string) string {
	return fmt.Sprintf("%s/%s/shadow/update", TopicPrefixShadow, thing)
}

// ShadowUpdateDelta returns the topic carrying desired-state deltas from the
// shadow service (threshold changes made remotely).
//
// Example: $aws/things/happy-herbs-01/shadow/update/delta
func (Topics) ShadowUpdateDelta(thing string) string {
	return fmt.Sprintf("%s/%s%s", TopicPrefixShadow, thing, TopicSuffixShadowDelta)
}

// Measurements returns the topic for sensor measurement documents.
//
// Example: happyherbs/happy-herbs-01/measurements
func (Topics) Measurements(thing string) string {
	return fmt.Sprintf("%s/%s/measurements", TopicPrefixAppliance, thing)
}

// Commands returns the topic for manual actuator overrides.
//
// Example: happyherbs/happy-herbs-01/commands
func (Topics) Commands(thing string) string {
	return fmt.Sprintf("%s/%s%s", TopicPrefixAppliance, thing, TopicSuffixCommands)
}

// Status returns the topic for the appliance's online/offline status (LWT).
//
// Example: happyherbs/happy-herbs-01/status
func (Topics) Status(thing string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixAppliance, thing)
}
