// Package mqtt provides the MQTT transport for the Happy Herbs appliance.
//
// This package manages:
//   - Explicit single-attempt broker handshakes (no internal retry)
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with panic-recovering handlers
//   - Mutual TLS for cloud shadow services
//   - Last Will and Testament (LWT) for offline detection
//
// # Connection Ownership
//
// Paho's auto-reconnect and connect-retry are disabled on purpose. The
// appliance's task graph drives connectivity: a service-loop task attempts
// Connect while disconnected and other tasks gate themselves on the resulting
// connection state. A transport that reconnects behind the scenes would make
// that gating unsound, so the transport never self-schedules reconnection.
//
// # Topics
//
// Shadow topics follow the AWS IoT Device Shadow scheme; measurement, command
// and status topics live under the happyherbs/ prefix. Use the Topics builders
// rather than formatting topic strings inline.
//
// # Usage
//
//	client, err := mqtt.NewClient(cfg.MQTT, cfg.Thing.Name)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Connect(); err != nil {
//	    // retry on a later service-loop tick
//	}
//	topic := mqtt.Topics{}.ShadowUpdate("happy-herbs-01")
//	client.Publish(topic, payload, 1, false)
package mqtt
