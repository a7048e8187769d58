package mqtt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
)

func TestTopics_Builders(t *testing.T) {
	topics := Topics{}
	thing := "happy-herbs-01"

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"shadow update", topics.ShadowUpdate(thing), "$aws/things/happy-herbs-01/shadow/update"},
		{"shadow delta", topics.ShadowUpdateDelta(thing), "$aws/things/happy-herbs-01/shadow/update/delta"},
		{"measurements", topics.Measurements(thing), "happyherbs/happy-herbs-01/measurements"},
		{"commands", topics.Commands(thing), "happyherbs/happy-herbs-01/commands"},
		{"status", topics.Status(thing), "happyherbs/happy-herbs-01/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopics_SuffixesMatchBuilders(t *testing.T) {
	// Routing in the shadow service matches on these suffixes, so the
	// builders and the suffix constants must stay in sync.
	topics := Topics{}
	if !strings.HasSuffix(topics.ShadowUpdateDelta("x"), TopicSuffixShadowDelta) {
		t.Errorf("ShadowUpdateDelta does not end with %q", TopicSuffixShadowDelta)
	}
	if !strings.HasSuffix(topics.Commands("x"), TopicSuffixCommands) {
		t.Errorf("Commands does not end with %q", TopicSuffixCommands)
	}
}

func TestBuildClientOptions_PlainTCP(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "herbs"},
		QoS:    1,
	}

	opts, err := buildClientOptions(cfg)
	if err != nil {
		t.Fatalf("buildClientOptions() error = %v", err)
	}

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker URL, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://localhost:1883" {
		t.Errorf("broker URL = %q, want %q", got, "tcp://localhost:1883")
	}
	if opts.AutoReconnect {
		t.Error("AutoReconnect should be disabled; reconnection belongs to the service loop")
	}
	if opts.ConnectRetry {
		t.Error("ConnectRetry should be disabled; reconnection belongs to the service loop")
	}
	if !opts.CleanSession {
		t.Error("CleanSession should be enabled")
	}
}

func TestBuildClientOptions_TLSMissingCert(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker", Port: 8883, ClientID: "herbs"},
		TLS: config.MQTTTLSConfig{
			Enabled:  true,
			CertFile: "/nonexistent/cert.pem",
			KeyFile:  "/nonexistent/key.pem",
		},
	}

	_, err := buildClientOptions(cfg)
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("buildClientOptions() error = %v, want ErrBadCredentials", err)
	}
}

func TestBuildTLSConfig_InvalidCA(t *testing.T) {
	tmpDir := t.TempDir()
	caPath := filepath.Join(tmpDir, "ca.pem")
	if err := os.WriteFile(caPath, []byte("not a certificate"), 0600); err != nil {
		t.Fatalf("writing CA file: %v", err)
	}

	_, err := buildTLSConfig(config.MQTTTLSConfig{Enabled: true, CAFile: caPath})
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("buildTLSConfig() error = %v, want ErrBadCredentials", err)
	}
}

func TestNewClient_WillMatchesStatusTopic(t *testing.T) {
	// The MQTT client ID and the thing name are independent settings. The
	// broker-published will must land on the thing-keyed status topic, where
	// it replaces the retained online status after a crash. A will keyed by
	// the client ID would leave the appliance looking online forever.
	thing := "happy-herbs-01"
	client, err := NewClient(config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "happyherbs"},
	}, thing)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	want := Topics{}.Status(thing)
	if got := client.options.WillTopic; got != want {
		t.Errorf("WillTopic = %q, want %q", got, want)
	}
	if !client.options.WillEnabled {
		t.Error("will not enabled")
	}
	if !client.options.WillRetained {
		t.Error("will must be retained to replace the retained online status")
	}
	if client.options.WillQos != 1 {
		t.Errorf("WillQos = %d, want 1", client.options.WillQos)
	}
	if !strings.Contains(string(client.options.WillPayload), `"status":"offline"`) {
		t.Errorf("will payload %q does not report offline status", client.options.WillPayload)
	}
}

func TestPublish_Validation(t *testing.T) {
	client, err := NewClient(config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "herbs"},
	}, "herbs")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if err := client.Publish("", []byte("{}"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Publish("a/b", []byte("{}"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos: error = %v, want ErrInvalidQoS", err)
	}
	// Not connected: publish must fail fast rather than queue.
	if err := client.Publish("a/b", []byte("{}"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected publish: error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	client, err := NewClient(config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "herbs"},
	}, "herbs")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	handler := func(string, []byte) error { return nil }

	if err := client.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("a/b", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: error = %v, want ErrSubscribeFailed", err)
	}
	if err := client.Subscribe("a/b", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected subscribe: error = %v, want ErrNotConnected", err)
	}
}
