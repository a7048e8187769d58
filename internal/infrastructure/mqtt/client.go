package mqtt

import (
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/letung3105/serverless-iot-esp32/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for the appliance's shadow traffic.
//
// Unlike a typical long-lived service client, this client never reconnects on
// its own: paho auto-reconnect and connect-retry are disabled. The appliance's
// service-loop task owns reconnection, so that every task that depends on
// connectivity is gated by one explicit state machine rather than a background
// goroutine racing it.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Paho invokes message handlers
//     on its own goroutines; callers that need serialized execution must queue
//     inbound messages themselves (the shadow service does).
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     config.MQTTConfig

	// onConnectionLost is invoked when an established connection drops.
	onConnectionLost func(err error)
	callbackMu       sync.RWMutex

	// logger for handler error/panic logging (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger is the interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// MessageHandler is the callback signature for received messages.
//
// Handlers are invoked in separate goroutines by the paho library.
// They should not block for extended periods.
//
// Parameters:
//   - topic: The topic the message was received on (wildcards expanded)
//   - payload: The raw message payload (typically JSON)
//
// Returns:
//   - error: Logged but does not affect message acknowledgment
type MessageHandler func(topic string, payload []byte) error

// NewClient creates a client configured for the broker but does not connect.
//
// Connection is deferred so the caller (the service-loop task) decides when
// handshakes happen and how failures are retried.
//
// The last-will message is keyed by the thing name, not the MQTT client ID:
// it must land on the same status topic as the retained online status the
// shadow service publishes, or a crash leaves the stale online status in
// place forever.
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//   - thing: Thing name identifying the appliance on the status topic
//
// Returns:
//   - *Client: Client ready for Connect
//   - error: If transport credentials cannot be loaded
func NewClient(cfg config.MQTTConfig, thing string) (*Client, error) {
	opts, err := buildClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	configureLWT(opts, thing)

	c := &Client{
		cfg:     cfg,
		options: opts,
	}

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, lostErr error) {
		c.callbackMu.RLock()
		callback := c.onConnectionLost
		c.callbackMu.RUnlock()
		if callback != nil {
			callback(lostErr)
		}
	})

	c.client = pahomqtt.NewClient(opts)
	return c, nil
}

// Connect performs a single broker handshake attempt.
//
// There is no internal retry: a failed handshake leaves the client
// disconnected and returns an error for the caller to act on. Because the
// session is clean, subscriptions must be re-established after every
// successful Connect.
//
// Returns:
//   - error: nil on success, or wrapped ErrConnectionFailed
func (c *Client) Connect() error {
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return nil
}

// Disconnect closes the connection, waiting briefly for pending operations.
// Safe to call when already disconnected.
func (c *Client) Disconnect() {
	if c.client == nil {
		return
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
}

// IsConnected reports whether the transport currently holds a live connection.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// SetOnConnectionLost sets a callback invoked when an established connection
// drops. The callback runs on a paho goroutine; it must not block.
func (c *Client) SetOnConnectionLost(callback func(err error)) {
	c.callbackMu.Lock()
	c.onConnectionLost = callback
	c.callbackMu.Unlock()
}

// SetLogger sets a logger for handler error and panic logging.
// If not set, errors in handlers are silently ignored.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// wrapHandler wraps a MessageHandler with panic recovery and optional logging.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.getLogger(); logger != nil {
					logger.Error("MQTT handler panic recovered",
						"topic", msg.Topic(),
						"panic", r,
					)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("MQTT handler returned error",
					"topic", msg.Topic(),
					"error", err,
				)
			}
		}
	}
}
