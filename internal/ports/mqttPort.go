package ports

import "context"

// MqttPort describes the broker connection the simulation controller
// drives : connect with a bounded wait, per-call publish results, no
// retry policy at this layer.
type MqttPort interface {
	// Connect initiates the MQTT session and waits for the connection
	// to come up, bounded by the configured connect timeout. It never
	// blocks indefinitely.
	Connect(ctx context.Context) bool

	// Publish sends one payload and reports per-call success. Failures
	// are not retried here.
	Publish(ctx context.Context, topic string, payload []byte, qos byte) bool

	// Subscribe registers a subscription on the live session.
	Subscribe(ctx context.Context, topic string, qos byte) bool

	// Disconnect tears the session down. Safe to call when not connected.
	Disconnect(ctx context.Context)

	// IsConnected reports the connection flag maintained by the
	// transport callbacks.
	IsConnected() bool
}
