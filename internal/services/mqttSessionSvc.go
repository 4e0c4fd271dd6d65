package services

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/component"
	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	mqtt "github.com/eclipse/paho.golang/paho"
	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

// connectPollStep is how often Connect re-checks the connection flag
// while waiting for the broker handshake.
const connectPollStep = 100 * time.Millisecond

// MqttSessionSvc wraps an autopaho connection manager behind the
// MqttPort interface. The connected flag is flipped by the transport
// callbacks from their own goroutine and read by Connect's poll and by
// status queries; it is the only state shared across contexts outside
// the controller's mutex, hence the atomic.
type MqttSessionSvc struct {
	Log         *logrus.Logger
	MqttConfigs *component.MQTTConfig
	MqttClient  *autopaho.ConnectionManager

	connected atomic.Bool
	cancel    context.CancelFunc
}

func NewMqttSessionSvc(log *logrus.Logger, mqttConfigs *component.MQTTConfig) *MqttSessionSvc {
	return &MqttSessionSvc{Log: log, MqttConfigs: mqttConfigs}
}

// Connect initiates the MQTT session and busy-polls the connection flag
// until it flips or the connect timeout elapses. The underlying
// transport is callback-driven, so completion is never synchronous.
func (m *MqttSessionSvc) Connect(ctx context.Context) bool {
	if m.MqttClient != nil {
		m.Log.Warnln("MQTT session already exists 🔔")
		return m.connected.Load()
	}

	m.Log.Debugln("Setting up an MQTT client options 🔔")

	connectTimeout, err := time.ParseDuration(m.MqttConfigs.ConnectTimeout)
	if err != nil {
		m.Log.Errorf("Unable to parse connect timeout duration string: %v ⛔", err)
		return false
	}

	srvURL, err := url.Parse(m.MqttConfigs.URL)
	if err != nil {
		m.Log.Errorf("Unable to parse server URL [%s] : %v ⛔", m.MqttConfigs.URL, err)
		return false
	}

	var cliId string
	if m.MqttConfigs.ClientID != "" {
		cliId = m.MqttConfigs.ClientID
	} else {
		cliId, err = nanoid.New()
		if err != nil {
			m.Log.Errorln("Unable to auto-generate client id ⛔")
			return false
		}
		cliId = "IoTSimulatorMQTT::" + cliId
	}

	cliCfg := autopaho.ClientConfig{
		BrokerUrls:        []*url.URL{srvURL},
		KeepAlive:         m.MqttConfigs.KeepAlive,
		ConnectRetryDelay: time.Duration(m.MqttConfigs.ConnectRetry) * time.Second,
		ConnectTimeout:    connectTimeout,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, c *mqtt.Connack) {
			m.connected.Store(true)
			m.Log.Infoln("MQTT connection up ✅")
		},
		OnConnectError: func(err error) {
			m.Log.Errorf("Error whilst attempting connection %s ⛔\n", err)
		},
		// TODO : TlsConfig
		ClientConfig: paho.ClientConfig{
			ClientID: cliId,

			OnClientError: func(err error) {
				m.connected.Store(false)
				m.Log.Errorf("Client error, connection lost: %s ⛔\n", err)
			},
			OnServerDisconnect: func(d *mqtt.Disconnect) {
				m.connected.Store(false)
				if d.Properties != nil {
					m.Log.Errorf("Server requested disconnect: %s ⛔\n", d.Properties.ReasonString)
				} else {
					m.Log.Errorf("Server requested disconnect; reason code : %d ⛔\n", d.ReasonCode)
				}
			},
		},
	}

	if m.MqttConfigs.User != "" {
		cliCfg.SetUsernamePassword(m.MqttConfigs.User, []byte(m.MqttConfigs.Password))
	}

	// Connect to the broker - this returns immediately after initiating
	// the connection process.
	m.Log.Infof("Trying to establish an MQTT Session to %v 🔔\n", cliCfg.BrokerUrls)
	sessionCtx, cancel := context.WithCancel(context.Background())
	cm, err := autopaho.NewConnection(sessionCtx, cliCfg)
	if err != nil {
		m.Log.Errorf("Failed to initiate the MQTT connection : %v ⛔\n", err)
		cancel()
		return false
	}
	m.MqttClient = cm
	m.cancel = cancel

	// Wait for the OnConnectionUp callback, bounded by the timeout.
	deadline := time.Now().Add(connectTimeout)
	for !m.connected.Load() {
		if time.Now().After(deadline) {
			m.Log.Errorln("Timed out waiting for the MQTT connection ⛔")
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(connectPollStep):
		}
	}
	return true
}

// Publish sends one payload and reports per-call success. Retrying on
// failure is the caller's business.
func (m *MqttSessionSvc) Publish(ctx context.Context, topic string, payload []byte, qos byte) bool {
	if m.MqttClient == nil {
		m.Log.Errorln("Publish requested without an MQTT session ⛔")
		return false
	}
	_, err := m.MqttClient.Publish(ctx, &paho.Publish{
		QoS:     qos,
		Topic:   topic,
		Payload: payload,
	})
	if err != nil {
		m.Log.WithFields(logrus.Fields{
			"Topic": topic,
			"Err":   err,
		}).Warnln("Couldn't publish message to the broker 🔔")
		return false
	}
	return true
}

func (m *MqttSessionSvc) Subscribe(ctx context.Context, topic string, qos byte) bool {
	if m.MqttClient == nil {
		m.Log.Errorln("Subscribe requested without an MQTT session ⛔")
		return false
	}
	_, err := m.MqttClient.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: map[string]paho.SubscribeOptions{
			topic: {QoS: qos},
		},
	})
	if err != nil {
		m.Log.WithFields(logrus.Fields{
			"Topic": topic,
			"Err":   err,
		}).Warnln("Couldn't subscribe to topic 🔔")
		return false
	}
	m.Log.WithField("Topic", topic).Infoln("Subscribed to topic ✅")
	return true
}

// Disconnect closes the MQTT session. Safe to call when no session was
// ever established.
func (m *MqttSessionSvc) Disconnect(ctx context.Context) {
	m.Log.Debugln("Closing MQTT connection.. 🔔")
	if m.MqttClient != nil {
		if err := m.MqttClient.Disconnect(ctx); err == nil {
			m.Log.Infoln("MQTT connection closed ✅")
		}
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.connected.Store(false)
}

func (m *MqttSessionSvc) IsConnected() bool {
	return m.connected.Load()
}
