package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/component"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/ports"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/sirupsen/logrus"
)

// Phase is the lifecycle controller's current state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseStopping
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	default:
		return "idle"
	}
}

const (
	// DefaultInterval is used when a start request leaves the
	// publishing interval unset.
	DefaultInterval = 5 * time.Second

	// stopJoinTimeout bounds how long Stop waits for the publish loop
	// to observe the cancellation signal.
	stopJoinTimeout = 5 * time.Second

	// disconnectTimeout bounds the broker teardown.
	disconnectTimeout = 3 * time.Second
)

// SimulationConfig is one start request as seen by the controller.
type SimulationConfig struct {
	MQTT    *component.MQTTConfig
	Profile string
	Params  map[string]any
	// Topic, when set, fully replaces the profile-derived topic for the
	// lifetime of the simulation.
	Topic    string
	Interval time.Duration
	// Duration zero means run until stopped.
	Duration time.Duration
}

// StatusSnapshot is a consistent read-only view of the simulation state.
type StatusSnapshot struct {
	IsRunning    bool
	IsConnected  bool
	ProfileName  string
	Topic        string
	Interval     time.Duration
	MessagesSent int64
	StartTime    time.Time
	LastReading  simulators.Reading
}

// SessionFactory builds broker sessions; tests substitute a fake.
type SessionFactory func(log *logrus.Logger, cfg *component.MQTTConfig) ports.MqttPort

// SimulationSvc owns the single allowed simulation. State transitions
// (Start, Stop, the loop's own terminal cleanup) are serialized by opMu;
// the state fields themselves are guarded by mu, held only briefly so
// Status stays responsive while Start is waiting on the broker.
//
// The design deliberately supports one simulation at a time : one broker
// connection, one publish loop, a state machine that stays auditable.
type SimulationSvc struct {
	log        *logrus.Logger
	registry   *simulators.Registry
	history    *HistorySvc
	monitor    *Monitor
	newSession SessionFactory

	opMu sync.Mutex

	mu           sync.Mutex
	phase        Phase
	session      ports.MqttPort
	profile      simulators.Profile
	profileName  string
	topic        string
	interval     time.Duration
	duration     time.Duration
	startTime    time.Time
	messagesSent int64
	lastReading  simulators.Reading
	cancel       chan struct{}
	done         chan struct{}
}

func NewSimulationSvc(
	log *logrus.Logger,
	registry *simulators.Registry,
	history *HistorySvc,
	monitor *Monitor,
	newSession SessionFactory,
) *SimulationSvc {
	if newSession == nil {
		newSession = func(log *logrus.Logger, cfg *component.MQTTConfig) ports.MqttPort {
			return NewMqttSessionSvc(log, cfg)
		}
	}
	if history == nil {
		history = NewHistorySvc(DefaultHistorySize)
	}
	return &SimulationSvc{
		log:        log,
		registry:   registry,
		history:    history,
		monitor:    monitor,
		newSession: newSession,
		phase:      PhaseIdle,
	}
}

// History exposes the controller-owned message history for read access.
func (s *SimulationSvc) History() *HistorySvc {
	return s.history
}

// Start transitions Idle to Running. The profile name is validated
// before any connection attempt so a doomed request never pays the
// connect-timeout cost. On a failed handshake every partial piece is
// rolled back and the controller stays Idle.
func (s *SimulationSvc) Start(cfg SimulationConfig) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	running := s.phase != PhaseIdle
	s.mu.Unlock()
	if running {
		s.log.Warnln("Simulation is already running 🔔")
		return ErrAlreadyRunning
	}

	ctor, err := s.registry.Resolve(cfg.Profile)
	if err != nil {
		s.log.WithField("Profile", cfg.Profile).Errorf("%v ⛔\n", err)
		return err
	}
	profile := ctor(cfg.Params)

	topic := cfg.Topic
	if topic == "" {
		topic = profile.Topic()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	mqttCfg := cfg.MQTT
	if mqttCfg == nil {
		mqttCfg = component.NewMQTTConfig()
	}

	session := s.newSession(s.log, mqttCfg)
	connectCtx, cancelConnect := context.WithCancel(context.Background())
	defer cancelConnect()
	if !session.Connect(connectCtx) {
		s.log.Errorln("Failed to connect to the MQTT broker ⛔")
		disconnectCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		session.Disconnect(disconnectCtx)
		return ErrConnectFailed
	}

	cancelCh := make(chan struct{})
	doneCh := make(chan struct{})

	s.mu.Lock()
	s.phase = PhaseRunning
	s.session = session
	s.profile = profile
	s.profileName = cfg.Profile
	s.topic = topic
	s.interval = interval
	s.duration = cfg.Duration
	s.startTime = time.Now().UTC()
	s.messagesSent = 0
	s.lastReading = nil
	s.cancel = cancelCh
	s.done = doneCh
	s.mu.Unlock()

	if s.monitor != nil {
		s.monitor.SimulationRunning.Set(1)
	}

	s.log.WithFields(logrus.Fields{
		"Profile":  cfg.Profile,
		"Topic":    topic,
		"Interval": interval,
	}).Infoln("Simulation started ✅")

	go s.run(session, profile, topic, interval, cfg.Duration, mqttCfg.QoS, cancelCh, doneCh)
	return nil
}

// Stop transitions Running to Idle. Cancellation is cooperative : the
// loop is signalled, the broker session closed, and the loop joined with
// a bounded wait. The state is reset to Idle regardless of the join
// outcome, accepting that the loop's final tick may still complete.
func (s *SimulationSvc) Stop() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		s.log.Warnln("No simulation is currently running 🔔")
		return false
	}
	s.phase = PhaseStopping
	session := s.session
	cancelCh := s.cancel
	doneCh := s.done
	s.mu.Unlock()

	close(cancelCh)

	disconnectCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	session.Disconnect(disconnectCtx)

	select {
	case <-doneCh:
	case <-time.After(stopJoinTimeout):
		s.log.Warnln("Publish loop didn't exit in time, resetting state anyway 🔔")
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.log.Infoln("Simulation stopped ✅")
	return true
}

// Status returns a consistent snapshot; safe to call at any time,
// including concurrently with a running loop.
func (s *SimulationSvc) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := StatusSnapshot{
		IsRunning:    s.phase == PhaseRunning,
		ProfileName:  s.profileName,
		Topic:        s.topic,
		Interval:     s.interval,
		MessagesSent: s.messagesSent,
		StartTime:    s.startTime,
		LastReading:  s.lastReading,
	}
	if s.session != nil {
		snap.IsConnected = s.session.IsConnected()
	}
	return snap
}

// Data returns the history tail of at most limit entries plus the
// running simulation's total publish count.
func (s *SimulationSvc) Data(limit int) ([]Record, int64) {
	if limit <= 0 || limit > DefaultHistorySize {
		limit = DefaultHistorySize
	}
	s.mu.Lock()
	total := s.messagesSent
	s.mu.Unlock()
	return s.history.Tail(limit), total
}

// TestConnection performs a connect-then-disconnect round trip without
// touching any simulation state.
func (s *SimulationSvc) TestConnection(host string, port int, user, password string) bool {
	cfg := component.NewMQTTConfig()
	cfg.URL = fmt.Sprintf("tcp://%s:%d", host, port)
	cfg.User = user
	cfg.Password = password

	session := s.newSession(s.log, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	connected := session.Connect(ctx)
	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancelDisconnect()
	session.Disconnect(disconnectCtx)
	return connected
}

// run is the publish loop. It is the sole mutator of messages-sent,
// last-reading and history while the simulation is Running. Any panic
// is contained here and translated into a clean Idle transition.
func (s *SimulationSvc) run(
	session ports.MqttPort,
	profile simulators.Profile,
	topic string,
	interval, duration time.Duration,
	qos byte,
	cancelCh <-chan struct{},
	doneCh chan struct{},
) {
	defer close(doneCh)
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("Panic", r).Errorln("Simulation loop crashed, resetting to idle ⛔")
		}
		s.loopCleanup(doneCh)
	}()

	ctx := context.Background()
	start := time.Now()

	for {
		select {
		case <-cancelCh:
			return
		default:
		}

		if duration > 0 && time.Since(start) > duration {
			s.log.Infoln("Simulation duration reached, stopping.. 🔔")
			return
		}

		if session.IsConnected() {
			s.publishTick(ctx, session, profile, topic, qos, doneCh)
		}

		// Interruptible sleep so Stop is observed promptly.
		select {
		case <-cancelCh:
			return
		case <-time.After(interval):
		}
	}
}

func (s *SimulationSvc) publishTick(
	ctx context.Context,
	session ports.MqttPort,
	profile simulators.Profile,
	topic string,
	qos byte,
	doneCh chan struct{},
) {
	reading := profile.Generate()
	payload, err := json.Marshal(reading)
	if err != nil {
		s.log.WithField("Err", err).Warnln("Couldn't serialize reading 🔔")
		return
	}

	if !session.Publish(ctx, topic, payload, qos) {
		if s.monitor != nil {
			s.monitor.PublishFailures.Inc()
		}
		s.log.WithField("Topic", topic).Warnln("Publish failed, will retry next tick 🔔")
		return
	}

	s.mu.Lock()
	counted := s.phase == PhaseRunning && s.done == doneCh
	if counted {
		s.messagesSent++
		s.lastReading = reading
	}
	s.mu.Unlock()

	if counted {
		s.history.Append(Record{
			Timestamp: time.Now().UTC(),
			Topic:     topic,
			Payload:   reading,
		})
		if s.monitor != nil {
			s.monitor.MessagesPublished.Inc()
		}
		s.log.WithFields(logrus.Fields{
			"Topic": topic,
		}).Debugln("Reading published to the broker ✅")
	}
}

// loopCleanup handles the loop's own terminal transitions (duration
// expiry, fatal error). When Stop initiated the shutdown the phase is
// already Stopping and teardown belongs to Stop.
func (s *SimulationSvc) loopCleanup(doneCh chan struct{}) {
	s.mu.Lock()
	if s.phase != PhaseRunning || s.done != doneCh {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseStopping
	session := s.session
	s.mu.Unlock()

	disconnectCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	session.Disconnect(disconnectCtx)

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

// resetLocked returns every field to its Idle value. The publish
// counter is kept; it resets on the next transition into Running.
// Callers hold mu.
func (s *SimulationSvc) resetLocked() {
	s.phase = PhaseIdle
	s.session = nil
	s.profile = nil
	s.profileName = ""
	s.topic = ""
	s.interval = 0
	s.duration = 0
	s.startTime = time.Time{}
	s.lastReading = nil
	s.cancel = nil
	s.done = nil
	if s.monitor != nil {
		s.monitor.SimulationRunning.Set(0)
	}
}
