package mqtt

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// bufferCapacity bounds how many press events are held while the
// broker is unreachable.
const bufferCapacity = 256

// RealSink publishes to an actual MQTT broker. Press events published
// while disconnected are buffered and replayed on reconnect; the
// oldest are dropped when the buffer fills.
type RealSink struct {
	client paho.Client
	cfg    Config
	bus    *events.Bus

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealSink starts the broker connection. The first attempt gets a
// bounded wait; a broker that is down at boot is not fatal because the
// client keeps retrying in the background and press events are
// buffered meanwhile. The last-will marks the daemon offline if the
// connection drops without a clean shutdown.
func NewRealSink(cfg Config, bus *events.Bus) (*RealSink, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "multibutton-" + strings.ToLower(cfg.Serial)
	}

	s := &RealSink{
		cfg: cfg,
		bus: bus,
		buf: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(AvailabilityTopic(cfg.BaseTopic), "offline", 1, true).
		SetOnConnectHandler(s.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("mqtt connection lost", "err", err)
		})

	client := paho.NewClient(opts)
	s.client = client

	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		// Retrying continues in the background; events queue up in the
		// buffer until the broker appears.
		slog.Warn("mqtt broker unreachable, retrying in background", "broker", cfg.Broker)
		return s, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return s, nil
}

// onConnect runs on every (re)connect: announce availability,
// republish discovery configs, resubscribe identify, replay anything
// buffered while offline.
func (s *RealSink) onConnect(client paho.Client) {
	slog.Info("mqtt connected", "broker", s.cfg.Broker)

	if err := s.send(AvailabilityTopic(s.cfg.BaseTopic), 1, true, []byte("online")); err != nil {
		slog.Warn("publish availability", "err", err)
	}
	s.publishDiscovery()
	s.subscribeIdentify(client)
	s.drainBuffer()
}

func (s *RealSink) subscribeIdentify(client paho.Client) {
	topic := IdentifyTopic(s.cfg.BaseTopic)
	token := client.Subscribe(topic, 1, func(_ paho.Client, _ paho.Message) {
		slog.Info("identify requested over mqtt")
		if s.bus != nil {
			s.bus.Publish(events.IdentifyRequestedEvent{Source: "mqtt"})
		}
	})
	if !token.WaitTimeout(5 * time.Second) {
		slog.Warn("subscribe identify timeout", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		slog.Warn("subscribe identify", "topic", topic, "err", err)
	}
}

func (s *RealSink) drainBuffer() {
	s.mu.Lock()
	msgs := s.buf.drainAll()
	s.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	slog.Info("replaying buffered events", "count", len(msgs))
	for _, m := range msgs {
		if err := s.send(m.topic, m.qos, m.retained, m.payload); err != nil {
			slog.Warn("replay buffered event", "topic", m.topic, "err", err)
		}
	}
}

// PublishSwitchEvent sends the press event to the unit's event topic
// and its plain name to the action topic for discovery triggers.
// While disconnected both messages are buffered for replay.
func (s *RealSink) PublishSwitchEvent(unitName string, ordinal, code int) error {
	payload, err := FormatSwitchPayload(time.Now(), unitName, ordinal, code)
	if err != nil {
		return fmt.Errorf("format switch payload: %w", err)
	}
	name, err := EventName(code)
	if err != nil {
		return err
	}

	if err := s.sendOrBuffer(EventTopic(s.cfg.BaseTopic, unitName), 0, false, payload); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := s.sendOrBuffer(ActionTopic(s.cfg.BaseTopic, unitName), 0, false, []byte(name)); err != nil {
		return fmt.Errorf("publish action: %w", err)
	}
	return nil
}

// PublishSystem sends a daemon lifecycle event to the MQTT broker.
// System events are not buffered; a failure is the caller's to log.
func (s *RealSink) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once), delivery matters for startup and shutdown
	if err := s.send(SystemTopic(s.cfg.BaseTopic), 1, event.Retained, payload); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

func (s *RealSink) sendOrBuffer(topic string, qos byte, retained bool, payload []byte) error {
	if !s.client.IsConnected() {
		s.mu.Lock()
		s.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		buffered := s.buf.len()
		s.mu.Unlock()
		slog.Debug("broker unreachable, buffered event", "topic", topic, "buffered", buffered)
		return nil
	}
	return s.send(topic, qos, retained, payload)
}

func (s *RealSink) send(topic string, qos byte, retained bool, payload []byte) error {
	token := s.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (s *RealSink) IsConnected() bool {
	return s.client.IsConnected()
}

// Close announces offline and disconnects. The explicit offline beats
// waiting out the broker's will timeout on a clean shutdown.
func (s *RealSink) Close() error {
	if s.client.IsConnected() {
		token := s.client.Publish(AvailabilityTopic(s.cfg.BaseTopic), 1, true, []byte("offline"))
		token.WaitTimeout(2 * time.Second)
	}
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}
