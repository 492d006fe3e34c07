// internal/publisher/publisher.go

// Package publisher publishes the acquisition stream to an MQTT broker.
package publisher

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/modbus-instrument/internal/config"
	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/poller"
)

// tokenPublisher is the subset of pahomqtt.Client used for publishing.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Publisher is a poller.Sink that publishes each completed frame as JSON
// and the stream start/end as retained state.
type Publisher struct {
	client tokenPublisher
	closer func()
	qos    byte
	prefix string
	log    *logging.Logger

	mu      sync.Mutex
	pending *FramePayload

	// frames still waiting for the broker; bounded by maxInflight
	inflight    atomic.Int32
	maxInflight int32
}

// Connect dials the broker and returns a publisher for one instrument.
func Connect(cfg config.MQTTConfig, inst *device.Instance, log *logging.Logger) (*Publisher, error) {
	id := inst.Identity()
	c := pahomqtt.NewClient(buildClientOptions(cfg, id.Serial))

	token := c.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	p := newPublisher(c, cfg, log)
	p.closer = func() { c.Disconnect(defaultDisconnectQuiesce) }
	return p, nil
}

func newPublisher(c tokenPublisher, cfg config.MQTTConfig, log *logging.Logger) *Publisher {
	if log == nil {
		log = logging.Discard()
	}
	return &Publisher{
		client: c,
		qos:    byte(cfg.QoS),
		prefix: cfg.TopicPrefix,
		log:    log.With("component", "mqtt"),

		maxInflight: defaultMaxInflightFrames,
	}
}

// Close disconnects from the broker. The state topic keeps the last
// retained state.
func (p *Publisher) Close() error {
	if p.closer != nil {
		p.closer()
	}
	return nil
}

// Send implements poller.Sink.
func (p *Publisher) Send(pkt poller.Packet) error {
	if pkt.Device == nil {
		return nil
	}
	id := pkt.Device.Identity()

	p.mu.Lock()
	defer p.mu.Unlock()

	switch pkt.Type {
	case poller.PacketHeader:
		return p.publish(StateTopic(p.prefix, id.Serial), true, statePayload(StateRunning, id.Model, pkt.At))

	case poller.PacketFrameBegin:
		p.pending = &FramePayload{Model: id.Model, Serial: id.Serial, Timestamp: pkt.At.UTC()}

	case poller.PacketAnalog:
		if p.pending != nil && pkt.Analog != nil && pkt.Analog.Channel != nil {
			p.pending.Channels = append(p.pending.Channels, channelValue(pkt.Analog))
		}

	case poller.PacketFrameEnd:
		if p.pending == nil {
			return nil
		}
		frame := p.pending
		p.pending = nil

		b, err := json.Marshal(frame)
		if err != nil {
			return fmt.Errorf("%w: encode frame: %w", ErrPublishFailed, err)
		}
		return p.publishFrame(FrameTopic(p.prefix, id.Serial), b)

	case poller.PacketEnd:
		p.pending = nil
		return p.publish(StateTopic(p.prefix, id.Serial), true, statePayload(StateStopped, id.Model, pkt.At))
	}
	return nil
}

// publishFrame runs inside the poll tick and never waits for the broker.
// A token that already failed is reported at once; otherwise the outcome
// is logged from a watcher. With maxInflight frames outstanding the frame
// is dropped.
func (p *Publisher) publishFrame(topic string, payload []byte) error {
	if p.inflight.Load() >= p.maxInflight {
		return fmt.Errorf("%w: %s: %d frames awaiting broker", ErrPublishFailed, topic, p.maxInflight)
	}

	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
		}
		return nil
	default:
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Add(-1)
		if !token.WaitTimeout(defaultPublishTimeout) {
			p.log.Warn("frame publish timed out", "topic", topic, "timeout", defaultPublishTimeout)
			return
		}
		if err := token.Error(); err != nil {
			p.log.Warn("frame publish failed", "topic", topic, "error", err)
		}
	}()
	return nil
}

// publish waits for the broker. Used for the rare retained state messages.
func (p *Publisher) publish(topic string, retained bool, payload []byte) error {
	token := p.client.Publish(topic, p.qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrPublishFailed, topic, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	p.log.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}
