// Package mqtt forwards run progress events to an MQTT broker so
// dashboards and other consumers can follow long runs without polling.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sudhish-rithvik/transport-optimizer/core/events"
	"github.com/sudhish-rithvik/transport-optimizer/infra/logger"
	"github.com/sudhish-rithvik/transport-optimizer/internal/eventbus"
)

// Config defines the connection parameters for the progress publisher.
type Config struct {
	Enabled        bool   `json:"enabled"`
	Broker         string `json:"broker"`
	ClientID       string `json:"client_id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Topic          string `json:"topic"`
	QoS            byte   `json:"qos"`
	ConnectTimeout int    `json:"connect_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "transport-optimizer"
	}
	if c.Topic == "" {
		c.Topic = "optimizer/progress"
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when enabled")
	}
	return nil
}

type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// ProgressPublisher publishes run and generation events as JSON.
type ProgressPublisher struct {
	cli   pahoClient
	topic string
	qos   byte
	log   logger.Logger
}

// NewProgressPublisher connects to the broker.
func NewProgressPublisher(cfg Config) (*ProgressPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeout) * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &ProgressPublisher{
		cli:   cli,
		topic: cfg.Topic,
		qos:   cfg.QoS,
		log:   logger.New("mqtt-progress"),
	}, nil
}

// Publish sends one event to the progress topic. Publishing is
// fire-and-forget; a failed token is reported but not retried.
func (p *ProgressPublisher) Publish(ev any) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	token := p.cli.Publish(p.topic, p.qos, false, b)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", token.Error())
	}
	return nil
}

// Forward subscribes to the bus and publishes run progress events until
// the context is cancelled or the bus closes.
func (p *ProgressPublisher) Forward(ctx context.Context, bus eventbus.EventBus) {
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			switch ev.(type) {
			case events.RunStartedEvent, events.GenerationEvent, events.RunCompletedEvent:
				if err := p.Publish(ev); err != nil {
					p.log.Errorf("progress publish: %v", err)
				}
			}
		}
	}
}

// Close disconnects from the broker.
func (p *ProgressPublisher) Close() {
	p.cli.Disconnect(250)
}
