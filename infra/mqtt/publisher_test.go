package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sudhish-rithvik/transport-optimizer/core/events"
	"github.com/sudhish-rithvik/transport-optimizer/internal/eventbus"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	mu        sync.Mutex
	connected bool
	published []struct {
		topic   string
		payload []byte
	}
}

func (c *fakeClient) Connect() paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, struct {
		topic   string
		payload []byte
	}{topic, append([]byte(nil), payload.([]byte)...)})
	return &fakeToken{}
}

func (c *fakeClient) publishedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

func withFakeClient(t *testing.T, cli pahoClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestConfigValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.ClientID != "transport-optimizer" || c.Topic != "optimizer/progress" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("disabled config must validate: %v", err)
	}
	c.Enabled = true
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing broker")
	}
	c.Broker = "tcp://localhost:1883"
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestPublishEncodesJSON(t *testing.T) {
	cli := &fakeClient{}
	withFakeClient(t, cli)

	pub, err := NewProgressPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	ev := events.GenerationEvent{RunID: "run-1", Generation: 4, FrontSize: 7}
	if err := pub.Publish(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(cli.published) != 1 {
		t.Fatalf("expected 1 publish got %d", len(cli.published))
	}
	if cli.published[0].topic != "optimizer/progress" {
		t.Fatalf("unexpected topic %q", cli.published[0].topic)
	}
	var got events.GenerationEvent
	if err := json.Unmarshal(cli.published[0].payload, &got); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if got.RunID != "run-1" || got.Generation != 4 || got.FrontSize != 7 {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestForwardPublishesBusEvents(t *testing.T) {
	cli := &fakeClient{}
	withFakeClient(t, cli)

	pub, err := NewProgressPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pub.Forward(ctx, bus)
		close(done)
	}()
	// Give the forwarder time to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	bus.Publish(events.RunStartedEvent{RunID: "run-1"})
	bus.Publish("not an optimizer event")
	bus.Publish(events.RunCompletedEvent{RunID: "run-1"})

	deadline := time.After(time.Second)
	for cli.publishedCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 forwarded events, got %d", cli.publishedCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
	if cli.publishedCount() != 2 {
		t.Fatalf("unknown event types must be skipped, got %d publishes", cli.publishedCount())
	}
}
