package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	complete bool
	err      error
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mqtt.Client
	token        *fakeToken
	messages     []published
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublish(t *testing.T) {
	client := &fakeClient{token: &fakeToken{complete: true}}
	pub := NewMQTTPublisherWithClient(client, "")

	loadedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Publish(ReloadEvent{Version: "abc123", Facilities: 5, Wards: 4, LoadedAt: loadedAt}))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, DefaultTopic, msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var ev ReloadEvent
	require.NoError(t, json.Unmarshal(msg.payload, &ev))
	assert.Equal(t, ReloadEvent{Type: "datasets_reloaded", Version: "abc123", Facilities: 5, Wards: 4, LoadedAt: loadedAt}, ev)

	pub.Close()
	assert.True(t, client.disconnected)
}

func TestPublishTimeout(t *testing.T) {
	pub := NewMQTTPublisherWithClient(&fakeClient{token: &fakeToken{}}, "custom/topic")
	err := pub.Publish(ReloadEvent{Version: "abc123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom/topic")
}

func TestPublishError(t *testing.T) {
	brokerErr := errors.New("not authorized")
	pub := NewMQTTPublisherWithClient(&fakeClient{token: &fakeToken{complete: true, err: brokerErr}}, "")
	assert.ErrorIs(t, pub.Publish(ReloadEvent{}), brokerErr)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(ReloadEvent{Version: "x"}))
	p.Close()
}
