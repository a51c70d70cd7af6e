package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTopic   = "phcfinder/datasets"
	publishTimeout = 5 * time.Second
)

// ReloadEvent announces that a new dataset snapshot is being served.
type ReloadEvent struct {
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	Facilities int       `json:"facilities"`
	Wards      int       `json:"wards"`
	LoadedAt   time.Time `json:"loaded_at"`
}

type Publisher interface {
	Publish(ev ReloadEvent) error
	Close()
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ReloadEvent) error { return nil }
func (Nop) Close()                    {}

type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("Connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

func NewMQTTPublisher(brokerURL, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return NewMQTTPublisherWithClient(client, topic), nil
}

func NewMQTTPublisherWithClient(client mqtt.Client, topic string) *MQTTPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{client: client, topic: topic}
}

// Publish sends ev as a retained message so late subscribers see the
// version currently served.
func (p *MQTTPublisher) Publish(ev ReloadEvent) error {
	if ev.Type == "" {
		ev.Type = "datasets_reloaded"
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	log.Info().Str("topic", p.topic).Str("version", ev.Version).Msg("reload event published")
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
	log.Info().Msg("MQTT client disconnected")
}
