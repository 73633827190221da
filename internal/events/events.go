package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Event names published on the fleet topic.
const (
	TripDispatched    = "trip.dispatched"
	TripCompleted     = "trip.completed"
	TripCancelled     = "trip.cancelled"
	MaintenanceLogged = "maintenance.logged"
	DriverIncident    = "driver.incident"
)

// Publisher emits fleet lifecycle events for downstream consumers
// (dashboards, audit pipelines). Publishing is fire-and-forget: a broker
// outage never fails the API request that triggered the event.
type Publisher interface {
	Publish(event string, payload interface{})
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(string, interface{}) {}

// MQTTPublisher publishes fleet events to an MQTT broker.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(broker string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleetflow-api").
		SetConnectRetry(true).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}
	return &MQTTPublisher{client: client}, nil
}

type envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Publish emits the event on fleetflow/events/<event>. Failures are logged
// and dropped.
func (p *MQTTPublisher) Publish(event string, payload interface{}) {
	data, err := json.Marshal(envelope{
		Event:     event,
		Timestamp: time.Now(),
		Data:      payload,
	})
	if err != nil {
		log.WithError(err).WithField("event", event).Warn("failed to encode fleet event")
		return
	}
	p.client.Publish("fleetflow/events/"+event, 0, false, data)
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
