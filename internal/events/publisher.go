// internal/events/publisher.go
package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

// QueueName carries dispatch outcomes to downstream consumers (delivery
// reporting, CRM sync).
const QueueName = "sequence_dispatched"

// DispatchedEvent is published once per handed-off sequence job.
type DispatchedEvent struct {
	EventID string    `json:"event_id"`
	JobID   string    `json:"job_id"`
	LeadID  string    `json:"lead_id"`
	Kind    string    `json:"kind"`
	Outcome string    `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	PublishDispatched(evt DispatchedEvent) error
}

// AMQPPublisher pushes events onto a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) PublishDispatched(evt DispatchedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.ch.Publish("", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() {
	p.ch.Close()
	p.conn.Close()
}
