// cmd/worker/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"log"

	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/leadflow/sequencer-backend/internal/config"
	"github.com/leadflow/sequencer-backend/internal/events"
)

// The worker tails dispatch outcome events and persists them as delivery
// reports, so the CRM side can query what was actually handed to the channel
// without touching the gateway's own tables.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer db.Close()

	conn, err := amqp.Dial(cfg.AmqpURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		events.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var evt events.DispatchedEvent
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				log.Println("Invalid event:", err)
				d.Ack(false)
				continue
			}

			if err := storeReport(db, evt); err != nil {
				log.Println("Failed to store delivery report:", err)
				d.Nack(false, true) // requeue
				continue
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for dispatch events...")
	<-forever
}

func storeReport(db *sql.DB, evt events.DispatchedEvent) error {
	query := `
        INSERT INTO delivery_reports (event_id, job_id, lead_id, kind, outcome, reason, dispatched_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (event_id) DO NOTHING
    `
	_, err := db.Exec(query, evt.EventID, evt.JobID, evt.LeadID, evt.Kind, evt.Outcome, evt.Reason, evt.At)
	return err
}
