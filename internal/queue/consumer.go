package queue

// This file contains the background consumer that listens to the
// reservation.lifecycle queue and appends one human-readable line per
// transition to logs/reservations.log, giving the front desk a durable
// audit trail independent of the database.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const lifecycleQueueName = "reservation.lifecycle"

// StartLifecycleConsumer connects to RabbitMQ, declares the durable
// reservation.lifecycle queue and starts consuming messages.  It runs a
// reconnect loop with exponential backoff and never returns under
// normal operation; processing errors are logged and the offending
// message rejected so the server keeps running.
func StartLifecycleConsumer(brokerURL string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			log.Printf("lifecycle-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("lifecycle-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("lifecycle-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(lifecycleQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(lifecycleQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("lifecycle-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev LifecycleEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "reservations.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | reservation_id=%d | room=%d | guest=%q | status=%s | stay=%s..%s | total=$%.2f | by=%s\n",
		ev.OccurredAt, ev.Type, ev.ReservationID, ev.RoomNumber, ev.GuestName, ev.Status, ev.CheckIn, ev.CheckOut, ev.TotalAmount, ev.Actor)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
