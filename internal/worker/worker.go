package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-dispatch-service/internal/domains/messages"
	"github.com/sangkips/template-dispatch-service/internal/queue"
)

// Consumer yields mail job deliveries
type Consumer interface {
	Consume() (<-chan amqp091.Delivery, error)
}

// Worker delivers queued mail jobs through a mail transport.
// A job is attempted once; failed jobs are rejected without requeue.
type Worker struct {
	consumer  Consumer
	transport messages.MailTransport
}

func NewWorker(consumer Consumer, transport messages.MailTransport) *Worker {
	return &Worker{
		consumer:  consumer,
		transport: transport,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.consumer.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info().Msg("worker started, waiting for messages")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitMQ channel closed")
			}
			w.processMessage(ctx, d)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, d amqp091.Delivery) {
	var msg queue.MailMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal message")
		d.Reject(false)
		return
	}

	log.Info().Str("message_id", msg.ID).Int("recipients", len(msg.Addresses)).Msg("processing message")

	if len(msg.Addresses) == 0 {
		log.Warn().Str("message_id", msg.ID).Msg("message has no recipients, dropping")
		d.Reject(false)
		return
	}

	if err := w.transport.Send(ctx, msg.Addresses, msg.Content); err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("failed to deliver message")
		d.Reject(false)
		return
	}

	log.Info().Str("message_id", msg.ID).Msg("message delivered successfully")
	d.Ack(false)
}
