package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"postboard/internal/model"
)

// ActivityStore persists decoded activity events.
type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
}

// Delivery is the part of an amqp delivery the worker acts on.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// ActivityWorker consumes activity events from RabbitMQ and stores them.
type ActivityWorker struct {
	conn      *amqp.Connection
	store     ActivityStore
	queueName string
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityWorker(conn *amqp.Connection, store ActivityStore, queueName string, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log.With().Str("component", "activity_worker").Logger(),
	}
}

func (w *ActivityWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn().Msg("delivery channel closed")
					return
				}
				w.handle(workerCtx, d.Body, &d)
			}
		}
	}()

	w.log.Info().Str("queue", w.queueName).Msg("activity worker started")
	return nil
}

// handle stores one event. Undecodable or unstorable events are dropped
// without requeue so a poison message cannot loop.
func (w *ActivityWorker) handle(ctx context.Context, body []byte, d Delivery) {
	var activity model.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		w.log.Error().Err(err).Msg("decode activity failed")
		_ = d.Nack(false, false)
		return
	}
	activity.ID = 0

	if err := w.store.Create(ctx, &activity); err != nil {
		w.log.Error().Err(err).Str("kind", activity.Kind).Uint("user_id", activity.UserID).Msg("persist activity failed")
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *ActivityWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
