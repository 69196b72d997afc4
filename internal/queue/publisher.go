package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
)

// CardEventsQueue is the durable queue card events are routed to.
const CardEventsQueue = "cards.events"

// Publisher sends card events to RabbitMQ.  It dials per publish so a
// broker outage never blocks startup; callers treat errors as
// non-fatal.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishCardEvent publishes ev to the cards.events queue.  The
// function never panics; any error is logged and returned so the
// caller can choose to ignore it.  Messages are marked as persistent.
func (p *Publisher) PublishCardEvent(ctx context.Context, ev CardEvent) error {
	log := logger.FromContext(ctx)
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		CardEventsQueue, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		CardEventsQueue, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("card_id", ev.CardID))
		return err
	}
	return nil
}
