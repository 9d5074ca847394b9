package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/metrics"
)

// Publisher sends activity events to RabbitMQ without ever blocking the
// caller.  Publish only enqueues into a bounded buffer; Run owns the
// broker connection and drains the buffer.  When the buffer is full the
// event is dropped and counted.  An event whose send fails goes back to
// the end of the buffer and is retried after the reconnect, unless the
// buffer has filled up meanwhile.
type Publisher struct {
	url     string
	queue   string
	events  chan ActivityEvent
	dial    dialFunc
	backoff time.Duration
	log     logrus.FieldLogger
}

func NewPublisher(cfg config.EventsConfig, log logrus.FieldLogger) *Publisher {
	return &Publisher{
		url:     cfg.URL,
		queue:   cfg.Queue,
		events:  make(chan ActivityEvent, cfg.Buffer),
		dial:    dialAMQP,
		backoff: time.Second,
		log:     log.WithField("component", "event-publisher"),
	}
}

// Publish enqueues ev for delivery.
func (p *Publisher) Publish(ev ActivityEvent) {
	select {
	case p.events <- ev:
	default:
		metrics.RecordEvent(metrics.EventDropped)
		p.log.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type}).Warn("event buffer full; dropping event")
	}
}

// Run connects, drains the buffer and reconnects with backoff until ctx
// is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	backoff := p.backoff
	for ctx.Err() == nil {
		conn, err := p.dial(p.url)
		if err != nil {
			p.log.WithError(err).Warnf("dial failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = p.backoff

		err = p.drain(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		p.log.WithError(err).Warn("publish loop ended; reconnecting")
		if !sleep(ctx, backoff) {
			return
		}
	}
}

func (p *Publisher) drain(ctx context.Context, conn connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.events:
			if err := p.send(ctx, ch, ev); err != nil {
				metrics.RecordEvent(metrics.EventFailed)
				p.requeue(ev)
				return err
			}
			metrics.RecordEvent(metrics.EventPublished)
		}
	}
}

// requeue puts ev back without blocking; a full buffer drops it.
func (p *Publisher) requeue(ev ActivityEvent) {
	select {
	case p.events <- ev:
	default:
		metrics.RecordEvent(metrics.EventDropped)
		p.log.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type}).Warn("event buffer full; dropping failed event")
	}
}

func (p *Publisher) send(ctx context.Context, ch channel, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         string(ev.Type),
			Timestamp:    ev.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.ID, err)
	}
	return nil
}

// Discard is the publisher used when events are disabled.
type Discard struct{}

func (Discard) Publish(ActivityEvent) {}
