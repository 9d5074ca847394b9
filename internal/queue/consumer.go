package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// ActivityLogName is the file the consumer appends to inside its directory.
const ActivityLogName = "activity.log"

// Consumer reads activity events and appends one line per event to the
// activity log.
type Consumer struct {
	url     string
	queue   string
	dir     string
	dial    dialFunc
	backoff time.Duration
	log     logrus.FieldLogger
}

func NewConsumer(cfg config.EventsConfig, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		url:     cfg.URL,
		queue:   cfg.Queue,
		dir:     cfg.LogDir,
		dial:    dialAMQP,
		backoff: time.Second,
		log:     log.WithField("component", "activity-consumer"),
	}
}

// Run keeps a consumer attached to the queue, reconnecting with backoff,
// until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	backoff := c.backoff
	for ctx.Err() == nil {
		conn, err := c.dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = c.backoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*c.backoff) {
			return
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("set QoS failed")
	}
	if err := declare(ch, c.queue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errClosed
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.log.WithError(err).Warn("handle message failed")
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return fmt.Errorf("event %q has no type", ev.ID)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, ActivityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev ActivityEvent) string {
	parts := []string{
		fmt.Sprintf("[%s] %s", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type),
		"event_id=" + ev.ID,
		fmt.Sprintf("user_id=%d", ev.UserID),
		fmt.Sprintf("movie_id=%d", ev.MovieID),
	}
	if ev.RatingID != 0 {
		parts = append(parts, fmt.Sprintf("rating_id=%d", ev.RatingID))
	}
	return strings.Join(parts, " | ") + "\n"
}
