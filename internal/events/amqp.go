// AngelaMos | 2026
// amqp.go

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carterperez-dev/trailrace/internal/config"
)

// Recorder counts publish outcomes. metrics.Metrics satisfies it.
type Recorder interface {
	RecordEventPublished(eventType string, err error)
}

// AMQPPublisher publishes to a durable queue on the default exchange. The
// connection is shared and redialed lazily; each publish gets its own
// channel since channels are not safe for concurrent use.
type AMQPPublisher struct {
	url      string
	queue    string
	recorder Recorder

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(
	cfg config.EventsConfig,
	recorder Recorder,
) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:      cfg.AMQPURL,
		queue:    cfg.Queue,
		recorder: recorder,
	}

	ch, err := p.channel()
	if err != nil {
		return nil, err
	}
	defer func() { _ = ch.Close() }() //nolint:errcheck // best-effort close

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = p.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	return p, nil
}

func (p *AMQPPublisher) PublishRegistrationCreated(
	ctx context.Context,
	e RegistrationCreated,
) error {
	err := p.publish(ctx, TypeRegistrationCreated, e)
	if p.recorder != nil {
		p.recorder.RecordEventPublished(TypeRegistrationCreated, err)
	}
	return err
}

func (p *AMQPPublisher) publish(ctx context.Context, eventType string, payload any) error {
	msg, err := newPublishing(eventType, payload, time.Now())
	if err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }() //nolint:errcheck // best-effort close

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	return nil
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
		slog.Info("rabbitmq connected", "queue", p.queue)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

func newPublishing(eventType string, payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}
