package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"finbot/internal/logger"
	"finbot/internal/models"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends ledger notifications to a direct exchange. Failures are
// logged and never returned to callers.
type Publisher struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// Dial connects to url and declares the durable direct exchange.
func Dial(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, routingKey)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string) *Publisher {
	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// PublishRecorded announces a newly recorded transaction.
func (p *Publisher) PublishRecorded(ctx context.Context, tx *models.Transaction) {
	p.publish(ctx, TransactionRecorded, tx)
}

// PublishDeleted announces a deleted transaction.
func (p *Publisher) PublishDeleted(ctx context.Context, tx *models.Transaction) {
	p.publish(ctx, TransactionDeleted, tx)
}

func (p *Publisher) publish(ctx context.Context, event string, tx *models.Transaction) {
	now := p.now()
	body, err := NewMessage(event, tx, now).ToJSON()
	if err != nil {
		logger.Get().Errorw("Failed to marshal event", "event", event, "transaction_id", tx.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Type:         event,
			Timestamp:    now,
			Body:         body,
		},
	)
	if err != nil {
		logger.Get().Warnw("Failed to publish event",
			"event", event,
			"transaction_id", tx.ID,
			"user_id", tx.UserID,
			"error", err,
		)
		return
	}

	logger.Get().Debugw("Published event", "event", event, "transaction_id", tx.ID, "exchange", p.exchange)
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
