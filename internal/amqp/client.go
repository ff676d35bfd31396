package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

type Client struct {
	mu           sync.Mutex
	url          string
	exchangeName string
	queueName    string
	conn         *amqp091.Connection
	channel      *amqp091.Channel

	// circuit breaker; lastFailure is UnixNano so every field can be
	// read and written atomically by concurrent publishers
	state        int32
	failureCount int64
	lastFailure  int64
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

func setupTopology(channel *amqp091.Channel, exchange, queue string) error {
	err := channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = channel.QueueBind(queue, queue, exchange, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishEvent publishes a ledger event, guarded by the circuit breaker.
func (c *Client) PublishEvent(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.isCircuitOpen() {
		return fmt.Errorf("circuit breaker is open, not publishing %s", event.Kind)
	}

	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		if isConnectionError(err) {
			c.recordFailure()
		}
		return fmt.Errorf("publish event: %w", err)
	}

	c.recordSuccess()

	slog.InfoContext(ctx, "Published ledger event",
		"kind", event.Kind,
		"entity_id", event.EntityID,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeEvents delivers events to handler with manual acknowledgment.
// Malformed payloads are rejected without requeue; handler errors requeue.
// On a dropped connection it redials with exponential backoff until the
// context is canceled.
func (c *Client) ConsumeEvents(ctx context.Context, handler func(*Event) error) error {
	for attempt := 0; ; attempt++ {
		err := c.consumeOnce(ctx, handler)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		backoff := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP connection lost, reconnecting",
			"error", err,
			"backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		c.mu.Lock()
		reconnectErr := c.connect()
		c.mu.Unlock()
		if reconnectErr != nil {
			slog.WarnContext(ctx, "AMQP reconnect failed", "error", reconnectErr)
			continue
		}
		attempt = -1 // fresh connection, reset backoff
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(*Event) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: connection closed: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed: connection closed")
			}

			event, err := EventFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal event", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event",
					"error", err,
					"kind", event.Kind,
					"entity_id", event.EntityID)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// --- circuit breaker ---

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	if time.Since(time.Unix(0, atomic.LoadInt64(&c.lastFailure))) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordFailure() {
	count := atomic.AddInt64(&c.failureCount, 1)
	atomic.StoreInt64(&c.lastFailure, time.Now().UnixNano())
	if count >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second || backoff <= 0 {
		return 30 * time.Second
	}
	return backoff
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"connection refused",
		"connection closed",
		"EOF",
		"broken pipe",
		"closed network connection",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
