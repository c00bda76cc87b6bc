// Package broker consumes conversion events from RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"kucukaslan/gadsconversion/config"
	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/metrics"
	"kucukaslan/gadsconversion/validations"
)

// Settlements of a delivery.
const (
	SettlementAck     = "ack"
	SettlementDrop    = "nack"
	SettlementRequeue = "requeue"
)

var errNotConnected = errors.New("rabbitmq consumer is not connected")

// Consumer reads EventRequest payloads from a durable queue and runs each through
// the conversion service. Request meta travels in the AMQP headers under the same
// names the HTTP API uses.
type Consumer struct {
	url        string
	queue      string
	prefetch   int
	service    domain.ConversionService
	log        *zap.Logger
	retryDelay time.Duration
	connected  atomic.Bool
}

func NewConsumer(cfg *config.RabbitMQConfig, service domain.ConversionService, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	prefetch := cfg.Prefetch
	if prefetch < 1 {
		prefetch = 1
	}
	return &Consumer{
		url:        cfg.URL,
		queue:      cfg.Queue,
		prefetch:   prefetch,
		service:    service,
		log:        log.Named("rabbitmq"),
		retryDelay: 5 * time.Second,
	}
}

// Run consumes until ctx is done, reconnecting with backoff whenever the
// connection drops.
func (c *Consumer) Run(ctx context.Context) {
	connBackoff := NewBackoff(time.Second, 60*time.Second, 2.0)

	for {
		if ctx.Err() != nil {
			return
		}

		err := c.listen(ctx, connBackoff.Reset)
		c.connected.Store(false)
		if ctx.Err() != nil {
			return
		}

		wait := connBackoff.Next()
		c.log.Error("RabbitMQ consumer disconnected, retrying",
			zap.Duration("wait_duration", wait),
			zap.Int("attempt", connBackoff.Attempts()),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// HealthCheck reports whether the consumer currently holds a live channel.
func (c *Consumer) HealthCheck(context.Context) error {
	if !c.connected.Load() {
		return errNotConnected
	}
	return nil
}

func (c *Consumer) listen(ctx context.Context, onConnected func()) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	q, err := ch.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.connected.Store(true)
	onConnected()
	c.log.Info("Consumer is online and waiting for messages", zap.String("queue", q.Name), zap.Int("prefetch", c.prefetch))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle processes one delivery and settles it. It returns the settlement used.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) string {
	invocation, err := decodeDelivery(d)
	if err != nil {
		c.log.Error("Dropping malformed message", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		return c.settle(d, SettlementDrop)
	}

	if _, err := c.service.Process(ctx, invocation); err != nil {
		c.log.Error("Processing failed, requeueing",
			zap.String("trace_id", invocation.Meta.TraceID),
			zap.Error(err))
		// throttle redelivery
		select {
		case <-ctx.Done():
		case <-time.After(c.retryDelay):
		}
		return c.settle(d, SettlementRequeue)
	}

	return c.settle(d, SettlementAck)
}

func (c *Consumer) settle(d amqp.Delivery, settlement string) string {
	var err error
	switch settlement {
	case SettlementAck:
		err = d.Ack(false)
	case SettlementDrop:
		err = d.Nack(false, false)
	default:
		err = d.Nack(false, true)
	}
	if err != nil {
		c.log.Error("Failed to settle message", zap.String("settlement", settlement), zap.Error(err))
	}
	metrics.QueueMessages.WithLabelValues(settlement).Inc()
	return settlement
}

// decodeDelivery turns a delivery into an invocation. The trace id falls back to
// the AMQP message id.
func decodeDelivery(d amqp.Delivery) (*domain.Invocation, error) {
	var req domain.EventRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return nil, fmt.Errorf("invalid message body: %w", err)
	}

	meta := domain.RequestMeta{
		TraceID:             headerString(d.Headers, "trace-id"),
		Referer:             headerString(d.Headers, "referer"),
		ContainerIdentifier: headerString(d.Headers, "x-gtm-identifier"),
		DefaultDomain:       headerString(d.Headers, "x-gtm-default-domain"),
		ContainerAPIKey:     headerString(d.Headers, "x-gtm-api-key"),
		Debug:               headerBool(d.Headers, "x-gtm-debug-mode"),
	}
	if meta.TraceID == "" {
		meta.TraceID = d.MessageId
	}

	return validations.ToInvocation(&req, meta)
}

func headerString(headers amqp.Table, key string) string {
	switch v := headers[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func headerBool(headers amqp.Table, key string) bool {
	switch v := headers[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
