package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ для очереди очистки изображений
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// durable: задачи переживают перезапуск брокера
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("RabbitMQ queue declared", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
			return
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishImageCleanup реализует ports.ImageCleanupPublisher
func (c *Client) PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",
		c.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	c.logger.Info("image cleanup published",
		"queue", c.queue.Name,
		"key", payload.ObjectKey,
		"reason", payload.Reason,
	)
	return nil
}

// StartConsumingImageCleanup реализует ports.ImageCleanupConsumer.
// Сообщения подтверждаются вручную после успешной обработки.
// Возвращаемый канал закрывается, когда потребитель остановился: по отмене ctx
// или потому что брокер закрыл канал доставки.
func (c *Client) StartConsumingImageCleanup(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) (<-chan struct{}, error) {
	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", c.queue.Name)

	done := make(chan struct{})
	go c.consume(ctx, msgs, handler, done)
	return done, nil
}

func (c *Client) consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.ImageCleanupPayload) error, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
				return
			}
			c.handleDelivery(ctx, msg, handler)
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping RabbitMQ consumer")
			return
		}
	}
}

// handleDelivery обрабатывает одно сообщение. Неразборчивое сообщение
// отбрасывается; неудачная обработка возвращается в очередь один раз.
func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.ImageCleanupPayload) error) {
	var payload payloads.ImageCleanupPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil || payload.ObjectKey == "" {
		c.logger.Error("dropping malformed message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("error NACKing message", "error", err)
		}
		return
	}

	start := time.Now()
	if err := handler(ctx, payload); err != nil {
		requeue := !msg.Redelivered
		c.logger.Error("error processing message",
			"key", payload.ObjectKey,
			"requeue", requeue,
			"error", err,
		)
		if err := msg.Nack(false, requeue); err != nil {
			c.logger.Error("error NACKing message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("error ACKing message", "error", err)
		return
	}
	c.logger.Info("image cleanup processed",
		"key", payload.ObjectKey,
		"reason", payload.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
