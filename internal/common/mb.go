package common

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	BlogExchange     Exchange   = "blog_exchange"
	BlogCreatedQueue Queue      = "blog_created_queue"
	BlogCreatedKey   BindingKey = "blog.created"
	BlogUpdatedKey   BindingKey = "blog.updated"
)

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the channel and then the connection. The connection is closed
// even when the channel already failed.
func (mb *MessageBroker) Close() error {
	chErr := mb.ch.Close()
	connErr := mb.conn.Close()

	return errors.Join(chErr, connErr)
}

// SetupBlogExchange declares the exchange every blog event is published to.
func SetupBlogExchange(mb *MessageBroker) error {
	return mb.ch.ExchangeDeclare(string(BlogExchange), "direct", true, false, false, false, nil)
}

// SetupBlogCreatedQueue declares and binds the queue the notifier reads from. Call it
// only when a consumer runs; unbound events are dropped by the exchange.
func SetupBlogCreatedQueue(mb *MessageBroker) error {
	_, err := mb.ch.QueueDeclare(string(BlogCreatedQueue), true, false, false, false, nil)
	if err != nil {
		return err
	}

	return mb.ch.QueueBind(string(BlogCreatedQueue), string(BlogCreatedKey), string(BlogExchange), false, nil)
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// NoopBroker discards published messages. It stands in when no broker is configured.
type NoopBroker struct{}

func (NoopBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	return nil
}
