package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Message — тело сообщения в брокере.
type Message struct {
	Event      string         `json:"event"`
	Params     map[string]any `json:"params"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// AMQPRecorder публикует события в exchange RabbitMQ в формате JSON.
// Канал пересоздаётся при следующей публикации, если брокер его закрыл.
type AMQPRecorder struct {
	conn       *amqp.Connection
	exchange   string
	routingKey string

	mu sync.Mutex
	ch *amqp.Channel
}

// DialAMQP подключается к брокеру и объявляет topic-exchange.
func DialAMQP(url, exchange, routingKey string) (*AMQPRecorder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к RabbitMQ: %w", err)
	}
	r := &AMQPRecorder{conn: conn, exchange: exchange, routingKey: routingKey}

	ch, err := r.channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка объявления exchange %s: %w", exchange, err)
	}

	log.WithField("exchange", exchange).Info("Аналитика подключена к RabbitMQ")
	return r, nil
}

func (r *AMQPRecorder) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		return r.ch, nil
	}
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть канал: %w", err)
	}
	r.ch = ch
	return ch, nil
}

func (r *AMQPRecorder) Record(ctx context.Context, name string, params map[string]any) error {
	body, err := json.Marshal(Message{Event: name, Params: params, OccurredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	ch, err := r.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, r.exchange, r.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("ошибка публикации события %s: %w", name, err)
	}
	return nil
}

// Close закрывает соединение с брокером.
func (r *AMQPRecorder) Close() error {
	return r.conn.Close()
}
