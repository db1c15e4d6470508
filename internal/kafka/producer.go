package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// BookingEvent is the message published for every timeline entry of a booking.
type BookingEvent struct {
	Type        string    `json:"type"`
	RefID       string    `json:"ref_id"`
	Status      string    `json:"status"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers  []string
	writer   messageWriter
	log      logrus.FieldLogger
	attempts int
	backoff  time.Duration
}

type ProducerOption func(*Producer)

// WithRetries makes Publish try up to attempts times with linear backoff.
func WithRetries(attempts int, backoff time.Duration) ProducerOption {
	return func(p *Producer) {
		if attempts > 0 {
			p.attempts = attempts
		}
		p.backoff = backoff
	}
}

func NewProducer(brokers []string, log logrus.FieldLogger, opts ...ProducerOption) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newProducer(brokers, writer, log, opts...)
}

func newProducer(brokers []string, writer messageWriter, log logrus.FieldLogger, opts ...ProducerOption) *Producer {
	p := &Producer{
		brokers:  brokers,
		writer:   writer,
		log:      log,
		attempts: 1,
		backoff:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON to topic. Messages are keyed so that all
// events of one booking land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for i := 0; i < p.attempts; i++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.log.WithFields(logrus.Fields{"topic": topic, "key": key}).Debug("published message")
			return nil
		}
		p.log.WithError(lastErr).WithFields(logrus.Fields{"topic": topic, "attempt": i + 1}).Warn("kafka write failed")
		if i < p.attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempt(s): %w", p.attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	return nil
}
