package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	// ErrKafkaTopicRequired is returned when the topic is empty.
	ErrKafkaTopicRequired = errors.New("messaging: kafka topic is required")
	// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
)

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string

	// Transport carries TLS or SASL settings; nil uses kafka.DefaultTransport.
	Transport kafka.RoundTripper
}

// Kafka keeps one writer per topic, created on first publish. Writers hash the
// key so every message for one phone lands on the same partition.
type Kafka struct {
	gate
	brokers   []string
	transport kafka.RoundTripper

	wmu     sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafka does not dial; the first Publish does.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers:   append([]string(nil), cfg.Brokers...),
		transport: cfg.Transport,
		writers:   make(map[string]*kafka.Writer),
	}, nil
}

// Close flushes every writer and reports all failures together.
func (k *Kafka) Close() error {
	if !k.shut() {
		return nil
	}

	k.wmu.Lock()
	writers := k.writers
	k.writers = nil
	k.wmu.Unlock()

	var errs error
	for _, w := range writers {
		errs = errors.Join(errs, w.Close())
	}
	return errs
}

// Publish waits for every in-sync replica to acknowledge.
func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := k.check(ctx); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}

	w, err := k.writer(destination)
	if err != nil {
		return PublishResult{}, err
	}

	out := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range msg.Headers {
		if h.Key != "" {
			out.Headers = append(out.Headers, kafka.Header{Key: h.Key, Value: h.Value})
		}
	}

	if err := w.WriteMessages(ctx, out); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: out.Time}, nil
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.wmu.Lock()
	defer k.wmu.Unlock()

	// Close nils the map after shutting the gate.
	if k.writers == nil {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Transport:              k.transport,
	}
	k.writers[topic] = w
	return w, nil
}
