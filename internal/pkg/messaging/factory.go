package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

var (
	// ErrNoDriver is returned by Open when no driver is configured.
	ErrNoDriver = errors.New("messaging: no driver configured")
	// ErrUnknownDriver indicates an unsupported messaging driver.
	ErrUnknownDriver = errors.New("messaging: unknown driver")
)

// Options selects a broker and carries the settings of every backend; only
// the block matching Driver is read.
type Options struct {
	Driver string

	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

// Open connects the broker named by opts.Driver. Driver names are case
// insensitive. An empty driver yields ErrNoDriver so callers can run without
// a broker.
func Open(ctx context.Context, opts Options) (Messaging, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))

	switch driver {
	case "":
		return nil, ErrNoDriver
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverGooglePubSub:
		return NewPubSub(ctx, opts.PubSub)
	}

	return nil, fmt.Errorf("%w %q, want one of %s", ErrUnknownDriver, driver,
		strings.Join([]string{DriverNSQ, DriverNATS, DriverKafka, DriverGooglePubSub}, ", "))
}
