// Package messaging publishes to one of Kafka, NATS, NSQ or Google Pub/Sub.
// The OTP service uses it to hand SMS deliveries to a gateway that consumes
// the topic; which broker sits in between is a deployment choice.
package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrClosed is returned when publishing through a closed client.
var ErrClosed = errors.New("messaging: client is closed")

// Messaging is a broker-agnostic publishing client.
type Messaging interface {
	io.Closer

	// Publish sends msg to destination (a topic or subject) and returns once
	// the broker accepted it.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is one message to publish.
type OutgoingMessage struct {
	Body []byte

	// Key partitions on Kafka and orders on Pub/Sub. NATS and NSQ ignore it.
	Key []byte

	// Headers travel as Kafka and NATS headers and as Pub/Sub attributes.
	// NSQ has no headers; see Envelope.
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

func (m OutgoingMessage) headerMap() map[string]string {
	if len(m.Headers) == 0 {
		return nil
	}

	out := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		if h.Key != "" {
			out[h.Key] = string(h.Value)
		}
	}
	return out
}

// PublishResult carries what the broker reported back.
type PublishResult struct {
	// MessageID is only set by Pub/Sub.
	MessageID string
	Topic     string
	Timestamp time.Time
}

// gate refuses work after Close.
type gate struct {
	mu     sync.Mutex
	closed bool
}

func (g *gate) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	return nil
}

// shut reports whether this call closed the gate.
func (g *gate) shut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return false
	}
	g.closed = true
	return true
}
