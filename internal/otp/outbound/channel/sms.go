package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

// ErrInvalidPhone is returned when the destination is not a phone number.
var ErrInvalidPhone = errors.New("channel: destination is not a valid phone number")

var (
	phonePattern    = regexp.MustCompile(`^\+?\d{10,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
)

// SMS hands codes to an SMS gateway through a message broker topic.
type SMS struct {
	client messaging.Messaging
	topic  string
	ins    instrument.Instrumentation
}

func NewSMS(client messaging.Messaging, topic string, ins instrument.Instrumentation) *SMS {
	if topic == "" {
		topic = event.SmsDeliveryDestination
	}
	return &SMS{client: client, topic: topic, ins: ins}
}

func (s *SMS) IsConfigured() bool {
	return s != nil && s.client != nil
}

func (s *SMS) SendCode(ctx context.Context, destination, code string) (err error) {
	ctx, span := startSpan(ctx, s.ins, "SMS.SendCode")
	defer func() { endSpan(span, err) }()

	phone, err := normalizePhone(destination)
	if err != nil {
		return err
	}

	body, err := json.Marshal(event.SmsDeliveryMessage{
		Phone: phone,
		Text:  fmt.Sprintf("Your verification code is: %s. Do not share this code with anyone.", code),
	})
	if err != nil {
		return err
	}

	_, err = s.client.Publish(ctx, s.topic, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(phone),
		Headers: traceHeaders(ctx),
	})

	return err
}

// traceHeaders lets the gateway log its delivery under the request that asked for it.
func traceHeaders(ctx context.Context) []messaging.Header {
	carrier := instrument.Carrier(ctx)
	headers := make([]messaging.Header, 0, len(carrier))
	for _, k := range slices.Sorted(maps.Keys(carrier)) {
		headers = append(headers, messaging.Header{Key: k, Value: []byte(carrier[k])})
	}
	return headers
}

func normalizePhone(s string) (string, error) {
	phone := phoneSeparators.Replace(strings.TrimSpace(s))
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
