package channel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/storage"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFile_SendCode(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	f := NewFile(storage.NewLocal(), dir, clock.NewManual(testNow), instrument.NewNoop())

	// Act
	err := f.SendCode(context.Background(), "al/ice name", "123456")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := filepath.Join(dir, "otp_al_ice_name_1772366400000.txt")
	got, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	want := "OTP code for al/ice name\nCode: 123456\nGenerated: 2026-03-01T12:00:00Z\n"
	if string(got) != want {
		t.Fatalf("expected %q, got %q", want, string(got))
	}
}

func TestFile_IsConfigured(t *testing.T) {
	if NewFile(nil, "x", clock.New(), instrument.NewNoop()).IsConfigured() {
		t.Fatalf("file channel without storage must be unconfigured")
	}
	if NewFile(storage.NewLocal(), "", clock.New(), instrument.NewNoop()).IsConfigured() {
		t.Fatalf("file channel without bucket must be unconfigured")
	}
	if !NewFile(storage.NewLocal(), "./otp_codes", clock.New(), instrument.NewNoop()).IsConfigured() {
		t.Fatalf("expected configured file channel")
	}
}

type fakeMail struct {
	msgs []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakeMail) Close() error { return nil }

func TestEmail_SendCode(t *testing.T) {
	// Arrange
	m := &fakeMail{}
	e := NewEmail(m, instrument.NewNoop())

	// Act
	err := e.SendCode(context.Background(), "alice@example.com", "654321")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(m.msgs))
	}
	msg := m.msgs[0]
	if msg.To[0] != "alice@example.com" || msg.Subject != "Your OTP Code" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	if !strings.Contains(msg.HTMLBody, "<strong>654321</strong>") || !strings.Contains(msg.TextBody, "654321") {
		t.Fatalf("code missing from bodies")
	}
	if NewEmail(nil, instrument.NewNoop()).IsConfigured() {
		t.Fatalf("email channel without client must be unconfigured")
	}
}

type fakePublisher struct {
	topic string
	msg   messaging.OutgoingMessage
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	f.topic, f.msg = destination, msg
	return messaging.PublishResult{Topic: destination}, f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestSMS_SendCode(t *testing.T) {
	t.Run("PublishesNormalizedPhone", func(t *testing.T) {
		// Arrange
		pub := &fakePublisher{}
		s := NewSMS(pub, "", instrument.NewNoop())
		ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

		// Act
		err := s.SendCode(ctx, "+1 (555) 123-4567", "111222")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pub.topic != event.SmsDeliveryDestination {
			t.Fatalf("expected default topic, got %q", pub.topic)
		}
		var got event.SmsDeliveryMessage
		if err := json.Unmarshal(pub.msg.Body, &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.Phone != "+15551234567" {
			t.Fatalf("unexpected phone %q", got.Phone)
		}
		if got.Text != "Your verification code is: 111222. Do not share this code with anyone." {
			t.Fatalf("unexpected text %q", got.Text)
		}
		if len(pub.msg.Headers) != 1 || pub.msg.Headers[0].Key != instrument.HeaderCorrelationID ||
			string(pub.msg.Headers[0].Value) != "cid-1" {
			t.Fatalf("expected correlation header, got %+v", pub.msg.Headers)
		}
	})

	t.Run("RejectsNonPhone", func(t *testing.T) {
		tests := []string{"alice", "12345", "+1234567890123456", "555-abc-1234"}
		for _, dest := range tests {
			// Arrange
			pub := &fakePublisher{}
			s := NewSMS(pub, "sms", instrument.NewNoop())

			// Act
			err := s.SendCode(context.Background(), dest, "111222")

			// Assert
			if !errors.Is(err, ErrInvalidPhone) {
				t.Fatalf("%q: expected ErrInvalidPhone, got %v", dest, err)
			}
			if pub.topic != "" {
				t.Fatalf("%q: nothing must be published", dest)
			}
		}
	})

	t.Run("PublishError", func(t *testing.T) {
		// Arrange
		s := NewSMS(&fakePublisher{err: messaging.ErrClosed}, "sms", instrument.NewNoop())

		// Act
		err := s.SendCode(context.Background(), "5551234567", "111222")

		// Assert
		if !errors.Is(err, messaging.ErrClosed) {
			t.Fatalf("expected publish error, got %v", err)
		}
	})
}

func TestTelegram_SendCode(t *testing.T) {
	t.Run("SendsQuery", func(t *testing.T) {
		// Arrange
		var gotChat, gotText string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotChat, gotText = r.URL.Query().Get("chat_id"), r.URL.Query().Get("text")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		tg := NewTelegram(TelegramConfig{APIURL: srv.URL, ChatID: "42", Backoff: time.Millisecond}, instrument.NewNoop())

		// Act
		err := tg.SendCode(context.Background(), "alice", "777888")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotChat != "42" || gotText != "alice, your confirmation code is: 777888" {
			t.Fatalf("unexpected query chat=%q text=%q", gotChat, gotText)
		}
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		tg := NewTelegram(TelegramConfig{APIURL: srv.URL, ChatID: "42", Backoff: time.Millisecond}, instrument.NewNoop())

		// Act
		err := tg.SendCode(context.Background(), "alice", "777888")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls.Load() != 3 {
			t.Fatalf("expected 3 attempts, got %d", calls.Load())
		}
	})

	t.Run("ClientErrorIsFinal", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()
		tg := NewTelegram(TelegramConfig{APIURL: srv.URL, ChatID: "42", Backoff: time.Millisecond}, instrument.NewNoop())

		// Act
		err := tg.SendCode(context.Background(), "alice", "777888")

		// Assert
		if !errors.Is(err, ErrTelegramStatus) {
			t.Fatalf("expected ErrTelegramStatus, got %v", err)
		}
		if calls.Load() != 1 {
			t.Fatalf("expected a single attempt, got %d", calls.Load())
		}
	})

	t.Run("GivesUpAfterRetries", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		tg := NewTelegram(TelegramConfig{APIURL: srv.URL, ChatID: "42", Backoff: time.Millisecond}, instrument.NewNoop())

		// Act
		err := tg.SendCode(context.Background(), "alice", "777888")

		// Assert
		if !errors.Is(err, ErrTelegramStatus) {
			t.Fatalf("expected ErrTelegramStatus, got %v", err)
		}
		if calls.Load() != 4 {
			t.Fatalf("expected 1 attempt plus 3 retries, got %d", calls.Load())
		}
	})
}

func TestTelegram_SendCode_ErrorHidesSecrets(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	apiURL := srv.URL + "/botSECRETTOKEN/sendMessage"
	srv.Close()
	tg := NewTelegram(TelegramConfig{APIURL: apiURL, ChatID: "42", Backoff: time.Millisecond}, instrument.NewNoop())

	// Act
	err := tg.SendCode(context.Background(), "alice", "918273")

	// Assert
	if err == nil {
		t.Fatal("expected a transport error")
	}
	for _, secret := range []string{"SECRETTOKEN", "918273", "sendMessage"} {
		if strings.Contains(err.Error(), secret) {
			t.Fatalf("error leaks %q: %v", secret, err)
		}
	}
}

func TestTelegram_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  TelegramConfig
		want bool
	}{
		{name: "valid", cfg: TelegramConfig{APIURL: "https://api.telegram.org/bot123:abc/sendMessage", ChatID: "42"}, want: true},
		{name: "no chat", cfg: TelegramConfig{APIURL: "https://api.telegram.org/bot123:abc/sendMessage"}, want: false},
		{name: "foreign host", cfg: TelegramConfig{APIURL: "https://example.com/bot123/sendMessage", ChatID: "42"}, want: false},
		{name: "empty", cfg: TelegramConfig{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTelegram(tt.cfg, instrument.NewNoop()).IsConfigured(); got != tt.want {
				t.Fatalf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}
