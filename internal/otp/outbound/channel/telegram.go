package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

const telegramAPIPrefix = "https://api.telegram.org/bot"

// ErrTelegramStatus is returned when the Bot API answers with a non-200 status.
var ErrTelegramStatus = errors.New("channel: telegram api returned non-200 status")

type TelegramConfig struct {
	// APIURL is the sendMessage URL including the bot token.
	APIURL string
	ChatID string
	// Client defaults to an http.Client with a 10s timeout.
	Client *http.Client
	// Backoff is the base delay between retries; 200ms when zero.
	Backoff time.Duration
}

type Telegram struct {
	apiURL  string
	chatID  string
	client  *http.Client
	backoff time.Duration
	ins     instrument.Instrumentation
}

func NewTelegram(cfg TelegramConfig, ins instrument.Instrumentation) *Telegram {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	return &Telegram{
		apiURL:  strings.TrimSpace(cfg.APIURL),
		chatID:  strings.TrimSpace(cfg.ChatID),
		client:  client,
		backoff: backoff,
		ins:     ins,
	}
}

func (t *Telegram) IsConfigured() bool {
	return t != nil && strings.HasPrefix(t.apiURL, telegramAPIPrefix) && t.chatID != ""
}

func (t *Telegram) SendCode(ctx context.Context, destination, code string) (err error) {
	ctx, span := startSpan(ctx, t.ins, "Telegram.SendCode")
	defer func() { endSpan(span, err) }()

	q := url.Values{}
	q.Set("chat_id", t.chatID)
	q.Set("text", fmt.Sprintf("%s, your confirmation code is: %s", destination, code))
	target := t.apiURL + "?" + q.Encode()

	b := retry.WithMaxRetries(3, retry.NewExponential(t.backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		return t.send(ctx, target)
	})

	return err
}

func (t *Telegram) send(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return redactURL(err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return redactURL(err)
		}
		return retry.RetryableError(redactURL(err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	err = fmt.Errorf("%w: %d", ErrTelegramStatus, resp.StatusCode)
	if resp.StatusCode >= http.StatusInternalServerError {
		return retry.RetryableError(err)
	}

	return err
}

// redactURL drops the request URL from err: it carries the bot token and
// the code.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("telegram request: %s: %w", uerr.Op, uerr.Err)
	}
	return fmt.Errorf("telegram request: %w", err)
}
