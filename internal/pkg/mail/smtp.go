package mail

import (
	"bytes"
	"cmp"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	ErrSMTPNoRecipients     = errors.New("no recipients provided")
	// ErrSMTPNoSender means neither Message.From nor SMTPConfig.From is set.
	ErrSMTPNoSender = errors.New("no sender provided")
	// ErrSMTPHeaderInjection means an address or the subject contains a line break.
	ErrSMTPHeaderInjection = errors.New("line break in mail header")
)

// SMTPConfig configures the SMTP sender. Auth is used only when both
// Username and Password are set.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is used when Message.From is empty.
	From string
}

// SMTP sends mail through one SMTP relay. Each Send opens its own
// connection bounded by the caller's context.
type SMTP struct {
	host string
	addr string
	from string
	auth smtp.Auth
	now  func() time.Time
	send func(ctx context.Context, from string, to []string, raw []byte) error
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	s := &SMTP{
		host: cfg.Host,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		now:  time.Now,
	}
	if cfg.Username != "" && cfg.Password != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	s.send = s.deliver

	return s, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrSMTPNoRecipients
	}

	from := cmp.Or(msg.From, s.from)
	if from == "" {
		return ErrSMTPNoSender
	}

	if strings.ContainsAny(from+msg.Subject+strings.Join(msg.To, ""), "\r\n") {
		return ErrSMTPHeaderInjection
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.send(ctx, from, msg.To, s.compose(from, msg))
}

// Close is a no-op; connections do not outlive Send.
func (s *SMTP) Close() error {
	return nil
}

func (s *SMTP) deliver(ctx context.Context, from string, to []string, raw []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.auth != nil {
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func (s *SMTP) compose(from string, msg Message) []byte {
	var buf bytes.Buffer

	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from)
	header("To", strings.Join(msg.To, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+randomToken()+"@"+s.host+">")
	header("MIME-Version", "1.0")

	switch {
	case msg.HTMLBody == "":
		header("Content-Type", "text/plain; charset=UTF-8")
		buf.WriteString("\r\n" + msg.TextBody)
	case msg.TextBody == "":
		header("Content-Type", "text/html; charset=UTF-8")
		buf.WriteString("\r\n" + msg.HTMLBody)
	default:
		boundary := "otpgate-" + randomToken()
		header("Content-Type", "multipart/alternative; boundary="+boundary)
		buf.WriteString("\r\n")
		fmt.Fprintf(&buf, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.TextBody)
		fmt.Fprintf(&buf, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.HTMLBody)
		fmt.Fprintf(&buf, "--%s--", boundary)
	}

	return buf.Bytes()
}

func randomToken() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}

