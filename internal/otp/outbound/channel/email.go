package channel

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
)

const (
	emailSubject  = "Your OTP Code"
	emailTextBody = "Your verification code is: %s\n\nThis code will expire soon. Please do not share this code with anyone.\n"
	emailHTMLBody = "<html><body>" +
		"<h2>Your OTP Verification Code</h2>" +
		"<p>Your verification code is: <strong>%s</strong></p>" +
		"<p>This code will expire soon. Please do not share this code with anyone.</p>" +
		"</body></html>"
)

type Email struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

// NewEmail returns an email channel; a nil client leaves it unconfigured.
func NewEmail(client mail.Mail, ins instrument.Instrumentation) *Email {
	return &Email{client: client, ins: ins}
}

func (e *Email) IsConfigured() bool {
	return e != nil && e.client != nil
}

func (e *Email) SendCode(ctx context.Context, destination, code string) (err error) {
	ctx, span := startSpan(ctx, e.ins, "Email.SendCode")
	defer func() { endSpan(span, err) }()

	err = e.client.Send(ctx, mail.Message{
		To:       []string{destination},
		Subject:  emailSubject,
		TextBody: fmt.Sprintf(emailTextBody, code),
		HTMLBody: fmt.Sprintf(emailHTMLBody, code),
	})

	return err
}
