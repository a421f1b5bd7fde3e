package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

type GenerateInput struct {
	OperationID    string `validate:"required,max=64"`
	Channel        string `validate:"required"`
	IdempotencyKey string `validate:"omitempty,max=128"`
}

type GenerateOutput struct {
	Message string
}

func (s *Usecase) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	p, err := s.authorizer.Authorize(ctx, access.RequireUser)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch := entity.ParseChannel(in.Channel)
	if ch == entity.ChannelUnknown {
		return nil, goerror.NewInvalidInputMsg("Unknown channel", nil)
	}

	sender, ok := s.senders[ch]
	if !ok || sender == nil || !sender.IsConfigured() {
		slog.ErrorContext(ctx, "delivery channel is not configured", "channel", ch)
		return nil, goerror.NewBusiness(ch.Label()+" service not configured", goerror.CodeUnavailable)
	}

	dest := p.Username
	if ch == entity.ChannelEmail {
		if p.Email == "" {
			slog.WarnContext(ctx, "no email for account", "account_id", p.ID)
			return nil, goerror.NewInvalidInputMsg("No email for user", nil)
		}
		dest = p.Email
	}

	if in.IdempotencyKey == "" {
		msg, err := s.issue(ctx, p, in.OperationID, ch, sender, dest)
		if err != nil {
			return nil, err
		}
		return &GenerateOutput{Message: msg}, nil
	}

	key := "otp:generate:" + strconv.FormatInt(p.ID, 10) + ":" + in.IdempotencyKey
	fingerprint := in.OperationID + "|" + ch.String()
	msg, err := s.idemp.Exec(ctx, key, fingerprint, func(ctx context.Context) (string, error) {
		return s.issue(ctx, p, in.OperationID, ch, sender, dest)
	}, idempotency.WithStateTTL(s.cfg.GetSecond("modules.otp.idempotency_ttl_seconds")))
	switch {
	case err == nil:
	case errors.Is(err, idempotency.ErrReplayed):
		slog.InfoContext(ctx, "replayed generate request", "account_id", p.ID)
	case errors.Is(err, idempotency.ErrInProgress):
		return nil, goerror.NewBusiness("Request is already in progress", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrMismatch):
		return nil, goerror.NewBusiness("Idempotency key was used for a different request", goerror.CodeConflict)
	case msg != "" && errors.Is(err, idempotency.ErrFinish):
		// delivered; only the replay record is missing
		slog.WarnContext(ctx, "failed to record idempotent generate outcome", "account_id", p.ID, "error", err)
	default:
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to track idempotency key", "account_id", p.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GenerateOutput{Message: msg}, nil
}

func (s *Usecase) issue(
	ctx context.Context,
	p *access.Principal,
	operationID string,
	ch entity.Channel,
	sender Sender,
	dest string,
) (string, error) {
	policy, err := s.repoDB.GetPolicy(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get policy", "error", err)
		return "", goerror.NewServer(err)
	}

	code, err := s.newCode(policy.CodeLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to draw code digits", "error", err)
		return "", goerror.NewServer(err)
	}

	now := s.clock.Now()
	rec := entity.Record{
		ID:          s.uid.Generate(),
		UserID:      p.ID,
		OperationID: operationID,
		Code:        code,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(policy.TTL()),
	}

	if err := s.repoDB.CreateRecord(ctx, rec, s.cfg.GetBool("modules.otp.supersede_active")); err != nil {
		slog.ErrorContext(ctx, "failed to repo create record", "account_id", p.ID, "operation_id", operationID, "error", err)
		return "", goerror.NewServer(err)
	}

	if err := sender.SendCode(ctx, dest, code); err != nil {
		slog.ErrorContext(ctx, "failed to deliver code", "record_id", rec.ID, "channel", ch, "error", err)
		return "", goerror.NewDelivery("Failed to send OTP via "+ch.Label(), err)
	}

	slog.InfoContext(ctx, "code issued", "record_id", rec.ID, "account_id", p.ID, "channel", ch)

	return ch.DeliveredMessage(), nil
}
