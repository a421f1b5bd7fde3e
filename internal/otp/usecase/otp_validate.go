package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

type ValidateInput struct {
	OperationID string `validate:"required,max=64"`
	Code        string `validate:"required,min=4,max=12,digits"`
}

// Validate consumes the newest matching ACTIVE, unexpired record. A failed
// attempt changes nothing.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput) error {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	p, err := s.authorizer.Authorize(ctx, access.RequireUser)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ok, err := s.repoDB.ConsumeRecord(ctx, p.ID, in.OperationID, in.Code, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume record", "account_id", p.ID, "operation_id", in.OperationID, "error", err)
		return goerror.NewServer(err)
	}

	if !ok {
		slog.WarnContext(ctx, "code invalid or expired", "account_id", p.ID, "operation_id", in.OperationID)
		return goerror.NewInvalidInputMsg("OTP invalid or expired", nil)
	}

	slog.InfoContext(ctx, "code validated", "account_id", p.ID, "operation_id", in.OperationID)

	return nil
}
