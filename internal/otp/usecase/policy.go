package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

func (s *Usecase) GetPolicy(ctx context.Context) (*entity.Policy, error) {
	ctx, span := s.startSpan(ctx, "GetPolicy")
	defer span.End()

	if _, err := s.authorizer.Authorize(ctx, access.RequireAdmin); err != nil {
		return nil, err
	}

	p, err := s.repoDB.GetPolicy(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get policy", "error", err)
		return nil, goerror.NewServer(err)
	}

	return p, nil
}

// UpdatePolicyInput carries the raw parameter text; empty means absent.
type UpdatePolicyInput struct {
	CodeLength string
	TTLSeconds string
}

func (s *Usecase) UpdatePolicy(ctx context.Context, in UpdatePolicyInput) error {
	ctx, span := s.startSpan(ctx, "UpdatePolicy")
	defer span.End()

	admin, err := s.authorizer.Authorize(ctx, access.RequireAdmin)
	if err != nil {
		return err
	}

	rawLen, rawTTL := strings.TrimSpace(in.CodeLength), strings.TrimSpace(in.TTLSeconds)
	if rawLen == "" || rawTTL == "" {
		return goerror.NewInvalidInputMsg("Missing config parameters", nil)
	}

	codeLength, errLen := strconv.Atoi(rawLen)
	ttlSeconds, errTTL := strconv.Atoi(rawTTL)
	if errLen != nil || errTTL != nil {
		return goerror.NewInvalidInputMsg("Config parameters must be integers", nil)
	}

	p := entity.Policy{CodeLength: codeLength, TTLSeconds: ttlSeconds}
	if !p.Valid() {
		return goerror.NewInvalidInputMsg("Invalid config values", nil)
	}

	if err := s.repoDB.UpsertPolicy(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert policy", "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "policy updated", "by_account_id", admin.ID, "code_length", codeLength, "ttl_seconds", ttlSeconds)

	return nil
}
