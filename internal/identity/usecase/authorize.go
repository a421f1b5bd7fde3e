package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

// Authorize checks the verified token in ctx against req and resolves the
// account behind it. It never mutates state.
func (s *Usecase) Authorize(ctx context.Context, req access.Requirement) (*access.Principal, error) {
	ctx, span := s.startSpan(ctx, "Authorize")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Missing token", goerror.CodeUnauthorized)
	}

	role := access.ParseRole(clm.Role)
	if !role.Valid() {
		slog.WarnContext(ctx, "token carries unknown role", "username", clm.Username(), "role", clm.Role)
		return nil, goerror.NewBusiness("Forbidden", goerror.CodeForbidden)
	}

	ok, err := s.enforcer.Enforce(role.String(), req.String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "username", clm.Username(), "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "account not allowed", "username", clm.Username(), "role", role, "requirement", req)
		return nil, goerror.NewBusiness("Forbidden", goerror.CodeForbidden)
	}

	acc, err := s.repoDB.GetAccountByUsername(ctx, clm.Username())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token subject has no account", "username", clm.Username())
		return nil, goerror.NewBusiness("User not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", clm.Username(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return acc.Principal(), nil
}
