package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

type UserDeleteInput struct {
	Username string
}

func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	admin, err := s.Authorize(ctx, access.RequireAdmin)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return goerror.NewInvalidInputMsg("Missing username", nil)
	}

	acc, err := s.repoDB.GetAccountByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "attempt to delete non-existent account", "username", username)
		return goerror.NewInvalidInputMsg("User not found or is admin", nil)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", username, "error", err)
		return goerror.NewServer(err)
	}

	if acc.Role == access.RoleAdmin {
		return goerror.NewInvalidInputMsg("Cannot delete admin", nil)
	}

	if strings.EqualFold(acc.Username, admin.Username) {
		return goerror.NewInvalidInputMsg("Cannot delete yourself", nil)
	}

	err = s.repoDB.DeleteAccountWithCodes(ctx, acc.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewInvalidInputMsg("User not found or is admin", nil)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete account", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "account deleted by admin", "account_id", acc.ID, "by_account_id", admin.ID)

	return nil
}
