package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

type UserListItem struct {
	ID       int64
	Username string
	Role     string
	Email    string
}

type UserListOutput struct {
	Users []UserListItem
}

func (s *Usecase) UserList(ctx context.Context) (*UserListOutput, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	if _, err := s.Authorize(ctx, access.RequireAdmin); err != nil {
		return nil, err
	}

	accounts, err := s.repoDB.ListNonAdminAccounts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list non admin accounts", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserListOutput{
		Users: lo.Map(accounts, func(acc entity.Account, _ int) UserListItem {
			return UserListItem{
				ID:       acc.ID,
				Username: acc.Username,
				Role:     acc.Role.String(),
				Email:    acc.Email,
			}
		}),
	}, nil
}
