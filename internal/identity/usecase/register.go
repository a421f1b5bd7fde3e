package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

type RegisterInput struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=6,max=128"`
	Role     string `validate:"required,role"`
	Email    string `validate:"required_if=Role USER,omitempty,email,max=255"`
}

type RegisterOutput struct {
	// AdminExists is set when the request asked for a second ADMIN; nothing is stored.
	AdminExists bool
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = access.ParseRole(in.Role).String()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetAccountByUsername(ctx, in.Username)
	if err == nil {
		slog.WarnContext(ctx, "username already taken", "username", in.Username)
		return nil, goerror.NewBusiness("Username already exists", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	role := access.Role(in.Role)
	if role == access.RoleAdmin {
		exists, err := s.repoDB.AdminExists(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check admin exists", "error", err)
			return nil, goerror.NewServer(err)
		}
		if exists {
			slog.WarnContext(ctx, "attempt to register second admin", "username", in.Username)
			return &RegisterOutput{AdminExists: true}, nil
		}
	}

	passHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.CreateAccount(ctx, entity.Account{
		ID:       s.uid.Generate(),
		Username: in.Username,
		Password: string(passHash),
		Role:     role,
		Email:    in.Email,
	})
	if errors.Is(err, entity.ErrAdminExists) {
		slog.WarnContext(ctx, "concurrent admin registration lost", "username", in.Username)
		return &RegisterOutput{AdminExists: true}, nil
	}
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Username already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "account registered", "username", in.Username, "role", role)

	return &RegisterOutput{}, nil
}
