package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
)

const queryCreateAccount = `INSERT INTO users (id, username, password, role, email)
VALUES ($1, $2, $3, $4, NULLIF($5, ''))`

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateAccount,
		acc.ID, acc.Username, acc.Password, acc.Role.String(), acc.Email)
	err = s.mapError(err)

	return err
}
