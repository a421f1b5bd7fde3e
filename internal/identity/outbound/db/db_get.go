package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

const (
	queryGetAccountByUsername = `SELECT id, username, password, role, COALESCE(email, '')
FROM users WHERE username = $1`

	queryAdminExists = `SELECT EXISTS (SELECT 1 FROM users WHERE role = 'ADMIN')`

	queryListNonAdminAccounts = `SELECT id, username, role, COALESCE(email, '')
FROM users WHERE role <> 'ADMIN' ORDER BY username`
)

func (s *DB) GetAccountByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByUsername")
	defer func() { s.endSpan(span, err) }()

	var (
		acc  entity.Account
		role string
	)
	err = s.conn.QueryRow(ctx, queryGetAccountByUsername, username).
		Scan(&acc.ID, &acc.Username, &acc.Password, &role, &acc.Email)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	acc.Role = access.Role(role)

	return &acc, nil
}

func (s *DB) AdminExists(ctx context.Context) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AdminExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	if err = s.conn.QueryRow(ctx, queryAdminExists).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (s *DB) ListNonAdminAccounts(ctx context.Context) (_ []entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "ListNonAdminAccounts")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListNonAdminAccounts)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Account, error) {
		var (
			acc  entity.Account
			role string
		)
		if err := row.Scan(&acc.ID, &acc.Username, &role, &acc.Email); err != nil {
			return entity.Account{}, err
		}
		acc.Role = access.Role(role)
		return acc, nil
	})
}
