package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const (
	queryDeleteOtpCodesByUser = `DELETE FROM otp_codes WHERE user_id = $1`
	queryDeleteNonAdminUser   = `DELETE FROM users WHERE id = $1 AND role <> 'ADMIN'`
)

// DeleteAccountWithCodes removes the account's codes and then the account in
// one transaction. Admin accounts are never removed.
func (s *DB) DeleteAccountWithCodes(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteAccountWithCodes")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, queryDeleteOtpCodesByUser, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, queryDeleteNonAdminUser, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	err = tx.Commit(ctx)
	return err
}
