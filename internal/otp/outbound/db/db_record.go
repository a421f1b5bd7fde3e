package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

const (
	queryCreateRecord = `INSERT INTO otp_codes (id, user_id, operation_id, code, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	querySupersedeActive = `UPDATE otp_codes SET status = 'EXPIRED'
WHERE user_id = $1 AND operation_id = $2 AND status = 'ACTIVE'`

	// The outer status predicate is re-checked after the row lock so a
	// concurrent consumer or the reaper can never be overwritten.
	queryConsumeRecord = `UPDATE otp_codes SET status = 'USED'
WHERE id = (
    SELECT id FROM otp_codes
    WHERE user_id = $1 AND operation_id = $2 AND code = $3
      AND status = 'ACTIVE' AND expires_at > $4
    ORDER BY created_at DESC
    LIMIT 1
    FOR UPDATE SKIP LOCKED
) AND status = 'ACTIVE'`

	queryExpireLapsed = `UPDATE otp_codes SET status = 'EXPIRED'
WHERE status = 'ACTIVE' AND expires_at < $1`
)

// CreateRecord stores rec. With supersede, older ACTIVE records for the same
// account and operation are expired in the same transaction.
func (s *DB) CreateRecord(ctx context.Context, rec entity.Record, supersede bool) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
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

	if supersede {
		if _, err = tx.Exec(ctx, querySupersedeActive, rec.UserID, rec.OperationID); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, queryCreateRecord,
		rec.ID, rec.UserID, rec.OperationID, rec.Code, rec.Status.String(), rec.CreatedAt, rec.ExpiresAt,
	); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// ConsumeRecord reports whether exactly one matching record moved from ACTIVE to USED.
func (s *DB) ConsumeRecord(ctx context.Context, userID int64, operationID, code string, now time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeRecord")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryConsumeRecord, userID, operationID, code, now)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) ExpireLapsed(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "ExpireLapsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryExpireLapsed, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
