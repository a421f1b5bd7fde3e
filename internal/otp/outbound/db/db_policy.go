package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

const (
	queryInstallDefaultPolicy = `INSERT INTO otp_config (id, code_length, ttl_seconds)
VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING`

	queryGetPolicy = `SELECT code_length, ttl_seconds FROM otp_config WHERE id = 1`

	queryUpsertPolicy = `INSERT INTO otp_config (id, code_length, ttl_seconds)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET code_length = EXCLUDED.code_length, ttl_seconds = EXCLUDED.ttl_seconds`
)

// GetPolicy returns the singleton policy, installing the defaults on first read.
func (s *DB) GetPolicy(ctx context.Context) (_ *entity.Policy, err error) {
	ctx, span := s.startSpan(ctx, "GetPolicy")
	defer func() { s.endSpan(span, err) }()

	def := entity.DefaultPolicy
	if _, err = s.conn.Exec(ctx, queryInstallDefaultPolicy, def.CodeLength, def.TTLSeconds); err != nil {
		return nil, err
	}

	var p entity.Policy
	if err = s.conn.QueryRow(ctx, queryGetPolicy).Scan(&p.CodeLength, &p.TTLSeconds); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &p, nil
}

func (s *DB) UpsertPolicy(ctx context.Context, p entity.Policy) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertPolicy")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpsertPolicy, p.CodeLength, p.TTLSeconds)
	return err
}
