package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetPolicy(ctx context.Context) (*entity.Policy, error)
	UpsertPolicy(ctx context.Context, p entity.Policy) error

	CreateRecord(ctx context.Context, rec entity.Record, supersede bool) error
	ConsumeRecord(ctx context.Context, userID int64, operationID, code string, now time.Time) (bool, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

// Sender delivers a code to a destination over one channel.
type Sender interface {
	IsConfigured() bool
	SendCode(ctx context.Context, destination, code string) error
}

type Usecase struct {
	repoDB     repoDB
	authorizer access.Authorizer
	senders    map[entity.Channel]Sender
	idemp      idempotency.Idempotency
	validator  validator.Validator
	cfg        config.Config
	uid        uid.NumberID
	clock      clock.Clocker
	ins        instrument.Instrumentation
	random     io.Reader
	expired    metric.Int64Counter
}

type Dependency struct {
	RepoDB      repoDB
	Authorizer  access.Authorizer
	Senders     map[entity.Channel]Sender
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
	// Random is the digit source; crypto/rand when nil.
	Random io.Reader
}

func New(dep Dependency) *Usecase {
	random := dep.Random
	if random == nil {
		random = rand.Reader
	}

	var expired metric.Int64Counter = noop.Int64Counter{}
	if c, err := dep.Instrument.Meter("otp.usecase").Int64Counter(
		"otp.reaper.expired",
		metric.WithDescription("Number of ACTIVE codes moved to EXPIRED by the reaper"),
	); err == nil {
		expired = c
	}

	return &Usecase{
		repoDB:     dep.RepoDB,
		authorizer: dep.Authorizer,
		senders:    dep.Senders,
		idemp:      dep.Idempotency,
		validator:  dep.Validator,
		cfg:        dep.Config,
		uid:        dep.UID,
		clock:      dep.Clock,
		ins:        dep.Instrument,
		random:     random,
		expired:    expired,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}
