package usecase

import (
	"context"

	"github.com/casbin/casbin/v3"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetAccountByUsername(ctx context.Context, username string) (*entity.Account, error)
	AdminExists(ctx context.Context) (bool, error)
	ListNonAdminAccounts(ctx context.Context) ([]entity.Account, error)

	CreateAccount(ctx context.Context, acc entity.Account) error

	DeleteAccountWithCodes(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	bcrypt    hash.Hash
	uid       uid.NumberID
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Bcrypt     hash.Hash
	UID        uid.NumberID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		bcrypt:    dep.Bcrypt,
		uid:       dep.UID,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
