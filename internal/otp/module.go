package otp

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/otp/inbound"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/channel"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/storage"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

// Dependency wires the otp module. Storage, Mail and Messaging are optional:
// a missing client leaves its channel unconfigured.
type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Authorizer  access.Authorizer          `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Storage     storage.Storage
	Mail        mail.Mail
	Messaging   messaging.Messaging
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbOtp := db.NewDB(dep.DBConn, dep.Instrument)

	telegram := channel.NewTelegram(channel.TelegramConfig{
		APIURL: dep.Config.GetString("modules.otp.telegram.api_url"),
		ChatID: dep.Config.GetString("modules.otp.telegram.chat_id"),
	}, dep.Instrument)

	senders := map[entity.Channel]usecase.Sender{
		entity.ChannelFile:     channel.NewFile(dep.Storage, dep.Config.GetString("storage.bucket"), dep.Clock, dep.Instrument),
		entity.ChannelEmail:    channel.NewEmail(dep.Mail, dep.Instrument),
		entity.ChannelSMS:      channel.NewSMS(dep.Messaging, dep.Config.GetString("modules.otp.sms.topic"), dep.Instrument),
		entity.ChannelTelegram: telegram,
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      dbOtp,
		Authorizer:  dep.Authorizer,
		Senders:     senders,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return inbound.RegisterReaper(dep.Ctx, dep.Goroutine, dep.UUID, uc,
		dep.Config.GetSecond("modules.otp.reaper_interval_seconds"))
}
