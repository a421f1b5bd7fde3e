package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/identity"
	"github.com/shandysiswandi/otpgate/internal/otp"
)

func (a *App) initModules() {
	authorizer, err := identity.New(identity.Dependency{
		DBConn:     a.dbConn,
		Enforcer:   a.casbin,
		Router:     a.router,
		Instrument: a.ins,
		UID:        a.uid,
		Bcrypt:     a.bcrypt,
		Validator:  a.validator,
		JWT:        a.jwt,
	})
	if err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	if err := otp.New(otp.Dependency{
		Ctx:         a.ctx,
		DBConn:      a.dbConn,
		Goroutine:   a.goroutine,
		Router:      a.router,
		Authorizer:  authorizer,
		Idempotency: a.idemp,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		UUID:        a.uuid,
		Clock:       a.clock,
		Validator:   a.validator,
		Storage:     a.storage,
		Mail:        a.mail,
		Messaging:   a.messaging,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
}
