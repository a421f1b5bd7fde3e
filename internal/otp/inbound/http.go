package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (*usecase.GenerateOutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput) error

	GetPolicy(ctx context.Context) (*entity.Policy, error)
	UpdatePolicy(ctx context.Context, in usecase.UpdatePolicyInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// need USER or ADMIN
	r.POST("/user/generateOtp", end.Generate)
	r.POST("/user/validateOtp", end.Validate)

	// need ADMIN
	r.GET("/admin/config", end.GetPolicy)
	r.POST("/admin/config", end.UpdatePolicy)
}
