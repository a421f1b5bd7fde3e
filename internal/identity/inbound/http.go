package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	UserList(ctx context.Context) (*usecase.UserListOutput, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/register", end.Register)
	r.POST("/login", end.Login)

	// need ADMIN
	r.GET("/admin/users", end.UserList)
	r.POST("/admin/deleteUser", end.UserDelete)
}
