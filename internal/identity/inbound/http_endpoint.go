package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration, login and account administration.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an account. A second ADMIN is answered with 400 and no account.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Email:    req.Email,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{adminExists: resp.AdminExists}, nil
}

// Login verifies credentials and returns a session token as the body.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{token: resp.Token}, nil
}

func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	resp, err := h.uc.UserList(r.Context())
	if err != nil {
		return nil, err
	}

	return UserListResponse{
		Users: lo.Map(resp.Users, func(u usecase.UserListItem, _ int) UserResponse {
			return UserResponse{
				ID:       u.ID,
				Username: u.Username,
				Role:     u.Role,
				Email:    u.Email,
			}
		}),
	}, nil
}

func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	var req UserDeleteRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{Username: req.Username}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}
