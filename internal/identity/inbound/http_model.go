package inbound

import "net/http"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	adminExists bool
}

func (r RegisterResponse) Message() string {
	if r.adminExists {
		return "Admin already exists"
	}
	return "Registered"
}

func (r RegisterResponse) StatusCode() int {
	if r.adminExists {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is written as the bare token.
type LoginResponse struct {
	token string
}

func (r LoginResponse) Message() string {
	return r.token
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type UserDeleteRequest struct {
	Username string `json:"username"`
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) Message() string {
	return "User deleted"
}
