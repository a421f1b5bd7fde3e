package entity

import (
	"errors"

	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

// ErrAdminExists is returned when a second ADMIN account would be created.
var ErrAdminExists = errors.New("identity: admin already exists")

type Account struct {
	ID       int64
	Username string
	Password string // hashed
	Role     access.Role
	Email    string
}

func (a Account) Principal() *access.Principal {
	return &access.Principal{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
		Email:    a.Email,
	}
}
