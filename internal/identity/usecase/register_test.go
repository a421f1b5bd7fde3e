package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

func TestUsecase_Register(t *testing.T) {
	t.Run("ValidationErrors", func(t *testing.T) {
		tests := []struct {
			name string
			in   RegisterInput
		}{
			{name: "ShortUsername", in: RegisterInput{Username: "ab", Password: "secret1", Role: "USER", Email: "a@b.co"}},
			{name: "ShortPassword", in: RegisterInput{Username: "alice", Password: "12345", Role: "USER", Email: "a@b.co"}},
			{name: "UnknownRole", in: RegisterInput{Username: "alice", Password: "secret1", Role: "ROOT", Email: "a@b.co"}},
			{name: "UserWithoutEmail", in: RegisterInput{Username: "alice", Password: "secret1", Role: "USER"}},
			{name: "UserBadEmail", in: RegisterInput{Username: "alice", Password: "secret1", Role: "user", Email: "nope"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Arrange
				created := false
				uc := newTestUsecase(t, &fakeRepo{
					createAccount: func(context.Context, entity.Account) error {
						created = true
						return nil
					},
				}, nil)

				// Act
				_, err := uc.Register(context.Background(), tt.in)

				// Assert
				assertCode(t, err, http.StatusBadRequest, "")
				if created {
					t.Fatalf("account must not be created on validation error")
				}
			})
		}
	})

	t.Run("StoresUpperCaseRoleAndHash", func(t *testing.T) {
		// Arrange
		var got entity.Account
		uc := newTestUsecase(t, &fakeRepo{
			createAccount: func(_ context.Context, acc entity.Account) error {
				got = acc
				return nil
			},
		}, nil)

		// Act
		out, err := uc.Register(context.Background(), RegisterInput{
			Username: " alice ", Password: "secret1", Role: "user", Email: "alice@example.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AdminExists {
			t.Fatalf("unexpected admin exists outcome")
		}
		if got.Username != "alice" || got.Role != access.RoleUser || got.ID == 0 {
			t.Fatalf("unexpected account stored: %+v", got)
		}
		if got.Password == "secret1" || !testBcrypt.Verify(got.Password, "secret1") {
			t.Fatalf("expected bcrypt hash of password")
		}
	})

	t.Run("AdminWithoutEmail", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newMemRepo(), nil)

		// Act
		out, err := uc.Register(context.Background(), RegisterInput{Username: "root", Password: "secret1", Role: "admin"})

		// Assert
		if err != nil || out.AdminExists {
			t.Fatalf("expected admin registration, got %+v, %v", out, err)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeRepo{
			getAccountByUsername: func(context.Context, string) (*entity.Account, error) {
				return &entity.Account{ID: 1, Username: "alice"}, nil
			},
		}, nil)

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			Username: "alice", Password: "secret1", Role: "USER", Email: "alice@example.com",
		})

		// Assert
		assertCode(t, err, http.StatusBadRequest, "Username already exists")
	})

	t.Run("DuplicateUsernameRace", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeRepo{
			createAccount: func(context.Context, entity.Account) error { return goerror.ErrConflict },
		}, nil)

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			Username: "alice", Password: "secret1", Role: "USER", Email: "alice@example.com",
		})

		// Assert
		assertCode(t, err, http.StatusBadRequest, "Username already exists")
	})

	t.Run("SecondAdmin", func(t *testing.T) {
		// Arrange
		created := false
		uc := newTestUsecase(t, &fakeRepo{
			adminExists: func(context.Context) (bool, error) { return true, nil },
			createAccount: func(context.Context, entity.Account) error {
				created = true
				return nil
			},
		}, nil)

		// Act
		out, err := uc.Register(context.Background(), RegisterInput{Username: "root2", Password: "secret1", Role: "ADMIN"})

		// Assert
		if err != nil {
			t.Fatalf("second admin is not an error, got %v", err)
		}
		if !out.AdminExists {
			t.Fatalf("expected admin exists outcome")
		}
		if created {
			t.Fatalf("second admin must not be stored")
		}
	})

	t.Run("RepoError", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeRepo{
			createAccount: func(context.Context, entity.Account) error { return errors.New("db down") },
		}, nil)

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			Username: "alice", Password: "secret1", Role: "USER", Email: "alice@example.com",
		})

		// Assert
		assertCode(t, err, http.StatusInternalServerError, "Internal server error")
	})
}

func TestUsecase_Register_ConcurrentAdmins(t *testing.T) {
	// Arrange
	repo := newMemRepo()
	uc := newTestUsecase(t, repo, nil)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	// Act
	for i := range n {
		wg.Go(func() {
			out, err := uc.Register(context.Background(), RegisterInput{
				Username: "admin" + string(rune('a'+i)),
				Password: "secret1",
				Role:     "ADMIN",
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if !out.AdminExists {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	// Assert
	if succeeded != 1 {
		t.Fatalf("expected exactly one admin, got %d", succeeded)
	}
	if ok, _ := repo.AdminExists(context.Background()); !ok {
		t.Fatalf("expected admin stored")
	}
}
