package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

func TestUsecase_GetPolicy(t *testing.T) {
	t.Run("InstallsDefault", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t, allowAs(root), "")

		// Act
		p, err := env.uc.GetPolicy(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *p != entity.DefaultPolicy {
			t.Fatalf("expected default policy, got %+v", p)
		}
	})

	t.Run("UserForbidden", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t, allowAs(alice), "")

		// Act
		_, err := env.uc.GetPolicy(context.Background())

		// Assert
		if status, _ := statusOf(t, err); status != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", status)
		}
	})
}

func TestUsecase_UpdatePolicy(t *testing.T) {
	tests := []struct {
		name    string
		as      string
		in      UpdatePolicyInput
		wantErr int
		wantMsg string
	}{
		{name: "Updated", in: UpdatePolicyInput{CodeLength: "8", TTLSeconds: "120"}},
		{name: "Missing", in: UpdatePolicyInput{CodeLength: "8"}, wantErr: http.StatusBadRequest, wantMsg: "Missing config parameters"},
		{name: "NotInteger", in: UpdatePolicyInput{CodeLength: "8.5", TTLSeconds: "120"}, wantErr: http.StatusBadRequest, wantMsg: "Config parameters must be integers"},
		{name: "CodeTooShort", in: UpdatePolicyInput{CodeLength: "3", TTLSeconds: "120"}, wantErr: http.StatusBadRequest, wantMsg: "Invalid config values"},
		{name: "TTLTooLong", in: UpdatePolicyInput{CodeLength: "6", TTLSeconds: "3601"}, wantErr: http.StatusBadRequest, wantMsg: "Invalid config values"},
		{name: "UserForbidden", as: "user", in: UpdatePolicyInput{CodeLength: "x"}, wantErr: http.StatusForbidden, wantMsg: "Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			auth := allowAs(root)
			if tt.as == "user" {
				auth = allowAs(alice)
			}
			env := newTestEnv(t, auth, "")

			// Act
			err := env.uc.UpdatePolicy(context.Background(), tt.in)

			// Assert
			if tt.wantErr != 0 {
				status, msg := statusOf(t, err)
				if status != tt.wantErr || msg != tt.wantMsg {
					t.Fatalf("expected %d %q, got %d %q", tt.wantErr, tt.wantMsg, status, msg)
				}
				if env.store.policy != nil {
					t.Fatalf("policy must not change on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *env.store.policy != (entity.Policy{CodeLength: 8, TTLSeconds: 120}) {
				t.Fatalf("unexpected policy %+v", env.store.policy)
			}
		})
	}
}
