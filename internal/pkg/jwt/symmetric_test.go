package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

var testSecret = []byte(strings.Repeat("k", 32))

func newTestJWT(t *testing.T, clk *clock.Manual, secret []byte) *Symmetric {
	t.Helper()

	j, err := NewHS256(Config{Secret: secret, TTL: time.Minute, Clock: clk, UUID: uid.NewUUID()})
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}

	return j
}

func TestNewHS256(t *testing.T) {
	tests := []struct {
		name    string
		secret  []byte
		wantErr error
	}{
		{name: "EmptySecret", secret: nil, wantErr: ErrSecretRequired},
		{name: "ShortSecret", secret: []byte("short"), wantErr: ErrSigningKeyTooShort},
		{name: "Valid", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHS256(Config{Secret: tt.secret, Clock: clock.New(), UUID: uid.NewUUID()})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSymmetric_Verify(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		clk := clock.NewManual(time.Unix(1_700_000_000, 0))
		j := newTestJWT(t, clk, testSecret)
		token, err := j.Generate("alice", "USER")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act
		claims, err := j.Verify(token)

		// Assert
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if claims.Username() != "alice" || claims.Role != "USER" || claims.ID == "" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if !claims.ExpiresAt.Equal(clk.Now().Add(time.Minute)) {
			t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		// Arrange
		clk := clock.NewManual(time.Unix(1_700_000_000, 0))
		j := newTestJWT(t, clk, testSecret)
		token, _ := j.Generate("alice", "USER")

		// Act
		clk.Advance(2 * time.Minute)
		_, err := j.Verify(token)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
		if errors.Is(err, ErrInvalidToken) {
			t.Fatal("expired must be distinct from invalid")
		}
	})

	t.Run("WrongSignature", func(t *testing.T) {
		// Arrange
		clk := clock.NewManual(time.Unix(1_700_000_000, 0))
		other := newTestJWT(t, clk, []byte(strings.Repeat("x", 32)))
		token, _ := other.Generate("alice", "ADMIN")

		// Act
		_, err := newTestJWT(t, clk, testSecret).Verify(token)

		// Assert
		if !errors.Is(err, ErrTokenSignatureInvalid) || !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		clk := clock.NewManual(time.Unix(1_700_000_000, 0))

		_, err := newTestJWT(t, clk, testSecret).Verify("not-a-token")

		if !errors.Is(err, ErrTokenMalformed) || !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrTokenMalformed, got %v", err)
		}
	})
}
