package hash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	t.Run("HashThenVerify", func(t *testing.T) {
		// Arrange
		h := NewBcrypt(bcrypt.MinCost)

		// Act
		hashed, err := h.Hash("secret1")

		// Assert
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		if string(hashed) == "secret1" {
			t.Fatal("hash must not equal plaintext")
		}
		if !h.Verify(string(hashed), "secret1") {
			t.Fatal("expected verify to succeed")
		}
		if h.Verify(string(hashed), "secret2") {
			t.Fatal("expected verify to fail for wrong password")
		}
	})

	t.Run("LongPasswords", func(t *testing.T) {
		// Arrange
		h := NewBcrypt(bcrypt.MinCost)
		long := strings.Repeat("a", 128)

		// Act
		hashed, err := h.Hash(long)

		// Assert
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		if !h.Verify(string(hashed), long) {
			t.Fatal("expected verify to succeed for a 128 byte password")
		}
		if h.Verify(string(hashed), strings.Repeat("a", 127)+"b") {
			t.Fatal("passwords differing after byte 72 must not match")
		}
		if h.Verify(string(hashed), long[:72]) {
			t.Fatal("a 72 byte prefix must not match the full password")
		}
	})

	t.Run("EmptyHashNeverVerifies", func(t *testing.T) {
		h := NewBcrypt(bcrypt.MinCost)

		if h.Verify("", "") {
			t.Fatal("expected empty hash to fail")
		}
	})

	t.Run("InvalidCostFallsBack", func(t *testing.T) {
		h := NewBcrypt(100)

		if h.cost != DefaultBcryptCost {
			t.Fatalf("expected cost %d, got %d", DefaultBcryptCost, h.cost)
		}
	})
}
