package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalAdapter_PutObject(t *testing.T) {
	t.Run("WritesFileInNewDir", func(t *testing.T) {
		// Arrange
		dir := filepath.Join(t.TempDir(), "otp_codes")
		s, err := Open(context.Background(), Options{Driver: "local"})
		if err != nil {
			t.Fatalf("new storage: %v", err)
		}

		// Act
		info, err := s.PutObject(context.Background(), dir, "otp_alice_1.txt", strings.NewReader("Code: 123456"), PutOptions{
			ContentType: "text/plain",
		})

		// Assert
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if info.Size != int64(len("Code: 123456")) {
			t.Fatalf("unexpected size %d", info.Size)
		}
		got, err := os.ReadFile(filepath.Join(dir, "otp_alice_1.txt"))
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != "Code: 123456" {
			t.Fatalf("unexpected content %q", got)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
		}
	})

	t.Run("RejectsEscapingKeys", func(t *testing.T) {
		s := NewLocal()

		for _, key := range []string{"", "../x.txt", "a/b.txt", ".hidden"} {
			_, err := s.PutObject(context.Background(), t.TempDir(), key, strings.NewReader("x"), PutOptions{})
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
			}
		}
	})
}

func TestOpen_Unknown(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "ftp"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestLocalAdapter_RejectsOversizedObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	body := bytes.Repeat([]byte("x"), MaxObjectSize+1)

	// Act
	_, err := NewLocal().PutObject(context.Background(), dir, "big.txt", bytes.NewReader(body), PutOptions{})

	// Assert
	if !errors.Is(err, ErrObjectTooLarge) {
		t.Fatalf("expected ErrObjectTooLarge, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "big.txt")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no object written, stat err %v", statErr)
	}
}

func TestSeekable(t *testing.T) {
	t.Run("KnownSizeSeeker", func(t *testing.T) {
		r := strings.NewReader("Code: 1")

		got, size, err := seekable(r, 7)

		if err != nil || size != 7 || got != io.ReadSeeker(r) {
			t.Fatalf("expected reader passed through, got size %d err %v", size, err)
		}
	})

	t.Run("StreamIsBuffered", func(t *testing.T) {
		got, size, err := seekable(io.MultiReader(strings.NewReader("Code: "), strings.NewReader("1")), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		b, _ := io.ReadAll(got)
		if size != 7 || string(b) != "Code: 1" {
			t.Fatalf("unexpected buffered body %q size %d", b, size)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		_, _, err := seekable(io.LimitReader(neverEnding{}, MaxObjectSize+10), 0)

		if !errors.Is(err, ErrObjectTooLarge) {
			t.Fatalf("expected ErrObjectTooLarge, got %v", err)
		}
	})
}

type neverEnding struct{}

func (neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}
