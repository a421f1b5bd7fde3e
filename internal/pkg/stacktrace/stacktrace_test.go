package stacktrace

import (
	"strings"
	"testing"
)

func TestInternal(t *testing.T) {
	t.Run("IncludesCaller", func(t *testing.T) {
		// Act
		paths := Internal(0)

		// Assert
		if len(paths) == 0 {
			t.Fatal("expected at least one internal frame")
		}
		if !strings.HasPrefix(paths[0], "internal/pkg/stacktrace/stacktrace_test.go:") {
			t.Fatalf("expected the test file first, got %q", paths[0])
		}
	})

	t.Run("KeepsPanickingFrame", func(t *testing.T) {
		// Arrange
		var paths []string
		boom := func() {
			defer func() {
				if recover() != nil {
					paths = Internal(0)
				}
			}()
			var m map[string]int
			m["x"] = 1
		}

		// Act
		boom()

		// Assert
		if len(paths) < 2 {
			t.Fatalf("expected panic frames, got %v", paths)
		}
		for _, p := range paths {
			if strings.Contains(p, "/internal/") || !strings.HasPrefix(p, "internal/") {
				t.Fatalf("path %q must be trimmed to the internal tree", p)
			}
		}
	})
}
