// Package stacktrace trims goroutine stacks down to this module's own frames.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 64

// Internal returns "internal/<pkg>/<file>.go:<line>" entries for the frames
// of the calling goroutine that live under a module's internal/ tree, innermost
// first. skip drops that many frames above the caller of Internal.
//
// Called from a deferred recover, the result still includes the frames that
// panicked.
func Internal(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var paths []string
	for {
		frame, more := frames.Next()
		if i := strings.Index(frame.File, "/internal/"); i != -1 && moduleFrame(frame.Function) {
			paths = append(paths, frame.File[i+1:]+":"+strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}

	return paths
}

// moduleFrame rejects standard library functions, whose import paths have no
// domain, so internal/runtime and friends stay out of the result.
func moduleFrame(function string) bool {
	domain, _, ok := strings.Cut(function, "/")
	return ok && strings.Contains(domain, ".")
}
