// Package stacktrace trims raw goroutine stacks down to the frames that belong
// to the service itself.
package stacktrace

import (
	"runtime/debug"
	"strings"
)

// DefaultMarkers select frames of code owned by this module layout.
var DefaultMarkers = []string{"/internal/", "/pkg/"}

// Frames returns "file.go:line" locations from a raw stack trace, keeping
// only frames whose path contains one of markers. Paths are shortened to start
// at the matched marker.
func Frames(stack []byte, markers ...string) []string {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)
	for _, line := range lines {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}
		// file lines end with " +0x1a" offsets
		end := strings.IndexByte(line[idx:], ' ')
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		location := line[:end]
		if strings.Contains(location, "/pkg/mod/") {
			continue
		}
		for _, marker := range markers {
			if i := strings.Index(location, marker); i != -1 {
				paths = append(paths, location[i+1:])
				break
			}
		}
	}

	return paths
}

// InternalPaths returns module frames from a raw stack trace.
func InternalPaths(stack []byte) []string {
	return Frames(stack, DefaultMarkers...)
}

// Current returns the module frames of the calling goroutine.
func Current() []string {
	return InternalPaths(debug.Stack())
}
