// Package obs holds the ambient logging helpers used across the agent,
// planner, and CLI: plain stderr writes with a "[tag] message" prefix,
// the same style cmd/gert's main.go used throughout rather than a
// structured logging library.
package obs

import (
	"fmt"
	"os"
)

// Infof writes an informational line to stderr, tagged with tag.
func Infof(tag, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]any{tag}, args...)...)
}

// Warnf writes a warning line to stderr, tagged with tag.
func Warnf(tag, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] warning: "+format+"\n", append([]any{tag}, args...)...)
}

// Errorf writes an error line to stderr, tagged with tag.
func Errorf(tag, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] error: "+format+"\n", append([]any{tag}, args...)...)
}
