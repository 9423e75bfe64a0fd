// Package shared provides common utility functions used across
// multiple packages in the switchr codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizePipName lowercases a Python package name and replaces
// underscores and dots with hyphens, following PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// ExitStatusError creates a formatted error for a package tool that
// exited non-zero while acting on target.
func ExitStatusError(code int, target string) error {
	return fmt.Errorf("exit=%d target=%s", code, target)
}

// MalformedLineError marks a manifest line that failed to parse.
func MalformedLineError(line string) error {
	return fmt.Errorf("malformed line %q", line)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// FirstLine returns the first line of command output, trimmed. Version
// probes (`node --version` and friends) report a single line but some
// tools prepend warnings.
func FirstLine(output string) string {
	trimmed := strings.TrimSpace(output)
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		return strings.TrimSpace(trimmed[:idx])
	}
	return trimmed
}
