// Package errors provides the sentinel errors used to classify resign failures.
//
// Every fatal condition of a run maps onto one of these sentinels so callers
// can branch with errors.Is(). This package must not import other internal
// packages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigMissing indicates that a required configuration value is absent.
	ErrConfigMissing = errors.New("required input is missing")

	// ErrExternalTool indicates that an external process exited non-zero or
	// could not be started.
	ErrExternalTool = errors.New("external tool failed")

	// ErrArtifactNotFound indicates that an expected artifact is absent after
	// a conversion step.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrVerificationFailed indicates that a signature check reported the
	// artifact as unsigned.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrUnsupportedArtifact indicates an input that is neither an APK nor an AAB.
	ErrUnsupportedArtifact = errors.New("unsupported artifact type")

	// ErrEmptyValue indicates that a required argument was empty.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// ToolError describes a failed external process invocation.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

// NewToolError creates a ToolError for the given tool.
func NewToolError(tool string, exitCode int, stderr string, err error) *ToolError {
	return &ToolError{Tool: tool, ExitCode: exitCode, Stderr: stderr, Err: err}
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

// Missing returns an ErrConfigMissing error naming the key.
func Missing(key string) error {
	return fmt.Errorf("input %s is missing: %w", key, ErrConfigMissing)
}

// Wrap adds context to err while keeping it inspectable with errors.Is.
// A nil err yields nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
