// Package gateways defines interfaces for external tool adapters.
package gateways

import (
	"context"
	"time"
)

// Command describes one external process invocation as a program plus argument vector.
// Nothing is interpreted by a shell.
type Command struct {
	Name        string
	Args        []string
	Env         []string // extra KEY=VALUE pairs appended to the current environment
	Dir         string
	Description string
}

// ExecuteResult contains the result of a process execution
type ExecuteResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandRunner executes external processes, streaming stdout while capturing it.
// A non-zero exit is reported as an error wrapping errors.ErrExternalTool.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*ExecuteResult, error)
}
