package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
	"github.com/ochairo/android-resign/internal/logging"
)

// CommandPrefix marks every command line echoed to the build log
const CommandPrefix = "@@[command]"

// ProcessRunner executes external tools with an argument vector
// A run lasts until the tool exits or ctx is cancelled; there is no internal timeout.
type ProcessRunner struct {
	console *logging.FilteringWriter
	masker  *logging.SecretMasker
	logger  interfaces.Logger
}

// NewProcessRunner creates a runner that echoes commands and streams tool stdout to console.
// Everything written to console passes through masker first.
func NewProcessRunner(console io.Writer, masker *logging.SecretMasker, logger interfaces.Logger) *ProcessRunner {
	if console == nil {
		console = os.Stdout
	}
	return &ProcessRunner{
		console: logging.NewFilteringWriter(console, masker),
		masker:  masker,
		logger:  interfaces.LoggerOrNoOp(logger),
	}
}

// CommandLine renders argv as a copy-pasteable shell line with secrets masked
func (r *ProcessRunner) CommandLine(cmd gateways.Command) string {
	argv := append([]string{cmd.Name}, cmd.Args...)
	return shellquote.Join(r.masker.MaskAll(argv)...)
}

// Run executes cmd, streaming stdout to the console while capturing it.
// A non-zero exit yields a *errors.ToolError carrying the captured stderr.
func (r *ProcessRunner) Run(ctx context.Context, cmd gateways.Command) (*gateways.ExecuteResult, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("command name: %w", resignerrors.ErrEmptyValue)
	}

	startTime := time.Now()
	result := &gateways.ExecuteResult{}

	if _, err := fmt.Fprintf(r.console, "%s %s\n", CommandPrefix, r.CommandLine(cmd)); err != nil {
		return nil, fmt.Errorf("failed to write command line: %w", err)
	}
	if cmd.Description != "" {
		r.logger.Debug("Executing external tool", interfaces.F("description", cmd.Description))
	}

	//nolint:gosec // G204: tool invocation is intentional, argv is never passed through a shell
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = io.MultiWriter(r.console, &stdout)
	c.Stderr = &stderr

	err := c.Run()
	//nolint:errcheck // Flush of best effort console echo
	r.console.Flush()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = r.masker.Mask(stderr.String())

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case ctx.Err() != nil:
			err = fmt.Errorf("execution interrupted: %w", ctx.Err())
			result.ExitCode = -1
		default:
			result.ExitCode = -1
		}

		if result.Stderr != "" {
			//nolint:errcheck,gosec // G104: best effort echo of tool diagnostics
			io.WriteString(r.console, result.Stderr)
			//nolint:errcheck // Flush of best effort console echo
			r.console.Flush()
		}
		return result, resignerrors.NewToolError(filepath.Base(cmd.Name), result.ExitCode, result.Stderr, err)
	}

	result.Success = true
	return result, nil
}
