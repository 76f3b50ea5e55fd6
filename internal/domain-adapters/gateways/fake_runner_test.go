package gateways

import (
	"context"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

// recordingRunner records commands and answers them from a handler
type recordingRunner struct {
	commands []gateways.Command
	handler  func(cmd gateways.Command) (string, error)
}

func (r *recordingRunner) Run(_ context.Context, cmd gateways.Command) (*gateways.ExecuteResult, error) {
	r.commands = append(r.commands, cmd)
	stdout := ""
	if r.handler != nil {
		var err error
		stdout, err = r.handler(cmd)
		if err != nil {
			return &gateways.ExecuteResult{ExitCode: 1, Stdout: stdout}, err
		}
	}
	return &gateways.ExecuteResult{Success: true, Stdout: stdout}, nil
}

func (r *recordingRunner) argv(i int) string {
	cmd := r.commands[i]
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}

func toolFailure(tool string) error {
	return resignerrors.NewToolError(tool, 1, "boom", nil)
}
