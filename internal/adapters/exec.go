package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
)

// ExecAdapter runs native package tooling through os/exec. A non-zero
// exit code is reported in the result, not as an error; the error path
// is reserved for the tool being missing or unrunnable.
type ExecAdapter struct{}

func NewExecAdapter() ExecAdapter {
	return ExecAdapter{}
}

func (a ExecAdapter) Execute(ctx context.Context, command string, args ...string) (ports.ExecResult, error) {
	return a.ExecuteIn(ctx, "", command, args...)
}

func (a ExecAdapter) ExecuteIn(ctx context.Context, dir string, command string, args ...string) (ports.ExecResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Ctx(ctx).Debug().
				Str("command", command).
				Int("exit_code", result.ExitCode).
				Msg("command exited non-zero")
			return result, nil
		}
		return result, err
	}
	return result, nil
}

func (a ExecAdapter) LookPath(command string) (string, bool) {
	path, err := exec.LookPath(command)
	return path, err == nil
}
