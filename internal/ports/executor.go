package ports

import "context"

// ExecResult carries the outcome of one external tool invocation.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecutorPort invokes native package tooling. A non-zero exit code is
// reported through ExecResult, not the error; the error is reserved
// for failures to run the tool at all.
type ExecutorPort interface {
	Execute(ctx context.Context, command string, args ...string) (ExecResult, error)
	// ExecuteIn runs the command with dir as its working directory.
	ExecuteIn(ctx context.Context, dir string, command string, args ...string) (ExecResult, error)
	LookPath(command string) (string, bool)
}
