package adapters

import (
	"context"
	"strings"

	"github.com/haseebmalik18/switchr/internal/ports"
)

// fakeExecutor scripts external tool invocations by command prefix
// and records everything that was run.
type fakeExecutor struct {
	responses map[string]ports.ExecResult
	failures  map[string]error
	paths     map[string]string
	calls     []string
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		responses: map[string]ports.ExecResult{},
		failures:  map[string]error{},
		paths:     map[string]string{},
	}
}

func (f *fakeExecutor) script(prefix string, result ports.ExecResult) {
	f.responses[prefix] = result
}

func (f *fakeExecutor) Execute(_ context.Context, command string, args ...string) (ports.ExecResult, error) {
	return f.run(command, args...)
}

func (f *fakeExecutor) ExecuteIn(_ context.Context, _ string, command string, args ...string) (ports.ExecResult, error) {
	return f.run(command, args...)
}

func (f *fakeExecutor) run(command string, args ...string) (ports.ExecResult, error) {
	line := strings.Join(append([]string{command}, args...), " ")
	f.calls = append(f.calls, line)
	for prefix, err := range f.failures {
		if strings.HasPrefix(line, prefix) {
			return ports.ExecResult{}, err
		}
	}
	for prefix, result := range f.responses {
		if strings.HasPrefix(line, prefix) {
			return result, nil
		}
	}
	return ports.ExecResult{}, nil
}

func (f *fakeExecutor) LookPath(command string) (string, bool) {
	path, ok := f.paths[command]
	return path, ok
}

type assertError string

func (e assertError) Error() string { return string(e) }

func fakeExecResult(code int, stdout string, stderr string) ports.ExecResult {
	return ports.ExecResult{Stdout: stdout, Stderr: stderr, ExitCode: code}
}

func (f *fakeExecutor) ran(prefix string) bool {
	for _, line := range f.calls {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
