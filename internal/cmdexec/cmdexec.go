// Package cmdexec wraps external tool invocation (smartctl) behind a
// swappable Runner so tests never shell out.
package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

var ErrUnsupportedOS = errors.New("unsupported OS")

// Runner abstracts external command execution.
type Runner interface {
	Exists(name string) bool
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type defaultRunner struct{}

func (defaultRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (defaultRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if runtime.GOOS != "linux" {
		return nil, ErrUnsupportedOS
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("command %s not found", name)
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

var runner Runner = defaultRunner{}

// SetRunner swaps the active runner. Returns a restore func.
func SetRunner(r Runner) (restore func()) {
	prev := runner
	runner = r
	return func() { runner = prev }
}

func Exists(name string) bool {
	return runner.Exists(name)
}

func Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return runner.Output(ctx, name, args...)
}
