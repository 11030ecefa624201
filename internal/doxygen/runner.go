package doxygen

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"github.com/soasis/docgen/internal/logfields"
)

// Runner abstracts how external toolchain commands are executed. This allows
// swapping the real binaries (ExecRunner) with alternative strategies in
// tests without changing extraction orchestration.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// ExecRunner invokes the named binary from PATH with the given working
// directory. Both invocation streams are captured and surfaced through the
// logger; a non-nil return is either a start failure or an *exec.ExitError.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Running external command", slog.String("command", name), logfields.Dir(dir))

	err := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("command stdout", slog.String("command", name), slog.String("output", out))
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("command stderr", slog.String("command", name), slog.String("error_output", errOut))
	}
	return err
}

// NoopRunner performs no execution; useful in tests or dry runs.
type NoopRunner struct{}

func (NoopRunner) Run(_ context.Context, dir string, name string, _ ...string) error {
	slog.Debug("NoopRunner skipping command", slog.String("command", name), logfields.Dir(dir))
	return nil
}
