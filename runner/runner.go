package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gantrydev/gantry/logger"
)

// DefaultTimeout bounds a single command when Options.Timeout is zero.
// Package installs over slow networks routinely take minutes.
const DefaultTimeout = 10 * time.Minute

// waitDelay bounds how long a killed or finished command can keep Wait
// blocked through inherited stdio pipes. npm commands spawn process trees,
// and an orphaned grandchild holding the pipe must not stall the run past
// its deadline.
const waitDelay = time.Second

// Options configure a single command execution.
type Options struct {
	// Dir is the working directory for the child process. Empty means the
	// current process directory; steps always pass an explicit path.
	Dir string

	// Stream sends child output to the controlling terminal instead of
	// capturing it. Streamed runs return an empty output string.
	Stream bool

	// Timeout overrides DefaultTimeout for this call.
	Timeout time.Duration

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// Runner executes one external command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, command string, opts Options) (string, error)
}

// CommandError reports a failed external command. It carries the original
// command line and whatever stderr was captured so callers can surface both.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands through the system shell, one child process per
// call. The command string is passed to the shell opaque; quoting is the
// caller's problem.
type ExecRunner struct {
	DefaultTimeout time.Duration
	Stdout         io.Writer
	Stderr         io.Writer
	logger         logger.Logger
}

func NewExecRunner(l logger.Logger) *ExecRunner {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &ExecRunner{
		DefaultTimeout: DefaultTimeout,
		logger:         l,
	}
}

func (r *ExecRunner) Run(ctx context.Context, command string, opts Options) (string, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = r.DefaultTimeout
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(ctx, command)
	cmd.Dir = opts.Dir
	cmd.WaitDelay = waitDelay
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if opts.Stream {
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()
		cmd.Stdin = os.Stdin
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	r.logger.Debug(fmt.Sprintf("Running command: %s (dir=%s timeout=%s)", command, opts.Dir, timeout))
	start := time.Now()
	err := cmd.Run()
	if err != nil {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			err = fmt.Errorf("timed out after %s: %w", timeout, err)
		case context.Canceled:
			err = fmt.Errorf("interrupted: %w", context.Canceled)
		}
		r.logger.Error(fmt.Sprintf("Command failed after %v: %s: %v", time.Since(start), command, err))
		return "", &CommandError{
			Command: command,
			Stderr:  strings.TrimSpace(stderrBuf.String()),
			Err:     err,
		}
	}

	r.logger.Debug(fmt.Sprintf("Command completed in %v: %s", time.Since(start), command))
	return stdoutBuf.String(), nil
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// shellCommand builds the platform shell invocation for a command line.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
