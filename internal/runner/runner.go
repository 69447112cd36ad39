// Package runner executes external commands for scaffolding steps.
//
// Run never returns an error: every failure, including a spawn failure or a
// timeout, is folded into Result so callers can apply their own policy.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/conn-castle/expofast/internal/messages"
)

// DefaultTimeout bounds a single command when no timeout is configured.
const DefaultTimeout = 10 * time.Minute

// waitDelay is how long Run waits for output pipes to drain after the process is killed.
var waitDelay = 2 * time.Second

// Result is the outcome of one command.
type Result struct {
	OK       bool
	Output   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner runs shell command lines synchronously.
type Runner struct {
	// Stdout and Stderr receive streamed output when Run is not silent.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin is attached in streamed mode so generators can prompt. Nil means no input.
	Stdin io.Reader
	// Timeout bounds each command. Zero means DefaultTimeout.
	Timeout time.Duration
	// Env overrides the inherited environment when non-nil.
	Env []string
	Log logrus.FieldLogger
}

// New returns a Runner streaming to the process stdout/stderr.
func New(timeout time.Duration, log logrus.FieldLogger) *Runner {
	return &Runner{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Timeout: timeout,
		Log:     log,
	}
}

// Run executes command through the platform shell in dir.
// In silent mode stdout and stderr are captured into Result.Output.
func (r *Runner) Run(ctx context.Context, command string, dir string, silent bool) Result {
	if strings.TrimSpace(command) == "" {
		return Result{Output: messages.RunnerEmptyCommand, ExitCode: -1}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, args := shellCommand(command)
	cmd := exec.CommandContext(runCtx, shell, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	if r.Env != nil {
		cmd.Env = r.Env
	}
	configureProcessGroup(cmd)

	var captured bytes.Buffer
	if silent {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = writerOrDiscard(r.Stdout)
		cmd.Stderr = writerOrDiscard(r.Stderr)
		cmd.Stdin = r.Stdin
	}

	log := r.logger().WithFields(logrus.Fields{"command": command, "dir": dir, "silent": silent})
	log.Debug(messages.RunnerStartLog)

	start := time.Now()
	err := cmd.Run()
	result := Result{
		OK:       err == nil,
		Output:   captured.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		result.ExitCode = -1
		result.Output = diagnose(runCtx, ctx, err, command, timeout, &result)
	}

	log.WithFields(logrus.Fields{
		"ok":        result.OK,
		"exit_code": result.ExitCode,
		"timed_out": result.TimedOut,
		"duration":  result.Duration.Round(time.Millisecond).String(),
	}).Debug(messages.RunnerFinishedLog)
	return result
}

// diagnose builds the Output for a failed command and fills ExitCode/TimedOut.
func diagnose(runCtx context.Context, parent context.Context, err error, command string, timeout time.Duration, result *Result) string {
	var reason string
	var exitErr *exec.ExitError
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil:
		result.TimedOut = true
		reason = fmt.Sprintf(messages.RunnerTimedOutFmt, timeout, command)
	case parent.Err() != nil:
		reason = fmt.Sprintf(messages.RunnerCanceledFmt, command)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		reason = fmt.Sprintf(messages.RunnerExitFmt, result.ExitCode, command)
	case isStartError(err):
		reason = fmt.Sprintf(messages.RunnerStartFailedFmt, command, err)
	default:
		reason = fmt.Sprintf(messages.RunnerFailedFmt, command, err)
	}
	output := strings.TrimSpace(result.Output)
	if output == "" {
		return reason
	}
	return fmt.Sprintf(messages.RunnerOutputFmt, reason, output)
}

func isStartError(err error) bool {
	var pathErr *os.PathError
	return errors.Is(err, exec.ErrNotFound) || errors.As(err, &pathErr)
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
