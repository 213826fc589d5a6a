package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/martinsuchenak/devstackctl/internal/log"
)

// ErrNotInstalled reports that the requested binary is not on PATH.
var ErrNotInstalled = errors.New("command not installed")

// Result captures the outcome of a single external command invocation.
// Callers decide whether a non-zero exit aborts the operation; nothing is
// retried here.
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited zero.
func (r *Result) Ok() bool {
	return r.ExitCode == 0
}

// Err converts a failed result into an error describing the command and
// whatever the tool printed on stderr. Returns nil for a successful result.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(r.Stdout)
	}
	if msg == "" {
		return fmt.Errorf("%s exited with status %d", r.Command, r.ExitCode)
	}
	return fmt.Errorf("%s exited with status %d: %s", r.Command, r.ExitCode, msg)
}

// Runner executes external commands. The interface exists so callers can be
// tested without touching the host.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

// Run executes name with args, waiting for completion. A non-zero exit is
// not an error at this level; it is reported through Result.ExitCode so the
// caller can decide. The returned error covers failures to run the command
// at all, ErrNotInstalled when the binary is missing.
func (Exec) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	res := &Result{Command: name, Args: args}

	path, err := exec.LookPath(name)
	if err != nil {
		return res, fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running external command", "command", name, "args", strings.Join(args, " "))

	err = cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", name, err)
	}

	return res, nil
}
