// Package runner executes external processes (git, npm, user commands) on
// behalf of siblink. Mutating invocations honour dry-run mode; queries always
// execute so that read-only information stays accurate under --noop.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Runner is the process-execution contract shared by the git and npm clients.
type Runner interface {
	// Run executes a command that changes state, streaming its output.
	Run(dir, name string, args ...string) error
	// Output executes a query command and returns its stdout.
	Output(dir, name string, args ...string) (string, error)
	// Stream executes a command with caller-supplied output writers.
	Stream(dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// ExitError reports an external command that exited with a non-zero status.
type ExitError struct {
	Name   string
	Args   []string
	Dir    string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s returned %d", e.Command(), e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Command returns the command line that failed.
func (e *ExitError) Command() string {
	return strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
}

// IsExitError reports whether err is (or wraps) a non-zero process exit.
func IsExitError(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee)
}

// Exec runs commands with os/exec.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
	DryRun bool

	mu sync.Mutex
}

// New returns an Exec writing to the process stdout/stderr.
func New(dryRun bool) *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr, DryRun: dryRun}
}

// Run executes name with args in dir. In dry-run mode the command line is
// printed instead.
func (r *Exec) Run(dir, name string, args ...string) error {
	return r.Stream(dir, r.stdout(), r.stderr(), name, args...)
}

// Stream is Run with explicit output writers. The dry-run line goes to
// stdout.
func (r *Exec) Stream(dir string, stdout, stderr io.Writer, name string, args ...string) error {
	if r.DryRun {
		r.skipped(stdout, dir, name, args)
		return nil
	}
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return wrap(cmd.Run(), dir, name, args, "")
}

// Output executes a query and returns its stdout. Stderr is captured and
// attached to the error on failure.
func (r *Exec) Output(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrap(err, dir, name, args, stderr.String())
	}
	return stdout.String(), nil
}

func (r *Exec) skipped(w io.Writer, dir, name string, args []string) {
	line := "(skipped) " + strings.TrimSpace(name+" "+strings.Join(args, " "))
	if dir != "" {
		line += " [cwd=" + dir + "]"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(w, line)
}

func (r *Exec) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Exec) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func wrap(err error, dir, name string, args []string, stderr string) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Name: name, Args: args, Dir: dir, Code: ee.ExitCode(), Stderr: stderr, Err: err}
	}
	return fmt.Errorf("%s: %w", strings.TrimSpace(name+" "+strings.Join(args, " ")), err)
}
