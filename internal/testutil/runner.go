package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fbkclanna/siblink/internal/runner"
)

// Call records one command issued through a FakeRunner.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as "name arg... @dir".
func (c Call) String() string {
	return strings.TrimSpace(c.Name+" "+strings.Join(c.Args, " ")) + " @" + c.Dir
}

// Line renders the call without its directory.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner records commands instead of executing them. The optional hooks
// decide the outcome of each call.
type FakeRunner struct {
	OnRun    func(c Call) error
	OnOutput func(c Call) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ runner.Runner = (*FakeRunner)(nil)

// Run records a state-changing call.
func (f *FakeRunner) Run(dir, name string, args ...string) error {
	c := f.record(dir, name, args)
	if f.OnRun != nil {
		return f.OnRun(c)
	}
	return nil
}

// Stream records the call and writes nothing unless OnOutput produces text,
// which is copied to stdout.
func (f *FakeRunner) Stream(dir string, stdout, _ io.Writer, name string, args ...string) error {
	c := f.record(dir, name, args)
	if f.OnOutput != nil {
		out, err := f.OnOutput(c)
		if out != "" {
			_, _ = io.WriteString(stdout, out)
		}
		return err
	}
	if f.OnRun != nil {
		return f.OnRun(c)
	}
	return nil
}

// Output records a query call.
func (f *FakeRunner) Output(dir, name string, args ...string) (string, error) {
	c := f.record(dir, name, args)
	if f.OnOutput != nil {
		return f.OnOutput(c)
	}
	return "", nil
}

// Calls returns a copy of all recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the recorded calls whose command line starts with prefix.
func (f *FakeRunner) Lines(prefix string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if strings.HasPrefix(c.Line(), prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeRunner) record(dir, name string, args []string) Call {
	c := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return c
}

// ExitError builds the error a real runner returns for a non-zero exit.
func ExitError(c Call, code int) error {
	return &runner.ExitError{Name: c.Name, Args: c.Args, Dir: c.Dir, Code: code, Err: fmt.Errorf("exit status %d", code)}
}
