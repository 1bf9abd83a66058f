// Package ui prints siblink's per-project console output.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var nameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

// Console serializes output from concurrently running project actions. Each
// project writes through a Section, and the section header is repeated
// whenever a different project starts printing.
type Console struct {
	out   io.Writer
	err   io.Writer
	color bool

	mu      sync.Mutex
	current *Section
}

// NewConsole returns a console writing to out and errOut. Project names are
// styled only when color is set.
func NewConsole(out, errOut io.Writer, color bool) *Console {
	return &Console{out: out, err: errOut, color: color}
}

// Out returns the console's standard output.
func (c *Console) Out() io.Writer { return c.out }

// Name styles a project name.
func (c *Console) Name(name string) string {
	if !c.color {
		return name
	}
	return nameStyle.Render(name)
}

// Color reports whether styled output is enabled.
func (c *Console) Color() bool { return c.color }

// Printf prints a line outside any section.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Section returns a writer context headed by ">>> name".
func (c *Console) Section(name string) *Section {
	return &Section{c: c, header: ">>> " + c.Name(name)}
}

// Section is one project's slice of the console.
type Section struct {
	c      *Console
	header string
}

// Printf prints a line under the section header.
func (s *Section) Printf(format string, args ...any) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.enter()
	_, _ = fmt.Fprintf(s.c.out, format+"\n", args...)
}

// Touch prints the header if another section printed last.
func (s *Section) Touch() {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.enter()
}

// Stdout returns a writer that copies raw output under the section header.
func (s *Section) Stdout() io.Writer { return sectionWriter{s: s, w: s.c.out} }

// Stderr is like Stdout for the error stream. The header still goes to
// standard output.
func (s *Section) Stderr() io.Writer { return sectionWriter{s: s, w: s.c.err} }

// enter must be called with the console lock held.
func (s *Section) enter() {
	if s.c.current == s {
		return
	}
	s.c.current = s
	_, _ = fmt.Fprintln(s.c.out, s.header)
}

type sectionWriter struct {
	s *Section
	w io.Writer
}

func (sw sectionWriter) Write(p []byte) (int, error) {
	sw.s.c.mu.Lock()
	defer sw.s.c.mu.Unlock()
	sw.s.enter()
	return sw.w.Write(p)
}
