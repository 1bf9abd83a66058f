// Package status inspects projects for missing or unlinked dependencies and
// for git state that differs from upstream.
package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/ui"
)

// Kind classifies a finding.
type Kind string

const (
	ProjectMissing  Kind = "project-missing"
	NotInstalled    Kind = "not-installed"
	VersionMismatch Kind = "version-mismatch"
	NotLinked       Kind = "not-linked"
	Ahead           Kind = "ahead"
	Behind          Kind = "behind"
	Diverged        Kind = "diverged"
	Uncommitted     Kind = "uncommitted"
)

// Finding is one observation about a project.
type Finding struct {
	Kind    Kind
	Message string
	// Detail holds raw command output shown below the message.
	Detail string
}

// Checker produces findings for projects of a closed registry.
type Checker struct {
	Git *git.Client
	Log zerolog.Logger
	// Untracked includes untracked files in the uncommitted check.
	Untracked bool
	// Color asks git to color its status output.
	Color bool
}

// Check returns the findings for p in a fixed order: dependencies first,
// then upstream tracking, then the working tree.
func (c *Checker) Check(p *graph.Project) []Finding {
	if p.IsMissing() {
		return []Finding{{Kind: ProjectMissing, Message: "project is missing"}}
	}

	var out []Finding
	for _, dep := range p.MissingDeps {
		out = append(out, Finding{Kind: NotInstalled, Message: fmt.Sprintf("dependency %s is not installed", dep)})
	}
	for _, m := range p.InvalidDeps {
		out = append(out, Finding{
			Kind:    VersionMismatch,
			Message: fmt.Sprintf("dependency %s version %s doesn't match requested version %s", m.Name, m.Installed, m.Required),
		})
	}
	for _, dep := range p.Deps {
		if !npm.IsLinked(p.Path, dep) {
			out = append(out, Finding{Kind: NotLinked, Message: fmt.Sprintf("dependency %s is not linked", dep)})
		}
	}

	if f, ok := c.upstream(p); ok {
		out = append(out, f)
	}

	changes, err := c.Git.StatusShort(p.Path, c.Color, c.Untracked)
	if err != nil {
		c.Log.Debug().Err(err).Str("project", p.Name).Msg("git status failed")
	} else if strings.TrimSpace(changes) != "" {
		out = append(out, Finding{Kind: Uncommitted, Message: "has uncommitted changes", Detail: changes})
	}
	return out
}

func (c *Checker) upstream(p *graph.Project) (Finding, bool) {
	ahead, err := c.Git.RevListCount(p.Path, "@{u}..")
	if err != nil {
		c.Log.Debug().Err(err).Str("project", p.Name).Msg("couldn't count commits ahead of upstream")
		return Finding{}, false
	}
	behind, err := c.Git.RevListCount(p.Path, "..@{u}")
	if err != nil {
		c.Log.Debug().Err(err).Str("project", p.Name).Msg("couldn't count commits behind upstream")
		return Finding{}, false
	}

	switch {
	case ahead > 0 && behind > 0:
		return Finding{Kind: Diverged, Message: fmt.Sprintf("has diverged from upstream (%d ahead, %d behind)", ahead, behind)}, true
	case ahead > 0:
		return Finding{Kind: Ahead, Message: fmt.Sprintf("is %s ahead of upstream", plural(ahead, "commit"))}, true
	case behind > 0:
		return Finding{Kind: Behind, Message: fmt.Sprintf("is %s behind upstream", plural(behind, "commit"))}, true
	}
	return Finding{}, false
}

// Print writes findings under the project's section. Nothing is printed for
// a project without findings.
func Print(s *ui.Section, findings []Finding) {
	for _, f := range findings {
		s.Printf("   %s", f.Message)
		if f.Detail != "" {
			_, _ = io.WriteString(s.Stdout(), f.Detail)
		}
	}
}

func plural(n int, word string) string {
	if n != 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}
