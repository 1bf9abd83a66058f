package graph

import (
	"sync/atomic"

	"github.com/fbkclanna/siblink/internal/manifest"
	"github.com/fbkclanna/siblink/internal/repourl"
)

// State is the resolution state of a project.
type State int32

const (
	Unresolved State = iota
	Resolving
	Local
	Missing
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Local:
		return "local"
	case Missing:
		return "missing"
	}
	return "unknown"
}

// VersionMismatch records an installed dependency whose version does not
// satisfy the declared range.
type VersionMismatch struct {
	Name      string
	Installed string
	Required  string
}

// Project is a node of the dependency graph. Everything but the state and
// the installed flag is written only by the goroutine that resolves it, and
// read once expansion is over.
type Project struct {
	Name       string
	Path       string
	Repository *repourl.Spec

	Manifest     *manifest.Package
	Dependencies map[string]string
	// Deps lists the sibling dependencies in name order.
	Deps        []string
	MissingDeps []string
	InvalidDeps []VersionMismatch

	state     atomic.Int32
	installed atomic.Bool
}

func newProject(name, path string, repo *repourl.Spec) *Project {
	return &Project{Name: name, Path: path, Repository: repo}
}

// State returns the current resolution state.
func (p *Project) State() State {
	return State(p.state.Load())
}

// IsLocal reports whether the project has been read from disk.
func (p *Project) IsLocal() bool { return p.State() == Local }

// IsMissing reports whether the project has no checkout.
func (p *Project) IsMissing() bool { return p.State() == Missing }

// Resolved reports whether the project reached a terminal state.
func (p *Project) Resolved() bool {
	s := p.State()
	return s == Local || s == Missing
}

// claim moves the project from Unresolved to Resolving. Only one caller
// wins.
func (p *Project) claim() bool {
	return p.state.CompareAndSwap(int32(Unresolved), int32(Resolving))
}

func (p *Project) finish(s State) {
	p.state.Store(int32(s))
}

// MarkMissing records that p has no checkout.
func (p *Project) MarkMissing() {
	p.finish(Missing)
}

// ClaimInstall marks the project as installed and reports whether the
// caller is the first to do so.
func (p *Project) ClaimInstall() bool {
	return p.installed.CompareAndSwap(false, true)
}

// Installed reports whether installation has been triggered.
func (p *Project) Installed() bool {
	return p.installed.Load()
}

// RepositoryURL returns the raw repository spec, or "" if unknown.
func (p *Project) RepositoryURL() string {
	if p.Repository == nil {
		return ""
	}
	return p.Repository.Raw
}
