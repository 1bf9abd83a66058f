package graph

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/manifest"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/repourl"
	"github.com/fbkclanna/siblink/internal/scheduler"
)

// NameMismatchError is returned when a directory expected to hold a package
// holds a different one.
type NameMismatchError struct {
	Name  string
	Path  string
	Found string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("tried to load %s from %s but instead found %s",
		e.Name, manifest.Path(e.Path), e.Found)
}

// Installer installs a project's dependencies.
type Installer interface {
	Install(ctx context.Context, p *Project) error
}

// Materializer tries to produce a checkout for a project whose path does not
// exist. It reports whether one now exists.
type Materializer func(ctx context.Context, p *Project) (bool, error)

// Options configures an Expander.
type Options struct {
	// Jobs bounds how many projects are resolved at once.
	Jobs int
	// Dir is where placeholders for newly discovered siblings live.
	Dir string
	// InstallMissing runs the Installer for projects with dependencies
	// missing from node_modules.
	InstallMissing bool
	Installer      Installer
	// Materialize is called for projects without a checkout. Nil marks them
	// missing.
	Materialize Materializer
	Membership  *Membership
	Log         zerolog.Logger
}

// Expander drives a registry to closure.
type Expander struct {
	reg  *Registry
	opts Options
}

// NewExpander returns an expander over reg.
func NewExpander(reg *Registry, opts Options) *Expander {
	if opts.Membership == nil {
		opts.Membership = &Membership{Log: opts.Log}
	}
	return &Expander{reg: reg, opts: opts}
}

// Expand resolves every unresolved project, then every sibling those
// projects discover, until no unresolved project remains. The first fatal
// error stops the expansion.
func (e *Expander) Expand(ctx context.Context) error {
	frontier := e.reg.Unresolved()
	for round := 1; len(frontier) > 0; round++ {
		e.opts.Log.Debug().Int("round", round).Int("projects", len(frontier)).Msg("resolving")
		if err := scheduler.Each(ctx, frontier, e.opts.Jobs, e.resolve); err != nil {
			return err
		}
		// Everything in the frontier is now terminal, so what is left are
		// the placeholders created during this round.
		frontier = e.reg.Unresolved()
	}
	return nil
}

func (e *Expander) resolve(ctx context.Context, p *Project) error {
	if !p.claim() {
		return nil
	}

	if _, err := os.Stat(p.Path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", p.Path, err)
		}
		ok := false
		if e.opts.Materialize != nil {
			if ok, err = e.opts.Materialize(ctx, p); err != nil {
				return err
			}
		}
		if !ok {
			e.opts.Log.Debug().Str("project", p.Name).Msg("missing")
			p.MarkMissing()
			return nil
		}
	}
	return e.resolveLocal(ctx, p)
}

func (e *Expander) resolveLocal(ctx context.Context, p *Project) error {
	pkg, err := manifest.Load(p.Path)
	if err != nil {
		return err
	}
	if pkg.Name != p.Name {
		return &NameMismatchError{Name: p.Name, Path: p.Path, Found: pkg.Name}
	}
	p.Manifest = pkg
	p.Dependencies = pkg.AllDependencies()
	if p.Repository == nil && pkg.RepositoryURL() != "" {
		spec := repourl.ParseSpec(pkg.Name, pkg.RepositoryURL())
		p.Repository = &spec
	}

	checkInstalled(p)
	if len(p.MissingDeps) > 0 && e.opts.InstallMissing && e.opts.Installer != nil {
		e.opts.Log.Debug().Str("project", p.Name).Strs("missing", p.MissingDeps).Msg("installing missing dependencies")
		if err := e.opts.Installer.Install(ctx, p); err != nil {
			return err
		}
		checkInstalled(p)
	}

	for _, dep := range sortedKeys(p.Dependencies) {
		repo := e.repositoryOf(p, dep)
		url := ""
		if repo != nil {
			url = repo.Raw
		}
		if !e.opts.Membership.ShouldLink(dep, url) {
			continue
		}
		p.Deps = append(p.Deps, dep)
		if _, created := e.reg.Discover(dep, filepath.Join(e.opts.Dir, dep), repo); created {
			e.opts.Log.Debug().Str("project", dep).Str("via", p.Name).Msg("discovered sibling")
		}
	}
	p.finish(Local)
	return nil
}

// repositoryOf finds where dep comes from: its version spec when that names
// a repository, else the repository field of the installed package.
func (e *Expander) repositoryOf(p *Project, dep string) *repourl.Spec {
	spec := repourl.ParseSpec(dep, p.Dependencies[dep])
	if spec.IsRepository() {
		return &spec
	}

	installed, err := manifest.Load(npm.ModuleDir(p.Path, dep))
	if err != nil {
		e.opts.Log.Debug().Err(err).Str("project", p.Name).Str("dependency", dep).Msg("dependency couldn't be read")
		return nil
	}
	if u := installed.RepositoryURL(); u != "" {
		s := repourl.ParseSpec(dep, u)
		return &s
	}
	e.opts.Log.Debug().Str("project", p.Name).Str("dependency", dep).
		Msg("dependency doesn't have a repository specified and won't be considered for linking")
	return nil
}

// checkInstalled records which dependencies are absent from node_modules and
// which installed ones do not satisfy their declared range.
func checkInstalled(p *Project) {
	p.MissingDeps = nil
	p.InvalidDeps = nil
	for _, dep := range sortedKeys(p.Dependencies) {
		required := p.Dependencies[dep]
		if !npm.IsInstalled(p.Path, dep) {
			p.MissingDeps = append(p.MissingDeps, dep)
			continue
		}
		constraint, err := semver.NewConstraint(required)
		if err != nil {
			continue
		}
		installed, err := manifest.Load(npm.ModuleDir(p.Path, dep))
		if err != nil {
			continue
		}
		v, err := semver.NewVersion(installed.Version)
		if err != nil || !constraint.Check(v) {
			p.InvalidDeps = append(p.InvalidDeps, VersionMismatch{
				Name:      dep,
				Installed: installed.Version,
				Required:  required,
			})
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serial runs fn for each project, one at a time, in order.
func Serial(ctx context.Context, projects []*Project, fn func(context.Context, *Project) error) error {
	return scheduler.Each(ctx, projects, 1, fn)
}

// Parallel runs fn for each project with at most jobs in flight.
func Parallel(ctx context.Context, projects []*Project, jobs int, fn func(context.Context, *Project) error) error {
	return scheduler.Each(ctx, projects, jobs, fn)
}
