// Package link wires sibling checkouts together with npm link and installs
// their remaining dependencies.
package link

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/ui"
)

// NPM is the subset of the npm client the orchestrator drives.
type NPM interface {
	Install(projectDir string) error
	Link(projectDir, targetDir string) error
}

// Orchestrator performs link and install actions over a closed registry.
type Orchestrator struct {
	reg     *graph.Registry
	npm     NPM
	console *ui.Console
	log     zerolog.Logger
}

// New returns an orchestrator.
func New(reg *graph.Registry, n NPM, console *ui.Console, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{reg: reg, npm: n, console: console, log: log}
}

// Link runs npm link in p for every sibling dependency that exists and is
// not already linked. Links are made one at a time.
func (o *Orchestrator) Link(_ context.Context, p *graph.Project) error {
	if p.IsMissing() {
		o.console.Printf(">>> linking modules for %s skipped because it hasn't been cloned", o.console.Name(p.Name))
		return nil
	}
	o.console.Printf(">>> linking modules for %s", o.console.Name(p.Name))

	for _, dep := range p.Deps {
		sibling, ok := o.reg.Get(dep)
		if !ok {
			continue
		}
		if sibling.IsMissing() {
			o.console.Printf("   dependency %s hasn't been cloned, skipping npm link", dep)
			continue
		}
		if npm.IsLinked(p.Path, dep) {
			o.log.Debug().Str("project", p.Name).Str("dependency", dep).Msg("already linked")
			continue
		}
		// npm link installs the sibling as a side effect.
		sibling.ClaimInstall()
		if err := o.npm.Link(p.Path, sibling.Path); err != nil {
			return err
		}
	}
	return nil
}

// Install runs npm install in p unless it is missing or has already been
// installed during this run.
func (o *Orchestrator) Install(_ context.Context, p *graph.Project) error {
	if p.IsMissing() {
		o.console.Printf(">>> npm install for %s skipped because it hasn't been cloned", o.console.Name(p.Name))
		return nil
	}
	if !p.ClaimInstall() {
		o.console.Printf(">>> npm install for %s skipped because it has already been done", o.console.Name(p.Name))
		return nil
	}
	o.console.Printf(">>> npm install for %s", o.console.Name(p.Name))
	return o.npm.Install(p.Path)
}

// LinkAll links every project serially. Linking the same sibling from two
// projects at once is not safe.
func (o *Orchestrator) LinkAll(ctx context.Context) error {
	return graph.Serial(ctx, o.reg.Projects(), o.Link)
}

// InstallAll installs every project with at most jobs in flight.
func (o *Orchestrator) InstallAll(ctx context.Context, jobs int) error {
	projects := o.reg.Projects()
	progress := o.console.Progress(len(projects))
	return graph.Parallel(ctx, projects, jobs, func(ctx context.Context, p *graph.Project) error {
		if err := o.Install(ctx, p); err != nil {
			return err
		}
		progress.Done(p.Name)
		return nil
	})
}
