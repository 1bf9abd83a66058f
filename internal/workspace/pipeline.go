package workspace

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/link"
	"github.com/fbkclanna/siblink/internal/logging"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/ui"
)

// Runtime carries the clients and settings a pipeline runs with.
type Runtime struct {
	Git       *git.Client
	NPM       *npm.Client
	Console   *ui.Console
	Log       zerolog.Logger
	Jobs      int
	DryRun    bool
	Overrides map[string]bool
}

func (c *Context) prepare(rt *Runtime) (*graph.Membership, error) {
	rt.Log.Debug().Int("projects", len(c.Seeds)).Str("dir", c.Dir).Msg("starting")
	matchers := c.LoadMatchers(rt.Git, rt.Log)
	rt.Log.Debug().Strs("matchers", matchers.Patterns()).Msg("looking for dependencies matching")
	if err := c.AddSeeds(rt.Log); err != nil {
		return nil, err
	}
	return &graph.Membership{
		Matchers:  matchers,
		Overrides: rt.Overrides,
		Log:       logging.Component(rt.Log, "membership"),
	}, nil
}

// Build expands the graph without changing anything on disk. Siblings that
// are not checked out are marked missing.
func (c *Context) Build(ctx context.Context, rt *Runtime) error {
	done := logging.OperationStart(rt.Log, "build")
	defer done()

	membership, err := c.prepare(rt)
	if err != nil {
		return err
	}
	err = graph.NewExpander(c.Registry, graph.Options{
		Jobs:       rt.Jobs,
		Dir:        c.Dir,
		Membership: membership,
		Log:        logging.Component(rt.Log, "expand"),
	}).Expand(ctx)
	rt.Log.Debug().Int("projects", c.Registry.Len()).Str("dir", c.Dir).Msg("ended")
	return err
}

// Link expands the graph, cloning missing siblings and installing missing
// dependencies on the way, then links siblings into each other and installs
// every project.
func (c *Context) Link(ctx context.Context, rt *Runtime) error {
	done := logging.OperationStart(rt.Log, "link")
	defer done()

	membership, err := c.prepare(rt)
	if err != nil {
		return err
	}
	orch := link.New(c.Registry, rt.NPM, rt.Console, logging.Component(rt.Log, "link"))
	cloner := NewCloner(rt.Git, rt.Console, logging.Component(rt.Log, "clone"), rt.DryRun)

	err = graph.NewExpander(c.Registry, graph.Options{
		Jobs:           rt.Jobs,
		Dir:            c.Dir,
		InstallMissing: true,
		Installer:      orch,
		Materialize:    cloner.Materialize,
		Membership:     membership,
		Log:            logging.Component(rt.Log, "expand"),
	}).Expand(ctx)
	if err != nil {
		return err
	}

	if err := orch.LinkAll(ctx); err != nil {
		return err
	}
	if err := orch.InstallAll(ctx, rt.Jobs); err != nil {
		return err
	}
	rt.Log.Debug().Int("projects", c.Registry.Len()).Str("dir", c.Dir).Msg("ended")
	return nil
}
