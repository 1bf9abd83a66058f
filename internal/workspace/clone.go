package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/repourl"
	"github.com/fbkclanna/siblink/internal/ui"
)

// Cloner materializes missing siblings by cloning their repository.
type Cloner struct {
	git     *git.Client
	console *ui.Console
	log     zerolog.Logger
	dryRun  bool

	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

// NewCloner returns a cloner. In dry-run mode the clone is only printed and
// the project stays missing.
func NewCloner(g *git.Client, console *ui.Console, log zerolog.Logger, dryRun bool) *Cloner {
	return &Cloner{git: g, console: console, log: log, dryRun: dryRun, paths: make(map[string]*sync.Mutex)}
}

// Materialize clones p into p.Path and checks out the branch its repository
// names. It reports whether a checkout exists afterwards.
func (c *Cloner) Materialize(_ context.Context, p *graph.Project) (bool, error) {
	if p.Repository == nil || p.Repository.Raw == "" {
		c.console.Printf("can't clone %s, no repository specified", c.console.Name(p.Name))
		return false, nil
	}

	unlock := c.lock(p.Path)
	defer unlock()
	if _, err := os.Stat(p.Path); err == nil {
		c.log.Debug().Str("project", p.Name).Str("path", p.Path).Msg("already checked out")
		return true, nil
	}

	target := p.Repository.Target()
	c.log.Debug().Str("project", p.Name).Str("url", target.URL).Str("branch", target.Branch).Str("path", p.Path).Msg("cloning")
	if dir := repourl.ExpectedPath(target.URL); dir != "" && dir != filepath.Base(p.Path) {
		c.log.Debug().Str("project", p.Name).Str("repository", dir).Msg("repository name differs from package name, cloning under the package name")
	}
	c.console.Printf(">>> cloning %s", c.console.Name(p.Name))
	if err := c.git.Clone(target.URL, p.Path); err != nil {
		return false, err
	}
	if c.dryRun {
		return false, nil
	}
	if target.Branch != "" {
		if err := c.git.Checkout(p.Path, target.Branch); err != nil {
			return false, err
		}
	}
	return true, nil
}

// lock serializes clones into the same path.
func (c *Cloner) lock(path string) func() {
	c.mu.Lock()
	m, ok := c.paths[path]
	if !ok {
		m = &sync.Mutex{}
		c.paths[path] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m.Unlock
}
