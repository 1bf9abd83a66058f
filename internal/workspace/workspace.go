package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/manifest"
	"github.com/fbkclanna/siblink/internal/repourl"
)

// ErrNoProjects is returned when neither the root nor any of its direct
// subdirectories holds a package.json.
var ErrNoProjects = errors.New("no package.json found")

// Context holds the resolved paths and the project registry for a run.
type Context struct {
	Root string
	// Dir is where newly discovered siblings are expected to be checked out.
	Dir string
	// Seeds are the directories of the projects the run starts from.
	Seeds    []string
	Registry *graph.Registry
	Matchers graph.Matchers
}

// Load resolves the seeds for root. If root holds a package.json it is the
// only seed and siblings live next to it; otherwise every direct
// subdirectory with a package.json is a seed and siblings live in root.
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	c := &Context{Root: root, Registry: graph.NewRegistry()}
	if manifest.Exists(root) {
		c.Seeds = []string{root}
		c.Dir = filepath.Dir(root)
		return c, nil
	}

	matches, err := filepath.Glob(filepath.Join(root, "*", manifest.FileName))
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s or its subdirectories", ErrNoProjects, root)
	}
	sort.Strings(matches)
	for _, m := range matches {
		c.Seeds = append(c.Seeds, filepath.Dir(m))
	}
	c.Dir = root
	return c, nil
}

// LoadMatchers reads the origin remote of every seed and collects the
// patterns they belong to. Seeds without a readable remote are skipped.
func (c *Context) LoadMatchers(g *git.Client, log zerolog.Logger) graph.Matchers {
	var patterns []string
	for _, dir := range c.Seeds {
		remote, err := g.RemoteURL(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("couldn't read git remote, continuing")
			continue
		}
		ps, err := repourl.MatchersFromRemote(remote)
		if err != nil {
			log.Debug().Err(err).Str("remote", remote).Msg("couldn't parse git remote, continuing")
			continue
		}
		patterns = append(patterns, ps...)
	}
	c.Matchers = graph.NewMatchers(patterns...)
	return c.Matchers
}

// AddSeeds reads every seed manifest and registers the projects.
func (c *Context) AddSeeds(log zerolog.Logger) error {
	for _, dir := range c.Seeds {
		pkg, err := manifest.Load(dir)
		if err != nil {
			return err
		}
		if p, created := c.Registry.AddSeed(pkg.Name, dir); !created {
			log.Warn().Str("project", pkg.Name).Str("dir", dir).Str("kept", p.Path).Msg("duplicate project name, ignoring")
		}
	}
	return nil
}
