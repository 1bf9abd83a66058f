package status

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/runner"
	"github.com/fbkclanna/siblink/internal/testutil"
	"github.com/fbkclanna/siblink/internal/ui"
)

// cloneWorkspace clones a package repo as ws/app so it tracks an upstream.
func cloneWorkspace(t *testing.T, pkg testutil.Package) (ws, bare string) {
	t.Helper()
	bare = testutil.CreatePackageRepo(t, pkg)
	ws = t.TempDir()
	testutil.Git(t, ws, "clone", bare, pkg.Name)
	testutil.Git(t, filepath.Join(ws, pkg.Name), "config", "user.email", "test@example.com")
	testutil.Git(t, filepath.Join(ws, pkg.Name), "config", "user.name", "Test")
	return ws, bare
}

func expand(t *testing.T, ws string, names ...string) *graph.Registry {
	t.Helper()
	reg := graph.NewRegistry()
	for _, n := range names {
		reg.AddSeed(n, filepath.Join(ws, n))
	}
	m := &graph.Membership{Matchers: graph.NewMatchers("github.com/acme"), Log: zerolog.Nop()}
	require.NoError(t, graph.NewExpander(reg, graph.Options{Dir: ws, Membership: m, Log: zerolog.Nop()}).Expand(context.Background()))
	return reg
}

func checker(*graph.Registry) *Checker {
	return &Checker{Git: git.New(runner.New(false)), Log: zerolog.Nop(), Untracked: true}
}

func messages(fs []Finding) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.Message)
	}
	return out
}

func TestCheck_clean(t *testing.T) {
	ws, _ := cloneWorkspace(t, testutil.Package{Name: "app"})
	reg := expand(t, ws, "app")
	app, _ := reg.Get("app")
	assert.Empty(t, checker(reg).Check(app))
}

func TestCheck_missingProject(t *testing.T) {
	ws := t.TempDir()
	testutil.WritePackage(t, filepath.Join(ws, "app"), testutil.Package{
		Name: "app", Dependencies: map[string]string{"lib": "github:acme/lib"},
	})
	reg := expand(t, ws, "app")
	lib, _ := reg.Get("lib")

	assert.Equal(t, []Finding{{Kind: ProjectMissing, Message: "project is missing"}}, checker(reg).Check(lib))
}

func TestCheck_dependencies(t *testing.T) {
	ws, _ := cloneWorkspace(t, testutil.Package{
		Name: "app",
		Dependencies: map[string]string{
			"lib":      "github:acme/lib",
			"left-pad": "^2.0.0",
			"absent":   "1.0.0",
		},
	})
	app := filepath.Join(ws, "app")
	testutil.InstallPackage(t, app, testutil.Package{Name: "left-pad", Version: "1.3.0"})
	testutil.InstallPackage(t, app, testutil.Package{Name: "lib", Version: "1.0.0"})
	testutil.Git(t, app, "config", "status.showUntrackedFiles", "no")

	reg := expand(t, ws, "app")
	p, _ := reg.Get("app")

	assert.Equal(t, []string{
		"dependency absent is not installed",
		"dependency left-pad version 1.3.0 doesn't match requested version ^2.0.0",
		"dependency lib is not linked",
	}, messages(checker(reg).Check(p)))
}

func TestCheck_aheadBehindDiverged(t *testing.T) {
	ws, bare := cloneWorkspace(t, testutil.Package{Name: "app"})
	app := filepath.Join(ws, "app")
	reg := expand(t, ws, "app")
	p, _ := reg.Get("app")
	c := checker(reg)

	testutil.Git(t, app, "commit", "--allow-empty", "-m", "one")
	testutil.Git(t, app, "commit", "--allow-empty", "-m", "two")
	assert.Equal(t, []string{"is 2 commits ahead of upstream"}, messages(c.Check(p)))

	// Push a different commit upstream from a second clone.
	other := filepath.Join(t.TempDir(), "other")
	testutil.Git(t, filepath.Dir(other), "clone", bare, "other")
	testutil.Git(t, other, "config", "user.email", "test@example.com")
	testutil.Git(t, other, "config", "user.name", "Test")
	testutil.Git(t, other, "commit", "--allow-empty", "-m", "upstream")
	testutil.Git(t, other, "push", "origin", "HEAD")
	testutil.Git(t, app, "fetch")
	assert.Equal(t, []string{"has diverged from upstream (2 ahead, 1 behind)"}, messages(c.Check(p)))

	testutil.Git(t, app, "reset", "--hard", "@{u}~1")
	assert.Equal(t, []string{"is 1 commit behind upstream"}, messages(c.Check(p)))
}

func TestCheck_noUpstreamIsNotReported(t *testing.T) {
	ws := t.TempDir()
	app := filepath.Join(ws, "app")
	testutil.WritePackage(t, app, testutil.Package{Name: "app"})
	testutil.InitCheckout(t, app, "")
	reg := expand(t, ws, "app")
	p, _ := reg.Get("app")
	assert.Empty(t, checker(reg).Check(p))
}

func TestCheck_uncommitted(t *testing.T) {
	ws, _ := cloneWorkspace(t, testutil.Package{Name: "app"})
	app := filepath.Join(ws, "app")
	require.NoError(t, os.WriteFile(filepath.Join(app, "new.txt"), []byte("x"), 0644)) //nolint:gosec // test file
	reg := expand(t, ws, "app")
	p, _ := reg.Get("app")

	c := checker(reg)
	fs := c.Check(p)
	require.Len(t, fs, 1)
	assert.Equal(t, Uncommitted, fs[0].Kind)
	assert.Contains(t, fs[0].Detail, "new.txt")

	c.Untracked = false
	assert.Empty(t, c.Check(p))
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	s := ui.NewConsole(&out, &out, false).Section("app")
	Print(s, []Finding{
		{Kind: NotLinked, Message: "dependency lib is not linked"},
		{Kind: Uncommitted, Message: "has uncommitted changes", Detail: "?? new.txt\n"},
	})
	assert.Equal(t, ">>> app\n   dependency lib is not linked\n   has uncommitted changes\n?? new.txt\n", out.String())
}

func TestPrint_nothing(t *testing.T) {
	var out bytes.Buffer
	Print(ui.NewConsole(&out, &out, false).Section("app"), nil)
	assert.Empty(t, out.String())
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 commit", plural(1, "commit"))
	assert.Equal(t, "0 commits", plural(0, "commit"))
	assert.Equal(t, "3 commits", plural(3, "commit"))
}
