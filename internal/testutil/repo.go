package testutil

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Package describes a package.json fixture.
type Package struct {
	Name            string            `json:"name"`
	Version         string            `json:"version,omitempty"`
	Repository      string            `json:"repository,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// WritePackage writes pkg as dir/package.json, creating dir as needed.
func WritePackage(t *testing.T, dir string, pkg Package) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), append(data, '\n'), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// InstallPackage simulates an npm install of pkg into project's node_modules.
func InstallPackage(t *testing.T, project string, pkg Package) string {
	t.Helper()
	dir := filepath.Join(project, "node_modules", pkg.Name)
	WritePackage(t, dir, pkg)
	return dir
}

// LinkPackage simulates `npm link` by symlinking node_modules/<name> to target.
func LinkPackage(t *testing.T, project, name, target string) {
	t.Helper()
	link := filepath.Join(project, "node_modules", name)
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
}

// CreateBareRepo creates a bare git repository with an initial commit in a temp directory.
// Returns the path to the bare repo.
func CreateBareRepo(t *testing.T) string {
	t.Helper()
	return createBare(t, func(string) {})
}

// CreatePackageRepo creates a bare repository whose only commit holds
// pkg's package.json.
func CreatePackageRepo(t *testing.T, pkg Package) string {
	t.Helper()
	return createBare(t, func(work string) {
		WritePackage(t, work, pkg)
	})
}

// InitCheckout turns dir into a git repository with a single commit and an
// origin remote pointing at remote.
func InitCheckout(t *testing.T, dir, remote string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	initRepo(t, dir)
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "--allow-empty", "-m", "initial commit")
	if remote != "" {
		run(t, dir, "git", "remote", "add", "origin", remote)
	}
}

// Git runs a git command in dir and fails the test on error.
func Git(t *testing.T, dir string, args ...string) {
	t.Helper()
	run(t, dir, "git", args...)
}

func createBare(t *testing.T, populate func(work string)) string {
	t.Helper()
	dir := t.TempDir()
	bare := filepath.Join(dir, "repo.git")

	// Create a working repo first, then clone it bare.
	work := filepath.Join(dir, "work")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	initRepo(t, work)

	readme := filepath.Join(work, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	populate(work)
	run(t, work, "git", "add", ".")
	run(t, work, "git", "commit", "-m", "initial commit")

	run(t, dir, "git", "clone", "--bare", work, bare)
	return bare
}

func initRepo(t *testing.T, dir string) {
	t.Helper()
	run(t, dir, "git", "init", "-b", "main")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
