// Package npm wraps the npm commands siblink issues: install and link.
package npm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/siblink/internal/runner"
)

// Client runs npm through a runner.
type Client struct {
	r   runner.Runner
	bin string
}

// New returns a Client invoking "npm".
func New(r runner.Runner) *Client {
	return &Client{r: r, bin: "npm"}
}

// Install runs `npm install` in projectDir.
func (c *Client) Install(projectDir string) error {
	if err := c.r.Run(projectDir, c.bin, "install"); err != nil {
		return fmt.Errorf("npm install in %s: %w", projectDir, err)
	}
	return nil
}

// Link runs `npm link <relative path to target>` in projectDir, which
// installs target and symlinks it into projectDir/node_modules.
func (c *Client) Link(projectDir, targetDir string) error {
	rel, err := filepath.Rel(projectDir, targetDir)
	if err != nil {
		return fmt.Errorf("resolving %s relative to %s: %w", targetDir, projectDir, err)
	}
	if err := c.r.Run(projectDir, c.bin, "link", rel); err != nil {
		return fmt.Errorf("npm link %s in %s: %w", rel, projectDir, err)
	}
	return nil
}

// Version returns the output of `npm --version`.
func (c *Client) Version() (string, error) {
	out, err := c.r.Output(".", c.bin, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ModuleDir returns where dep is installed for projectDir.
func ModuleDir(projectDir, dep string) string {
	return filepath.Join(projectDir, "node_modules", dep)
}

// IsLinked reports whether dep is present in projectDir's node_modules as a
// symlink.
func IsLinked(projectDir, dep string) bool {
	info, err := os.Lstat(ModuleDir(projectDir, dep))
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// IsInstalled reports whether dep has a manifest in projectDir's node_modules.
func IsInstalled(projectDir, dep string) bool {
	info, err := os.Stat(filepath.Join(ModuleDir(projectDir, dep), "package.json"))
	return err == nil && !info.IsDir()
}

// IsNpmInstalled returns true if npm is available on the system PATH.
func IsNpmInstalled() bool {
	_, err := exec.LookPath("npm")
	return err == nil
}
