package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fbkclanna/siblink/internal/runner"
)

// Client runs git through a runner so that --noop and tests can intercept
// state-changing calls.
type Client struct {
	r runner.Runner
}

// New returns a Client backed by r.
func New(r runner.Runner) *Client {
	return &Client{r: r}
}

// Clone clones url into dest.
func (c *Client) Clone(url, dest string) error {
	if err := c.r.Run(".", "git", "clone", url, dest); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// Checkout checks out the given ref.
func (c *Client) Checkout(repoDir, ref string) error {
	if err := c.r.Run(repoDir, "git", "checkout", ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

// RemoteURL returns the URL of the origin remote.
func (c *Client) RemoteURL(repoDir string) (string, error) {
	out, err := c.r.Output(repoDir, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RevListCount counts the commits in a revision range such as "@{u}..".
func (c *Client) RevListCount(repoDir, rng string) (int, error) {
	out, err := c.r.Output(repoDir, "git", "rev-list", "--count", rng)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing rev-list count %q: %w", strings.TrimSpace(out), err)
	}
	return n, nil
}

// StatusShort returns `git status -s` output. Untracked files are omitted
// when untracked is false.
func (c *Client) StatusShort(repoDir string, color, untracked bool) (string, error) {
	var args []string
	if color {
		args = append(args, "-c", "color.status=always")
	}
	args = append(args, "status", "-s")
	if !untracked {
		args = append(args, "-uno")
	}
	return c.r.Output(repoDir, "git", args...)
}

// Version returns the output of `git version`.
func (c *Client) Version() (string, error) {
	out, err := c.r.Output(".", "git", "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsCloned returns true if the directory is a git repository.
func IsCloned(repoDir string) bool {
	info, err := os.Stat(filepath.Join(repoDir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
