// Package repourl understands the many spellings of a git repository that
// appear in package.json files and git remotes. It recognises hosting-service
// shorthands, derives organization matcher patterns from remotes and
// normalizes repository specs into clone targets.
package repourl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	giturls "github.com/chainguard-dev/git-urls"
)

// Hosted describes a repository on a known code-hosting service.
type Hosted struct {
	Type       string // github, gitlab or bitbucket
	Domain     string
	User       string
	Project    string
	Committish string
}

var hostTypes = map[string]string{
	"github.com":    "github",
	"gitlab.com":    "gitlab",
	"bitbucket.org": "bitbucket",
}

var shortcutDomains = map[string]string{
	"github":    "github.com",
	"gitlab":    "gitlab.com",
	"bitbucket": "bitbucket.org",
}

// bare "user/project" is a GitHub shorthand.
var githubShortcut = regexp.MustCompile(`^[^@:/\s#.~][^@:/\s#]*/[^@:/\s#]+$`)

// SSHURL returns the ssh clone URL, e.g. git@github.com:user/project.git.
func (h *Hosted) SSHURL() string {
	return fmt.Sprintf("git@%s:%s/%s.git", h.Domain, h.User, h.Project)
}

// HTTPSURL returns the https clone URL with the npm "git+" prefix.
func (h *Hosted) HTTPSURL() string {
	return fmt.Sprintf("git+https://%s/%s/%s.git", h.Domain, h.User, h.Project)
}

// Shortcut returns the npm shorthand, e.g. github:user/project.
func (h *Hosted) Shortcut() string {
	s := h.Type + ":" + h.User + "/" + h.Project
	if h.Committish != "" {
		s += "#" + h.Committish
	}
	return s
}

// ParseHosted recognises hosting-service URLs and shorthands. The second
// return value is false when raw does not point at a known host.
func ParseHosted(raw string) (*Hosted, bool) {
	s, committish := splitCommittish(strings.TrimSpace(raw))
	if s == "" {
		return nil, false
	}

	if i := strings.Index(s, ":"); i > 0 {
		if domain, ok := shortcutDomains[s[:i]]; ok && !strings.HasPrefix(s[i+1:], "//") {
			return hostedFromPath(domain, s[i+1:], committish)
		}
	}
	if githubShortcut.MatchString(s) {
		return hostedFromPath("github.com", s, committish)
	}

	u, err := parseRemote(s)
	if err != nil {
		return nil, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if _, known := hostTypes[host]; !known {
		return nil, false
	}
	return hostedFromPath(host, u.Path, committish)
}

func hostedFromPath(domain, p, committish string) (*Hosted, bool) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, false
	}
	project := strings.TrimSuffix(parts[1], ".git")
	if project == "" {
		return nil, false
	}
	return &Hosted{
		Type:       hostTypes[domain],
		Domain:     domain,
		User:       parts[0],
		Project:    project,
		Committish: committish,
	}, true
}

// MatchersFromRemote derives the organization patterns a remote belongs to.
// Hosted remotes yield "domain/user". Other URLs yield "host/path" minus the
// last path segment, except code.google.com where each path is its own
// project and is kept whole. Local remotes have no host and yield the
// parent directory.
func MatchersFromRemote(remote string) ([]string, error) {
	if h, ok := ParseHosted(remote); ok {
		return []string{h.Domain + "/" + h.User}, nil
	}

	u, err := parseRemote(remote)
	if err != nil {
		return nil, fmt.Errorf("cannot parse remote %q: %w", remote, err)
	}
	// scp-style paths have no leading slash.
	pattern := strings.Trim(u.Host+"/"+strings.TrimPrefix(u.Path, "/"), "/")
	if pattern == "" {
		return nil, fmt.Errorf("cannot parse remote %q", remote)
	}
	if !strings.Contains(pattern, "code.google.com") && strings.Contains(pattern, "/") {
		pattern = path.Dir(pattern)
	}
	return []string{pattern}, nil
}

// ExpectedPath returns the directory name a clone of u would get by default.
func ExpectedPath(u string) string {
	s, _ := splitCommittish(strings.TrimSpace(u))
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}

// Target is a concrete clone instruction.
type Target struct {
	URL    string
	Branch string // empty keeps the remote's default branch
}

// Normalize turns a git spec into a URL git understands plus the branch
// named by its committish.
func Normalize(u string) Target {
	s, branch := splitCommittish(strings.TrimSpace(u))
	s = strings.TrimPrefix(s, "git+")

	// ssh://git@host:org/repo is scp syntax wrapped in a scheme.
	if rest, ok := strings.CutPrefix(s, "ssh://"); ok {
		auth := rest
		if j := strings.Index(rest, "/"); j >= 0 {
			auth = rest[:j]
		}
		if k := strings.Index(auth, ":"); k >= 0 && !isPort(auth[k+1:]) {
			s = rest
		}
	}
	return Target{URL: s, Branch: branch}
}

func splitCommittish(s string) (string, string) {
	if i := strings.LastIndex(s, "#"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// parseRemote parses anything git accepts as a remote: URLs, scp-style
// addresses and local paths, which come back as file URLs.
func parseRemote(s string) (*url.URL, error) {
	return giturls.Parse(Normalize(s).URL)
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
