package repourl

import (
	"strings"

	giturls "github.com/chainguard-dev/git-urls"
)

// Kind classifies a dependency version spec.
type Kind string

const (
	KindRegistry Kind = "registry"
	KindGit      Kind = "git"
	KindHosted   Kind = "hosted"
	KindFile     Kind = "file"
	KindRemote   Kind = "remote"
)

// Spec is a parsed "name@spec" dependency declaration or repository field.
type Spec struct {
	Name   string
	Raw    string
	Kind   Kind
	Hosted *Hosted
}

// ParseSpec classifies raw the way npm does for the purposes of linking:
// hosted shorthands and URLs first, then git URLs, local paths and tarball
// URLs, with everything else treated as a registry range or tag.
func ParseSpec(name, raw string) Spec {
	raw = strings.TrimSpace(raw)
	s := Spec{Name: name, Raw: raw, Kind: KindRegistry}
	if raw == "" {
		return s
	}

	if h, ok := ParseHosted(raw); ok {
		s.Kind = KindHosted
		s.Hosted = h
		return s
	}

	switch {
	case strings.HasPrefix(raw, "git+"), strings.HasPrefix(raw, "git://"), isSCP(raw):
		s.Kind = KindGit
	case strings.HasPrefix(raw, "file:"), strings.HasPrefix(raw, "."),
		strings.HasPrefix(raw, "/"), strings.HasPrefix(raw, "~"):
		s.Kind = KindFile
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		s.Kind = KindRemote
	}
	return s
}

// IsRepository reports whether the spec names a git repository.
func (s Spec) IsRepository() bool {
	return s.Kind == KindGit || s.Kind == KindHosted
}

// Target returns where a clone of the spec should come from. Hosted
// repositories prefer ssh.
func (s Spec) Target() Target {
	if s.Hosted != nil {
		return Target{URL: s.Hosted.SSHURL(), Branch: s.Hosted.Committish}
	}
	return Normalize(s.Raw)
}

func isSCP(raw string) bool {
	if strings.Contains(raw, "://") {
		return false
	}
	u, err := giturls.ParseScp(raw)
	return err == nil && u.User != nil && strings.Contains(u.Host, ".")
}
