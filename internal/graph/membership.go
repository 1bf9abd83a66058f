package graph

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/repourl"
)

// Matchers is an immutable set of "domain/organization" patterns.
type Matchers struct {
	set map[string]struct{}
}

// NewMatchers builds a matcher set from patterns.
func NewMatchers(patterns ...string) Matchers {
	m := Matchers{set: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		m.set[p] = struct{}{}
	}
	return m
}

// Contains reports whether pattern is in the set.
func (m Matchers) Contains(pattern string) bool {
	_, ok := m.set[pattern]
	return ok
}

// Patterns returns the patterns in sorted order.
func (m Matchers) Patterns() []string {
	out := make([]string, 0, len(m.set))
	for p := range m.set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of patterns.
func (m Matchers) Len() int { return len(m.set) }

// Membership decides whether a dependency belongs to the sibling family.
type Membership struct {
	Matchers  Matchers
	Overrides map[string]bool
	Log       zerolog.Logger
}

// ShouldLink reports whether the dependency name, whose repository is
// repoURL, is a sibling. A configured override always wins; otherwise one
// of the repository's patterns must be in the matcher set.
func (m *Membership) ShouldLink(name, repoURL string) bool {
	if forced, ok := m.Overrides[name]; ok {
		if forced {
			m.Log.Debug().Str("dependency", name).Msg("configuration forced match")
		} else {
			m.Log.Debug().Str("dependency", name).Msg("configuration forced no match")
		}
		return forced
	}
	if repoURL == "" {
		return false
	}

	patterns, err := repourl.MatchersFromRemote(repoURL)
	if err != nil {
		m.Log.Debug().Err(err).Str("dependency", name).Msg("repository not understood, not linking")
		return false
	}
	for _, p := range patterns {
		if m.Matchers.Contains(p) {
			m.Log.Debug().Str("dependency", name).Str("pattern", p).Msg("matches")
			return true
		}
	}
	return false
}
