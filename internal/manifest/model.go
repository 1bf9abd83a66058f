package manifest

import (
	"encoding/json"
	"fmt"
)

// FileName is the manifest file looked up in every project directory.
const FileName = "package.json"

// Package is the subset of package.json siblink reads.
type Package struct {
	Name            string            `json:"name"`
	Version         string            `json:"version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Repository      *Repository       `json:"repository,omitempty"`

	// Raw holds the file content as read, for verbatim rewrites.
	Raw []byte `json:"-"`
}

// Repository is the package.json "repository" field. It may be written as
// an object or as a bare string.
type Repository struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

// UnmarshalJSON accepts both {"type": "git", "url": "..."} and "url".
func (r *Repository) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}
	type plain Repository
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("repository must be a string or an object: %w", err)
	}
	*r = Repository(p)
	return nil
}

// AllDependencies merges runtime and development dependencies. A package
// listed in both keeps its devDependencies version.
func (p *Package) AllDependencies() map[string]string {
	all := make(map[string]string, len(p.Dependencies)+len(p.DevDependencies))
	for name, v := range p.Dependencies {
		all[name] = v
	}
	for name, v := range p.DevDependencies {
		all[name] = v
	}
	return all
}

// RepositoryURL returns the declared repository URL, or "" if none.
func (p *Package) RepositoryURL() string {
	if p.Repository == nil {
		return ""
	}
	return p.Repository.URL
}
