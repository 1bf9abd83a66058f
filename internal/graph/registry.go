package graph

import (
	"sync"

	"github.com/fbkclanna/siblink/internal/repourl"
)

// Registry holds every project known to a run, keyed by package name. It
// only grows.
type Registry struct {
	mu       sync.Mutex
	projects []*Project
	index    map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// AddSeed registers a project found on disk before expansion. If name is
// already registered the existing project is returned and created is false.
func (r *Registry) AddSeed(name, path string) (p *Project, created bool) {
	return r.Discover(name, path, nil)
}

// Discover returns the project registered under name, creating an
// unresolved placeholder at path if there is none. Exactly one of any number
// of concurrent callers for the same name sees created == true.
func (r *Registry) Discover(name, path string, repo *repourl.Spec) (p *Project, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[name]; ok {
		return r.projects[i], false
	}
	p = newProject(name, path, repo)
	r.index[name] = len(r.projects)
	r.projects = append(r.projects, p)
	return p, true
}

// Get looks up a project by name.
func (r *Registry) Get(name string) (*Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.projects[i], true
}

// Projects returns all projects in registration order.
func (r *Registry) Projects() []*Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Project(nil), r.projects...)
}

// Unresolved returns the projects nobody has claimed yet, in registration
// order.
func (r *Registry) Unresolved() []*Project {
	var out []*Project
	for _, p := range r.Projects() {
		if p.State() == Unresolved {
			out = append(out, p)
		}
	}
	return out
}

// Closed reports whether every project is Local or Missing.
func (r *Registry) Closed() bool {
	for _, p := range r.Projects() {
		if !p.Resolved() {
			return false
		}
	}
	return true
}

// Len returns the number of registered projects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.projects)
}
