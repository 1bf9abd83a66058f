// Package export renders a closed project graph for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/ui"
)

// Format names an output format.
type Format string

const (
	JSON  Format = "json"
	YAML  Format = "yaml"
	Dot   Format = "dot"
	Table Format = "table"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, Dot, Table}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format: %q (must be %s)", s, strings.Join(names, ", "))
}

// Node is the exported view of a project.
type Node struct {
	Name       string   `json:"name" yaml:"name"`
	Path       string   `json:"path" yaml:"path"`
	Repository string   `json:"repository,omitempty" yaml:"repository,omitempty"`
	Deps       []string `json:"deps" yaml:"deps"`
	Missing    bool     `json:"missing" yaml:"missing"`
}

// Nodes converts the registry into exported nodes in registration order.
func Nodes(reg *graph.Registry) []Node {
	projects := reg.Projects()
	nodes := make([]Node, 0, len(projects))
	for _, p := range projects {
		deps := p.Deps
		if deps == nil {
			deps = []string{}
		}
		nodes = append(nodes, Node{
			Name:       p.Name,
			Path:       p.Path,
			Repository: p.RepositoryURL(),
			Deps:       deps,
			Missing:    p.IsMissing(),
		})
	}
	return nodes
}

// Write renders reg to w in format f. Table names are styled through console
// when it is not nil.
func Write(w io.Writer, reg *graph.Registry, f Format, console *ui.Console) error {
	nodes := Nodes(reg)
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case Dot:
		return writeDot(w, nodes)
	case Table:
		return writeTable(w, nodes, console)
	}
	return fmt.Errorf("unknown format: %q", f)
}

// writeDot prints a graphviz digraph; try `siblink graph --format dot | dot -Tpng`.
func writeDot(w io.Writer, nodes []Node) error {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "\t%q;\n", n.Name)
		for _, dep := range n.Deps {
			fmt.Fprintf(&b, "\t%q -> %q;\n", n.Name, dep)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(w io.Writer, nodes []Node, console *ui.Console) error {
	t := ui.NewTable(w, "NAME", "STATE", "DEPS", "PATH")
	for _, n := range nodes {
		state := "local"
		if n.Missing {
			state = "missing"
		}
		deps := strings.Join(n.Deps, ",")
		if deps == "" {
			deps = "-"
		}
		name := n.Name
		if console != nil {
			name = console.Name(n.Name)
		}
		t.Row(name, state, deps, n.Path)
	}
	return t.Flush()
}
