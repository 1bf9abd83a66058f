package export

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/testutil"
)

// sample builds app → lib (local) and app → util (missing).
func sample(t *testing.T) (*graph.Registry, string) {
	t.Helper()
	ws := t.TempDir()
	testutil.WritePackage(t, filepath.Join(ws, "app"), testutil.Package{
		Name:         "app",
		Dependencies: map[string]string{"lib": "github:acme/lib", "util": "github:acme/util#v2"},
	})
	testutil.WritePackage(t, filepath.Join(ws, "lib"), testutil.Package{Name: "lib"})

	reg := graph.NewRegistry()
	reg.AddSeed("app", filepath.Join(ws, "app"))
	m := &graph.Membership{Matchers: graph.NewMatchers("github.com/acme"), Log: zerolog.Nop()}
	require.NoError(t, graph.NewExpander(reg, graph.Options{Dir: ws, Membership: m, Log: zerolog.Nop()}).Expand(context.Background()))
	return reg, ws
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "json, yaml, dot, table")
}

func TestWrite_json(t *testing.T) {
	reg, ws := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reg, JSON, nil))

	var nodes []Node
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, Node{Name: "app", Path: filepath.Join(ws, "app"), Deps: []string{"lib", "util"}}, nodes[0])
	assert.Equal(t, "github:acme/util#v2", nodes[2].Repository)
	assert.True(t, nodes[2].Missing)
	assert.Contains(t, buf.String(), `"deps": []`, "leaf projects export an empty list")
}

func TestWrite_yaml(t *testing.T) {
	reg, _ := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reg, YAML, nil))

	var nodes []Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, "lib", nodes[1].Name)
	assert.False(t, nodes[1].Missing)
}

func TestWrite_dot(t *testing.T) {
	reg, _ := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reg, Dot, nil))

	want := "digraph {\n" +
		"\t\"app\";\n" +
		"\t\"app\" -> \"lib\";\n" +
		"\t\"app\" -> \"util\";\n" +
		"\t\"lib\";\n" +
		"\t\"util\";\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_table(t *testing.T) {
	reg, _ := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reg, Table, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "lib,util")
	assert.Contains(t, lines[3], "missing")
}
