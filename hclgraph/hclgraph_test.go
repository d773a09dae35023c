package hclgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminagl/lumina"
	"github.com/luminagl/lumina/graph"
)

func TestParseNodesAndData(t *testing.T) {
	src := `
node "color" "base" {
	label = "Base Color"
	value = "#4488ff"
}

node "slider" "amt" {
	value = 0.25
	min   = 0
	max   = 1
}

node "gradient" "g1" {
	stops = [
		{ pos = 0, color = "#000000" },
		{ pos = 1, color = "#ffffff" },
	]
}

node "boolean" "flag" {
	value = true
}
`
	g, err := Parse([]byte(src), "doc.hcl")
	require.NoError(t, err)
	require.Len(t, g.Nodes, 4)
	require.Empty(t, g.Connections)

	base := g.NodeByID("base")
	require.NotNil(t, base)
	require.Equal(t, "color", base.Type)
	require.Equal(t, "Base Color", base.Label)
	require.Equal(t, map[string]any{"value": "#4488ff"}, base.Data)
	_, hasLabelKey := base.Data["label"]
	require.False(t, hasLabelKey, "label is not a data key")

	amt := g.NodeByID("amt")
	require.Equal(t, map[string]any{"value": 0.25, "min": 0.0, "max": 1.0}, amt.Data)

	grad := g.NodeByID("g1")
	stops, ok := grad.Data["stops"].([]any)
	require.True(t, ok)
	require.Len(t, stops, 2)
	first, ok := stops[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 0.0, first["pos"])
	require.Equal(t, "#000000", first["color"])

	v, ok := g.NodeByID("flag").DataBool("value")
	require.True(t, ok)
	require.True(t, v)
}

func TestParseConnections(t *testing.T) {
	src := `
node "color" "base" { value = "#ff0000" }
node "multiply" "m1" {}

connect {
	from = "base:out"
	to   = "m1:a"
}

connect {
	from = "base:out"
	to   = "m1:b"
}
`
	g, err := Parse([]byte(src), "doc.hcl")
	require.NoError(t, err)
	require.Len(t, g.Connections, 2)

	c := g.Connections[0]
	require.Equal(t, "conn_1", c.ID)
	require.Equal(t, "base", c.SourceNodeID)
	require.Equal(t, "out", c.SourceSocketID)
	require.Equal(t, "m1", c.TargetNodeID)
	require.Equal(t, "a", c.TargetSocketID)
	require.Equal(t, "conn_2", g.Connections[1].ID)
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax error", `node "color" {`},
		{"one label", `node "color" { value = "#ff0000" }`},
		{"empty id label", `node "color" "" {}`},
		{"unknown block", `shader "x" {}`},
		{"duplicate id", `
node "color" "n" {}
node "float" "n" {}
`},
		{"connect missing to", `
node "color" "n" {}
connect {
	from = "n:out"
}
`},
		{"ref without socket", `
node "color" "n" {}
node "multiply" "m" {}
connect {
	from = "n"
	to   = "m:a"
}
`},
		{"ref to undefined node", `
node "color" "n" {}
connect {
	from = "n:out"
	to   = "ghost:a"
}
`},
		{"nested block in node", `
node "color" "n" {
	extra {}
}
`},
		{"variable reference", `
node "color" "n" {
	value = var.color
}
`},
		{"non-string label attr", `
node "color" "n" {
	label = 3
}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "doc.hcl")
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`node "time" "t1" {}`), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	require.Equal(t, "time", g.Nodes[0].Type)

	_, err = Load(filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)
}

// The two document formats feed the same compiler, so the same graph
// must come out as the same shader byte for byte.
func TestCompilesSameAsJSON(t *testing.T) {
	hclSrc := `
node "color" "base" { value = "#4488ff" }
node "multiply" "m1" {}
node "output" "master" {}

connect {
	from = "base:out"
	to   = "m1:a"
}

connect {
	from = "m1:out"
	to   = "master:color"
}
`
	jsonSrc := `{
	"nodes": [
		{"id": "base", "type": "color", "data": {"value": "#4488ff"}},
		{"id": "m1", "type": "multiply"},
		{"id": "master", "type": "output"}
	],
	"connections": [
		{"id": "conn_1", "sourceNodeId": "base", "sourceSocketId": "out", "targetNodeId": "m1", "targetSocketId": "a"},
		{"id": "conn_2", "sourceNodeId": "m1", "sourceSocketId": "out", "targetNodeId": "master", "targetSocketId": "color"}
	]
}`
	hg, err := Parse([]byte(hclSrc), "doc.hcl")
	require.NoError(t, err)
	jg, err := graph.Parse([]byte(jsonSrc))
	require.NoError(t, err)

	require.Equal(t, lumina.CompileFragment(jg), lumina.CompileFragment(hg))
	require.Equal(t, lumina.CompileVertex(jg), lumina.CompileVertex(hg))
}
