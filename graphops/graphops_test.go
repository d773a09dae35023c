package graphops

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

func opsRegistry() *compile.Registry {
	reg := compile.NewRegistry()
	reg.Register(&compile.NodeModule{
		Type:    "num",
		Title:   "Number",
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
	})
	reg.Register(&compile.NodeModule{
		Type:  "blend",
		Title: "Blend",
		Inputs: []graph.SocketDef{
			{ID: "mask", Type: glsl.TypeFloat},
			{ID: "a", Type: glsl.TypeFloat},
			{ID: "b", Type: glsl.TypeFloat},
		},
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
		Rules: graph.SocketRules{Rules: []graph.SocketRule{
			{SocketID: "mask", VisibleWhen: graph.DataEquals("masked", true)},
		}},
	})
	reg.Register(&compile.NodeModule{
		Type:  "surface",
		Title: "Surface",
		Inputs: []graph.SocketDef{
			{ID: "alpha", Type: glsl.TypeFloat},
			{ID: "color", Type: glsl.TypeColor},
		},
		Rules: graph.SocketRules{Fallback: "color"},
	})
	reg.Register(&compile.NodeModule{
		Type:  "pick",
		Title: "Pick",
		Inputs: []graph.SocketDef{
			{ID: "a", Type: glsl.TypeFloat},
			{ID: "b", Type: glsl.TypeFloat},
		},
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
		Rules: graph.SocketRules{Rules: []graph.SocketRule{
			{SocketID: "b", Fallback: true},
		}},
	})
	reg.Register(&compile.NodeModule{
		Type:  "merge",
		Title: "Merge",
		Inputs: []graph.SocketDef{
			{ID: "layers", Type: glsl.TypeColor, MaxConnections: 2},
		},
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeColor}},
	})
	return reg
}

func node(id, kind string, data map[string]any) *graph.Node {
	return &graph.Node{ID: id, Type: kind, Data: data}
}

func wire(id, srcNode, srcSock, tgtNode, tgtSock string) *graph.Connection {
	return &graph.Connection{
		ID:             id,
		SourceNodeID:   srcNode,
		SourceSocketID: srcSock,
		TargetNodeID:   tgtNode,
		TargetSocketID: tgtSock,
	}
}

func TestAddNode(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{}

	out, err := Apply(g, reg, []Op{
		{Op: OpAddNode, NodeType: "num", X: 10, Y: 20},
		{Op: OpAddNode, NodeType: "blend", NodeID: "b1", Label: "My Blend"},
	})
	require.NoError(t, err)
	require.Len(t, out.Nodes, 2)

	gen := out.Nodes[0]
	require.True(t, strings.HasPrefix(gen.ID, "node_"), "generated id %q", gen.ID)
	require.Equal(t, "Number", gen.Label, "label defaults to the kind title")
	require.Equal(t, 10.0, gen.X)
	require.Equal(t, 20.0, gen.Y)

	require.Equal(t, "b1", out.Nodes[1].ID)
	require.Equal(t, "My Blend", out.Nodes[1].Label)

	require.Empty(t, g.Nodes, "input document stays untouched")
}

func TestAddNodeRejectsUnknownKindAndDuplicateID(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{node("n1", "num", nil)}}

	_, err := Apply(g, reg, []Op{{Op: OpAddNode, NodeType: "nope"}})
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = Apply(g, reg, []Op{{Op: OpAddNode, NodeType: "num", NodeID: "n1"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestRemoveNodeDropsTouchingConnections(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("n1", "num", nil),
			node("n2", "num", nil),
			node("b1", "blend", nil),
		},
		Connections: []*graph.Connection{
			wire("c1", "n1", "out", "b1", "a"),
			wire("c2", "n2", "out", "b1", "b"),
		},
	}

	out, err := Apply(g, reg, []Op{{Op: OpRemoveNode, NodeID: "n1"}})
	require.NoError(t, err)
	require.Len(t, out.Nodes, 2)
	require.Len(t, out.Connections, 1)
	require.Equal(t, "c2", out.Connections[0].ID)

	_, err = Apply(g, reg, []Op{{Op: OpRemoveNode, NodeID: "ghost"}})
	require.ErrorIs(t, err, ErrNodeNotFound)

	require.Len(t, g.Connections, 2, "input document stays untouched")
}

func TestAddConnectionExplicitSockets(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{
		node("n1", "num", nil),
		node("b1", "blend", nil),
	}}

	out, err := Apply(g, reg, []Op{{
		Op:             OpAddConnection,
		ConnectionID:   "c1",
		SourceNodeID:   "n1",
		SourceSocketID: "out",
		TargetNodeID:   "b1",
		TargetSocketID: "b",
	}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)
	c := out.Connections[0]
	require.Equal(t, "c1", c.ID)
	require.Equal(t, "b", c.TargetSocketID)
}

func TestAddConnectionResolvesMissingSockets(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{
		node("n1", "num", nil),
		node("s1", "surface", nil),
		node("p1", "pick", nil),
		node("b1", "blend", nil),
	}}

	out, err := Apply(g, reg, []Op{
		{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "s1"},
		{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "p1"},
		{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "b1"},
	})
	require.NoError(t, err)
	require.Len(t, out.Connections, 3)

	require.Equal(t, "out", out.Connections[0].SourceSocketID, "first declared output")
	require.Equal(t, "color", out.Connections[0].TargetSocketID, "explicit fallback id")
	require.Equal(t, "b", out.Connections[1].TargetSocketID, "flagged fallback rule")
	require.Equal(t, "a", out.Connections[2].TargetSocketID, "first visible input; mask is hidden")
	require.True(t, strings.HasPrefix(out.Connections[0].ID, "conn_"))
}

func TestAddConnectionHiddenSocketBecomesVisible(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{
		node("n1", "num", nil),
		node("b1", "blend", map[string]any{"masked": true}),
	}}

	out, err := Apply(g, reg, []Op{{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "b1"}})
	require.NoError(t, err)
	require.Equal(t, "mask", out.Connections[0].TargetSocketID)
}

func TestAddConnectionErrors(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{
		node("n1", "num", nil),
		node("n2", "num", nil),
	}}

	_, err := Apply(g, reg, []Op{{Op: OpAddConnection, SourceNodeID: "ghost", TargetNodeID: "n1"}})
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = Apply(g, reg, []Op{{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "ghost"}})
	require.ErrorIs(t, err, ErrNodeNotFound)

	// num has no inputs at all.
	_, err = Apply(g, reg, []Op{{Op: OpAddConnection, SourceNodeID: "n1", TargetNodeID: "n2"}})
	require.ErrorIs(t, err, ErrNoInputSocket)
}

func TestAddConnectionIdempotent(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("n1", "num", nil),
			node("b1", "blend", nil),
		},
		Connections: []*graph.Connection{wire("c1", "n1", "out", "b1", "a")},
	}

	out, err := Apply(g, reg, []Op{{
		Op: OpAddConnection, SourceNodeID: "n1", SourceSocketID: "out",
		TargetNodeID: "b1", TargetSocketID: "a",
	}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)
	require.Equal(t, "c1", out.Connections[0].ID, "replayed op keeps the original wire")
}

func TestAddConnectionReplacesOccupiedSingleInput(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("n1", "num", nil),
			node("n2", "num", nil),
			node("b1", "blend", nil),
		},
		Connections: []*graph.Connection{wire("c1", "n1", "out", "b1", "a")},
	}

	out, err := Apply(g, reg, []Op{{
		Op: OpAddConnection, SourceNodeID: "n2", SourceSocketID: "out",
		TargetNodeID: "b1", TargetSocketID: "a",
	}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)
	require.Equal(t, "n2", out.Connections[0].SourceNodeID)
}

func TestAddConnectionEvictsOldestOnMultiInput(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("n1", "num", nil),
			node("n2", "num", nil),
			node("n3", "num", nil),
			node("m1", "merge", nil),
		},
		Connections: []*graph.Connection{
			wire("c1", "n1", "out", "m1", "layers"),
			wire("c2", "n2", "out", "m1", "layers"),
		},
	}

	out, err := Apply(g, reg, []Op{{
		Op: OpAddConnection, SourceNodeID: "n3", SourceSocketID: "out",
		TargetNodeID: "m1", TargetSocketID: "layers",
	}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 2, "cap is two")

	var sources []string
	for _, c := range out.Connections {
		sources = append(sources, c.SourceNodeID)
	}
	require.Equal(t, []string{"n2", "n3"}, sources, "oldest wire is the one evicted")
}

func TestRemoveConnection(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("n1", "num", nil),
			node("b1", "blend", nil),
		},
		Connections: []*graph.Connection{
			wire("c1", "n1", "out", "b1", "a"),
			wire("c2", "n1", "out", "b1", "b"),
		},
	}

	out, err := Apply(g, reg, []Op{{Op: OpRemoveConnection, ConnectionID: "c1"}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)
	require.Equal(t, "c2", out.Connections[0].ID)

	out, err = Apply(g, reg, []Op{{
		Op: OpRemoveConnection, SourceNodeID: "n1", SourceSocketID: "out",
		TargetNodeID: "b1", TargetSocketID: "b",
	}})
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)
	require.Equal(t, "c1", out.Connections[0].ID)

	_, err = Apply(g, reg, []Op{{Op: OpRemoveConnection, ConnectionID: "ghost"}})
	require.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestUpdateNodeData(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{node("n1", "num", nil)}}

	out, err := Apply(g, reg, []Op{{Op: OpUpdateNodeData, NodeID: "n1", DataKey: "value", DataValue: 4.5}})
	require.NoError(t, err)
	v, ok := out.Nodes[0].DataValue("value")
	require.True(t, ok)
	require.Equal(t, 4.5, v)
	require.Nil(t, g.Nodes[0].Data, "input document stays untouched")

	out, err = Apply(out, reg, []Op{{Op: OpUpdateNodeData, NodeID: "n1", DataKey: "value"}})
	require.NoError(t, err)
	_, ok = out.Nodes[0].DataValue("value")
	require.False(t, ok, "nil value clears the key")

	_, err = Apply(g, reg, []Op{{Op: OpUpdateNodeData, NodeID: "ghost", DataKey: "value", DataValue: 1}})
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = Apply(g, reg, []Op{{Op: OpUpdateNodeData, NodeID: "n1", DataValue: 1}})
	require.Error(t, err)
}

func TestMoveNode(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{Nodes: []*graph.Node{node("n1", "num", nil)}}

	out, err := Apply(g, reg, []Op{{Op: OpMoveNode, NodeID: "n1", X: -3, Y: 42}})
	require.NoError(t, err)
	require.Equal(t, -3.0, out.Nodes[0].X)
	require.Equal(t, 42.0, out.Nodes[0].Y)

	_, err = Apply(g, reg, []Op{{Op: OpMoveNode, NodeID: "ghost"}})
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestBatchAbortsOnFirstError(t *testing.T) {
	reg := opsRegistry()
	g := &graph.Graph{}

	out, err := Apply(g, reg, []Op{
		{Op: OpAddNode, NodeType: "num", NodeID: "n1"},
		{Op: OpMoveNode, NodeID: "ghost"},
	})
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrNodeNotFound)
	require.Contains(t, err.Error(), "op 1 move_node")
	require.Empty(t, g.Nodes)
}

func TestUnknownOp(t *testing.T) {
	_, err := Apply(&graph.Graph{}, opsRegistry(), []Op{{Op: "set_image"}})
	require.ErrorIs(t, err, ErrUnknownOp)
}
