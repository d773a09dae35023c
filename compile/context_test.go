package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// testRegistry builds a tiny synthetic catalog exercising every module
// capability the compiler reacts to.
func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(&NodeModule{
		Type:     "num",
		Outputs:  []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
		RawValue: func(n *graph.Node) (any, bool) { return n.DataValue("stored") },
		Emit: func(ctx *Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", glsl.TypeFloat, ctx.Input(n.ID, "value", 0.0, glsl.TypeFloat))
			return true
		},
	})
	reg.Register(&NodeModule{
		Type:     "col",
		Outputs:  []graph.SocketDef{{ID: "out", Type: glsl.TypeColor}},
		RawValue: func(n *graph.Node) (any, bool) { return n.DataValue("value") },
		Emit: func(ctx *Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", glsl.TypeColor, ctx.Input(n.ID, "value", "#ffffff", glsl.TypeColor))
			return true
		},
	})
	reg.Register(&NodeModule{
		Type:    "vec3val",
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeVec3}},
		Emit: func(ctx *Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", glsl.TypeVec3, ctx.Input(n.ID, "value", nil, glsl.TypeVec3))
			return true
		},
	})
	reg.Register(&NodeModule{
		Type: "add",
		Inputs: []graph.SocketDef{
			{ID: "a", Type: glsl.TypeFloat},
			{ID: "b", Type: glsl.TypeFloat},
		},
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
		Emit: func(ctx *Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "a", "b")
			a := ctx.Input(n.ID, "a", 0.0, t)
			b := ctx.Input(n.ID, "b", 0.0, t)
			ctx.Define(n.ID, "out", t, a+" + "+b)
			return true
		},
	})
	reg.Register(&NodeModule{
		Type:         "vnorm",
		Outputs:      []graph.SocketDef{{ID: "out", Type: glsl.TypeVec3}},
		SignedOutput: true,
		Emit: func(ctx *Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", glsl.TypeVec3, "normalize(v_normal)")
			return true
		},
	})
	reg.Register(&NodeModule{
		Type:    "boom",
		Outputs: []graph.SocketDef{{ID: "out", Type: glsl.TypeVec2}},
		Emit:    func(ctx *Context, n *graph.Node) bool { panic("emitter bug") },
	})
	reg.Register(&NodeModule{
		Type:            "edges",
		Outputs:         []graph.SocketDef{{ID: "out", Type: glsl.TypeFloat}},
		UsesDerivatives: true,
		Emit: func(ctx *Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", glsl.TypeFloat, "dFdx(v_uv.x)")
			return true
		},
	})
	reg.Register(&NodeModule{
		Type:           "mip",
		Outputs:        []graph.SocketDef{{ID: "out", Type: glsl.TypeVec4}},
		UsesTextureLOD: true,
		SamplesTexture: true,
		Emit: func(ctx *Context, n *graph.Node) bool {
			sampler := ctx.TextureUniform(n.ID)
			ctx.Define(n.ID, "out", glsl.TypeVec4, "texture2DLodEXT("+sampler+", v_uv, 0.0)")
			return true
		},
	})
	reg.Register(&NodeModule{
		Type: FragmentMasterType,
		Inputs: []graph.SocketDef{
			{ID: "color", Type: glsl.TypeColor},
			{ID: "alpha", Type: glsl.TypeFloat},
			{ID: "normal", Type: glsl.TypeVec3},
			{ID: "smoothness", Type: glsl.TypeFloat},
			{ID: "emission", Type: glsl.TypeColor},
			{ID: "occlusion", Type: glsl.TypeFloat},
			{ID: "specular", Type: glsl.TypeColor},
			{ID: "alphaClip", Type: glsl.TypeFloat},
		},
	})
	reg.Register(&NodeModule{
		Type: VertexMasterType,
		Inputs: []graph.SocketDef{
			{ID: "position", Type: glsl.TypeVec3},
			{ID: "normal", Type: glsl.TypeVec3},
			{ID: "tangent", Type: glsl.TypeVec3},
		},
	})
	return reg
}

func TestInputPrecedence(t *testing.T) {
	reg := testRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("src", "num", map[string]any{"value": 5.0}),
			node("k", "num", map[string]any{"a": 2.0, "stored": 3.0}),
		},
		Connections: []*graph.Connection{wire("src", "out", "k", "a")},
	}
	k := g.Nodes[1]

	resolve := func() string {
		ctx := newContext(g, reg, glsl.StageFragment)
		for _, n := range sequence(g, "k", false) {
			emitNode(ctx, n)
		}
		return ctx.Input("k", "a", 7.0, glsl.TypeFloat)
	}

	require.Equal(t, "src_out", resolve(), "connection wins over everything")

	g.Connections = nil
	require.Equal(t, "2.00000", resolve(), "inline override wins once disconnected")

	delete(k.Data, "a")
	require.Equal(t, "3.00000", resolve(), "kind raw value wins once override is gone")

	delete(k.Data, "stored")
	require.Equal(t, "7.00000", resolve(), "caller default is the last resort")
}

func TestInputConnectionWithoutValueFallsThrough(t *testing.T) {
	reg := testRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("ghostsrc", "num", nil),
			node("k", "num", map[string]any{"a": 2.0}),
		},
		Connections: []*graph.Connection{wire("ghostsrc", "out", "k", "a")},
	}
	// Source never emitted: the connection exists but resolves nothing.
	ctx := newContext(g, reg, glsl.StageFragment)
	require.Equal(t, "2.00000", ctx.Input("k", "a", 0.0, glsl.TypeFloat))
}

func TestInputCastsSourceType(t *testing.T) {
	reg := testRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("v", "vec3val", map[string]any{"value": map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}}),
			node("k", "add", nil),
		},
		Connections: []*graph.Connection{wire("v", "out", "k", "a")},
	}
	ctx := newContext(g, reg, glsl.StageFragment)
	for _, n := range sequence(g, "k", false) {
		emitNode(ctx, n)
	}
	require.Equal(t, "v_out.x", ctx.Input("k", "a", 0.0, glsl.TypeFloat))
	require.Equal(t, "vec4(v_out, 1.0)", ctx.Input("k", "a", 0.0, glsl.TypeVec4))
}

func TestDynamicType(t *testing.T) {
	reg := testRegistry()
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("f", "num", map[string]any{"value": 1.0}),
			node("v", "vec3val", nil),
			node("k", "add", nil),
		},
		Connections: []*graph.Connection{
			wire("f", "out", "k", "a"),
			wire("v", "out", "k", "b"),
		},
	}
	ctx := newContext(g, reg, glsl.StageFragment)
	for _, n := range sequence(g, "k", false) {
		emitNode(ctx, n)
	}
	require.Equal(t, glsl.TypeVec3, ctx.DynamicType("k", "a", "b"), "widest vector wins")
	require.Equal(t, glsl.TypeFloat, ctx.DynamicType("k", "a"))
	require.Equal(t, glsl.TypeFloat, ctx.DynamicType("k"), "no sources reads float")
}

func TestUniformAndFunctionDedup(t *testing.T) {
	ctx := newContext(&graph.Graph{}, testRegistry(), glsl.StageFragment)
	ctx.Uniform(UniformTime)
	ctx.Uniform(UniformTime)
	ctx.Uniform(UniformCameraPos)
	require.Equal(t, []string{UniformTime, UniformCameraPos}, ctx.uniforms)

	ctx.Function("float f(float x) { return x; }")
	ctx.Function("float f(float x) { return x; }")
	require.Len(t, ctx.functions, 1)
}

func TestBindFirstWins(t *testing.T) {
	ctx := newContext(&graph.Graph{}, testRegistry(), glsl.StageFragment)
	ctx.Bind("n", "out", Var{Name: "first", Type: glsl.TypeFloat})
	ctx.Bind("n", "out", Var{Name: "second", Type: glsl.TypeVec3})
	v, ok := ctx.Var("n", "out")
	require.True(t, ok)
	require.Equal(t, "first", v.Name)
	require.Equal(t, glsl.TypeFloat, v.Type)

	name := ctx.Define("n", "out", glsl.TypeVec2, "vec2(9.0)")
	require.Equal(t, "first", name, "define after bind returns the bound name")
	require.Empty(t, ctx.stmts, "no statement for an already-bound socket")
}

func TestDefineOpaqueBindsExpression(t *testing.T) {
	ctx := newContext(&graph.Graph{}, testRegistry(), glsl.StageFragment)
	got := ctx.Define("tex1", "tex", glsl.TypeTexture, "u_tex_tex1")
	require.Equal(t, "u_tex_tex1", got)
	require.Empty(t, ctx.stmts)
	v, ok := ctx.Var("tex1", "tex")
	require.True(t, ok)
	require.Equal(t, glsl.TypeTexture, v.Type)
}

func TestVarNameSanitizes(t *testing.T) {
	ctx := newContext(&graph.Graph{}, testRegistry(), glsl.StageFragment)
	name := ctx.VarName("node.1", "out")
	require.NotContains(t, name, ".")
	require.True(t, strings.HasSuffix(name, "_out"))
	require.Equal(t, ctx.VarName("node.1", ""), name, "empty suffix is the primary output")
}

func TestTextureUniformNames(t *testing.T) {
	ctx := newContext(&graph.Graph{}, testRegistry(), glsl.StageFragment)
	require.Equal(t, "u_tex_node_7", ctx.TextureUniform("node_7"))
	require.Equal(t, "u_texdim_node_7", ctx.TextureDimUniform("node_7"))
	require.Contains(t, ctx.uniforms, "uniform sampler2D u_tex_node_7;")
	require.Contains(t, ctx.uniforms, "uniform vec2 u_texdim_node_7;")
}
