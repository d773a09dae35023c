package lumina_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminagl/lumina"
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

func node(id, kind string, data map[string]any) *graph.Node {
	return &graph.Node{ID: id, Type: kind, Data: data}
}

func wire(srcNode, srcSocket, dstNode, dstSocket string) *graph.Connection {
	return &graph.Connection{
		ID:             "c_" + srcNode + "_" + dstNode + "_" + dstSocket,
		SourceNodeID:   srcNode,
		SourceSocketID: srcSocket,
		TargetNodeID:   dstNode,
		TargetSocketID: dstSocket,
	}
}

func doc(nodes []*graph.Node, conns ...*graph.Connection) *graph.Graph {
	return &graph.Graph{Nodes: nodes, Connections: conns}
}

func TestFragmentRedColorSurface(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("col", "color", map[string]any{"value": "#ff0000"}),
			node("master", "output", nil),
		},
		wire("col", "out", "master", "color"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "vec3 col_out = vec3(1.00000,0.00000,0.00000);")
	require.Contains(t, src, "vec3 surf_color = col_out;")
	require.Contains(t, src, "lum_light(")
	require.Contains(t, src, "lum_gamma(")
	require.Contains(t, src, "gl_FragColor = vec4(lum_gamma(surf_lit), surf_alpha);")
}

func TestBinaryDefaultsPerKind(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("f", "float", map[string]any{"value": 2.0}),
			node("sum", "add", nil),
			node("prod", "multiply", nil),
		},
		wire("f", "out", "sum", "a"),
		wire("f", "out", "prod", "a"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "float sum_out = f_out + 0.00000;")
	require.Contains(t, src, "float prod_out = f_out * 1.00000;")
}

func TestBroadcastFloatToVector(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("v", "vec3", map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}),
			node("f", "float", map[string]any{"value": 0.5}),
			node("sum", "add", nil),
		},
		wire("v", "out", "sum", "a"),
		wire("f", "out", "sum", "b"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "vec3 v_out = vec3(1.00000,2.00000,3.00000);")
	require.Contains(t, src, "vec3 sum_out = v_out + vec3(f_out);")
}

func TestTimeUniformDeduped(t *testing.T) {
	g := doc([]*graph.Node{
		node("t1", "time", nil),
		node("t2", "time", nil),
	})
	src := lumina.CompileFragment(g)
	require.Equal(t, 1, strings.Count(src, "uniform float u_time;"))
}

func TestPreviewSignedGeometryRemaps(t *testing.T) {
	g := doc([]*graph.Node{node("n1", "normal", nil)})
	src := lumina.CompilePreview(g, "n1", compile.PreviewOptions{})
	require.Contains(t, src, "gl_FragColor = vec4(n1_out * 0.5 + 0.5, 1.0);")
	require.NotContains(t, src, "lum_light(")
}

func TestPreviewLitColorValue(t *testing.T) {
	g := doc([]*graph.Node{node("col", "color", map[string]any{"value": "#3366ff"})})
	src := lumina.CompilePreview(g, "col", compile.PreviewOptions{})
	require.Contains(t, src, "lum_light(col_out")
}

func TestBlendScreenMode(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("a", "color", map[string]any{"value": "#804020"}),
			node("b", "color", map[string]any{"value": "#204080"}),
			node("bl", "blend", map[string]any{"blendMode": "screen"}),
		},
		wire("a", "out", "bl", "a"),
		wire("b", "out", "bl", "b"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "vec3 bl_base = a_out;")
	require.Contains(t, src, "vec3 bl_blend = b_out;")
	require.Contains(t, src, "mix(bl_base, 1.0 - (1.0 - bl_base) * (1.0 - bl_blend), 1.00000)")
}

func TestBlendOverlayRegistersHelperOnce(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("bl1", "blend", map[string]any{"blendMode": "overlay"}),
			node("bl2", "blend", map[string]any{"blendMode": "overlay"}),
		},
	)
	src := lumina.CompileFragment(g)
	require.Equal(t, 1, strings.Count(src, "vec3 lum_overlay(vec3 a, vec3 b)"))
}

func TestSwizzleMaskDrivesType(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("v4", "vec4", map[string]any{"x": 1.0, "y": 2.0, "z": 3.0, "w": 4.0}),
			node("sw", "swizzle", map[string]any{"mask": "xy"}),
		},
		wire("v4", "out", "sw", "in"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "vec2 sw_out = v4_out.xy;")

	g.NodeByID("sw").Data["mask"] = "not a mask"
	src = lumina.CompileFragment(g)
	require.Contains(t, src, "float sw_out = v4_out.x;")
}

func TestMatrixTimesVector(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("m3", "matrix3", map[string]any{"elements": []any{
				1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0,
			}}),
			node("v3", "vec3", map[string]any{"x": 1.0, "y": 0.0, "z": 0.0}),
			node("prod", "multiply", nil),
		},
		wire("m3", "out", "prod", "a"),
		wire("v3", "out", "prod", "b"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "mat3 m3_out = mat3(")
	require.Contains(t, src, "vec3 prod_out = m3_out * v3_out;")
}

func TestSampleGradientFoldsStops(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("gr", "gradient", map[string]any{"stops": []any{
				map[string]any{"pos": 0.0, "color": "#000000"},
				map[string]any{"pos": 1.0, "color": "#ff0000"},
			}}),
			node("sg", "sampleGradient", nil),
		},
		wire("gr", "out", "sg", "gradient"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "float sg_t = 0.50000;")
	require.Contains(t, src,
		"mix(vec3(0.00000,0.00000,0.00000), vec3(1.00000,0.00000,0.00000), clamp((sg_t - 0.00000) / 1.00000, 0.0, 1.0))")
}

func TestGradientRainbowPreset(t *testing.T) {
	g := doc([]*graph.Node{node("gr", "gradient", map[string]any{"preset": "rainbow"})})
	src := lumina.CompilePreview(g, "gr", compile.PreviewOptions{Flat2D: true})
	require.Contains(t, src, "v_uv.x")
	require.GreaterOrEqual(t, strings.Count(src, "mix("), 6)
}

func TestTextureSamplingPerStage(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("ta", "textureAsset", map[string]any{"textureAsset": "bricks.png"}),
			node("tx", "texture2D", nil),
		},
		wire("ta", "tex", "tx", "tex"),
	)
	frag := lumina.CompileFragment(g)
	require.Contains(t, frag, "uniform sampler2D u_tex_ta;")
	require.Contains(t, frag, "vec4 tx_rgba = texture2D(u_tex_ta, v_uv);")
	require.NotContains(t, frag, "#extension GL_EXT_shader_texture_lod")

	vert := lumina.CompileVertex(g)
	require.Contains(t, vert, "texture2DLodEXT(u_tex_ta, a_uv, 0.0)")
	require.Contains(t, vert, "#extension GL_EXT_shader_texture_lod : enable")
}

func TestTextureArrayAtlasDims(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("arr", "textureArrayAsset", nil),
			node("sm", "sampleTextureArray", map[string]any{"index": 3.0}),
		},
		wire("arr", "arr", "sm", "arr"),
	)
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "uniform vec2 u_texdim_arr;")
	require.Contains(t, src, "lum_atlasUV(v_uv, 3.00000, u_texdim_arr)")
}

func TestTextureSocketHiddenByInlineAsset(t *testing.T) {
	mod := lumina.DefaultRegistry().Lookup("texture2D")
	require.NotNil(t, mod)

	g := doc([]*graph.Node{node("tx", "texture2D", map[string]any{"textureAsset": "bricks.png"})})
	eff := graph.EffectiveSockets(g, g.Nodes[0], mod.Inputs, graph.In, mod.Rules)
	require.Equal(t, "tex", eff[0].ID)
	require.False(t, eff[0].Visible, "inline asset replaces the texture input")

	g = doc([]*graph.Node{node("tx", "texture2D", nil)})
	eff = graph.EffectiveSockets(g, g.Nodes[0], mod.Inputs, graph.In, mod.Rules)
	require.True(t, eff[0].Visible)
}

func TestVertexMasterDisplacement(t *testing.T) {
	g := doc(
		[]*graph.Node{
			node("pos", "position", nil),
			node("vm", "vertex", nil),
		},
		wire("pos", "out", "vm", "position"),
	)
	src := lumina.CompileVertex(g)
	require.Contains(t, src, "vec3 pos_out = (u_model * vec4(a_position, 1.0)).xyz;")
	require.Contains(t, src, "vec4 vert_world = u_model * vec4(pos_out, 1.0);")
}

func TestFresnelDefaults(t *testing.T) {
	g := doc([]*graph.Node{node("fr", "fresnel", nil)})
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "uniform vec3 u_cameraPos;")
	require.Contains(t, src,
		"pow(1.0 - clamp(dot(normalize(v_normal), normalize(u_cameraPos - v_worldPos)), 0.0, 1.0), 5.00000)")
}

func TestComparisonInlineData(t *testing.T) {
	g := doc([]*graph.Node{
		node("cmp", "comparison", map[string]any{"operator": "less", "a": 1.0, "b": 2.0}),
	})
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "float cmp_out = ((1.00000 < 2.00000) ? 1.0 : 0.0);")
}

func TestVoronoiOutputs(t *testing.T) {
	g := doc([]*graph.Node{node("vn", "voronoi", nil)})
	src := lumina.CompileFragment(g)
	require.Contains(t, src, "vec2 vn_v = lum_voronoi(v_uv * 5.00000, 2.00000);")
	require.Contains(t, src, "float vn_out = vn_v.x;")
	require.Contains(t, src, "float vn_cells = vn_v.y;")
}

func TestNoiseHelperDeduped(t *testing.T) {
	g := doc([]*graph.Node{
		node("n1", "simpleNoise", nil),
		node("n2", "simpleNoise", map[string]any{"scale": 25.0}),
	})
	src := lumina.CompileFragment(g)
	require.Equal(t, 1, strings.Count(src, "float lum_valueNoise(vec2 p)"))
	require.Contains(t, src, "lum_valueNoise(v_uv * 25.00000)")
}

func TestCatalogShape(t *testing.T) {
	entries := lumina.Catalog(lumina.DefaultRegistry())
	require.Greater(t, len(entries), 100)
	require.Equal(t, "output", entries[0].Type)

	seen := make(map[string]bool, len(entries))
	byType := make(map[string]lumina.CatalogEntry, len(entries))
	for _, e := range entries {
		require.False(t, seen[e.Type], "duplicate kind %q", e.Type)
		seen[e.Type] = true
		byType[e.Type] = e
	}
	add := byType["add"]
	require.Len(t, add.Inputs, 2)
	require.Equal(t, "a", add.Inputs[0].ID)
	require.Equal(t, "math", add.Category)
}

func TestCatalogOrderStable(t *testing.T) {
	a := lumina.Catalog(lumina.NewRegistry())
	b := lumina.Catalog(lumina.NewRegistry())
	require.Equal(t, a, b)
}
