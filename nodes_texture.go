package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Atlas arrays pack layers into a grid; the paired dimensions uniform
// carries the grid's column/row counts.
const atlasFunc = `vec2 lum_atlasUV(vec2 uv, float index, vec2 tiles) {
	float cols = max(tiles.x, 1.0);
	float rows = max(tiles.y, 1.0);
	float i = floor(index + 0.5);
	float x = mod(i, cols);
	float y = floor(i / cols);
	return (vec2(x, y) + fract(uv)) / vec2(cols, rows);
}`

// textureSampler resolves the sampler a sampling node reads: the
// connected asset's uniform when a texture source is wired, the node's
// own uniform otherwise so the harness can bind per sampling node.
func textureSampler(ctx *compile.Context, n *graph.Node, socketID string) string {
	if v, ok := ctx.SourceVar(n.ID, socketID); ok && (v.Type == tTexture || v.Type == tTexArray) {
		return v.Name
	}
	return ctx.TextureUniform(n.ID)
}

// texelOutputs fans a sampled texel out into the conventional output
// set: the full texel, its color part and the four channels.
func texelOutputs(ctx *compile.Context, n *graph.Node, texel string) {
	rgba := ctx.Define(n.ID, "rgba", tVec4, texel)
	ctx.Define(n.ID, "rgb", tVec3, rgba+".rgb")
	ctx.Define(n.ID, "r", tFloat, rgba+".x")
	ctx.Define(n.ID, "g", tFloat, rgba+".y")
	ctx.Define(n.ID, "b", tFloat, rgba+".z")
	ctx.Define(n.ID, "a", tFloat, rgba+".w")
}

func texelSockets() []graph.SocketDef {
	return []graph.SocketDef{
		sockL("rgba", "RGBA", tVec4),
		sockL("rgb", "RGB", tVec3),
		sockL("r", "R", tFloat),
		sockL("g", "G", tFloat),
		sockL("b", "B", tFloat),
		sockL("a", "A", tFloat),
	}
}

func registerTexture(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "texture2D", Title: "Sample Texture 2D", Category: "texture",
		Inputs: []graph.SocketDef{
			sockL("tex", "Texture", tTexture),
			sockL("uv", "UV", tVec2),
			sockL("sampler", "Sampler", tSampler),
		},
		Outputs: texelSockets(),
		Rules: graph.SocketRules{Rules: []graph.SocketRule{
			{SocketID: "tex", VisibleWhen: graph.DataEquals("textureAsset", nil)},
		}},
		SamplesTexture: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			sampler := textureSampler(ctx, n, "tex")
			uv := uvInput(ctx, n)
			texel := "texture2D(" + sampler + ", " + uv + ")"
			if ctx.Stage() == glsl.StageVertex {
				texel = "texture2DLodEXT(" + sampler + ", " + uv + ", 0.0)"
			}
			texelOutputs(ctx, n, texel)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "texture2DLod", Title: "Sample Texture 2D LOD", Category: "texture",
		Inputs: []graph.SocketDef{
			sockL("tex", "Texture", tTexture),
			sockL("uv", "UV", tVec2),
			sockL("lod", "LOD", tFloat),
			sockL("sampler", "Sampler", tSampler),
		},
		Outputs:        texelSockets(),
		UsesTextureLOD: true,
		SamplesTexture: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			sampler := textureSampler(ctx, n, "tex")
			uv := uvInput(ctx, n)
			lod := ctx.Input(n.ID, "lod", 0.0, tFloat)
			texelOutputs(ctx, n, "texture2DLodEXT("+sampler+", "+uv+", "+lod+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "sampleTextureArray", Title: "Sample Texture Array", Category: "texture",
		Inputs: []graph.SocketDef{
			sockL("arr", "Array", tTexArray),
			sockL("index", "Index", tFloat),
			sockL("uv", "UV", tVec2),
			sockL("sampler", "Sampler", tSampler),
		},
		Outputs:        texelSockets(),
		SamplesTexture: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			srcID := n.ID
			if conn := ctx.Graph().ConnectionInto(n.ID, "arr"); conn != nil {
				srcID = conn.SourceNodeID
			}
			ctx.Function(atlasFunc)
			sampler := textureSampler(ctx, n, "arr")
			dims := ctx.TextureDimUniform(srcID)
			index := ctx.Input(n.ID, "index", 0.0, tFloat)
			uv := "lum_atlasUV(" + uvInput(ctx, n) + ", " + index + ", " + dims + ")"
			texel := "texture2D(" + sampler + ", " + uv + ")"
			if ctx.Stage() == glsl.StageVertex {
				texel = "texture2DLodEXT(" + sampler + ", " + uv + ", 0.0)"
			}
			texelOutputs(ctx, n, texel)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "normalUnpack", Title: "Normal Unpack", Category: "texture",
		Inputs:       inSocket(tVec4),
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			v := ctx.Input(n.ID, "in", map[string]any{"x": 0.5, "y": 0.5, "z": 1.0, "w": 1.0}, tVec4)
			ctx.Define(n.ID, "out", tVec3, "normalize("+v+".xyz * 2.0 - 1.0)")
			return true
		},
	})
}
