package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

const hash21Func = `float lum_hash21(vec2 p) {
	return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453123);
}`

const hash22Func = `vec2 lum_hash22(vec2 p) {
	vec2 q = vec2(dot(p, vec2(127.1, 311.7)), dot(p, vec2(269.5, 183.3)));
	return fract(sin(q) * 43758.5453123) * 2.0 - 1.0;
}`

const valueNoiseFunc = `float lum_valueNoise(vec2 p) {
	vec2 i = floor(p);
	vec2 f = fract(p);
	vec2 u = f * f * (3.0 - 2.0 * f);
	float a = lum_hash21(i);
	float b = lum_hash21(i + vec2(1.0, 0.0));
	float c = lum_hash21(i + vec2(0.0, 1.0));
	float d = lum_hash21(i + vec2(1.0, 1.0));
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}`

const gradientNoiseFunc = `float lum_gradientNoise(vec2 p) {
	vec2 i = floor(p);
	vec2 f = fract(p);
	vec2 u = f * f * (3.0 - 2.0 * f);
	float a = dot(lum_hash22(i), f);
	float b = dot(lum_hash22(i + vec2(1.0, 0.0)), f - vec2(1.0, 0.0));
	float c = dot(lum_hash22(i + vec2(0.0, 1.0)), f - vec2(0.0, 1.0));
	float d = dot(lum_hash22(i + vec2(1.0, 1.0)), f - vec2(1.0, 1.0));
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y) + 0.5;
}`

const checkerFunc = `float lum_checker(vec2 uv, vec2 freq) {
	vec2 t = floor(uv * freq);
	return mod(t.x + t.y, 2.0);
}`

// The loop bounds are constant as ES 1.00 requires. Distance is
// squared inside the loop and rooted once at the end.
const voronoiFunc = `vec2 lum_voronoi(vec2 p, float angle) {
	vec2 g = floor(p);
	vec2 f = fract(p);
	float md = 8.0;
	float mc = 0.0;
	for (int y = -1; y <= 1; y++) {
		for (int x = -1; x <= 1; x++) {
			vec2 lattice = vec2(float(x), float(y));
			vec2 h = lum_hash22(g + lattice) * 0.5 + 0.5;
			vec2 site = lattice + vec2(sin(angle * h.x), cos(angle * h.y)) * 0.5 + 0.5 - f;
			float d = dot(site, site);
			if (d < md) {
				md = d;
				mc = h.x;
			}
		}
	}
	return vec2(sqrt(md), mc);
}`

func registerProcedural(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "checkerboard", Title: "Checkerboard", Category: "procedural",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("colorA", "Color A", tColor),
			sockL("colorB", "Color B", tColor),
			sockL("frequency", "Frequency", tVec2),
		},
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(checkerFunc)
			uv := uvInput(ctx, n)
			a := ctx.Input(n.ID, "colorA", "#ffffff", tColor)
			b := ctx.Input(n.ID, "colorB", "#000000", tColor)
			freq := ctx.Input(n.ID, "frequency", map[string]any{"x": 3.0, "y": 3.0}, tVec2)
			ctx.Define(n.ID, "out", tColor, "mix("+a+", "+b+", lum_checker("+uv+", "+freq+"))")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "simpleNoise", Title: "Simple Noise", Category: "procedural",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("scale", "Scale", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(hash21Func)
			ctx.Function(valueNoiseFunc)
			uv := uvInput(ctx, n)
			scale := ctx.Input(n.ID, "scale", 10.0, tFloat)
			ctx.Define(n.ID, "out", tFloat, "lum_valueNoise("+uv+" * "+scale+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "gradientNoise", Title: "Gradient Noise", Category: "procedural",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("scale", "Scale", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(hash22Func)
			ctx.Function(gradientNoiseFunc)
			uv := uvInput(ctx, n)
			scale := ctx.Input(n.ID, "scale", 10.0, tFloat)
			ctx.Define(n.ID, "out", tFloat, "lum_gradientNoise("+uv+" * "+scale+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "voronoi", Title: "Voronoi", Category: "procedural",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("angleOffset", "Angle Offset", tFloat),
			sockL("cellDensity", "Cell Density", tFloat),
		},
		Outputs: []graph.SocketDef{
			sock("out", tFloat),
			sockL("cells", "Cells", tFloat),
		},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(hash22Func)
			ctx.Function(voronoiFunc)
			uv := uvInput(ctx, n)
			angle := ctx.Input(n.ID, "angleOffset", 2.0, tFloat)
			density := ctx.Input(n.ID, "cellDensity", 5.0, tFloat)
			tmp := ctx.VarName(n.ID, "v")
			ctx.Stmtf("vec2 %s = lum_voronoi(%s * %s, %s);", tmp, uv, density, angle)
			ctx.Define(n.ID, "out", tFloat, tmp+".x")
			ctx.Define(n.ID, "cells", tFloat, tmp+".y")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "sampleGradient", Title: "Sample Gradient", Category: "procedural",
		Inputs: []graph.SocketDef{
			sockL("gradient", "Gradient", tGradient),
			sockL("t", "T", tFloat),
		},
		Outputs: outSocket(tColor),
		// Gradients have no shader representation; the connected holder's
		// stop list folds into literal mix math at compile time.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			var src *graph.Node
			if conn := ctx.Graph().ConnectionInto(n.ID, "gradient"); conn != nil {
				src = ctx.Graph().NodeByID(conn.SourceNodeID)
			}
			stops := gradientStops(src)
			tv := ctx.VarName(n.ID, "t")
			ctx.Stmtf("float %s = %s;", tv, ctx.Input(n.ID, "t", 0.5, tFloat))
			ctx.Define(n.ID, "out", tColor, gradientMixChain(stops, tv))
			return true
		},
	})
}
