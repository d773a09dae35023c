package lumina

import (
	"fmt"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

const polarFunc = `vec2 lum_polar(vec2 uv, vec2 center) {
	vec2 d = uv - center;
	return vec2(length(d) * 2.0, atan(d.y, d.x) * 0.15915494 + 0.5);
}`

const twirlFunc = `vec2 lum_twirl(vec2 uv, vec2 center, float strength, vec2 offset) {
	vec2 d = uv - center;
	float a = strength * length(d);
	float s = sin(a);
	float c = cos(a);
	return vec2(d.x * c - d.y * s, d.x * s + d.y * c) + center + offset;
}`

// uvInput resolves a node's "uv" socket, defaulting to the stage's
// first UV channel.
func uvInput(ctx *compile.Context, n *graph.Node) string {
	return ctx.InputExpr(n.ID, "uv", glsl.UV0Name(ctx.Stage()), tVec2)
}

func centerInput(ctx *compile.Context, n *graph.Node) string {
	return ctx.Input(n.ID, "center", map[string]any{"x": 0.5, "y": 0.5}, tVec2)
}

func registerUV(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "tilingOffset", Title: "Tiling And Offset", Category: "uv",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("tiling", "Tiling", tVec2),
			sockL("offset", "Offset", tVec2),
		},
		Outputs: outSocket(tVec2),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			uv := uvInput(ctx, n)
			tiling := ctx.Input(n.ID, "tiling", map[string]any{"x": 1.0, "y": 1.0}, tVec2)
			offset := ctx.Input(n.ID, "offset", 0.0, tVec2)
			ctx.Define(n.ID, "out", tVec2, uv+" * "+tiling+" + "+offset)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "rotateUV", Title: "Rotate UV", Category: "uv",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("center", "Center", tVec2),
			sockL("rotation", "Rotation", tFloat),
		},
		Outputs: outSocket(tVec2),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			uv := uvInput(ctx, n)
			center := centerInput(ctx, n)
			rot := ctx.Input(n.ID, "rotation", 0.0, tFloat)
			if unit, _ := n.DataString("unit"); unit == "degrees" {
				rot = "radians(" + rot + ")"
			}
			d := ctx.VarName(n.ID, "d")
			s := ctx.VarName(n.ID, "s")
			c := ctx.VarName(n.ID, "c")
			ctx.Stmtf("vec2 %s = %s - %s;", d, uv, center)
			ctx.Stmtf("float %s = sin(%s);", s, rot)
			ctx.Stmtf("float %s = cos(%s);", c, rot)
			ctx.Define(n.ID, "out", tVec2, fmt.Sprintf("vec2(%s.x * %s - %s.y * %s, %s.x * %s + %s.y * %s) + %s",
				d, c, d, s, d, s, d, c, center))
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "polarCoordinates", Title: "Polar Coordinates", Category: "uv",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("center", "Center", tVec2),
		},
		Outputs: outSocket(tVec2),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(polarFunc)
			ctx.Define(n.ID, "out", tVec2, "lum_polar("+uvInput(ctx, n)+", "+centerInput(ctx, n)+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "twirl", Title: "Twirl", Category: "uv",
		Inputs: []graph.SocketDef{
			sockL("uv", "UV", tVec2),
			sockL("center", "Center", tVec2),
			sockL("strength", "Strength", tFloat),
			sockL("offset", "Offset", tVec2),
		},
		Outputs: outSocket(tVec2),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(twirlFunc)
			uv := uvInput(ctx, n)
			center := centerInput(ctx, n)
			strength := ctx.Input(n.ID, "strength", 1.0, tFloat)
			offset := ctx.Input(n.ID, "offset", 0.0, tVec2)
			ctx.Define(n.ID, "out", tVec2, "lum_twirl("+uv+", "+center+", "+strength+", "+offset+")")
			return true
		},
	})
}
