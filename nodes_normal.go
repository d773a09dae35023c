package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// flatNormal is the tangent-space identity normal holders default to.
var flatNormal = map[string]any{"x": 0.0, "y": 0.0, "z": 1.0}

func registerNormal(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "normalStrength", Title: "Normal Strength", Category: "normal",
		Inputs: []graph.SocketDef{
			sock("in", tVec3),
			sockL("strength", "Strength", tFloat),
		},
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		// Strength scales the tangent-plane components and flattens the
		// z axis toward the unperturbed normal below 1.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			tmp := ctx.VarName(n.ID, "n")
			ctx.Stmtf("vec3 %s = %s;", tmp, ctx.Input(n.ID, "in", flatNormal, tVec3))
			s := ctx.Input(n.ID, "strength", 1.0, tFloat)
			ctx.Define(n.ID, "out", tVec3,
				"normalize(vec3("+tmp+".xy * "+s+", mix(1.0, "+tmp+".z, clamp("+s+", 0.0, 1.0))))")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "normalBlend", Title: "Normal Blend", Category: "normal",
		Inputs: []graph.SocketDef{
			sockL("a", "Base", tVec3),
			sockL("b", "Detail", tVec3),
		},
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			av := ctx.VarName(n.ID, "a")
			bv := ctx.VarName(n.ID, "b")
			ctx.Stmtf("vec3 %s = %s;", av, ctx.Input(n.ID, "a", flatNormal, tVec3))
			ctx.Stmtf("vec3 %s = %s;", bv, ctx.Input(n.ID, "b", flatNormal, tVec3))
			ctx.Define(n.ID, "out", tVec3,
				"normalize(vec3("+av+".xy + "+bv+".xy, "+av+".z * "+bv+".z))")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "normalFromHeight", Title: "Normal From Height", Category: "normal",
		Inputs: []graph.SocketDef{
			sockL("height", "Height", tFloat),
			sockL("strength", "Strength", tFloat),
		},
		Outputs:         outSocket(tVec3),
		SignedOutput:    true,
		UsesDerivatives: true,
		// Screen-space derivatives of the height field stand in for a
		// proper tangent-space gradient. Vertex programs have no
		// derivatives, so the kind degrades to the flat normal there.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Define(n.ID, "out", tVec3, "vec3(0.0, 0.0, 1.0)")
				return true
			}
			h := ctx.VarName(n.ID, "h")
			ctx.Stmtf("float %s = %s;", h, ctx.Input(n.ID, "height", 0.0, tFloat))
			s := ctx.Input(n.ID, "strength", 1.0, tFloat)
			ctx.Define(n.ID, "out", tVec3,
				"normalize(vec3(-dFdx("+h+") * "+s+", -dFdy("+h+") * "+s+", 1.0))")
			return true
		},
	})
}
