package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

func registerVector(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "dot", Title: "Dot Product", Category: "vector",
		Inputs:  abSockets(tVec3),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "a", "b")
			a := ctx.Input(n.ID, "a", 0.0, t)
			b := ctx.Input(n.ID, "b", 0.0, t)
			ctx.Define(n.ID, "out", tFloat, "dot("+a+", "+b+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "cross", Title: "Cross Product", Category: "vector",
		Inputs:  abSockets(tVec3),
		Outputs: outSocket(tVec3),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			a := ctx.Input(n.ID, "a", 0.0, tVec3)
			b := ctx.Input(n.ID, "b", 0.0, tVec3)
			ctx.Define(n.ID, "out", tVec3, "cross("+a+", "+b+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "normalize", Title: "Normalize", Category: "vector",
		Inputs:  inSocket(tVec3),
		Outputs: outSocket(tVec3),
		Emit:    unaryFn("normalize"),
	})
	r.Register(&compile.NodeModule{
		Type: "length", Title: "Length", Category: "vector",
		Inputs:  inSocket(tVec3),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			v := ctx.Input(n.ID, "in", 0.0, t)
			ctx.Define(n.ID, "out", tFloat, "length("+v+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "distance", Title: "Distance", Category: "vector",
		Inputs:  abSockets(tVec3),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "a", "b")
			a := ctx.Input(n.ID, "a", 0.0, t)
			b := ctx.Input(n.ID, "b", 0.0, t)
			ctx.Define(n.ID, "out", tFloat, "distance("+a+", "+b+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "reflect", Title: "Reflect", Category: "vector",
		Inputs: []graph.SocketDef{
			sock("in", tVec3),
			sockL("normal", "Normal", tVec3),
		},
		Outputs: outSocket(tVec3),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in", "normal")
			i := ctx.Input(n.ID, "in", 0.0, t)
			nrm := ctx.Input(n.ID, "normal", map[string]any{"z": 1.0}, t)
			ctx.Define(n.ID, "out", t, "reflect("+i+", "+nrm+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "refract", Title: "Refract", Category: "vector",
		Inputs: []graph.SocketDef{
			sock("in", tVec3),
			sockL("normal", "Normal", tVec3),
			sockL("eta", "Eta", tFloat),
		},
		Outputs: outSocket(tVec3),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in", "normal")
			i := ctx.Input(n.ID, "in", 0.0, t)
			nrm := ctx.Input(n.ID, "normal", map[string]any{"z": 1.0}, t)
			eta := ctx.Input(n.ID, "eta", 0.66, tFloat)
			ctx.Define(n.ID, "out", t, "refract("+i+", "+nrm+", "+eta+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "combine", Title: "Combine", Category: "vector",
		Inputs: []graph.SocketDef{
			sockL("r", "R", tFloat),
			sockL("g", "G", tFloat),
			sockL("b", "B", tFloat),
			sockL("a", "A", tFloat),
		},
		Outputs: []graph.SocketDef{
			sockL("rgba", "RGBA", tVec4),
			sockL("rgb", "RGB", tVec3),
		},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			rr := ctx.Input(n.ID, "r", 0.0, tFloat)
			gg := ctx.Input(n.ID, "g", 0.0, tFloat)
			bb := ctx.Input(n.ID, "b", 0.0, tFloat)
			aa := ctx.Input(n.ID, "a", 1.0, tFloat)
			rgba := ctx.Define(n.ID, "rgba", tVec4, "vec4("+rr+", "+gg+", "+bb+", "+aa+")")
			ctx.Define(n.ID, "rgb", tVec3, rgba+".rgb")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "split", Title: "Split", Category: "vector",
		Inputs:  inSocket(tVec4),
		Outputs: []graph.SocketDef{
			sockL("r", "R", tFloat),
			sockL("g", "G", tFloat),
			sockL("b", "B", tFloat),
			sockL("a", "A", tFloat),
			sockL("rgb", "RGB", tVec3),
		},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			tmp := ctx.VarName(n.ID, "v")
			ctx.Stmtf("vec4 %s = %s;", tmp, ctx.Input(n.ID, "in", nil, tVec4))
			ctx.Define(n.ID, "r", tFloat, tmp+".x")
			ctx.Define(n.ID, "g", tFloat, tmp+".y")
			ctx.Define(n.ID, "b", tFloat, tmp+".z")
			ctx.Define(n.ID, "a", tFloat, tmp+".w")
			ctx.Define(n.ID, "rgb", tVec3, tmp+".xyz")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "swizzle", Title: "Swizzle", Category: "vector",
		Inputs:  inSocket(tVec4),
		Outputs: outSocket(tFloat),
		Rules: graph.SocketRules{Rules: []graph.SocketRule{
			{SocketID: "out", Type: graph.SwizzleMaskLength("mask", "x")},
		}},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			mask, _ := n.DataString("mask")
			if !glsl.ValidSwizzle(mask) {
				mask = "x"
			}
			v := ctx.Input(n.ID, "in", nil, tVec4)
			ctx.Define(n.ID, "out", glsl.Vec(len(mask)), v+"."+mask)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "channel", Title: "Channel", Category: "vector",
		Inputs:  inSocket(tVec4),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ch, _ := n.DataString("channel")
			if len(ch) != 1 || !glsl.ValidSwizzle(ch) {
				ch = "r"
			}
			v := ctx.Input(n.ID, "in", nil, tVec4)
			ctx.Define(n.ID, "out", tFloat, v+"."+ch)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "transform", Title: "Transform", Category: "vector",
		Inputs: []graph.SocketDef{
			sockL("m", "Matrix", tMat4),
			sock("in", tVec3),
		},
		Outputs: outSocket(tVec3),
		// Points ride the full affine transform; directions drop the
		// translation column by using w = 0.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			m := ctx.Input(n.ID, "m", nil, tMat4)
			v := ctx.Input(n.ID, "in", 0.0, tVec3)
			w := "1.0"
			if mode, _ := n.DataString("mode"); mode == "direction" {
				w = "0.0"
			}
			ctx.Define(n.ID, "out", tVec3, "("+m+" * vec4("+v+", "+w+")).xyz")
			return true
		},
	})
}
