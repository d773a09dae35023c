package lumina

import (
	"fmt"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

func registerMath(r *compile.Registry) {
	binaries := []struct {
		kind, title string
		emit        func(*compile.Context, *graph.Node) bool
	}{
		{"add", "Add", binaryOp("+", 0, 0)},
		{"subtract", "Subtract", binaryOp("-", 0, 0)},
		{"divide", "Divide", binaryOp("/", 1, 1)},
		{"power", "Power", binaryFn("pow", 0, 2)},
		{"mod", "Modulo", binaryFn("mod", 0, 1)},
		{"min", "Minimum", binaryFn("min", 0, 0)},
		{"max", "Maximum", binaryFn("max", 0, 0)},
		{"atan2", "Arctangent 2", binaryFn("atan", 0, 1)},
	}
	for _, b := range binaries {
		r.Register(&compile.NodeModule{
			Type: b.kind, Title: b.title, Category: "math",
			Inputs:  abSockets(tFloat),
			Outputs: outSocket(tFloat),
			Emit:    b.emit,
		})
	}

	unaries := []struct {
		kind, title string
		emit        func(*compile.Context, *graph.Node) bool
	}{
		{"sqrt", "Square Root", unaryFn("sqrt")},
		{"inverseSqrt", "Inverse Square Root", unaryFn("inversesqrt")},
		{"abs", "Absolute", unaryFn("abs")},
		{"sign", "Sign", unaryFn("sign")},
		{"floor", "Floor", unaryFn("floor")},
		{"ceil", "Ceiling", unaryFn("ceil")},
		{"fract", "Fraction", unaryFn("fract")},
		{"exp", "Exponential", unaryFn("exp")},
		{"exp2", "Exponential Base 2", unaryFn("exp2")},
		{"log", "Natural Log", unaryFn("log")},
		{"log2", "Log Base 2", unaryFn("log2")},
		// ES 1.00 has no round builtin; nearest-integer rounds half up.
		{"round", "Round", unaryExpr(func(v string) string { return "floor(" + v + " + 0.5)" })},
		{"saturate", "Saturate", unaryExpr(func(v string) string { return "clamp(" + v + ", 0.0, 1.0)" })},
		{"oneMinus", "One Minus", unaryExpr(func(v string) string { return "1.0 - " + v })},
		{"negate", "Negate", unaryExpr(func(v string) string { return "-" + v })},
	}
	for _, u := range unaries {
		r.Register(&compile.NodeModule{
			Type: u.kind, Title: u.title, Category: "math",
			Inputs:  inSocket(tFloat),
			Outputs: outSocket(tFloat),
			Emit:    u.emit,
		})
	}

	r.Register(&compile.NodeModule{
		Type: "multiply", Title: "Multiply", Category: "math",
		Inputs:  abSockets(tFloat),
		Outputs: outSocket(tFloat),
		// The one arithmetic kind where matrices multiply
		// linear-algebraically instead of componentwise.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			va, aok := ctx.SourceVar(n.ID, "a")
			vb, bok := ctx.SourceVar(n.ID, "b")
			aMat := aok && va.Type.IsMatrix()
			bMat := bok && vb.Type.IsMatrix()
			switch {
			case aMat && bMat:
				size := va.Type.MatrixSize()
				if s := vb.Type.MatrixSize(); s > size {
					size = s
				}
				t := glsl.Mat(size)
				ctx.Define(n.ID, "out", t, glsl.Cast(va.Name, va.Type, t)+" * "+glsl.Cast(vb.Name, vb.Type, t))
			case aMat:
				t := glsl.Vec(va.Type.MatrixSize())
				b := ctx.Input(n.ID, "b", 1.0, t)
				ctx.Define(n.ID, "out", t, va.Name+" * "+b)
			case bMat:
				t := glsl.Vec(vb.Type.MatrixSize())
				a := ctx.Input(n.ID, "a", 1.0, t)
				ctx.Define(n.ID, "out", t, a+" * "+vb.Name)
			default:
				t := ctx.DynamicType(n.ID, "a", "b")
				a := ctx.Input(n.ID, "a", 1.0, t)
				b := ctx.Input(n.ID, "b", 1.0, t)
				ctx.Define(n.ID, "out", t, a+" * "+b)
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "clamp", Title: "Clamp", Category: "math",
		Inputs: []graph.SocketDef{
			sock("in", tFloat),
			sockL("min", "Min", tFloat),
			sockL("max", "Max", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			v := ctx.Input(n.ID, "in", 0.0, t)
			lo := ctx.Input(n.ID, "min", 0.0, tFloat)
			hi := ctx.Input(n.ID, "max", 1.0, tFloat)
			ctx.Define(n.ID, "out", t, "clamp("+v+", "+lo+", "+hi+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "lerp", Title: "Lerp", Category: "math",
		Inputs: []graph.SocketDef{
			sock("a", tFloat),
			sock("b", tFloat),
			sockL("t", "T", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "a", "b")
			a := ctx.Input(n.ID, "a", 0.0, t)
			b := ctx.Input(n.ID, "b", 1.0, t)
			f := ctx.Input(n.ID, "t", 0.5, tFloat)
			ctx.Define(n.ID, "out", t, "mix("+a+", "+b+", "+f+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "smoothstep", Title: "Smoothstep", Category: "math",
		Inputs: []graph.SocketDef{
			sockL("edge1", "Edge 1", tFloat),
			sockL("edge2", "Edge 2", tFloat),
			sock("in", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			e1 := ctx.Input(n.ID, "edge1", 0.0, tFloat)
			e2 := ctx.Input(n.ID, "edge2", 1.0, tFloat)
			v := ctx.Input(n.ID, "in", 0.0, t)
			ctx.Define(n.ID, "out", t, "smoothstep("+e1+", "+e2+", "+v+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "step", Title: "Step", Category: "math",
		Inputs: []graph.SocketDef{
			sockL("edge", "Edge", tFloat),
			sock("in", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			edge := ctx.Input(n.ID, "edge", 0.5, tFloat)
			v := ctx.Input(n.ID, "in", 0.0, t)
			ctx.Define(n.ID, "out", t, "step("+edge+", "+v+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "remap", Title: "Remap", Category: "math",
		Inputs: []graph.SocketDef{
			sock("in", tFloat),
			sockL("inMin", "In Min", tFloat),
			sockL("inMax", "In Max", tFloat),
			sockL("outMin", "Out Min", tFloat),
			sockL("outMax", "Out Max", tFloat),
		},
		Outputs: outSocket(tFloat),
		// The input span is floored at an epsilon so degenerate ranges
		// yield a finite value instead of an infinity.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			v := ctx.Input(n.ID, "in", 0.0, t)
			iMin := ctx.Input(n.ID, "inMin", 0.0, tFloat)
			iMax := ctx.Input(n.ID, "inMax", 1.0, tFloat)
			oMin := ctx.Input(n.ID, "outMin", 0.0, tFloat)
			oMax := ctx.Input(n.ID, "outMax", 1.0, tFloat)
			ctx.Define(n.ID, "out", t, fmt.Sprintf("%s + (%s - %s) * (%s - %s) / max(%s - %s, 0.00001)",
				oMin, v, iMin, oMax, oMin, iMax, iMin))
			return true
		},
	})
}
