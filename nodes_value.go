package lumina

import (
	"github.com/soypat/glgl/math/ms1"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Value holders store their payload in node data and surface it both as
// an emitted variable and as a RawValue, so downstream nodes resolve
// them identically whether connected or collapsed into inline data.
func registerValues(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "float", Title: "Float", Category: "value",
		Outputs:  outSocket(tFloat),
		RawValue: dataKey("value"),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", tFloat, ctx.Input(n.ID, "value", 0.0, tFloat))
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "vec2", Title: "Vector 2", Category: "value",
		Outputs:  outSocket(tVec2),
		RawValue: vectorValue("x", "y"),
		Emit:     holdValue(tVec2),
	})
	r.Register(&compile.NodeModule{
		Type: "vec3", Title: "Vector 3", Category: "value",
		Outputs:  outSocket(tVec3),
		RawValue: vectorValue("x", "y", "z"),
		Emit:     holdValue(tVec3),
	})
	r.Register(&compile.NodeModule{
		Type: "vec4", Title: "Vector 4", Category: "value",
		Outputs:  outSocket(tVec4),
		RawValue: vectorValue("x", "y", "z", "w"),
		Emit:     holdValue(tVec4),
	})
	r.Register(&compile.NodeModule{
		Type: "color", Title: "Color", Category: "value",
		Outputs:  outSocket(tColor),
		RawValue: dataKey("value"),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", tColor, ctx.Input(n.ID, "value", "#ffffff", tColor))
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "slider", Title: "Slider", Category: "value",
		Outputs: outSocket(tFloat),
		// The stored value clamps to the stored range on the CPU so the
		// emitted literal is already in range.
		RawValue: sliderValue,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			v, _ := sliderValue(n)
			ctx.Define(n.ID, "out", tFloat, glsl.Literal(v, tFloat, ctx.Stage()))
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "boolean", Title: "Boolean", Category: "value",
		Outputs:  outSocket(tFloat),
		RawValue: dataKey("value"),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", tFloat, ctx.Input(n.ID, "value", false, tFloat))
			return true
		},
	})
	r.Register(matrixValue("matrix2", "Matrix 2x2", tMat2))
	r.Register(matrixValue("matrix3", "Matrix 3x3", tMat3))
	r.Register(matrixValue("matrix4", "Matrix 4x4", tMat4))
	r.Register(&compile.NodeModule{
		Type: "gradient", Title: "Gradient", Category: "value",
		Outputs: outSocket(tGradient),
		// The ramp evaluates over the horizontal UV axis so the holder
		// itself previews as the gradient. Sample Gradient reads the stop
		// list from this node's data instead of this variable.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			stops := gradientStops(n)
			name := ctx.VarName(n.ID, "out")
			ctx.Stmtf("vec3 %s = %s;", name, gradientMixChain(stops, glsl.UV0Name(ctx.Stage())+".x"))
			ctx.Bind(n.ID, "out", compile.Var{Name: name, Type: tVec3})
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "textureAsset", Title: "Texture Asset", Category: "value",
		Outputs: []graph.SocketDef{sock("tex", tTexture)},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Bind(n.ID, "tex", compile.Var{Name: ctx.TextureUniform(n.ID), Type: tTexture})
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "textureArrayAsset", Title: "Texture Array", Category: "value",
		Outputs: []graph.SocketDef{sock("arr", tTexArray)},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Bind(n.ID, "arr", compile.Var{Name: ctx.TextureUniform(n.ID), Type: tTexArray})
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "samplerState", Title: "Sampler State", Category: "value",
		Outputs: []graph.SocketDef{sock("out", tSampler)},
		// Sampler state is editor and harness data only; nothing reaches
		// the program text.
		Emit: func(ctx *compile.Context, n *graph.Node) bool { return true },
	})
}

// sliderValue reads a slider's stored value clamped to its stored range.
// The range defaults to [0,1] and tolerates inverted bounds.
func sliderValue(n *graph.Node) (any, bool) {
	v, ok := n.DataFloat("value")
	if !ok {
		return nil, false
	}
	lo, hasLo := n.DataFloat("min")
	hi, hasHi := n.DataFloat("max")
	if !hasLo {
		lo = 0
	}
	if !hasHi {
		hi = 1
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return ms1.Clamp(v, lo, hi), true
}

// holdValue emits the holder's stored value as a variable of the given
// type, relying on the kind's RawValue for the payload.
func holdValue(t glsl.Type) func(*compile.Context, *graph.Node) bool {
	return func(ctx *compile.Context, n *graph.Node) bool {
		ctx.Define(n.ID, "out", t, ctx.Input(n.ID, "value", nil, t))
		return true
	}
}

// vectorValue gathers per-component data fields into one component map.
func vectorValue(keys ...string) func(*graph.Node) (any, bool) {
	return func(n *graph.Node) (any, bool) {
		m := make(map[string]any, len(keys))
		found := false
		for _, k := range keys {
			if v, ok := n.DataValue(k); ok {
				m[k] = v
				found = true
			}
		}
		if !found {
			return nil, false
		}
		return m, true
	}
}

func matrixValue(kind, title string, t glsl.Type) *compile.NodeModule {
	return &compile.NodeModule{
		Type: kind, Title: title, Category: "value",
		Outputs:  outSocket(t),
		RawValue: dataKey("elements"),
		Emit:     holdValue(t),
	}
}
