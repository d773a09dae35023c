package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

const overlayFunc = `vec3 lum_overlay(vec3 a, vec3 b) {
	vec3 lo = 2.0 * a * b;
	vec3 hi = 1.0 - 2.0 * (1.0 - a) * (1.0 - b);
	return mix(lo, hi, step(vec3(0.5), a));
}`

const rgb2hsvFunc = `vec3 lum_rgb2hsv(vec3 c) {
	vec4 K = vec4(0.0, -1.0 / 3.0, 2.0 / 3.0, -1.0);
	vec4 p = mix(vec4(c.bg, K.wz), vec4(c.gb, K.xy), step(c.b, c.g));
	vec4 q = mix(vec4(p.xyw, c.r), vec4(c.r, p.yzx), step(p.x, c.r));
	float d = q.x - min(q.w, q.y);
	float e = 1.0e-10;
	return vec3(abs(q.z + (q.w - q.y) / (6.0 * d + e)), d / (q.x + e), q.x);
}`

const hsv2rgbFunc = `vec3 lum_hsv2rgb(vec3 c) {
	vec4 K = vec4(1.0, 2.0 / 3.0, 1.0 / 3.0, 3.0);
	vec3 p = abs(fract(c.xxx + K.xyz) * 6.0 - K.www);
	return c.z * mix(K.xxx, clamp(p - K.xxx, 0.0, 1.0), c.y);
}`

func registerColor(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "blend", Title: "Blend", Category: "color",
		Inputs: []graph.SocketDef{
			sockL("a", "Base", tColor),
			sockL("b", "Blend", tColor),
			sockL("opacity", "Opacity", tFloat),
		},
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			av := ctx.VarName(n.ID, "base")
			bv := ctx.VarName(n.ID, "blend")
			ctx.Stmtf("vec3 %s = %s;", av, ctx.Input(n.ID, "a", "#000000", tColor))
			ctx.Stmtf("vec3 %s = %s;", bv, ctx.Input(n.ID, "b", "#000000", tColor))
			mode, _ := n.DataString("blendMode")
			var mixed string
			switch mode {
			case "add":
				mixed = av + " + " + bv
			case "multiply":
				mixed = av + " * " + bv
			case "screen":
				mixed = "1.0 - (1.0 - " + av + ") * (1.0 - " + bv + ")"
			case "overlay":
				ctx.Function(overlayFunc)
				mixed = "lum_overlay(" + av + ", " + bv + ")"
			case "darken":
				mixed = "min(" + av + ", " + bv + ")"
			case "lighten":
				mixed = "max(" + av + ", " + bv + ")"
			default:
				mixed = bv
			}
			opacity := ctx.Input(n.ID, "opacity", 1.0, tFloat)
			ctx.Define(n.ID, "out", tColor, "mix("+av+", "+mixed+", "+opacity+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "posterize", Title: "Posterize", Category: "color",
		Inputs: []graph.SocketDef{
			sock("in", tColor),
			sockL("steps", "Steps", tFloat),
		},
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			v := ctx.Input(n.ID, "in", 0.0, t)
			sv := ctx.VarName(n.ID, "steps")
			ctx.Stmtf("float %s = max(%s, 1.0);", sv, ctx.Input(n.ID, "steps", 4.0, tFloat))
			ctx.Define(n.ID, "out", t, "floor("+v+" * "+sv+") / "+sv)
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "invert", Title: "Invert", Category: "color",
		Inputs:  inSocket(tColor),
		Outputs: outSocket(tColor),
		Emit:    unaryExpr(func(v string) string { return "1.0 - " + v }),
	})
	r.Register(&compile.NodeModule{
		Type: "contrast", Title: "Contrast", Category: "color",
		Inputs: []graph.SocketDef{
			sock("in", tColor),
			sockL("contrast", "Contrast", tFloat),
		},
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			v := ctx.Input(n.ID, "in", "#808080", tColor)
			c := ctx.Input(n.ID, "contrast", 1.0, tFloat)
			ctx.Define(n.ID, "out", tColor, "("+v+" - 0.5) * "+c+" + 0.5")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "saturation", Title: "Saturation", Category: "color",
		Inputs: []graph.SocketDef{
			sock("in", tColor),
			sockL("saturation", "Saturation", tFloat),
		},
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			tmp := ctx.VarName(n.ID, "c")
			ctx.Stmtf("vec3 %s = %s;", tmp, ctx.Input(n.ID, "in", "#000000", tColor))
			s := ctx.Input(n.ID, "saturation", 1.0, tFloat)
			ctx.Define(n.ID, "out", tColor, "mix(vec3(dot("+tmp+", vec3(0.2126, 0.7152, 0.0722))), "+tmp+", "+s+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "hueShift", Title: "Hue Shift", Category: "color",
		Inputs: []graph.SocketDef{
			sock("in", tColor),
			sockL("shift", "Shift", tFloat),
		},
		Outputs: outSocket(tColor),
		// Shift is a fraction of the hue wheel, so 1.0 is a full turn.
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(rgb2hsvFunc)
			ctx.Function(hsv2rgbFunc)
			hv := ctx.VarName(n.ID, "hsv")
			ctx.Stmtf("vec3 %s = lum_rgb2hsv(%s);", hv, ctx.Input(n.ID, "in", "#000000", tColor))
			shift := ctx.Input(n.ID, "shift", 0.0, tFloat)
			ctx.Define(n.ID, "out", tColor, "lum_hsv2rgb(vec3(fract("+hv+".x + "+shift+"), "+hv+".yz))")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "rgbToHsv", Title: "RGB To HSV", Category: "color",
		Inputs:  inSocket(tColor),
		Outputs: outSocket(tVec3),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(rgb2hsvFunc)
			ctx.Define(n.ID, "out", tVec3, "lum_rgb2hsv("+ctx.Input(n.ID, "in", "#000000", tColor)+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "hsvToRgb", Title: "HSV To RGB", Category: "color",
		Inputs:  inSocket(tVec3),
		Outputs: outSocket(tColor),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Function(hsv2rgbFunc)
			ctx.Define(n.ID, "out", tColor, "lum_hsv2rgb("+ctx.Input(n.ID, "in", 0.0, tVec3)+")")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "luminance", Title: "Luminance", Category: "color",
		Inputs:  inSocket(tColor),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			v := ctx.Input(n.ID, "in", "#000000", tColor)
			ctx.Define(n.ID, "out", tFloat, "dot("+v+", vec3(0.2126, 0.7152, 0.0722))")
			return true
		},
	})
}
