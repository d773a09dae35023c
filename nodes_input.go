package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Scene inputs read the fixed varying/attribute/uniform interface the
// render harness binds. Each kind resolves per stage: fragment programs
// read interpolated varyings, vertex programs reconstruct the same
// value from attributes and matrices. Kinds producing signed geometric
// data carry SignedOutput so previews remap them into visible range.
func registerInputs(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "uv", Title: "UV", Category: "input",
		Outputs: outSocket(tVec2),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Define(n.ID, "out", tVec2, glsl.UV0Name(ctx.Stage()))
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "time", Title: "Time", Category: "input",
		Outputs: []graph.SocketDef{
			sock("out", tFloat),
			sockL("sinTime", "Sin Time", tFloat),
			sockL("cosTime", "Cos Time", tFloat),
		},
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Uniform(compile.UniformTime)
			ctx.Define(n.ID, "out", tFloat, "u_time")
			ctx.Define(n.ID, "sinTime", tFloat, "sin(u_time)")
			ctx.Define(n.ID, "cosTime", tFloat, "cos(u_time)")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "position", Title: "Position", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformModel)
				ctx.Define(n.ID, "out", tVec3, "(u_model * vec4(a_position, 1.0)).xyz")
			} else {
				ctx.Define(n.ID, "out", tVec3, "v_worldPos")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "normal", Title: "Normal", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformNormalMatrix)
				ctx.Define(n.ID, "out", tVec3, "normalize(u_normalMatrix * a_normal)")
			} else {
				ctx.Define(n.ID, "out", tVec3, "normalize(v_normal)")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "tangent", Title: "Tangent Vector", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformNormalMatrix)
				ctx.Define(n.ID, "out", tVec3, "normalize(u_normalMatrix * a_tangent.xyz)")
			} else {
				ctx.Define(n.ID, "out", tVec3, "normalize(v_tangent)")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "bitangent", Title: "Bitangent Vector", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformNormalMatrix)
				ctx.Define(n.ID, "out", tVec3,
					"cross(normalize(u_normalMatrix * a_normal), normalize(u_normalMatrix * a_tangent.xyz)) * a_tangent.w")
			} else {
				ctx.Define(n.ID, "out", tVec3, "normalize(v_bitangent)")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "vertexColor", Title: "Vertex Color", Category: "input",
		Outputs: outSocket(tVec4),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Define(n.ID, "out", tVec4, "a_color")
			} else {
				ctx.Define(n.ID, "out", tVec4, "v_color")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "viewDirection", Title: "View Direction", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Uniform(compile.UniformCameraPos)
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformModel)
				ctx.Define(n.ID, "out", tVec3, "normalize(u_cameraPos - (u_model * vec4(a_position, 1.0)).xyz)")
			} else {
				ctx.Define(n.ID, "out", tVec3, "normalize(u_cameraPos - v_worldPos)")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "screenPosition", Title: "Screen Position", Category: "input",
		Outputs:      outSocket(tVec2),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformModel)
				ctx.Uniform(compile.UniformView)
				ctx.Uniform(compile.UniformProj)
				clip := ctx.VarName(n.ID, "clip")
				ctx.Stmtf("vec4 %s = u_proj * u_view * u_model * vec4(a_position, 1.0);", clip)
				ctx.Define(n.ID, "out", tVec2, "("+clip+".xy / "+clip+".w) * 0.5 + 0.5")
			} else {
				ctx.Uniform(compile.UniformResolution)
				ctx.Define(n.ID, "out", tVec2, "gl_FragCoord.xy / u_resolution")
			}
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "cameraPosition", Title: "Camera Position", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Uniform(compile.UniformCameraPos)
			ctx.Define(n.ID, "out", tVec3, "u_cameraPos")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "objectPosition", Title: "Object Position", Category: "input",
		Outputs:      outSocket(tVec3),
		SignedOutput: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			ctx.Uniform(compile.UniformObjectPos)
			ctx.Define(n.ID, "out", tVec3, "u_objectPos")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "fresnel", Title: "Fresnel Effect", Category: "input",
		Inputs: []graph.SocketDef{
			sockL("normal", "Normal", tVec3),
			sockL("viewDir", "View Dir", tVec3),
			sockL("power", "Power", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			var nrm, view string
			ctx.Uniform(compile.UniformCameraPos)
			if ctx.Stage() == glsl.StageVertex {
				ctx.Uniform(compile.UniformNormalMatrix)
				ctx.Uniform(compile.UniformModel)
				nrm = ctx.InputExpr(n.ID, "normal", "normalize(u_normalMatrix * a_normal)", tVec3)
				view = ctx.InputExpr(n.ID, "viewDir", "normalize(u_cameraPos - (u_model * vec4(a_position, 1.0)).xyz)", tVec3)
			} else {
				nrm = ctx.InputExpr(n.ID, "normal", "normalize(v_normal)", tVec3)
				view = ctx.InputExpr(n.ID, "viewDir", "normalize(u_cameraPos - v_worldPos)", tVec3)
			}
			p := ctx.Input(n.ID, "power", 5.0, tFloat)
			ctx.Define(n.ID, "out", tFloat, "pow(1.0 - clamp(dot("+nrm+", "+view+"), 0.0, 1.0), "+p+")")
			return true
		},
	})
}
