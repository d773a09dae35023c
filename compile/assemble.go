package compile

import (
	"strings"

	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Master node kind tags. The assemblers treat these two kinds
// structurally: their inputs become the program's final surface values.
const (
	FragmentMasterType = "output"
	VertexMasterType   = "vertex"
)

// Shared uniform declarations. Emitters and assemblers must register
// byte-identical text so deduplication collapses repeats into one line.
const (
	UniformModel        = "uniform mat4 u_model;"
	UniformView         = "uniform mat4 u_view;"
	UniformProj         = "uniform mat4 u_proj;"
	UniformNormalMatrix = "uniform mat3 u_normalMatrix;"
	UniformCameraPos    = "uniform vec3 u_cameraPos;"
	UniformObjectPos    = "uniform vec3 u_objectPos;"
	UniformTime         = "uniform float u_time;"
	UniformResolution   = "uniform vec2 u_resolution;"
)

const fragmentHeader = `precision highp float;
precision highp int;

varying vec3 v_worldPos;
varying vec3 v_normal;
varying vec3 v_tangent;
varying vec3 v_bitangent;
varying vec2 v_uv;
varying vec4 v_color;
`

const vertexHeader = `precision highp float;
precision highp int;

attribute vec3 a_position;
attribute vec3 a_normal;
attribute vec4 a_tangent;
attribute vec2 a_uv;
attribute vec4 a_color;

varying vec3 v_worldPos;
varying vec3 v_normal;
varying vec3 v_tangent;
varying vec3 v_bitangent;
varying vec2 v_uv;
varying vec4 v_color;
`

// lightFunc is the fixed single-key-light rig every surface runs
// through: Blinn-Phong speculars, a cool ambient floor and additive
// emission. The harness owns real lighting; this exists so materials
// read as surfaces in any viewport.
const lightFunc = `vec3 lum_light(vec3 albedo, vec3 normal, vec3 viewDir, float smoothness, vec3 specColor, float occlusion, vec3 emission) {
	vec3 l = normalize(vec3(0.42, 0.81, 0.41));
	vec3 h = normalize(l + viewDir);
	float ndl = max(dot(normal, l), 0.0);
	float shininess = exp2(1.0 + smoothness * 10.0);
	float spec = pow(max(dot(normal, h), 0.0), shininess) * (0.25 + smoothness);
	vec3 ambient = vec3(0.18, 0.20, 0.23) * occlusion;
	return albedo * (ambient + vec3(1.0, 0.98, 0.92) * ndl) + specColor * spec + emission;
}`

// gammaFunc applies display gamma with a luma-adaptive exponent: bright
// results roll off slightly harder so saturated lights keep detail.
const gammaFunc = `vec3 lum_gamma(vec3 color) {
	vec3 c = max(color, vec3(0.0));
	float luma = dot(c, vec3(0.2126, 0.7152, 0.0722));
	float g = mix(0.4545, 0.5200, clamp(luma, 0.0, 1.0));
	return pow(c, vec3(g));
}`

// PreviewOptions adjust single-node preview compilation.
type PreviewOptions struct {
	// Flat2D bypasses the preview lighting rig and writes the value
	// straight to the framebuffer, for graphs previewed as flat cards.
	Flat2D bool
}

// Fragment compiles the whole document into the fragment half of the
// surface pair. Every node in the document is covered. The first node of
// kind "output" is the master whose inputs drive the surface; without
// one the program paints the magenta fallback so a broken document is
// immediately visible instead of invisible.
func Fragment(g *graph.Graph, reg *Registry) string {
	ctx := newContext(g, reg, glsl.StageFragment)
	master := g.FirstOfType(FragmentMasterType)
	rootID := ""
	if master != nil {
		rootID = master.ID
	}
	nodes := sequence(g, rootID, true)
	for _, n := range nodes {
		emitNode(ctx, n)
	}

	var tail []string
	if master == nil {
		tail = []string{"gl_FragColor = vec4(1.0, 0.0, 1.0, 1.0);"}
	} else {
		ctx.Uniform(UniformCameraPos)
		ctx.Function(lightFunc)
		ctx.Function(gammaFunc)
		color := ctx.Input(master.ID, "color", "#808080", glsl.TypeColor)
		alpha := ctx.Input(master.ID, "alpha", 1.0, glsl.TypeFloat)
		normal := ctx.InputExpr(master.ID, "normal", "v_normal", glsl.TypeVec3)
		smooth := ctx.Input(master.ID, "smoothness", 0.5, glsl.TypeFloat)
		emission := ctx.Input(master.ID, "emission", "#000000", glsl.TypeColor)
		occlusion := ctx.Input(master.ID, "occlusion", 1.0, glsl.TypeFloat)
		specular := ctx.Input(master.ID, "specular", "#ffffff", glsl.TypeColor)
		clip := ctx.Input(master.ID, "alphaClip", 0.0, glsl.TypeFloat)
		tail = []string{
			"vec3 surf_color = " + color + ";",
			"float surf_alpha = " + alpha + ";",
			"if (surf_alpha < " + clip + ") discard;",
			"vec3 surf_normal = normalize(" + normal + ");",
			"vec3 surf_view = normalize(u_cameraPos - v_worldPos);",
			"vec3 surf_lit = lum_light(surf_color, surf_normal, surf_view, " + smooth + ", " + specular + ", " + occlusion + ", " + emission + ");",
			"gl_FragColor = vec4(lum_gamma(surf_lit), surf_alpha);",
		}
	}
	return assemble(ctx, fragmentHeader, nodes, tail)
}

// Vertex compiles the whole document into the vertex half. The first
// node of kind "vertex" is the master feeding position, normal and
// tangent; without one the attributes pass through unchanged.
func Vertex(g *graph.Graph, reg *Registry) string {
	ctx := newContext(g, reg, glsl.StageVertex)
	master := g.FirstOfType(VertexMasterType)
	rootID := ""
	if master != nil {
		rootID = master.ID
	}
	nodes := sequence(g, rootID, true)
	for _, n := range nodes {
		emitNode(ctx, n)
	}

	ctx.Uniform(UniformModel)
	ctx.Uniform(UniformView)
	ctx.Uniform(UniformProj)
	ctx.Uniform(UniformNormalMatrix)

	pos, normal, tangent := "a_position", "a_normal", "a_tangent.xyz"
	if master != nil {
		pos = ctx.InputExpr(master.ID, "position", "a_position", glsl.TypeVec3)
		normal = ctx.InputExpr(master.ID, "normal", "a_normal", glsl.TypeVec3)
		tangent = ctx.InputExpr(master.ID, "tangent", "a_tangent.xyz", glsl.TypeVec3)
	}
	tail := []string{
		"vec4 vert_world = u_model * vec4(" + pos + ", 1.0);",
		"v_worldPos = vert_world.xyz;",
		"v_normal = normalize(u_normalMatrix * " + normal + ");",
		"v_tangent = normalize(u_normalMatrix * " + tangent + ");",
		"v_bitangent = cross(v_normal, v_tangent) * a_tangent.w;",
		"v_uv = a_uv;",
		"v_color = a_color;",
		"gl_Position = u_proj * u_view * vert_world;",
	}
	return assemble(ctx, vertexHeader, nodes, tail)
}

// Preview compiles the dependency tree of one node into a fragment
// program displaying the node's primary output: lit like a gray material
// for color-like values, remapped from signed range for geometric data,
// or raw for flat cards. An unresolvable target paints magenta.
func Preview(g *graph.Graph, reg *Registry, nodeID string, opts PreviewOptions) string {
	ctx := newContext(g, reg, glsl.StageFragment)
	target := g.NodeByID(nodeID)
	nodes := sequence(g, nodeID, false)
	for _, n := range nodes {
		emitNode(ctx, n)
	}

	var tail []string
	v, ok := previewVar(ctx, target)
	mod := (*NodeModule)(nil)
	if target != nil {
		mod = reg.Lookup(target.Type)
	}
	switch {
	case !ok:
		tail = []string{"gl_FragColor = vec4(1.0, 0.0, 1.0, 1.0);"}
	case opts.Flat2D:
		expr := glsl.Cast(v.Name, v.Type, glsl.TypeVec3)
		tail = []string{"gl_FragColor = vec4(" + expr + ", 1.0);"}
	case mod != nil && mod.SignedOutput:
		expr := glsl.Cast(v.Name, v.Type, glsl.TypeVec3)
		tail = []string{"gl_FragColor = vec4(" + expr + " * 0.5 + 0.5, 1.0);"}
	default:
		ctx.Uniform(UniformCameraPos)
		ctx.Function(lightFunc)
		ctx.Function(gammaFunc)
		expr := glsl.Cast(v.Name, v.Type, glsl.TypeVec3)
		tail = []string{
			"vec3 pv_view = normalize(u_cameraPos - v_worldPos);",
			"vec3 pv_lit = lum_light(" + expr + ", normalize(v_normal), pv_view, 0.5, vec3(0.5), 1.0, vec3(0.0));",
			"gl_FragColor = vec4(lum_gamma(pv_lit), 1.0);",
		}
	}
	return assemble(ctx, fragmentHeader, nodes, tail)
}

// previewVar locates the value a preview should display: conventional
// primary output ids first, then the node's first declared output that
// produced a value. Opaque values have no displayable form and are
// skipped, so a bare texture asset previews as the magenta fallback.
func previewVar(ctx *Context, n *graph.Node) (Var, bool) {
	if n == nil {
		return Var{}, false
	}
	for _, sid := range [...]string{"out", "rgba", "rgb", "r"} {
		if v, ok := ctx.Var(n.ID, sid); ok && !v.Type.IsOpaque() {
			return v, true
		}
	}
	if mod := ctx.reg.Lookup(n.Type); mod != nil {
		for _, s := range mod.Outputs {
			if v, ok := ctx.Var(n.ID, s.ID); ok && !v.Type.IsOpaque() {
				return v, true
			}
		}
	}
	return Var{}, false
}

// emitNode runs one node's emitter. A missing, failing or panicking
// emitter downgrades the node to zero placeholders for its declared
// outputs, so one broken node never takes down the program.
func emitNode(ctx *Context, n *graph.Node) {
	mod := ctx.reg.Lookup(n.Type)
	ok := false
	if mod != nil && mod.Emit != nil {
		func() {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			ok = mod.Emit(ctx, n)
		}()
	}
	if !ok {
		bindPlaceholders(ctx, n, mod)
	}
}

func bindPlaceholders(ctx *Context, n *graph.Node, mod *NodeModule) {
	if mod == nil {
		// Unknown kind: assume one float output so downstream inputs
		// still resolve to something typed.
		ctx.Define(n.ID, "out", glsl.TypeFloat, glsl.Zero(glsl.TypeFloat))
		return
	}
	for _, s := range graph.EffectiveSockets(ctx.g, n, mod.Outputs, graph.Out, mod.Rules) {
		if s.Type.IsOpaque() {
			continue
		}
		t := s.Type
		if t == "" {
			t = glsl.TypeFloat
		}
		ctx.Define(n.ID, s.ID, t, glsl.Zero(t))
	}
}

// extensionLines scans the emitted nodes' modules for capability flags
// that need #extension pragmas ahead of everything else in the program.
func extensionLines(ctx *Context, nodes []*graph.Node) []string {
	needDeriv, needLOD := false, false
	for _, n := range nodes {
		mod := ctx.reg.Lookup(n.Type)
		if mod == nil {
			continue
		}
		if mod.UsesDerivatives && ctx.stage == glsl.StageFragment {
			needDeriv = true
		}
		if mod.UsesTextureLOD {
			needLOD = true
		}
		if mod.SamplesTexture && ctx.stage == glsl.StageVertex {
			needLOD = true
		}
	}
	var lines []string
	if needDeriv {
		lines = append(lines, "#extension GL_OES_standard_derivatives : enable")
	}
	if needLOD {
		lines = append(lines, "#extension GL_EXT_shader_texture_lod : enable")
	}
	return lines
}

// assemble lays the program out: extensions, the fixed stage header,
// uniforms, helper functions, then every statement inside main.
func assemble(ctx *Context, header string, nodes []*graph.Node, tail []string) string {
	var b strings.Builder
	for _, ext := range extensionLines(ctx, nodes) {
		b.WriteString(ext)
		b.WriteByte('\n')
	}
	b.WriteString(header)
	b.WriteByte('\n')
	for _, u := range ctx.uniforms {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	if len(ctx.uniforms) > 0 {
		b.WriteByte('\n')
	}
	for _, f := range ctx.functions {
		b.WriteString(f)
		b.WriteString("\n\n")
	}
	b.WriteString("void main() {\n")
	for _, s := range ctx.stmts {
		b.WriteByte('\t')
		b.WriteString(s)
		b.WriteByte('\n')
	}
	for _, s := range tail {
		b.WriteByte('\t')
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}
