package compile

import (
	"fmt"

	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Var is a value produced during compilation: a GLSL expression, usually
// an identifier, and its true type.
type Var struct {
	Name string
	Type glsl.Type
}

// Context is the scratchpad one compilation writes into. Every compile
// call builds a fresh context, so compilation is pure and safe to run
// concurrently over shared graphs and registries.
//
// Statements keep append order. Uniform and function registrations
// deduplicate on exact text while keeping first-seen order. Output
// bindings are write-once: the first value bound to a node socket wins.
type Context struct {
	g     *graph.Graph
	reg   *Registry
	stage glsl.Stage

	stmts        []string
	uniforms     []string
	uniformSeen  map[string]bool
	functions    []string
	functionSeen map[string]bool
	vars         map[string]Var
}

func newContext(g *graph.Graph, reg *Registry, stage glsl.Stage) *Context {
	return &Context{
		g:            g,
		reg:          reg,
		stage:        stage,
		uniformSeen:  make(map[string]bool),
		functionSeen: make(map[string]bool),
		vars:         make(map[string]Var),
	}
}

// Stage reports which program half is being compiled.
func (c *Context) Stage() glsl.Stage { return c.stage }

// Graph exposes the document being compiled for emitters that need to
// inspect their sources beyond resolved values.
func (c *Context) Graph() *graph.Graph { return c.g }

// Stmtf appends one statement line to the program body.
func (c *Context) Stmtf(format string, args ...any) {
	c.stmts = append(c.stmts, fmt.Sprintf(format, args...))
}

// Uniform registers a uniform declaration, once per program. Callers
// must pass byte-identical text for the same uniform so deduplication
// collapses repeats.
func (c *Context) Uniform(decl string) {
	if c.uniformSeen[decl] {
		return
	}
	c.uniformSeen[decl] = true
	c.uniforms = append(c.uniforms, decl)
}

// Function registers a helper function definition, once per program.
func (c *Context) Function(def string) {
	if c.functionSeen[def] {
		return
	}
	c.functionSeen[def] = true
	c.functions = append(c.functions, def)
}

// VarName builds the deterministic identifier for a node output. The
// empty suffix names the primary output.
func (c *Context) VarName(nodeID, suffix string) string {
	if suffix == "" {
		suffix = "out"
	}
	return glsl.SafeIdent(nodeID) + "_" + suffix
}

// Bind records a value as a node socket's output without emitting a
// statement. The first binding for a socket wins; later ones no-op.
func (c *Context) Bind(nodeID, socketID string, v Var) {
	key := nodeID + "\x00" + socketID
	if _, ok := c.vars[key]; ok {
		return
	}
	c.vars[key] = v
}

// Define emits `<type> <name> = <expr>;`, binds the variable to the
// socket and returns its name. Opaque types bind the expression text
// directly since they cannot be declared. Redefining a socket returns
// the existing name without emitting.
func (c *Context) Define(nodeID, socketID string, t glsl.Type, expr string) string {
	key := nodeID + "\x00" + socketID
	if v, ok := c.vars[key]; ok {
		return v.Name
	}
	decl := t.GLSL()
	if decl == "" || t.IsOpaque() {
		c.vars[key] = Var{Name: expr, Type: t}
		return expr
	}
	name := c.VarName(nodeID, socketID)
	c.stmts = append(c.stmts, decl+" "+name+" = "+expr+";")
	c.vars[key] = Var{Name: name, Type: t}
	return name
}

// Var returns the value bound to a node output socket.
func (c *Context) Var(nodeID, socketID string) (Var, bool) {
	v, ok := c.vars[nodeID+"\x00"+socketID]
	return v, ok
}

// SourceVar resolves the value feeding an input socket: the first
// connection into it whose source already produced a value.
func (c *Context) SourceVar(nodeID, socketID string) (Var, bool) {
	conn := c.g.ConnectionInto(nodeID, socketID)
	if conn == nil {
		return Var{}, false
	}
	return c.Var(conn.SourceNodeID, conn.SourceSocketID)
}

// Input resolves the expression feeding an input socket, cast to the
// wanted type. Resolution order: the connected source's value, an inline
// override stored in the node's data under the socket id, the node
// kind's own raw value, and finally the caller's default value.
func (c *Context) Input(nodeID, socketID string, def any, want glsl.Type) string {
	if expr, ok := c.resolveInput(nodeID, socketID, want); ok {
		return expr
	}
	return glsl.Literal(def, want, c.stage)
}

// InputExpr is Input with a raw GLSL expression as the default instead
// of a data value.
func (c *Context) InputExpr(nodeID, socketID, defExpr string, want glsl.Type) string {
	if expr, ok := c.resolveInput(nodeID, socketID, want); ok {
		return expr
	}
	return defExpr
}

func (c *Context) resolveInput(nodeID, socketID string, want glsl.Type) (string, bool) {
	if v, ok := c.SourceVar(nodeID, socketID); ok {
		return glsl.Cast(v.Name, v.Type, want), true
	}
	n := c.g.NodeByID(nodeID)
	if n == nil {
		return "", false
	}
	if raw, ok := n.DataValue(socketID); ok {
		return glsl.Literal(raw, want, c.stage), true
	}
	if mod := c.reg.Lookup(n.Type); mod != nil && mod.RawValue != nil {
		if raw, ok := mod.RawValue(n); ok {
			return glsl.Literal(raw, want, c.stage), true
		}
	}
	return "", false
}

// DynamicType resolves the working type of a polymorphic node from the
// resolved source types of the given input sockets. The widest vector
// rank wins and color counts as vec3. Matrix sources decide only when no
// vector source exists. With no resolved sources at all the type is
// float.
func (c *Context) DynamicType(nodeID string, socketIDs ...string) glsl.Type {
	vecRank, matSize := 0, 0
	for _, sid := range socketIDs {
		v, ok := c.SourceVar(nodeID, sid)
		if !ok {
			continue
		}
		if r := v.Type.Rank(); r > vecRank {
			vecRank = r
		}
		if m := v.Type.MatrixSize(); m > matSize {
			matSize = m
		}
	}
	switch {
	case vecRank > 0:
		return glsl.Vec(vecRank)
	case matSize > 0:
		return glsl.Mat(matSize)
	}
	return glsl.TypeFloat
}

// TextureUniform returns the sampler uniform owned by a texture source
// node and registers its declaration.
func (c *Context) TextureUniform(nodeID string) string {
	name := "u_tex_" + glsl.SafeIdent(nodeID)
	c.Uniform("uniform sampler2D " + name + ";")
	return name
}

// TextureDimUniform returns the dimensions uniform paired with a texture
// source node and registers its declaration. The harness fills it with
// the bound texture's pixel size, or tile counts for atlas textures.
func (c *Context) TextureDimUniform(nodeID string) string {
	name := "u_texdim_" + glsl.SafeIdent(nodeID)
	c.Uniform("uniform vec2 " + name + ";")
	return name
}
