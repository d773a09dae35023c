package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// Socket type shorthands. Full glsl.Type names make three-socket
// declarations unreadable across a hundred kinds.
const (
	tFloat    = glsl.TypeFloat
	tVec2     = glsl.TypeVec2
	tVec3     = glsl.TypeVec3
	tVec4     = glsl.TypeVec4
	tColor    = glsl.TypeColor
	tMat2     = glsl.TypeMat2
	tMat3     = glsl.TypeMat3
	tMat4     = glsl.TypeMat4
	tTexture  = glsl.TypeTexture
	tTexArray = glsl.TypeTextureArray
	tGradient = glsl.TypeGradient
	tSampler  = glsl.TypeSamplerState
)

func sock(id string, t glsl.Type) graph.SocketDef {
	return graph.SocketDef{ID: id, Type: t}
}

func sockL(id, label string, t glsl.Type) graph.SocketDef {
	return graph.SocketDef{ID: id, Label: label, Type: t}
}

func inSocket(t glsl.Type) []graph.SocketDef {
	return []graph.SocketDef{sock("in", t)}
}

func abSockets(t glsl.Type) []graph.SocketDef {
	return []graph.SocketDef{sock("a", t), sock("b", t)}
}

func outSocket(t glsl.Type) []graph.SocketDef {
	return []graph.SocketDef{sock("out", t)}
}

// dataKey adapts one stored data field into a RawValue provider.
func dataKey(key string) func(*graph.Node) (any, bool) {
	return func(n *graph.Node) (any, bool) { return n.DataValue(key) }
}

// binaryOp emits `a <op> b` at the node's dynamic working type. Operand
// expressions are always primary (names, constructors, swizzles), so no
// parentheses are needed around them.
func binaryOp(op string, aDef, bDef float64) func(*compile.Context, *graph.Node) bool {
	return func(ctx *compile.Context, n *graph.Node) bool {
		t := ctx.DynamicType(n.ID, "a", "b")
		a := ctx.Input(n.ID, "a", aDef, t)
		b := ctx.Input(n.ID, "b", bDef, t)
		ctx.Define(n.ID, "out", t, a+" "+op+" "+b)
		return true
	}
}

// binaryFn emits `fn(a, b)` at the node's dynamic working type.
func binaryFn(fn string, aDef, bDef float64) func(*compile.Context, *graph.Node) bool {
	return func(ctx *compile.Context, n *graph.Node) bool {
		t := ctx.DynamicType(n.ID, "a", "b")
		a := ctx.Input(n.ID, "a", aDef, t)
		b := ctx.Input(n.ID, "b", bDef, t)
		ctx.Define(n.ID, "out", t, fn+"("+a+", "+b+")")
		return true
	}
}

// unaryExpr emits an arbitrary expression of the node's single input at
// its dynamic type.
func unaryExpr(f func(v string) string) func(*compile.Context, *graph.Node) bool {
	return func(ctx *compile.Context, n *graph.Node) bool {
		t := ctx.DynamicType(n.ID, "in")
		v := ctx.Input(n.ID, "in", 0.0, t)
		ctx.Define(n.ID, "out", t, f(v))
		return true
	}
}

// unaryFn emits `fn(in)` at the input's dynamic type.
func unaryFn(fn string) func(*compile.Context, *graph.Node) bool {
	return unaryExpr(func(v string) string { return fn + "(" + v + ")" })
}
