package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

var comparisonOps = map[string]string{
	"equal":          "==",
	"notEqual":       "!=",
	"less":           "<",
	"lessOrEqual":    "<=",
	"greater":        ">",
	"greaterOrEqual": ">=",
}

func registerUtility(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type: "comparison", Title: "Comparison", Category: "utility",
		Inputs:  abSockets(tFloat),
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			opName, _ := n.DataString("operator")
			op, ok := comparisonOps[opName]
			if !ok {
				op = ">"
			}
			a := ctx.Input(n.ID, "a", 0.0, tFloat)
			b := ctx.Input(n.ID, "b", 0.0, tFloat)
			ctx.Define(n.ID, "out", tFloat, "(("+a+" "+op+" "+b+") ? 1.0 : 0.0)")
			return true
		},
	})
	r.Register(&compile.NodeModule{
		Type: "branch", Title: "Branch", Category: "utility",
		Inputs: []graph.SocketDef{
			sockL("predicate", "Predicate", tFloat),
			sockL("a", "True", tFloat),
			sockL("b", "False", tFloat),
		},
		Outputs: outSocket(tFloat),
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "a", "b")
			p := ctx.Input(n.ID, "predicate", 0.0, tFloat)
			a := ctx.Input(n.ID, "a", 1.0, t)
			b := ctx.Input(n.ID, "b", 0.0, t)
			ctx.Define(n.ID, "out", t, "("+p+" >= 0.5 ? "+a+" : "+b+")")
			return true
		},
	})
	r.Register(derivativeKind("ddx", "DDX", "dFdx"))
	r.Register(derivativeKind("ddy", "DDY", "dFdy"))
}

// derivativeKind wraps a screen-space derivative builtin. Derivatives
// only exist in fragment programs; vertex programs get zero.
func derivativeKind(kind, title, fn string) *compile.NodeModule {
	return &compile.NodeModule{
		Type: kind, Title: title, Category: "utility",
		Inputs:          inSocket(tFloat),
		Outputs:         outSocket(tFloat),
		UsesDerivatives: true,
		Emit: func(ctx *compile.Context, n *graph.Node) bool {
			t := ctx.DynamicType(n.ID, "in")
			if ctx.Stage() == glsl.StageVertex {
				ctx.Define(n.ID, "out", t, glsl.Zero(t))
				return true
			}
			v := ctx.Input(n.ID, "in", 0.0, t)
			ctx.Define(n.ID, "out", t, fn+"("+v+")")
			return true
		},
	}
}
