package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

// The master kinds have no emitter: the assemblers resolve their inputs
// directly into the program tail. They are registered anyway so editors
// see their sockets and socket rules like any other kind.
func registerMasters(r *compile.Registry) {
	r.Register(&compile.NodeModule{
		Type:     compile.FragmentMasterType,
		Title:    "Surface Output",
		Category: "master",
		Inputs: []graph.SocketDef{
			sockL("color", "Color", tColor),
			sockL("alpha", "Alpha", tFloat),
			sockL("normal", "Normal", tVec3),
			sockL("smoothness", "Smoothness", tFloat),
			sockL("emission", "Emission", tColor),
			sockL("occlusion", "Occlusion", tFloat),
			sockL("specular", "Specular", tColor),
			sockL("alphaClip", "Alpha Clip", tFloat),
		},
		Rules: graph.SocketRules{
			Rules: []graph.SocketRule{
				{SocketID: "alphaClip", VisibleWhen: graph.Connected("alpha", graph.In)},
			},
			Fallback: "color",
		},
	})
	r.Register(&compile.NodeModule{
		Type:     compile.VertexMasterType,
		Title:    "Vertex Output",
		Category: "master",
		Inputs: []graph.SocketDef{
			sockL("position", "Position", tVec3),
			sockL("normal", "Normal", tVec3),
			sockL("tangent", "Tangent", tVec3),
		},
		Rules: graph.SocketRules{Fallback: "position"},
	})
}
