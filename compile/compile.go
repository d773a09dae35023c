// Package compile turns graph documents into GLSL ES 1.00 programs.
//
// The compiler knows no concrete node kind. Kinds register as NodeModule
// values: declared sockets, socket rules and an emitter that writes
// statements into a compile Context. Three entry points assemble
// programs: Fragment and Vertex for the full surface pair, Preview for a
// single node's dependency tree. All three are total: malformed graphs,
// unknown kinds, missing masters and panicking emitters degrade to
// well-formed fallback output instead of returning errors.
package compile

import (
	"github.com/luminagl/lumina/graph"
)

// NodeModule describes one node kind to the compiler and to editors.
type NodeModule struct {
	// Type is the kind tag graph nodes reference.
	Type string
	// Title and Category feed palettes and documentation; neither
	// affects emission.
	Title    string
	Category string

	Inputs  []graph.SocketDef
	Outputs []graph.SocketDef
	Rules   graph.SocketRules

	// UsesDerivatives marks emitters that call dFdx/dFdy.
	UsesDerivatives bool
	// UsesTextureLOD marks emitters that sample with an explicit lod.
	UsesTextureLOD bool
	// SamplesTexture marks emitters that sample textures at all. In
	// vertex programs any sampling needs the explicit-lod extension.
	SamplesTexture bool
	// SignedOutput marks kinds whose vector output is signed geometric
	// data rather than color; previews remap it into visible range.
	SignedOutput bool

	// RawValue returns the node's own stored value for kinds that hold
	// one. It backs the third step of input resolution, after inline
	// socket overrides and before caller defaults.
	RawValue func(n *graph.Node) (any, bool)

	// Emit writes the node's statements into the context and registers
	// its outputs. Returning false, panicking or being nil makes the
	// compiler bind zero placeholders for the declared outputs instead.
	Emit func(ctx *Context, n *graph.Node) bool
}

// Registry maps node kind tags to modules. Register all kinds up front
// and share the registry across compiles; lookups are read-only.
type Registry struct {
	modules map[string]*NodeModule
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*NodeModule)}
}

// Register adds a module. Re-registering a tag replaces the module but
// keeps its original position in the catalog order.
func (r *Registry) Register(m *NodeModule) {
	if _, ok := r.modules[m.Type]; !ok {
		r.order = append(r.order, m.Type)
	}
	r.modules[m.Type] = m
}

// Lookup returns the module for a kind tag, or nil.
func (r *Registry) Lookup(kind string) *NodeModule {
	return r.modules[kind]
}

// Types returns registered kind tags in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
