// Package lumina compiles visual shader graphs into GLSL ES 1.00
// program pairs. It ships the built-in node catalog and the entry
// points editors call: CompileFragment and CompileVertex for the
// surface pair and CompilePreview for single-node thumbnails.
//
// The compiler itself lives in the compile subpackage and knows no
// concrete node kind; everything here is catalog. Applications extend
// the catalog by registering their own compile.NodeModule values on a
// registry from NewRegistry.
package lumina

import (
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

// NewRegistry builds a registry holding the complete built-in catalog.
// Registration order fixes catalog order, so palettes and exported
// catalogs stay stable across runs.
func NewRegistry() *compile.Registry {
	r := compile.NewRegistry()
	registerMasters(r)
	registerValues(r)
	registerInputs(r)
	registerMath(r)
	registerTrig(r)
	registerVector(r)
	registerUV(r)
	registerProcedural(r)
	registerTexture(r)
	registerColor(r)
	registerNormal(r)
	registerUtility(r)
	return r
}

// defaultRegistry backs the package-level compile functions. Registries
// are read-only after construction, so sharing one is safe under
// concurrent compiles.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared built-in catalog registry.
func DefaultRegistry() *compile.Registry { return defaultRegistry }

// CompileFragment compiles the document's surface fragment program with
// the built-in catalog.
func CompileFragment(g *graph.Graph) string {
	return compile.Fragment(g, defaultRegistry)
}

// CompileVertex compiles the document's vertex program with the
// built-in catalog.
func CompileVertex(g *graph.Graph) string {
	return compile.Vertex(g, defaultRegistry)
}

// CompilePreview compiles a preview program for one node's output with
// the built-in catalog.
func CompilePreview(g *graph.Graph, nodeID string, opts compile.PreviewOptions) string {
	return compile.Preview(g, defaultRegistry, nodeID, opts)
}

// CatalogSocket is the serializable description of one socket.
type CatalogSocket struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Type  string `json:"type" yaml:"type"`
}

// CatalogEntry is the serializable description of one node kind,
// the shape editors consume to build their palettes.
type CatalogEntry struct {
	Type     string          `json:"type" yaml:"type"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Category string          `json:"category,omitempty" yaml:"category,omitempty"`
	Inputs   []CatalogSocket `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs  []CatalogSocket `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Catalog flattens a registry into serializable entries in catalog
// order.
func Catalog(reg *compile.Registry) []CatalogEntry {
	kinds := reg.Types()
	entries := make([]CatalogEntry, 0, len(kinds))
	for _, kind := range kinds {
		mod := reg.Lookup(kind)
		if mod == nil {
			continue
		}
		entries = append(entries, CatalogEntry{
			Type:     mod.Type,
			Title:    mod.Title,
			Category: mod.Category,
			Inputs:   catalogSockets(mod.Inputs),
			Outputs:  catalogSockets(mod.Outputs),
		})
	}
	return entries
}

func catalogSockets(defs []graph.SocketDef) []CatalogSocket {
	if len(defs) == 0 {
		return nil
	}
	out := make([]CatalogSocket, len(defs))
	for i, d := range defs {
		out[i] = CatalogSocket{ID: d.ID, Label: d.Label, Type: string(d.Type)}
	}
	return out
}
