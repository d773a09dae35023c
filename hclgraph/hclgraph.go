// Package hclgraph reads graph documents written in HCL, a friendlier
// authoring format than raw JSON for fixtures and command-line work.
//
// A document is a flat list of node and connect blocks:
//
//	node "color" "base" { value = "#4488ff" }
//	node "multiply" "m1" {}
//
//	connect {
//		from = "base:out"
//		to   = "m1:a"
//	}
//
// A node block's two labels are its kind and its id. The optional label
// attribute names the node for editors; every other attribute becomes
// an entry in the node's data bag. Connection endpoints address sockets
// as "nodeID:socketID".
//
// Parsing is strict where the compiler is lax: unknown block types,
// duplicate node ids, malformed endpoint references and references to
// nodes the document never defines are all errors. A hand-written
// document with a typo should fail loudly here rather than compile to
// a silently wrong shader.
package hclgraph

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/luminagl/lumina/graph"
)

type document struct {
	Nodes    []*nodeBlock    `hcl:"node,block"`
	Connects []*connectBlock `hcl:"connect,block"`
}

type nodeBlock struct {
	Kind string   `hcl:"kind,label"`
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

type connectBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// Load reads and parses one HCL graph document from disk.
func Load(path string) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes an HCL graph document. The filename only labels
// diagnostics.
func Parse(src []byte, filename string) (*graph.Graph, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", filename, diags)
	}

	g := &graph.Graph{}
	seen := make(map[string]struct{}, len(doc.Nodes))
	for _, nb := range doc.Nodes {
		if nb.Kind == "" || nb.ID == "" {
			return nil, fmt.Errorf("%s: node block needs a kind and an id label", filename)
		}
		if _, dup := seen[nb.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate node id %q", filename, nb.ID)
		}
		seen[nb.ID] = struct{}{}
		n, err := buildNode(nb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		g.Nodes = append(g.Nodes, n)
	}

	for i, cb := range doc.Connects {
		srcNode, srcSocket, err := splitRef(cb.From)
		if err != nil {
			return nil, fmt.Errorf("%s: connect from: %w", filename, err)
		}
		tgtNode, tgtSocket, err := splitRef(cb.To)
		if err != nil {
			return nil, fmt.Errorf("%s: connect to: %w", filename, err)
		}
		if _, ok := seen[srcNode]; !ok {
			return nil, fmt.Errorf("%s: connect from %q: no node %q in document", filename, cb.From, srcNode)
		}
		if _, ok := seen[tgtNode]; !ok {
			return nil, fmt.Errorf("%s: connect to %q: no node %q in document", filename, cb.To, tgtNode)
		}
		// Ids follow block order so the same document always loads to the
		// same bytes, connection ids included.
		g.Connections = append(g.Connections, &graph.Connection{
			ID:             fmt.Sprintf("conn_%d", i+1),
			SourceNodeID:   srcNode,
			SourceSocketID: srcSocket,
			TargetNodeID:   tgtNode,
			TargetSocketID: tgtSocket,
		})
	}
	return g, nil
}

func buildNode(nb *nodeBlock) (*graph.Node, error) {
	n := &graph.Node{ID: nb.ID, Type: nb.Kind}
	attrs, diags := nb.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: %w", nb.ID, diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q: attribute %q: %w", nb.ID, name, diags)
		}
		if name == "label" {
			if val.Type() != cty.String {
				return nil, fmt.Errorf("node %q: label must be a string", nb.ID)
			}
			n.Label = val.AsString()
			continue
		}
		nv, err := nativeValue(val)
		if err != nil {
			return nil, fmt.Errorf("node %q: attribute %q: %w", nb.ID, name, err)
		}
		if n.Data == nil {
			n.Data = make(map[string]any, len(attrs))
		}
		n.Data[name] = nv
	}
	return n, nil
}

// splitRef splits a "nodeID:socketID" endpoint reference.
func splitRef(ref string) (nodeID, socketID string, err error) {
	nodeID, socketID, ok := strings.Cut(ref, ":")
	if !ok || nodeID == "" || socketID == "" {
		return "", "", fmt.Errorf("reference %q is not of the form nodeID:socketID", ref)
	}
	return nodeID, socketID, nil
}

// nativeValue converts a cty value into the Go shapes the JSON decoder
// would have produced, so node data reads identically no matter which
// format the document arrived in.
func nativeValue(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("number: %w", err)
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			nv, err := nativeValue(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			nv, err := nativeValue(ev)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = nv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
