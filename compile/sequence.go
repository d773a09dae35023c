package compile

import (
	"github.com/luminagl/lumina/graph"
)

// sequence orders the nodes one compile emits. Dependencies come first
// by depth-first descent along incoming connections, in document order,
// so the sequence is deterministic for a given document. Cycles truncate
// silently: the edge that would re-enter a node already on the stack is
// abandoned and everything emitted so far stands.
//
// With a root id only the root's dependency tree is covered. With
// coverAll the remaining nodes append afterward in document order, so
// full-program compiles cover disconnected islands too.
func sequence(g *graph.Graph, rootID string, coverAll bool) []*graph.Node {
	done := make(map[string]bool, len(g.Nodes))
	visiting := make(map[string]bool)
	order := make([]*graph.Node, 0, len(g.Nodes))

	var visit func(id string)
	visit = func(id string) {
		if done[id] || visiting[id] {
			return
		}
		n := g.NodeByID(id)
		if n == nil {
			return
		}
		visiting[id] = true
		for _, conn := range g.ConnectionsInto(id) {
			visit(conn.SourceNodeID)
		}
		delete(visiting, id)
		done[id] = true
		order = append(order, n)
	}

	if rootID != "" {
		visit(rootID)
	}
	if coverAll {
		for _, n := range g.Nodes {
			visit(n.ID)
		}
	}
	return order
}
