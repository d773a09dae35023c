// Package graph holds the serialized shader graph document and the
// socket rule algebra that decides what a node's sockets look like for
// its current data and connections.
package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Node is one graph node as editors serialize it: a unique id, a node
// kind tag, a canvas position and a free-form data bag holding inline
// socket values and kind-specific settings.
type Node struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Label string         `json:"label,omitempty"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Data  map[string]any `json:"data,omitempty"`
}

// Connection joins a source node's output socket to a target node's
// input socket.
type Connection struct {
	ID             string `json:"id"`
	SourceNodeID   string `json:"sourceNodeId"`
	SourceSocketID string `json:"sourceSocketId"`
	TargetNodeID   string `json:"targetNodeId"`
	TargetSocketID string `json:"targetSocketId"`
}

// Graph is the whole document. Slice order is the order editors created
// things in and is what makes compilation deterministic, so it is
// preserved everywhere.
type Graph struct {
	Nodes       []*Node       `json:"nodes"`
	Connections []*Connection `json:"connections"`
}

// Parse decodes a JSON graph document.
func Parse(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}

// Encode renders the document as indented JSON.
func (g *Graph) Encode() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FirstOfType returns the first node with the given kind tag, or nil.
func (g *Graph) FirstOfType(kind string) *Node {
	for _, n := range g.Nodes {
		if n.Type == kind {
			return n
		}
	}
	return nil
}

// ConnectionInto returns the first connection feeding the given input
// socket, or nil. Inputs normally hold at most one connection; when a
// document carries more the first one wins everywhere.
func (g *Graph) ConnectionInto(nodeID, socketID string) *Connection {
	for _, c := range g.Connections {
		if c.TargetNodeID == nodeID && c.TargetSocketID == socketID {
			return c
		}
	}
	return nil
}

// ConnectionsInto returns all connections feeding any input socket of
// the node, in document order.
func (g *Graph) ConnectionsInto(nodeID string) []*Connection {
	var conns []*Connection
	for _, c := range g.Connections {
		if c.TargetNodeID == nodeID {
			conns = append(conns, c)
		}
	}
	return conns
}

// CountConnections counts connections touching one socket on the given
// side of a node.
func (g *Graph) CountConnections(nodeID, socketID string, dir Direction) int {
	count := 0
	for _, c := range g.Connections {
		switch dir {
		case In:
			if c.TargetNodeID == nodeID && c.TargetSocketID == socketID {
				count++
			}
		case Out:
			if c.SourceNodeID == nodeID && c.SourceSocketID == socketID {
				count++
			}
		}
	}
	return count
}

// Clone returns a structurally independent copy. Node data maps copy one
// level deep, which covers how graph operations mutate them.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes:       make([]*Node, len(g.Nodes)),
		Connections: make([]*Connection, len(g.Connections)),
	}
	for i, n := range g.Nodes {
		nn := *n
		if n.Data != nil {
			nn.Data = make(map[string]any, len(n.Data))
			for k, v := range n.Data {
				nn.Data[k] = v
			}
		}
		out.Nodes[i] = &nn
	}
	for i, c := range g.Connections {
		cc := *c
		out.Connections[i] = &cc
	}
	return out
}

// DataValue reads one key from the node's data bag.
func (n *Node) DataValue(key string) (any, bool) {
	if n.Data == nil {
		return nil, false
	}
	v, ok := n.Data[key]
	return v, ok
}

// DataString reads a string-valued data key.
func (n *Node) DataString(key string) (string, bool) {
	v, ok := n.DataValue(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// DataFloat reads a numeric data key, accepting the number shapes JSON,
// YAML and HCL decoders produce.
func (n *Node) DataFloat(key string) (float32, bool) {
	v, ok := n.DataValue(key)
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float64:
		return float32(f), true
	case float32:
		return f, true
	case int:
		return float32(f), true
	case int64:
		return float32(f), true
	case string:
		if p, err := strconv.ParseFloat(f, 32); err == nil {
			return float32(p), true
		}
	}
	return 0, false
}

// DataBool reads a boolean data key. Numbers count as true when nonzero.
func (n *Node) DataBool(key string) (bool, bool) {
	v, ok := n.DataValue(key)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	case string:
		if b == "true" {
			return true, true
		}
		if b == "false" {
			return false, true
		}
	}
	return false, false
}
