// Package graphops applies editor and agent operations to graph
// documents. Operations arrive as data (typically JSON from the AI
// service or an editor action log) and apply against a copy of the
// document, so callers keep the original for undo and diffing.
//
// Unlike compilation, application is strict: an operation referencing a
// node that does not exist is an error, not something to paper over.
// The compiler's fail-soft behavior exists so a half-edited document
// still renders; operations are the edits themselves and a bad one
// should be rejected before it lands in the document.
package graphops

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

// Operation kinds, named as the agent protocol spells them.
const (
	OpAddNode          = "add_node"
	OpRemoveNode       = "remove_node"
	OpAddConnection    = "add_connection"
	OpRemoveConnection = "remove_connection"
	OpUpdateNodeData   = "update_node_data"
	OpMoveNode         = "move_node"
)

var (
	// ErrUnknownOp rejects operation kinds this package does not apply.
	// Asset and image operations ride the same protocol but belong to
	// the asset pipeline, not the document.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrNodeNotFound rejects operations referencing missing node ids.
	ErrNodeNotFound = errors.New("node not found")
	// ErrUnknownKind rejects add_node with a kind the registry lacks.
	ErrUnknownKind = errors.New("unknown node kind")
	// ErrConnectionNotFound rejects remove_connection with no match.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrNoInputSocket rejects add_connection when no target socket was
	// named and the target kind offers no visible input to fall back to.
	ErrNoInputSocket = errors.New("no input socket to connect")
)

// Op is one graph operation. Field names follow the agent wire format;
// unused fields stay zero for any given op kind.
type Op struct {
	Op string `json:"op"`

	NodeID string `json:"nodeId,omitempty"`

	// add_node
	NodeType string  `json:"nodeType,omitempty"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`

	// connections
	ConnectionID   string `json:"connectionId,omitempty"`
	SourceNodeID   string `json:"sourceNodeId,omitempty"`
	SourceSocketID string `json:"sourceSocketId,omitempty"`
	TargetNodeID   string `json:"targetNodeId,omitempty"`
	TargetSocketID string `json:"targetSocketId,omitempty"`

	// update_node_data
	DataKey   string `json:"dataKey,omitempty"`
	DataValue any    `json:"dataValue,omitempty"`
}

// Apply runs the operations in order against a copy of the document and
// returns the result. The input document is never mutated. The first
// failing operation aborts the whole batch, so a returned error means
// the document is unchanged from the caller's point of view.
func Apply(g *graph.Graph, reg *compile.Registry, ops []Op) (*graph.Graph, error) {
	out := g.Clone()
	for i, op := range ops {
		if err := applyOne(out, reg, op); err != nil {
			return nil, fmt.Errorf("op %d %s: %w", i, op.Op, err)
		}
	}
	return out, nil
}

func applyOne(g *graph.Graph, reg *compile.Registry, op Op) error {
	switch op.Op {
	case OpAddNode:
		return addNode(g, reg, op)
	case OpRemoveNode:
		return removeNode(g, op)
	case OpAddConnection:
		return addConnection(g, reg, op)
	case OpRemoveConnection:
		return removeConnection(g, op)
	case OpUpdateNodeData:
		return updateNodeData(g, op)
	case OpMoveNode:
		return moveNode(g, op)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
}

func addNode(g *graph.Graph, reg *compile.Registry, op Op) error {
	mod := reg.Lookup(op.NodeType)
	if mod == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKind, op.NodeType)
	}
	id := op.NodeID
	if id == "" {
		id = "node_" + uuid.NewString()
	} else if g.NodeByID(id) != nil {
		return fmt.Errorf("node id %q already exists", id)
	}
	label := op.Label
	if label == "" {
		label = mod.Title
	}
	g.Nodes = append(g.Nodes, &graph.Node{
		ID:    id,
		Type:  op.NodeType,
		Label: label,
		X:     op.X,
		Y:     op.Y,
	})
	return nil
}

// removeNode drops the node and every connection touching it, so the
// document never accumulates the dangling edges the compiler would
// otherwise silently skip.
func removeNode(g *graph.Graph, op Op) error {
	idx := -1
	for i, n := range g.Nodes {
		if n.ID == op.NodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, op.NodeID)
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.SourceNodeID == op.NodeID || c.TargetNodeID == op.NodeID {
			continue
		}
		kept = append(kept, c)
	}
	g.Connections = kept
	return nil
}

func addConnection(g *graph.Graph, reg *compile.Registry, op Op) error {
	src := g.NodeByID(op.SourceNodeID)
	if src == nil {
		return fmt.Errorf("source %w: %q", ErrNodeNotFound, op.SourceNodeID)
	}
	tgt := g.NodeByID(op.TargetNodeID)
	if tgt == nil {
		return fmt.Errorf("target %w: %q", ErrNodeNotFound, op.TargetNodeID)
	}

	srcSocket := op.SourceSocketID
	if srcSocket == "" {
		srcSocket = primaryOutput(reg, src)
	}
	tgtSocket := op.TargetSocketID
	if tgtSocket == "" {
		var err error
		tgtSocket, err = fallbackInput(g, reg, tgt)
		if err != nil {
			return err
		}
	}

	for _, c := range g.Connections {
		if c.SourceNodeID == src.ID && c.SourceSocketID == srcSocket &&
			c.TargetNodeID == tgt.ID && c.TargetSocketID == tgtSocket {
			return nil // already wired; idempotent for replayed agent ops
		}
	}

	evictOverCapacity(g, reg, tgt, tgtSocket)

	id := op.ConnectionID
	if id == "" {
		id = "conn_" + uuid.NewString()
	}
	g.Connections = append(g.Connections, &graph.Connection{
		ID:             id,
		SourceNodeID:   src.ID,
		SourceSocketID: srcSocket,
		TargetNodeID:   tgt.ID,
		TargetSocketID: tgtSocket,
	})
	return nil
}

// primaryOutput picks the output socket a sourceless reference means:
// the kind's first declared output, or the conventional "out" for kinds
// the registry does not describe in detail.
func primaryOutput(reg *compile.Registry, n *graph.Node) string {
	if mod := reg.Lookup(n.Type); mod != nil && len(mod.Outputs) > 0 {
		return mod.Outputs[0].ID
	}
	return "out"
}

// fallbackInput picks the input socket an unaddressed connection should
// land on: the rule set's declared fallback, else the first currently
// visible effective input.
func fallbackInput(g *graph.Graph, reg *compile.Registry, n *graph.Node) (string, error) {
	mod := reg.Lookup(n.Type)
	if mod == nil {
		return "", fmt.Errorf("%w: kind %q is unknown", ErrNoInputSocket, n.Type)
	}
	if id, ok := graph.FallbackSocketID(mod.Rules); ok {
		return id, nil
	}
	for _, es := range graph.EffectiveSockets(g, n, mod.Inputs, graph.In, mod.Rules) {
		if es.Visible {
			return es.ID, nil
		}
	}
	return "", fmt.Errorf("%w: kind %q has no visible inputs", ErrNoInputSocket, n.Type)
}

// evictOverCapacity drops the oldest connections into a socket until a
// new one fits its effective cap. Editors behave the same way: wiring
// into an occupied single-connection input replaces the old wire.
func evictOverCapacity(g *graph.Graph, reg *compile.Registry, n *graph.Node, socketID string) {
	mod := reg.Lookup(n.Type)
	if mod == nil {
		return
	}
	maxConns := 0
	for _, es := range graph.EffectiveSockets(g, n, mod.Inputs, graph.In, mod.Rules) {
		if es.ID == socketID {
			maxConns = es.MaxConnections
			break
		}
	}
	if maxConns <= 0 {
		return
	}
	room := maxConns - 1
	kept := g.Connections[:0]
	// Connections append in creation order, so the oldest wires into the
	// socket sit first; drop from the front until the new wire fits.
	var into []*graph.Connection
	for _, c := range g.Connections {
		if c.TargetNodeID == n.ID && c.TargetSocketID == socketID {
			into = append(into, c)
			continue
		}
		kept = append(kept, c)
	}
	if drop := len(into) - room; drop > 0 {
		into = into[drop:]
	}
	g.Connections = append(kept, into...)
}

func removeConnection(g *graph.Graph, op Op) error {
	idx := -1
	for i, c := range g.Connections {
		if op.ConnectionID != "" {
			if c.ID == op.ConnectionID {
				idx = i
				break
			}
			continue
		}
		if c.SourceNodeID == op.SourceNodeID && c.SourceSocketID == op.SourceSocketID &&
			c.TargetNodeID == op.TargetNodeID && c.TargetSocketID == op.TargetSocketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrConnectionNotFound
	}
	g.Connections = append(g.Connections[:idx], g.Connections[idx+1:]...)
	return nil
}

// updateNodeData sets one data key. A nil value clears the key, which
// is how editors remove an inline override so a socket falls back to
// its kind default again.
func updateNodeData(g *graph.Graph, op Op) error {
	n := g.NodeByID(op.NodeID)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, op.NodeID)
	}
	if op.DataKey == "" {
		return errors.New("update_node_data needs a dataKey")
	}
	if op.DataValue == nil {
		delete(n.Data, op.DataKey)
		return nil
	}
	if n.Data == nil {
		n.Data = make(map[string]any, 1)
	}
	n.Data[op.DataKey] = op.DataValue
	return nil
}

func moveNode(g *graph.Graph, op Op) error {
	n := g.NodeByID(op.NodeID)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, op.NodeID)
	}
	n.X, n.Y = op.X, op.Y
	return nil
}
