// Package lint statically checks graph documents against a node
// catalog. The compiler never rejects a document; lint is where editors
// surface everything fail-soft compilation papered over.
package lint

import (
	"fmt"

	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
)

// Severity grades findings. Errors mean the compiled output already
// degraded (magenta fallback, dropped values); warnings mean the
// document likely does not do what its author intended.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "info"
}

// Finding is one lint result. NodeID is empty for document-level and
// connection-level findings whose node cannot be resolved.
type Finding struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"nodeId,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.NodeID == "" {
		return f.Severity.String() + ": " + f.Message
	}
	return f.Severity.String() + ": " + f.NodeID + ": " + f.Message
}

// Lint runs every check over the document. Findings come back in
// deterministic order: document-level checks first, then per-node and
// per-connection checks in document order.
func Lint(g *graph.Graph, reg *compile.Registry) []Finding {
	l := &linter{g: g, reg: reg}
	l.checkMasters()
	l.checkKinds()
	l.checkConnections()
	l.checkCapacity()
	l.checkCycles()
	return l.findings
}

// HasErrors reports whether any finding is error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

type linter struct {
	g        *graph.Graph
	reg      *compile.Registry
	findings []Finding
}

func (l *linter) addf(sev Severity, nodeID, format string, args ...any) {
	l.findings = append(l.findings, Finding{
		Severity: sev,
		NodeID:   nodeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (l *linter) checkMasters() {
	master := l.g.FirstOfType(compile.FragmentMasterType)
	if master == nil {
		l.addf(SeverityError, "", "no %q master node; the surface compiles to the magenta fallback", compile.FragmentMasterType)
	} else if l.masterUntouched(master) {
		l.addf(SeverityWarning, master.ID, "master has no connections or inline values; the surface is the default gray")
	}
	if l.g.FirstOfType(compile.VertexMasterType) == nil {
		l.addf(SeverityWarning, "", "no %q master node; vertex attributes pass through unchanged", compile.VertexMasterType)
	}
}

// masterUntouched reports whether nothing drives the master: no incoming
// connections and no inline overrides for any declared input.
func (l *linter) masterUntouched(master *graph.Node) bool {
	if len(l.g.ConnectionsInto(master.ID)) > 0 {
		return false
	}
	mod := l.reg.Lookup(master.Type)
	if mod == nil {
		return true
	}
	for _, s := range mod.Inputs {
		if _, ok := master.DataValue(s.ID); ok {
			return false
		}
	}
	return true
}

func (l *linter) checkKinds() {
	for _, n := range l.g.Nodes {
		if l.reg.Lookup(n.Type) == nil {
			l.addf(SeverityError, n.ID, "unknown node kind %q; it compiles to a zero placeholder", n.Type)
		}
	}
}

func (l *linter) checkConnections() {
	for _, c := range l.g.Connections {
		src := l.g.NodeByID(c.SourceNodeID)
		tgt := l.g.NodeByID(c.TargetNodeID)
		if src == nil {
			l.addf(SeverityError, "", "connection %s: source node %q does not exist", c.ID, c.SourceNodeID)
		}
		if tgt == nil {
			l.addf(SeverityError, "", "connection %s: target node %q does not exist", c.ID, c.TargetNodeID)
		}
		if src != nil {
			if mod := l.reg.Lookup(src.Type); mod != nil && !hasSocket(mod.Outputs, c.SourceSocketID) {
				l.addf(SeverityError, src.ID, "connection %s: no output socket %q on kind %q", c.ID, c.SourceSocketID, src.Type)
			}
		}
		if tgt == nil {
			continue
		}
		mod := l.reg.Lookup(tgt.Type)
		if mod == nil {
			continue
		}
		found := false
		for _, es := range graph.EffectiveSockets(l.g, tgt, mod.Inputs, graph.In, mod.Rules) {
			if es.ID != c.TargetSocketID {
				continue
			}
			found = true
			if !es.Visible {
				l.addf(SeverityWarning, tgt.ID, "connection %s: input %q is hidden in the current node state", c.ID, es.ID)
			} else if !es.Enabled {
				l.addf(SeverityWarning, tgt.ID, "connection %s: input %q is disabled in the current node state", c.ID, es.ID)
			}
		}
		if !found {
			l.addf(SeverityError, tgt.ID, "connection %s: no input socket %q on kind %q", c.ID, c.TargetSocketID, tgt.Type)
		}
	}
}

func (l *linter) checkCapacity() {
	for _, n := range l.g.Nodes {
		mod := l.reg.Lookup(n.Type)
		if mod == nil {
			continue
		}
		for _, es := range graph.EffectiveSockets(l.g, n, mod.Inputs, graph.In, mod.Rules) {
			if es.MaxConnections <= 0 {
				continue
			}
			if count := l.g.CountConnections(n.ID, es.ID, graph.In); count > es.MaxConnections {
				l.addf(SeverityError, n.ID, "input %q has %d connections but allows %d; compile uses the first",
					es.ID, count, es.MaxConnections)
			}
		}
	}
}

// checkCycles walks the dataflow edges depth first and reports every
// back edge. The compiler silently drops these edges; authors usually
// want to know.
func (l *linter) checkCycles() {
	out := make(map[string][]*graph.Connection, len(l.g.Nodes))
	for _, c := range l.g.Connections {
		if l.g.NodeByID(c.SourceNodeID) == nil || l.g.NodeByID(c.TargetNodeID) == nil {
			continue
		}
		out[c.SourceNodeID] = append(out[c.SourceNodeID], c)
	}
	const (
		white = iota
		gray
		black
	)
	state := make(map[string]int, len(l.g.Nodes))
	var visit func(id string)
	visit = func(id string) {
		state[id] = gray
		for _, c := range out[id] {
			switch state[c.TargetNodeID] {
			case white:
				visit(c.TargetNodeID)
			case gray:
				l.addf(SeverityWarning, c.TargetNodeID, "connection %s closes a feedback loop; compile ignores one edge of it", c.ID)
			}
		}
		state[id] = black
	}
	for _, n := range l.g.Nodes {
		if state[n.ID] == white {
			visit(n.ID)
		}
	}
}

func hasSocket(defs []graph.SocketDef, id string) bool {
	for _, d := range defs {
		if d.ID == id {
			return true
		}
	}
	return false
}
