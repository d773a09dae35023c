package graph

import (
	"github.com/luminagl/lumina/glsl"
)

// Direction tells which side of a node a socket sits on.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// SocketDef is a socket as a node kind declares it, before rules run.
type SocketDef struct {
	ID    string
	Label string
	Type  glsl.Type
	// MaxConnections caps simultaneous connections on the socket. Zero
	// means the direction default: one for inputs, unlimited for outputs.
	MaxConnections int
}

// EffectiveSocket is a socket after the rule set ran against the node's
// current data and connections.
type EffectiveSocket struct {
	SocketDef
	Visible bool
	Enabled bool
}

// Cond is a closed predicate over a node's data and connections.
// Evaluation is total: nil and unknown variants read as true, so a
// malformed rule can never make a socket unreachable.
type Cond interface{ isCond() }

type (
	condAlways struct{}
	condNot    struct{ c Cond }
	condAnd    struct{ cs []Cond }
	condOr     struct{ cs []Cond }
	condDataEq struct {
		key  string
		want any
	}
	condDataIn struct {
		key  string
		want []any
	}
	condConnected struct {
		socket string
		dir    Direction
	}
)

func (condAlways) isCond()    {}
func (condNot) isCond()       {}
func (condAnd) isCond()       {}
func (condOr) isCond()        {}
func (condDataEq) isCond()    {}
func (condDataIn) isCond()    {}
func (condConnected) isCond() {}

// Always is the predicate that always holds.
func Always() Cond { return condAlways{} }

// Not negates a predicate.
func Not(c Cond) Cond { return condNot{c: c} }

// And holds when every operand holds. And() holds vacuously.
func And(cs ...Cond) Cond { return condAnd{cs: cs} }

// Or holds when any operand holds. Or() never holds.
func Or(cs ...Cond) Cond { return condOr{cs: cs} }

// DataEquals holds when the data key exists and equals want. Numbers
// compare by value regardless of their decoded Go type. A nil want
// holds when the key is absent, so rules can gate on unset data.
func DataEquals(key string, want any) Cond { return condDataEq{key: key, want: want} }

// DataIn holds when the data key exists and equals any listed value.
func DataIn(key string, want ...any) Cond { return condDataIn{key: key, want: want} }

// Connected holds when the named socket has at least one connection on
// the given side.
func Connected(socketID string, dir Direction) Cond {
	return condConnected{socket: socketID, dir: dir}
}

func evalCond(g *Graph, n *Node, c Cond) bool {
	switch v := c.(type) {
	case nil:
		return true
	case condAlways:
		return true
	case condNot:
		return !evalCond(g, n, v.c)
	case condAnd:
		for _, sub := range v.cs {
			if !evalCond(g, n, sub) {
				return false
			}
		}
		return true
	case condOr:
		for _, sub := range v.cs {
			if evalCond(g, n, sub) {
				return true
			}
		}
		return false
	case condDataEq:
		val, ok := n.DataValue(v.key)
		if v.want == nil {
			return !ok || val == nil
		}
		return ok && looseEqual(val, v.want)
	case condDataIn:
		val, ok := n.DataValue(v.key)
		if !ok {
			return false
		}
		for _, w := range v.want {
			if looseEqual(val, w) {
				return true
			}
		}
		return false
	case condConnected:
		return g.CountConnections(n.ID, v.socket, v.dir) > 0
	}
	return true
}

// looseEqual compares a decoded data value against a rule literal.
// Numeric values compare as floats since decoders disagree on number
// types. Values of incomparable kinds are never equal.
func looseEqual(a, b any) bool {
	if fa, oka := looseFloat(a); oka {
		fb, okb := looseFloat(b)
		return okb && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func looseFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	}
	return 0, false
}

// TypeExpr resolves a socket's effective type from the node's data.
type TypeExpr interface{ isTypeExpr() }

type (
	typeStatic  struct{ t glsl.Type }
	typeSwizzle struct {
		key      string
		fallback string
	}
)

func (typeStatic) isTypeExpr()  {}
func (typeSwizzle) isTypeExpr() {}

// StaticType pins the socket to a fixed type.
func StaticType(t glsl.Type) TypeExpr { return typeStatic{t: t} }

// SwizzleMaskLength types the socket by the length of a swizzle mask
// stored under the data key: one character reads float, two vec2 and so
// on. Missing or malformed masks use the fallback mask instead.
func SwizzleMaskLength(dataKey, fallbackMask string) TypeExpr {
	return typeSwizzle{key: dataKey, fallback: fallbackMask}
}

func resolveType(n *Node, e TypeExpr, declared glsl.Type) glsl.Type {
	switch v := e.(type) {
	case nil:
		return declared
	case typeStatic:
		return v.t
	case typeSwizzle:
		mask, ok := n.DataString(v.key)
		if !ok || !glsl.ValidSwizzle(mask) {
			mask = v.fallback
		}
		if !glsl.ValidSwizzle(mask) {
			return declared
		}
		return glsl.Vec(len(mask))
	}
	return declared
}

// SocketRule adjusts one declared socket. Nil or zero fields leave the
// corresponding aspect unchanged.
type SocketRule struct {
	SocketID    string
	VisibleWhen Cond
	EnabledWhen Cond
	Type        TypeExpr
	Label       string
	// MaxConnections overrides the declared cap when nonzero. Negative
	// values mean explicitly unlimited.
	MaxConnections int
	// Fallback marks this rule's socket as the preferred target for
	// interactions that name no socket, unless the rule set declares an
	// explicit preference.
	Fallback bool
}

// SocketRules is a node kind's complete rule set.
type SocketRules struct {
	Rules []SocketRule
	// Fallback names the input socket interactions target when they name
	// none. Empty defers to the first rule flagged Fallback.
	Fallback string
}

// EffectiveSockets runs a rule set over declared sockets of one
// direction. Every declared socket yields exactly one effective socket;
// rules adjust, they never add or remove. The evaluation is pure.
func EffectiveSockets(g *Graph, n *Node, defs []SocketDef, dir Direction, rules SocketRules) []EffectiveSocket {
	out := make([]EffectiveSocket, len(defs))
	for i, d := range defs {
		es := EffectiveSocket{SocketDef: d, Visible: true, Enabled: true}
		if es.MaxConnections == 0 && dir == In {
			es.MaxConnections = 1
		}
		for _, r := range rules.Rules {
			if r.SocketID != d.ID {
				continue
			}
			if r.VisibleWhen != nil {
				es.Visible = evalCond(g, n, r.VisibleWhen)
			}
			if r.EnabledWhen != nil {
				es.Enabled = evalCond(g, n, r.EnabledWhen)
			}
			if r.Type != nil {
				es.Type = resolveType(n, r.Type, es.Type)
			}
			if r.Label != "" {
				es.Label = r.Label
			}
			if r.MaxConnections != 0 {
				es.MaxConnections = r.MaxConnections
			}
		}
		if es.MaxConnections < 0 {
			es.MaxConnections = 0
		}
		out[i] = es
	}
	return out
}

// FallbackSocketID returns the input socket an interaction should target
// when it names none: the rule set's explicit preference when declared,
// otherwise the first rule flagged as fallback. Callers with stronger
// context (paste, AI repair) fall further to a visible input themselves
// when no rule says anything.
func FallbackSocketID(rules SocketRules) (string, bool) {
	if rules.Fallback != "" {
		return rules.Fallback, true
	}
	for _, r := range rules.Rules {
		if r.Fallback {
			return r.SocketID, true
		}
	}
	return "", false
}
