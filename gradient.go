package lumina

import (
	"sort"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"

	"github.com/luminagl/lumina/glsl"
	"github.com/luminagl/lumina/graph"
)

// gradientStop is one color key of a gradient ramp.
type gradientStop struct {
	pos   float32
	color ms3.Vec
}

// gradientStops reads the stop list a gradient node stores under
// "stops": a list of {pos, color} objects with hex color strings. Stops
// come back clamped and sorted by position. Missing or malformed lists
// fall back to the preset named under "preset", and nil nodes to the
// default black-to-white ramp.
func gradientStops(n *graph.Node) []gradientStop {
	if n == nil {
		return presetStops("")
	}
	raw, _ := n.DataValue("stops")
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		name, _ := n.DataString("preset")
		return presetStops(name)
	}
	stops := make([]gradientStop, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		s := gradientStop{color: ms3.Vec{X: 1, Y: 1, Z: 1}}
		if f, ok := glsl.Float(m["pos"]); ok {
			s.pos = ms1.Clamp(f, 0, 1)
		}
		if hex, ok := m["color"].(string); ok {
			if c, ok := glsl.ParseHexColor(hex); ok {
				s.color = ms3.Vec{X: c[0], Y: c[1], Z: c[2]}
			}
		}
		stops = append(stops, s)
	}
	if len(stops) == 0 {
		return presetStops("")
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].pos < stops[j].pos })
	return stops
}

// presetStops builds the named built-in ramps. The rainbow ramp sweeps
// hue through HSV space so every key stays fully saturated.
func presetStops(name string) []gradientStop {
	switch name {
	case "rainbow":
		const keys = 7
		stops := make([]gradientStop, keys)
		for i := range stops {
			t := float32(i) / (keys - 1)
			stops[i] = gradientStop{pos: t, color: glsl.HSVToRGB(ms3.Vec{X: t * 0.83, Y: 1, Z: 1})}
		}
		return stops
	case "heat":
		return []gradientStop{
			{pos: 0, color: ms3.Vec{}},
			{pos: 0.4, color: ms3.Vec{X: 1}},
			{pos: 0.8, color: ms3.Vec{X: 1, Y: 1}},
			{pos: 1, color: ms3.Vec{X: 1, Y: 1, Z: 1}},
		}
	}
	return []gradientStop{
		{pos: 0},
		{pos: 1, color: ms3.Vec{X: 1, Y: 1, Z: 1}},
	}
}

// gradientMixChain folds sorted stops into nested mixes over the given
// scalar expression. Stops are compile-time constants, so the whole
// ramp reduces to literal math in the program text. Coincident stops
// turn into hard steps.
func gradientMixChain(stops []gradientStop, t string) string {
	expr := colorLiteral(stops[0].color)
	for i := 1; i < len(stops); i++ {
		prev, cur := stops[i-1], stops[i]
		span := cur.pos - prev.pos
		var blend string
		if span <= 0 {
			blend = "step(" + glsl.FormatFloat(cur.pos) + ", " + t + ")"
		} else {
			blend = "clamp((" + t + " - " + glsl.FormatFloat(prev.pos) + ") / " + glsl.FormatFloat(span) + ", 0.0, 1.0)"
		}
		expr = "mix(" + expr + ", " + colorLiteral(cur.color) + ", " + blend + ")"
	}
	return expr
}

func colorLiteral(c ms3.Vec) string {
	b := make([]byte, 0, 40)
	b = append(b, "vec3("...)
	b = glsl.AppendFloat(b, c.X)
	b = append(b, ',')
	b = glsl.AppendFloat(b, c.Y)
	b = append(b, ',')
	b = glsl.AppendFloat(b, c.Z)
	b = append(b, ')')
	return string(b)
}
