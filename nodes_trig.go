package lumina

import (
	"github.com/luminagl/lumina/compile"
)

func registerTrig(r *compile.Registry) {
	kinds := []struct {
		kind, title, fn string
	}{
		{"sin", "Sine", "sin"},
		{"cos", "Cosine", "cos"},
		{"tan", "Tangent", "tan"},
		{"asin", "Arcsine", "asin"},
		{"acos", "Arccosine", "acos"},
		{"atan", "Arctangent", "atan"},
		{"radians", "Degrees To Radians", "radians"},
		{"degrees", "Radians To Degrees", "degrees"},
	}
	for _, k := range kinds {
		r.Register(&compile.NodeModule{
			Type: k.kind, Title: k.title, Category: "trigonometry",
			Inputs:  inSocket(tFloat),
			Outputs: outSocket(tFloat),
			Emit:    unaryFn(k.fn),
		})
	}
}
