package glsl

import (
	"strconv"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// floatDigits is the fixed decimal count of emitted numbers. Fixed-width
// formatting keeps compiled programs byte-identical across compiles of
// the same graph.
const floatDigits = 5

// AppendFloat appends v formatted as a GLSL float literal. Non-finite
// values emit as zero since GLSL ES 1.00 sources cannot spell them.
func AppendFloat(b []byte, v float32) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.AppendFloat(b, float64(v), 'f', floatDigits, 32)
}

// FormatFloat formats v as a GLSL float literal.
func FormatFloat(v float32) string {
	return string(AppendFloat(make([]byte, 0, 16), v))
}

// Default renders the implicit value of a type: zeros for scalars and
// vectors, identity for matrices.
func Default(t Type) string {
	if t.IsMatrix() {
		return t.GLSL() + "(" + FormatFloat(1) + ")"
	}
	return Zero(t)
}

// Zero renders an all-zero value of the type. Opaque types have no value
// form and render as a plain zero.
func Zero(t Type) string {
	if t.IsMatrix() || t.Rank() >= 2 {
		return t.GLSL() + "(" + FormatFloat(0) + ")"
	}
	return FormatFloat(0)
}

// Literal renders a stored node data value as a GLSL expression of the
// wanted type. It accepts the value shapes graph codecs produce: numbers,
// booleans, hex color strings, the "UV0" channel sentinel, {x,y,z,w}
// component maps, flat numeric slices and the ms2/ms3 vector and matrix
// types. Unrepresentable values render as the type's default so
// compilation never fails on malformed data.
func Literal(v any, want Type, stage Stage) string {
	if want == "" {
		want = TypeFloat
	}
	switch val := v.(type) {
	case nil:
		return Default(want)
	case bool:
		if val {
			return scalar(1, want)
		}
		return scalar(0, want)
	case float64:
		return scalar(float32(val), want)
	case float32:
		return scalar(val, want)
	case int:
		return scalar(float32(val), want)
	case int64:
		return scalar(float32(val), want)
	case string:
		return stringLiteral(val, want, stage)
	case map[string]any:
		comps, n := xyzwComponents(val)
		if n == 0 {
			return Default(want)
		}
		return components(comps, n, want)
	case []any:
		fs := make([]float32, 0, 16)
		for _, e := range val {
			if len(fs) == cap(fs) {
				break
			}
			f, _ := toFloat(e)
			fs = append(fs, f)
		}
		return sliceLiteral(fs, want)
	case []float64:
		fs := make([]float32, 0, 16)
		for _, f := range val {
			if len(fs) == cap(fs) {
				break
			}
			fs = append(fs, float32(f))
		}
		return sliceLiteral(fs, want)
	case []float32:
		return sliceLiteral(val, want)
	case ms2.Vec:
		return components([4]float32{val.X, val.Y}, 2, want)
	case ms3.Vec:
		return components([4]float32{val.X, val.Y, val.Z}, 3, want)
	case ms2.Mat2:
		arr := val.Array()
		return Cast(matLiteral("mat2", 2, arr[:]), TypeMat2, want)
	case ms3.Mat3:
		arr := val.Array()
		return Cast(matLiteral("mat3", 3, arr[:]), TypeMat3, want)
	case ms3.Mat4:
		arr := val.Array()
		return Cast(matLiteral("mat4", 4, arr[:]), TypeMat4, want)
	}
	return Default(want)
}

func stringLiteral(s string, want Type, stage Stage) string {
	if s == "UV0" {
		return Cast(UV0Name(stage), TypeVec2, want)
	}
	if len(s) > 0 && s[0] == '#' {
		rgba, ok := ParseHexColor(s)
		if !ok {
			return Default(want)
		}
		return components(rgba, 4, want)
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil {
		return scalar(float32(f), want)
	}
	return Default(want)
}

func scalar(v float32, want Type) string {
	if want.IsOpaque() {
		return Default(want)
	}
	if want.Rank() >= 2 || want.IsMatrix() {
		return want.GLSL() + "(" + FormatFloat(v) + ")"
	}
	return FormatFloat(v)
}

// components renders the first n values of comps as a value of the wanted
// type. Missing vector components fill with zero except the fourth, which
// fills with one so colors and positions stay opaque and affine.
func components(comps [4]float32, n int, want Type) string {
	if want.IsOpaque() {
		return Default(want)
	}
	if want.IsMatrix() {
		nat := Vec(n)
		return Cast(components(comps, n, nat), nat, want)
	}
	r := want.Rank()
	if r <= 1 {
		return FormatFloat(comps[0])
	}
	for i := n; i < 4; i++ {
		comps[i] = 0
	}
	if r == 4 && n < 4 {
		comps[3] = 1
	}
	b := make([]byte, 0, 8+12*r)
	b = append(b, want.GLSL()...)
	b = append(b, '(')
	for i := 0; i < r; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = AppendFloat(b, comps[i])
	}
	b = append(b, ')')
	return string(b)
}

func sliceLiteral(fs []float32, want Type) string {
	if len(fs) == 0 {
		return Default(want)
	}
	if n := want.MatrixSize(); n != 0 && len(fs) >= n*n {
		return matLiteral(want.GLSL(), n, fs)
	}
	var comps [4]float32
	n := copy(comps[:], fs)
	return components(comps, n, want)
}

// matLiteral renders a square matrix constructor from a row-major element
// array, reading in column-major order as the constructor expects.
func matLiteral(typename string, n int, arr []float32) string {
	b := make([]byte, 0, 16+12*n*n)
	b = append(b, typename...)
	b = append(b, '(')
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b = AppendFloat(b, arr[j*n+i])
			if !(i == n-1 && j == n-1) {
				b = append(b, ',')
			}
		}
	}
	b = append(b, ')')
	return string(b)
}

func xyzwComponents(m map[string]any) (comps [4]float32, n int) {
	keys := [4][2]string{{"x", "r"}, {"y", "g"}, {"z", "b"}, {"w", "a"}}
	for i, k := range keys {
		v, ok := m[k[0]]
		if !ok {
			v, ok = m[k[1]]
		}
		if !ok {
			continue
		}
		f, _ := toFloat(v)
		comps[i] = f
		n = i + 1
	}
	return comps, n
}

// Float extracts a float from any decoded numeric shape: the number
// types JSON, YAML and HCL decoders produce.
func Float(v any) (float32, bool) { return toFloat(v) }

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		if f, err := strconv.ParseFloat(n, 32); err == nil {
			return float32(f), true
		}
	}
	return 0, false
}
