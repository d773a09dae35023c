// Package glsl defines the GLSL ES 1.00 slice of the shader graph type
// system: socket types, the automatic casts between them, literal
// formatting for node data values and identifier sanitization for
// arbitrary graph ids.
package glsl

// Type is the type tag carried by sockets and compiled variables.
// The zero value is not a valid type; use TypeFloat as the universal
// fallback.
type Type string

const (
	TypeFloat Type = "float"
	TypeVec2  Type = "vec2"
	TypeVec3  Type = "vec3"
	TypeVec4  Type = "vec4"
	// TypeColor is an RGB triplet. It is identical to TypeVec3 on the GPU
	// and only differs in how editors display and store its values.
	TypeColor Type = "color"
	TypeMat2  Type = "mat2"
	TypeMat3  Type = "mat3"
	TypeMat4  Type = "mat4"

	// Opaque types flow through connections but have no shader value
	// representation of their own.
	TypeTexture      Type = "texture"
	TypeTextureArray Type = "textureArray"
	TypeGradient     Type = "gradient"
	TypeSamplerState Type = "samplerState"
)

// Canon resolves display aliases. color is vec3 everywhere past the UI.
func (t Type) Canon() Type {
	if t == TypeColor {
		return TypeVec3
	}
	return t
}

// GLSL returns the keyword used to declare a value of this type,
// or "" for types with no shader representation.
func (t Type) GLSL() string {
	switch t.Canon() {
	case TypeFloat:
		return "float"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeVec4:
		return "vec4"
	case TypeMat2:
		return "mat2"
	case TypeMat3:
		return "mat3"
	case TypeMat4:
		return "mat4"
	case TypeTexture, TypeTextureArray:
		return "sampler2D"
	}
	return ""
}

// Rank returns the component count of scalar and vector types:
// 1 for float through 4 for vec4. Matrix and opaque types rank 0.
func (t Type) Rank() int {
	switch t.Canon() {
	case TypeFloat:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	}
	return 0
}

// MatrixSize returns 2, 3 or 4 for matrix types and 0 otherwise.
func (t Type) MatrixSize() int {
	switch t {
	case TypeMat2:
		return 2
	case TypeMat3:
		return 3
	case TypeMat4:
		return 4
	}
	return 0
}

func (t Type) IsMatrix() bool { return t.MatrixSize() != 0 }

// IsOpaque reports whether the type carries editor-side data with no
// direct shader value (textures, gradients, sampler state).
func (t Type) IsOpaque() bool {
	switch t {
	case TypeTexture, TypeTextureArray, TypeGradient, TypeSamplerState:
		return true
	}
	return false
}

// Vec returns the scalar/vector type of the given rank. Ranks outside
// 1..4 clamp to the nearest valid rank.
func Vec(rank int) Type {
	switch {
	case rank <= 1:
		return TypeFloat
	case rank == 2:
		return TypeVec2
	case rank == 3:
		return TypeVec3
	}
	return TypeVec4
}

// Mat returns the square matrix type of the given size, clamped to 2..4.
func Mat(size int) Type {
	switch {
	case size <= 2:
		return TypeMat2
	case size == 3:
		return TypeMat3
	}
	return TypeMat4
}

// ValidSwizzle reports whether mask is a legal swizzle selector: one to
// four characters from the xyzw/rgba sets. Mixing the two sets is
// accepted since GLSL resolves them to the same components.
func ValidSwizzle(mask string) bool {
	if len(mask) == 0 || len(mask) > 4 {
		return false
	}
	for i := 0; i < len(mask); i++ {
		switch mask[i] {
		case 'x', 'y', 'z', 'w', 'r', 'g', 'b', 'a':
		default:
			return false
		}
	}
	return true
}

// Stage selects which half of the program pair a compilation targets.
type Stage uint8

const (
	StageFragment Stage = iota
	StageVertex
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// UV0Name returns the expression that reads the first UV channel in the
// given stage: the interpolated varying in fragment programs and the raw
// attribute in vertex programs.
func UV0Name(s Stage) string {
	if s == StageVertex {
		return "a_uv"
	}
	return "v_uv"
}
