package glsl

// Cast adapts a GLSL expression of type from so it reads as type to.
// Scalars broadcast, vectors narrow by swizzle and widen through
// constructors (alpha fills with one), matrices resize through matrix
// constructors, and vectors exchange with matrices through column zero.
// Pairs with no sensible conversion return the expression unchanged so
// a cast never fails.
func Cast(expr string, from, to Type) string {
	from, to = from.Canon(), to.Canon()
	if from == to || from.IsOpaque() || to.IsOpaque() || from == "" || to == "" {
		return expr
	}
	fr, tr := from.Rank(), to.Rank()
	switch {
	case from == TypeFloat && tr >= 2:
		return to.GLSL() + "(" + expr + ")"
	case from == TypeFloat && to.IsMatrix():
		return to.GLSL() + "(" + expr + ")"
	case fr >= 2 && to == TypeFloat:
		return expr + ".x"
	case fr >= 2 && tr >= 2:
		if tr < fr {
			return expr + "." + "xyzw"[:tr]
		}
		switch {
		case from == TypeVec2 && to == TypeVec3:
			return "vec3(" + expr + ", 0.0)"
		case from == TypeVec2 && to == TypeVec4:
			return "vec4(" + expr + ", 0.0, 1.0)"
		case from == TypeVec3 && to == TypeVec4:
			return "vec4(" + expr + ", 1.0)"
		}
	case from.IsMatrix() && to.IsMatrix():
		return to.GLSL() + "(" + expr + ")"
	case from.IsMatrix() && tr >= 1:
		return Cast(expr+"[0]", Vec(from.MatrixSize()), to)
	case fr >= 1 && to.IsMatrix():
		return columnMatrix(Cast(expr, from, Vec(to.MatrixSize())), to)
	}
	return expr
}

// columnMatrix builds a matrix whose first column is the given vector
// expression and whose remaining columns come from the identity.
func columnMatrix(col0 string, to Type) string {
	switch to {
	case TypeMat2:
		return "mat2(" + col0 + ", vec2(0.0, 1.0))"
	case TypeMat3:
		return "mat3(" + col0 + ", vec3(0.0, 1.0, 0.0), vec3(0.0, 0.0, 1.0))"
	}
	return "mat4(" + col0 + ", vec4(0.0, 1.0, 0.0, 0.0), vec4(0.0, 0.0, 1.0, 0.0), vec4(0.0, 0.0, 0.0, 1.0))"
}
