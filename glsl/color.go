package glsl

import (
	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

// ParseHexColor parses "#rgb", "#rrggbb" and "#rrggbbaa" into RGBA
// components in [0,1]. Alpha is one when the form omits it.
func ParseHexColor(s string) ([4]float32, bool) {
	c := [4]float32{0, 0, 0, 1}
	if len(s) < 4 || s[0] != '#' {
		return c, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		for i := 0; i < 3; i++ {
			v, ok := hexNibble(hex[i])
			if !ok {
				return [4]float32{0, 0, 0, 1}, false
			}
			c[i] = float32(v*16+v) / 255
		}
		return c, true
	case 6, 8:
		for i := 0; i < len(hex)/2; i++ {
			hi, ok1 := hexNibble(hex[2*i])
			lo, ok2 := hexNibble(hex[2*i+1])
			if !ok1 || !ok2 {
				return [4]float32{0, 0, 0, 1}, false
			}
			c[i] = float32(hi*16+lo) / 255
		}
		return c, true
	}
	return [4]float32{0, 0, 0, 1}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// HSVToRGB converts hue, saturation and value components on the range 0.0
// to 1.0 to RGB components on the range 0.0 to 1.0.
func HSVToRGB(hsv ms3.Vec) ms3.Vec {
	h, s, v := hsv.X, hsv.Y, hsv.Z
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)
	var r, g, b float32
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return ms3.Vec{X: r + m, Y: g + m, Z: b + m}
}

// RGBToHSV converts RGB components on the range 0.0 to 1.0 to hue,
// saturation and value components on the range 0.0 to 1.0.
func RGBToHSV(rgb ms3.Vec) ms3.Vec {
	r, g, b := rgb.X, rgb.Y, rgb.Z
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	var h, s float32
	v := xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return ms3.Vec{X: h, Y: s, Z: v}
}

// LerpHSV interpolates two HSV colors taking the short way around the hue
// wheel.
func LerpHSV(a, b ms3.Vec, t float32) ms3.Vec {
	switch {
	case b.X-a.X > 0.5:
		a.X += 1
	case b.X-a.X < -0.5:
		b.X += 1
	}
	return ms3.Vec{
		X: math.Mod(ms1.Interp(a.X, b.X, t), 1),
		Y: ms1.Interp(a.Y, b.Y, t),
		Z: ms1.Interp(a.Z, b.Z, t),
	}
}
