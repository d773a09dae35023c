package glsl

import (
	"encoding/binary"
	"strconv"
)

// SafeIdent maps an arbitrary graph id to a valid GLSL identifier.
// Ids already made of [A-Za-z0-9_] map to themselves so emitted programs
// stay readable. Anything else is rewritten character by character and
// suffixed with a short hash so distinct ids never collapse to the same
// identifier.
func SafeIdent(id string) string {
	if id == "" {
		return "n0"
	}
	dirty := false
	b := make([]byte, 0, len(id)+14)
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			b = append(b, c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b = append(b, 'n')
				dirty = true
			}
			b = append(b, c)
		default:
			dirty = true
			b = append(b, '_')
		}
	}
	if dirty {
		b = append(b, '_')
		b = strconv.AppendUint(b, hash([]byte(id), identSeed), 32)
	}
	return string(b)
}

const identSeed = 0x9e3779b97f4a7c15

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
