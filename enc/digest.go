// Package enc computes a single-line RIPEMD-style digest.
//
// The construction follows the RIPEMD layout (Merkle-Damgard padding, a
// permuted word schedule, five rounds of bit mixing and a chained 5-word
// state) but runs only one compression line and uses plain left shifts where
// RIPEMD-160 rotates. Its output is therefore not RIPEMD-160 compatible.
package enc

import "encoding/hex"

// Size is the digest size in bytes.
const Size = 20

const (
	_s0 = 0x67452301
	_s1 = 0xefcdab89
	_s2 = 0x98badcfe
	_s3 = 0x10325476
	_s4 = 0xc3d2e1f0
)

// Digest returns the 40-character lowercase hex digest of message.
// It is safe for concurrent use.
func Digest(message []byte) string {
	s := [5]uint32{_s0, _s1, _s2, _s3, _s4}
	for _, x := range blocks(pad(message)) {
		compress(&s, &x)
	}
	return format(&s)
}

func format(s *[5]uint32) string {
	var out [Size]byte
	for i, v := range s {
		out[i*4] = byte(v >> 24)
		out[i*4+1] = byte(v >> 16)
		out[i*4+2] = byte(v >> 8)
		out[i*4+3] = byte(v)
	}
	return hex.EncodeToString(out[:])
}
