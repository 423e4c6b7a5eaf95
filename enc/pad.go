package enc

import "encoding/binary"

const (
	// BlockSize is the block size in bytes.
	BlockSize = 64

	lengthOffset = BlockSize - 8
)

// pad returns the message followed by a terminator bit, zero bits up to 448
// mod 512 and the 64-bit big-endian message bit length. The terminator is
// always written, so a message already sitting at 448 mod 512 bits grows by
// a whole block.
func pad(message []byte) []byte {
	n := len(message) + 1
	padLen := lengthOffset - n%BlockSize
	if padLen < 0 {
		padLen += BlockSize
	}

	out := make([]byte, n+padLen+8)
	copy(out, message)
	out[len(message)] = 0x80
	binary.BigEndian.PutUint64(out[len(out)-8:], uint64(len(message))<<3)
	return out
}

// blocks splits padded input into 16-word blocks. word[0] holds the first
// 32 bits of each block.
func blocks(padded []byte) [][words]uint32 {
	out := make([][words]uint32, len(padded)/BlockSize)
	for i := range out {
		p := padded[i*BlockSize:]
		for j := 0; j < words; j++ {
			out[i][j] = binary.BigEndian.Uint32(p[j*4:])
		}
	}
	return out
}
