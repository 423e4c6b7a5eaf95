package enc

const (
	steps = 80
	words = 16
)

// Round mixing functions.
func f1(x, y, z uint32) uint32 { return x ^ y ^ z }
func f2(x, y, z uint32) uint32 { return (x & y) | (^x & z) }
func f3(x, y, z uint32) uint32 { return (x | ^y) ^ z }
func f4(x, y, z uint32) uint32 { return (x & z) | (y & ^z) }
func f5(x, y, z uint32) uint32 { return x ^ (y | ^z) }

var rounds = [5]func(x, y, z uint32) uint32{f1, f2, f3, f4, f5}

// Shift amounts, indexed by round then step mod 16.
var shifts = [5][16]uint{
	{11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8},
	{12, 13, 11, 15, 6, 9, 9, 7, 12, 15, 11, 13, 7, 8, 7, 7},
	{13, 15, 14, 11, 7, 7, 6, 8, 13, 14, 13, 12, 5, 5, 6, 9},
	{14, 11, 12, 14, 8, 6, 5, 5, 15, 12, 15, 14, 9, 9, 8, 6},
	{15, 12, 13, 13, 9, 5, 8, 6, 14, 11, 12, 11, 8, 6, 5, 5},
}

// Additive constants, indexed by round then step mod 5.
var constants = [5][5]uint32{
	{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e},
	{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000},
	{0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e, 0x50a28be6},
	{0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e, 0x50a28be6, 0x5c4dd124},
	{0x8f1bbcdc, 0xa953fd4e, 0x50a28be6, 0x5c4dd124, 0x6d703ef3},
}

// rho is the word order applied to each block before compression.
var rho = [words]int{7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8}

// round returns the zero-based round used at step i. Step 16 still belongs
// to the first round and step 32 to the second; the later boundaries are
// half-open.
func round(i int) int {
	switch {
	case i <= 16:
		return 0
	case i <= 32:
		return 1
	case i < 48:
		return 2
	case i < 64:
		return 3
	default:
		return 4
	}
}

// pi selects the permuted word consumed at step i.
func pi(i int) int {
	return (9*i + 5) % words
}

// permute returns the block words in rho order. The result is read from an
// untouched copy of x, so earlier assignments never feed later ones.
func permute(x *[words]uint32) [words]uint32 {
	var out [words]uint32
	for i, j := range rho {
		out[i] = x[j]
	}
	return out
}

// compress runs the 80 steps over one block and adds the working registers
// into s.
func compress(s *[5]uint32, x *[words]uint32) {
	w := permute(x)
	a, b, c, d, e := s[0], s[1], s[2], s[3], s[4]

	for i := 0; i < steps; i++ {
		r := round(i)
		fn := rounds[r](b, c, d)

		// The sum is shifted by the table amount alone; the previous e is
		// added afterwards. Bits shifted past bit 31 are dropped.
		t := e
		e = d
		d = c << 10
		c = b
		b = (a+fn+w[pi(i)]+constants[r][i%5])<<shifts[r][i%words] + t
		a = t
	}

	s[0] += a
	s[1] += b
	s[2] += c
	s[3] += d
	s[4] += e
}
