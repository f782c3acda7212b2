package lib

// Bit64 alias for uint64, provides bit twiddling methods on 64-bit
// number, the bitmap word width.
type Bit64 uint64

func (b Bit64) Ones() int8 {
	b = b - ((b >> 1) & 0x5555555555555555)
	b = (b & 0x3333333333333333) + ((b >> 2) & 0x3333333333333333)
	b = (b + (b >> 4)) & 0x0f0f0f0f0f0f0f0f
	return int8((b * 0x0101010101010101) >> 56)
}

func (b Bit64) Zeros() int8 {
	return 64 - b.Ones()
}

// Findfirstset return position of least significant set bit, -1 if
// all bits are zero.
func (b Bit64) Findfirstset() int8 {
	if b == 0 {
		return -1
	}
	n := int8(0)
	if (b & 0xffffffff) == 0 {
		n, b = n+32, b>>32
	}
	if (b & 0xffff) == 0 {
		n, b = n+16, b>>16
	}
	if (b & 0xff) == 0 {
		n, b = n+8, b>>8
	}
	return n + Bit8(b&0xff).Findfirstset()
}

func (b Bit64) Setbit(n uint8) uint64 {
	return uint64(b) | (1 << n)
}

func (b Bit64) Clearbit(n uint8) uint64 {
	return uint64(b) & ^(uint64(1) << n)
}
