package lib

// Bit8 alias for uint8, provides bit twiddling methods on 8-bit number.
type Bit8 uint8

func (b Bit8) Ones() int8 {
	b = b - ((b >> 1) & 0x55)
	b = (b & 0x33) + ((b >> 2) & 0x33)
	return int8((b + (b >> 4)) & 0x0f)
}

func (b Bit8) Zeros() int8 {
	return 8 - b.Ones()
}

// Findfirstset return position of least significant set bit, -1 if
// all bits are zero.
func (b Bit8) Findfirstset() int8 {
	if b == 0 {
		return -1
	}
	for i := int8(0); i < 8; i++ {
		if (b & (1 << uint8(i))) > 0 {
			return i
		}
	}
	panic("unreachable code")
}

func (b Bit8) Setbit(n uint8) uint8 {
	return uint8(b) | (1 << n)
}

func (b Bit8) Clearbit(n uint8) uint8 {
	return uint8(b) & ^(1 << n)
}
