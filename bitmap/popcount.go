package bitmap

import "sync/atomic"
import "unsafe"

import "github.com/bnclabs/regiongc/lib"

// byte indexed population count table, built lazily and shared process
// wide. First publisher wins, a second concurrent builder's table is
// simply discarded.
var popcounttable unsafe.Pointer // *[256]uint8

func initpopcounttable() *[256]uint8 {
	if p := atomic.LoadPointer(&popcounttable); p != nil {
		return (*[256]uint8)(p)
	}
	table := new([256]uint8)
	for i := 0; i < 256; i++ {
		table[i] = uint8(lib.Bit8(i).Ones())
	}
	atomic.CompareAndSwapPointer(&popcounttable, nil, unsafe.Pointer(table))
	return (*[256]uint8)(atomic.LoadPointer(&popcounttable))
}

// Countonebits population count of bits below size, tail bits beyond
// size never contribute.
func (bm *Bitmap) Countonebits() int64 {
	table := initpopcounttable()
	sum, limit := int64(0), wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		w := bm.words[i]
		for j := 0; j < 8; j++ {
			sum += int64(table[byte(w)])
			w >>= 8
		}
	}
	if rest := bitinword(bm.size); rest > 0 {
		w := tailofmap(bm.words[limit], rest)
		for j := 0; j < 8; j++ {
			sum += int64(table[byte(w)])
			w >>= 8
		}
	}
	return sum
}
