package malloc

import "fmt"
import "unsafe"

import "github.com/bnclabs/regiongc/lib"

// slabpool manages a memory block sliced up into equal sized word
// blocks, free blocks tracked by a packed bitmap where a set bit
// means free.
type slabpool struct {
	slab    int64 // words per block
	nblocks int64
	nfree   int64
	base    []uint64
	fbits   []uint64
	freeoff int // scan hint, first fbits word that might have a free bit
}

func newslabpool(slab, nblocks int64) *slabpool {
	if (nblocks & 0x3f) != 0 {
		panic(fmt.Errorf("nblocks %v should be multiple of 64", nblocks))
	}
	pool := &slabpool{
		slab:    slab,
		nblocks: nblocks,
		nfree:   nblocks,
		base:    make([]uint64, slab*nblocks),
		fbits:   make([]uint64, nblocks>>6),
	}
	for i := range pool.fbits {
		pool.fbits[i] = ^uint64(0)
	}
	return pool
}

func (pool *slabpool) allocblock() ([]uint64, bool) {
	if pool.nfree == 0 {
		return nil, false
	}
	for i := pool.freeoff; i < len(pool.fbits); i++ {
		word := pool.fbits[i]
		if word == 0 {
			continue
		}
		n := lib.Bit64(word).Findfirstset()
		pool.fbits[i] = lib.Bit64(word).Clearbit(uint8(n))
		pool.freeoff, pool.nfree = i, pool.nfree-1
		nthblock := (int64(i) << 6) + int64(n)
		off := nthblock * pool.slab
		return pool.base[off : off+pool.slab : off+pool.slab], true
	}
	panic("unreachable code, nfree accounting is broken")
}

func (pool *slabpool) freeblock(addr uintptr) {
	baseaddr := uintptr(unsafe.Pointer(&pool.base[0]))
	nthblock := (int64(addr-baseaddr) / Wordsize) / pool.slab
	if nthblock < 0 || nthblock >= pool.nblocks {
		panic(fmt.Errorf("freeblock address %x outside pool", addr))
	}
	i, n := int(nthblock>>6), uint8(nthblock&0x3f)
	if (pool.fbits[i] & (uint64(1) << n)) != 0 {
		panic(fmt.Errorf("freeblock %v already free", nthblock))
	}
	pool.fbits[i] = lib.Bit64(pool.fbits[i]).Setbit(n)
	pool.nfree++
	if i < pool.freeoff {
		pool.freeoff = i
	}
}

// bytes spent on book keeping, as opposed to allocatable memory.
func (pool *slabpool) overhead() int64 {
	return int64(len(pool.fbits))*Wordsize + int64(unsafe.Sizeof(*pool))
}
