package malloc

import "fmt"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import "github.com/pkg/errors"

import "github.com/bnclabs/regiongc/api"

// Arena a large memory budget divided into pools of fixed sized word
// blocks.
type Arena struct {
	capacity int64 // in bytes, configured
	minslab  int64 // in words
	maxslab  int64 // in words
	slabs    []int64
	pools    map[int64][]*slabpool
	blocks   map[uintptr]*slabpool // address of allocated block -> pool

	// accounting
	heap  int64 // in bytes, obtained from go runtime
	alloc int64 // in bytes, handed out to application
}

// NewArena create a new arena with `capacity` bytes. Slab sizing is
// picked up from setts, check Defaultsettings() for the list of
// parameters.
func NewArena(capacity int64, setts s.Settings) *Arena {
	if capacity <= 0 || capacity > Maxarenasize {
		fmsg := "capacity %v should be > 0 and <= %v"
		panic(fmt.Errorf(fmsg, capacity, Maxarenasize))
	}
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	arena := &Arena{
		capacity: capacity,
		minslab:  setts.Int64("minslab"),
		maxslab:  setts.Int64("maxslab"),
		pools:    map[int64][]*slabpool{},
		blocks:   map[uintptr]*slabpool{},
	}
	if arena.minslab <= 0 || (arena.minslab&(arena.minslab-1)) != 0 {
		panic(fmt.Errorf("minslab %v should be a power of 2", arena.minslab))
	} else if (arena.maxslab & (arena.maxslab - 1)) != 0 {
		panic(fmt.Errorf("maxslab %v should be a power of 2", arena.maxslab))
	}
	for slab := arena.minslab; slab <= arena.maxslab; slab <<= 1 {
		arena.slabs = append(arena.slabs, slab)
	}
	return arena
}

// Slabs allocatable block sizes, in words.
func (arena *Arena) Slabs() []int64 {
	return arena.slabs
}

// Allocwords allocate a block of at least `n` words, rounded up to the
// nearest slab. Fails with api.ErrorOutofMemory once the configured
// capacity is exhausted.
func (arena *Arena) Allocwords(n int64) ([]uint64, error) {
	if n <= 0 {
		panic(fmt.Errorf("Allocwords size %v", n))
	} else if n > arena.maxslab {
		fmsg := "Allocwords size %v exceeds maxslab %v"
		panic(fmt.Errorf(fmsg, n, arena.maxslab))
	}
	slab := arena.slabfor(n)
	for _, pool := range arena.pools[slab] {
		if block, ok := pool.allocblock(); ok {
			arena.noteblock(pool, block)
			return block[:n], nil
		}
	}
	// all pools for this slab are exhausted, grow.
	poolsize := slab * Poolblocks * Wordsize
	if (arena.heap + poolsize) > arena.capacity {
		fmsg := "arena exhausted allocating %v words"
		return nil, errors.Wrapf(api.ErrorOutofMemory, fmsg, n)
	}
	pool := newslabpool(slab, Poolblocks)
	arena.pools[slab] = append(arena.pools[slab], pool)
	arena.heap += poolsize
	block, _ := pool.allocblock()
	arena.noteblock(pool, block)
	return block[:n], nil
}

func (arena *Arena) noteblock(pool *slabpool, block []uint64) {
	arena.blocks[uintptr(unsafe.Pointer(&block[0]))] = pool
	arena.alloc += pool.slab * Wordsize
}

// Free return block, obtained via Allocwords, back to its pool.
func (arena *Arena) Free(block []uint64) {
	addr := uintptr(unsafe.Pointer(&block[0]))
	pool, ok := arena.blocks[addr]
	if ok == false {
		panic(fmt.Errorf("Free on unknown block %x", addr))
	}
	delete(arena.blocks, addr)
	pool.freeblock(addr)
	arena.alloc -= pool.slab * Wordsize
}

// Info return memory accounting for this arena.
func (arena *Arena) Info() (capacity, heap, alloc, overhead int64) {
	for _, pools := range arena.pools {
		for _, pool := range pools {
			overhead += pool.overhead()
		}
	}
	return arena.capacity, arena.heap, arena.alloc, overhead
}

// Utilization map of slab size and percentage of its allocated blocks.
func (arena *Arena) Utilization() ([]int, []float64) {
	sizes, zs := []int{}, []float64{}
	for _, slab := range arena.slabs {
		pools := arena.pools[slab]
		if len(pools) == 0 {
			continue
		}
		total, free := int64(0), int64(0)
		for _, pool := range pools {
			total += pool.nblocks
			free += pool.nfree
		}
		sizes = append(sizes, int(slab))
		zs = append(zs, float64(total-free)*100/float64(total))
	}
	return sizes, zs
}

// Release arena and all its pools, blocks allocated from this arena
// are invalid hereafter.
func (arena *Arena) Release() {
	arena.pools = map[int64][]*slabpool{}
	arena.blocks = map[uintptr]*slabpool{}
	arena.heap, arena.alloc = 0, 0
}

func (arena *Arena) slabfor(n int64) int64 {
	slab := arena.minslab
	for slab < n {
		slab <<= 1
	}
	return slab
}
