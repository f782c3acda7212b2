package bitmap

import "github.com/pkg/errors"

import "github.com/bnclabs/regiongc/api"
import "github.com/bnclabs/regiongc/malloc"

// Allocator abstracts the lifetime policy of bitmap backing storage,
// selected by the caller at construction.
type Allocator interface {
	// Allocwords obtain a block of `n` words.
	Allocwords(n int64) ([]uint64, error)

	// Freewords return a block obtained via Allocwords.
	Freewords(words []uint64)
}

// Scratch allocates from the go runtime and leaves freeing to the
// garbage collector, suited to bitmaps scoped to a single phase.
type Scratch struct{}

// NewScratch create a scratch allocation strategy.
func NewScratch() *Scratch {
	return &Scratch{}
}

func (sc *Scratch) Allocwords(n int64) ([]uint64, error) {
	return make([]uint64, n), nil
}

func (sc *Scratch) Freewords(words []uint64) {
}

// Heap allocates from the go runtime against a byte budget, suited to
// long lived bitmaps whose growth must be bounded.
type Heap struct {
	budget int64 // in bytes
	used   int64
}

// NewHeap create a budgeted allocation strategy.
func NewHeap(budget int64) *Heap {
	return &Heap{budget: budget}
}

func (hp *Heap) Allocwords(n int64) ([]uint64, error) {
	if (hp.used + n*8) > hp.budget {
		fmsg := "heap allocator budget %v exhausted allocating %v words"
		return nil, errors.Wrapf(api.ErrorOutofMemory, fmsg, hp.budget, n)
	}
	hp.used += n * 8
	return make([]uint64, n), nil
}

func (hp *Heap) Freewords(words []uint64) {
	hp.used -= int64(len(words)) * 8
}

// Arena allocates from a malloc.Arena shared with other bitmaps of the
// same lifetime.
type Arena struct {
	arena *malloc.Arena
}

// NewArena create an arena backed allocation strategy.
func NewArena(arena *malloc.Arena) *Arena {
	return &Arena{arena: arena}
}

func (ar *Arena) Allocwords(n int64) ([]uint64, error) {
	return ar.arena.Allocwords(n)
}

func (ar *Arena) Freewords(words []uint64) {
	ar.arena.Free(words)
}
