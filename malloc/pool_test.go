package malloc

import "testing"
import "unsafe"

func TestNewslabpool(t *testing.T) {
	pool := newslabpool(8, 64)
	if pool.nfree != 64 {
		t.Errorf("expected %v, got %v", 64, pool.nfree)
	} else if len(pool.base) != 8*64 {
		t.Errorf("expected %v, got %v", 8*64, len(pool.base))
	} else if len(pool.fbits) != 1 {
		t.Errorf("expected %v, got %v", 1, len(pool.fbits))
	}
	// panic case
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		newslabpool(8, 60)
	}()
}

func TestPoolAllocFree(t *testing.T) {
	pool := newslabpool(16, 128)
	blocks := make([][]uint64, 0, 128)
	for i := 0; i < 128; i++ {
		block, ok := pool.allocblock()
		if ok == false {
			t.Fatalf("alloc failed at block %v", i)
		} else if len(block) != 16 {
			t.Fatalf("expected %v, got %v", 16, len(block))
		}
		blocks = append(blocks, block)
	}
	if _, ok := pool.allocblock(); ok {
		t.Errorf("expected pool exhaustion")
	} else if pool.nfree != 0 {
		t.Errorf("expected %v, got %v", 0, pool.nfree)
	}
	for _, block := range blocks {
		pool.freeblock(uintptr(unsafe.Pointer(&block[0])))
	}
	if pool.nfree != 128 {
		t.Errorf("expected %v, got %v", 128, pool.nfree)
	}
	// double free panics
	block, _ := pool.allocblock()
	addr := uintptr(unsafe.Pointer(&block[0]))
	pool.freeblock(addr)
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		pool.freeblock(addr)
	}()
}

func TestPoolReuse(t *testing.T) {
	pool := newslabpool(8, 64)
	block1, _ := pool.allocblock()
	addr1 := uintptr(unsafe.Pointer(&block1[0]))
	pool.freeblock(addr1)
	block2, _ := pool.allocblock()
	if addr2 := uintptr(unsafe.Pointer(&block2[0])); addr1 != addr2 {
		t.Errorf("expected freed block to be reused")
	}
}
