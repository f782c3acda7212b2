package bitmap

import "sync/atomic"

// Parsetbit atomically set bit `i`, safe for arbitrary concurrent
// callers. Returns true if this call changed the bit, false if someone
// else did. Either way the bit is set at some moment during the call,
// concurrent writers to other bits of the same word are never lost.
func (bm *Bitmap) Parsetbit(i int64) bool {
	bm.verifyindex(i)
	addr, mask := &bm.words[wordindex(i)], bitmask(i)
	for {
		w := atomic.LoadUint64(addr)
		if (w & mask) != 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(addr, w, w|mask) {
			return true
		}
	}
}

// Parclearbit atomically clear bit `i`, safe for arbitrary concurrent
// callers. Returns true if this call changed the bit.
func (bm *Bitmap) Parclearbit(i int64) bool {
	bm.verifyindex(i)
	addr, mask := &bm.words[wordindex(i)], bitmask(i)
	for {
		w := atomic.LoadUint64(addr)
		if (w & mask) == 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(addr, w, w & ^mask) {
			return true
		}
	}
}

// Paratput atomically set or clear bit `i`.
func (bm *Bitmap) Paratput(i int64, value bool) bool {
	if value {
		return bm.Parsetbit(i)
	}
	return bm.Parclearbit(i)
}

// Paratputrange atomically set or clear [beg,end). Partial head and
// tail words go through the compare-and-swap loop, whole middle words
// are written with plain wide stores, every bit of those words is
// written so nothing can be lost.
func (bm *Bitmap) Paratputrange(beg, end int64, value bool) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if begfullword < endfullword {
		// the range includes at least one full word.
		bm.parputrangewithinword(beg, bitindex(begfullword), value)
		if value {
			bm.setrangeofwords(begfullword, endfullword)
		} else {
			bm.clearrangeofwords(begfullword, endfullword)
		}
		bm.parputrangewithinword(bitindex(endfullword), end, value)
	} else {
		// the range spans at most 2 partial words.
		boundary := minint64(bitindex(begfullword), end)
		bm.parputrangewithinword(beg, boundary, value)
		bm.parputrangewithinword(boundary, end, value)
	}
}

// Paratputlargerange same as Paratputrange preferring the bulk word
// loop for the middle span.
func (bm *Bitmap) Paratputlargerange(beg, end int64, value bool) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if issmallrangeofwords(begfullword, endfullword) {
		bm.Paratputrange(beg, end, value)
		return
	}
	bm.parputrangewithinword(beg, bitindex(begfullword), value)
	if value {
		bm.setlargerangeofwords(begfullword, endfullword)
	} else {
		bm.clearlargerangeofwords(begfullword, endfullword)
	}
	bm.parputrangewithinword(bitindex(endfullword), end, value)
}

func (bm *Bitmap) parputrangewithinword(beg, end int64, value bool) {
	if beg == end {
		return
	}
	addr := &bm.words[wordindex(beg)]
	mask := invertedmaskforrange(beg, end)
	for {
		w := atomic.LoadUint64(addr)
		nw := w & mask
		if value {
			nw = w | ^mask
		}
		if nw == w || atomic.CompareAndSwapUint64(addr, w, nw) {
			return
		}
	}
}
