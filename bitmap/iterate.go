package bitmap

// Iterate visit set bit positions in [left,right) in ascending order,
// re-reading the containing word after each invocation of blk so a
// closure that mutates the bitmap during iteration sees its own edits
// at and to the right of the current bit. Returns false the moment blk
// requests early termination, without visiting further bits.
func (bm *Bitmap) Iterate(blk func(i int64) bool, left, right int64) bool {
	bm.verifyrange(left, right)

	endindex := minint64(wordindex(right)+1, bm.Sizeinwords())
	index, offset := wordindex(left), left
	for offset < right && index < endindex {
		rest := bm.words[index] >> uint64(bitinword(offset))
		for ; offset < right && rest != 0; offset++ {
			if (rest & 1) != 0 {
				if blk(offset) == false {
					return false
				}
				// resample, blk may have edited this word.
				rest = bm.words[index] >> uint64(bitinword(offset))
			}
			rest = rest >> 1
		}
		index++
		offset = bitindex(index)
	}
	return true
}

// Iterateall visit every set bit position.
func (bm *Bitmap) Iterateall(blk func(i int64) bool) bool {
	return bm.Iterate(blk, 0, bm.size)
}
