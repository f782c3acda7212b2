package bitmap

import "fmt"
import "strings"

import "github.com/pkg/errors"

import "github.com/bnclabs/regiongc/api"

// Wordbits number of bits per backing word.
const Wordbits = int64(64)

const logwordbits = uint8(6)

// smallrangewords below this many whole words the large-range variants
// fall back to the word-at-a-time loop.
const smallrangewords = int64(32)

// Bitmap a word packed bit vector of `size` bits. The zero value is an
// empty bitmap with no backing storage, construct with New.
type Bitmap struct {
	words []uint64
	size  int64 // in bits
	alloc Allocator
}

// New create a bitmap of size bits over the given allocation strategy.
// If clear is true all bits start zero, otherwise their content is
// undefined until written. Fails with api.ErrorOutofMemory when the
// strategy cannot supply backing storage.
func New(alloc Allocator, size int64, clear bool) (*Bitmap, error) {
	bm := &Bitmap{alloc: alloc}
	if err := bm.Resize(size, clear); err != nil {
		return nil, err
	}
	return bm, nil
}

// Size number of bits tracked by this bitmap.
func (bm *Bitmap) Size() int64 {
	return bm.size
}

// Sizeinwords number of backing words, including the partial tail.
func (bm *Bitmap) Sizeinwords() int64 {
	return wordindexroundup(bm.size)
}

// Resize reallocate backing storage to newsize bits, copying the
// overlapping prefix of whole words and, if clear, zero filling the
// growth. Not thread safe with concurrent readers or writers of the
// same bitmap.
func (bm *Bitmap) Resize(newsize int64, clear bool) error {
	oldwords, oldn := bm.words, bm.Sizeinwords()
	newn := wordindexroundup(newsize)

	var words []uint64
	if newn > 0 {
		var err error
		if words, err = bm.alloc.Allocwords(newn); err != nil {
			return err
		}
		copyn := oldn
		if newn < copyn {
			copyn = newn
		}
		copy(words[:copyn], oldwords[:copyn])
		if clear && newn > copyn {
			for i := copyn; i < newn; i++ {
				words[i] = 0
			}
		}
	}
	bm.words, bm.size = words, newsize
	// keep stale bits from a copied tail word out of later decisions.
	if rest := bitinword(newsize); rest > 0 && newn <= oldn {
		bm.words[newn-1] &= tailmask(rest)
	}
	if oldwords != nil {
		bm.alloc.Freewords(oldwords)
	}
	return nil
}

// Reinitialize drop current content and allocate afresh for newsize
// bits.
func (bm *Bitmap) Reinitialize(newsize int64, clear bool) error {
	if err := bm.Resize(0, false); err != nil {
		return err
	}
	return bm.Resize(newsize, clear)
}

// At return whether bit `i` is set.
func (bm *Bitmap) At(i int64) bool {
	bm.verifyindex(i)
	return (bm.words[wordindex(i)] & bitmask(i)) != 0
}

// Setbit set bit `i`, single writer.
func (bm *Bitmap) Setbit(i int64) {
	bm.verifyindex(i)
	bm.words[wordindex(i)] |= bitmask(i)
}

// Clearbit clear bit `i`, single writer.
func (bm *Bitmap) Clearbit(i int64) {
	bm.verifyindex(i)
	bm.words[wordindex(i)] &= ^bitmask(i)
}

// Atput set or clear bit `i`, single writer.
func (bm *Bitmap) Atput(i int64, value bool) {
	if value {
		bm.Setbit(i)
	} else {
		bm.Clearbit(i)
	}
}

// Setrange set every bit in the half open range [beg,end), single
// writer. beg == end is a no-op.
func (bm *Bitmap) Setrange(beg, end int64) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if begfullword < endfullword {
		// the range includes at least one full word.
		bm.setrangewithinword(beg, bitindex(begfullword))
		bm.setrangeofwords(begfullword, endfullword)
		bm.setrangewithinword(bitindex(endfullword), end)
	} else {
		// the range spans at most 2 partial words.
		boundary := minint64(bitindex(begfullword), end)
		bm.setrangewithinword(beg, boundary)
		bm.setrangewithinword(boundary, end)
	}
}

// Clearrange clear every bit in the half open range [beg,end), single
// writer. beg == end is a no-op.
func (bm *Bitmap) Clearrange(beg, end int64) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if begfullword < endfullword {
		// the range includes at least one full word.
		bm.clearrangewithinword(beg, bitindex(begfullword))
		bm.clearrangeofwords(begfullword, endfullword)
		bm.clearrangewithinword(bitindex(endfullword), end)
	} else {
		// the range spans at most 2 partial words.
		boundary := minint64(bitindex(begfullword), end)
		bm.clearrangewithinword(beg, boundary)
		bm.clearrangewithinword(boundary, end)
	}
}

// Setlargerange same as Setrange, preferring the bulk word loop for
// spans above the small range threshold.
func (bm *Bitmap) Setlargerange(beg, end int64) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if issmallrangeofwords(begfullword, endfullword) {
		bm.Setrange(beg, end)
		return
	}
	bm.setrangewithinword(beg, bitindex(begfullword))
	bm.setlargerangeofwords(begfullword, endfullword)
	bm.setrangewithinword(bitindex(endfullword), end)
}

// Clearlargerange same as Clearrange, preferring the bulk word loop
// for spans above the small range threshold.
func (bm *Bitmap) Clearlargerange(beg, end int64) {
	bm.verifyrange(beg, end)

	begfullword := wordindexroundup(beg)
	endfullword := wordindex(end)

	if issmallrangeofwords(begfullword, endfullword) {
		bm.Clearrange(beg, end)
		return
	}
	bm.clearrangewithinword(beg, bitindex(begfullword))
	bm.clearlargerangeofwords(begfullword, endfullword)
	bm.clearrangewithinword(bitindex(endfullword), end)
}

// Atputrange set or clear [beg,end), single writer.
func (bm *Bitmap) Atputrange(beg, end int64, value bool) {
	if value {
		bm.Setrange(beg, end)
	} else {
		bm.Clearrange(beg, end)
	}
}

// Atputlargerange set or clear [beg,end) using the bulk variants,
// single writer.
func (bm *Bitmap) Atputlargerange(beg, end int64, value bool) {
	if value {
		bm.Setlargerange(beg, end)
	} else {
		bm.Clearlargerange(beg, end)
	}
}

// Clearall clear the whole bitmap, single writer.
func (bm *Bitmap) Clearall() {
	bm.clearrangeofwords(0, bm.Sizeinwords())
}

// Clearlarge clear the whole bitmap with the bulk word loop, single
// writer.
func (bm *Bitmap) Clearlarge() {
	bm.clearlargerangeofwords(0, bm.Sizeinwords())
}

// Writeto snapshot backing words into buf, buf length should match
// Sizeinwords.
func (bm *Bitmap) Writeto(buf []uint64) {
	if int64(len(buf)) != bm.Sizeinwords() {
		fmsg := "buf length %v, expected %v words"
		panic(fmt.Errorf(fmsg, len(buf), bm.Sizeinwords()))
	}
	copy(buf, bm.words)
}

// Free release backing storage to the allocation strategy, the bitmap
// is empty hereafter.
func (bm *Bitmap) Free() {
	if bm.words != nil {
		bm.alloc.Freewords(bm.words)
	}
	bm.words, bm.size = nil, 0
}

func (bm *Bitmap) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bitmap(%v):", bm.size)
	for i := int64(0); i < bm.size; i++ {
		if bm.At(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

//---- local functions

func (bm *Bitmap) setrangewithinword(beg, end int64) {
	if beg != end {
		mask := invertedmaskforrange(beg, end)
		bm.words[wordindex(beg)] |= ^mask
	}
}

func (bm *Bitmap) clearrangewithinword(beg, end int64) {
	if beg != end {
		mask := invertedmaskforrange(beg, end)
		bm.words[wordindex(beg)] &= mask
	}
}

func (bm *Bitmap) setrangeofwords(beg, end int64) {
	for i := beg; i < end; i++ {
		bm.words[i] = ^uint64(0)
	}
}

func (bm *Bitmap) clearrangeofwords(beg, end int64) {
	for i := beg; i < end; i++ {
		bm.words[i] = 0
	}
}

func (bm *Bitmap) setlargerangeofwords(beg, end int64) {
	i := beg
	for ; i+8 <= end; i += 8 {
		ws := bm.words[i : i+8 : i+8]
		ws[0], ws[1], ws[2], ws[3] = ^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)
		ws[4], ws[5], ws[6], ws[7] = ^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)
	}
	for ; i < end; i++ {
		bm.words[i] = ^uint64(0)
	}
}

func (bm *Bitmap) clearlargerangeofwords(beg, end int64) {
	i := beg
	for ; i+8 <= end; i += 8 {
		ws := bm.words[i : i+8 : i+8]
		ws[0], ws[1], ws[2], ws[3] = 0, 0, 0, 0
		ws[4], ws[5], ws[6], ws[7] = 0, 0, 0, 0
	}
	for ; i < end; i++ {
		bm.words[i] = 0
	}
}

func (bm *Bitmap) verifyindex(i int64) {
	if i < 0 || i >= bm.size {
		panic(errors.Wrapf(api.ErrorIndexRange, "bit index %v outside [0,%v)", i, bm.size))
	}
}

func (bm *Bitmap) verifyrange(beg, end int64) {
	if beg > end || beg < 0 || end > bm.size {
		fmsg := "range [%v,%v) invalid for bitmap of %v bits"
		panic(errors.Wrapf(api.ErrorIndexRange, fmsg, beg, end, bm.size))
	}
}

func wordindex(i int64) int64 {
	return i >> logwordbits
}

func wordindexroundup(i int64) int64 {
	return (i + Wordbits - 1) >> logwordbits
}

func bitindex(word int64) int64 {
	return word << logwordbits
}

func bitinword(i int64) int64 {
	return i & (Wordbits - 1)
}

func bitmask(i int64) uint64 {
	return uint64(1) << uint64(bitinword(i))
}

// invertedmaskforrange mask with zeros at positions [beg,end) within
// the word containing beg, end should fall in the same word or on its
// upper boundary and beg should be < end.
func invertedmaskforrange(beg, end int64) uint64 {
	lomask := bitmask(beg) - 1
	himask := uint64(0)
	if bitinword(end) > 0 {
		himask = ^(bitmask(end) - 1)
	}
	return lomask | himask
}

func issmallrangeofwords(begfullword, endfullword int64) bool {
	return (begfullword + smallrangewords) >= endfullword
}

func tailmask(tailbits int64) uint64 {
	return (uint64(1) << uint64(tailbits)) - 1
}

// tailofmap low tailbits of the last partial word.
func tailofmap(value uint64, tailbits int64) uint64 {
	return value & tailmask(tailbits)
}

// mergetailofmap old value with its low tailbits replaced from the new
// value.
func mergetailofmap(newvalue, oldvalue uint64, tailbits int64) uint64 {
	mask := tailmask(tailbits)
	return (newvalue & mask) | (oldvalue & ^mask)
}

func minint64(x, y int64) int64 {
	if x < y {
		return x
	}
	return y
}
