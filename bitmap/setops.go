package bitmap

import "github.com/bnclabs/regiongc/api"

// Set algebra operates on same-size bitmaps, mismatched sizes are a
// contract violation. Single writer, like the sequential range
// operations.

// Setunion this |= other.
func (bm *Bitmap) Setunion(other *Bitmap) {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		bm.words[i] |= other.words[i]
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		bm.words[limit] = mergetailofmap(orig|other.words[limit], orig, rest)
	}
}

// Setintersection this &= other.
func (bm *Bitmap) Setintersection(other *Bitmap) {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		bm.words[i] &= other.words[i]
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		bm.words[limit] = mergetailofmap(orig&other.words[limit], orig, rest)
	}
}

// Setdifference this &= ^other.
func (bm *Bitmap) Setdifference(other *Bitmap) {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		bm.words[i] &= ^other.words[i]
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		bm.words[limit] = mergetailofmap(orig & ^other.words[limit], orig, rest)
	}
}

// Setunionwithresult same as Setunion, reporting whether any bit
// changed.
func (bm *Bitmap) Setunionwithresult(other *Bitmap) bool {
	bm.verifysamesize(other)
	changed := false
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		orig := bm.words[i]
		temp := orig | other.words[i]
		changed = changed || (temp != orig)
		bm.words[i] = temp
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		temp := mergetailofmap(orig|other.words[limit], orig, rest)
		changed = changed || (temp != orig)
		bm.words[limit] = temp
	}
	return changed
}

// Setintersectionwithresult same as Setintersection, reporting whether
// any bit changed.
func (bm *Bitmap) Setintersectionwithresult(other *Bitmap) bool {
	bm.verifysamesize(other)
	changed := false
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		orig := bm.words[i]
		temp := orig & other.words[i]
		changed = changed || (temp != orig)
		bm.words[i] = temp
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		temp := mergetailofmap(orig&other.words[limit], orig, rest)
		changed = changed || (temp != orig)
		bm.words[limit] = temp
	}
	return changed
}

// Setdifferencewithresult same as Setdifference, reporting whether any
// bit changed.
func (bm *Bitmap) Setdifferencewithresult(other *Bitmap) bool {
	bm.verifysamesize(other)
	changed := false
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		orig := bm.words[i]
		temp := orig & ^other.words[i]
		changed = changed || (temp != orig)
		bm.words[i] = temp
	}
	if rest := bitinword(bm.size); rest > 0 {
		orig := bm.words[limit]
		temp := mergetailofmap(orig & ^other.words[limit], orig, rest)
		changed = changed || (temp != orig)
		bm.words[limit] = temp
	}
	return changed
}

// Setfrom copy other's bits into this bitmap.
func (bm *Bitmap) Setfrom(other *Bitmap) {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	copy(bm.words[:limit], other.words[:limit])
	if rest := bitinword(bm.size); rest > 0 {
		bm.words[limit] = mergetailofmap(
			other.words[limit], bm.words[limit], rest)
	}
}

// Contains whether this bitmap is a superset of other.
func (bm *Bitmap) Contains(other *Bitmap) bool {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		// false if other has bits set which are clear in this bitmap.
		if (^bm.words[i] & other.words[i]) != 0 {
			return false
		}
	}
	rest := bitinword(bm.size)
	return rest == 0 || tailofmap(^bm.words[limit]&other.words[limit], rest) == 0
}

// Intersects whether this bitmap and other share any set bit.
func (bm *Bitmap) Intersects(other *Bitmap) bool {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		if (bm.words[i] & other.words[i]) != 0 {
			return true
		}
	}
	rest := bitinword(bm.size)
	return rest > 0 && tailofmap(bm.words[limit]&other.words[limit], rest) != 0
}

// Issame whether this bitmap and other agree bit for bit.
func (bm *Bitmap) Issame(other *Bitmap) bool {
	bm.verifysamesize(other)
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		if bm.words[i] != other.words[i] {
			return false
		}
	}
	rest := bitinword(bm.size)
	return rest == 0 || tailofmap(bm.words[limit]^other.words[limit], rest) == 0
}

// Isfull whether every bit below size is set.
func (bm *Bitmap) Isfull() bool {
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		if ^bm.words[i] != 0 {
			return false
		}
	}
	rest := bitinword(bm.size)
	return rest == 0 || tailofmap(^bm.words[limit], rest) == 0
}

// Isempty whether no bit below size is set.
func (bm *Bitmap) Isempty() bool {
	limit := wordindex(bm.size)
	for i := int64(0); i < limit; i++ {
		if bm.words[i] != 0 {
			return false
		}
	}
	rest := bitinword(bm.size)
	return rest == 0 || tailofmap(bm.words[limit], rest) == 0
}

func (bm *Bitmap) verifysamesize(other *Bitmap) {
	if bm.size != other.size {
		panic(api.ErrorSizeMismatch)
	}
}
