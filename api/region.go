package api

// Generation classifies a heap region by the age of its objects.
type Generation byte

const (
	// GenYoung regions hold recently allocated objects and are
	// reclaimed on every pause.
	GenYoung Generation = iota + 1

	// GenSurvivor regions hold young objects that survived at least
	// one pause.
	GenSurvivor

	// GenOld regions hold long lived objects, reclaimed only during
	// mixed pauses.
	GenOld
)

func (gen Generation) String() string {
	switch gen {
	case GenYoung:
		return "young"
	case GenSurvivor:
		return "survivor"
	case GenOld:
		return "old"
	}
	return "invalid"
}

// Region is a fixed size contiguous span of heap memory, the unit of
// collection. Live byte counts are valid only between a completed mark
// and the next mutation epoch.
type Region struct {
	// Index identifies the region within the heap.
	Index uint64

	// Gen current generation tag, reclassified by the collector
	// across pauses.
	Gen Generation

	// Occupied number of allocated bytes in this region.
	Occupied int64

	// Live number of reachable bytes, valid after a completed mark.
	Live int64

	// RSLength count of incoming cross-region references, used to
	// estimate scan cost.
	RSLength int64

	// Pinned regions cannot be evacuated this cycle.
	Pinned bool
}

// Reclaimable bytes expected to be recovered by evacuating this region.
func (r *Region) Reclaimable() int64 {
	return r.Occupied - r.Live
}
