package api

import "time"

// RegionSource supplied by the heap to enumerate old generation
// candidate regions with up-to-date occupied and live byte counts
// after a mark completes.
type RegionSource interface {
	// Oldcandidates regions eligible for a future mixed pause.
	Oldcandidates() []*Region

	// Freeregions number of unallocated regions in the heap.
	Freeregions() uint64
}

// PauseClock supplies wall clock timestamps for pause boundaries.
type PauseClock interface {
	// Now current wall clock time.
	Now() time.Time
}

// Barrier is the safepoint/handshake rendezvous owned by the runtime.
// Synchronize returns only after every mutator thread has observed
// state changes published before the call.
type Barrier interface {
	Synchronize()
}
