package policy

import "sync/atomic"

// Collectorstate phase of the collector, exactly one instance per
// heap, mutated only at pause boundaries. Diagnostic readers may load
// it cross-thread through State().
type Collectorstate int32

const (
	// YoungOnly initial and idle state, pauses collect young regions
	// only.
	YoungOnly Collectorstate = iota

	// MarkingArmed a marking cycle has been requested but not yet
	// started, the flag is consumed by the next pause.
	MarkingArmed

	// Marking concurrent mark in progress, liveness bitmap being
	// populated.
	Marking

	// Mixed young+old collection pauses draining the candidate pool.
	Mixed
)

func (cs Collectorstate) String() string {
	switch cs {
	case YoungOnly:
		return "young-only"
	case MarkingArmed:
		return "marking-armed"
	case Marking:
		return "marking"
	case Mixed:
		return "mixed"
	}
	return "invalid"
}

// Pausekind the flavor of a stop-the-world pause, reported by the
// runtime to Notegcstart/Notegcend.
type Pausekind byte

const (
	// PauseYoungOnly an ordinary young collection pause.
	PauseYoungOnly Pausekind = iota + 1

	// PauseLastYoung the final young pause before a mixed phase.
	PauseLastYoung

	// PauseInitialMark young pause that also starts a marking cycle.
	PauseInitialMark

	// PauseMixed young+old collection pause.
	PauseMixed

	// PauseFull a full stop-the-world collection.
	PauseFull

	// PauseRemark the remark pause of a concurrent cycle.
	PauseRemark

	// PauseCleanup the cleanup pause of a concurrent cycle.
	PauseCleanup
)

func (pk Pausekind) String() string {
	switch pk {
	case PauseYoungOnly:
		return "young-only"
	case PauseLastYoung:
		return "last-young"
	case PauseInitialMark:
		return "initial-mark"
	case PauseMixed:
		return "mixed"
	case PauseFull:
		return "full"
	case PauseRemark:
		return "remark"
	case PauseCleanup:
		return "cleanup"
	}
	return "invalid"
}

// phasecontroller the state machine governing when a marking cycle
// starts and when young-only collection becomes mixed. All writes
// happen at pause boundaries under the runtime's serialization.
type phasecontroller struct {
	state       int32 // Collectorstate, atomic for diagnostic readers
	mixedpauses int64
	maxmixed    int64
}

func newphasecontroller(maxmixed int64) *phasecontroller {
	return &phasecontroller{maxmixed: maxmixed}
}

func (pc *phasecontroller) current() Collectorstate {
	return Collectorstate(atomic.LoadInt32(&pc.state))
}

func (pc *phasecontroller) moveto(state Collectorstate) {
	atomic.StoreInt32(&pc.state, int32(state))
}

// armmarking request a marking cycle, legal only outside a cycle.
// Returns whether the request armed.
func (pc *phasecontroller) armmarking() bool {
	if pc.current() != YoungOnly {
		return false
	}
	pc.moveto(MarkingArmed)
	return true
}

// startmarking consume the armed flag at the start of a pause, the
// flag is consumed exactly once.
func (pc *phasecontroller) startmarking() bool {
	if pc.current() != MarkingArmed {
		return false
	}
	pc.moveto(Marking)
	return true
}

// markcomplete the concurrent mark finished with `ncandidates`
// reclaimable old regions. With no candidates there is nothing to
// mix, degrade straight back to young-only.
func (pc *phasecontroller) markcomplete(ncandidates int) Collectorstate {
	if pc.current() != Marking {
		// an abort raced ahead of completion, stay degraded.
		return pc.current()
	}
	if ncandidates == 0 {
		pc.moveto(YoungOnly)
	} else {
		pc.mixedpauses = 0
		pc.moveto(Mixed)
	}
	return pc.current()
}

// notemixedpause bookkeeping after each mixed pause, the phase ends
// once candidates drain, garbage falls under the waste threshold or
// the configured pause count is reached.
func (pc *phasecontroller) notemixedpause(shouldcontinue bool) Collectorstate {
	if pc.current() != Mixed {
		return pc.current()
	}
	pc.mixedpauses++
	if shouldcontinue == false || pc.mixedpauses >= pc.maxmixed {
		pc.moveto(YoungOnly)
	}
	return pc.current()
}

// abort idempotently return to young-only, an armed or in-progress
// cycle is discarded. Never leaves the machine in Marking or Mixed.
func (pc *phasecontroller) abort() {
	pc.moveto(YoungOnly)
	pc.mixedpauses = 0
}
