package policy

import "fmt"
import "sync/atomic"
import "time"

import s "github.com/bnclabs/gosettings"
import "github.com/dustin/go-humanize"

import "github.com/bnclabs/regiongc/api"
import "github.com/bnclabs/regiongc/lib"

// Policy ties the duration predictor, young generation sizer,
// collection set policy and phase controller to the pause lifecycle.
// One instance per heap. All Note*/Record* calls happen at pause
// boundaries under the runtime's serialization, the scalar queries
// used by the allocation path are safe cross-thread.
type Policy struct {
	// 64-bit aligned, atomic mirrors for the allocation path.
	targetlength uint64
	maxlength    uint64

	logprefix string
	clock     api.PauseClock
	barrier   api.Barrier
	pred      *Predictor
	young     *youngsizer
	phase     *phasecontroller
	ihop      *ihopcontrol

	// configuration
	capacity      int64
	regionsize    int64
	nregions      uint64
	mixedgctarget int64
	oldpercent    int64
	maxoptional   int64

	optionalfraction     float64
	optionalevacfraction float64
	wastepercent         float64

	// pause bookkeeping
	pausestart   time.Time
	pauseend     time.Time // previous pause end, mutator epoch start
	markstart    time.Time
	remarkstart  time.Time
	cleanupstart time.Time
	oldallocated int64
	candidates   *Candidates
	marktomixed  *marktomixedtracker

	// counters
	h_pauses map[Pausekind]*lib.HistogramInt64
	n_cycles int64
	n_aborts int64
}

type systemclock struct{}

func (sysclock systemclock) Now() time.Time {
	return time.Now()
}

// NewPolicy create the policy instance for a heap, settings are
// documented by Defaultsettings(). A nil clock falls back to the
// system wall clock.
func NewPolicy(setts s.Settings, clock api.PauseClock) *Policy {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	if clock == nil {
		clock = systemclock{}
	}
	capacity := setts.Int64("heapcapacity")
	if capacity == 0 {
		total, _, _ := getsysmem()
		capacity = int64(total / 2)
	}
	pred := newpredictor(setts)
	p := &Policy{
		logprefix:            "policy",
		clock:                clock,
		pred:                 pred,
		young:                newyoungsizer(setts, pred),
		phase:                newphasecontroller(setts.Int64("cset.mixedgctarget")),
		ihop:                 newihopcontrol(setts, pred),
		capacity:             capacity,
		regionsize:           setts.Int64("regionsize"),
		mixedgctarget:        setts.Int64("cset.mixedgctarget"),
		oldpercent:           setts.Int64("cset.oldpercent"),
		maxoptional:          setts.Int64("cset.maxoptional"),
		optionalfraction:     setts.Float64("cset.optionalfraction"),
		optionalevacfraction: setts.Float64("cset.optionalevacfraction"),
		wastepercent:         setts.Float64("cset.wastepercent"),
		marktomixed:          newmarktomixedtracker(setts.Float64("predictor.decay")),
		h_pauses:             map[Pausekind]*lib.HistogramInt64{},
	}
	p.nregions = uint64(p.capacity / p.regionsize)
	// the allocation path queries the target before the first pause
	// can possibly have refreshed it, seed it from configuration.
	bounded, _ := p.young.computetargetlengths(0, p.nregions)
	atomic.StoreUint64(&p.targetlength, bounded)
	atomic.StoreUint64(&p.maxlength, p.young.desiredmaxlength())
	infof("%v boot: %v heap, %v regions of %v\n",
		p.logprefix, humanize.IBytes(uint64(p.capacity)), p.nregions,
		humanize.IBytes(uint64(p.regionsize)))
	return p
}

// Setbarrier install the runtime's safepoint rendezvous, phase
// transitions that expose or retract liveness data are published
// through it before mutators may act on them. A nil barrier skips
// publication, single-threaded callers and tests need none.
func (p *Policy) Setbarrier(barrier api.Barrier) {
	p.barrier = barrier
}

func (p *Policy) publish() {
	if p.barrier != nil {
		p.barrier.Synchronize()
	}
}

// Recordheapsize the heap was resized, recompute region count.
func (p *Policy) Recordheapsize(nregions uint64) {
	p.nregions = nregions
	p.capacity = int64(nregions) * p.regionsize
	infof("%v heap resized to %v regions\n", p.logprefix, nregions)
}

// State current collector phase, tolerates cross-thread readers.
func (p *Policy) State() Collectorstate {
	return p.phase.current()
}

// Youngpausekind the flavor the next pause should take, derived from
// the collector state.
func (p *Policy) Youngpausekind() Pausekind {
	switch p.phase.current() {
	case MarkingArmed:
		return PauseInitialMark
	case Mixed:
		return PauseMixed
	}
	return PauseYoungOnly
}

// Notegcstart a stop-the-world pause of the given kind begins now.
func (p *Policy) Notegcstart(kind Pausekind) {
	p.pausestart = p.clock.Now()
	switch kind {
	case PauseInitialMark:
		// consume the armed flag, exactly once.
		if p.phase.startmarking() == false {
			fmsg := "%v initial-mark pause while %v"
			panic(fmt.Errorf(fmsg, p.logprefix, p.phase.current()))
		}
	case PauseMixed:
		p.marktomixed.recordfirstmixed(p.pausestart)
	}
}

// Notegcend the pause that began with Notegcstart is over, refresh
// predictions and the young target for the coming mutator epoch.
// freeregions is the number of unallocated regions at pause end.
func (p *Policy) Notegcend(kind Pausekind, freeregions uint64) {
	end := p.clock.Now()
	pausems := float64(end.Sub(p.pausestart)) / float64(time.Millisecond)
	p.pausehistogram(kind).Add(int64(pausems))

	// allocation rate over the mutator epoch that just ended.
	if p.pauseend.IsZero() == false {
		mutatorms := float64(p.pausestart.Sub(p.pauseend)) / float64(time.Millisecond)
		if mutatorms > 0 {
			p.pred.Add(MetricAllocRate, float64(p.oldallocated)/mutatorms)
		}
	}
	p.oldallocated = 0
	p.pauseend = end

	rslength := p.pred.Predict(MetricRSLength)
	bounded, unbounded := p.young.computetargetlengths(rslength, freeregions)
	atomic.StoreUint64(&p.targetlength, bounded)
	atomic.StoreUint64(&p.maxlength, p.young.desiredmaxlength())
	debugf("%v %v pause %.2fms, young target %v (unbounded %v)\n",
		p.logprefix, kind, pausems, bounded, unbounded)

	switch kind {
	case PauseMixed:
		shouldcontinue := p.Nextgcshouldbemixed(p.candidates)
		if p.phase.notemixedpause(shouldcontinue) == YoungOnly {
			infof("%v mixed phase done after %v pauses\n",
				p.logprefix, p.phase.mixedpauses)
			p.candidates = nil
		}
	case PauseFull:
		// a full collection invalidates any cycle in flight.
		p.Abortmark()
	}
}

// Needtostartmark whether old generation occupancy crossed the
// initiating threshold, arms a marking cycle when it did. Called at
// pause boundaries with post-pause occupancy.
func (p *Policy) Needtostartmark(oldoccupied int64) bool {
	if p.phase.current() != YoungOnly {
		return false
	}
	threshold := p.ihop.thresholdbytes(p.capacity)
	if oldoccupied < threshold {
		return false
	}
	p.phase.armmarking()
	p.n_cycles++
	infof("%v request concurrent cycle: occupancy %v over threshold %v\n",
		p.logprefix, humanize.IBytes(uint64(oldoccupied)),
		humanize.IBytes(uint64(threshold)))
	return true
}

// Forcemark arm a marking cycle on external request, a no-op inside a
// cycle. Returns whether the request armed.
func (p *Policy) Forcemark(cause string) bool {
	if p.phase.armmarking() == false {
		return false
	}
	p.n_cycles++
	infof("%v request concurrent cycle: %v\n", p.logprefix, cause)
	return true
}

// Recordmarkstart the concurrent mark began, right after the
// initial-mark pause.
func (p *Policy) Recordmarkstart() {
	p.markstart = p.clock.Now()
}

// Recordremarkstart / Recordremarkend bracket the remark pause.
func (p *Policy) Recordremarkstart() {
	p.remarkstart = p.clock.Now()
}

func (p *Policy) Recordremarkend() {
	ms := float64(p.clock.Now().Sub(p.remarkstart)) / float64(time.Millisecond)
	p.pred.Add(MetricRemarkMs, ms)
}

// Recordcleanupstart / Recordcleanupend bracket the cleanup pause,
// cleanup end completes the marking cycle and installs the candidate
// pool assembled from post-mark liveness.
func (p *Policy) Recordcleanupstart() {
	p.cleanupstart = p.clock.Now()
}

func (p *Policy) Recordcleanupend(candidates *Candidates) {
	now := p.clock.Now()
	p.pred.Add(MetricCleanupMs,
		float64(now.Sub(p.cleanupstart))/float64(time.Millisecond))
	if p.markstart.IsZero() == false {
		markms := float64(now.Sub(p.markstart)) / float64(time.Millisecond)
		p.pred.Add(MetricConcMarkMs, markms)
	}
	p.marktomixed.recordmarkend(now)

	ncandidates := 0
	if candidates != nil {
		ncandidates = candidates.Numremaining()
	}
	state := p.phase.markcomplete(ncandidates)
	if state == Mixed {
		p.candidates = candidates
		infof("%v mark complete, %v candidates (%v reclaimable)\n",
			p.logprefix, ncandidates,
			humanize.IBytes(uint64(candidates.Remainingreclaimable())))
	} else {
		p.candidates = nil
		infof("%v mark complete with nothing to mix, back to %v\n",
			p.logprefix, state)
	}
	p.publish()
}

// Recordcleanupendwith convenience over Recordcleanupend, assemble the
// candidate pool from the heap's region source and refresh the young
// target against its current free region count.
func (p *Policy) Recordcleanupendwith(src api.RegionSource) {
	p.Recordcleanupend(NewCandidates(src.Oldcandidates()))
	rslength := p.pred.Predict(MetricRSLength)
	bounded, _ := p.young.computetargetlengths(rslength, src.Freeregions())
	atomic.StoreUint64(&p.targetlength, bounded)
}

// Abortmark abandon an armed or in-flight marking cycle, idempotent.
// Partially populated liveness is discarded rather than exposed to
// the collection set policy.
func (p *Policy) Abortmark() {
	state := p.phase.current()
	p.phase.abort()
	p.candidates = nil
	if p.marktomixed.abort() {
		p.n_aborts++
	}
	if state != YoungOnly {
		warnf("%v concurrent cycle aborted while %v\n", p.logprefix, state)
		p.publish()
	}
}

// Addoldallocated bytes allocated into old generation since the last
// pause, feeds the adaptive initiating threshold.
func (p *Policy) Addoldallocated(bytes int64) {
	p.oldallocated += bytes
}

// Addsample feed an observed scalar into the duration predictor, see
// the Metric* constants for well known keys.
func (p *Policy) Addsample(metric string, value float64) {
	p.pred.Add(metric, value)
}

// Setceiling configure a conservative ceiling for a predictor metric.
func (p *Policy) Setceiling(metric string, ceiling float64) {
	p.pred.Setceiling(metric, ceiling)
}

// Youngtargetlength regions the allocation path may consume before
// the next pause, safe cross-thread.
func (p *Policy) Youngtargetlength() uint64 {
	return atomic.LoadUint64(&p.targetlength)
}

// Shouldallocatemutator whether a new mutator region fits under the
// young target, safe cross-thread.
func (p *Policy) Shouldallocatemutator(curyounglength uint64) bool {
	return curyounglength < p.Youngtargetlength()
}

// Canexpandyounglist whether the young list may still grow, the bound
// includes the GC locker allowance, safe cross-thread.
func (p *Policy) Canexpandyounglist(curyounglength uint64) bool {
	return curyounglength < atomic.LoadUint64(&p.maxlength)
}

// Setgclocker the GC locker engaged or released, adjusts how far the
// young list may overflow. Called at the locker's own serialization.
func (p *Policy) Setgclocker(active bool) {
	p.young.setgclocker(active)
	atomic.StoreUint64(&p.maxlength, p.young.desiredmaxlength())
}

// Reviserslength the observed remembered set length for the next
// pause, recomputes the young target only when it exceeds the last
// prediction by more than the configured tolerance.
func (p *Policy) Reviserslength(rslength int64, freeregions uint64) {
	p.pred.Add(MetricRSLength, float64(rslength))
	if p.young.revisetargetlength(float64(rslength), freeregions) {
		atomic.StoreUint64(&p.targetlength, p.young.target)
		debugf("%v revised young target to %v for rs length %v\n",
			p.logprefix, p.young.target, rslength)
	}
}

func (p *Policy) pausehistogram(kind Pausekind) *lib.HistogramInt64 {
	h, ok := p.h_pauses[kind]
	if ok == false {
		h = &lib.HistogramInt64{}
		p.h_pauses[kind] = h
	}
	return h
}

// marktomixedtracker latency from mark completion to the first mixed
// pause of the cycle, abandoned when the cycle aborts.
type marktomixedtracker struct {
	markend time.Time
	pending bool
	av      *lib.AverageDecay
	aborted int64
}

func newmarktomixedtracker(decay float64) *marktomixedtracker {
	return &marktomixedtracker{av: lib.NewAverageDecay(decay)}
}

func (tr *marktomixedtracker) recordmarkend(t time.Time) {
	tr.markend, tr.pending = t, true
}

func (tr *marktomixedtracker) recordfirstmixed(t time.Time) {
	if tr.pending {
		tr.av.Add(float64(t.Sub(tr.markend)) / float64(time.Millisecond))
		tr.pending = false
	}
}

// abort abandon the pending measurement, reports whether one was
// pending.
func (tr *marktomixedtracker) abort() bool {
	if tr.pending {
		tr.pending = false
		tr.aborted++
		return true
	}
	return false
}
