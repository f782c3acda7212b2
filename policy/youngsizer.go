package policy

import s "github.com/bnclabs/gosettings"

// searchceiling bounds the unbounded target search, no heap has this
// many regions.
const searchceiling = uint64(1) << 24

// youngsizer computes, each pause, the bounded and unbounded target
// number of young regions to allocate into before the next pause.
type youngsizer struct {
	minlength  uint64
	maxlength  uint64
	pausegoal  float64 // ms
	lockextra  uint64  // extra regions while the GC locker is active
	lockactive bool
	rstol      float64

	rsprediction float64 // remembered set length this sizing assumed
	target       uint64  // bounded, governs allocation
	unbounded    uint64  // diagnostics and collector cadence

	pred *Predictor
}

func newyoungsizer(setts s.Settings, pred *Predictor) *youngsizer {
	return &youngsizer{
		minlength: uint64(setts.Int64("young.minlength")),
		maxlength: uint64(setts.Int64("young.maxlength")),
		pausegoal: setts.Float64("pausegoal.ms"),
		lockextra: uint64(setts.Int64("young.gclockerexpansion")),
		rstol:     setts.Float64("young.rstolerance"),
		pred:      pred,
	}
}

func (ys *youngsizer) desiredminlength() uint64 {
	return ys.minlength
}

func (ys *youngsizer) desiredmaxlength() uint64 {
	if ys.lockactive {
		return ys.maxlength + ys.lockextra
	}
	return ys.maxlength
}

func (ys *youngsizer) setgclocker(active bool) {
	ys.lockactive = active
}

// predictbasems pause cost independent of young length, fixed
// overhead plus remembered set scanning.
func (ys *youngsizer) predictbasems(rslength float64) float64 {
	base := ys.pred.Predict(MetricConstantOtherMs)
	return base + rslength*ys.pred.Predict(MetricCostPerCardMs)
}

func (ys *youngsizer) predictregionms() float64 {
	return ys.pred.Predict(MetricRegionElapsedMs)
}

func (ys *youngsizer) fits(length uint64, basems, regionms float64) bool {
	return basems+float64(length)*regionms <= ys.pausegoal
}

// unboundedtargetlength largest young length whose predicted pause
// still meets the goal, ties favor the larger length. Cost is
// monotone in length so an exponential ascent plus binary descent
// finds the boundary.
func (ys *youngsizer) unboundedtargetlength(rslength float64) uint64 {
	basems, regionms := ys.predictbasems(rslength), ys.predictregionms()
	if ys.fits(1, basems, regionms) == false {
		return 0
	} else if regionms <= 0 {
		// regions are predicted free, nothing limits the length.
		return searchceiling
	}
	lo, hi := uint64(1), uint64(2)
	for hi < searchceiling && ys.fits(hi, basems, regionms) {
		lo, hi = hi, hi<<1
	}
	// lo fits, hi does not.
	for (lo + 1) < hi {
		mid := (lo + hi) >> 1
		if ys.fits(mid, basems, regionms) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// computetargetlengths recompute both target lengths for the next
// mutator epoch, the bounded value governs allocation, the unbounded
// value feeds diagnostics. Returns (bounded, unbounded).
func (ys *youngsizer) computetargetlengths(
	rslength float64, freeregions uint64) (uint64, uint64) {

	unbounded := ys.unboundedtargetlength(rslength)

	upper := ys.desiredmaxlength()
	if freeregions < upper {
		upper = freeregions
	}
	bounded := unbounded
	if bounded > upper {
		bounded = upper
	}
	// the configured floor wins over the free region cap, the young
	// list must be allowed to overflow rather than stall allocation.
	if bounded < ys.desiredminlength() {
		bounded = ys.desiredminlength()
	}
	ys.rsprediction, ys.target, ys.unbounded = rslength, bounded, unbounded
	return bounded, unbounded
}

// revisetargetlength recompute only when the observed remembered set
// length exceeds the last prediction by more than the configured
// tolerance, trivial fluctuations are ignored. Returns whether a
// recomputation happened.
func (ys *youngsizer) revisetargetlength(
	rslength float64, freeregions uint64) bool {

	if rslength <= ys.rsprediction*(1+ys.rstol) {
		return false
	}
	ys.computetargetlengths(rslength, freeregions)
	return true
}
