package policy

import sigar "github.com/cloudfoundry/gosigar"
import s "github.com/bnclabs/gosettings"

// Defaultsettings for policy instance.
//
// "heapcapacity" (int64, default: 0)
//		Managed heap size in bytes. Zero picks half of the system's
//		total memory.
//
// "regionsize" (int64, default: 4194304)
//		Size of a heap region in bytes.
//
// "pausegoal.ms" (float64, default: 200.0)
//		Target duration for a collection pause.
//
// "young.minlength" (int64, default: 5)
//		Minimum number of young regions per pause, the sizer never
//		targets below this even when the pause goal disagrees.
//
// "young.maxlength" (int64, default: 1024)
//		Maximum number of young regions per pause.
//
// "young.gclockerexpansion" (int64, default: 10)
//		Extra young regions allowed while the GC locker is preventing
//		collection, the young list overflows rather than stalling the
//		mutator.
//
// "young.rstolerance" (float64, default: 0.3)
//		Fractional slack on the remembered set length prediction. The
//		young target is recomputed mid-epoch only when the observed
//		length exceeds the prediction by more than this fraction.
//
// "predictor.sigma" (float64, default: 1.0)
//		Safety multiplier, predictions are mean plus sigma standard
//		deviations so budget arithmetic under-promises.
//
// "predictor.decay" (float64, default: 0.7)
//		Weight retained by history when a new sample arrives, in (0,1).
//
// "predictor.minsamples" (int64, default: 3)
//		Metrics with fewer samples return their conservative default
//		instead of an unstable estimate.
//
// "cset.mixedgctarget" (int64, default: 8)
//		Number of mixed pauses a candidate pool should be spread over,
//		sets the mandatory minimum per pause and the pause count after
//		which the mixed phase ends.
//
// "cset.oldpercent" (int64, default: 10)
//		Maximum old regions per mixed pause, as a percentage of the
//		candidate pool.
//
// "cset.maxoptional" (int64, default: 128)
//		Cap on optional regions considered per mixed pause.
//
// "cset.optionalfraction" (float64, default: 0.2)
//		Fraction of the pause time budget reserved for optional
//		regions, the rest funds the mandatory pass.
//
// "cset.optionalevacfraction" (float64, default: 0.75)
//		Fraction of the time remaining after the mandatory pass that
//		optional regions may consume.
//
// "cset.wastepercent" (float64, default: 5.0)
//		Mixed collection stops once remaining reclaimable bytes fall
//		under this percentage of heap capacity.
//
// "ihop.percent" (float64, default: 45.0)
//		Static initiating heap occupancy percent, used until the
//		adaptive threshold has enough samples.
//
// "ihop.buffer" (float64, default: 20.0)
//		Percentage headroom added to the predicted allocation during
//		marking when computing the adaptive threshold.
//
// "ihop.adaptive" (bool, default: true)
//		Recompute the initiating threshold from the observed allocation
//		rate and predicted marking duration.
func Defaultsettings() s.Settings {
	return s.Settings{
		"heapcapacity":             int64(0),
		"regionsize":               int64(4 * 1024 * 1024),
		"pausegoal.ms":             float64(200.0),
		"young.minlength":          int64(5),
		"young.maxlength":          int64(1024),
		"young.gclockerexpansion":  int64(10),
		"young.rstolerance":        float64(0.3),
		"predictor.sigma":          float64(1.0),
		"predictor.decay":          float64(0.7),
		"predictor.minsamples":     int64(3),
		"cset.mixedgctarget":       int64(8),
		"cset.oldpercent":          int64(10),
		"cset.maxoptional":         int64(128),
		"cset.optionalfraction":    float64(0.2),
		"cset.optionalevacfraction": float64(0.75),
		"cset.wastepercent":        float64(5.0),
		"ihop.percent":             float64(45.0),
		"ihop.buffer":              float64(20.0),
		"ihop.adaptive":            true,
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
