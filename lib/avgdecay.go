package lib

import "math"

// AverageDecay computes exponentially decayed mean and variance over a
// stream of float64 samples. Older samples are damped, never discarded,
// so a single outlier shifts the estimate without owning it. Not safe
// for concurrent updates.
type AverageDecay struct {
	decay  float64 // weight retained by history on every new sample
	n      int64
	mean   float64
	varsum float64
	minval float64
	maxval float64
	init   bool
}

// NewAverageDecay create a decayed average, decay should be in (0,1),
// higher values remember more history.
func NewAverageDecay(decay float64) *AverageDecay {
	if decay <= 0 || decay >= 1 {
		panic("decay should be in (0,1)")
	}
	return &AverageDecay{decay: decay}
}

// Add a sample.
func (av *AverageDecay) Add(sample float64) {
	av.n++
	if av.init == false {
		av.mean, av.init = sample, true
		av.minval, av.maxval = sample, sample
		return
	}
	delta := sample - av.mean
	av.mean += (1 - av.decay) * delta
	av.varsum = av.decay * (av.varsum + (1-av.decay)*delta*delta)
	if sample < av.minval {
		av.minval = sample
	}
	if av.maxval < sample {
		av.maxval = sample
	}
}

func (av *AverageDecay) Min() float64 {
	return av.minval
}

func (av *AverageDecay) Max() float64 {
	return av.maxval
}

func (av *AverageDecay) Samples() int64 {
	return av.n
}

func (av *AverageDecay) Mean() float64 {
	return av.mean
}

func (av *AverageDecay) Variance() float64 {
	return av.varsum
}

func (av *AverageDecay) SD() float64 {
	return math.Sqrt(av.varsum)
}

// Upper safety biased estimate, mean plus sigma deviations.
func (av *AverageDecay) Upper(sigma float64) float64 {
	return av.mean + sigma*av.SD()
}

func (av *AverageDecay) Clone() *AverageDecay {
	newav := (*av)
	return &newav
}

// Stats return aggregate statistics as map.
func (av *AverageDecay) Stats() map[string]interface{} {
	return map[string]interface{}{
		"samples":     av.Samples(),
		"min":         av.Min(),
		"max":         av.Max(),
		"mean":        av.Mean(),
		"variance":    av.Variance(),
		"stddeviance": av.SD(),
	}
}
