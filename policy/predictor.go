package policy

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/regiongc/lib"

// Well known predictor metrics. Callers may feed additional metrics of
// their own, any string key works.
const (
	// MetricCostPerCardMs milliseconds per remembered set card scanned.
	MetricCostPerCardMs = "costpercard.ms"

	// MetricCopyCostPerByteMs milliseconds per live byte evacuated.
	MetricCopyCostPerByteMs = "copycostperbyte.ms"

	// MetricConstantOtherMs fixed per-pause overhead in milliseconds.
	MetricConstantOtherMs = "constantother.ms"

	// MetricRegionElapsedMs milliseconds per young region collected.
	MetricRegionElapsedMs = "regionelapsed.ms"

	// MetricRSLength remembered set cards observed per pause.
	MetricRSLength = "rslength"

	// MetricConcMarkMs wall duration of a concurrent mark cycle.
	MetricConcMarkMs = "concmark.ms"

	// MetricRemarkMs duration of the remark pause.
	MetricRemarkMs = "remark.ms"

	// MetricCleanupMs duration of the cleanup pause.
	MetricCleanupMs = "cleanup.ms"

	// MetricAllocRate bytes allocated into old generation per
	// millisecond of mutator time.
	MetricAllocRate = "allocrate"

	// MetricSurvivalRate fraction of young bytes surviving a pause.
	MetricSurvivalRate = "survivalrate"
)

// Predictor turns historical samples, tagged by metric, into safety
// biased forward predictions. Sample ingestion happens only at pause
// boundaries, no concurrent writers.
type Predictor struct {
	sigma      float64
	decay      float64
	minsamples int64
	metrics    map[string]*metricseq
}

type metricseq struct {
	av      *lib.AverageDecay
	ceiling float64
	capped  bool
}

func newpredictor(setts s.Settings) *Predictor {
	return &Predictor{
		sigma:      setts.Float64("predictor.sigma"),
		decay:      setts.Float64("predictor.decay"),
		minsamples: setts.Int64("predictor.minsamples"),
		metrics:    map[string]*metricseq{},
	}
}

func (pred *Predictor) getseq(name string) *metricseq {
	seq, ok := pred.metrics[name]
	if ok == false {
		seq = &metricseq{av: lib.NewAverageDecay(pred.decay)}
		pred.metrics[name] = seq
	}
	return seq
}

// Setceiling configure a conservative ceiling for metric, returned
// while samples are sparse and clamping the estimate thereafter.
// Metrics without a ceiling default to zero cost while sparse.
func (pred *Predictor) Setceiling(name string, ceiling float64) {
	seq := pred.getseq(name)
	seq.ceiling, seq.capped = ceiling, true
}

// Add a sample for metric, samples are retained only as decayed
// aggregates, never replayed, never revised.
func (pred *Predictor) Add(name string, sample float64) {
	pred.getseq(name).av.Add(sample)
}

// Samples number of observations ingested for metric.
func (pred *Predictor) Samples(name string) int64 {
	if seq, ok := pred.metrics[name]; ok {
		return seq.av.Samples()
	}
	return 0
}

// Predict safety biased estimate for metric, decayed mean plus sigma
// standard deviations. A metric with fewer than the minimum sample
// count returns its conservative default, the configured ceiling or
// zero, rather than an unstable estimate.
func (pred *Predictor) Predict(name string) float64 {
	seq, ok := pred.metrics[name]
	if ok == false || seq.av.Samples() < pred.minsamples {
		if ok && seq.capped {
			return seq.ceiling
		}
		return 0
	}
	estimate := seq.av.Upper(pred.sigma)
	if estimate < 0 {
		estimate = 0
	}
	if seq.capped && estimate > seq.ceiling {
		estimate = seq.ceiling
	}
	return estimate
}

func (pred *Predictor) stats() map[string]interface{} {
	stats := map[string]interface{}{}
	for name, seq := range pred.metrics {
		stats[name] = seq.av.Stats()
	}
	return stats
}
