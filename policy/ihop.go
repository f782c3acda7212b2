package policy

import s "github.com/bnclabs/gosettings"

// ihopcontrol computes the old generation occupancy at which a new
// marking cycle should be armed. The static percent applies until the
// allocation rate and marking duration predictors have enough
// samples, after that the threshold adapts so that marking finishes
// just before the heap would fill.
type ihopcontrol struct {
	staticpercent float64
	bufferpercent float64
	adaptive      bool
	minsamples    int64
	pred          *Predictor
}

func newihopcontrol(setts s.Settings, pred *Predictor) *ihopcontrol {
	return &ihopcontrol{
		staticpercent: setts.Float64("ihop.percent"),
		bufferpercent: setts.Float64("ihop.buffer"),
		adaptive:      setts.Bool("ihop.adaptive"),
		minsamples:    setts.Int64("predictor.minsamples"),
		pred:          pred,
	}
}

// thresholdbytes occupancy above which marking is armed, for a heap
// of `capacity` bytes.
func (ih *ihopcontrol) thresholdbytes(capacity int64) int64 {
	static := int64(float64(capacity) * ih.staticpercent / 100)
	if ih.adaptive == false {
		return static
	}
	if ih.pred.Samples(MetricAllocRate) < ih.minsamples ||
		ih.pred.Samples(MetricConcMarkMs) < ih.minsamples {
		return static
	}
	// bytes the mutator is predicted to allocate while marking runs,
	// padded with the configured headroom.
	markms := ih.pred.Predict(MetricConcMarkMs)
	allocrate := ih.pred.Predict(MetricAllocRate)
	predicted := allocrate * markms * (1 + ih.bufferpercent/100)
	adaptive := capacity - int64(predicted)
	if adaptive < 0 {
		adaptive = 0
	}
	return adaptive
}
