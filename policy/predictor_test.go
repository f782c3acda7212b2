package policy

import "testing"

import s "github.com/bnclabs/gosettings"

func testsettings() s.Settings {
	setts := Defaultsettings()
	setts["heapcapacity"] = int64(64 * 1024 * 1024)
	return setts
}

func feedconstant(pred *Predictor, metric string, value float64, n int) {
	for i := 0; i < n; i++ {
		pred.Add(metric, value)
	}
}

func TestPredictSparse(t *testing.T) {
	pred := newpredictor(testsettings())
	if x := pred.Predict(MetricCostPerCardMs); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	pred.Setceiling(MetricCostPerCardMs, 2.5)
	if x := pred.Predict(MetricCostPerCardMs); x != 2.5 {
		t.Errorf("expected %v, got %v", 2.5, x)
	}
	pred.Add(MetricCostPerCardMs, 0.5)
	pred.Add(MetricCostPerCardMs, 0.5)
	// still below the minimum sample count.
	if x := pred.Predict(MetricCostPerCardMs); x != 2.5 {
		t.Errorf("expected %v, got %v", 2.5, x)
	}
	pred.Add(MetricCostPerCardMs, 0.5)
	if x := pred.Predict(MetricCostPerCardMs); x != 0.5 {
		t.Errorf("expected %v, got %v", 0.5, x)
	}
	if x := pred.Samples(MetricCostPerCardMs); x != 3 {
		t.Errorf("expected %v, got %v", 3, x)
	}
	if x := pred.Samples("nosuchmetric"); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
}

func TestPredictClamp(t *testing.T) {
	pred := newpredictor(testsettings())
	pred.Setceiling(MetricRegionElapsedMs, 5.0)
	feedconstant(pred, MetricRegionElapsedMs, 10.0, 4)
	if x := pred.Predict(MetricRegionElapsedMs); x != 5.0 {
		t.Errorf("expected %v, got %v", 5.0, x)
	}
	feedconstant(pred, MetricAllocRate, -4.0, 4)
	if x := pred.Predict(MetricAllocRate); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
}

func TestPredictSafetyBias(t *testing.T) {
	pred := newpredictor(testsettings())
	shadow := 0.0
	samples := []float64{10, 20, 10, 20, 10, 20}
	for i, sample := range samples {
		pred.Add(MetricConstantOtherMs, sample)
		if i == 0 {
			shadow = sample
		} else {
			shadow += (1 - 0.7) * (sample - shadow)
		}
	}
	// noisy metric, the estimate should sit above the decayed mean.
	if x := pred.Predict(MetricConstantOtherMs); x <= shadow {
		t.Errorf("expected estimate above mean %v, got %v", shadow, x)
	}
}

func TestPredictConstantIsExact(t *testing.T) {
	pred := newpredictor(testsettings())
	feedconstant(pred, MetricCopyCostPerByteMs, 0.002, 10)
	if x := pred.Predict(MetricCopyCostPerByteMs); x != 0.002 {
		t.Errorf("expected %v, got %v", 0.002, x)
	}
}
