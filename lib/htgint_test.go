package lib

import "testing"

func TestHistogramInt64(t *testing.T) {
	h := &HistogramInt64{}
	for i := int64(1); i <= 100; i++ {
		h.Add(i)
	}
	if x := h.Samples(); x != 100 {
		t.Errorf("expected %v, got %v", 100, x)
	} else if y := h.Min(); y != 1 {
		t.Errorf("expected %v, got %v", 1, y)
	} else if y = h.Max(); y != 100 {
		t.Errorf("expected %v, got %v", 100, y)
	} else if y = h.Mean(); y != 50 {
		t.Errorf("expected %v, got %v", 50, y)
	} else if y = h.Sum(); y != 5050 {
		t.Errorf("expected %v, got %v", 5050, y)
	}

	stats := h.Fullstats()
	histogram := stats["histogram"].(map[string]interface{})
	total := int64(0)
	for _, count := range histogram {
		total += count.(int64)
	}
	if total != 100 {
		t.Errorf("expected %v, got %v", 100, total)
	}
	if x := histogram["1-2"].(int64); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	} else if x = histogram["2-4"].(int64); x != 2 {
		t.Errorf("expected %v, got %v", 2, x)
	} else if x = histogram["64-128"].(int64); x != 37 {
		t.Errorf("expected %v, got %v", 37, x)
	}
}

func TestHistogramZero(t *testing.T) {
	h := &HistogramInt64{}
	if x := h.Mean(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	h.Add(0)
	histogram := h.Fullstats()["histogram"].(map[string]interface{})
	if x := histogram["0-1"].(int64); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
}
