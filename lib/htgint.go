package lib

import "fmt"

// HistogramInt64 statistical histogram with power-of-two bucket
// boundaries, good enough for pause durations spanning several orders
// of magnitude.
type HistogramInt64 struct {
	n       int64
	minval  int64
	maxval  int64
	sum     int64
	buckets [65]int64 // bucket i counts samples in [2^(i-1), 2^i)
	init    bool
}

// Add a sample, negative samples land in the zero bucket.
func (h *HistogramInt64) Add(sample int64) {
	h.n++
	h.sum += sample
	if h.init == false || sample < h.minval {
		h.minval = sample
		h.init = true
	}
	if h.maxval < sample {
		h.maxval = sample
	}
	h.buckets[bucketfor(sample)]++
}

func bucketfor(sample int64) int {
	bucket := 0
	for sample > 0 {
		bucket, sample = bucket+1, sample>>1
	}
	return bucket
}

func (h *HistogramInt64) Min() int64 {
	return h.minval
}

func (h *HistogramInt64) Max() int64 {
	return h.maxval
}

func (h *HistogramInt64) Samples() int64 {
	return h.n
}

func (h *HistogramInt64) Sum() int64 {
	return h.sum
}

func (h *HistogramInt64) Mean() int64 {
	if h.n == 0 {
		return 0
	}
	return h.sum / h.n
}

// Fullstats return aggregates and non-empty buckets as map.
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	histogram := map[string]interface{}{}
	lowb := int64(0)
	for i, count := range h.buckets {
		if count > 0 {
			key := fmt.Sprintf("%v-%v", lowb, int64(1)<<uint(i))
			histogram[key] = count
		}
		lowb = int64(1) << uint(i)
	}
	return map[string]interface{}{
		"samples":   h.Samples(),
		"min":       h.Min(),
		"max":       h.Max(),
		"mean":      h.Mean(),
		"histogram": histogram,
	}
}
