package policy

import "sync/atomic"

import "github.com/dustin/go-humanize"

// Stats return a snapshot of policy state and accumulated
// measurements, keys are flat strings so the map can be dumped as is.
// Meant for pause boundaries, not safe against concurrent Note* calls.
func (p *Policy) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"state":          p.phase.current().String(),
		"capacity":       p.capacity,
		"capacity.human": humanize.IBytes(uint64(p.capacity)),
		"regionsize":     p.regionsize,
		"nregions":       p.nregions,
		"youngtarget":    p.Youngtargetlength(),
		"youngmax":       atomic.LoadUint64(&p.maxlength),
		"ihopthreshold":  p.ihop.thresholdbytes(p.capacity),
		"n_cycles":       p.n_cycles,
		"n_aborts":       p.n_aborts,
	}
	stats["predictor"] = p.pred.stats()
	mtm := p.marktomixed.av.Stats()
	mtm["aborted"] = p.marktomixed.aborted
	stats["marktomixed"] = mtm
	if p.candidates != nil {
		stats["candidates"] = p.candidates.Numremaining()
		stats["candidates.reclaimable"] = p.candidates.Remainingreclaimable()
	}
	for kind, h := range p.h_pauses {
		stats["pauses."+kind.String()] = h.Fullstats()
	}
	return stats
}
