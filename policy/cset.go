package policy

import "sort"

import "github.com/dustin/go-humanize"

import "github.com/bnclabs/regiongc/api"

// Candidates the pool of old regions not yet chosen for collection,
// ordered by decreasing reclaimable bytes. The order is fixed at
// construction, selection only drains from the front, the list is
// never rebuilt mid-run.
type Candidates struct {
	regions []*api.Region
	cursor  int
}

// NewCandidates build a candidate pool from old regions with valid
// post-mark live byte counts. Pinned regions are ineligible for this
// cycle and are excluded here, the heap rebuilds candidates after the
// next mark.
func NewCandidates(regions []*api.Region) *Candidates {
	eligible := make([]*api.Region, 0, len(regions))
	for _, r := range regions {
		if r.Pinned == false {
			eligible = append(eligible, r)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Reclaimable() > eligible[j].Reclaimable()
	})
	return &Candidates{regions: eligible}
}

// Numremaining candidates not yet consumed.
func (cn *Candidates) Numremaining() int {
	return len(cn.regions) - cn.cursor
}

// At candidate at offset `i` from the front of the remaining pool.
func (cn *Candidates) At(i int) *api.Region {
	return cn.regions[cn.cursor+i]
}

// Removefront consume the first `n` remaining candidates, the caller
// just evacuated them.
func (cn *Candidates) Removefront(n int) {
	if n < 0 || n > cn.Numremaining() {
		panic("Removefront beyond remaining candidates")
	}
	cn.cursor += n
}

// Remainingreclaimable total reclaimable bytes left in the pool.
func (cn *Candidates) Remainingreclaimable() int64 {
	total := int64(0)
	for i := cn.cursor; i < len(cn.regions); i++ {
		total += cn.regions[i].Reclaimable()
	}
	return total
}

// predictregionevacms marginal cost of evacuating region, live bytes
// to copy plus remembered set cards to scan.
func (p *Policy) predictregionevacms(r *api.Region) float64 {
	copyms := float64(r.Live) * p.pred.Predict(MetricCopyCostPerByteMs)
	scanms := float64(r.RSLength) * p.pred.Predict(MetricCostPerCardMs)
	return copyms + scanms
}

// Calcminoldcsetlength minimum old regions per mixed pause, spreads
// the candidate pool over the configured mixed pause count, never
// under-collect below this floor.
func (p *Policy) Calcminoldcsetlength(cn *Candidates) int {
	minold := cn.Numremaining() / int(p.mixedgctarget)
	if minold < 1 {
		minold = 1
	}
	return minold
}

// Calcmaxoldcsetlength maximum old regions per mixed pause.
func (p *Policy) Calcmaxoldcsetlength(cn *Candidates) int {
	maxold := cn.Numremaining() * int(p.oldpercent) / 100
	if minold := p.Calcminoldcsetlength(cn); maxold < minold {
		maxold = minold
	}
	return maxold
}

// Reclaimablepercent reclaimable bytes as a percentage of heap
// capacity.
func (p *Policy) Reclaimablepercent(reclaimable int64) float64 {
	return float64(reclaimable) * 100 / float64(p.capacity)
}

// Nextgcshouldbemixed whether another mixed pause is worth it, false
// once candidates are gone or the leftover garbage is under the waste
// threshold.
func (p *Policy) Nextgcshouldbemixed(cn *Candidates) bool {
	if cn == nil || cn.Numremaining() == 0 {
		return false
	}
	return p.Reclaimablepercent(cn.Remainingreclaimable()) > p.wastepercent
}

// Calculateoldcset select old regions for the next pause from the
// candidate pool under the remaining time budget. Returns the number
// of mandatory and optional regions selected, the caller maps counts
// back to region handles by walking the same pool front. An empty
// pool selects nothing and the pause is reported young-only.
func (p *Policy) Calculateoldcset(
	cn *Candidates, timeremainingms float64) (mandatory, optional int) {

	if cn == nil || cn.Numremaining() == 0 {
		debugf("%v cset: no candidates, pause stays young-only\n", p.logprefix)
		return 0, 0
	}

	minold, maxold := p.Calcminoldcsetlength(cn), p.Calcmaxoldcsetlength(cn)
	budgetms := timeremainingms * (1 - p.optionalfraction)
	predicted := float64(0)

	// mandatory pass, walk in order of decreasing reclaimable bytes.
	for mandatory < cn.Numremaining() && mandatory < maxold {
		costms := p.predictregionevacms(cn.At(mandatory))
		if mandatory >= minold && (predicted+costms) > budgetms {
			break
		}
		predicted += costms
		mandatory++
	}
	if predicted > budgetms {
		// the mandatory floor overrides the time budget, observable
		// but not an error.
		warnf("%v cset: mandatory %v regions predicted %.2fms over budget %.2fms\n",
			p.logprefix, mandatory, predicted, budgetms)
	}

	// optional pass, same order, a fraction of whatever time is left.
	maxoptional := maxold - mandatory
	if maxoptional > int(p.maxoptional) {
		maxoptional = int(p.maxoptional)
	}
	optionalms := (timeremainingms - predicted) * p.optionalevacfraction
	for optional < maxoptional && (mandatory+optional) < cn.Numremaining() {
		costms := p.predictregionevacms(cn.At(mandatory + optional))
		if costms > optionalms {
			break
		}
		optionalms -= costms
		optional++
	}

	debugf("%v cset: %v mandatory, %v optional of %v candidates (%v reclaimable)\n",
		p.logprefix, mandatory, optional, cn.Numremaining(),
		humanize.Bytes(uint64(cn.Remainingreclaimable())))
	return mandatory, optional
}
