package policy

import "testing"
import "time"

import "github.com/bnclabs/regiongc/api"

type testclock struct {
	now time.Time
}

func (tc *testclock) Now() time.Time {
	return tc.now
}

func (tc *testclock) advance(d time.Duration) {
	tc.now = tc.now.Add(d)
}

func newtestpolicy(t *testing.T) (*Policy, *testclock) {
	clock := &testclock{now: time.Unix(1000, 0)}
	setts := testsettings() // 64M heap, 4M regions
	p := NewPolicy(setts, clock)
	if p.nregions != 16 {
		t.Fatalf("expected %v, got %v", 16, p.nregions)
	}
	return p, clock
}

func TestPolicyboottarget(t *testing.T) {
	// allocation starts before the first pause, the target must be
	// live from construction.
	p, _ := newtestpolicy(t)
	if x := p.Youngtargetlength(); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	}
	if p.Shouldallocatemutator(0) == false {
		t.Errorf("expected allocation before the first pause")
	}
	if p.Canexpandyounglist(0) == false {
		t.Errorf("expected expansion before the first pause")
	}
}

func TestPolicylifecycle(t *testing.T) {
	p, clock := newtestpolicy(t)
	if x := p.State(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	if x := p.Youngpausekind(); x != PauseYoungOnly {
		t.Errorf("expected %v, got %v", PauseYoungOnly, x)
	}

	// below the static threshold, 45 percent of 64M.
	if p.Needtostartmark(16 * 1024 * 1024) {
		t.Errorf("expected no marking below the threshold")
	}
	if p.Needtostartmark(32*1024*1024) == false {
		t.Errorf("expected marking above the threshold")
	}
	if x := p.Youngpausekind(); x != PauseInitialMark {
		t.Errorf("expected %v, got %v", PauseInitialMark, x)
	}
	// once armed, occupancy checks are moot until the cycle ends.
	if p.Needtostartmark(64 * 1024 * 1024) {
		t.Errorf("expected no re-arming inside a cycle")
	}

	p.Notegcstart(PauseInitialMark)
	if x := p.State(); x != Marking {
		t.Errorf("expected %v, got %v", Marking, x)
	}
	clock.advance(10 * time.Millisecond)
	p.Notegcend(PauseInitialMark, 16)
	if x := p.Youngtargetlength(); x == 0 {
		t.Errorf("expected a non-zero young target")
	}

	p.Recordmarkstart()
	clock.advance(100 * time.Millisecond)
	p.Recordcleanupstart()
	clock.advance(2 * time.Millisecond)
	candidates := NewCandidates([]*api.Region{
		{Index: 1, Gen: api.GenOld, Occupied: 4 * 1024 * 1024},
		{Index: 2, Gen: api.GenOld, Occupied: 4 * 1024 * 1024},
	})
	p.Recordcleanupend(candidates)
	if x := p.State(); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	if x := p.Youngpausekind(); x != PauseMixed {
		t.Errorf("expected %v, got %v", PauseMixed, x)
	}
	if x := p.pred.Samples(MetricConcMarkMs); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}

	// the caller evacuates everything during the mixed pause.
	p.Notegcstart(PauseMixed)
	candidates.Removefront(2)
	clock.advance(20 * time.Millisecond)
	p.Notegcend(PauseMixed, 14)
	if x := p.State(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	if p.candidates != nil {
		t.Errorf("expected candidates to be dropped with the phase")
	}

	stats := p.Stats()
	if x := stats["state"].(string); x != "young-only" {
		t.Errorf("expected %q, got %q", "young-only", x)
	}
	if x := stats["n_cycles"].(int64); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
}

func TestPolicyallocrate(t *testing.T) {
	p, clock := newtestpolicy(t)
	p.Notegcstart(PauseYoungOnly)
	clock.advance(10 * time.Millisecond)
	p.Notegcend(PauseYoungOnly, 16)
	// first pause has no preceding mutator epoch to measure.
	if x := p.pred.Samples(MetricAllocRate); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}

	p.Addoldallocated(1000)
	p.Addoldallocated(500)
	clock.advance(100 * time.Millisecond)
	p.Notegcstart(PauseYoungOnly)
	clock.advance(10 * time.Millisecond)
	p.Notegcend(PauseYoungOnly, 16)
	if x := p.pred.Samples(MetricAllocRate); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
	// 1500 bytes over 100ms of mutator time.
	if x := p.pred.Predict(MetricAllocRate); x != 0 {
		t.Errorf("expected sparse prediction %v, got %v", 0, x)
	}
	if x := p.pred.getseq(MetricAllocRate).av.Mean(); x != 15.0 {
		t.Errorf("expected %v, got %v", 15.0, x)
	}
}

func TestPolicyabort(t *testing.T) {
	p, clock := newtestpolicy(t)
	if p.Forcemark("explicit request") == false {
		t.Errorf("expected force to arm")
	}
	if p.Forcemark("again") {
		t.Errorf("expected force inside a cycle to fail")
	}
	p.Notegcstart(PauseInitialMark)
	clock.advance(time.Millisecond)
	p.Notegcend(PauseInitialMark, 16)
	p.Recordmarkstart()

	p.Abortmark()
	if x := p.State(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	p.Abortmark() // idempotent
	if x := p.State(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	// a full collection aborts an in-flight cycle too.
	p.Forcemark("explicit request")
	p.Notegcstart(PauseInitialMark)
	clock.advance(time.Millisecond)
	p.Notegcend(PauseInitialMark, 16)
	p.Notegcstart(PauseFull)
	clock.advance(50 * time.Millisecond)
	p.Notegcend(PauseFull, 16)
	if x := p.State(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
}

func TestPolicyinitialmarkpanic(t *testing.T) {
	p, _ := newtestpolicy(t)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for an unarmed initial-mark pause")
		}
	}()
	p.Notegcstart(PauseInitialMark)
}

func TestPolicyallocationpath(t *testing.T) {
	p, clock := newtestpolicy(t)
	p.Notegcstart(PauseYoungOnly)
	clock.advance(time.Millisecond)
	p.Notegcend(PauseYoungOnly, 16)
	target := p.Youngtargetlength()
	if target == 0 {
		t.Fatalf("expected a non-zero young target")
	}
	if p.Shouldallocatemutator(target-1) == false {
		t.Errorf("expected allocation below the target")
	}
	if p.Shouldallocatemutator(target) {
		t.Errorf("expected no allocation at the target")
	}
	if p.Canexpandyounglist(1024) {
		t.Errorf("expected no expansion at the bound")
	}
	p.Setgclocker(true)
	if p.Canexpandyounglist(1024) == false {
		t.Errorf("expected the locker allowance to apply")
	}
	p.Setgclocker(false)
	if p.Canexpandyounglist(1024) {
		t.Errorf("expected the allowance to be withdrawn")
	}
}

func TestPolicyreviserslength(t *testing.T) {
	p, clock := newtestpolicy(t)
	feedconstant(p.pred, MetricConstantOtherMs, 10.0, 3)
	feedconstant(p.pred, MetricRegionElapsedMs, 5.0, 3)
	feedconstant(p.pred, MetricCostPerCardMs, 1.0, 3)
	p.Notegcstart(PauseYoungOnly)
	clock.advance(time.Millisecond)
	p.Notegcend(PauseYoungOnly, 16)

	target := p.Youngtargetlength()
	// a remembered set blowup shrinks the target before the pause.
	p.Reviserslength(150, 16)
	if x := p.Youngtargetlength(); x >= target {
		t.Errorf("expected target below %v, got %v", target, x)
	}
	if x := p.pred.Samples(MetricRSLength); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
}

type testheap struct {
	regions []*api.Region
	free    uint64
	syncs   int
}

func (th *testheap) Oldcandidates() []*api.Region {
	return th.regions
}

func (th *testheap) Freeregions() uint64 {
	return th.free
}

func (th *testheap) Synchronize() {
	th.syncs++
}

func TestPolicyregionsource(t *testing.T) {
	p, clock := newtestpolicy(t)
	pinned := &api.Region{Index: 2, Gen: api.GenOld, Occupied: 2 * 1024 * 1024}
	pinned.Pinned = true
	heap := &testheap{
		regions: []*api.Region{
			{Index: 1, Gen: api.GenOld, Occupied: 4 * 1024 * 1024},
			pinned,
		},
		free: 10,
	}
	p.Setbarrier(heap)

	p.Forcemark("explicit request")
	p.Notegcstart(PauseInitialMark)
	clock.advance(time.Millisecond)
	p.Notegcend(PauseInitialMark, 16)
	p.Recordmarkstart()
	clock.advance(100 * time.Millisecond)
	p.Recordcleanupstart()
	clock.advance(time.Millisecond)
	p.Recordcleanupendwith(heap)

	if x := p.State(); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	if x := p.candidates.Numremaining(); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
	// phase change published through the barrier.
	if heap.syncs != 1 {
		t.Errorf("expected %v, got %v", 1, heap.syncs)
	}
	// young target refreshed against the heap's free region count.
	if x := p.Youngtargetlength(); x != 10 {
		t.Errorf("expected %v, got %v", 10, x)
	}

	p.Abortmark()
	if heap.syncs != 2 {
		t.Errorf("expected %v, got %v", 2, heap.syncs)
	}
	// an idle abort has nothing to publish.
	p.Abortmark()
	if heap.syncs != 2 {
		t.Errorf("expected %v, got %v", 2, heap.syncs)
	}
}

func TestPolicyheapresize(t *testing.T) {
	p, _ := newtestpolicy(t)
	p.Recordheapsize(32)
	if x := p.capacity; x != 32*4*1024*1024 {
		t.Errorf("expected %v, got %v", 32*4*1024*1024, x)
	}
	if x := p.Stats()["nregions"].(uint64); x != 32 {
		t.Errorf("expected %v, got %v", 32, x)
	}
}
