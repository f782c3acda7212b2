package policy

import "testing"

func TestPhasecycle(t *testing.T) {
	pc := newphasecontroller(8)
	if x := pc.current(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	if pc.armmarking() == false {
		t.Errorf("expected arming to succeed")
	}
	if pc.current() != MarkingArmed {
		t.Errorf("expected %v, got %v", MarkingArmed, pc.current())
	}
	// a second request inside the cycle is a no-op.
	if pc.armmarking() {
		t.Errorf("expected arming to fail while armed")
	}
	if pc.startmarking() == false {
		t.Errorf("expected start to consume the armed flag")
	}
	if pc.startmarking() {
		t.Errorf("expected the armed flag to be consumed once")
	}
	if x := pc.markcomplete(3); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	if x := pc.notemixedpause(true); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	if x := pc.notemixedpause(false); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
}

func TestPhasenothingtomix(t *testing.T) {
	pc := newphasecontroller(8)
	pc.armmarking()
	pc.startmarking()
	if x := pc.markcomplete(0); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
}

func TestPhasemixedcap(t *testing.T) {
	pc := newphasecontroller(2)
	pc.armmarking()
	pc.startmarking()
	pc.markcomplete(100)
	if x := pc.notemixedpause(true); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	// the cap ends the phase even with candidates left.
	if x := pc.notemixedpause(true); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
}

func TestPhaseabort(t *testing.T) {
	pc := newphasecontroller(8)
	pc.armmarking()
	pc.startmarking()
	pc.abort()
	if x := pc.current(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	pc.abort() // idempotent
	if x := pc.current(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
	// aborting tolerates a racing completion.
	pc.armmarking()
	pc.startmarking()
	if x := pc.markcomplete(10); x != Mixed {
		t.Errorf("expected %v, got %v", Mixed, x)
	}
	pc.abort()
	if x := pc.current(); x != YoungOnly {
		t.Errorf("expected %v, got %v", YoungOnly, x)
	}
}

func TestPhasestrings(t *testing.T) {
	states := []Collectorstate{YoungOnly, MarkingArmed, Marking, Mixed}
	for _, state := range states {
		if state.String() == "invalid" {
			t.Errorf("unexpected invalid string for %d", state)
		}
	}
	kinds := []Pausekind{
		PauseYoungOnly, PauseLastYoung, PauseInitialMark, PauseMixed,
		PauseFull, PauseRemark, PauseCleanup,
	}
	for _, kind := range kinds {
		if kind.String() == "invalid" {
			t.Errorf("unexpected invalid string for %d", kind)
		}
	}
}
