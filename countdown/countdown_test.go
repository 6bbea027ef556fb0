package countdown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func intPtr(v int) *int { return &v }

func TestCountdown_ExpiresOnceAfterWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cd := New(clock)
	gen := cd.Snapshot(intPtr(10))
	if cd.State() != Counting || cd.Left() != 10 {
		t.Fatalf("expected counting with 10s left, got %v/%d", cd.State(), cd.Left())
	}

	expired := 0
	for i := 0; i < 11; i++ {
		clock.Advance(time.Second)
		if cd.Tick(gen).Expired {
			expired++
		}
	}
	if cd.Left() != 0 {
		t.Fatalf("expected 0 left, got %d", cd.Left())
	}
	if expired != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expired)
	}
	if cd.State() != Expired || cd.Label() != "voting ended" {
		t.Fatalf("unexpected terminal state: %v %q", cd.State(), cd.Label())
	}
}

func TestCountdown_TickUsesWallClockNotTickCount(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cd := New(clock)
	gen := cd.Snapshot(intPtr(100))

	clock.Advance(42*time.Second + 500*time.Millisecond)
	step := cd.Tick(gen)
	if !step.Live || step.Left != 57 {
		t.Fatalf("expected floor(57.5)=57 left, got %+v", step)
	}
	if cd.Label() != "0d 0h 0m 57s" {
		t.Fatalf("unexpected label: %q", cd.Label())
	}
}

func TestCountdown_NilOrNonPositiveCloses(t *testing.T) {
	for _, in := range []*int{nil, intPtr(0), intPtr(-3)} {
		cd := New(clockwork.NewFakeClock())
		gen := cd.Snapshot(in)
		if cd.State() != Closed {
			t.Fatalf("expected closed, got %v", cd.State())
		}
		if cd.Label() != "voting closed" {
			t.Fatalf("unexpected label: %q", cd.Label())
		}
		if step := cd.Tick(gen); step != (Step{}) {
			t.Fatalf("closed countdown must not tick: %+v", step)
		}
	}
}

func TestCountdown_ReplacementInvalidatesOldGeneration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cd := New(clock)
	old := cd.Snapshot(intPtr(5))
	fresh := cd.Snapshot(intPtr(30))
	if old == fresh {
		t.Fatalf("snapshot must bump generation")
	}

	clock.Advance(10 * time.Second)
	if step := cd.Tick(old); step != (Step{}) {
		t.Fatalf("stale tick must be ignored: %+v", step)
	}
	step := cd.Tick(fresh)
	if !step.Live || step.Left != 20 {
		t.Fatalf("expected fresh countdown at 20s, got %+v", step)
	}
}

func TestCountdown_StopMakesTicksStale(t *testing.T) {
	cd := New(clockwork.NewFakeClock())
	gen := cd.Snapshot(intPtr(5))
	cd.Stop()
	if cd.State() != Idle || cd.Label() != "" {
		t.Fatalf("expected idle after stop, got %v", cd.State())
	}
	if step := cd.Tick(gen); step.Live || step.Expired {
		t.Fatalf("tick after stop must be ignored: %+v", step)
	}
}

func TestState_String(t *testing.T) {
	if Idle.String() != "idle" || Counting.String() != "counting" || Expired.String() != "expired" || Closed.String() != "closed" {
		t.Fatalf("unexpected state names")
	}
}

func TestCountdown_GenerationsUniqueAcrossInstances(t *testing.T) {
	clock := clockwork.NewFakeClock()
	first := New(clock)
	firstGen := first.Snapshot(intPtr(30))

	second := New(clock)
	if step := second.Tick(firstGen); step != (Step{}) {
		t.Fatalf("tick from another countdown must be ignored: %+v", step)
	}
	if second.Snapshot(intPtr(30)) == firstGen {
		t.Fatal("generations must not repeat across countdowns")
	}
}
