package kernel

import (
	"testing"
	"time"
)

func TestSweepReclaimsReleasedBags(t *testing.T) {
	k := NewKernel()
	s := k.NewSweeper(time.Hour)

	keep := k.NewPlist(0)
	drop := make([]Value, 5)
	for i := range drop {
		drop[i] = k.NewPlist(0)
	}
	before := k.LiveBags()

	for _, v := range drop {
		k.ReleaseBag(v)
	}
	stats := s.SweepNow()
	if stats.Swept != 5 {
		t.Errorf("swept %d, want 5", stats.Swept)
	}
	if got := k.LiveBags(); got != before-5 {
		t.Errorf("live bags: %d, want %d", got, before-5)
	}
	if !keep.IsBag() || k.TnumOf(keep) != TnumPlainList {
		t.Error("survivor damaged by sweep")
	}
	if s.SweepCount() != 1 {
		t.Errorf("sweep count: %d", s.SweepCount())
	}
	if s.LastStats() == nil {
		t.Error("LastStats nil after sweep")
	}
}

func TestSweepReclaimsForwardingRecords(t *testing.T) {
	k := NewKernel()
	s := k.NewSweeper(time.Hour)

	l := k.NewPlist(2)
	if err := k.SetPlistElm(l, 1, k.NewString("a")); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 2, l); err != nil {
		t.Fatal(err)
	}
	s.SweepNow()
	base := k.LiveBags()

	if _, err := k.MutableCopy(l); err != nil {
		t.Fatal(err)
	}
	stats := s.SweepNow()
	if stats.Swept == 0 {
		t.Error("spent forwarding records not swept")
	}
	// What survives: the original graph plus its copy.
	if got := k.LiveBags(); got != 2*base {
		t.Errorf("live bags after copy and sweep: %d, want %d", got, 2*base)
	}
}

// Sweeps run from their own goroutine while other goroutines copy and
// exchange identities; the registry lock must cover every cell-pointer
// write so the scan never observes a torn master.
func TestSweepConcurrentWithMutation(t *testing.T) {
	k := NewKernel()
	s := k.NewSweeper(time.Hour)

	inner := k.NewPlist(1)
	l := k.NewPlist(2)
	if err := k.SetPlistElm(l, 1, inner); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 2, inner); err != nil {
		t.Fatal(err)
	}
	a := k.NewString("a")
	b := k.NewString("b")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.SweepNow()
		}
	}()

	for i := 0; i < 200; i++ {
		cp, err := k.MutableCopy(l)
		if err != nil {
			t.Errorf("MutableCopy: %v", err)
			break
		}
		k.ReleaseBag(k.PlistElm(cp, 1))
		k.ReleaseBag(cp)
		if err := k.SwitchObj(a, b); err != nil {
			t.Errorf("SwitchObj: %v", err)
			break
		}
	}
	<-done

	s.SweepNow()
	if k.TnumOf(l) != TnumPlainList || k.TnumOf(inner) != TnumPlainList {
		t.Error("original graph damaged by concurrent sweeps")
	}
	if k.StringOf(a) != "a" || k.StringOf(b) != "b" {
		t.Error("even number of switches did not restore originals")
	}
}

func TestSweeperStartStop(t *testing.T) {
	k := NewKernel()
	s := k.NewSweeper(time.Millisecond)

	s.Start()
	s.Start() // idempotent

	v := k.NewPlist(0)
	k.ReleaseBag(v)

	deadline := time.After(2 * time.Second)
	for s.SweepCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("sweep loop never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	s.Stop() // idempotent

	if !s.IsEnabled() {
		t.Error("sweeper disabled by stop")
	}
	s.SetEnabled(false)
	if s.IsEnabled() {
		t.Error("SetEnabled(false) ignored")
	}
}

func TestSweeperDefaults(t *testing.T) {
	k := NewKernel()
	s := k.NewSweeper(0)
	if s.Interval() != DefaultSweepInterval {
		t.Errorf("default interval: %v", s.Interval())
	}
	if s.LastStats() != nil {
		t.Error("stats before first sweep")
	}
}
