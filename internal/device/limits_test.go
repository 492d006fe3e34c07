// internal/device/limits_test.go
package device

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimits_UnsetNeverTrips(t *testing.T) {
	l := NewLimits()
	l.AcquisitionStart()
	l.UpdateSamplesRead(1_000_000)
	if l.Check() {
		t.Fatalf("unset limits must never trip")
	}
}

func TestLimits_Samples(t *testing.T) {
	l := NewLimits()
	l.SetMaxSamples(3)
	l.AcquisitionStart()

	for i := 0; i < 2; i++ {
		l.UpdateSamplesRead(1)
		if l.Check() {
			t.Fatalf("tripped early at %d samples", l.SamplesRead())
		}
	}
	l.UpdateSamplesRead(1)
	if !l.Check() {
		t.Fatalf("expected trip at 3 samples")
	}

	l.AcquisitionStart()
	if l.SamplesRead() != 0 || l.Check() {
		t.Fatalf("AcquisitionStart must reset counters")
	}
}

func TestLimits_Msec(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewLimits()
	l.SetClock(clk.now)
	l.SetMaxMsec(500)
	l.AcquisitionStart()

	clk.advance(499 * time.Millisecond)
	if l.Check() {
		t.Fatalf("tripped before 500ms")
	}
	clk.advance(time.Millisecond)
	if !l.Check() {
		t.Fatalf("expected trip at 500ms")
	}
}

func TestLimits_MsecNotArmedBeforeStart(t *testing.T) {
	l := NewLimits()
	l.SetMaxMsec(1)
	if l.Check() {
		t.Fatalf("time limit must not trip before acquisition start")
	}
}
