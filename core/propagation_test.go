package core

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/collision-sentinel/model"
)

const (
	issTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func TestCircularPropagatorDeterministic(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := model.NewOrbitalElements("SAT", epoch, 700, 63.4, -42)
	at := epoch.Add(37*time.Minute + 11*time.Second)

	first, err := CircularPropagator{}.Position(e, at)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := CircularPropagator{}.Position(e, at)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	// Bit-identical, not merely close.
	if first != second {
		t.Fatalf("repeated propagation diverged: %+v vs %+v", first, second)
	}
}

func TestCircularPropagatorConstantRadius(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := model.NewOrbitalElements("SAT", epoch, 400, 51.6, 10)
	wantRadius := e.RadiusKm()

	for i := 0; i < 200; i++ {
		pos, err := CircularPropagator{}.Position(e, epoch.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("propagate at step %d: %v", i, err)
		}
		if got := pos.Norm(); math.Abs(got-wantRadius) > 1e-6 {
			t.Fatalf("step %d: radius = %.9f km, want %.9f km", i, got, wantRadius)
		}
	}
}

func TestCircularPropagatorRejectsNonFiniteAltitude(t *testing.T) {
	e := model.NewOrbitalElements("BAD", time.Now().UTC(), math.NaN(), 0, 0)

	_, err := CircularPropagator{}.Position(e, time.Now().UTC())
	if !errors.Is(err, ErrNonFiniteAltitude) {
		t.Fatalf("err = %v, want ErrNonFiniteAltitude", err)
	}
}

func TestCircularPropagatorPhaseAdvances(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := model.NewOrbitalElements("SAT", epoch, 400, 51.6, 0)

	p0, err := CircularPropagator{}.Position(e, epoch)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := CircularPropagator{}.Position(e, epoch.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if p0.DistanceTo(p1) < 1 {
		t.Fatalf("positions barely moved over a minute: %v vs %v", p0, p1)
	}
}

func TestSGP4PropagatorPropagatesTLE(t *testing.T) {
	e := model.NewOrbitalElements("ISS (ZARYA)", time.Date(2021, 10, 2, 14, 10, 0, 0, time.UTC), 420, 51.6, 0)
	e.TLELine1 = issTLE1
	e.TLELine2 = issTLE2

	p := NewSGP4Propagator()
	at := time.Date(2021, 10, 2, 15, 0, 0, 0, time.UTC)

	pos, err := p.Position(e, at)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if r := pos.Norm(); r < 6600 || r > 7000 {
		t.Errorf("ISS radius = %.1f km, want low-earth-orbit range", r)
	}

	again, err := p.Position(e, at)
	if err != nil {
		t.Fatalf("repeat propagate: %v", err)
	}
	if pos != again {
		t.Errorf("repeated propagation diverged: %+v vs %+v", pos, again)
	}

	later, err := p.Position(e, at.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("later propagate: %v", err)
	}
	if pos.DistanceTo(later) < 100 {
		t.Errorf("position moved only %.1f km over 10 minutes", pos.DistanceTo(later))
	}
}

func TestSGP4PropagatorRequiresTLE(t *testing.T) {
	e := model.NewOrbitalElements("NO-TLE", time.Now().UTC(), 400, 0, 0)

	if _, err := NewSGP4Propagator().Position(e, time.Now().UTC()); err == nil {
		t.Fatal("expected error for element set without TLE lines")
	}
}

func TestValidateTLELines(t *testing.T) {
	if err := ValidateTLELines(issTLE1, issTLE2); err != nil {
		t.Fatalf("valid TLE rejected: %v", err)
	}
	if err := ValidateTLELines("1 short", issTLE2); err == nil {
		t.Error("short line1 accepted")
	}
	if err := ValidateTLELines(issTLE2, issTLE2); err == nil {
		t.Error("line1 starting with '2' accepted")
	}
}
