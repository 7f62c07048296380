package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/collision-sentinel/model"
)

func testWindow(start time.Time, length, step time.Duration) Window {
	return Window{Start: start, End: start.Add(length), Step: step}
}

func TestWindowValidate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := testWindow(start, time.Hour, time.Minute).Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}

	err := (Window{Start: start, End: start.Add(-time.Hour), Step: time.Minute}).Validate()
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("end-before-start: err = %v, want ErrInvalidWindow", err)
	}

	err = (Window{Start: start, End: start.Add(time.Hour), Step: 0}).Validate()
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("zero step: err = %v, want ErrInvalidWindow", err)
	}

	err = (Window{Start: start, End: start.Add(time.Hour), Step: -time.Second}).Validate()
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("negative step: err = %v, want ErrInvalidWindow", err)
	}
}

func TestWindowSampleCount(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		length, step time.Duration
		want         int
	}{
		{time.Hour, 5 * time.Minute, 13},
		{0, time.Minute, 1}, // single-instant window
		{24 * time.Hour, 5 * time.Minute, 289},
	}
	for _, tc := range cases {
		if got := testWindow(start, tc.length, tc.step).SampleCount(); got != tc.want {
			t.Errorf("SampleCount(%v/%v) = %d, want %d", tc.length, tc.step, got, tc.want)
		}
	}
}

func TestSampleRejectsInvalidWindow(t *testing.T) {
	e := model.NewOrbitalElements("SAT", time.Now().UTC(), 400, 45, 0)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := Sample(CircularPropagator{}, e, Window{Start: start, End: start.Add(-time.Minute), Step: time.Second})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestSampleIsRestartable(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := model.NewOrbitalElements("SAT", start, 550, 53, 12)
	w := testWindow(start, time.Hour, time.Minute)

	first, err := Sample(CircularPropagator{}, e, w)
	if err != nil {
		t.Fatalf("first sample: %v", err)
	}
	second, err := Sample(CircularPropagator{}, e, w)
	if err != nil {
		t.Fatalf("second sample: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resampling diverged (-first +second):\n%s", diff)
	}
	if got := len(first.Samples); got != w.SampleCount() {
		t.Errorf("sample count = %d, want %d", got, w.SampleCount())
	}
}

func TestSampleTimestampsAreAligned(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := testWindow(start, 30*time.Minute, 5*time.Minute)

	a, err := Sample(CircularPropagator{}, model.NewOrbitalElements("A", start, 400, 0, 0), w)
	if err != nil {
		t.Fatalf("sample A: %v", err)
	}
	b, err := Sample(CircularPropagator{}, model.NewOrbitalElements("B", start, 1600, 90, 0), w)
	if err != nil {
		t.Fatalf("sample B: %v", err)
	}

	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if !a.Samples[i].Time.Equal(b.Samples[i].Time) {
			t.Fatalf("sample %d misaligned: %v vs %v", i, a.Samples[i].Time, b.Samples[i].Time)
		}
	}
}
