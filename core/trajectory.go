package core

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// TrajectorySample is one propagated (timestamp, position) pair.
type TrajectorySample struct {
	Time     time.Time
	Position Vec3
}

// Trajectory is a time-ordered sample sequence for one named object.
// Insertion order equals time order; timestamps never repeat.
type Trajectory struct {
	Name    string
	Samples []TrajectorySample
}

// Window is an inclusive sampling range with a fixed step. Two trajectories
// that will be compared must be sampled over the identical window so their
// samples are time-aligned index-for-index.
type Window struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Validate rejects malformed windows.
func (w Window) Validate() error {
	if w.Step <= 0 {
		return fmt.Errorf("step %v: %w", w.Step, ErrInvalidWindow)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("end %s before start %s: %w",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339), ErrInvalidWindow)
	}
	return nil
}

// SampleCount is the number of samples the window produces, including the
// start instant.
func (w Window) SampleCount() int {
	return int(w.End.Sub(w.Start)/w.Step) + 1
}

// IsZero reports whether the window was left unset.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero() && w.Step == 0
}

// Sample drives the propagator across the window and materializes the
// trajectory. It is a pure function of its inputs: calling it twice yields
// identical samples.
func Sample(p Propagator, e model.OrbitalElements, w Window) (Trajectory, error) {
	if err := w.Validate(); err != nil {
		return Trajectory{}, err
	}

	n := w.SampleCount()
	samples := make([]TrajectorySample, 0, n)
	for i := 0; i < n; i++ {
		t := w.Start.Add(time.Duration(i) * w.Step)
		pos, err := p.Position(e, t)
		if err != nil {
			return Trajectory{}, fmt.Errorf("sample %q at %s: %w", e.Name, t.Format(time.RFC3339), err)
		}
		samples = append(samples, TrajectorySample{Time: t, Position: pos})
	}

	return Trajectory{Name: e.Name, Samples: samples}, nil
}
