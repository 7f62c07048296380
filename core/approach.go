package core

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// approachTolerance is the floating-point tolerance for distance ties, in
// kilometres. A later sample only displaces the running minimum when it is
// smaller by more than this, so the earliest timestamp wins ties.
const approachTolerance = 1e-9

// SeparationFunc evaluates the separation distance between two objects at
// an arbitrary instant, in kilometres. Used by refinement strategies to
// probe between grid samples.
type SeparationFunc func(t time.Time) (float64, error)

// Refiner sharpens a grid-search minimum inside the bracket [lo, hi].
type Refiner interface {
	Refine(sep SeparationFunc, lo, hi time.Time) (time.Time, float64, error)
}

type approachOptions struct {
	refiner Refiner
	sep     SeparationFunc
}

// ApproachOption tunes a single closest-approach search.
type ApproachOption func(*approachOptions)

// WithRefinement attaches a refinement strategy. After the grid scan the
// refiner probes the continuous separation function inside the bracket
// around the grid minimum; its result is used only when it improves on the
// grid distance.
func WithRefinement(r Refiner, sep SeparationFunc) ApproachOption {
	return func(o *approachOptions) {
		o.refiner = r
		o.sep = sep
	}
}

// ClosestApproach scans two time-aligned trajectories and returns the
// minimum pairwise distance and the time at which it occurs. Linear in the
// sample count, constant extra space.
func ClosestApproach(a, b Trajectory, opts ...ApproachOption) (model.ClosestApproachResult, error) {
	var o approachOptions
	for _, opt := range opts {
		opt(&o)
	}

	if len(a.Samples) != len(b.Samples) {
		return model.ClosestApproachResult{}, fmt.Errorf(
			"%q has %d samples, %q has %d: %w",
			a.Name, len(a.Samples), b.Name, len(b.Samples), ErrMisalignedTrajectories)
	}
	if len(a.Samples) == 0 {
		return model.ClosestApproachResult{}, fmt.Errorf(
			"%q vs %q: %w", a.Name, b.Name, ErrEmptyTrajectory)
	}

	best := math.Inf(1)
	bestIdx := -1
	for i := range a.Samples {
		if !a.Samples[i].Time.Equal(b.Samples[i].Time) {
			return model.ClosestApproachResult{}, fmt.Errorf(
				"sample %d: %q at %s, %q at %s: %w",
				i, a.Name, a.Samples[i].Time.Format(time.RFC3339Nano),
				b.Name, b.Samples[i].Time.Format(time.RFC3339Nano),
				ErrMisalignedTrajectories)
		}
		d := a.Samples[i].Position.DistanceTo(b.Samples[i].Position)
		if d < best-approachTolerance {
			best = d
			bestIdx = i
		}
	}

	result := model.ClosestApproachResult{
		NameA:          a.Name,
		NameB:          b.Name,
		MinDistanceKm:  best,
		TimeOfApproach: a.Samples[bestIdx].Time,
	}

	if o.refiner != nil && o.sep != nil && len(a.Samples) > 1 {
		lo := bestIdx - 1
		if lo < 0 {
			lo = 0
		}
		hi := bestIdx + 1
		if hi > len(a.Samples)-1 {
			hi = len(a.Samples) - 1
		}
		if t, d, err := o.refiner.Refine(o.sep, a.Samples[lo].Time, a.Samples[hi].Time); err == nil && d < result.MinDistanceKm {
			result.MinDistanceKm = d
			result.TimeOfApproach = t
		}
	}

	return result, nil
}

// GoldenSectionRefiner locates a sub-step minimum of the separation
// function by golden-section search over the bracket.
type GoldenSectionRefiner struct {
	// Tolerance is the bracket width at which the search stops.
	// Defaults to 100ms.
	Tolerance time.Duration

	// MaxIter bounds the number of shrink steps. Defaults to 64.
	MaxIter int
}

const invPhi = 0.6180339887498949

// Refine implements Refiner.
func (g GoldenSectionRefiner) Refine(sep SeparationFunc, lo, hi time.Time) (time.Time, float64, error) {
	tol := g.Tolerance
	if tol <= 0 {
		tol = 100 * time.Millisecond
	}
	maxIter := g.MaxIter
	if maxIter <= 0 {
		maxIter = 64
	}

	at := func(s float64) time.Time {
		return lo.Add(time.Duration(s * float64(time.Second)))
	}

	a, b := 0.0, hi.Sub(lo).Seconds()
	if b <= 0 {
		d, err := sep(lo)
		return lo, d, err
	}

	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, err := sep(at(c))
	if err != nil {
		return time.Time{}, 0, err
	}
	fd, err := sep(at(d))
	if err != nil {
		return time.Time{}, 0, err
	}

	for i := 0; i < maxIter && b-a > tol.Seconds(); i++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			if fc, err = sep(at(c)); err != nil {
				return time.Time{}, 0, err
			}
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			if fd, err = sep(at(d)); err != nil {
				return time.Time{}, 0, err
			}
		}
	}

	mid := (a + b) / 2
	f, err := sep(at(mid))
	if err != nil {
		return time.Time{}, 0, err
	}
	return at(mid), f, nil
}
