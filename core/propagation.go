package core

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// Propagator converts an orbital element set plus a timestamp into a
// position. Implementations must be deterministic: the same (elements, t)
// always yields the same position, with no hidden mutable state.
type Propagator interface {
	Position(e model.OrbitalElements, t time.Time) (Vec3, error)
}

// CircularPropagator evaluates the circularized orbit model: an orbit of
// constant radius inclined by the element set's inclination, parameterized
// by phase angle theta(t) = theta0 + rate*(t - epoch).
//
// This is a deliberate simplification with no eccentricity, nodal
// precession, or true anomaly. It is adequate for demo fidelity; entries
// carrying TLE lines should use SGP4Propagator behind the same contract.
type CircularPropagator struct{}

// Position returns the inertial position at time t. Fails for element sets
// with a non-finite altitude.
func (CircularPropagator) Position(e model.OrbitalElements, t time.Time) (Vec3, error) {
	if !finite(e.AltitudeKm) {
		return Vec3{}, fmt.Errorf("propagate %q: %w", e.Name, ErrNonFiniteAltitude)
	}

	r := e.RadiusKm()
	theta := e.PhaseDeg*degToRad + e.RateRadPerSec*t.Sub(e.Epoch).Seconds()
	inc := e.InclinationDeg * degToRad

	sinT, cosT := math.Sincos(theta)
	sinI, cosI := math.Sincos(inc)

	return Vec3{
		X: r * cosT,
		Y: r * sinT * sinI,
		Z: r * sinT * cosI,
	}, nil
}

const degToRad = math.Pi / 180.0

// SGP4Propagator serves the Propagator contract with full SGP4 propagation
// for element sets that retain their TLE lines. Initialized satellite
// records are cached per TLE; the cache only memoizes a pure function of
// the element set, so positions stay deterministic.
type SGP4Propagator struct {
	mu   sync.Mutex
	sats map[string]satellite.Satellite // keyed by TLE line 1
}

// NewSGP4Propagator returns an empty, ready-to-use propagator.
func NewSGP4Propagator() *SGP4Propagator {
	return &SGP4Propagator{sats: make(map[string]satellite.Satellite)}
}

// Position propagates the element set's TLE to time t. The result is in the
// TEME frame in kilometres; separations against other SGP4 positions are
// frame-consistent.
func (p *SGP4Propagator) Position(e model.OrbitalElements, t time.Time) (Vec3, error) {
	if !e.HasTLE() {
		return Vec3{}, fmt.Errorf("propagate %q: element set carries no TLE", e.Name)
	}

	sat, err := p.satFor(e)
	if err != nil {
		return Vec3{}, err
	}

	t = t.UTC()
	pos, _ := satellite.Propagate(sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	out := Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	if !out.IsFinite() {
		return Vec3{}, fmt.Errorf("propagate %q at %s: sgp4 output is NaN/Inf", e.Name, t.Format(time.RFC3339))
	}
	// Sanity bound: LEO through GEO-ish radii.
	if mag := out.Norm(); mag < 6200 || mag > 50000 {
		return Vec3{}, fmt.Errorf("propagate %q at %s: unreasonable radius %.1f km", e.Name, t.Format(time.RFC3339), mag)
	}
	return out, nil
}

func (p *SGP4Propagator) satFor(e model.OrbitalElements) (satellite.Satellite, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sat, ok := p.sats[e.TLELine1]; ok {
		return sat, nil
	}

	// go-satellite log.Fatals on malformed input, so validate first.
	if err := ValidateTLELines(e.TLELine1, e.TLELine2); err != nil {
		return satellite.Satellite{}, fmt.Errorf("propagate %q: %w", e.Name, err)
	}

	sat := satellite.TLEToSat(e.TLELine1, e.TLELine2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return satellite.Satellite{}, fmt.Errorf("propagate %q: sgp4 init failed: code=%d %s", e.Name, sat.Error, sat.ErrorStr)
	}
	p.sats[e.TLELine1] = sat
	return sat, nil
}

// ValidateTLELines performs basic format validation on a TLE line pair.
func ValidateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("tle line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("tle line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("tle line1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("tle line2 must start with '2', got %q", line2[0])
	}
	return nil
}
