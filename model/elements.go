package model

import (
	"math"
	"time"
)

// Physical constants shared by the propagation and geometry layers.
const (
	// EarthRadiusKm is the mean Earth radius (kilometres).
	EarthRadiusKm = 6371.0

	// EarthMuKm3S2 is the geocentric gravitational parameter (km^3/s^2).
	EarthMuKm3S2 = 398600.4418

	// MinAltitudeKm is the lower clamp applied to altitudes so the orbital
	// radius never degenerates to (or inside) the Earth sphere.
	MinAltitudeKm = 150.0
)

// Provenance indicates where an element set came from. Simulated elements
// are an explicit demo/offline fallback and must never be presented as
// authoritative catalog data.
type Provenance int

const (
	SourceCatalog   Provenance = iota
	SourceSimulated            // randomized fallback for unknown objects
)

func (p Provenance) String() string {
	switch p {
	case SourceSimulated:
		return "simulated"
	default:
		return "catalog"
	}
}

// OrbitalElements describes one object's orbit at a reference epoch using a
// circularized approximation: constant altitude, fixed inclination, and a
// phase angle advancing at the two-body mean motion. Values are normalized
// at construction and immutable afterwards.
type OrbitalElements struct {
	Name           string
	Epoch          time.Time
	AltitudeKm     float64 // clamped to MinAltitudeKm at construction
	InclinationDeg float64 // -90..90
	PhaseDeg       float64 // ascending-node/longitude parameter, -180..180
	RateRadPerSec  float64 // sqrt(mu/r^3), derived

	Source Provenance

	// TLELine1/TLELine2 are retained when the elements were derived from a
	// TLE so the SGP4 propagator can serve the same contract.
	TLELine1 string
	TLELine2 string
}

// NewOrbitalElements applies the altitude clamp and derives the angular
// rate. Non-finite altitudes are kept as-is so the propagator can reject
// them explicitly instead of masking bad catalog data.
func NewOrbitalElements(name string, epoch time.Time, altitudeKm, inclinationDeg, phaseDeg float64) OrbitalElements {
	alt := altitudeKm
	if isFinite(alt) && alt < MinAltitudeKm {
		alt = MinAltitudeKm
	}

	rate := 0.0
	if r := EarthRadiusKm + alt; isFinite(r) && r > 0 {
		rate = math.Sqrt(EarthMuKm3S2 / (r * r * r))
	}

	return OrbitalElements{
		Name:           name,
		Epoch:          epoch,
		AltitudeKm:     alt,
		InclinationDeg: inclinationDeg,
		PhaseDeg:       phaseDeg,
		RateRadPerSec:  rate,
	}
}

// RadiusKm is the orbital radius of the circularized orbit.
func (e OrbitalElements) RadiusKm() float64 {
	return EarthRadiusKm + e.AltitudeKm
}

// HasTLE reports whether the elements carry the TLE lines they were
// derived from.
func (e OrbitalElements) HasTLE() bool {
	return e.TLELine1 != "" && e.TLELine2 != ""
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
