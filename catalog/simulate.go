package catalog

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// Simulated builds a synthetic element set for demo/offline use, tagged
// model.SourceSimulated so it can never be mistaken for catalog data.
// Parameters derive from a hash of the name, so repeated requests for the
// same unknown object stay stable.
func Simulated(name string, epoch time.Time) model.OrbitalElements {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	altitudeKm := 300 + rng.Float64()*1300     // LEO band
	inclinationDeg := -90 + rng.Float64()*180  // -90..90
	phaseDeg := -180 + rng.Float64()*360       // -180..180

	e := model.NewOrbitalElements(name, epoch, altitudeKm, inclinationDeg, phaseDeg)
	e.Source = model.SourceSimulated
	return e
}
