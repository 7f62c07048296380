package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/signalsfoundry/collision-sentinel/model"
)

func sampleElements(start time.Time) []model.OrbitalElements {
	return []model.OrbitalElements{
		model.NewOrbitalElements("ALPHA", start, 400, 51.6, 0),
		model.NewOrbitalElements("BETA", start, 1600, -30, 90),
	}
}

func TestCatalogLookup(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := New()
	c.Replace(start, sampleElements(start))

	e, err := c.Lookup("ALPHA")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Name != "ALPHA" || e.AltitudeKm != 400 {
		t.Errorf("unexpected element: %+v", e)
	}

	_, err = c.Lookup("GHOST")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCatalogEmptyLookup(t *testing.T) {
	c := New()
	if _, err := c.Lookup("ANY"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup before first snapshot: err = %v, want ErrNotFound", err)
	}
	if got := c.Names(); len(got) != 0 {
		t.Errorf("Names() on empty catalog = %v", got)
	}
}

func TestCatalogSnapshotIsolation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := New()
	c.Replace(start, sampleElements(start))

	held := c.Current()

	// A refresh that drops ALPHA must not disturb the held snapshot.
	c.Replace(start.Add(time.Hour), []model.OrbitalElements{
		model.NewOrbitalElements("GAMMA", start, 700, 10, 10),
	})

	if _, err := held.Lookup("ALPHA"); err != nil {
		t.Errorf("held snapshot lost ALPHA after refresh: %v", err)
	}
	if _, err := c.Lookup("ALPHA"); !errors.Is(err, ErrNotFound) {
		t.Errorf("current snapshot still serves ALPHA: err = %v", err)
	}
	if held.Version == c.Current().Version {
		t.Error("snapshot versions must differ across Replace")
	}
}

func TestCatalogNamesSorted(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := New()
	c.Replace(start, []model.OrbitalElements{
		model.NewOrbitalElements("ZULU", start, 400, 0, 0),
		model.NewOrbitalElements("ALPHA", start, 400, 0, 0),
		model.NewOrbitalElements("MIKE", start, 400, 0, 0),
	})

	names := c.Names()
	want := []string{"ALPHA", "MIKE", "ZULU"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestSnapshotLaterDuplicateWins(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot(start, []model.OrbitalElements{
		model.NewOrbitalElements("DUP", start, 400, 0, 0),
		model.NewOrbitalElements("DUP", start, 800, 0, 0),
	})

	if snap.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", snap.Len())
	}
	e, err := snap.Lookup("DUP")
	if err != nil {
		t.Fatal(err)
	}
	if e.AltitudeKm != 800 {
		t.Errorf("altitude = %v, want later entry's 800", e.AltitudeKm)
	}
}

func TestResolveSimulatedFallback(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := New()
	c.Replace(start, sampleElements(start))

	// Without permission the unknown name fails.
	if _, err := c.Resolve("GHOST", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	e, err := c.Resolve("GHOST", true)
	if err != nil {
		t.Fatalf("Resolve with fallback: %v", err)
	}
	if e.Source != model.SourceSimulated {
		t.Errorf("Source = %v, want simulated", e.Source)
	}

	// Known names never take the fallback.
	e, err = c.Resolve("ALPHA", true)
	if err != nil {
		t.Fatal(err)
	}
	if e.Source != model.SourceCatalog {
		t.Errorf("Source = %v, want catalog", e.Source)
	}
}

func TestSimulatedStableAndBounded(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a := Simulated("MYSTERY-SAT", epoch)
	b := Simulated("MYSTERY-SAT", epoch)
	if a != b {
		t.Errorf("same name produced different elements:\n%+v\n%+v", a, b)
	}

	other := Simulated("OTHER-SAT", epoch)
	if a.AltitudeKm == other.AltitudeKm && a.InclinationDeg == other.InclinationDeg {
		t.Error("distinct names produced identical parameters")
	}

	if a.AltitudeKm < 300 || a.AltitudeKm > 1600 {
		t.Errorf("altitude %v outside simulated band", a.AltitudeKm)
	}
	if a.InclinationDeg < -90 || a.InclinationDeg > 90 {
		t.Errorf("inclination %v outside -90..90", a.InclinationDeg)
	}
	if a.PhaseDeg < -180 || a.PhaseDeg > 180 {
		t.Errorf("phase %v outside -180..180", a.PhaseDeg)
	}
	if a.Source != model.SourceSimulated {
		t.Errorf("Source = %v, want simulated", a.Source)
	}
}
