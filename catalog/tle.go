package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/model"
)

// ParseTLE reads 3-line NORAD TLE format from r and returns element sets.
// Malformed entries are skipped with a warning log rather than failing the
// whole load. The original TLE lines are retained on each element set so
// the SGP4 propagator can be used where available.
func ParseTLE(r io.Reader, log logging.Logger) ([]model.OrbitalElements, error) {
	if log == nil {
		log = logging.Noop()
	}
	ctx := context.Background()

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	var out []model.OrbitalElements
	for i := 0; i+2 < len(lines); {
		name := strings.TrimSpace(lines[i])
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Try to resynchronize on the next candidate triplet.
			log.Warn(ctx, "skipping malformed TLE entry", logging.Int("line_index", i), logging.String("name", name))
			i++
			continue
		}

		e, err := elementsFromTLE(name, line1, line2)
		if err != nil {
			log.Warn(ctx, "skipping unparsable TLE entry", logging.String("name", name), logging.Err(err))
			i += 3
			continue
		}

		out = append(out, e)
		i += 3
	}

	return out, nil
}

// elementsFromTLE derives a circularized element set from the classical
// elements encoded in a TLE pair: inclination and RAAN from line 2, epoch
// from line 1, and altitude from the semi-major axis implied by the mean
// motion. The TLE lines themselves are kept when they pass basic format
// validation so SGP4 can serve the propagation contract instead.
func elementsFromTLE(name, line1, line2 string) (model.OrbitalElements, error) {
	if len(line1) < 32 {
		return model.OrbitalElements{}, fmt.Errorf("line1 too short: %d chars", len(line1))
	}
	if len(line2) < 63 {
		return model.OrbitalElements{}, fmt.Errorf("line2 too short: %d chars", len(line2))
	}

	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return model.OrbitalElements{}, fmt.Errorf("epoch: %w", err)
	}

	incDeg, err := strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return model.OrbitalElements{}, fmt.Errorf("inclination: %w", err)
	}
	raanDeg, err := strconv.ParseFloat(strings.TrimSpace(line2[17:25]), 64)
	if err != nil {
		return model.OrbitalElements{}, fmt.Errorf("raan: %w", err)
	}
	meanMotion, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return model.OrbitalElements{}, fmt.Errorf("mean motion: %w", err)
	}
	if meanMotion <= 0 {
		return model.OrbitalElements{}, fmt.Errorf("mean motion %.6f rev/day out of range", meanMotion)
	}

	// Semi-major axis from the mean motion: a = (mu/n^2)^(1/3).
	nRadPerSec := meanMotion * 2 * math.Pi / 86400.0
	semiMajorKm := math.Cbrt(model.EarthMuKm3S2 / (nRadPerSec * nRadPerSec))
	altitudeKm := semiMajorKm - model.EarthRadiusKm

	// The circular model uses a -90..90 inclination domain; fold retrograde
	// TLE inclinations into it. The SGP4 path uses the raw lines anyway.
	if incDeg > 90 {
		incDeg -= 180
	}
	if raanDeg > 180 {
		raanDeg -= 360
	}

	e := model.NewOrbitalElements(name, epoch, altitudeKm, incDeg, raanDeg)
	e.Source = model.SourceCatalog
	if err := core.ValidateTLELines(line1, line2); err == nil {
		e.TLELine1 = line1
		e.TLELine2 = line2
	}
	return e, nil
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to
// time.Time. Year 00-56 maps to the 2000s, 57-99 to the 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
