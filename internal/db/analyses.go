package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is one archived collision-risk analysis.
type AnalysisRecord struct {
	ID          string
	RequestedAt time.Time

	SatA string
	SatB string

	WindowStart time.Time
	WindowEnd   time.Time
	StepSeconds int64

	MinDistanceKm     float64
	ClosestApproachAt time.Time // zero when absent
	RiskCategory      string
	RiskPercentage    int
	Simulated         bool
}

// InsertAnalysis archives one completed analysis. A missing ID is filled
// with a fresh UUID; the stored record is returned.
func (db *DB) InsertAnalysis(ctx context.Context, rec AnalysisRecord) (AnalysisRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RequestedAt.IsZero() {
		rec.RequestedAt = time.Now().UTC()
	}

	var approachAt sql.NullString
	if !rec.ClosestApproachAt.IsZero() {
		approachAt = sql.NullString{String: rec.ClosestApproachAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, requested_at, sat_a, sat_b,
			window_start, window_end, step_seconds,
			min_distance_km, closest_approach_at,
			risk_category, risk_percentage, simulated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RequestedAt.UTC().Format(time.RFC3339Nano),
		rec.SatA,
		rec.SatB,
		rec.WindowStart.UTC().Format(time.RFC3339Nano),
		rec.WindowEnd.UTC().Format(time.RFC3339Nano),
		rec.StepSeconds,
		rec.MinDistanceKm,
		approachAt,
		rec.RiskCategory,
		rec.RiskPercentage,
		boolToInt(rec.Simulated),
	)
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("insert analysis %s: %w", rec.ID, err)
	}
	return rec, nil
}

// RecentAnalyses returns the most recently requested analyses, newest
// first.
func (db *DB) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, requested_at, sat_a, sat_b,
		       window_start, window_end, step_seconds,
		       min_distance_km, closest_approach_at,
		       risk_category, risk_percentage, simulated
		FROM analyses
		ORDER BY requested_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var (
			rec         AnalysisRecord
			requestedAt string
			windowStart string
			windowEnd   string
			approachAt  sql.NullString
			simulated   int
		)
		if err := rows.Scan(
			&rec.ID, &requestedAt, &rec.SatA, &rec.SatB,
			&windowStart, &windowEnd, &rec.StepSeconds,
			&rec.MinDistanceKm, &approachAt,
			&rec.RiskCategory, &rec.RiskPercentage, &simulated,
		); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}

		if rec.RequestedAt, err = time.Parse(time.RFC3339Nano, requestedAt); err != nil {
			return nil, fmt.Errorf("parse requested_at %q: %w", requestedAt, err)
		}
		if rec.WindowStart, err = time.Parse(time.RFC3339Nano, windowStart); err != nil {
			return nil, fmt.Errorf("parse window_start %q: %w", windowStart, err)
		}
		if rec.WindowEnd, err = time.Parse(time.RFC3339Nano, windowEnd); err != nil {
			return nil, fmt.Errorf("parse window_end %q: %w", windowEnd, err)
		}
		if approachAt.Valid {
			if rec.ClosestApproachAt, err = time.Parse(time.RFC3339Nano, approachAt.String); err != nil {
				return nil, fmt.Errorf("parse closest_approach_at %q: %w", approachAt.String, err)
			}
		}
		rec.Simulated = simulated != 0

		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordSnapshot archives a catalog snapshot swap.
func (db *DB) RecordSnapshot(ctx context.Context, version string, fetchedAt time.Time, objectCount int, source string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO catalog_snapshots (version, fetched_at, object_count, source)
		VALUES (?, ?, ?, ?)`,
		version,
		fetchedAt.UTC().Format(time.RFC3339Nano),
		objectCount,
		source,
	)
	if err != nil {
		return fmt.Errorf("record snapshot %s: %w", version, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
