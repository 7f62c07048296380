package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/signalsfoundry/collision-sentinel/catalog"
	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/internal/db"
	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/internal/report"
)

// collisionRiskThresholdKm is the flat boolean threshold the original
// prediction endpoint exposed alongside the category-based verdict.
const collisionRiskThresholdKm = 5.0

// historyLimitMax caps the history page size.
const historyLimitMax = 100

// Defaults carries the per-request analysis defaults from configuration.
type Defaults struct {
	WindowHours    int
	StepMinutes    int
	AllowSimulated bool
}

// Handlers holds the HTTP endpoint implementations. Archive is optional;
// when nil, analyses are not persisted and /api/v1/history reports an
// empty list.
type Handlers struct {
	Analyzer  *core.Analyzer
	Catalog   *catalog.Catalog
	Refresher *catalog.Refresher
	Archive   *db.DB
	Defaults  Defaults

	Log logging.Logger
}

type predictResponse struct {
	Sat1 string `json:"sat1"`
	Sat2 string `json:"sat2"`

	MinDistanceKm       float64 `json:"min_distance_km"`
	ClosestApproachTime string  `json:"closest_approach_time,omitempty"`

	RiskCategory   string `json:"risk_category"`
	RiskPercentage int    `json:"risk_percentage"`
	RiskMessage    string `json:"risk_message"`
	ActionAdvice   string `json:"action_advice"`

	CollisionRisk bool `json:"collision_risk"`
	Simulated     bool `json:"simulated"`
}

// handleSatellites lists the names in the current catalog snapshot.
func (h *Handlers) handleSatellites(w http.ResponseWriter, r *http.Request) {
	names := h.Catalog.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(r.Context(), w, h.Log, http.StatusOK, map[string]any{
		"count":      len(names),
		"satellites": names,
	})
}

// handlePredict runs one closest-approach analysis for the sat1/sat2 query
// pair. Optional hours, step_minutes and simulated parameters override the
// configured defaults.
func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	sat1 := q.Get("sat1")
	sat2 := q.Get("sat2")
	if sat1 == "" || sat2 == "" {
		writeError(ctx, w, h.Log, fmt.Errorf("sat1 and sat2 query parameters are required: %w", core.ErrInvalidWindow))
		return
	}

	req, err := h.buildRequest(sat1, sat2, q)
	if err != nil {
		writeError(ctx, w, h.Log, err)
		return
	}

	assessment, err := h.Analyzer.Analyze(ctx, req)
	if err != nil {
		writeError(ctx, w, h.Log, err)
		return
	}

	h.archive(ctx, req, assessment)

	resp := predictResponse{
		Sat1:           assessment.Result.NameA,
		Sat2:           assessment.Result.NameB,
		MinDistanceKm:  round2(assessment.Result.MinDistanceKm),
		RiskCategory:   string(assessment.Verdict.Category),
		RiskPercentage: assessment.Verdict.Percentage,
		RiskMessage:    assessment.Verdict.Message,
		ActionAdvice:   assessment.Verdict.ActionAdvice,
		CollisionRisk:  assessment.Result.MinDistanceKm < collisionRiskThresholdKm,
		Simulated:      assessment.Simulated(),
	}
	if !assessment.Result.TimeOfApproach.IsZero() {
		resp.ClosestApproachTime = assessment.Result.TimeOfApproach.UTC().Format(time.RFC3339)
	}
	writeJSON(ctx, w, h.Log, http.StatusOK, resp)
}

// handleRefresh fetches fresh element sets and swaps the catalog snapshot.
func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.Refresher.RefreshOnce(ctx)
	if err != nil {
		writeError(ctx, w, h.Log, err)
		return
	}

	if h.Archive != nil {
		if err := h.Archive.RecordSnapshot(ctx, snap.Version, snap.FetchedAt, snap.Len(), "celestrak"); err != nil {
			h.Log.Warn(ctx, "archive snapshot record failed", logging.Err(err))
		}
	}

	writeJSON(ctx, w, h.Log, http.StatusOK, map[string]any{
		"message": "TLEs refreshed successfully!",
		"count":   snap.Len(),
	})
}

// handleHistory lists recent archived analyses, newest first.
func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(ctx, w, h.Log, fmt.Errorf("limit must be a positive integer: %w", core.ErrInvalidWindow))
			return
		}
		limit = n
	}
	if limit > historyLimitMax {
		limit = historyLimitMax
	}

	records := []db.AnalysisRecord{}
	if h.Archive != nil {
		var err error
		records, err = h.Archive.RecentAnalyses(ctx, limit)
		if err != nil {
			writeError(ctx, w, h.Log, err)
			return
		}
	}

	type historyEntry struct {
		ID             string  `json:"id"`
		RequestedAt    string  `json:"requested_at"`
		Sat1           string  `json:"sat1"`
		Sat2           string  `json:"sat2"`
		MinDistanceKm  float64 `json:"min_distance_km"`
		RiskCategory   string  `json:"risk_category"`
		RiskPercentage int     `json:"risk_percentage"`
		Simulated      bool    `json:"simulated"`
	}

	entries := make([]historyEntry, len(records))
	for i, rec := range records {
		entries[i] = historyEntry{
			ID:             rec.ID,
			RequestedAt:    rec.RequestedAt.UTC().Format(time.RFC3339),
			Sat1:           rec.SatA,
			Sat2:           rec.SatB,
			MinDistanceKm:  round2(rec.MinDistanceKm),
			RiskCategory:   rec.RiskCategory,
			RiskPercentage: rec.RiskPercentage,
			Simulated:      rec.Simulated,
		}
	}
	writeJSON(ctx, w, h.Log, http.StatusOK, map[string]any{
		"count":    len(entries),
		"analyses": entries,
	})
}

// handleReport analyzes the pair and renders the separation series as an
// HTML chart.
func (h *Handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	sat1 := q.Get("sat1")
	sat2 := q.Get("sat2")
	if sat1 == "" || sat2 == "" {
		writeError(ctx, w, h.Log, fmt.Errorf("sat1 and sat2 query parameters are required: %w", core.ErrInvalidWindow))
		return
	}

	req, err := h.buildRequest(sat1, sat2, q)
	if err != nil {
		writeError(ctx, w, h.Log, err)
		return
	}

	assessment, err := h.Analyzer.Analyze(ctx, req)
	if err != nil {
		writeError(ctx, w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderSeparationChart(w, sat1, sat2, assessment.Separations, assessment.Verdict); err != nil {
		h.Log.Error(ctx, "report render failed", logging.Err(err))
	}
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, h.Log, http.StatusOK, map[string]string{"status": "ok"})
}

// buildRequest resolves query overrides against the configured defaults.
func (h *Handlers) buildRequest(sat1, sat2 string, q map[string][]string) (core.AnalysisRequest, error) {
	hours := h.Defaults.WindowHours
	stepMinutes := h.Defaults.StepMinutes
	allowSimulated := h.Defaults.AllowSimulated

	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	if raw := get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return core.AnalysisRequest{}, fmt.Errorf("hours must be an integer: %w", core.ErrInvalidWindow)
		}
		hours = n
	}
	if raw := get("step_minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return core.AnalysisRequest{}, fmt.Errorf("step_minutes must be an integer: %w", core.ErrInvalidWindow)
		}
		stepMinutes = n
	}
	if raw := get("simulated"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return core.AnalysisRequest{}, fmt.Errorf("simulated must be a boolean: %w", core.ErrInvalidWindow)
		}
		allowSimulated = b
	}

	now := time.Now().UTC()
	w := core.Window{
		Start: now,
		End:   now.Add(time.Duration(hours) * time.Hour),
		Step:  time.Duration(stepMinutes) * time.Minute,
	}
	if err := w.Validate(); err != nil {
		return core.AnalysisRequest{}, err
	}

	return core.AnalysisRequest{
		NameA:          sat1,
		NameB:          sat2,
		Window:         w,
		AllowSimulated: allowSimulated,
	}, nil
}

// archive persists the assessment best-effort; archive failures never fail
// the request.
func (h *Handlers) archive(ctx context.Context, req core.AnalysisRequest, a core.Assessment) {
	if h.Archive == nil {
		return
	}
	_, err := h.Archive.InsertAnalysis(ctx, db.AnalysisRecord{
		SatA:              req.NameA,
		SatB:              req.NameB,
		WindowStart:       a.Window.Start,
		WindowEnd:         a.Window.End,
		StepSeconds:       int64(a.Window.Step / time.Second),
		MinDistanceKm:     a.Result.MinDistanceKm,
		ClosestApproachAt: a.Result.TimeOfApproach,
		RiskCategory:      string(a.Verdict.Category),
		RiskPercentage:    a.Verdict.Percentage,
		Simulated:         a.Simulated(),
	})
	if err != nil {
		h.Log.Warn(ctx, "archive analysis failed", logging.Err(err))
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
