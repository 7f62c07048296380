package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/model"
)

// CatalogLookup resolves a satellite name to an orbital element set. The
// simulated fallback is only taken when the caller explicitly allows it;
// implementations tag such elements with model.SourceSimulated.
type CatalogLookup interface {
	Resolve(name string, allowSimulated bool) (model.OrbitalElements, error)
}

// MetricsRecorder receives per-analysis observations. Implemented by the
// observability collector; a nil recorder disables reporting.
type MetricsRecorder interface {
	ObserveAnalysis(category model.RiskCategory, minDistanceKm float64, elapsed time.Duration, simulated bool)
}

// AnalysisRequest names the two objects and, optionally, the shared
// sampling window. A zero window selects the default 24-hour horizon.
type AnalysisRequest struct {
	NameA string
	NameB string

	Window Window

	// AllowSimulated permits the catalog's synthetic fallback for unknown
	// names. The assessment flags when it was taken.
	AllowSimulated bool
}

// SeparationPoint is one sampled separation distance, kept alongside the
// assessment so callers can render the full series.
type SeparationPoint struct {
	Time       time.Time
	DistanceKm float64
}

// Assessment bundles the risk verdict with the raw closest-approach numbers
// and provenance so the presentation layer can show both narrative and data.
type Assessment struct {
	Result  model.ClosestApproachResult
	Verdict model.RiskVerdict
	Window  Window

	SourceA model.Provenance
	SourceB model.Provenance

	Separations []SeparationPoint
}

// Simulated reports whether either element set came from the synthetic
// fallback. Such assessments must never be presented as authoritative.
func (a Assessment) Simulated() bool {
	return a.SourceA == model.SourceSimulated || a.SourceB == model.SourceSimulated
}

// DefaultWindow anchors the original service's horizon at now: 24 hours
// sampled every 5 minutes.
func DefaultWindow(now time.Time) Window {
	return Window{Start: now, End: now.Add(24 * time.Hour), Step: 5 * time.Minute}
}

// Analyzer runs one synchronous analysis per request: catalog lookup,
// trajectory sampling for both objects over a shared window, closest
// approach search, risk classification. Requests share no mutable state and
// may run in parallel.
type Analyzer struct {
	catalog  CatalogLookup
	circular CircularPropagator
	sgp4     *SGP4Propagator
	refiner  Refiner
	metrics  MetricsRecorder
	log      logging.Logger
	tracer   trace.Tracer
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithRefiner enables sub-step refinement of the grid minimum.
func WithRefiner(r Refiner) AnalyzerOption {
	return func(a *Analyzer) { a.refiner = r }
}

// WithMetricsRecorder wires analysis metrics.
func WithMetricsRecorder(m MetricsRecorder) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger sets the analyzer's logger.
func WithLogger(log logging.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.log = log }
}

// NewAnalyzer builds an Analyzer over the given catalog.
func NewAnalyzer(catalog CatalogLookup, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		catalog: catalog,
		sgp4:    NewSGP4Propagator(),
		log:     logging.Noop(),
		tracer:  otel.Tracer("core/analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze performs one collision-risk analysis. Errors are surfaced to the
// caller without internal retries; retry and fallback policy belongs to the
// layer above.
func (a *Analyzer) Analyze(ctx context.Context, req AnalysisRequest) (Assessment, error) {
	ctx, span := a.tracer.Start(ctx, "Analyze", trace.WithAttributes(
		attribute.String("satellite.a", req.NameA),
		attribute.String("satellite.b", req.NameB),
	))
	defer span.End()

	start := time.Now()

	elsA, err := a.catalog.Resolve(req.NameA, req.AllowSimulated)
	if err != nil {
		return Assessment{}, fmt.Errorf("resolve %q: %w", req.NameA, err)
	}
	elsB, err := a.catalog.Resolve(req.NameB, req.AllowSimulated)
	if err != nil {
		return Assessment{}, fmt.Errorf("resolve %q: %w", req.NameB, err)
	}

	w := req.Window
	if w.IsZero() {
		w = DefaultWindow(time.Now().UTC())
	}
	if err := w.Validate(); err != nil {
		return Assessment{}, err
	}

	trajA, err := Sample(a.propagatorFor(elsA), elsA, w)
	if err != nil {
		return Assessment{}, err
	}
	trajB, err := Sample(a.propagatorFor(elsB), elsB, w)
	if err != nil {
		return Assessment{}, err
	}

	var opts []ApproachOption
	if a.refiner != nil {
		opts = append(opts, WithRefinement(a.refiner, a.separationFunc(elsA, elsB)))
	}
	result, err := ClosestApproach(trajA, trajB, opts...)
	if err != nil {
		return Assessment{}, err
	}
	verdict := Classify(result)

	seps := make([]SeparationPoint, len(trajA.Samples))
	for i := range trajA.Samples {
		seps[i] = SeparationPoint{
			Time:       trajA.Samples[i].Time,
			DistanceKm: trajA.Samples[i].Position.DistanceTo(trajB.Samples[i].Position),
		}
	}

	assessment := Assessment{
		Result:      result,
		Verdict:     verdict,
		Window:      w,
		SourceA:     elsA.Source,
		SourceB:     elsB.Source,
		Separations: seps,
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Float64("approach.min_distance_km", result.MinDistanceKm),
		attribute.String("risk.category", string(verdict.Category)),
		attribute.Bool("simulated", assessment.Simulated()),
	)
	if a.metrics != nil {
		a.metrics.ObserveAnalysis(verdict.Category, result.MinDistanceKm, elapsed, assessment.Simulated())
	}
	a.log.Info(ctx, "analysis complete",
		logging.String("sat_a", req.NameA),
		logging.String("sat_b", req.NameB),
		logging.Float64("min_distance_km", result.MinDistanceKm),
		logging.String("risk_category", string(verdict.Category)),
		logging.Int("samples", len(trajA.Samples)),
		logging.Duration("elapsed", elapsed),
	)

	return assessment, nil
}

// propagatorFor selects SGP4 for element sets that retain TLE lines and the
// circular model otherwise.
func (a *Analyzer) propagatorFor(e model.OrbitalElements) Propagator {
	if e.HasTLE() {
		return a.sgp4
	}
	return a.circular
}

// separationFunc builds the continuous separation function the refiner
// probes between grid samples.
func (a *Analyzer) separationFunc(elsA, elsB model.OrbitalElements) SeparationFunc {
	propA := a.propagatorFor(elsA)
	propB := a.propagatorFor(elsB)
	return func(t time.Time) (float64, error) {
		pa, err := propA.Position(elsA, t)
		if err != nil {
			return 0, err
		}
		pb, err := propB.Position(elsB, t)
		if err != nil {
			return 0, err
		}
		return pa.DistanceTo(pb), nil
	}
}
