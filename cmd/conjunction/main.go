// Command conjunction runs a single closest-approach analysis from the
// command line against a local TLE file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/collision-sentinel/catalog"
	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/internal/logging"
)

func main() {
	tlePath := flag.String("tle", "", "Path to a TLE file to load into the catalog")
	satA := flag.String("a", "", "First satellite name")
	satB := flag.String("b", "", "Second satellite name")
	hours := flag.Int("hours", 24, "Analysis window length in hours")
	stepMinutes := flag.Int("step", 5, "Sampling step in minutes")
	refine := flag.Bool("refine", false, "Refine the grid minimum with a golden-section search")
	simulated := flag.Bool("simulated", false, "Substitute simulated elements for unknown names")
	flag.Parse()

	ctx := context.Background()
	log := logging.New(logging.Config{Level: "warn"})

	if *satA == "" || *satB == "" {
		fmt.Fprintln(os.Stderr, "both -a and -b satellite names are required")
		flag.Usage()
		os.Exit(2)
	}

	cat := catalog.New(catalog.WithLogger(log))
	if *tlePath != "" {
		f, err := os.Open(*tlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", *tlePath, err)
			os.Exit(1)
		}
		els, err := catalog.ParseTLE(f, log)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse %s: %v\n", *tlePath, err)
			os.Exit(1)
		}
		cat.Replace(time.Now().UTC(), els)
	}

	opts := []core.AnalyzerOption{core.WithLogger(log)}
	if *refine {
		opts = append(opts, core.WithRefiner(&core.GoldenSectionRefiner{}))
	}
	analyzer := core.NewAnalyzer(cat, opts...)

	now := time.Now().UTC()
	assessment, err := analyzer.Analyze(ctx, core.AnalysisRequest{
		NameA: *satA,
		NameB: *satB,
		Window: core.Window{
			Start: now,
			End:   now.Add(time.Duration(*hours) * time.Hour),
			Step:  time.Duration(*stepMinutes) * time.Minute,
		},
		AllowSimulated: *simulated,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pair:             %s / %s\n", assessment.Result.NameA, assessment.Result.NameB)
	fmt.Printf("Window:           %s .. %s (step %s)\n",
		assessment.Window.Start.Format(time.RFC3339),
		assessment.Window.End.Format(time.RFC3339),
		assessment.Window.Step,
	)
	fmt.Printf("Min separation:   %.3f km\n", assessment.Result.MinDistanceKm)
	if !assessment.Result.TimeOfApproach.IsZero() {
		fmt.Printf("Closest approach: %s\n", assessment.Result.TimeOfApproach.UTC().Format(time.RFC3339))
	}
	fmt.Printf("Risk:             %s (%d%%)\n", assessment.Verdict.Category, assessment.Verdict.Percentage)
	fmt.Printf("Advice:           %s\n", assessment.Verdict.ActionAdvice)
	if assessment.Simulated() {
		fmt.Println("Note:             one or both element sets are simulated")
	}
}
