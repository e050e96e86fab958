// Command sheet-stress animates many atlas sprites without a window and
// reports how long each update pass takes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sheetdemo/app"
)

func main() {
	log.SetPrefix("sheet-stress: ")

	var opts options
	flag.DurationVar(&opts.Duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&opts.Sprites, "sprites", 10000, "The number of animated sprites to spawn.")
	flag.IntVar(&opts.Atlases, "atlases", 4, "The number of distinct synthetic atlases.")
	flag.BoolVar(&opts.FixedStep, "fixed-step", false, "Advance 1/60s per update instead of wall time.")
	flag.Uint64Var(&opts.Seed, "seed", 1, "Seed for sprite placement and frame intervals.")
	flag.BoolVar(&opts.GCPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting sprite sheet stress test...")

	report, err := run(context.Background(), opts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

type options struct {
	Duration       time.Duration
	Sprites        int
	Atlases        int
	FixedStep      bool
	Seed           uint64
	GCPauseMetrics bool
}

const fixedStep = 1.0 / 60

// run spawns the sprites and steps the update schedule until opts.Duration
// elapses or ctx is cancelled.
func run(ctx context.Context, opts options) (*Report, error) {
	if opts.Sprites < 0 || opts.Atlases <= 0 {
		return nil, fmt.Errorf("sheet-stress: need a non-negative sprite count and at least one atlas, got %d and %d", opts.Sprites, opts.Atlases)
	}

	a := app.New(app.Config{Title: "sheet-stress"})
	counter := build(a, opts)

	log.Printf("Spawned %d sprites over %d atlases.", opts.Sprites, opts.Atlases)

	report := &Report{
		Duration:       opts.Duration,
		Sprites:        opts.Sprites,
		Atlases:        opts.Atlases,
		FixedStep:      opts.FixedStep,
		GCPauseMetrics: opts.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...", opts.Duration)
	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			dt := fixedStep
			if !opts.FixedStep {
				dt = time.Since(lastFrameTime).Seconds()
			}
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := a.Step(dt); err != nil {
				return nil, err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.FramesAdvanced = counter.Frames
	report.Storage = a.Storage.CollectStats()
	report.Systems = a.Update.GetStats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")
	return report, nil
}
