package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/app"
	"github.com/sirupsen/logrus"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	systemCount := flag.Int("systems", 50, "The number of systems in the update pipeline.")
	churnEvery := flag.Int("churn", 10, "Every n-th system destroys and respawns an entity each update (0 disables).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the current directory: cpu, mem or allocs.")
	flag.Parse()

	cfg, err := app.FromEnv(app.DefaultConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := app.NewLogger(cfg)

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "allocs":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		logger.Fatalf("unknown profile mode %q", *profileMode)
	}

	logger.Info("Starting ECS stress test...")

	// 1. Setup registry and scene
	registry := ecs.NewComponentRegistry()
	kinds := RegisterAllComponents(registry)
	scene := ecs.NewScene("stress", registry, ecs.WithLogger(logger))
	if err := RegisterAllSystems(scene, kinds, *systemCount, *churnEvery); err != nil {
		logger.WithError(err).Fatal("registering systems")
	}

	// 2. Populate the table with initial entities
	logger.WithField("entities", *entityCount).Info("Populating scene...")
	scene.OnSetup(func(s *ecs.Scene) error {
		for i := 0; i < *entityCount; i++ {
			if _, err := s.Instantiate("entity", RandomComponents(rand.Intn(5)+1)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err := scene.Start(); err != nil {
		logger.WithError(err).Fatal("starting scene")
	}
	logger.Info("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     len(kinds),
		Systems:        *systemCount,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.WithField("duration", *duration).Info("Running simulation...")
	deadline := time.Now().Add(*duration)
	startTime := time.Now()
	lastFrameTime := time.Now()

	for time.Now().Before(deadline) {
		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		if err := scene.Update(ecs.Frame{DeltaTime: deltaTime}); err != nil {
			logger.WithError(err).Error("update failed")
			break
		}
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.FinalEntities = scene.Table().Len()
	if pipeline, ok := scene.Pipeline(ecs.PipelineUpdate); ok {
		report.Pipeline = pipeline.GetStats()
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := scene.Finish(); err != nil {
		logger.WithError(err).Error("finishing scene")
	}
	logger.Info("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.WithError(err).Fatal("Failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.WithFields(logrus.Fields{
		"updates": report.TotalUpdates,
		"avg":     report.UpdateTime.Avg,
	}).Info("Stress test complete.")
}
