package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"predsim/internal/persistence/sweepdb"
	"predsim/internal/sim/config"
	"predsim/internal/sweep"
)

func main() {
	var (
		samples    = flag.Int("samples", 50, "number of Latin Hypercube samples")
		reruns     = flag.Int("reruns", 3, "reruns per sample")
		sims       = flag.Int("sims", 5, "simulations per rerun")
		steps      = flag.Int("steps", 1000, "timesteps per simulation")
		workers    = flag.Int("workers", runtime.NumCPU(), "concurrent samples")
		outDir     = flag.String("out", "./sweep_results", "output directory")
		dbPath     = flag.String("db", "", "sqlite path for per-run rows (default: <out>/sweep.db)")
		seed       = flag.Int64("seed", 1337, "base seed for sampling and runs")
		configPath = flag.String("config", "", "scenario yaml for the fixed parameters")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sweep] ", log.LstdFlags|log.Lmicroseconds)

	base := config.Defaults()
	if *configPath != "" {
		var err error
		base, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load scenario: %v", err)
		}
	}
	base.SimulationSteps = *steps
	base.Seed = *seed

	db := *dbPath
	if db == "" {
		db = filepath.Join(*outDir, "sweep.db")
	}
	store, err := sweepdb.Open(db)
	if err != nil {
		logger.Fatalf("open sweep db: %v", err)
	}

	rng := rand.New(rand.NewPCG(uint64(*seed), 0))
	sampler := sweep.NewSampler(sweep.DefaultRanges(), *samples, rng)

	runner := sweep.NewRunner(base, *reruns, *sims, *workers, logger)
	runner.Store = store

	start := time.Now()
	logger.Printf("sweep: %d samples x %d reruns x %d sims, %d steps, %d workers",
		*samples, *reruns, *sims, *steps, *workers)

	stats, err := runner.Run(sampler.All())
	if err != nil {
		_ = store.Close()
		logger.Fatalf("sweep: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Fatalf("close sweep db: %v", err)
	}

	csvPath := filepath.Join(*outDir, "sweep_results_"+time.Now().UTC().Format("20060102_150405")+".csv")
	if err := sweep.WriteCSV(csvPath, stats); err != nil {
		logger.Fatalf("write csv: %v", err)
	}

	logger.Printf("done in %s: %s (rows in %s)", time.Since(start).Round(time.Millisecond), csvPath, db)
}
