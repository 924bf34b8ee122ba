package sweep

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"predsim/internal/persistence/sweepdb"
	"predsim/internal/sim/config"
	"predsim/internal/sim/control"
	"predsim/internal/sim/engine"
)

// The swept dimensions, in sample order: NR, DR, DF, RF. DR/DF/RF are
// probabilities, so every range stays inside [0,1].
func DefaultRanges() []Range {
	return []Range{
		{Min: 100, Max: 1000}, // NR
		{Min: 0.5, Max: 1.0},  // DR
		{Min: 0.05, Max: 0.2}, // DF
		{Min: 0.3, Max: 0.7},  // RF
	}
}

// Params is one sampled point of the swept space.
type Params struct {
	Sample int
	NR     int
	DR     float64
	DF     float64
	RF     float64
}

// SampleStats aggregates the rerun×sim final counts for one sample: the mean
// of per-rerun means plus the spread across reruns.
type SampleStats struct {
	Params
	AvgPrey      float64
	StdPrey      float64
	AvgPredators float64
	StdPredators float64
}

// Runner drives one full sweep: for every sampled point it runs
// Reruns×Sims independent simulations to completion and aggregates the
// final counts. Samples are distributed over a bounded worker pool.
type Runner struct {
	Base    config.Config // fixed parameters; sampled fields are overwritten
	Reruns  int
	Sims    int
	Workers int

	Log   *log.Logger
	Store *sweepdb.Store // optional row sink
}

func NewRunner(base config.Config, reruns, sims, workers int, logger *log.Logger) *Runner {
	if reruns < 1 {
		reruns = 1
	}
	if sims < 1 {
		sims = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		Base:    base,
		Reruns:  reruns,
		Sims:    sims,
		Workers: workers,
		Log:     logger,
	}
}

// Run executes the sweep over the given samples (each NR, DR, DF, RF) and
// returns per-sample aggregates in sample order.
func (r *Runner) Run(samples [][]float64) ([]SampleStats, error) {
	out := make([]SampleStats, len(samples))
	errs := make([]error, len(samples))

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				out[i], errs[i] = r.runSample(i, samples[i])
			}
		}()
	}
	for i := range samples {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return out, nil
}

func (r *Runner) runSample(i int, sample []float64) (SampleStats, error) {
	if len(sample) != 4 {
		return SampleStats{}, fmt.Errorf("want 4 sampled values, got %d", len(sample))
	}
	p := Params{
		Sample: i,
		NR:     int(math.Round(sample[0])),
		DR:     sample[1],
		DF:     sample[2],
		RF:     sample[3],
	}

	cfg := r.Base
	cfg.NR = p.NR
	cfg.DR = p.DR
	cfg.DF = p.DF
	cfg.RF = p.RF

	start := time.Now()
	preyMeans := make([]float64, 0, r.Reruns)
	predMeans := make([]float64, 0, r.Reruns)
	for rerun := 0; rerun < r.Reruns; rerun++ {
		var preySum, predSum float64
		for sim := 0; sim < r.Sims; sim++ {
			// Decorrelate repeats of the same point while keeping the
			// whole sweep reproducible for a fixed base seed.
			runCfg := cfg
			runCfg.Seed = cfg.Seed + int64(i)*1_000_003 + int64(rerun)*1_009 + int64(sim)

			res, err := r.runOne(runCfg)
			if err != nil {
				return SampleStats{}, err
			}
			preySum += float64(res.FinalPreyCount)
			predSum += float64(res.FinalPredatorCount)

			if r.Store != nil {
				_ = r.Store.Insert(sweepdb.Row{
					RunID:          uuid.NewString(),
					Sample:         i,
					Rerun:          rerun,
					Sim:            sim,
					NR:             p.NR,
					DR:             p.DR,
					DF:             p.DF,
					RF:             p.RF,
					FinalPredators: res.FinalPredatorCount,
					FinalPrey:      res.FinalPreyCount,
					NormalizedPrey: res.NormalizedPreyCount,
					ExecutionMs:    res.ExecutionTimeMs,
					TimeSteps:      res.TimeSteps,
					RecordedAt:     time.Now().UTC().Format(time.RFC3339Nano),
				})
			}
		}
		preyMeans = append(preyMeans, preySum/float64(r.Sims))
		predMeans = append(predMeans, predSum/float64(r.Sims))
	}

	if r.Log != nil {
		r.Log.Printf("sample %d done in %s (nr=%d dr=%.3f df=%.3f rf=%.3f)",
			i, time.Since(start).Round(time.Millisecond), p.NR, p.DR, p.DF, p.RF)
	}

	return SampleStats{
		Params:       p,
		AvgPrey:      mean(preyMeans),
		StdPrey:      stddev(preyMeans),
		AvgPredators: mean(predMeans),
		StdPredators: stddev(predMeans),
	}, nil
}

// runOne takes a run from create to destroy. Every run gets its own shared
// state, so results depend only on the run's seed, not on worker scheduling.
func (r *Runner) runOne(cfg config.Config) (control.Result, error) {
	c, err := control.New(cfg, engine.NewSharedState())
	if err != nil {
		return control.Result{}, err
	}
	defer c.Destroy()
	if err := c.Initialize(); err != nil {
		return control.Result{}, err
	}
	if err := c.Run(cfg.SimulationSteps); err != nil {
		return control.Result{}, err
	}
	if err := c.End(); err != nil {
		return control.Result{}, err
	}
	return c.Results(), nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
