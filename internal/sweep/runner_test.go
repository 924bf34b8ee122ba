package sweep

import (
	"path/filepath"
	"reflect"
	"testing"

	"predsim/internal/persistence/sweepdb"
	"predsim/internal/sim/config"
)

func sweepBase() config.Config {
	cfg := config.Defaults()
	cfg.InitialPredators = 6
	cfg.InitialPrey = 60
	cfg.SimulationSteps = 15
	return cfg
}

func TestRunner_AppliesSampledParameters(t *testing.T) {
	r := NewRunner(sweepBase(), 1, 1, 1, nil)
	stats, err := r.Run([][]float64{{250, 0.8, 0.1, 0.5}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("want 1 sample, got %d", len(stats))
	}
	s := stats[0]
	if s.Sample != 0 || s.NR != 250 || s.DR != 0.8 || s.DF != 0.1 || s.RF != 0.5 {
		t.Fatalf("sampled parameters not carried through: %+v", s.Params)
	}
	if s.AvgPrey < 0 || s.AvgPredators < 0 {
		t.Fatalf("negative averages: %+v", s)
	}
	if s.StdPrey != 0 || s.StdPredators != 0 {
		t.Fatalf("single rerun must report zero spread: %+v", s)
	}
}

func TestRunner_RejectsMalformedSamples(t *testing.T) {
	r := NewRunner(sweepBase(), 1, 1, 1, nil)
	if _, err := r.Run([][]float64{{250, 0.8}}); err == nil {
		t.Fatalf("short sample vector should fail")
	}
}

func TestRunner_WorkerCountDoesNotChangeResults(t *testing.T) {
	samples := [][]float64{
		{150, 0.9, 0.08, 0.4},
		{400, 0.6, 0.15, 0.6},
		{800, 1.0, 0.05, 0.3},
	}
	serial, err := NewRunner(sweepBase(), 2, 2, 1, nil).Run(samples)
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	parallel, err := NewRunner(sweepBase(), 2, 2, 4, nil).Run(samples)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("worker scheduling leaked into results:\nserial   %+v\nparallel %+v", serial, parallel)
	}
}

func TestRunner_PersistsEveryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.db")
	store, err := sweepdb.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	r := NewRunner(sweepBase(), 2, 3, 2, nil)
	r.Store = store
	samples := [][]float64{
		{200, 0.7, 0.1, 0.5},
		{600, 0.9, 0.12, 0.45},
	}
	if _, err := r.Run(samples); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	verify, err := sweepdb.Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer verify.Close()

	n, err := verify.RunCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if want := len(samples) * r.Reruns * r.Sims; n != want {
		t.Fatalf("want %d persisted runs, got %d", want, n)
	}
	rows, err := verify.RunsForSample(1)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(rows) != r.Reruns*r.Sims {
		t.Fatalf("want %d rows for sample 1, got %d", r.Reruns*r.Sims, len(rows))
	}
	for _, row := range rows {
		if row.NR != 600 || row.TimeSteps != 15 {
			t.Fatalf("row carries wrong parameters: %+v", row)
		}
	}
}
