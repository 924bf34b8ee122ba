package main

import (
	"encoding/csv"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"predsim/internal/persistence/runlog"
	"predsim/internal/sim/config"
	"predsim/internal/simapi"
	"predsim/internal/transport/ws"
)

func main() {
	var (
		configPath = flag.String("config", "", "scenario yaml (baseline defaults when empty)")
		steps      = flag.Int("steps", 0, "override step count (0 = scenario value)")
		seed       = flag.Int64("seed", 0, "override RNG seed (0 = scenario value)")
		csvPath    = flag.String("csv", "", "write per-step history CSV to this path")
		logPath    = flag.String("log", "", "write per-step zstd JSONL run log to this path")
		watchAddr  = flag.String("watch", "", "serve live status over websocket on this address")
		batch      = flag.Int("batch", 50, "steps per status publish while watching")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simrun] ", log.LstdFlags|log.Lmicroseconds)

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load scenario: %v", err)
		}
	}
	if *steps > 0 {
		cfg.SimulationSteps = *steps
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	reg := simapi.NewRegistry()
	h, err := reg.Create(cfg)
	if err != nil {
		logger.Fatalf("create: %v (%s)", err, simapi.CodeFor(err))
	}
	if err := reg.Initialize(h); err != nil {
		logger.Fatalf("initialize: %v", err)
	}

	var hub *ws.Server
	if *watchAddr != "" {
		hub = ws.NewServer(logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/ws", hub.Handler())
		go func() {
			logger.Printf("watch: ws://%s/v1/ws", *watchAddr)
			if err := http.ListenAndServe(*watchAddr, mux); err != nil {
				logger.Printf("watch server: %v", err)
			}
		}()
	}

	total := cfg.SimulationSteps
	n := *batch
	if n < 1 || hub == nil {
		n = total
	}
	for done := 0; done < total; {
		chunk := n
		if chunk > total-done {
			chunk = total - done
		}
		if err := reg.Run(h, chunk); err != nil {
			logger.Fatalf("run: %v (%s)", err, simapi.CodeFor(err))
		}
		done += chunk
		if hub != nil {
			if st, err := reg.Status(h); err == nil {
				hub.Publish(st)
			}
		}
	}

	if err := reg.End(h); err != nil {
		logger.Fatalf("end: %v", err)
	}
	res, err := reg.Results(h)
	if err != nil {
		logger.Fatalf("results: %v", err)
	}

	if *csvPath != "" {
		if err := writeHistoryCSV(*csvPath, res.PredatorHistory, res.PreyHistory); err != nil {
			logger.Fatalf("write csv: %v", err)
		}
		logger.Printf("history csv: %s", *csvPath)
	}
	if *logPath != "" {
		if err := writeRunLog(*logPath, res.PredatorHistory, res.PreyHistory); err != nil {
			logger.Fatalf("write run log: %v", err)
		}
		logger.Printf("run log: %s", *logPath)
	}

	logger.Printf("done: steps=%d predators=%d prey=%d normalized_prey=%.4f elapsed=%dms",
		res.TimeSteps, res.FinalPredatorCount, res.FinalPreyCount,
		res.NormalizedPreyCount, res.ExecutionTimeMs)

	if err := reg.Destroy(h); err != nil {
		logger.Fatalf("destroy: %v", err)
	}
}

func writeHistoryCSV(path string, predators, prey []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "predators", "prey"}); err != nil {
		return err
	}
	for i := range predators {
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(predators[i]),
			strconv.Itoa(prey[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeRunLog(path string, predators, prey []int) error {
	l, err := runlog.NewStepLogger(path)
	if err != nil {
		return err
	}
	for i := range predators {
		if err := l.WriteStep(runlog.StepEntry{
			Step:      i + 1,
			Predators: predators[i],
			Prey:      prey[i],
		}); err != nil {
			_ = l.Close()
			return err
		}
	}
	return l.Close()
}
