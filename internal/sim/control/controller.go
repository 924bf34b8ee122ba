package control

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"predsim/internal/sim/config"
	"predsim/internal/sim/engine"
)

// State is the lifecycle position of one instance.
type State uint8

const (
	Created State = iota
	Initialized
	Running
	Paused
	Ended
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Initialized:
		return "INITIALIZED"
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Ended:
		return "ENDED"
	case Destroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// InvalidStateError reports an operation issued in a state that does not
// allow it. The instance is left exactly as it was.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("simulation: %s not allowed in state %s", e.Op, e.State)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

// Status is a pure-read snapshot, valid in any state.
type Status struct {
	PredatorCount int
	PreyCount     int
	CurrentStep   int
	Running       bool
	Paused        bool
}

// Result is a snapshot of history-so-far plus final counts. Every call
// returns independently owned copies.
type Result struct {
	FinalPredatorCount  int
	FinalPreyCount      int
	NormalizedPreyCount float64
	ExecutionTimeMs     int64
	TimeSteps           int
	PredatorHistory     []int
	PreyHistory         []int
}

// Controller owns one simulation instance: configuration, population,
// history and the instance RNG. It is single-threaded; Step and Run execute
// to completion on the calling goroutine with no suspension points.
type Controller struct {
	cfg    config.Config
	shared *engine.SharedState
	rng    *rand.Rand

	state State
	step  int

	pop  *engine.Population
	hist engine.History

	started time.Time
	elapsed time.Duration

	finalPredators int
	finalPrey      int
}

// New validates the configuration and binds it immutably to a fresh
// instance. The instance RNG stream is derived from the config seed and the
// shared stream counter, so the same create order after a reset reproduces
// the same runs.
func New(cfg config.Config, shared *engine.SharedState) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg,
		shared: shared,
		rng:    rand.New(rand.NewPCG(uint64(cfg.Seed), shared.NextStream())),
		state:  Created,
	}, nil
}

func (c *Controller) Config() config.Config { return c.cfg }

func (c *Controller) State() State { return c.state }

// Initialize materializes the initial population at random positions and
// resets the step counter. Calling it a second time fails; destroy the
// instance and create a new one instead.
func (c *Controller) Initialize() error {
	if c.state != Created {
		return &InvalidStateError{Op: "initialize", State: c.state}
	}
	c.pop = engine.NewPopulation(c.cfg, c.shared, c.rng)
	c.step = 0
	c.hist = engine.History{}
	c.started = time.Now()
	c.state = Initialized
	return nil
}

// Step advances exactly one tick. A Created instance is initialized
// defensively first. Population and history commit together after the
// engine produced the full successor state.
func (c *Controller) Step() error {
	switch c.state {
	case Created:
		if err := c.Initialize(); err != nil {
			return err
		}
	case Initialized, Running:
	default:
		return &InvalidStateError{Op: "step", State: c.state}
	}

	grid := engine.NewSpatialGrid(c.cfg.CellSize)
	res := engine.Advance(c.pop, grid, c.cfg, c.rng, c.shared)

	c.pop.Predators = res.Predators
	c.pop.Prey = res.Prey
	c.step++
	c.hist.Append(len(res.Predators), len(res.Prey))
	c.state = Running
	return nil
}

// Run executes n steps synchronously, blocking the caller for the whole
// duration. n <= 0 means the configured simulation_steps. Extinction of
// either species is not terminal; zero counts keep being recorded.
func (c *Controller) Run(n int) error {
	if n <= 0 {
		n = c.cfg.SimulationSteps
	}
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) Pause() error {
	switch c.state {
	case Initialized, Running:
		c.state = Paused
		return nil
	default:
		return &InvalidStateError{Op: "pause", State: c.state}
	}
}

func (c *Controller) Resume() error {
	if c.state != Paused {
		return &InvalidStateError{Op: "resume", State: c.state}
	}
	c.state = Running
	return nil
}

// End freezes the history, latches the final counts from the last recorded
// step and the execution time. Further Step/Run calls fail.
func (c *Controller) End() error {
	switch c.state {
	case Initialized, Running, Paused:
	default:
		return &InvalidStateError{Op: "end", State: c.state}
	}
	c.elapsed = time.Since(c.started)
	c.finalPredators = c.pop.PredatorCount()
	c.finalPrey = c.pop.PreyCount()
	c.state = Ended
	return nil
}

// Status is a pure read and never fails.
func (c *Controller) Status() Status {
	var pred, prey int
	if c.pop != nil {
		pred = c.pop.PredatorCount()
		prey = c.pop.PreyCount()
	}
	return Status{
		PredatorCount: pred,
		PreyCount:     prey,
		CurrentStep:   c.step,
		Running:       c.state == Initialized || c.state == Running,
		Paused:        c.state == Paused,
	}
}

// Results snapshots history-so-far and the current (or, after End, latched)
// counts. Before Initialize it returns a well-defined empty snapshot, since
// sweep drivers call it defensively. ExecutionTimeMs is zero until End.
func (c *Controller) Results() Result {
	if c.pop == nil || c.state == Destroyed {
		return Result{PredatorHistory: []int{}, PreyHistory: []int{}}
	}

	pred := c.pop.PredatorCount()
	prey := c.pop.PreyCount()
	var ms int64
	if c.state == Ended {
		pred = c.finalPredators
		prey = c.finalPrey
		ms = c.elapsed.Milliseconds()
	}
	predHist, preyHist := c.hist.Counts()
	return Result{
		FinalPredatorCount:  pred,
		FinalPreyCount:      prey,
		NormalizedPreyCount: float64(prey) / float64(c.cfg.NR),
		ExecutionTimeMs:     ms,
		TimeSteps:           c.step,
		PredatorHistory:     predHist,
		PreyHistory:         preyHist,
	}
}

// Destroy releases the owned population and history. Every later operation
// fails with InvalidState.
func (c *Controller) Destroy() {
	c.pop = nil
	c.hist = engine.History{}
	c.state = Destroyed
}
