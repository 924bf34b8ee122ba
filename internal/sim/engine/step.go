package engine

import (
	"math"
	"math/rand/v2"

	"predsim/internal/sim/config"
)

// StepResult is the successor population produced by Advance. The caller
// commits it together with the history append, so a step is never observable
// half-applied.
type StepResult struct {
	Predators []Agent
	Prey      []Agent
}

// Advance runs one tick over a copy of pop, in fixed phase order: movement,
// predation, prey reproduction, predator turnover, compaction. The phase
// order and the per-phase iteration order (predators then prey, ascending
// index) are what make runs reproducible for a given RNG stream.
//
// The grid must be freshly constructed for this step; Advance builds it from
// the post-movement positions before resolving predation.
func Advance(pop *Population, grid *SpatialGrid, cfg config.Config, rng *rand.Rand, ids *SharedState) StepResult {
	work := &Population{
		Predators: append([]Agent(nil), pop.Predators...),
		Prey:      append([]Agent(nil), pop.Prey...),
	}

	// Movement: a random direction with magnitude drawn from [0, MF] or
	// [0, MR], clamped to the world bounds.
	for i := range work.Predators {
		a := &work.Predators[i]
		a.Fed = false
		a.Pos = displace(a.Pos, cfg.MF, cfg, rng)
	}
	for i := range work.Prey {
		a := &work.Prey[i]
		a.Pos = displace(a.Pos, cfg.MR, cfg, rng)
	}

	grid.Build(work)

	// Predation: every predator that discovers live prey within the
	// interaction radius is fed; each discovered prey rolls death with
	// probability DR, independently per discovering predator. Prey killed by
	// an earlier predator this step are no longer discoverable.
	for i := range work.Predators {
		p := &work.Predators[i]
		if !p.Alive {
			continue
		}
		found := grid.NeighborsOfKind(work, p.Pos, cfg.InteractionRadius, Prey)
		if len(found) == 0 {
			continue
		}
		p.Fed = true
		for _, j := range found {
			if rng.Float64() < cfg.DR {
				work.Prey[j].Alive = false
			}
		}
	}

	// Prey reproduction: at most one offspring per survivor, with the
	// reproduction rate damped linearly toward zero at the carrying
	// capacity. The live count is taken once at phase start, and offspring
	// do not themselves reproduce this step.
	preyAlive := 0
	for i := range work.Prey {
		if work.Prey[i].Alive {
			preyAlive++
		}
	}
	damped := cfg.RR * math.Max(0, 1-float64(preyAlive)/float64(cfg.NR))
	var preyBorn []Agent
	for i := range work.Prey {
		a := &work.Prey[i]
		if !a.Alive {
			continue
		}
		if rng.Float64() < damped {
			preyBorn = append(preyBorn, Agent{
				ID:    ids.NextAgentID(),
				Kind:  Prey,
				Pos:   displace(a.Pos, cfg.MR, cfg, rng),
				Alive: true,
			})
		}
	}

	// Predator turnover: unfed predators die with probability DF, fed ones
	// spawn at most one offspring with probability RF.
	var predBorn []Agent
	for i := range work.Predators {
		a := &work.Predators[i]
		if !a.Alive {
			continue
		}
		if a.Fed {
			if rng.Float64() < cfg.RF {
				predBorn = append(predBorn, Agent{
					ID:    ids.NextAgentID(),
					Kind:  Predator,
					Pos:   displace(a.Pos, cfg.MF, cfg, rng),
					Alive: true,
				})
			}
		} else if rng.Float64() < cfg.DF {
			a.Alive = false
		}
	}

	// Compaction: survivors keep their order, offspring append after.
	res := StepResult{
		Predators: make([]Agent, 0, len(work.Predators)+len(predBorn)),
		Prey:      make([]Agent, 0, len(work.Prey)+len(preyBorn)),
	}
	for _, a := range work.Predators {
		if a.Alive {
			res.Predators = append(res.Predators, a)
		}
	}
	res.Predators = append(res.Predators, predBorn...)
	for _, a := range work.Prey {
		if a.Alive {
			res.Prey = append(res.Prey, a)
		}
	}
	res.Prey = append(res.Prey, preyBorn...)
	return res
}

// displace moves pos by a uniformly random angle and a magnitude drawn from
// [0, maxMag], then clamps to the world rectangle. Offspring placement uses
// the same kernel, which is what puts children "near" the parent.
func displace(pos Vec2, maxMag float64, cfg config.Config, rng *rand.Rand) Vec2 {
	theta := rng.Float64() * 2 * math.Pi
	mag := rng.Float64() * maxMag
	return Vec2{
		X: clamp(pos.X+mag*math.Cos(theta), 0, cfg.WorldWidth),
		Y: clamp(pos.Y+mag*math.Sin(theta), 0, cfg.WorldHeight),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
