package engine

import (
	"math/rand/v2"

	"predsim/internal/sim/config"
)

// Population holds the two agent collections for one instance. Between steps
// both slices contain only live agents; the Alive flag matters only while a
// step is in flight. Only the step engine mutates a population.
type Population struct {
	Predators []Agent
	Prey      []Agent
}

// NewPopulation places the initial agents uniformly at random inside the
// world bounds. Prey are seeded before predators so id assignment and RNG
// draw order are stable for a given seed.
func NewPopulation(cfg config.Config, ids *SharedState, rng *rand.Rand) *Population {
	p := &Population{
		Predators: make([]Agent, 0, cfg.InitialPredators),
		Prey:      make([]Agent, 0, cfg.InitialPrey),
	}
	for i := 0; i < cfg.InitialPrey; i++ {
		p.Prey = append(p.Prey, Agent{
			ID:    ids.NextAgentID(),
			Kind:  Prey,
			Pos:   randomPos(cfg, rng),
			Alive: true,
		})
	}
	for i := 0; i < cfg.InitialPredators; i++ {
		p.Predators = append(p.Predators, Agent{
			ID:    ids.NextAgentID(),
			Kind:  Predator,
			Pos:   randomPos(cfg, rng),
			Alive: true,
		})
	}
	return p
}

func (p *Population) PredatorCount() int { return len(p.Predators) }
func (p *Population) PreyCount() int     { return len(p.Prey) }

func randomPos(cfg config.Config, rng *rand.Rand) Vec2 {
	return Vec2{
		X: rng.Float64() * cfg.WorldWidth,
		Y: rng.Float64() * cfg.WorldHeight,
	}
}
