package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full parameter set for one simulation instance. It is bound
// at create time and never mutated afterwards; instances copy it by value.
type Config struct {
	WorldWidth  float64 `yaml:"world_width" json:"worldWidth"`
	WorldHeight float64 `yaml:"world_height" json:"worldHeight"`

	InitialPredators int `yaml:"initial_predators" json:"initialPredators"`
	InitialPrey      int `yaml:"initial_prey" json:"initialPrey"`

	// Per-step movement magnitudes: MF for predators, MR for prey.
	MF float64 `yaml:"mf" json:"MF"`
	MR float64 `yaml:"mr" json:"MR"`

	// InteractionRadius is the predation discovery distance; CellSize is the
	// spatial grid resolution (usually equal to the radius).
	InteractionRadius float64 `yaml:"interaction_radius" json:"interactionRadius"`
	CellSize          float64 `yaml:"cell_size" json:"cellSize"`

	SimulationSteps int `yaml:"simulation_steps" json:"simulationSteps"`

	// Population dynamics. NR is the prey carrying capacity; the rest are
	// per-step probabilities: RR prey reproduction, DR prey death on
	// predator contact, DF unfed predator death, RF fed predator
	// reproduction.
	NR int     `yaml:"nr" json:"NR"`
	RR float64 `yaml:"rr" json:"RR"`
	DR float64 `yaml:"dr" json:"DR"`
	DF float64 `yaml:"df" json:"DF"`
	RF float64 `yaml:"rf" json:"RF"`

	Seed int64 `yaml:"seed" json:"seed"`
}

// ValidationError names the config field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Defaults returns the baseline scenario used by the sweep harness: a unit
// world with 30 predators and 500 prey.
func Defaults() Config {
	return Config{
		WorldWidth:        1.0,
		WorldHeight:       1.0,
		InitialPredators:  30,
		InitialPrey:       500,
		MF:                0.05,
		MR:                0.03,
		InteractionRadius: 0.02,
		CellSize:          0.02,
		SimulationSteps:   1000,
		NR:                500,
		RR:                0.1,
		DR:                1.0,
		DF:                0.1,
		RF:                0.5,
		Seed:              1337,
	}
}

func (c Config) Validate() error {
	if c.WorldWidth <= 0 {
		return &ValidationError{Field: "world_width", Reason: "must be > 0"}
	}
	if c.WorldHeight <= 0 {
		return &ValidationError{Field: "world_height", Reason: "must be > 0"}
	}
	if c.InitialPredators < 0 {
		return &ValidationError{Field: "initial_predators", Reason: "must be >= 0"}
	}
	if c.InitialPrey < 0 {
		return &ValidationError{Field: "initial_prey", Reason: "must be >= 0"}
	}
	if c.MF < 0 {
		return &ValidationError{Field: "mf", Reason: "must be >= 0"}
	}
	if c.MR < 0 {
		return &ValidationError{Field: "mr", Reason: "must be >= 0"}
	}
	if c.InteractionRadius <= 0 {
		return &ValidationError{Field: "interaction_radius", Reason: "must be > 0"}
	}
	if c.CellSize <= 0 {
		return &ValidationError{Field: "cell_size", Reason: "must be > 0"}
	}
	if c.SimulationSteps < 0 {
		return &ValidationError{Field: "simulation_steps", Reason: "must be >= 0"}
	}
	if c.NR <= 0 {
		return &ValidationError{Field: "nr", Reason: "must be > 0"}
	}
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"rr", c.RR},
		{"dr", c.DR},
		{"df", c.DF},
		{"rf", c.RF},
	} {
		if r.value < 0 || r.value > 1 {
			return &ValidationError{Field: r.name, Reason: "must be in [0,1]"}
		}
	}
	return nil
}

// Load reads a scenario file on top of Defaults, so partial scenarios only
// need the fields they change.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("scenario yaml: %w", err)
	}
	return c, nil
}
