package engine

import "math"

// Kind discriminates the two species.
type Kind uint8

const (
	Predator Kind = iota
	Prey
)

func (k Kind) String() string {
	switch k {
	case Predator:
		return "PREDATOR"
	case Prey:
		return "PREY"
	default:
		return "UNKNOWN"
	}
}

// Vec2 is a position in the continuous world plane.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) DistanceSquared(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

func (v Vec2) Distance(o Vec2) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Agent is one predator or prey entity. Ids are unique within a run and come
// from the shared id source.
type Agent struct {
	ID    uint64
	Kind  Kind
	Pos   Vec2
	Alive bool

	// Fed marks a predator that discovered live prey this step. Cleared at
	// the start of every movement phase; meaningless for prey.
	Fed bool
}
