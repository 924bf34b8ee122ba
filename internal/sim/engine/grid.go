package engine

import "math"

type cellKey struct {
	X int
	Y int
}

type gridEntry struct {
	kind  Kind
	index int
}

// SpatialGrid is a uniform-cell bucket index over agent positions. It is
// rebuilt from the population once per step and discarded afterwards; there
// is no incremental maintenance. Queries scan a fixed ring pattern so their
// result order is deterministic (no map iteration).
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]gridEntry
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]gridEntry),
	}
}

// Build buckets every agent by floor(pos/cellSize). O(n).
func (g *SpatialGrid) Build(pop *Population) {
	clear(g.cells)
	for i := range pop.Prey {
		k := g.cellFor(pop.Prey[i].Pos)
		g.cells[k] = append(g.cells[k], gridEntry{kind: Prey, index: i})
	}
	for i := range pop.Predators {
		k := g.cellFor(pop.Predators[i].Pos)
		g.cells[k] = append(g.cells[k], gridEntry{kind: Predator, index: i})
	}
}

// NeighborsOfKind returns the indices (into the kind's population slice) of
// live agents of the given kind within Euclidean distance radius of pos. It
// examines the cell containing pos plus ceil(radius/cellSize) surrounding
// rings, which keeps predation queries sub-quadratic.
func (g *SpatialGrid) NeighborsOfKind(pop *Population, pos Vec2, radius float64, kind Kind) []int {
	center := g.cellFor(pos)
	rings := int(math.Ceil(radius / g.cellSize))
	r2 := radius * radius

	var out []int
	for cy := center.Y - rings; cy <= center.Y+rings; cy++ {
		for cx := center.X - rings; cx <= center.X+rings; cx++ {
			for _, e := range g.cells[cellKey{X: cx, Y: cy}] {
				if e.kind != kind {
					continue
				}
				a := g.agent(pop, e)
				if !a.Alive {
					continue
				}
				if a.Pos.DistanceSquared(pos) <= r2 {
					out = append(out, e.index)
				}
			}
		}
	}
	return out
}

func (g *SpatialGrid) cellFor(pos Vec2) cellKey {
	return cellKey{
		X: int(math.Floor(pos.X / g.cellSize)),
		Y: int(math.Floor(pos.Y / g.cellSize)),
	}
}

func (g *SpatialGrid) agent(pop *Population, e gridEntry) *Agent {
	if e.kind == Prey {
		return &pop.Prey[e.index]
	}
	return &pop.Predators[e.index]
}
