package engine

// History accumulates the per-step population counts: one entry per executed
// step, nothing for the initial placement. Append-only; snapshots are copies
// so continued stepping never mutates data already handed out.
type History struct {
	predators []int
	prey      []int
}

func (h *History) Append(predators, prey int) {
	h.predators = append(h.predators, predators)
	h.prey = append(h.prey, prey)
}

func (h *History) Len() int { return len(h.predators) }

// Counts returns independently owned copies of both series.
func (h *History) Counts() (predators, prey []int) {
	predators = make([]int, len(h.predators))
	copy(predators, h.predators)
	prey = make([]int, len(h.prey))
	copy(prey, h.prey)
	return predators, prey
}

// Last returns the most recent entry, or ok=false when nothing has been
// recorded yet.
func (h *History) Last() (predators, prey int, ok bool) {
	if len(h.predators) == 0 {
		return 0, 0, false
	}
	return h.predators[len(h.predators)-1], h.prey[len(h.prey)-1], true
}
