package engine

import "sync/atomic"

// SharedState holds the process-wide mutable pieces every instance draws
// from: the agent id source and the counter used to derive per-instance RNG
// streams. Keeping them in an explicitly constructed object (instead of
// package globals) lets the boundary layer reset them between runs for
// reproducibility. Reset must not race with live instances.
type SharedState struct {
	nextAgentID atomic.Uint64
	nextStream  atomic.Uint64
}

func NewSharedState() *SharedState {
	return &SharedState{}
}

// NextAgentID returns a fresh agent id, starting at 1.
func (s *SharedState) NextAgentID() uint64 {
	return s.nextAgentID.Add(1)
}

// NextStream returns the next RNG stream number. Instances created in the
// same order after a reset receive the same streams, which is what makes
// same-seed runs bit-identical across create/destroy cycles.
func (s *SharedState) NextStream() uint64 {
	return s.nextStream.Add(1)
}

func (s *SharedState) Reset() {
	s.nextAgentID.Store(0)
	s.nextStream.Store(0)
}
