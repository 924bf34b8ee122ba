package simapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"predsim/internal/protocol"
	"predsim/internal/sim/config"
	"predsim/internal/sim/control"
	"predsim/internal/sim/engine"
)

// Handle identifies one simulation instance across the boundary. Handles are
// never reused within a registry generation.
type Handle int64

var (
	ErrUnknownHandle = errors.New("simapi: unknown handle")
	ErrHandlesLive   = errors.New("simapi: reset while handles are live")
)

// Registry maps opaque handles to owned controllers. It is the only layer
// that knows about handles; the engine core deals in ordinary objects. The
// registry also owns the process-wide shared state (id counter, RNG stream
// counter) that ResetGlobalState clears.
type Registry struct {
	mu     sync.Mutex
	next   Handle
	live   map[Handle]*control.Controller
	shared *engine.SharedState
}

func NewRegistry() *Registry {
	return &Registry{
		live:   make(map[Handle]*control.Controller),
		shared: engine.NewSharedState(),
	}
}

// Create validates the configuration and produces a handle. On validation
// failure no handle is produced.
func (r *Registry) Create(cfg config.Config) (Handle, error) {
	c, err := control.New(cfg, r.shared)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h := r.next
	r.live[h] = c
	return h, nil
}

// CreateFromJSON accepts the field-by-name config document host bindings
// send, validates it against the boundary schema and overlays it on
// Defaults, so partial documents get the baseline scenario.
func (r *Registry) CreateFromJSON(raw []byte) (Handle, error) {
	if err := protocol.ValidateConfigJSON(raw); err != nil {
		return 0, err
	}
	cfg := config.Defaults()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return 0, fmt.Errorf("config json: %w", err)
	}
	return r.Create(cfg)
}

func (r *Registry) Initialize(h Handle) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.Initialize()
}

func (r *Registry) Step(h Handle) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.Step()
}

// Run blocks the caller until all steps completed. steps <= 0 means the
// configured simulation_steps.
func (r *Registry) Run(h Handle, steps int) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.Run(steps)
}

func (r *Registry) Pause(h Handle) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.Pause()
}

func (r *Registry) Resume(h Handle) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.Resume()
}

func (r *Registry) End(h Handle) error {
	c, err := r.get(h)
	if err != nil {
		return err
	}
	return c.End()
}

func (r *Registry) Status(h Handle) (protocol.StatusMsg, error) {
	c, err := r.get(h)
	if err != nil {
		return protocol.StatusMsg{}, err
	}
	return StatusMsg(c.Status()), nil
}

func (r *Registry) Results(h Handle) (protocol.ResultMsg, error) {
	c, err := r.get(h)
	if err != nil {
		return protocol.ResultMsg{}, err
	}
	return ResultMsg(c.Results()), nil
}

// Destroy releases the instance and invalidates the handle.
func (r *Registry) Destroy(h Handle) error {
	r.mu.Lock()
	c, ok := r.live[h]
	delete(r.live, h)
	r.mu.Unlock()
	if !ok {
		return ErrUnknownHandle
	}
	c.Destroy()
	return nil
}

func (r *Registry) LiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// ResetGlobalState clears the shared id and stream counters plus the handle
// counter. It fails while any handle is live: resetting under a live
// instance would corrupt its id sequence.
func (r *Registry) ResetGlobalState() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.live) > 0 {
		return ErrHandlesLive
	}
	r.shared.Reset()
	r.next = 0
	return nil
}

func (r *Registry) get(h Handle) (*control.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.live[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return c, nil
}
