// Package warp orchestrates the warp lifecycle: it owns the energy pool and
// the learned route memory, runs the idle/warping/arrived state machine,
// and notifies presentation hooks on transitions.
package warp

import (
	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
	"github.com/pthm-cable/orbithop/systems"
)

// PlayerModel is the subsystem's read view of the player, plus the single
// mutation it performs: relocating the player on arrival.
type PlayerModel interface {
	Position() components.Vec2
	SetPosition(components.Vec2)
	Health() float64 // 0-100
	NearbyDangers() []components.Danger
}

// Subsystem is the explicit owned instance of the warp mechanic. The
// composition root constructs one and hands it to the call sites that need
// it; there are no ambient globals. Energy and memory are mutated only
// through its entry points.
type Subsystem struct {
	energy   components.EnergyPool
	memory   *systems.RouteMemory
	hooks    Hooks
	state    components.WarpState
	attempt  *components.WarpAttempt
	selected *components.Destination
	clock    float64
	unlocked bool
}

// New creates a subsystem with a fresh memory and a full energy pool sized
// from config. A nil hooks falls back to NoopHooks.
func New(hooks Hooks) *Subsystem {
	return NewWithMemory(hooks, systems.NewRouteMemory())
}

// NewWithMemory creates a subsystem around an existing memory, typically
// one restored from a saved snapshot.
func NewWithMemory(hooks Hooks, memory *systems.RouteMemory) *Subsystem {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	if memory == nil {
		memory = systems.NewRouteMemory()
	}
	cfg := config.Cfg()
	return &Subsystem{
		energy:   components.NewEnergyPool(cfg.Energy.Initial, cfg.Energy.Max, cfg.Energy.RegenPerSecond),
		memory:   memory,
		hooks:    hooks,
		state:    components.StateIdle,
		unlocked: true,
	}
}

// Update advances the subsystem by one frame. Regeneration runs before the
// in-flight tick and before any commit the caller makes this frame, so a
// warp is never starved by same-frame consumption. Regeneration is
// suspended while a warp is in flight.
func (s *Subsystem) Update(dt float64, player PlayerModel) {
	if dt < 0 {
		dt = 0
	}
	s.clock += dt
	if s.state != components.StateWarping {
		s.energy.Regenerate(dt)
	}
	s.tick(dt, player)
}

// Quote prices a warp to dest from the player's current position. With a
// nil context the learned multipliers are skipped and the quote is the
// plain physics baseline (used by UI previews). Read-only.
func (s *Subsystem) Quote(dest components.Destination, player PlayerModel, ctx *components.WarpContext) float64 {
	source := player.Position()
	distance := source.Dist(dest.Pos)
	if ctx == nil {
		return systems.Quote(distance, nil, nil, nil, s.memory)
	}
	stamped := s.stampContext(ctx)
	return systems.Quote(distance, &source, &dest, stamped, s.memory)
}

// ContextFrom samples the player situation into a warp context stamped with
// the subsystem clock. Convenience for frame-loop callers.
func (s *Subsystem) ContextFrom(player PlayerModel) *components.WarpContext {
	return &components.WarpContext{
		Health:        player.Health(),
		NearbyDangers: player.NearbyDangers(),
		Now:           s.clock,
	}
}

// SetUnlocked gates the whole mechanic, e.g. until the story unlocks it.
func (s *Subsystem) SetUnlocked(unlocked bool) {
	s.unlocked = unlocked
}

// Memory exposes the learned state for persistence and telemetry readers.
// Callers must not mutate it directly.
func (s *Subsystem) Memory() *systems.RouteMemory {
	return s.memory
}

// Energy returns a copy of the current pool for HUD readouts.
func (s *Subsystem) Energy() components.EnergyPool {
	return s.energy
}

// Clock returns the subsystem's accumulated game-clock seconds.
func (s *Subsystem) Clock() float64 {
	return s.clock
}

// stampContext copies ctx with Now pinned to the subsystem clock, so chain
// and panic timing are measured on the clock the machine itself advances.
func (s *Subsystem) stampContext(ctx *components.WarpContext) *components.WarpContext {
	if ctx == nil {
		return nil
	}
	stamped := *ctx
	stamped.Now = s.clock
	return &stamped
}
