package warp

import (
	"log/slog"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
)

// Rejection reasons passed to OnWarpFailed.
const (
	FailLocked             = "warp locked"
	FailUndiscovered       = "destination not discovered"
	FailAlreadyWarping     = "already warping"
	FailInsufficientEnergy = "insufficient energy"
)

// CanCommit reports whether a commit to dest would succeed right now:
// the mechanic is unlocked, dest is discovered, no warp is in flight, and
// the quoted cost is affordable.
func (s *Subsystem) CanCommit(dest components.Destination, player PlayerModel, ctx *components.WarpContext) bool {
	if !s.unlocked || !dest.Discovered {
		return false
	}
	if s.state != components.StateIdle && s.state != components.StateSelecting {
		return false
	}
	return s.energy.HasEnergy(s.Quote(dest, player, ctx))
}

// Commit starts a warp to dest. On success it consumes the quoted energy,
// captures the in-flight attempt (cost and context included), transitions
// to Warping, and fires OnWarpCommitted. A rejection is an expected game
// outcome, not an error: insufficient energy records a failed attempt
// (shortfall only, the player model is not penalized) and fires
// OnWarpFailed; committing while already warping is a defensive no-op.
func (s *Subsystem) Commit(dest components.Destination, player PlayerModel, ctx *components.WarpContext) bool {
	if s.state != components.StateIdle && s.state != components.StateSelecting {
		slog.Debug("commit rejected", "reason", FailAlreadyWarping, "state", s.state.String())
		return false
	}
	if !s.unlocked {
		s.hooks.OnWarpFailed(FailLocked)
		return false
	}
	if !dest.Discovered {
		s.hooks.OnWarpFailed(FailUndiscovered)
		return false
	}

	stamped := s.stampContext(ctx)
	cost := s.Quote(dest, player, stamped)

	if !s.energy.Consume(cost) {
		s.memory.RecordFailedAttempt(dest.ID, cost-s.energy.Current, stamped)
		s.hooks.OnWarpFailed(FailInsufficientEnergy)
		return false
	}

	s.attempt = &components.WarpAttempt{
		Source:    player.Position(),
		Target:    dest,
		Cost:      cost,
		Context:   stamped,
		StartedAt: s.clock,
	}
	s.state = components.StateWarping
	s.selected = nil
	s.hooks.OnWarpCommitted(cost)

	slog.Debug("warp committed",
		"dest", string(dest.ID),
		"cost", cost,
		"energy_left", s.energy.Current,
	)
	return true
}

// tick advances the in-flight animation. On reaching full progress the
// machine transitions to Arrived, relocates the player, records the warp
// with the attempt's captured cost and context (learning happens exactly
// once, at completion), clears the attempt, and fires OnWarpArrived.
// Arrived drains back to Idle on the next tick.
func (s *Subsystem) tick(dt float64, player PlayerModel) {
	switch s.state {
	case components.StateWarping:
		if s.attempt == nil {
			// Should be unreachable; recover to a safe state.
			s.state = components.StateIdle
			return
		}
		s.attempt.Progress += dt / config.Cfg().Warp.DurationSec
		if s.attempt.Progress < 1 {
			return
		}
		s.attempt.Progress = 1
		s.state = components.StateArrived

		attempt := *s.attempt
		s.attempt = nil

		player.SetPosition(attempt.Target.Pos)

		recordCtx := attempt.Context
		if recordCtx == nil {
			recordCtx = &components.WarpContext{Health: 100, Now: s.clock}
		}
		s.memory.RecordWarp(attempt.Source, attempt.Target, attempt.Cost, recordCtx)
		s.hooks.OnWarpArrived()

		slog.Debug("warp arrived",
			"dest", string(attempt.Target.ID),
			"cost", attempt.Cost,
			"flight_time", s.clock-attempt.StartedAt,
		)

	case components.StateArrived:
		s.state = components.StateIdle
	}
}

// State returns the current lifecycle state.
func (s *Subsystem) State() components.WarpState {
	return s.state
}

// Progress returns the in-flight animation progress, 0 when idle.
func (s *Subsystem) Progress() float64 {
	if s.attempt == nil {
		return 0
	}
	return s.attempt.Progress
}
