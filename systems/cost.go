// Package systems holds the warp subsystem's logic: cost quoting, learned
// route memory, emergency detection, and targeting.
package systems

import (
	"math"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
)

// BaseWarpCost is the physics floor beneath all learned adjustments:
// max(min_base, floor(distance / unit_distance)).
func BaseWarpCost(distance float64) float64 {
	cfg := config.Cfg()
	if distance < 0 {
		distance = 0
	}
	cost := math.Floor(distance / cfg.Cost.UnitDistance)
	if cost < cfg.Cost.MinBase {
		cost = cfg.Cost.MinBase
	}
	return cost
}

// Quote computes the energy cost of a warp over the given distance.
//
// With any of source, dest, ctx, or mem missing it returns the unmodified
// base cost (static fallback mode, used by UI previews without full
// context). Otherwise the base is scaled by the five learned multipliers,
// clamped so no combination of bonuses makes travel cheaper than
// floor_fraction of base, and floored to an integer cost unit.
//
// Quote is pure given its inputs; memory changes only through RecordWarp.
func Quote(distance float64, source *components.Vec2, dest *components.Destination, ctx *components.WarpContext, mem *RouteMemory) float64 {
	base := BaseWarpCost(distance)
	if source == nil || dest == nil || ctx == nil || mem == nil {
		return base
	}

	cfg := config.Cfg()

	familiarity := mem.FamiliarityBonus(*source, dest.ID)
	mastery := mem.MasteryMultiplier()
	exploration := mem.ExplorationBonus(dest.ID)
	affinity := mem.AffinityBonus(dest.ID)

	emergency := 1.0
	if score := DetectEmergency(ctx, mem.Behavior.LastWarpTime); score > cfg.Emergency.TriggerScore {
		emergency = cfg.Emergency.ReliefBase - score*cfg.Emergency.ReliefScale
	}

	cost := base * familiarity * mastery * emergency * exploration * affinity

	if floor := base * cfg.Cost.FloorFraction; cost < floor {
		cost = floor
	}
	return math.Floor(cost)
}
