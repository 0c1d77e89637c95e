package systems

import (
	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
)

// DetectEmergency scores how much the current context looks like the player
// fleeing rather than exploring. Three signals are blended: low health,
// rapid repeat warping, and nearby danger. The result is capped at 1.0.
// A nil context scores 0 (no relief in static fallback mode).
func DetectEmergency(ctx *components.WarpContext, lastWarpTime float64) float64 {
	if ctx == nil {
		return 0
	}
	cfg := config.Cfg()

	score := 0.0

	if ctx.Health < cfg.Emergency.LowHealthThreshold {
		score += cfg.Emergency.HealthWeight
	}

	// A restored profile can carry a LastWarpTime ahead of a fresh session
	// clock; a negative delta means no recent warp, not a rapid repeat.
	if delta := ctx.Now - lastWarpTime; lastWarpTime > 0 && delta >= 0 && delta < cfg.Emergency.PanicWindowSec {
		score += cfg.Emergency.ChainWeight
	}

	if n := len(ctx.NearbyDangers); n > 0 {
		frac := float64(n) / float64(cfg.Emergency.DangerSaturation)
		if frac > 1 {
			frac = 1
		}
		score += frac * cfg.Emergency.DangerWeight
	}

	if score > 1 {
		score = 1
	}
	return score
}
