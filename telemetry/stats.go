package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/orbithop/systems"
)

// WarpStats is a point-in-time aggregate of the learned state, suitable for
// periodic console logging.
type WarpStats struct {
	TotalWarps       uint32
	EmergencyWarps   uint32
	ExplorationWarps uint32
	ReturnWarps      uint32
	WarpChains       uint32
	FailedAttempts   uint32
	TrackedRoutes    int
	KnownPlanets     int
	OptimalRate      float64
	WastedEnergy     float64
	SkillLevel       float64
	AdaptationLevel  float64
}

// CollectStats summarizes the route memory.
func CollectStats(mem *systems.RouteMemory) WarpStats {
	stats := WarpStats{
		TotalWarps:       mem.Behavior.TotalWarps,
		EmergencyWarps:   mem.Behavior.EmergencyWarps,
		ExplorationWarps: mem.Behavior.ExplorationWarps,
		ReturnWarps:      mem.Behavior.ReturnWarps,
		WarpChains:       mem.Behavior.WarpChains,
		FailedAttempts:   mem.FailedAttempts,
		TrackedRoutes:    len(mem.Routes),
		KnownPlanets:     len(mem.Affinities),
		WastedEnergy:     mem.Efficiency.WastedEnergy,
		SkillLevel:       mem.Behavior.SkillLevel,
		AdaptationLevel:  mem.Efficiency.AdaptationLevel,
	}
	if stats.TotalWarps > 0 {
		stats.OptimalRate = float64(mem.Efficiency.OptimalRoutes) / float64(stats.TotalWarps)
	}
	return stats
}

// LogStats emits the aggregate via slog.
func (s WarpStats) LogStats() {
	slog.Info("warp stats",
		"warps", s.TotalWarps,
		"emergency", s.EmergencyWarps,
		"exploration", s.ExplorationWarps,
		"returns", s.ReturnWarps,
		"chains", s.WarpChains,
		"failed", s.FailedAttempts,
		"routes", s.TrackedRoutes,
		"planets", s.KnownPlanets,
		"optimal_rate", s.OptimalRate,
		"wasted_energy", s.WastedEnergy,
		"skill", s.SkillLevel,
		"adaptation", s.AdaptationLevel,
	)
}
