package components

import "math"

// RouteKey identifies a travel route as (quantized source cell, destination).
// It is a value type so it can key a map; equality is structural.
type RouteKey struct {
	CellX, CellY int32
	Dest         DestinationID
}

// MakeRouteKey quantizes the source position onto a grid of the given pitch
// and pairs it with the destination.
func MakeRouteKey(source Vec2, dest DestinationID, pitch float64) RouteKey {
	if pitch <= 0 {
		pitch = 1
	}
	return RouteKey{
		CellX: int32(math.Floor(source.X / pitch)),
		CellY: int32(math.Floor(source.Y / pitch)),
		Dest:  dest,
	}
}

// RouteStat accumulates usage of a single route. Created lazily on first
// use, evicted only en masse during consolidation.
type RouteStat struct {
	Uses          uint32
	TotalCostPaid float64
}

// AverageCost returns the mean cost paid on this route, or 0 for an unused one.
func (s *RouteStat) AverageCost() float64 {
	if s.Uses == 0 {
		return 0
	}
	return s.TotalCostPaid / float64(s.Uses)
}

// PlanetAffinity tracks how disproportionately often a destination is chosen.
// Affinity is this destination's share of all visits, renormalized on every
// visit anywhere.
type PlanetAffinity struct {
	Visits        uint32
	LastVisitTime float64
	Affinity      float64 // 0-1
}

// BehaviorProfile holds process-wide counters describing how the player warps.
// SkillLevel is derived from the other fields, never set directly.
type BehaviorProfile struct {
	TotalWarps       uint32
	EmergencyWarps   uint32
	ExplorationWarps uint32
	ReturnWarps      uint32
	WarpChains       uint32 // rapid repeats
	LastWarpTime     float64
	SkillLevel       float64 // 0-1, derived
}

// CostSample is one learning-curve entry.
type CostSample struct {
	Time       float64
	Cost       float64
	WasOptimal bool
}

// EfficiencyMetrics tracks how cost-efficiently the player travels.
// LearningCurve is a bounded ring; AdaptationLevel is derived from the
// trend of recent costs.
type EfficiencyMetrics struct {
	WastedEnergy    float64
	OptimalRoutes   uint32
	LearningCurve   []CostSample
	AdaptationLevel float64 // 0-1, derived
}

// EmergencyPatterns counts panic-flavored warps.
type EmergencyPatterns struct {
	LowHealthWarps    uint32
	PanicWarps        uint32
	LastEmergencyTime float64
}
