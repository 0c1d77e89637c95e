package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
)

// RouteMemory is the bounded associative store of route statistics, player
// behavior counters, and per-destination affinity. It learns from completed
// warps via RecordWarp and is compacted on a cadence by Consolidate.
//
// Lookups never fail: unknown keys yield neutral multipliers (1.0 or the
// configured first-visit bonus) so the cost engine degrades gracefully for
// a fresh player.
type RouteMemory struct {
	Routes      map[components.RouteKey]*components.RouteStat
	Affinities  map[components.DestinationID]*components.PlanetAffinity
	Behavior    components.BehaviorProfile
	Efficiency  components.EfficiencyMetrics
	Emergencies components.EmergencyPatterns

	// FailedAttempts is a debug counter only; failed commits do not
	// penalize the learned player model.
	FailedAttempts uint32
}

// NewRouteMemory creates an empty memory with neutral defaults.
func NewRouteMemory() *RouteMemory {
	return &RouteMemory{
		Routes:     make(map[components.RouteKey]*components.RouteStat),
		Affinities: make(map[components.DestinationID]*components.PlanetAffinity),
	}
}

// FamiliarityBonus returns the repeated-use discount for the route from
// source to dest: 1.0 for an unknown route, falling linearly to the
// familiarity floor at the saturation use count.
func (m *RouteMemory) FamiliarityBonus(source components.Vec2, dest components.DestinationID) float64 {
	cfg := config.Cfg()

	key := components.MakeRouteKey(source, dest, cfg.Routes.GridPitch)
	route, ok := m.Routes[key]
	if !ok || route.Uses == 0 {
		return 1.0
	}

	uses := route.Uses
	if uses > cfg.Routes.FamiliaritySaturation {
		uses = cfg.Routes.FamiliaritySaturation
	}
	span := 1.0 - cfg.Routes.FamiliarityFloor
	return 1.0 - span*float64(uses)/float64(cfg.Routes.FamiliaritySaturation)
}

// MasteryMultiplier blends the optimal-route ratio, the calm (non-emergency)
// ratio, and the exploration ratio into a single discount in
// [mastery floor, 1.0]. A fresh profile is neutral.
func (m *RouteMemory) MasteryMultiplier() float64 {
	total := m.Behavior.TotalWarps
	if total == 0 {
		return 1.0
	}
	cfg := config.Cfg()

	optimalRatio := float64(m.Efficiency.OptimalRoutes) / float64(total)
	calmRatio := 1.0 - float64(m.Behavior.EmergencyWarps)/float64(total)
	explorationRatio := float64(m.Behavior.ExplorationWarps) / float64(total)

	score := optimalRatio*cfg.Mastery.OptimalWeight +
		calmRatio*cfg.Mastery.CalmWeight +
		explorationRatio*cfg.Mastery.ExplorationWeight
	if score > 1 {
		score = 1
	}

	return 1.0 - (1.0-cfg.Mastery.Floor)*score
}

// ExplorationBonus rewards visiting somewhere new: the first-visit bonus
// for a never-visited destination, the early-visit bonus while visits stay
// at or below the early cap, neutral thereafter.
func (m *RouteMemory) ExplorationBonus(dest components.DestinationID) float64 {
	cfg := config.Cfg()

	aff, ok := m.Affinities[dest]
	switch {
	case !ok || aff.Visits == 0:
		return cfg.Exploration.FirstVisitBonus
	case aff.Visits <= cfg.Exploration.EarlyVisitMax:
		return cfg.Exploration.EarlyVisitBonus
	}
	return 1.0
}

// AffinityBonus discounts destinations the player keeps coming back to:
// 1 - affinity * max_discount, so a destination holding all visits gets the
// full discount and an unknown one is neutral.
func (m *RouteMemory) AffinityBonus(dest components.DestinationID) float64 {
	aff, ok := m.Affinities[dest]
	if !ok {
		return 1.0
	}
	return 1.0 - aff.Affinity*config.Cfg().Affinity.MaxDiscount
}

// RecordWarp feeds one completed warp into the learned aggregates. It is
// called exactly once per completed warp, at arrival. Every
// consolidate_every warps it triggers Consolidate.
func (m *RouteMemory) RecordWarp(source components.Vec2, dest components.Destination, actualCost float64, ctx *components.WarpContext) {
	if ctx == nil {
		ctx = &components.WarpContext{Health: 100}
	}
	cfg := config.Cfg()

	// Route usage
	key := components.MakeRouteKey(source, dest.ID, cfg.Routes.GridPitch)
	route, ok := m.Routes[key]
	if !ok {
		route = &components.RouteStat{}
		m.Routes[key] = route
	}
	route.Uses++
	route.TotalCostPaid += actualCost

	// Behavior counters. Classification reads the profile as it was before
	// this warp, so LastWarpTime updates last. A restored profile can carry
	// a LastWarpTime ahead of a fresh session clock; a negative delta means
	// no recent warp.
	prevLast := m.Behavior.LastWarpTime
	delta := ctx.Now - prevLast
	chained := m.Behavior.TotalWarps > 0 && delta >= 0 && delta < cfg.Learning.ChainWindowSec
	m.Behavior.TotalWarps++
	if chained {
		m.Behavior.WarpChains++
	}

	priorVisits := uint32(0)
	if aff, ok := m.Affinities[dest.ID]; ok {
		priorVisits = aff.Visits
	}
	if priorVisits == 0 {
		m.Behavior.ExplorationWarps++
	}
	if priorVisits >= cfg.Warp.ReturnVisitThreshold {
		m.Behavior.ReturnWarps++
	}

	if score := DetectEmergency(ctx, prevLast); score > cfg.Emergency.TriggerScore {
		m.Behavior.EmergencyWarps++
		if ctx.Health < cfg.Emergency.LowHealthThreshold {
			m.Emergencies.LowHealthWarps++
		}
		if prevLast > 0 && delta >= 0 && delta < cfg.Emergency.PanicWindowSec {
			m.Emergencies.PanicWarps++
		}
		m.Emergencies.LastEmergencyTime = ctx.Now
	}

	m.Behavior.LastWarpTime = ctx.Now

	// Destination affinity, renormalized across every destination.
	aff, ok := m.Affinities[dest.ID]
	if !ok {
		aff = &components.PlanetAffinity{}
		m.Affinities[dest.ID] = aff
	}
	aff.Visits++
	aff.LastVisitTime = ctx.Now
	m.renormalizeAffinities()

	// Efficiency: judge this warp against the physics baseline.
	base := BaseWarpCost(source.Dist(dest.Pos))
	optimalCeiling := base * cfg.Learning.OptimalFraction
	wasOptimal := actualCost <= optimalCeiling
	if wasOptimal {
		m.Efficiency.OptimalRoutes++
	} else {
		m.Efficiency.WastedEnergy += actualCost - optimalCeiling
	}

	m.Efficiency.LearningCurve = append(m.Efficiency.LearningCurve, components.CostSample{
		Time:       ctx.Now,
		Cost:       actualCost,
		WasOptimal: wasOptimal,
	})
	if over := len(m.Efficiency.LearningCurve) - cfg.Learning.CurveCapacity; over > 0 {
		m.Efficiency.LearningCurve = m.Efficiency.LearningCurve[over:]
	}
	m.recomputeAdaptation()
	m.recomputeSkill()

	if m.Behavior.TotalWarps%cfg.Learning.ConsolidateEvery == 0 {
		m.Consolidate()
	}
}

// RecordFailedAttempt logs a commit rejected for lack of energy. The
// shortfall informs balancing but never mutates the learned aggregates.
func (m *RouteMemory) RecordFailedAttempt(dest components.DestinationID, shortfall float64, ctx *components.WarpContext) {
	m.FailedAttempts++
	now := 0.0
	if ctx != nil {
		now = ctx.Now
	}
	slog.Debug("warp attempt failed",
		"dest", string(dest),
		"shortfall", shortfall,
		"time", now,
		"failed_attempts", m.FailedAttempts,
	)
}

// Consolidate bounds memory growth: routes used fewer than the prune
// threshold are evicted and the learning curve is truncated to capacity.
func (m *RouteMemory) Consolidate() {
	cfg := config.Cfg()

	pruned := 0
	for key, route := range m.Routes {
		if route.Uses < cfg.Learning.PruneBelowUses {
			delete(m.Routes, key)
			pruned++
		}
	}

	if over := len(m.Efficiency.LearningCurve) - cfg.Learning.CurveCapacity; over > 0 {
		m.Efficiency.LearningCurve = m.Efficiency.LearningCurve[over:]
	}

	if pruned > 0 {
		slog.Debug("memory consolidated",
			"pruned_routes", pruned,
			"remaining_routes", len(m.Routes),
			"curve_len", len(m.Efficiency.LearningCurve),
		)
	}
}

// renormalizeAffinities recomputes every destination's share of total visits.
func (m *RouteMemory) renormalizeAffinities() {
	var total uint32
	for _, aff := range m.Affinities {
		total += aff.Visits
	}
	if total == 0 {
		return
	}
	for _, aff := range m.Affinities {
		aff.Affinity = float64(aff.Visits) / float64(total)
	}
}

// recomputeAdaptation derives the adaptation level from the slope of the
// recent learning-curve costs: falling costs push it toward 1, rising costs
// toward 0, a flat trend sits at 0.5.
func (m *RouteMemory) recomputeAdaptation() {
	cfg := config.Cfg()

	curve := m.Efficiency.LearningCurve
	if len(curve) > cfg.Learning.TrendWindow {
		curve = curve[len(curve)-cfg.Learning.TrendWindow:]
	}
	if len(curve) < 2 {
		m.Efficiency.AdaptationLevel = 0
		return
	}

	xs := make([]float64, len(curve))
	ys := make([]float64, len(curve))
	var mean float64
	for i, sample := range curve {
		xs[i] = float64(i)
		ys[i] = sample.Cost
		mean += sample.Cost
	}
	mean /= float64(len(curve))
	if mean <= 0 {
		m.Efficiency.AdaptationLevel = 0
		return
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)

	// Slope as a fraction of the mean cost per warp; a 10% per-warp drop
	// saturates adaptation.
	level := 0.5 - (slope/mean)*5.0
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.Efficiency.AdaptationLevel = level
}

// recomputeSkill derives the skill level from experience, cost efficiency,
// and how rarely the player warps in a panic.
func (m *RouteMemory) recomputeSkill() {
	total := m.Behavior.TotalWarps
	if total == 0 {
		m.Behavior.SkillLevel = 0
		return
	}

	experience := float64(total) / 100.0
	if experience > 1 {
		experience = 1
	}
	optimalRatio := float64(m.Efficiency.OptimalRoutes) / float64(total)
	calmRatio := 1.0 - float64(m.Behavior.EmergencyWarps)/float64(total)

	skill := experience*0.3 + optimalRatio*0.4 + calmRatio*0.3
	if skill > 1 {
		skill = 1
	}
	if skill < 0 {
		skill = 0
	}
	m.Behavior.SkillLevel = skill
}
