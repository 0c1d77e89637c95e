// Package telemetry persists the learned warp state and exports warp
// telemetry for analysis.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// SaveKey is the namespaced key under which the blob is stored by the
// game's generic save/load collaborator.
const SaveKey = "orbithop.warp"

// Snapshot is the opaque persisted blob of everything the subsystem has
// learned. Every field defaults independently on load, so partially missing
// or older blobs restore cleanly; unknown top-level fields survive a
// load/save round trip via Extra.
type Snapshot struct {
	Version int     `json:"version"`
	SavedAt float64 `json:"saved_at"`

	Routes      []RouteRecord             `json:"routes,omitempty"`
	Behavior    BehaviorRecord            `json:"behavior_profile"`
	Affinities  map[string]AffinityRecord `json:"planet_affinity,omitempty"`
	Efficiency  EfficiencyRecord          `json:"efficiency_metrics"`
	Emergencies EmergencyRecord           `json:"emergency_patterns"`

	// Extra holds unknown top-level fields found in the blob, preserved
	// opaquely for forward compatibility.
	Extra map[string]json.RawMessage `json:"-"`
}

// RouteRecord is one route's persisted form.
type RouteRecord struct {
	CellX     int32   `json:"cell_x"`
	CellY     int32   `json:"cell_y"`
	Dest      string  `json:"dest"`
	Uses      uint32  `json:"uses"`
	TotalCost float64 `json:"total_cost"`
}

// BehaviorRecord is the persisted behavior profile.
type BehaviorRecord struct {
	TotalWarps       uint32  `json:"total_warps"`
	EmergencyWarps   uint32  `json:"emergency_warps"`
	ExplorationWarps uint32  `json:"exploration_warps"`
	ReturnWarps      uint32  `json:"return_warps"`
	WarpChains       uint32  `json:"warp_chains"`
	LastWarpTime     float64 `json:"last_warp_time"`
	SkillLevel       float64 `json:"skill_level"`
}

// AffinityRecord is one destination's persisted affinity.
type AffinityRecord struct {
	Visits        uint32  `json:"visits"`
	LastVisitTime float64 `json:"last_visit_time"`
	Affinity      float64 `json:"affinity"`
}

// EfficiencyRecord is the persisted efficiency metrics.
type EfficiencyRecord struct {
	WastedEnergy    float64      `json:"wasted_energy"`
	OptimalRoutes   uint32       `json:"optimal_routes"`
	LearningCurve   []CurvePoint `json:"learning_curve,omitempty"`
	AdaptationLevel float64      `json:"adaptation_level"`
}

// CurvePoint is one persisted learning-curve sample.
type CurvePoint struct {
	Time       float64 `json:"time"`
	Cost       float64 `json:"cost"`
	WasOptimal bool    `json:"was_optimal"`
}

// EmergencyRecord is the persisted emergency patterns.
type EmergencyRecord struct {
	LowHealthWarps    uint32  `json:"low_health_warps"`
	PanicWarps        uint32  `json:"panic_warps"`
	LastEmergencyTime float64 `json:"last_emergency_time"`
}

// knownKeys are the snapshot's own top-level JSON keys; everything else
// lands in Extra.
var knownKeys = map[string]bool{
	"version":            true,
	"saved_at":           true,
	"routes":             true,
	"behavior_profile":   true,
	"planet_affinity":    true,
	"efficiency_metrics": true,
	"emergency_patterns": true,
}

// CaptureSnapshot copies the learned state out of memory.
func CaptureSnapshot(mem *systems.RouteMemory, now float64) *Snapshot {
	snap := &Snapshot{
		Version: SnapshotVersion,
		SavedAt: now,
		Behavior: BehaviorRecord{
			TotalWarps:       mem.Behavior.TotalWarps,
			EmergencyWarps:   mem.Behavior.EmergencyWarps,
			ExplorationWarps: mem.Behavior.ExplorationWarps,
			ReturnWarps:      mem.Behavior.ReturnWarps,
			WarpChains:       mem.Behavior.WarpChains,
			LastWarpTime:     mem.Behavior.LastWarpTime,
			SkillLevel:       mem.Behavior.SkillLevel,
		},
		Efficiency: EfficiencyRecord{
			WastedEnergy:    mem.Efficiency.WastedEnergy,
			OptimalRoutes:   mem.Efficiency.OptimalRoutes,
			AdaptationLevel: mem.Efficiency.AdaptationLevel,
		},
		Emergencies: EmergencyRecord{
			LowHealthWarps:    mem.Emergencies.LowHealthWarps,
			PanicWarps:        mem.Emergencies.PanicWarps,
			LastEmergencyTime: mem.Emergencies.LastEmergencyTime,
		},
	}

	for key, route := range mem.Routes {
		snap.Routes = append(snap.Routes, RouteRecord{
			CellX:     key.CellX,
			CellY:     key.CellY,
			Dest:      string(key.Dest),
			Uses:      route.Uses,
			TotalCost: route.TotalCostPaid,
		})
	}

	if len(mem.Affinities) > 0 {
		snap.Affinities = make(map[string]AffinityRecord, len(mem.Affinities))
		for id, aff := range mem.Affinities {
			snap.Affinities[string(id)] = AffinityRecord{
				Visits:        aff.Visits,
				LastVisitTime: aff.LastVisitTime,
				Affinity:      aff.Affinity,
			}
		}
	}

	for _, sample := range mem.Efficiency.LearningCurve {
		snap.Efficiency.LearningCurve = append(snap.Efficiency.LearningCurve, CurvePoint{
			Time:       sample.Time,
			Cost:       sample.Cost,
			WasOptimal: sample.WasOptimal,
		})
	}

	return snap
}

// Restore rebuilds a route memory from the snapshot. Absent fields restore
// to their neutral zero values; a nil snapshot yields a fresh memory. Bad
// save data never prevents startup.
func (s *Snapshot) Restore() *systems.RouteMemory {
	mem := systems.NewRouteMemory()
	if s == nil {
		return mem
	}

	for _, rec := range s.Routes {
		key := components.RouteKey{CellX: rec.CellX, CellY: rec.CellY, Dest: components.DestinationID(rec.Dest)}
		mem.Routes[key] = &components.RouteStat{Uses: rec.Uses, TotalCostPaid: rec.TotalCost}
	}

	for id, rec := range s.Affinities {
		mem.Affinities[components.DestinationID(id)] = &components.PlanetAffinity{
			Visits:        rec.Visits,
			LastVisitTime: rec.LastVisitTime,
			Affinity:      rec.Affinity,
		}
	}

	mem.Behavior = components.BehaviorProfile{
		TotalWarps:       s.Behavior.TotalWarps,
		EmergencyWarps:   s.Behavior.EmergencyWarps,
		ExplorationWarps: s.Behavior.ExplorationWarps,
		ReturnWarps:      s.Behavior.ReturnWarps,
		WarpChains:       s.Behavior.WarpChains,
		LastWarpTime:     s.Behavior.LastWarpTime,
		SkillLevel:       s.Behavior.SkillLevel,
	}

	mem.Efficiency = components.EfficiencyMetrics{
		WastedEnergy:    s.Efficiency.WastedEnergy,
		OptimalRoutes:   s.Efficiency.OptimalRoutes,
		AdaptationLevel: s.Efficiency.AdaptationLevel,
	}
	for _, point := range s.Efficiency.LearningCurve {
		mem.Efficiency.LearningCurve = append(mem.Efficiency.LearningCurve, components.CostSample{
			Time:       point.Time,
			Cost:       point.Cost,
			WasOptimal: point.WasOptimal,
		})
	}

	mem.Emergencies = components.EmergencyPatterns{
		LowHealthWarps:    s.Emergencies.LowHealthWarps,
		PanicWarps:        s.Emergencies.PanicWarps,
		LastEmergencyTime: s.Emergencies.LastEmergencyTime,
	}

	return mem
}

// Encode serializes the snapshot, merging preserved unknown fields back in.
func (s *Snapshot) Encode() ([]byte, error) {
	type alias Snapshot
	data, err := json.Marshal((*alias)(s))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if len(s.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, fmt.Errorf("remarshal snapshot: %w", err)
	}
	for key, raw := range s.Extra {
		if !knownKeys[key] {
			merged[key] = raw
		}
	}
	return json.Marshal(merged)
}

// DecodeSnapshot parses a persisted blob. Unknown top-level fields are kept
// in Extra; missing known fields default. A syntactically broken blob is
// the only hard failure.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	type alias Snapshot
	var snap alias
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot fields: %w", err)
	}
	for key := range raw {
		if knownKeys[key] {
			continue
		}
		if snap.Extra == nil {
			snap.Extra = make(map[string]json.RawMessage)
		}
		snap.Extra[key] = raw[key]
	}

	return (*Snapshot)(&snap), nil
}

// SaveSnapshot writes a snapshot to disk. Returns the filepath where it was
// saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := snapshot.Encode()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.json", SaveKey))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}
