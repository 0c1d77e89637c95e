package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
	"github.com/pthm-cable/orbithop/systems"
)

func init() {
	config.MustInit("")
}

// seededMemory builds a memory with a few warps worth of learned state.
func seededMemory() *systems.RouteMemory {
	mem := systems.NewRouteMemory()
	source := components.Vec2{X: 50, Y: 50}
	mars := components.Destination{ID: "mars", Pos: components.Vec2{X: 50, Y: 3050}, Discovered: true}
	venus := components.Destination{ID: "venus", Pos: components.Vec2{X: 4050, Y: 50}, Discovered: true}

	for i := 0; i < 5; i++ {
		mem.RecordWarp(source, mars, 40, &components.WarpContext{Health: 100, Now: float64(i+1) * 60})
	}
	mem.RecordWarp(source, venus, 38, &components.WarpContext{Health: 100, Now: 400})
	mem.RecordFailedAttempt("mars", 25, nil)
	return mem
}

func TestSnapshotRoundTrip(t *testing.T) {
	mem := seededMemory()
	snap := CaptureSnapshot(mem, 500)

	tmpDir := t.TempDir()
	path, err := SaveSnapshot(snap, tmpDir)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	restored := loaded.Restore()

	if len(restored.Routes) != len(mem.Routes) {
		t.Errorf("routes = %d, want %d", len(restored.Routes), len(mem.Routes))
	}
	for key, route := range mem.Routes {
		got, ok := restored.Routes[key]
		if !ok {
			t.Fatalf("route %+v missing after round trip", key)
		}
		if got.Uses != route.Uses || got.TotalCostPaid != route.TotalCostPaid {
			t.Errorf("route %+v = %+v, want %+v", key, got, route)
		}
	}

	if restored.Behavior != mem.Behavior {
		t.Errorf("behavior = %+v, want %+v", restored.Behavior, mem.Behavior)
	}

	for id, aff := range mem.Affinities {
		got, ok := restored.Affinities[id]
		if !ok {
			t.Fatalf("affinity %s missing after round trip", id)
		}
		if diff := got.Affinity - aff.Affinity; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("affinity %s = %f, want %f", id, got.Affinity, aff.Affinity)
		}
		if got.Visits != aff.Visits {
			t.Errorf("visits %s = %d, want %d", id, got.Visits, aff.Visits)
		}
	}

	if restored.Efficiency.OptimalRoutes != mem.Efficiency.OptimalRoutes {
		t.Errorf("optimal routes = %d, want %d", restored.Efficiency.OptimalRoutes, mem.Efficiency.OptimalRoutes)
	}
	if len(restored.Efficiency.LearningCurve) != len(mem.Efficiency.LearningCurve) {
		t.Errorf("curve length = %d, want %d", len(restored.Efficiency.LearningCurve), len(mem.Efficiency.LearningCurve))
	}
	if restored.Emergencies != mem.Emergencies {
		t.Errorf("emergencies = %+v, want %+v", restored.Emergencies, mem.Emergencies)
	}

	// Failed attempts are debug-only and intentionally not persisted.
	if restored.FailedAttempts != 0 {
		t.Errorf("failed attempts should not persist, got %d", restored.FailedAttempts)
	}
}

// Partially missing blobs restore with every absent field defaulted.
func TestDecodeSnapshot_MissingFieldsDefault(t *testing.T) {
	blob := []byte(`{"version": 1, "behavior_profile": {"total_warps": 7}}`)

	snap, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	mem := snap.Restore()

	if mem.Behavior.TotalWarps != 7 {
		t.Errorf("total warps = %d, want 7", mem.Behavior.TotalWarps)
	}
	if len(mem.Routes) != 0 || len(mem.Affinities) != 0 {
		t.Error("absent tables should restore empty, not nil-panic")
	}
	if mem.Efficiency.AdaptationLevel != 0 {
		t.Errorf("adaptation = %f, want 0 default", mem.Efficiency.AdaptationLevel)
	}

	// A defaulted memory must still serve neutral lookups.
	if got := mem.FamiliarityBonus(components.Vec2{}, "anywhere"); got != 1.0 {
		t.Errorf("familiarity on defaulted memory = %f, want 1.0", got)
	}
}

func TestDecodeSnapshot_CorruptBlob(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`{"version": `)); err == nil {
		t.Error("expected an error for a truncated blob")
	}

	// The caller recovers by starting fresh; Restore on nil must be safe.
	var snap *Snapshot
	mem := snap.Restore()
	if mem == nil || len(mem.Routes) != 0 {
		t.Error("nil snapshot should restore a usable fresh memory")
	}
}

// Unknown top-level fields survive a decode/encode round trip.
func TestSnapshot_PreservesUnknownFields(t *testing.T) {
	blob := []byte(`{
		"version": 1,
		"behavior_profile": {"total_warps": 3},
		"mod_data": {"custom": [1, 2, 3]},
		"future_field": "hello"
	}`)

	snap, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(snap.Extra) != 2 {
		t.Fatalf("extra fields = %d, want 2", len(snap.Extra))
	}

	out, err := snap.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("re-encoded blob is not valid JSON: %v", err)
	}
	if _, ok := raw["mod_data"]; !ok {
		t.Error("mod_data was dropped on re-encode")
	}
	if _, ok := raw["future_field"]; !ok {
		t.Error("future_field was dropped on re-encode")
	}
	if _, ok := raw["behavior_profile"]; !ok {
		t.Error("known fields must still be present")
	}
}
