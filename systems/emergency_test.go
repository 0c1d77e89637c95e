package systems

import (
	"testing"

	"github.com/pthm-cable/orbithop/components"
)

func TestDetectEmergency_NilContext(t *testing.T) {
	if got := DetectEmergency(nil, 0); got != 0 {
		t.Errorf("nil context score = %f, want 0", got)
	}
}

func TestDetectEmergency_CalmContext(t *testing.T) {
	ctx := &components.WarpContext{Health: 100, Now: 500}
	if got := DetectEmergency(ctx, 100); got != 0 {
		t.Errorf("calm score = %f, want 0", got)
	}
}

// Low health alone contributes its full weight.
func TestDetectEmergency_LowHealthOnly(t *testing.T) {
	ctx := &components.WarpContext{Health: 10, Now: 500}
	got := DetectEmergency(ctx, 100)
	if got < 0.4 {
		t.Errorf("low-health score = %f, want >= 0.4", got)
	}
	if got != 0.4 {
		t.Errorf("low health with no other signals should score exactly 0.4, got %f", got)
	}
}

func TestDetectEmergency_RapidRepeat(t *testing.T) {
	ctx := &components.WarpContext{Health: 100, Now: 102}
	got := DetectEmergency(ctx, 100) // 2s since last warp
	if got != 0.3 {
		t.Errorf("rapid-repeat score = %f, want 0.3", got)
	}
}

// A restored profile's LastWarpTime can be far ahead of a fresh session
// clock; that must not read as a rapid repeat.
func TestDetectEmergency_LastWarpAheadOfClock(t *testing.T) {
	ctx := &components.WarpContext{Health: 100, Now: 2}
	if got := DetectEmergency(ctx, 500); got != 0 {
		t.Errorf("score with last warp ahead of clock = %f, want 0", got)
	}
}

func TestDetectEmergency_DangerScaling(t *testing.T) {
	one := DetectEmergency(&components.WarpContext{
		Health: 100, Now: 500,
		NearbyDangers: []components.Danger{{Severity: 1}},
	}, 0)
	three := DetectEmergency(&components.WarpContext{
		Health: 100, Now: 500,
		NearbyDangers: []components.Danger{{Severity: 1}, {Severity: 1}, {Severity: 1}},
	}, 0)
	five := DetectEmergency(&components.WarpContext{
		Health: 100, Now: 500,
		NearbyDangers: []components.Danger{{Severity: 1}, {Severity: 1}, {Severity: 1}, {Severity: 1}, {Severity: 1}},
	}, 0)

	if one >= three {
		t.Errorf("danger signal should grow with count: %f vs %f", one, three)
	}
	if three != 0.4 {
		t.Errorf("saturated danger signal = %f, want 0.4", three)
	}
	if five != three {
		t.Errorf("danger signal should saturate, got %f vs %f", five, three)
	}
}

func TestDetectEmergency_CappedAtOne(t *testing.T) {
	ctx := &components.WarpContext{
		Health:        5,
		NearbyDangers: []components.Danger{{Severity: 1}, {Severity: 1}, {Severity: 1}, {Severity: 1}},
		Now:           101,
	}
	got := DetectEmergency(ctx, 100)
	if got != 1.0 {
		t.Errorf("stacked signals should cap at 1.0, got %f", got)
	}
}
