package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
)

func init() {
	config.MustInit("")
}

func TestBaseWarpCost(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 50},
		{100, 50},
		{2500, 50},
		{5000, 50},
		{5100, 51},
		{25000, 250},
	}
	for _, tc := range cases {
		if got := BaseWarpCost(tc.distance); got != tc.want {
			t.Errorf("BaseWarpCost(%f) = %f, want %f", tc.distance, got, tc.want)
		}
	}
}

// With any input missing, the quote is the unmodified physics baseline.
func TestQuote_StaticFallbackLaw(t *testing.T) {
	for d := 0.0; d <= 50000; d += 373 {
		want := math.Max(50, math.Floor(d/100))
		if got := Quote(d, nil, nil, nil, nil); got != want {
			t.Errorf("Quote(%f, nil...) = %f, want %f", d, got, want)
		}
	}
}

func TestQuote_FreshMemoryAppliesFirstVisitBonus(t *testing.T) {
	mem := NewRouteMemory()
	source := components.Vec2{X: 0, Y: 0}
	dest := components.Destination{ID: "mars", Pos: components.Vec2{X: 2500, Y: 0}, Discovered: true}
	ctx := &components.WarpContext{Health: 100}

	// Fresh state: only the first-visit exploration bonus deviates from 1.0.
	got := Quote(2500, &source, &dest, ctx, mem)
	want := math.Floor(50 * 0.85)
	if got != want {
		t.Errorf("fresh quote = %f, want %f", got, want)
	}
}

func TestQuote_NeverExceedsBase(t *testing.T) {
	mem := NewRouteMemory()
	source := components.Vec2{}
	dest := components.Destination{ID: "mars", Pos: components.Vec2{X: 12000, Y: 0}, Discovered: true}

	// Drive the memory through a mix of warps and check the ceiling.
	for i := 0; i < 30; i++ {
		ctx := &components.WarpContext{Health: 100, Now: float64(i) * 30}
		mem.RecordWarp(source, dest, 100, ctx)

		quote := Quote(12000, &source, &dest, ctx, mem)
		base := BaseWarpCost(12000)
		if quote > base {
			t.Fatalf("quote %f exceeds base %f after %d warps", quote, base, i+1)
		}
	}
}

func TestQuote_HardFloor(t *testing.T) {
	mem := NewRouteMemory()
	source := components.Vec2{}
	dest := components.Destination{ID: "mars", Pos: components.Vec2{X: 2500, Y: 0}, Discovered: true}

	// Force every discount to its extreme.
	key := components.MakeRouteKey(source, dest.ID, 100)
	mem.Routes[key] = &components.RouteStat{Uses: 10, TotalCostPaid: 500}
	mem.Affinities[dest.ID] = &components.PlanetAffinity{Visits: 10, Affinity: 1.0}
	mem.Behavior.TotalWarps = 10
	mem.Behavior.ExplorationWarps = 10
	mem.Behavior.LastWarpTime = 99
	mem.Efficiency.OptimalRoutes = 10

	ctx := &components.WarpContext{
		Health: 5,
		NearbyDangers: []components.Danger{
			{Severity: 1}, {Severity: 1}, {Severity: 1},
		},
		Now: 100, // 1s after the last warp: rapid repeat
	}

	got := Quote(2500, &source, &dest, ctx, mem)
	want := math.Floor(0.25 * 50)
	if got != want {
		t.Errorf("fully discounted quote = %f, want floor %f", got, want)
	}
}

// Scenario: the 11th quote on a route warped 10 times is at most 80% of base.
func TestQuote_FamiliarRouteDiscount(t *testing.T) {
	mem := NewRouteMemory()
	source := components.Vec2{X: 10, Y: 10}
	dest := components.Destination{ID: "mars", Pos: components.Vec2{X: 10, Y: 2510}, Discovered: true}

	for i := 0; i < 10; i++ {
		ctx := &components.WarpContext{Health: 100, Now: float64(i+1) * 60}
		mem.RecordWarp(source, dest, 50, ctx)
	}

	ctx := &components.WarpContext{Health: 100, Now: 3600}
	quote := Quote(2500, &source, &dest, ctx, mem)
	base := BaseWarpCost(2500)

	if quote > 0.80*base {
		t.Errorf("11th quote %f should be <= 80%% of base %f", quote, base)
	}
	if quote < math.Floor(0.25*base) {
		t.Errorf("quote %f violates the hard floor", quote)
	}
}

func TestQuote_EmergencyNeverRaisesCost(t *testing.T) {
	mem := NewRouteMemory()
	source := components.Vec2{}
	dest := components.Destination{ID: "mars", Pos: components.Vec2{X: 2500, Y: 0}, Discovered: true}

	calm := Quote(2500, &source, &dest, &components.WarpContext{Health: 100, Now: 500}, mem)
	panicked := Quote(2500, &source, &dest, &components.WarpContext{
		Health:        10,
		NearbyDangers: []components.Danger{{Severity: 1}, {Severity: 1}},
		Now:           500,
	}, mem)

	if panicked > calm {
		t.Errorf("emergency quote %f must not exceed calm quote %f", panicked, calm)
	}
}
