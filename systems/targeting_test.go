package systems

import (
	"testing"

	"github.com/pthm-cable/orbithop/components"
)

func targets() []components.Destination {
	return []components.Destination{
		{ID: "a", Pos: components.Vec2{X: 100, Y: 100}, Discovered: true},
		{ID: "b", Pos: components.Vec2{X: 120, Y: 100}, Discovered: true},
		{ID: "c", Pos: components.Vec2{X: 500, Y: 500}, Discovered: true},
		{ID: "hidden", Pos: components.Vec2{X: 102, Y: 100}, Discovered: false},
	}
}

func TestPickNearest_ClosestWins(t *testing.T) {
	dest, ok := PickNearest(110, 100, targets(), 48)
	if !ok {
		t.Fatal("expected a pick")
	}
	// a and b are both 10 away... a comes first in slice order
	if dest.ID != "a" {
		t.Errorf("picked %s, want a", dest.ID)
	}

	dest, ok = PickNearest(118, 100, targets(), 48)
	if !ok || dest.ID != "b" {
		t.Errorf("picked %v, want b", dest.ID)
	}
}

func TestPickNearest_SkipsUndiscovered(t *testing.T) {
	dest, ok := PickNearest(102, 100, targets(), 48)
	if !ok {
		t.Fatal("expected a pick")
	}
	if dest.ID == "hidden" {
		t.Error("undiscovered destinations must not be pickable")
	}
	if dest.ID != "a" {
		t.Errorf("picked %s, want a", dest.ID)
	}
}

func TestPickNearest_RespectsRadius(t *testing.T) {
	if _, ok := PickNearest(300, 300, targets(), 48); ok {
		t.Error("nothing within radius should yield no pick")
	}
}

func TestPickNearest_EmptyInput(t *testing.T) {
	if _, ok := PickNearest(0, 0, nil, 48); ok {
		t.Error("no destinations should yield no pick")
	}
}
