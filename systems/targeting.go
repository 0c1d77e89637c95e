package systems

import "github.com/pthm-cable/orbithop/components"

// PickNearest returns the discovered destination closest to the pick point,
// limited to those within radius. Ties break toward the smaller distance;
// an exact tie keeps the first candidate in slice order. Returns false when
// nothing discovered is in range.
func PickNearest(x, y float64, destinations []components.Destination, radius float64) (components.Destination, bool) {
	pick := components.Vec2{X: x, Y: y}

	var best components.Destination
	bestDist := radius
	found := false

	for _, dest := range destinations {
		if !dest.Discovered {
			continue
		}
		dist := pick.Dist(dest.Pos)
		if dist < bestDist || (!found && dist <= radius) {
			best = dest
			bestDist = dist
			found = true
		}
	}

	return best, found
}
