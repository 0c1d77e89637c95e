// Package components defines the plain data types of the warp subsystem.
package components

import "math"

// DestinationID identifies a warpable waypoint.
type DestinationID string

// Vec2 is a world-space position.
type Vec2 struct {
	X, Y float64
}

// Dist returns the Euclidean distance to other.
func (v Vec2) Dist(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Destination is a warpable waypoint in the world.
type Destination struct {
	ID         DestinationID
	Name       string
	Pos        Vec2
	Discovered bool
}

// Danger is a threat near the player, used for emergency detection.
type Danger struct {
	Pos      Vec2
	Severity float64
}

// WarpContext carries the player situation sampled at quote/commit time.
// A nil context puts the cost engine in static fallback mode.
type WarpContext struct {
	Health        float64 // 0-100
	NearbyDangers []Danger
	Now           float64 // game-clock seconds
}

// WarpState is the lifecycle state of the warp machine.
type WarpState uint8

const (
	StateIdle WarpState = iota
	StateSelecting
	StateWarping
	StateArrived
)

// String returns the state name for logs and status readouts.
func (s WarpState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateWarping:
		return "warping"
	case StateArrived:
		return "arrived"
	}
	return "unknown"
}

// WarpAttempt is the transient snapshot of one in-flight warp. It is
// created at commit, destroyed at arrival, and never persisted.
type WarpAttempt struct {
	Source    Vec2
	Target    Destination
	Cost      float64
	Context   *WarpContext // as captured at commit; nil for static commits
	StartedAt float64
	Progress  float64 // 0-1
}
