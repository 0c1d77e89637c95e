package warp

import (
	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
	"github.com/pthm-cable/orbithop/systems"
)

// SelectAndMaybeCommit translates a world-space pick into a destination and
// auto-commits when the warp is affordable. An unaffordable pick stays
// highlighted (Selecting state) so the player can reconsider. Returns the
// picked destination, whether anything was picked, and whether a warp was
// committed.
func (s *Subsystem) SelectAndMaybeCommit(x, y float64, destinations []components.Destination, player PlayerModel, ctx *components.WarpContext) (components.Destination, bool, bool) {
	if s.state == components.StateWarping {
		return components.Destination{}, false, false
	}

	dest, ok := systems.PickNearest(x, y, destinations, config.Cfg().Warp.PickRadius)
	if !ok {
		return components.Destination{}, false, false
	}

	if s.CanCommit(dest, player, ctx) && s.Commit(dest, player, ctx) {
		return dest, true, true
	}

	picked := dest
	s.selected = &picked
	if s.state == components.StateIdle {
		s.state = components.StateSelecting
	}
	return dest, true, false
}

// Selected returns the currently highlighted destination, if any.
func (s *Subsystem) Selected() (components.Destination, bool) {
	if s.selected == nil {
		return components.Destination{}, false
	}
	return *s.selected, true
}

// ClearSelection drops the highlight and returns the machine to Idle.
func (s *Subsystem) ClearSelection() {
	s.selected = nil
	if s.state == components.StateSelecting {
		s.state = components.StateIdle
	}
}
