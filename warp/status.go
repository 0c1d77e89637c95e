package warp

import "github.com/pthm-cable/orbithop/components"

// Status is the read-only surface exposed to HUD and persistence
// collaborators. It is a value snapshot; mutating it has no effect on the
// subsystem.
type Status struct {
	State           components.WarpState
	Progress        float64
	Energy          float64
	MaxEnergy       float64
	TotalWarps      uint32
	SkillLevel      float64
	AdaptationLevel float64
	FailedAttempts  uint32
}

// Status snapshots the subsystem for external readers.
func (s *Subsystem) Status() Status {
	return Status{
		State:           s.state,
		Progress:        s.Progress(),
		Energy:          s.energy.Current,
		MaxEnergy:       s.energy.Max,
		TotalWarps:      s.memory.Behavior.TotalWarps,
		SkillLevel:      s.memory.Behavior.SkillLevel,
		AdaptationLevel: s.memory.Efficiency.AdaptationLevel,
		FailedAttempts:  s.memory.FailedAttempts,
	}
}
