package warp

// Hooks receives fire-and-forget presentation notifications from the state
// machine. Particle, audio, camera, and achievement systems subscribe here;
// the subsystem never calls back into them for answers.
type Hooks interface {
	OnWarpCommitted(cost float64)
	OnWarpArrived()
	OnWarpFailed(reason string)
}

// NoopHooks satisfies Hooks without doing anything.
type NoopHooks struct{}

func (NoopHooks) OnWarpCommitted(float64) {}
func (NoopHooks) OnWarpArrived()          {}
func (NoopHooks) OnWarpFailed(string)     {}
