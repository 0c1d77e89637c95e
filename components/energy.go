package components

// EnergyPool is the capped, regenerating resource that gates every warp.
// Current stays within [0, Max] at all times; a consume that would go
// negative is rejected instead of partially applied.
type EnergyPool struct {
	Current        float64
	Max            float64
	RegenPerSecond float64
}

// NewEnergyPool creates a pool with the given capacity, clamping the
// starting value into [0, max].
func NewEnergyPool(initial, max, regenPerSecond float64) EnergyPool {
	if initial < 0 {
		initial = 0
	}
	if initial > max {
		initial = max
	}
	return EnergyPool{Current: initial, Max: max, RegenPerSecond: regenPerSecond}
}

// HasEnergy reports whether the pool can cover the given cost.
func (p *EnergyPool) HasEnergy(cost float64) bool {
	return cost <= p.Current
}

// Consume subtracts cost from the pool. Returns false without mutating
// anything when the pool cannot cover it.
func (p *EnergyPool) Consume(cost float64) bool {
	if cost < 0 || cost > p.Current {
		return false
	}
	p.Current -= cost
	return true
}

// Regenerate adds dt seconds worth of regeneration, clamped to Max.
// The subsystem suspends regeneration while a warp is in flight.
func (p *EnergyPool) Regenerate(dt float64) {
	if dt <= 0 {
		return
	}
	p.Current += p.RegenPerSecond * dt
	if p.Current > p.Max {
		p.Current = p.Max
	}
}
