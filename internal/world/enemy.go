package world

import "github.com/LupusDei/space-towers-sub000/internal/data"

// Enemy is one hostile mobile unit travelling the path. Records are recycled
// through a free list; every field is reset on release, so anything a caller
// needs after a kill (the reward, above all) must be snapshotted before the
// unit is removed.
type Enemy struct {
	ID   int32
	Type *data.EnemyTypeInfo

	X, Y float64 // continuous position

	// PathIndex is the last waypoint reached; Progress adds the fractional
	// advance into the current segment. Both are monotone while the unit is
	// alive. Progress is the primary targeting priority.
	PathIndex int
	Progress  float64

	Health    int
	MaxHealth int
	Armor     int
	Speed     float64
	Reward    int

	// Temporary slow effect. SlowMult of 1 means no slow; the multiplier
	// applies until SlowUntil on the simulation clock.
	SlowMult  float64
	SlowUntil float64
}

// Alive reports whether the unit still has health.
func (e *Enemy) Alive() bool { return e.Health > 0 }

// Hurt applies already-resolved damage, clamping health at zero, and returns
// the unit's remaining health.
func (e *Enemy) Hurt(amount int) int {
	e.Health -= amount
	if e.Health < 0 {
		e.Health = 0
	}
	return e.Health
}

// EffectiveSpeed returns the movement speed with any unexpired slow applied.
func (e *Enemy) EffectiveSpeed(now float64) float64 {
	if e.SlowMult < 1 && now < e.SlowUntil {
		return e.Speed * e.SlowMult
	}
	return e.Speed
}

// reset zeroes the record before it goes back on the free list. Stale reward
// or id data must never leak into the next spawn.
func (e *Enemy) reset() {
	*e = Enemy{}
}
