package world

import "github.com/LupusDei/space-towers-sub000/internal/core/ecs"

// Projectile is one pooled travelling round. Slots are drawn from the
// generational pool on tower fire and released on impact or target loss; a
// released slot is zeroed before it returns to the free list, and its old
// handles go dead, so stale reads are impossible.
type Projectile struct {
	Handle   ecs.Handle
	TowerID  int32
	TargetID int32

	X, Y   float64
	VX, VY float64 // current velocity, refreshed by the travel system

	Damage    int
	Speed     float64
	AOERadius float64 // zero for non-splash rounds
}
