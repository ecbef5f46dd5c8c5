package combat

import (
	"github.com/LupusDei/space-towers-sub000/internal/core/ecs"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

// Query is the read-only surface the targeting policy and the tick systems
// consult. All lookups are by id; a stale id resolves to nil, never to
// recycled data.
type Query interface {
	GetTowers() []*world.Tower
	GetEnemies() []*world.Enemy
	GetProjectiles() []*world.Projectile
	GetTowerByID(id int32) *world.Tower
	GetEnemyByID(id int32) *world.Enemy
	GetEnemiesInRange(x, y, r float64) []*world.Enemy
	GetEnemiesAlongPath() []*world.Enemy
	GetPath() []world.Point
	GetCellState(cx, cy int) world.CellState
	GetTowerAt(cx, cy int) *world.Tower
	GetGameStateSnapshot() world.Snapshot
}

// Command is the mutation surface the tick systems drive.
type Command interface {
	AddProjectile(p world.Projectile) ecs.Handle
	RemoveEnemy(id int32)
	AddCredits(amount int)
	ApplySlow(id int32, mult, durationSeconds float64)
	Now() float64
}

// Surface bundles both halves; *world.State satisfies it.
type Surface interface {
	Query
	Command
}

var _ Surface = (*world.State)(nil)
