package system

import (
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/world"
	"go.uber.org/zap"
)

// ApplyHit applies already-armor-resolved damage to an enemy, updates the
// attacker's counters, and runs the kill path when health reaches zero.
// tower may be nil when the attacker no longer exists (a round fired by a
// tower sold mid-flight still lands). Shared by the combat and projectile
// systems so both resolve kills identically.
func ApplyHit(deps *Deps, tower *world.Tower, e *world.Enemy, damage int) {
	now := deps.State.Now()
	e.Hurt(damage)
	if tower != nil {
		tower.DamageDealt += damage
	}
	deps.Bus.Emit(event.DamageNumber{Time: now, X: e.X, Y: e.Y, Amount: damage})
	if e.Alive() {
		return
	}
	killEnemy(deps, tower, e)
}

// killEnemy handles a confirmed kill. The reward and position are snapshotted
// before removal: RemoveEnemy recycles the record and zeroes every field, so
// reading them afterwards would credit nothing.
func killEnemy(deps *Deps, tower *world.Tower, e *world.Enemy) {
	now := deps.State.Now()
	id, reward, x, y := e.ID, e.Reward, e.X, e.Y
	var towerID int32
	if tower != nil {
		towerID = tower.ID
		tower.Kills++
	}
	deps.Bus.Emit(event.EnemyKilled{Time: now, EnemyID: id, TowerID: towerID, Reward: reward, X: x, Y: y})
	deps.State.RemoveEnemy(id)
	deps.State.AddCredits(reward)
	deps.Bus.Emit(event.GoldNumber{Time: now, X: x, Y: y, Amount: reward})
	deps.Log.Debug("enemy killed",
		zap.Int32("enemy", id),
		zap.Int32("tower", towerID),
		zap.Int("reward", reward),
	)
}
