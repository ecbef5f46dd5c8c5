package system

import (
	"math"

	"github.com/LupusDei/space-towers-sub000/internal/combat"
	"github.com/LupusDei/space-towers-sub000/internal/core/ecs"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

// ProjectileSystem owns projectile travel: rounds home on their target's
// live position each tick. On arrival the primary target takes direct
// damage and a projectile-hit event goes out; the combat system's splash
// handler picks it up for area damage. A round whose target id has gone
// stale is released without any event — target loss, not a miss.
type ProjectileSystem struct {
	deps *Deps
}

func NewProjectileSystem(deps *Deps) *ProjectileSystem {
	return &ProjectileSystem{deps: deps}
}

func (s *ProjectileSystem) Stage() coresys.Stage { return coresys.StageUpdate }

func (s *ProjectileSystem) Update(dt float64) {
	st := s.deps.State
	for _, p := range st.GetProjectiles() {
		target := st.GetEnemyByID(p.TargetID)
		if target == nil {
			st.ReleaseProjectile(p.Handle)
			continue
		}

		dx, dy := target.X-p.X, target.Y-p.Y
		dist := math.Hypot(dx, dy)
		if dist <= p.Speed*dt {
			s.impact(p.Handle, target)
			continue
		}

		p.VX = dx / dist * p.Speed
		p.VY = dy / dist * p.Speed
		p.X += p.VX * dt
		p.Y += p.VY * dt
	}
}

// impact lands the round on its primary target. The event carries the
// pre-armor damage and the impact point so the splash handler can resolve
// area victims itself. The slot is released before the event goes out:
// listeners see a world without the spent round, and the handle is dead
// for good.
func (s *ProjectileSystem) impact(h ecs.Handle, target *world.Enemy) {
	st := s.deps.State
	p := st.GetProjectile(h)
	if p == nil {
		return
	}
	now := st.Now()
	hit := event.ProjectileHit{
		Time:      now,
		TowerID:   p.TowerID,
		PrimaryID: target.ID,
		X:         target.X,
		Y:         target.Y,
		Damage:    p.Damage,
		AOERadius: p.AOERadius,
	}
	tower := st.GetTowerByID(p.TowerID)
	ApplyHit(s.deps, tower, target, combat.EffectiveDamage(p.Damage, target.Armor))
	st.ReleaseProjectile(h)
	s.deps.Bus.Emit(hit)
}
