package system

import (
	"math"

	"github.com/LupusDei/space-towers-sub000/internal/combat"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/world"
	"go.uber.org/zap"
)

// CombatSystem is the per-tick orchestrator: it advances every tower's
// cooldown, re-resolves targets against the live spatial index, and applies
// the per-behavior damage pipeline. Towers are processed in placement order,
// never map order, so a tick is fully deterministic. It also owns the splash
// handler for projectile impacts reported on the bus.
type CombatSystem struct {
	deps *Deps
}

func NewCombatSystem(deps *Deps) *CombatSystem {
	s := &CombatSystem{deps: deps}
	deps.Bus.On(event.KindProjectileHit, s.onProjectileHit)
	return s
}

func (s *CombatSystem) Stage() coresys.Stage { return coresys.StageUpdate }

func (s *CombatSystem) Update(dt float64) {
	for _, t := range s.deps.State.GetTowers() {
		t.Update(dt)
		if t.CanFire() {
			s.tryFire(t)
		}
	}
}

// tryFire re-resolves the tower's target and runs its behavior. A target id
// from a previous tick is never trusted: selection always goes through the
// live query surface, so a killed-and-recycled unit degrades to "nothing in
// range" instead of a shot at a stale position.
func (s *CombatSystem) tryFire(t *world.Tower) {
	st := s.deps.State
	tx, ty := st.CellCenter(t.CX, t.CY)

	switch t.Type.Behavior {
	case data.BehaviorInstant:
		target := combat.FindTarget(st, tx, ty, t.Range)
		if target == nil {
			t.ClearTarget()
			return
		}
		s.fireBeam(t, tx, ty, target)

	case data.BehaviorPrecision:
		target := combat.FindPrecisionTarget(st, tx, ty, t.Range)
		if target == nil {
			t.ClearTarget()
			return
		}
		s.fireBeam(t, tx, ty, target)

	case data.BehaviorChain:
		target := combat.FindTarget(st, tx, ty, t.Range)
		if target == nil {
			t.ClearTarget()
			return
		}
		s.fireChain(t, tx, ty, target)

	case data.BehaviorProjectile, data.BehaviorSplash:
		target := combat.FindTarget(st, tx, ty, t.Range)
		if target == nil {
			t.ClearTarget()
			return
		}
		s.fireProjectile(t, tx, ty, target)

	case data.BehaviorPulse:
		s.firePulse(t, tx, ty)

	default:
		s.deps.Log.Warn("tower has unknown behavior, holding fire",
			zap.Int32("tower", t.ID),
			zap.String("type", t.Type.ID),
		)
	}
}

// fireBeam resolves a hitscan shot: damage lands the same tick.
func (s *CombatSystem) fireBeam(t *world.Tower, tx, ty float64, target *world.Enemy) {
	now := s.deps.State.Now()
	t.SetTarget(target.ID, target.X, target.Y)
	if err := t.Fire(now); err != nil {
		s.deps.Log.Warn("fire rejected", zap.Error(err))
		return
	}
	s.deps.State.PushEffect(&world.Effect{
		Kind:     world.EffectBeam,
		Points:   []world.Point{{X: tx, Y: ty}, {X: target.X, Y: target.Y}},
		Created:  now,
		Duration: s.deps.Config.Gameplay.EffectDuration,
	})
	ApplyHit(s.deps, t, target, combat.EffectiveDamage(t.Damage, target.Armor))
}

// fireChain hits the primary at full damage, then hops through up to
// ChainTargets neighbours. Each hop multiplies the previous hop's pre-armor
// damage by the falloff factor; armor and the floor of 1 apply per hop.
func (s *CombatSystem) fireChain(t *world.Tower, tx, ty float64, primary *world.Enemy) {
	now := s.deps.State.Now()
	t.SetTarget(primary.ID, primary.X, primary.Y)
	if err := t.Fire(now); err != nil {
		s.deps.Log.Warn("fire rejected", zap.Error(err))
		return
	}

	// Hop set and path are captured before any damage lands: killing the
	// primary recycles its record, and the lightning path must show every
	// position as it was at fire time.
	hops := combat.FindChainTargets(s.deps.State, primary, t.Type.ChainRadius, t.Type.ChainTargets)
	points := []world.Point{{X: tx, Y: ty}, {X: primary.X, Y: primary.Y}}
	for _, h := range hops {
		points = append(points, world.Point{X: h.X, Y: h.Y})
	}
	s.deps.State.PushEffect(&world.Effect{
		Kind:     world.EffectChain,
		Points:   points,
		Created:  now,
		Duration: s.deps.Config.Gameplay.EffectDuration,
	})

	ApplyHit(s.deps, t, primary, combat.EffectiveDamage(t.Damage, primary.Armor))
	for i, h := range hops {
		pre := combat.ChainDamage(t.Damage, t.Type.ChainFalloff, i+1)
		ApplyHit(s.deps, t, h, combat.EffectiveDamage(pre, h.Armor))
	}
}

// fireProjectile draws a pooled slot and hands the round to the travel
// system. The resolution module never moves projectiles itself.
func (s *CombatSystem) fireProjectile(t *world.Tower, tx, ty float64, target *world.Enemy) {
	now := s.deps.State.Now()
	t.SetTarget(target.ID, target.X, target.Y)
	if err := t.Fire(now); err != nil {
		s.deps.Log.Warn("fire rejected", zap.Error(err))
		return
	}
	dx, dy := target.X-tx, target.Y-ty
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
	}
	speed := t.Type.ProjectileSpeed
	s.deps.State.AddProjectile(world.Projectile{
		TowerID:   t.ID,
		TargetID:  target.ID,
		X:         tx,
		Y:         ty,
		VX:        dx / dist * speed,
		VY:        dy / dist * speed,
		Damage:    t.Damage,
		Speed:     speed,
		AOERadius: t.Type.AOERadius,
	})
	s.deps.Bus.Emit(event.ProjectileFired{
		Time:      now,
		TowerID:   t.ID,
		TargetID:  target.ID,
		X:         tx,
		Y:         ty,
		AOERadius: t.Type.AOERadius,
	})
}

// firePulse damages everything in range with no discrete target; survivors
// pick up the configured slow. Holds fire while the range is empty.
func (s *CombatSystem) firePulse(t *world.Tower, tx, ty float64) {
	st := s.deps.State
	victims := st.GetEnemiesInRange(tx, ty, t.Range)
	if len(victims) == 0 {
		t.ClearTarget()
		return
	}
	now := st.Now()
	if err := t.Fire(now); err != nil {
		s.deps.Log.Warn("fire rejected", zap.Error(err))
		return
	}
	gp := s.deps.Config.Gameplay
	st.PushEffect(&world.Effect{
		Kind:     world.EffectPulse,
		Points:   []world.Point{{X: tx, Y: ty}},
		Radius:   t.Range,
		Created:  now,
		Duration: gp.EffectDuration,
	})
	s.deps.Bus.Emit(event.GravityPulse{Time: now, TowerID: t.ID, X: tx, Y: ty, Radius: t.Range})
	for _, e := range victims {
		id := e.ID
		ApplyHit(s.deps, t, e, combat.EffectiveDamage(t.Damage, e.Armor))
		// Only survivors are slowed; a killed unit's id is already stale
		// and ApplySlow ignores it.
		st.ApplySlow(id, gp.SlowMultiplier, gp.SlowDuration)
	}
}

// onProjectileHit applies splash damage around an impact point. The primary
// target id is excluded: the travel system already damaged it, and splash
// must never double-hit.
func (s *CombatSystem) onProjectileHit(e event.Event) {
	hit := e.(event.ProjectileHit)
	if hit.AOERadius <= 0 {
		return
	}
	st := s.deps.State
	tower := st.GetTowerByID(hit.TowerID)
	st.PushEffect(&world.Effect{
		Kind:     world.EffectExplosion,
		Points:   []world.Point{{X: hit.X, Y: hit.Y}},
		Radius:   hit.AOERadius,
		Created:  hit.Time,
		Duration: s.deps.Config.Gameplay.EffectDuration,
	})
	s.deps.Bus.Emit(event.Explosion{Time: hit.Time, X: hit.X, Y: hit.Y, Radius: hit.AOERadius})
	for _, victim := range combat.EnemiesInSplash(st, hit.X, hit.Y, hit.AOERadius) {
		if victim.ID == hit.PrimaryID {
			continue
		}
		ApplyHit(s.deps, tower, victim, combat.EffectiveDamage(hit.Damage, victim.Armor))
	}
}
