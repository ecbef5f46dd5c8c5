package world

import (
	"fmt"

	"github.com/LupusDei/space-towers-sub000/internal/data"
)

// Tower is one placed defender unit. The grid cell is immutable after
// placement; derived stats are recomputed from the type's base values and
// per-level deltas on every level change. All cross-entity references are
// plain ids re-resolved through the state each tick, never pointers, so a
// recycled target degrades to "not found" instead of dangling.
type Tower struct {
	ID   int32
	Type *data.TowerTypeInfo
	CX   int // grid cell, immutable after placement
	CY   int

	Level        int
	Damage       int
	Range        float64
	FireInterval float64

	Cooldown  float64 // seconds until ready, clamped at zero
	LastFired float64

	TargetID int32 // 0 = no target
	// Last observed continuous position of the target, kept for turret
	// orientation only. Never used for damage decisions.
	TargetX float64
	TargetY float64

	Kills       int
	DamageDealt int
}

// Update advances the cooldown clock, clamped at zero.
func (t *Tower) Update(dt float64) {
	t.Cooldown -= dt
	if t.Cooldown < 0 {
		t.Cooldown = 0
	}
}

// CanFire is the sole authority on whether a fire attempt may proceed.
func (t *Tower) CanFire() bool { return t.Cooldown <= 0 }

// Fire resets the cooldown and stamps the fire time. Calling it on cooldown,
// or without a target on a targeted behavior, is a caller-side ordering bug
// and returns an error rather than silently misfiring.
func (t *Tower) Fire(now float64) error {
	if !t.CanFire() {
		return fmt.Errorf("tower %d: fire while on cooldown (%.3fs left)", t.ID, t.Cooldown)
	}
	if t.TargetID == 0 && t.Type.Behavior != data.BehaviorPulse {
		return fmt.Errorf("tower %d: fire with no target", t.ID)
	}
	t.Cooldown = t.FireInterval
	t.LastFired = now
	return nil
}

// Upgrade advances the level by one and recomputes derived stats. Returns
// false at max level with no other effect.
func (t *Tower) Upgrade(maxLevel int) bool {
	if t.Level >= maxLevel {
		return false
	}
	t.Level++
	t.Damage, t.Range, t.FireInterval = t.Type.StatsAt(t.Level)
	return true
}

// SetTarget records the logical target and its last-known continuous
// position. Separate from firing: targets are assigned on re-resolution,
// fired at only if still valid.
func (t *Tower) SetTarget(id int32, x, y float64) {
	t.TargetID = id
	t.TargetX = x
	t.TargetY = y
}

// ClearTarget drops the target reference.
func (t *Tower) ClearTarget() {
	t.TargetID = 0
}
