package combat

import (
	"math"
	"sort"

	"github.com/LupusDei/space-towers-sub000/internal/world"
)

// Targeting policy: pure, side-effect-free selection functions over the
// query surface. Absence of a target is a normal result, never an error.

// FindTarget returns the enemy within range of (x, y) that is furthest along
// the path, the most urgent threat. Ties on progress go to the earlier spawn.
// Returns nil when nothing is in range.
func FindTarget(q Query, x, y, r float64) *world.Enemy {
	var best *world.Enemy
	for _, e := range q.GetEnemiesInRange(x, y, r) {
		if best == nil || e.Progress > best.Progress {
			best = e
		}
	}
	return best
}

// FindPrecisionTarget returns the enemy within range with the most remaining
// health; ties are broken by path progress, then by spawn order. Used by
// long-range precision types that should burn down the toughest unit.
func FindPrecisionTarget(q Query, x, y, r float64) *world.Enemy {
	var best *world.Enemy
	for _, e := range q.GetEnemiesInRange(x, y, r) {
		switch {
		case best == nil:
			best = e
		case e.Health > best.Health:
			best = e
		case e.Health == best.Health && e.Progress > best.Progress:
			best = e
		}
	}
	return best
}

// FindChainTargets returns up to max enemies within radius of the primary,
// excluding the primary itself, ordered nearest-first from the primary.
func FindChainTargets(q Query, primary *world.Enemy, radius float64, max int) []*world.Enemy {
	if max <= 0 {
		return nil
	}
	var hops []*world.Enemy
	for _, e := range q.GetEnemiesInRange(primary.X, primary.Y, radius) {
		if e.ID != primary.ID {
			hops = append(hops, e)
		}
	}
	sort.SliceStable(hops, func(i, j int) bool {
		return distSq(hops[i], primary) < distSq(hops[j], primary)
	})
	if len(hops) > max {
		hops = hops[:max]
	}
	return hops
}

// EnemiesInSplash returns every enemy within radius of an impact point,
// unordered beyond the surface's deterministic id order, unlimited count.
func EnemiesInSplash(q Query, x, y, r float64) []*world.Enemy {
	return q.GetEnemiesInRange(x, y, r)
}

func distSq(a, b *world.Enemy) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// EffectiveDamage resolves base damage against flat armor. The floor of 1
// guarantees every unit is eventually killable regardless of armor.
func EffectiveDamage(base, armor int) int {
	d := base - armor
	if d < 1 {
		return 1
	}
	return d
}

// ChainDamage returns the pre-armor damage for the given hop of a chain.
// Hop 0 is the primary; each later hop multiplies the previous hop's
// pre-armor damage by falloff, so the decay compounds across the chain.
func ChainDamage(base int, falloff float64, hop int) int {
	d := float64(base) * math.Pow(falloff, float64(hop))
	return int(math.Round(d))
}
