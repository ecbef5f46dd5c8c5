package system

import (
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
)

// EffectSystem evicts expired visual effect records. Cleanup stage, and the
// host loop also runs it on non-combat frames, so stale visuals never survive
// a phase change.
type EffectSystem struct {
	deps *Deps
}

func NewEffectSystem(deps *Deps) *EffectSystem {
	return &EffectSystem{deps: deps}
}

func (s *EffectSystem) Stage() coresys.Stage { return coresys.StageCleanup }

func (s *EffectSystem) Update(_ float64) {
	s.deps.State.CleanupEffects(s.deps.State.Now())
}
