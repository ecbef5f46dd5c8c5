package system

import (
	"math"

	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
	"github.com/LupusDei/space-towers-sub000/internal/world"
	"go.uber.org/zap"
)

// MovementSystem advances enemies along the fixed waypoint path and keeps the
// spatial index in step with every move. Path progress is monotone while the
// unit lives; a unit reaching the end leaks: one life lost, no kill, no
// credits. Runs before combat within the tick so towers always target
// this-tick positions.
type MovementSystem struct {
	deps *Deps
}

func NewMovementSystem(deps *Deps) *MovementSystem {
	return &MovementSystem{deps: deps}
}

func (s *MovementSystem) Stage() coresys.Stage { return coresys.StageUpdate }

func (s *MovementSystem) Update(dt float64) {
	st := s.deps.State
	now := st.Now()
	path := st.GetPath()
	var leaked []int32

	for _, e := range st.GetEnemies() {
		remaining := e.EffectiveSpeed(now) * dt
		for remaining > 0 {
			if e.PathIndex+1 >= len(path) {
				leaked = append(leaked, e.ID)
				break
			}
			next := path[e.PathIndex+1]
			dx, dy := next.X-e.X, next.Y-e.Y
			dist := math.Hypot(dx, dy)
			if remaining >= dist {
				e.X, e.Y = next.X, next.Y
				e.PathIndex++
				e.Progress = float64(e.PathIndex)
				remaining -= dist
				continue
			}
			e.X += dx / dist * remaining
			e.Y += dy / dist * remaining
			seg := path[e.PathIndex]
			segLen := math.Hypot(next.X-seg.X, next.Y-seg.Y)
			if segLen > 0 {
				e.Progress = float64(e.PathIndex) + math.Hypot(e.X-seg.X, e.Y-seg.Y)/segLen
			}
			remaining = 0
		}
		st.Grid().Update(e.ID, e.X, e.Y)
	}

	for _, id := range leaked {
		s.leak(id)
	}
}

// leak removes an escaped enemy and charges a life. Defeat entry is forced:
// the phase machine's normal table already allows combat→defeat, but a leak
// during a pause-adjacent edge case must still end the run.
func (s *MovementSystem) leak(id int32) {
	st := s.deps.State
	st.RemoveEnemy(id)
	lives := st.LoseLife()
	now := st.Now()
	s.deps.Bus.Emit(event.EnemyLeaked{Time: now, EnemyID: id, LivesLeft: lives})
	s.deps.Log.Info("enemy leaked", zap.Int32("enemy", id), zap.Int("lives_left", lives))
	if lives == 0 && !s.deps.Phase.IsGameOver() {
		s.deps.Phase.Force(world.PhaseDefeat)
		s.deps.Bus.Emit(event.GameOver{Time: now, Victory: false, Wave: st.Wave()})
	}
}
