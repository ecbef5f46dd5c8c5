package system

import (
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
	"github.com/LupusDei/space-towers-sub000/internal/world"
	"go.uber.org/zap"
)

// WaveSystem walks the YAML wave schedule: lead-in delay, timed spawns group
// by group, then a drain period until the board is clear. The last cleared
// wave forces victory. It only ever runs while the host loop is ticking the
// simulation, so phase legality is the host's concern, not checked here.
type WaveSystem struct {
	deps *Deps

	wave     int // current wave number, 0 before the first
	active   bool
	draining bool
	group    int     // index into the current wave's spawn groups
	spawned  int     // spawns done within the current group
	timer    float64 // counts down to the next spawn (or wave start)
}

func NewWaveSystem(deps *Deps) *WaveSystem {
	return &WaveSystem{deps: deps}
}

func (s *WaveSystem) Stage() coresys.Stage { return coresys.StagePostUpdate }

// CurrentWave returns the wave number in play, 0 before the first.
func (s *WaveSystem) CurrentWave() int { return s.wave }

func (s *WaveSystem) Update(dt float64) {
	if s.deps.Phase.IsGameOver() {
		return
	}
	if !s.active {
		s.startNext()
		return
	}
	if s.draining {
		s.drain()
		return
	}

	s.timer -= dt
	for s.timer <= 0 && !s.draining {
		s.spawnOne()
	}
}

// startNext arms the next wave, or forces victory when the schedule is done
// and the board is clear.
func (s *WaveSystem) startNext() {
	next := s.deps.Waves.Get(s.wave + 1)
	if next == nil {
		if len(s.deps.State.GetEnemies()) == 0 && !s.deps.Phase.IsGameOver() {
			now := s.deps.State.Now()
			s.deps.Phase.Force(world.PhaseVictory)
			s.deps.Bus.Emit(event.GameOver{Time: now, Victory: true, Wave: s.wave})
		}
		return
	}
	s.wave = next.Number
	s.active = true
	s.draining = false
	s.group = 0
	s.spawned = 0
	s.timer = next.Delay
	s.deps.State.SetWave(s.wave)
	s.deps.Bus.Emit(event.WaveStarted{
		Time:    s.deps.State.Now(),
		Wave:    s.wave,
		Enemies: next.TotalEnemies(),
	})
	s.deps.Log.Info("wave started", zap.Int("wave", s.wave), zap.Int("enemies", next.TotalEnemies()))
}

// spawnOne emits the next scheduled enemy and re-arms the timer. When the
// last group is exhausted the wave switches to draining.
func (s *WaveSystem) spawnOne() {
	info := s.deps.Waves.Get(s.wave)
	g := info.Groups[s.group]
	def := s.deps.Enemies.Get(g.EnemyID)
	s.deps.State.SpawnEnemy(def)
	s.spawned++
	s.timer += g.Interval

	if s.spawned >= g.Count {
		s.group++
		s.spawned = 0
		if s.group >= len(info.Groups) {
			s.draining = true
		}
	}
}

// drain waits for the board to clear, then completes the wave.
func (s *WaveSystem) drain() {
	if len(s.deps.State.GetEnemies()) > 0 {
		return
	}
	s.active = false
	s.draining = false
	s.deps.Bus.Emit(event.WaveCompleted{Time: s.deps.State.Now(), Wave: s.wave})
	s.deps.Log.Info("wave completed", zap.Int("wave", s.wave))
}
