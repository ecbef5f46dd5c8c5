package system

// Stage defines execution ordering within a single simulation tick.
type Stage int

const (
	StageUpdate     Stage = iota // 0: enemy movement, combat resolution, projectile travel
	StagePostUpdate              // 1: wave spawning
	StageCleanup                 // 2: effect eviction
)

// System is the interface every tick system implements.
type System interface {
	Stage() Stage
	Update(dt float64)
}

// Scheduler runs systems in stage order. Within a stage, systems run in
// registration order, so a tick is fully deterministic.
type Scheduler struct {
	stages [StageCleanup + 1][]System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds a system to its declared stage.
func (s *Scheduler) Register(sys System) {
	st := sys.Stage()
	s.stages[st] = append(s.stages[st], sys)
}

// Tick runs one full simulation step of dt seconds.
func (s *Scheduler) Tick(dt float64) {
	for _, stage := range s.stages {
		for _, sys := range stage {
			sys.Update(dt)
		}
	}
}
