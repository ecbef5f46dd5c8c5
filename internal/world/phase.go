package world

import "github.com/LupusDei/space-towers-sub000/internal/core/event"

// GamePhase is the high-level simulation phase. Exactly one is active;
// the host loop consults the machine to decide which activities (ticking,
// building, spawning) are legal this frame.
type GamePhase int

const (
	PhaseMenu GamePhase = iota
	PhaseLoadout
	PhasePlanning
	PhaseCombat
	PhasePaused
	PhaseVictory
	PhaseDefeat
)

func (p GamePhase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseLoadout:
		return "loadout"
	case PhasePlanning:
		return "planning"
	case PhaseCombat:
		return "combat"
	case PhasePaused:
		return "paused"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// legalTransitions lists every allowed phase edge. Anything absent — including
// a transition to the current phase — is rejected.
var legalTransitions = map[GamePhase][]GamePhase{
	PhaseMenu:     {PhaseLoadout},
	PhaseLoadout:  {PhasePlanning, PhaseMenu},
	PhasePlanning: {PhaseCombat, PhasePaused, PhaseVictory, PhaseDefeat},
	PhaseCombat:   {PhasePlanning, PhasePaused, PhaseVictory, PhaseDefeat},
	PhasePaused:   {PhasePlanning, PhaseCombat, PhaseLoadout},
	PhaseVictory:  {PhaseMenu, PhasePlanning, PhaseLoadout},
	PhaseDefeat:   {PhaseMenu, PhasePlanning, PhaseLoadout},
}

// PhaseMachine validates phase transitions and announces every change on the
// bus. All helper predicates derive from the current phase; nothing is stored
// independently.
type PhaseMachine struct {
	current  GamePhase
	previous GamePhase
	bus      *event.Bus
	clock    *Clock
}

func NewPhaseMachine(bus *event.Bus, clock *Clock) *PhaseMachine {
	return &PhaseMachine{current: PhaseMenu, previous: PhaseMenu, bus: bus, clock: clock}
}

// Current returns the active phase.
func (m *PhaseMachine) Current() GamePhase { return m.current }

// Previous returns the phase before the last change.
func (m *PhaseMachine) Previous() GamePhase { return m.previous }

// TransitionTo moves to the requested phase if the edge is legal. On an
// illegal edge (including a transition to the current phase) it returns false
// and leaves the state unchanged.
func (m *PhaseMachine) TransitionTo(to GamePhase) bool {
	if to == m.current {
		return false
	}
	allowed := false
	for _, p := range legalTransitions[m.current] {
		if p == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	m.set(to, false)
	return true
}

// Force bypasses transition validation. Used only for victory/defeat entry
// and full resets; it still records the previous phase and fires the same
// change notification.
func (m *PhaseMachine) Force(to GamePhase) {
	m.set(to, true)
}

func (m *PhaseMachine) set(to GamePhase, forced bool) {
	m.previous = m.current
	m.current = to
	m.bus.Emit(event.PhaseChanged{
		Time:   m.clock.Now(),
		From:   m.previous.String(),
		To:     to.String(),
		Forced: forced,
	})
}

// CanStartWave reports whether a wave launch is legal right now.
func (m *PhaseMachine) CanStartWave() bool { return m.current == PhasePlanning }

// CanPause reports whether pausing is legal right now.
func (m *PhaseMachine) CanPause() bool {
	return m.current == PhasePlanning || m.current == PhaseCombat
}

// CanResume reports whether resuming is legal right now.
func (m *PhaseMachine) CanResume() bool { return m.current == PhasePaused }

// IsGameOver reports whether the run has ended either way.
func (m *PhaseMachine) IsGameOver() bool {
	return m.current == PhaseVictory || m.current == PhaseDefeat
}

// IsActive reports whether a run is in progress (building or fighting).
func (m *PhaseMachine) IsActive() bool {
	switch m.current {
	case PhasePlanning, PhaseCombat, PhasePaused:
		return true
	default:
		return false
	}
}
