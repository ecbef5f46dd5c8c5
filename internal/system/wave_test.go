package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

const waveTestEnemies = `
enemies:
  - id: drone
    name: Drone
    health: 30
    speed: 72
    reward: 8
`

const waveTestSchedule = `
waves:
  - delay: 0.5
    groups:
      - enemy: drone
        count: 3
        interval: 0.25
  - delay: 0.25
    groups:
      - enemy: drone
        count: 1
        interval: 0.25
`

func newWaveDeps(t *testing.T) *Deps {
	t.Helper()
	dir := t.TempDir()
	enemyPath := filepath.Join(dir, "enemies.yaml")
	wavePath := filepath.Join(dir, "waves.yaml")
	if err := os.WriteFile(enemyPath, []byte(waveTestEnemies), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(wavePath, []byte(waveTestSchedule), 0o644); err != nil {
		t.Fatal(err)
	}

	deps := newTestDeps()
	enemies, err := data.LoadEnemyTypes(enemyPath)
	if err != nil {
		t.Fatalf("load enemies: %v", err)
	}
	waves, err := data.LoadWaves(wavePath, enemies)
	if err != nil {
		t.Fatalf("load waves: %v", err)
	}
	deps.Enemies = enemies
	deps.Waves = waves
	return deps
}

func clearBoard(deps *Deps) {
	for _, e := range deps.State.GetEnemies() {
		deps.State.RemoveEnemy(e.ID)
	}
}

func TestWaveScheduleSpawnsOnTime(t *testing.T) {
	deps := newWaveDeps(t)
	ws := NewWaveSystem(deps)

	var started []event.WaveStarted
	deps.Bus.On(event.KindWaveStarted, func(ev event.Event) { started = append(started, ev.(event.WaveStarted)) })

	tick(deps, 0.25, ws) // arms wave 1 with its 0.5s lead-in
	if len(started) != 1 || started[0].Wave != 1 || started[0].Enemies != 3 {
		t.Fatalf("started = %+v, want one wave-1 announcement for 3 enemies", started)
	}
	if deps.State.Wave() != 1 {
		t.Fatalf("state wave = %d, want 1", deps.State.Wave())
	}
	if ws.CurrentWave() != 1 {
		t.Fatalf("current wave = %d, want 1", ws.CurrentWave())
	}

	counts := []int{0, 0, 1, 2, 3, 3}
	for i, want := range counts {
		if got := len(deps.State.GetEnemies()); got != want {
			t.Fatalf("after %d ticks: %d enemies on board, want %d", i+1, got, want)
		}
		tick(deps, 0.25, ws)
	}
	if len(started) != 1 {
		t.Fatalf("wave 1 announced %d times", len(started))
	}
}

func TestWaveCompletesOnlyAfterBoardClears(t *testing.T) {
	deps := newWaveDeps(t)
	ws := NewWaveSystem(deps)

	var completed []event.WaveCompleted
	deps.Bus.On(event.KindWaveCompleted, func(ev event.Event) { completed = append(completed, ev.(event.WaveCompleted)) })

	for i := 0; i < 8; i++ { // arm, lead-in, all three spawns, into drain
		tick(deps, 0.25, ws)
	}
	if len(completed) != 0 {
		t.Fatal("wave completed while enemies were still on the board")
	}

	clearBoard(deps)
	tick(deps, 0.25, ws)
	if len(completed) != 1 || completed[0].Wave != 1 {
		t.Fatalf("completed = %+v, want exactly wave 1", completed)
	}
}

func TestVictoryAfterFinalWaveCleared(t *testing.T) {
	deps := newWaveDeps(t)
	ws := NewWaveSystem(deps)

	var overs []event.GameOver
	deps.Bus.On(event.KindGameOver, func(ev event.Event) { overs = append(overs, ev.(event.GameOver)) })

	for wave := 0; wave < 2; wave++ {
		for i := 0; i < 8; i++ {
			tick(deps, 0.25, ws)
		}
		clearBoard(deps)
		tick(deps, 0.25, ws) // drain sees the empty board
	}
	tick(deps, 0.25, ws) // schedule exhausted

	if deps.Phase.Current() != world.PhaseVictory {
		t.Fatalf("phase = %v, want victory", deps.Phase.Current())
	}
	if len(overs) != 1 || !overs[0].Victory || overs[0].Wave != 2 {
		t.Fatalf("game over events = %+v, want one wave-2 victory", overs)
	}

	tick(deps, 0.25, ws) // a finished run stays finished
	if len(overs) != 1 {
		t.Fatal("victory announced twice")
	}
}
