package combat

import (
	"testing"

	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

func newTestState() *world.State {
	path := []world.Point{{X: 0, Y: 240}, {X: 768, Y: 240}}
	return world.NewState(24, 16, 32, path, 0, 20, event.NewBus(), world.NewClock())
}

func spawnAt(s *world.State, x, y, progress float64) *world.Enemy {
	e := s.SpawnEnemy(&data.EnemyTypeInfo{ID: "drone", Health: 30, Speed: 72, Reward: 8})
	e.X, e.Y = x, y
	e.Progress = progress
	s.Grid().Update(e.ID, x, y)
	return e
}

func TestFindTargetPicksFurthestProgress(t *testing.T) {
	s := newTestState()
	spawnAt(s, 100, 240, 3)
	want := spawnAt(s, 120, 240, 7)
	spawnAt(s, 140, 240, 5)

	got := FindTarget(s, 120, 240, 100)
	if got != want {
		t.Fatalf("FindTarget progress = %v, want 7", got.Progress)
	}
}

func TestFindTargetTieBreaksByInsertionOrder(t *testing.T) {
	s := newTestState()
	first := spawnAt(s, 100, 240, 5)
	spawnAt(s, 140, 240, 5)

	if got := FindTarget(s, 120, 240, 100); got != first {
		t.Fatalf("tie broke to id %d, want earlier spawn %d", got.ID, first.ID)
	}
}

func TestFindTargetEmptyRangeIsNil(t *testing.T) {
	s := newTestState()
	spawnAt(s, 700, 240, 3)
	if got := FindTarget(s, 100, 240, 50); got != nil {
		t.Fatalf("FindTarget = %v, want nil", got)
	}
}

func TestFindPrecisionTargetPicksHighestHealth(t *testing.T) {
	s := newTestState()
	spawnAt(s, 100, 240, 9).Health = 40
	want := spawnAt(s, 120, 240, 1)
	want.Health = 160
	spawnAt(s, 140, 240, 5).Health = 40

	if got := FindPrecisionTarget(s, 120, 240, 100); got != want {
		t.Fatalf("precision target health = %d, want 160", got.Health)
	}
}

func TestFindPrecisionTargetTieBreaksByProgress(t *testing.T) {
	s := newTestState()
	spawnAt(s, 100, 240, 3).Health = 50
	want := spawnAt(s, 120, 240, 8)
	want.Health = 50

	if got := FindPrecisionTarget(s, 110, 240, 100); got != want {
		t.Fatalf("tie broke to progress %v, want 8", got.Progress)
	}
}

func TestFindChainTargetsNearestFirstExcludingPrimary(t *testing.T) {
	s := newTestState()
	primary := spawnAt(s, 100, 240, 9)
	far := spawnAt(s, 150, 240, 1)
	near := spawnAt(s, 110, 240, 2)
	mid := spawnAt(s, 130, 240, 3)
	spawnAt(s, 400, 240, 8) // outside chain radius

	got := FindChainTargets(s, primary, 64, 3)
	if len(got) != 3 {
		t.Fatalf("chain targets = %d, want 3", len(got))
	}
	if got[0] != near || got[1] != mid || got[2] != far {
		t.Fatalf("chain order = %v %v %v, want nearest first", got[0].ID, got[1].ID, got[2].ID)
	}
	for _, e := range got {
		if e == primary {
			t.Fatal("chain includes the primary")
		}
	}
}

func TestFindChainTargetsTruncatesToMax(t *testing.T) {
	s := newTestState()
	primary := spawnAt(s, 100, 240, 9)
	for i := 0; i < 5; i++ {
		spawnAt(s, 110+float64(i)*8, 240, 1)
	}
	if got := FindChainTargets(s, primary, 64, 2); len(got) != 2 {
		t.Fatalf("chain targets = %d, want 2", len(got))
	}
	if got := FindChainTargets(s, primary, 64, 0); got != nil {
		t.Fatalf("chain targets with max 0 = %v, want nil", got)
	}
}

func TestEnemiesInSplashIsUnlimitedAndExact(t *testing.T) {
	s := newTestState()
	for i := 0; i < 6; i++ {
		spawnAt(s, 100+float64(i)*10, 240, float64(i))
	}
	spawnAt(s, 300, 240, 9)

	got := EnemiesInSplash(s, 125, 240, 30)
	if len(got) != 6 {
		t.Fatalf("splash victims = %d, want 6", len(got))
	}
}

func TestEffectiveDamageFloorsAtOne(t *testing.T) {
	cases := []struct {
		base, armor, want int
	}{
		{5, 30, 1},
		{10, 10, 1},
		{10, 9, 1},
		{10, 0, 10},
		{18, 8, 10},
	}
	for _, c := range cases {
		if got := EffectiveDamage(c.base, c.armor); got != c.want {
			t.Errorf("EffectiveDamage(%d, %d) = %d, want %d", c.base, c.armor, got, c.want)
		}
	}
}

func TestChainDamageCompoundsPerHop(t *testing.T) {
	// Hop damage is pre-armor: D, D*0.7, D*0.7*0.7, ...
	if got := ChainDamage(100, 0.7, 0); got != 100 {
		t.Fatalf("hop 0 = %d, want 100", got)
	}
	if got := ChainDamage(100, 0.7, 1); got != 70 {
		t.Fatalf("hop 1 = %d, want 70", got)
	}
	if got := ChainDamage(100, 0.7, 2); got != 49 {
		t.Fatalf("hop 2 = %d, want 49", got)
	}
}
