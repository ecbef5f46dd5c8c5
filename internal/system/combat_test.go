package system

import (
	"testing"

	"go.uber.org/zap"

	"github.com/LupusDei/space-towers-sub000/internal/config"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

// newTestDeps builds one isolated simulation context in combat phase.
// Path runs along y=240; board is 24x16 cells of 32 units.
func newTestDeps() *Deps {
	bus := event.NewBus()
	clock := world.NewClock()
	path := []world.Point{{X: 0, Y: 240}, {X: 768, Y: 240}}
	state := world.NewState(24, 16, 32, path, 1000, 20, bus, clock)
	phase := world.NewPhaseMachine(bus, clock)
	phase.TransitionTo(world.PhaseLoadout)
	phase.TransitionTo(world.PhasePlanning)
	phase.TransitionTo(world.PhaseCombat)
	return &Deps{
		Config: config.Defaults(),
		Log:    zap.NewNop(),
		State:  state,
		Phase:  phase,
		Clock:  clock,
		Bus:    bus,
	}
}

// tick advances the clock and runs the given systems, host-loop style.
func tick(deps *Deps, dt float64, systems ...interface{ Update(float64) }) {
	deps.Clock.Advance(dt)
	for _, s := range systems {
		s.Update(dt)
	}
}

func laserType() *data.TowerTypeInfo {
	return &data.TowerTypeInfo{
		ID: "pulse_laser", Behavior: data.BehaviorInstant, Cost: 40,
		Damage: 10, Range: 96, FireInterval: 0.5,
		DamagePerLevel: 5, RangePerLevel: 8, IntervalPerLevel: -0.05,
	}
}

func teslaType() *data.TowerTypeInfo {
	return &data.TowerTypeInfo{
		ID: "tesla_coil", Behavior: data.BehaviorChain, Cost: 70,
		Damage: 20, Range: 96, FireInterval: 0.9,
		ChainRadius: 64, ChainTargets: 2, ChainFalloff: 0.7,
	}
}

func gravityType() *data.TowerTypeInfo {
	return &data.TowerTypeInfo{
		ID: "gravity_well", Behavior: data.BehaviorPulse, Cost: 80,
		Damage: 4, Range: 80, FireInterval: 1.2,
	}
}

func spawnEnemy(deps *Deps, x float64, health, armor, reward int) *world.Enemy {
	e := deps.State.SpawnEnemy(&data.EnemyTypeInfo{
		ID: "drone", Health: health, Speed: 72, Armor: armor, Reward: reward,
	})
	e.X = x
	deps.State.Grid().Update(e.ID, e.X, e.Y)
	return e
}

func TestWaveClearScenario(t *testing.T) {
	// A damage-10, 0.5s-interval laser against a 30-health unarmored unit:
	// dead after the third shot, with exactly one kill event.
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	if _, err := deps.State.PlaceTower(laserType(), 3, 6); err != nil {
		t.Fatalf("place: %v", err)
	}
	e := spawnEnemy(deps, 112, 30, 0, 8)
	id := e.ID

	var kills []event.EnemyKilled
	deps.Bus.On(event.KindEnemyKilled, func(ev event.Event) {
		kills = append(kills, ev.(event.EnemyKilled))
	})

	tick(deps, 0.5, cs)
	tick(deps, 0.5, cs)
	if deps.State.GetEnemyByID(id) == nil {
		t.Fatal("enemy dead after two shots, want three")
	}
	tick(deps, 0.5, cs)

	if deps.State.GetEnemyByID(id) != nil {
		t.Fatal("enemy alive after three shots")
	}
	if len(kills) != 1 {
		t.Fatalf("kill events = %d, want exactly 1", len(kills))
	}
	if kills[0].EnemyID != id || kills[0].Reward != 8 {
		t.Fatalf("kill event = %+v", kills[0])
	}
}

func TestDamageFloorAgainstHeavyArmor(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	def := laserType()
	def.Damage = 5
	deps.State.PlaceTower(def, 3, 6)
	e := spawnEnemy(deps, 112, 30, 30, 10) // armor far above damage

	tick(deps, 0.5, cs)
	if e.Health != 29 {
		t.Fatalf("health = %d, want 29: floored damage must be exactly 1", e.Health)
	}
}

func TestChainFalloffCompoundsPerHop(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	deps.State.PlaceTower(teslaType(), 3, 6)

	primary := spawnEnemy(deps, 112, 100, 0, 5)
	primary.Progress = 9 // primary selection
	hop1 := spawnEnemy(deps, 122, 100, 0, 5)
	hop2 := spawnEnemy(deps, 140, 100, 0, 5)

	tick(deps, 0.9, cs)

	if primary.Health != 80 {
		t.Fatalf("primary health = %d, want 80", primary.Health)
	}
	if hop1.Health != 86 { // 20*0.7 = 14
		t.Fatalf("first hop health = %d, want 86", hop1.Health)
	}
	if hop2.Health != 90 { // 20*0.7*0.7 = 9.8 → 10
		t.Fatalf("second hop health = %d, want 90", hop2.Health)
	}
}

func TestChainAppliesArmorAndFloorPerHop(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	deps.State.PlaceTower(teslaType(), 3, 6)

	primary := spawnEnemy(deps, 112, 100, 0, 5)
	primary.Progress = 9
	hop := spawnEnemy(deps, 122, 100, 20, 5) // armor above the hop's 14 pre-armor damage

	tick(deps, 0.9, cs)
	if hop.Health != 99 {
		t.Fatalf("armored hop health = %d, want 99 (floor of 1)", hop.Health)
	}
}

func TestSplashExcludesPrimaryTarget(t *testing.T) {
	deps := newTestDeps()
	NewCombatSystem(deps) // subscribes the splash handler

	a := spawnEnemy(deps, 100, 50, 0, 5)
	b := spawnEnemy(deps, 120, 50, 0, 5)

	// The travel system already damaged A directly; the hit event triggers
	// splash for everyone else in radius.
	deps.Bus.Emit(event.ProjectileHit{
		Time: 0, TowerID: 0, PrimaryID: a.ID,
		X: 100, Y: 240, Damage: 16, AOERadius: 48,
	})

	if a.Health != 50 {
		t.Fatalf("primary health = %d, splash must not double-hit", a.Health)
	}
	if b.Health != 34 {
		t.Fatalf("splash victim health = %d, want 34", b.Health)
	}
}

func TestKillRewardSnapshottedBeforePoolReset(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	deps.State.PlaceTower(laserType(), 3, 6) // 1000 - 40
	spawnEnemy(deps, 112, 5, 0, 25)

	var killReward int
	deps.Bus.On(event.KindEnemyKilled, func(ev event.Event) {
		killReward = ev.(event.EnemyKilled).Reward
	})

	tick(deps, 0.5, cs)

	if killReward != 25 {
		t.Fatalf("kill event reward = %d, want 25", killReward)
	}
	if deps.State.Credits() != 985 { // 960 after placement, +25 bounty
		t.Fatalf("credits = %d, want 985", deps.State.Credits())
	}
}

func TestPulseDamagesAllAndSlowsSurvivors(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	deps.State.PlaceTower(gravityType(), 3, 6)

	survivor := spawnEnemy(deps, 112, 100, 0, 5)
	doomed := spawnEnemy(deps, 120, 1, 0, 5)
	doomedID := doomed.ID

	var pulses int
	deps.Bus.On(event.KindGravityPulse, func(event.Event) { pulses++ })

	tick(deps, 0.1, cs)

	if survivor.Health != 96 {
		t.Fatalf("survivor health = %d, want 96", survivor.Health)
	}
	if survivor.SlowMult != deps.Config.Gameplay.SlowMultiplier {
		t.Fatalf("survivor slow = %v, want %v", survivor.SlowMult, deps.Config.Gameplay.SlowMultiplier)
	}
	if deps.State.GetEnemyByID(doomedID) != nil {
		t.Fatal("doomed enemy survived the pulse")
	}
	if pulses != 1 {
		t.Fatalf("gravity pulse events = %d, want 1", pulses)
	}
}

func TestPulseHoldsFireOnEmptyRange(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	tw, _ := deps.State.PlaceTower(gravityType(), 3, 6)

	tick(deps, 0.1, cs)
	if !tw.CanFire() {
		t.Fatal("pulse tower spent its cooldown with nothing in range")
	}
}

func TestNoTargetNoEffect(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	tw, _ := deps.State.PlaceTower(laserType(), 3, 6)
	// A target reference from a previous tick whose unit is gone.
	tw.SetTarget(999, 500, 500)

	var any int
	deps.Bus.On(event.KindDamageNumber, func(event.Event) { any++ })
	deps.Bus.On(event.KindProjectileFired, func(event.Event) { any++ })

	tick(deps, 0.5, cs)

	if any != 0 {
		t.Fatalf("events = %d, want silence with nothing in range", any)
	}
	if tw.TargetID != 0 {
		t.Fatalf("stale target id %d not cleared", tw.TargetID)
	}
	if !tw.CanFire() {
		t.Fatal("cooldown spent without firing")
	}
}

func TestBeamEffectRecordedAndExpires(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	es := NewEffectSystem(deps)
	deps.State.PlaceTower(laserType(), 3, 6)
	spawnEnemy(deps, 112, 100, 0, 5)

	tick(deps, 0.5, cs, es)
	if len(deps.State.Effects()) != 1 {
		t.Fatalf("effects = %d, want 1", len(deps.State.Effects()))
	}

	// Past the effect duration the cleanup pass evicts it, even with the
	// tower idle on cooldown.
	tick(deps, deps.Config.Gameplay.EffectDuration, es)
	if len(deps.State.Effects()) != 0 {
		t.Fatalf("effects = %d after expiry, want 0", len(deps.State.Effects()))
	}
}

func TestPrecisionTowerBurnsDownToughestUnit(t *testing.T) {
	deps := newTestDeps()
	cs := NewCombatSystem(deps)
	deps.State.PlaceTower(&data.TowerTypeInfo{
		ID: "rail_lance", Behavior: data.BehaviorPrecision, Cost: 110,
		Damage: 34, Range: 192, FireInterval: 2.2,
	}, 3, 6)

	spawnEnemy(deps, 112, 45, 0, 5).Progress = 9
	tough := spawnEnemy(deps, 150, 900, 0, 5) // less progress, more health

	tick(deps, 0.1, cs)
	if tough.Health != 866 {
		t.Fatalf("tough unit health = %d, want 866", tough.Health)
	}
}
