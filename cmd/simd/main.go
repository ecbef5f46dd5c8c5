// simd runs the combat simulation headless: it loads config and data tables,
// builds one simulation context, auto-places a defensive line, and ticks the
// core until victory or defeat.
//
// Usage:
//
//	go run ./cmd/simd [-config configs/simd.toml] [-max-ticks n] [-realtime]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LupusDei/space-towers-sub000/internal/config"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	coresys "github.com/LupusDei/space-towers-sub000/internal/core/system"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/system"
	"github.com/LupusDei/space-towers-sub000/internal/world"
)

func main() {
	configPath := flag.String("config", "configs/simd.toml", "path to TOML config")
	maxTicks := flag.Int("max-ticks", 500000, "hard stop after this many ticks")
	realtime := flag.Bool("realtime", false, "pace ticks at the configured tick rate")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	towers, err := data.LoadTowerTypes(cfg.Data.Towers)
	if err != nil {
		log.Fatal("load tower types", zap.Error(err))
	}
	enemies, err := data.LoadEnemyTypes(cfg.Data.Enemies)
	if err != nil {
		log.Fatal("load enemy types", zap.Error(err))
	}
	waves, err := data.LoadWaves(cfg.Data.Waves, enemies)
	if err != nil {
		log.Fatal("load waves", zap.Error(err))
	}
	log.Info("data loaded",
		zap.Int("tower_types", towers.Count()),
		zap.Int("enemy_types", enemies.Count()),
		zap.Int("waves", waves.Count()),
	)

	bus := event.NewBus()
	clock := world.NewClock()
	board := cfg.Board
	path := defaultPath(board)
	state := world.NewState(board.WidthCells, board.HeightCells, board.CellSize, path,
		cfg.Gameplay.StartCredits, cfg.Gameplay.StartLives, bus, clock)
	phase := world.NewPhaseMachine(bus, clock)

	deps := &system.Deps{
		Config:  cfg,
		Log:     log,
		State:   state,
		Phase:   phase,
		Clock:   clock,
		Bus:     bus,
		Towers:  towers,
		Enemies: enemies,
		Waves:   waves,
	}

	sched := coresys.NewScheduler()
	effects := system.NewEffectSystem(deps)
	sched.Register(system.NewMovementSystem(deps))
	sched.Register(system.NewCombatSystem(deps))
	sched.Register(system.NewProjectileSystem(deps))
	sched.Register(system.NewWaveSystem(deps))
	sched.Register(effects)

	bus.On(event.KindGameOver, func(e event.Event) {
		over := e.(event.GameOver)
		log.Info("game over", zap.Bool("victory", over.Victory), zap.Int("wave", over.Wave))
	})

	// Session setup: menu → loadout → planning, build the line, then fight.
	phase.TransitionTo(world.PhaseLoadout)
	phase.TransitionTo(world.PhasePlanning)
	bus.Emit(event.GameStarted{Time: clock.Now()})
	placeLine(deps)
	if !phase.TransitionTo(world.PhaseCombat) {
		log.Fatal("combat transition rejected", zap.String("phase", phase.Current().String()))
	}

	dt := cfg.Simulation.TickRate.Seconds() * cfg.Simulation.TimeScale
	if dt > cfg.Simulation.MaxDelta {
		dt = cfg.Simulation.MaxDelta
	}
	ticks := 0
	for !phase.IsGameOver() && ticks < *maxTicks {
		if phase.Current() == world.PhaseCombat {
			clock.Advance(dt)
			sched.Tick(dt)
		} else {
			// Paused or planning frames still expire stale visuals.
			effects.Update(dt)
		}
		ticks++
		if *realtime {
			time.Sleep(cfg.Simulation.TickRate.Duration)
		}
	}

	snap := state.GetGameStateSnapshot()
	log.Info("simulation finished",
		zap.Int("ticks", ticks),
		zap.Float64("sim_seconds", snap.Time),
		zap.String("phase", phase.Current().String()),
		zap.Int("wave", snap.Wave),
		zap.Int("credits", snap.Credits),
		zap.Int("lives", snap.Lives),
	)
	for _, t := range state.GetTowers() {
		log.Info("tower totals",
			zap.Int32("id", t.ID),
			zap.String("type", t.Type.ID),
			zap.Int("kills", t.Kills),
			zap.Int("damage", t.DamageDealt),
		)
	}
}

// placeLine builds a flank of towers one build cell below the path, cycling
// through the loaded types until credits run short. Placement is normally a
// player command; this stands in for one in the headless runner.
func placeLine(deps *system.Deps) {
	st := deps.State
	cy := deps.Config.Board.HeightCells/2 + 1
	types := deps.Towers.IDs()
	slot := 0
	for cx := 2; cx < deps.Config.Board.WidthCells-2; cx += 2 {
		if st.GetCellState(cx, cy) != world.CellEmpty {
			continue
		}
		def := deps.Towers.Get(types[slot%len(types)])
		if _, err := st.PlaceTower(def, cx, cy); err != nil {
			deps.Log.Debug("placement stopped", zap.Error(err))
			return
		}
		slot++
	}
}

// defaultPath runs the lane straight across the middle of the board.
func defaultPath(b config.BoardConfig) []world.Point {
	midY := (float64(b.HeightCells) / 2) * b.CellSize
	return []world.Point{
		{X: 0, Y: midY},
		{X: float64(b.WidthCells) * b.CellSize * 0.4, Y: midY},
		{X: float64(b.WidthCells) * b.CellSize * 0.4, Y: midY - 2*b.CellSize},
		{X: float64(b.WidthCells) * b.CellSize, Y: midY - 2*b.CellSize},
	}
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", lc.Level, err)
	}
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
