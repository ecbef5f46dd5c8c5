package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Board      BoardConfig      `toml:"board"`
	Gameplay   GameplayConfig   `toml:"gameplay"`
	Data       DataConfig       `toml:"data"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate  Duration `toml:"tick_rate"`  // real time per simulation step
	MaxDelta  float64  `toml:"max_delta"`  // clamp for a single step, seconds
	TimeScale float64  `toml:"time_scale"` // simulation seconds per real second
}

// Duration decodes TOML duration strings like "16ms".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type BoardConfig struct {
	WidthCells  int     `toml:"width_cells"`
	HeightCells int     `toml:"height_cells"`
	CellSize    float64 `toml:"cell_size"` // continuous units per build cell
}

// GameplayConfig holds tunable combat constants. Previously these would be
// magic numbers scattered across the resolution code.
type GameplayConfig struct {
	StartCredits int `toml:"start_credits"`
	StartLives   int `toml:"start_lives"`

	MaxTowerLevel int     `toml:"max_tower_level"`
	SellRefund    float64 `toml:"sell_refund"` // fraction of invested credits returned

	SlowMultiplier float64 `toml:"slow_multiplier"` // pulse towers: speed factor while slowed
	SlowDuration   float64 `toml:"slow_duration"`   // pulse towers: slow length, seconds

	EffectDuration float64 `toml:"effect_duration"` // visual effect record lifetime, seconds
}

type DataConfig struct {
	Towers  string `toml:"towers"`
	Enemies string `toml:"enemies"`
	Waves   string `toml:"waves"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the baseline configuration. Tests construct from here
// instead of reading files.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:  Duration{16 * time.Millisecond},
			MaxDelta:  0.1,
			TimeScale: 1,
		},
		Board: BoardConfig{
			WidthCells:  24,
			HeightCells: 16,
			CellSize:    32,
		},
		Gameplay: GameplayConfig{
			StartCredits:   200,
			StartLives:     20,
			MaxTowerLevel:  5,
			SellRefund:     0.7,
			SlowMultiplier: 0.5,
			SlowDuration:   2,
			EffectDuration: 0.3,
		},
		Data: DataConfig{
			Towers:  "data/towers.yaml",
			Enemies: "data/enemies.yaml",
			Waves:   "data/waves.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
