package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Behavior is the closed set of tower firing styles. The combat system
// switches exhaustively over it; adding a style means adding a case there.
type Behavior int

const (
	BehaviorInstant    Behavior = iota // hitscan, single target
	BehaviorChain                      // hitscan primary plus falloff hops
	BehaviorProjectile                 // travelling round, direct damage only
	BehaviorSplash                     // travelling round with area damage on impact
	BehaviorPulse                      // no discrete target, damages and slows all in range
	BehaviorPrecision                  // hitscan, highest-health-first targeting
)

func (b Behavior) String() string {
	switch b {
	case BehaviorInstant:
		return "instant"
	case BehaviorChain:
		return "chain"
	case BehaviorProjectile:
		return "projectile"
	case BehaviorSplash:
		return "splash"
	case BehaviorPulse:
		return "pulse"
	case BehaviorPrecision:
		return "precision"
	default:
		return "unknown"
	}
}

func parseBehavior(s string) (Behavior, error) {
	switch s {
	case "instant":
		return BehaviorInstant, nil
	case "chain":
		return BehaviorChain, nil
	case "projectile":
		return BehaviorProjectile, nil
	case "splash":
		return BehaviorSplash, nil
	case "pulse":
		return BehaviorPulse, nil
	case "precision":
		return BehaviorPrecision, nil
	default:
		return 0, fmt.Errorf("unknown tower behavior %q", s)
	}
}

// TowerTypeInfo holds static data for one tower type loaded from YAML.
// Base stats are level-1 values; per-level deltas apply as
// base + (level-1) * delta when a tower is upgraded.
type TowerTypeInfo struct {
	ID       string
	Name     string
	Behavior Behavior
	Cost     int

	Damage       int
	Range        float64
	FireInterval float64

	DamagePerLevel   int
	RangePerLevel    float64
	IntervalPerLevel float64 // usually negative: higher levels fire faster

	// Chain behavior only.
	ChainRadius  float64
	ChainTargets int
	ChainFalloff float64

	// Projectile and splash behaviors only.
	ProjectileSpeed float64
	AOERadius       float64 // zero for non-splash rounds
}

// StatsAt returns the derived damage, range, and fire interval for a level.
func (t *TowerTypeInfo) StatsAt(level int) (damage int, rng, interval float64) {
	n := level - 1
	damage = t.Damage + n*t.DamagePerLevel
	rng = t.Range + float64(n)*t.RangePerLevel
	interval = t.FireInterval + float64(n)*t.IntervalPerLevel
	if interval < 0.05 {
		interval = 0.05 // fire rate cap, keeps upgrades from inverting the cooldown
	}
	return damage, rng, interval
}

// TowerTypeTable holds all tower type definitions indexed by ID.
type TowerTypeTable struct {
	types map[string]*TowerTypeInfo
	order []string
}

// Get returns the tower type for the given ID, or nil if not found.
func (t *TowerTypeTable) Get(id string) *TowerTypeInfo {
	return t.types[id]
}

// IDs returns all tower type IDs in file order.
func (t *TowerTypeTable) IDs() []string { return t.order }

// Count returns the number of loaded tower types.
func (t *TowerTypeTable) Count() int { return len(t.types) }

// --- YAML loading ---

type towerEntry struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Behavior         string  `yaml:"behavior"`
	Cost             int     `yaml:"cost"`
	Damage           int     `yaml:"damage"`
	Range            float64 `yaml:"range"`
	FireInterval     float64 `yaml:"fire_interval"`
	DamagePerLevel   int     `yaml:"damage_per_level"`
	RangePerLevel    float64 `yaml:"range_per_level"`
	IntervalPerLevel float64 `yaml:"interval_per_level"`
	ChainRadius      float64 `yaml:"chain_radius"`
	ChainTargets     int     `yaml:"chain_targets"`
	ChainFalloff     float64 `yaml:"chain_falloff"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	AOERadius        float64 `yaml:"aoe_radius"`
}

type towerFile struct {
	Towers []towerEntry `yaml:"towers"`
}

// LoadTowerTypes reads tower type definitions from a YAML file.
func LoadTowerTypes(path string) (*TowerTypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tower types %s: %w", path, err)
	}
	table, err := parseTowerTypes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse tower types %s: %w", path, err)
	}
	return table, nil
}

func parseTowerTypes(raw []byte) (*TowerTypeTable, error) {
	var f towerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	table := &TowerTypeTable{types: make(map[string]*TowerTypeInfo, len(f.Towers))}
	for _, e := range f.Towers {
		b, err := parseBehavior(e.Behavior)
		if err != nil {
			return nil, fmt.Errorf("tower %q: %w", e.ID, err)
		}
		if e.Damage < 1 || e.FireInterval <= 0 || e.Range <= 0 {
			return nil, fmt.Errorf("tower %q: damage/range/fire_interval must be positive", e.ID)
		}
		if b == BehaviorChain && (e.ChainTargets < 1 || e.ChainRadius <= 0 || e.ChainFalloff <= 0 || e.ChainFalloff >= 1) {
			return nil, fmt.Errorf("tower %q: chain behavior needs chain_targets, chain_radius and chain_falloff in (0,1)", e.ID)
		}
		if (b == BehaviorProjectile || b == BehaviorSplash) && e.ProjectileSpeed <= 0 {
			return nil, fmt.Errorf("tower %q: projectile behavior needs projectile_speed", e.ID)
		}
		if b == BehaviorSplash && e.AOERadius <= 0 {
			return nil, fmt.Errorf("tower %q: splash behavior needs aoe_radius", e.ID)
		}
		if _, dup := table.types[e.ID]; dup {
			return nil, fmt.Errorf("tower %q: duplicate id", e.ID)
		}
		table.types[e.ID] = &TowerTypeInfo{
			ID:               e.ID,
			Name:             e.Name,
			Behavior:         b,
			Cost:             e.Cost,
			Damage:           e.Damage,
			Range:            e.Range,
			FireInterval:     e.FireInterval,
			DamagePerLevel:   e.DamagePerLevel,
			RangePerLevel:    e.RangePerLevel,
			IntervalPerLevel: e.IntervalPerLevel,
			ChainRadius:      e.ChainRadius,
			ChainTargets:     e.ChainTargets,
			ChainFalloff:     e.ChainFalloff,
			ProjectileSpeed:  e.ProjectileSpeed,
			AOERadius:        e.AOERadius,
		}
		table.order = append(table.order, e.ID)
	}
	return table, nil
}
