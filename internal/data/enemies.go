package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyTypeInfo holds static data for one hostile unit type loaded from YAML.
type EnemyTypeInfo struct {
	ID     string
	Name   string
	Health int
	Speed  float64 // continuous units per second along the path
	Armor  int     // flat subtraction from incoming damage, floored at 1
	Reward int     // credits granted on kill
}

// EnemyTypeTable holds all enemy type definitions indexed by ID.
type EnemyTypeTable struct {
	types map[string]*EnemyTypeInfo
}

// Get returns the enemy type for the given ID, or nil if not found.
func (t *EnemyTypeTable) Get(id string) *EnemyTypeInfo {
	return t.types[id]
}

// Count returns the number of loaded enemy types.
func (t *EnemyTypeTable) Count() int { return len(t.types) }

// --- YAML loading ---

type enemyEntry struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Health int     `yaml:"health"`
	Speed  float64 `yaml:"speed"`
	Armor  int     `yaml:"armor"`
	Reward int     `yaml:"reward"`
}

type enemyFile struct {
	Enemies []enemyEntry `yaml:"enemies"`
}

// LoadEnemyTypes reads enemy type definitions from a YAML file.
func LoadEnemyTypes(path string) (*EnemyTypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy types %s: %w", path, err)
	}
	table, err := parseEnemyTypes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse enemy types %s: %w", path, err)
	}
	return table, nil
}

func parseEnemyTypes(raw []byte) (*EnemyTypeTable, error) {
	var f enemyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	table := &EnemyTypeTable{types: make(map[string]*EnemyTypeInfo, len(f.Enemies))}
	for _, e := range f.Enemies {
		if e.Health < 1 || e.Speed <= 0 {
			return nil, fmt.Errorf("enemy %q: health and speed must be positive", e.ID)
		}
		if e.Armor < 0 || e.Reward < 0 {
			return nil, fmt.Errorf("enemy %q: armor and reward must be non-negative", e.ID)
		}
		if _, dup := table.types[e.ID]; dup {
			return nil, fmt.Errorf("enemy %q: duplicate id", e.ID)
		}
		table.types[e.ID] = &EnemyTypeInfo{
			ID:     e.ID,
			Name:   e.Name,
			Health: e.Health,
			Speed:  e.Speed,
			Armor:  e.Armor,
			Reward: e.Reward,
		}
	}
	return table, nil
}
