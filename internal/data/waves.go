package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnGroup is one homogeneous run of spawns within a wave.
type SpawnGroup struct {
	EnemyID  string
	Count    int
	Interval float64 // seconds between spawns within the group
}

// WaveInfo describes one wave: its lead-in delay and its spawn groups,
// executed in order.
type WaveInfo struct {
	Number int
	Delay  float64 // seconds before the first spawn
	Groups []SpawnGroup
}

// TotalEnemies returns the number of enemies the wave will spawn.
func (w *WaveInfo) TotalEnemies() int {
	n := 0
	for _, g := range w.Groups {
		n += g.Count
	}
	return n
}

// WaveTable holds the wave schedule in play order.
type WaveTable struct {
	waves []*WaveInfo
}

// Get returns the wave with the given 1-based number, or nil past the end.
func (t *WaveTable) Get(number int) *WaveInfo {
	if number < 1 || number > len(t.waves) {
		return nil
	}
	return t.waves[number-1]
}

// Count returns the number of waves in the schedule.
func (t *WaveTable) Count() int { return len(t.waves) }

// --- YAML loading ---

type spawnGroupEntry struct {
	Enemy    string  `yaml:"enemy"`
	Count    int     `yaml:"count"`
	Interval float64 `yaml:"interval"`
}

type waveEntry struct {
	Delay  float64           `yaml:"delay"`
	Groups []spawnGroupEntry `yaml:"groups"`
}

type waveFile struct {
	Waves []waveEntry `yaml:"waves"`
}

// LoadWaves reads the wave schedule from a YAML file. Enemy ids are checked
// against the already-loaded enemy table so a bad schedule fails at boot, not
// mid-run.
func LoadWaves(path string, enemies *EnemyTypeTable) (*WaveTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read waves %s: %w", path, err)
	}
	table, err := parseWaves(raw, enemies)
	if err != nil {
		return nil, fmt.Errorf("parse waves %s: %w", path, err)
	}
	return table, nil
}

func parseWaves(raw []byte, enemies *EnemyTypeTable) (*WaveTable, error) {
	var f waveFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	table := &WaveTable{}
	for i, w := range f.Waves {
		info := &WaveInfo{Number: i + 1, Delay: w.Delay}
		for _, g := range w.Groups {
			if enemies.Get(g.Enemy) == nil {
				return nil, fmt.Errorf("wave %d: unknown enemy %q", i+1, g.Enemy)
			}
			if g.Count < 1 {
				return nil, fmt.Errorf("wave %d: enemy %q count must be positive", i+1, g.Enemy)
			}
			if g.Interval < 0 {
				return nil, fmt.Errorf("wave %d: enemy %q interval must be non-negative", i+1, g.Enemy)
			}
			info.Groups = append(info.Groups, SpawnGroup{
				EnemyID:  g.Enemy,
				Count:    g.Count,
				Interval: g.Interval,
			})
		}
		if len(info.Groups) == 0 {
			return nil, fmt.Errorf("wave %d: no spawn groups", i+1)
		}
		table.waves = append(table.waves, info)
	}
	return table, nil
}
