package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/LupusDei/space-towers-sub000/internal/core/ecs"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/data"
)

// CellState describes what occupies one build cell.
type CellState int

const (
	CellEmpty CellState = iota
	CellPath
	CellTower
	CellOutOfBounds
)

// Snapshot is a point-in-time read of the headline simulation numbers.
type Snapshot struct {
	Time        float64
	Credits     int
	Lives       int
	Wave        int
	Towers      int
	Enemies     int
	Projectiles int
}

type cellRef struct {
	cx int
	cy int
}

// State owns all mutable simulation collections: towers, enemies, pooled
// projectiles, the spatial index, effect records, and the economy counters.
// It implements both the read-only query surface and the mutation command
// surface the tick systems run against. Accessed only from the simulation
// goroutine — no locks.
type State struct {
	widthCells  int
	heightCells int
	cellSize    float64

	bus   *event.Bus
	clock *Clock

	towers      map[int32]*Tower
	towerOrder  []int32
	towerCells  map[cellRef]int32
	nextTowerID int32

	enemies     map[int32]*Enemy
	enemyOrder  []int32
	nextEnemyID int32
	enemyFree   []*Enemy

	grid *Grid

	pool        *ecs.Pool
	projectiles []Projectile

	path      []Point
	pathCells map[cellRef]struct{}

	credits int
	lives   int
	wave    int

	effects []*Effect
}

// NewState builds the state store for a widthCells x heightCells board with
// the given build cell size and enemy path (continuous waypoints). The
// spatial index cell is 4x the build cell, so a 3x3 neighbourhood covers the
// largest tower range.
func NewState(widthCells, heightCells int, cellSize float64, path []Point, credits, lives int, bus *event.Bus, clock *Clock) *State {
	s := &State{
		widthCells:  widthCells,
		heightCells: heightCells,
		cellSize:    cellSize,
		bus:         bus,
		clock:       clock,
		towers:      make(map[int32]*Tower),
		towerCells:  make(map[cellRef]int32),
		enemies:     make(map[int32]*Enemy),
		grid:        NewGrid(float64(widthCells)*cellSize, float64(heightCells)*cellSize, 4*cellSize),
		path:        path,
		pathCells:   make(map[cellRef]struct{}),
		credits:     credits,
		lives:       lives,
	}
	s.markPathCells()
	return s
}

// markPathCells samples the path polyline and records every build cell it
// crosses, so tower placement can reject path cells.
func (s *State) markPathCells() {
	step := s.cellSize / 4
	for i := 0; i+1 < len(s.path); i++ {
		a, b := s.path[i], s.path[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		n := int(length/step) + 1
		for j := 0; j <= n; j++ {
			f := float64(j) / float64(n)
			s.pathCells[s.cellAt(a.X+dx*f, a.Y+dy*f)] = struct{}{}
		}
	}
}

func (s *State) cellAt(x, y float64) cellRef {
	return cellRef{cx: int(math.Floor(x / s.cellSize)), cy: int(math.Floor(y / s.cellSize))}
}

// CellSize returns the build cell size in continuous units.
func (s *State) CellSize() float64 { return s.cellSize }

// CellCenter converts a grid cell to its continuous center point. This is the
// only sanctioned bridge between the two coordinate spaces.
func (s *State) CellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * s.cellSize, (float64(cy) + 0.5) * s.cellSize
}

// Grid exposes the spatial index for the movement system's re-bucketing.
func (s *State) Grid() *Grid { return s.grid }

// Now returns the current simulation time. Same units as cooldowns, slow
// durations, and effect durations.
func (s *State) Now() float64 { return s.clock.Now() }

// --- Tower collection ---

// PlaceTower creates a tower of the given type at a build cell, deducting its
// cost. Placement fails on occupied cells, path cells, out-of-bounds cells,
// and insufficient credits.
func (s *State) PlaceTower(def *data.TowerTypeInfo, cx, cy int) (*Tower, error) {
	if s.GetCellState(cx, cy) != CellEmpty {
		return nil, fmt.Errorf("place %s at (%d,%d): cell not empty", def.ID, cx, cy)
	}
	if s.credits < def.Cost {
		return nil, fmt.Errorf("place %s: need %d credits, have %d", def.ID, def.Cost, s.credits)
	}
	s.nextTowerID++
	t := &Tower{
		ID:    s.nextTowerID,
		Type:  def,
		CX:    cx,
		CY:    cy,
		Level: 1,
	}
	t.Damage, t.Range, t.FireInterval = def.StatsAt(1)
	s.towers[t.ID] = t
	s.towerOrder = append(s.towerOrder, t.ID)
	s.towerCells[cellRef{cx: cx, cy: cy}] = t.ID
	s.AddCredits(-def.Cost)
	s.bus.Emit(event.TowerPlaced{Time: s.Now(), TowerID: t.ID, Type: def.ID, CX: cx, CY: cy})
	return t, nil
}

// UpgradeTower advances a tower one level for another copy of its base cost.
// Returns false at max level, on unknown ids, or on insufficient credits.
func (s *State) UpgradeTower(id int32, maxLevel int) bool {
	t := s.towers[id]
	if t == nil || t.Level >= maxLevel || s.credits < t.Type.Cost {
		return false
	}
	if !t.Upgrade(maxLevel) {
		return false
	}
	s.AddCredits(-t.Type.Cost)
	s.bus.Emit(event.TowerUpgraded{Time: s.Now(), TowerID: id, Level: t.Level})
	return true
}

// SellTower removes a tower and refunds refundPct of everything invested in
// it (base cost plus one base cost per upgrade).
func (s *State) SellTower(id int32, refundPct float64) (int, bool) {
	t := s.towers[id]
	if t == nil {
		return 0, false
	}
	invested := t.Type.Cost * t.Level
	refund := int(float64(invested) * refundPct)
	delete(s.towers, id)
	delete(s.towerCells, cellRef{cx: t.CX, cy: t.CY})
	for i, tid := range s.towerOrder {
		if tid == id {
			s.towerOrder = append(s.towerOrder[:i], s.towerOrder[i+1:]...)
			break
		}
	}
	s.AddCredits(refund)
	s.bus.Emit(event.TowerSold{Time: s.Now(), TowerID: id, Refund: refund})
	return refund, true
}

// GetTowers returns all towers in placement order.
func (s *State) GetTowers() []*Tower {
	out := make([]*Tower, 0, len(s.towerOrder))
	for _, id := range s.towerOrder {
		out = append(out, s.towers[id])
	}
	return out
}

// GetTowerByID returns a tower, or nil for unknown ids.
func (s *State) GetTowerByID(id int32) *Tower { return s.towers[id] }

// GetTowerAt returns the tower occupying a build cell, or nil.
func (s *State) GetTowerAt(cx, cy int) *Tower {
	id, ok := s.towerCells[cellRef{cx: cx, cy: cy}]
	if !ok {
		return nil
	}
	return s.towers[id]
}

// GetCellState reports what occupies a build cell.
func (s *State) GetCellState(cx, cy int) CellState {
	if cx < 0 || cy < 0 || cx >= s.widthCells || cy >= s.heightCells {
		return CellOutOfBounds
	}
	ref := cellRef{cx: cx, cy: cy}
	if _, ok := s.towerCells[ref]; ok {
		return CellTower
	}
	if _, ok := s.pathCells[ref]; ok {
		return CellPath
	}
	return CellEmpty
}

// --- Enemy collection ---

// SpawnEnemy creates an enemy of the given type at the path start, reusing a
// free-listed record when one is available.
func (s *State) SpawnEnemy(def *data.EnemyTypeInfo) *Enemy {
	var e *Enemy
	if n := len(s.enemyFree); n > 0 {
		e = s.enemyFree[n-1]
		s.enemyFree = s.enemyFree[:n-1]
	} else {
		e = &Enemy{}
	}
	s.nextEnemyID++
	start := s.path[0]
	*e = Enemy{
		ID:        s.nextEnemyID,
		Type:      def,
		X:         start.X,
		Y:         start.Y,
		Health:    def.Health,
		MaxHealth: def.Health,
		Armor:     def.Armor,
		Speed:     def.Speed,
		Reward:    def.Reward,
		SlowMult:  1,
	}
	s.enemies[e.ID] = e
	s.enemyOrder = append(s.enemyOrder, e.ID)
	s.grid.Insert(e.ID, e.X, e.Y)
	return e
}

// RemoveEnemy drops an enemy from every index and recycles its record. The
// record is zeroed on release, so callers must snapshot anything they still
// need (the kill reward, above all) before calling this.
func (s *State) RemoveEnemy(id int32) {
	e := s.enemies[id]
	if e == nil {
		return
	}
	s.grid.Remove(id)
	delete(s.enemies, id)
	for i, eid := range s.enemyOrder {
		if eid == id {
			s.enemyOrder = append(s.enemyOrder[:i], s.enemyOrder[i+1:]...)
			break
		}
	}
	e.reset()
	s.enemyFree = append(s.enemyFree, e)
}

// GetEnemies returns all live enemies in spawn order.
func (s *State) GetEnemies() []*Enemy {
	out := make([]*Enemy, 0, len(s.enemyOrder))
	for _, id := range s.enemyOrder {
		out = append(out, s.enemies[id])
	}
	return out
}

// GetEnemyByID returns a live enemy, or nil once the id is stale.
func (s *State) GetEnemyByID(id int32) *Enemy { return s.enemies[id] }

// GetEnemiesInRange returns all enemies within radius r of a continuous
// point, sorted by id so tick behavior is deterministic.
func (s *State) GetEnemiesInRange(x, y, r float64) []*Enemy {
	ids := s.grid.Query(x, y, r)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Enemy, 0, len(ids))
	for _, id := range ids {
		if e := s.enemies[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// GetEnemiesAlongPath returns all live enemies sorted by path progress
// descending (most urgent first), ties broken by spawn order.
func (s *State) GetEnemiesAlongPath() []*Enemy {
	out := s.GetEnemies()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Progress != out[j].Progress {
			return out[i].Progress > out[j].Progress
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ApplySlow sets a temporary speed multiplier on an enemy. Stale ids are
// ignored.
func (s *State) ApplySlow(id int32, mult, durationSeconds float64) {
	e := s.enemies[id]
	if e == nil {
		return
	}
	e.SlowMult = mult
	e.SlowUntil = s.Now() + durationSeconds
}

// --- Projectile pool ---

// AddProjectile draws a slot from the pool, copies the projectile into it,
// and returns the generational handle.
func (s *State) AddProjectile(p Projectile) ecs.Handle {
	h := s.poolRef().Acquire()
	for int(h.Index()) >= len(s.projectiles) {
		s.projectiles = append(s.projectiles, Projectile{})
	}
	p.Handle = h
	s.projectiles[h.Index()] = p
	return h
}

// GetProjectile resolves a handle to its live slot, or nil once stale.
func (s *State) GetProjectile(h ecs.Handle) *Projectile {
	if !s.poolRef().Alive(h) {
		return nil
	}
	return &s.projectiles[h.Index()]
}

// ReleaseProjectile returns a slot to the pool, zeroing it first so stale
// id/damage data can never leak into the next acquisition.
func (s *State) ReleaseProjectile(h ecs.Handle) {
	if !s.poolRef().Alive(h) {
		return
	}
	s.projectiles[h.Index()] = Projectile{}
	s.pool.Release(h)
}

// GetProjectiles returns all live projectiles in slot order.
func (s *State) GetProjectiles() []*Projectile {
	var out []*Projectile
	for i := range s.projectiles {
		if s.projectiles[i].Handle != ecs.NilHandle {
			out = append(out, &s.projectiles[i])
		}
	}
	return out
}

func (s *State) poolRef() *ecs.Pool {
	if s.pool == nil {
		s.pool = ecs.NewPool()
	}
	return s.pool
}

// --- Economy, lives, waves ---

// AddCredits adjusts the balance and announces the change. Negative deltas
// are spends; callers check affordability first.
func (s *State) AddCredits(amount int) {
	s.credits += amount
	s.bus.Emit(event.CreditsChanged{Time: s.Now(), Delta: amount, Balance: s.credits})
}

// Credits returns the current balance.
func (s *State) Credits() int { return s.credits }

// Lives returns the remaining lives.
func (s *State) Lives() int { return s.lives }

// LoseLife decrements the life counter (never below zero) and returns the
// remainder.
func (s *State) LoseLife() int {
	if s.lives > 0 {
		s.lives--
	}
	return s.lives
}

// SetWave records the wave currently in play, for snapshots.
func (s *State) SetWave(n int) { s.wave = n }

// Wave returns the wave currently in play.
func (s *State) Wave() int { return s.wave }

// GetPath returns the enemy path waypoints in continuous coordinates.
func (s *State) GetPath() []Point { return s.path }

// GetGameStateSnapshot returns the headline numbers for consumers outside the
// simulation.
func (s *State) GetGameStateSnapshot() Snapshot {
	return Snapshot{
		Time:        s.Now(),
		Credits:     s.credits,
		Lives:       s.lives,
		Wave:        s.wave,
		Towers:      len(s.towers),
		Enemies:     len(s.enemies),
		Projectiles: s.poolRef().Live(),
	}
}

// --- Effect records ---

// PushEffect appends a visual effect record.
func (s *State) PushEffect(e *Effect) {
	s.effects = append(s.effects, e)
}

// Effects returns the live effect records. Rendering reads these; nothing in
// the simulation depends on them.
func (s *State) Effects() []*Effect { return s.effects }

// CleanupEffects evicts expired records in place. Runs every tick regardless
// of phase so visuals never linger across phase changes.
func (s *State) CleanupEffects(now float64) {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if !e.Expired(now) {
			kept = append(kept, e)
		}
	}
	// Drop trailing references so evicted records can be collected.
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = kept
}

// Reset clears every collection for a fresh run, keeping the board layout.
func (s *State) Reset(credits, lives int) {
	for _, id := range append([]int32(nil), s.enemyOrder...) {
		s.RemoveEnemy(id)
	}
	s.towers = make(map[int32]*Tower)
	s.towerOrder = nil
	s.towerCells = make(map[cellRef]int32)
	s.grid.Clear()
	s.pool = ecs.NewPool()
	s.projectiles = nil
	s.effects = nil
	s.credits = credits
	s.lives = lives
	s.wave = 0
}
