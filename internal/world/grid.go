package world

import "math"

// Grid implements a uniform cell index over the play area for sub-linear
// proximity queries on enemies. Cell size is chosen so that a 3x3
// neighbourhood of cells fully covers the largest expected query radius
// (4x the base build cell). Accessed only from the simulation goroutine —
// no locks.

type cellKey struct {
	cx int
	cy int
}

type gridEntry struct {
	key cellKey
	x   float64
	y   float64
}

// Grid tracks which enemies are in which cells. A reverse index
// (enemy id → current cell and last indexed position) gives O(1) removal
// and re-bucketing and supplies the exact-distance filter in Query.
type Grid struct {
	cellSize float64
	maxCX    int
	maxCY    int
	cells    map[cellKey]map[int32]struct{}
	entries  map[int32]gridEntry
}

// NewGrid builds an index over a width x height play area in continuous
// units. cellSize is the index cell size, not the build cell size.
func NewGrid(width, height, cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		maxCX:    int(math.Ceil(width/cellSize)) - 1,
		maxCY:    int(math.Ceil(height/cellSize)) - 1,
		cells:    make(map[cellKey]map[int32]struct{}),
		entries:  make(map[int32]gridEntry),
	}
}

func (g *Grid) clampCell(c, max int) int {
	if c < 0 {
		return 0
	}
	if c > max {
		return max
	}
	return c
}

func (g *Grid) key(x, y float64) cellKey {
	return cellKey{
		cx: g.clampCell(int(math.Floor(x/g.cellSize)), g.maxCX),
		cy: g.clampCell(int(math.Floor(y/g.cellSize)), g.maxCY),
	}
}

// Insert places an enemy into the grid at the given position.
func (g *Grid) Insert(id int32, x, y float64) {
	k := g.key(x, y)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[int32]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.entries[id] = gridEntry{key: k, x: x, y: y}
}

// Remove takes an enemy out of the grid. Unknown ids are ignored.
func (g *Grid) Remove(id int32) {
	e, ok := g.entries[id]
	if !ok {
		return
	}
	delete(g.entries, id)
	cell := g.cells[e.key]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, e.key)
		}
	}
}

// Update refreshes an enemy's indexed position, re-bucketing only when its
// cell changed. An id not yet tracked is inserted rather than rejected.
func (g *Grid) Update(id int32, x, y float64) {
	e, ok := g.entries[id]
	if !ok {
		g.Insert(id, x, y)
		return
	}
	newK := g.key(x, y)
	if newK == e.key {
		g.entries[id] = gridEntry{key: e.key, x: x, y: y}
		return
	}
	g.Remove(id)
	g.Insert(id, x, y)
}

// Query returns the ids of all enemies whose true Euclidean distance from
// (x, y) is at most r. Candidates come from the bounding cell rectangle,
// clamped to grid bounds; the exact distance check is the final filter, so a
// zero radius still matches enemies located exactly at the query center.
func (g *Grid) Query(x, y, r float64) []int32 {
	minCX := g.clampCell(int(math.Floor((x-r)/g.cellSize)), g.maxCX)
	maxCX := g.clampCell(int(math.Floor((x+r)/g.cellSize)), g.maxCX)
	minCY := g.clampCell(int(math.Floor((y-r)/g.cellSize)), g.maxCY)
	maxCY := g.clampCell(int(math.Floor((y+r)/g.cellSize)), g.maxCY)

	r2 := r * r
	var result []int32
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for id := range g.cells[cellKey{cx: cx, cy: cy}] {
				e := g.entries[id]
				dx := e.x - x
				dy := e.y - y
				if dx*dx+dy*dy <= r2 {
					result = append(result, id)
				}
			}
		}
	}
	return result
}

// Clear empties the index.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey]map[int32]struct{})
	g.entries = make(map[int32]gridEntry)
}

// Rebuild clears the index and reinserts every live enemy. Used after bulk
// changes to the enemy set.
func (g *Grid) Rebuild(enemies []*Enemy) {
	g.Clear()
	for _, e := range enemies {
		g.Insert(e.ID, e.X, e.Y)
	}
}

// Count returns the number of tracked enemies.
func (g *Grid) Count() int { return len(g.entries) }
