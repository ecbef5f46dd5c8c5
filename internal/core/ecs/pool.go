package ecs

// Pool is a reusable-slot allocator with generation-counted handles.
// A Handle packs a slot index and the generation the slot had when it was
// acquired; releasing a slot bumps its generation, so every handle taken out
// before the release fails Alive() instead of silently reading a recycled
// slot. Accessed only from the simulation goroutine — no locks.

// Handle identifies one pooled slot. The zero Handle is never valid.
type Handle uint64

// NilHandle is the zero value, returned for failed lookups.
const NilHandle Handle = 0

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

// Index returns the slot index encoded in the handle.
func (h Handle) Index() uint32 { return uint32(h) }

// Gen returns the generation encoded in the handle.
func (h Handle) Gen() uint32 { return uint32(h >> 32) }

// Pool tracks slot generations and the free list. It does not own the slot
// payloads; the caller keeps those in a parallel slice indexed by Handle.Index
// and must reset a slot's fields on release.
type Pool struct {
	gens []uint32
	free []uint32
	live int
}

func NewPool() *Pool {
	// Generation 0 is reserved so the zero Handle is always dead.
	return &Pool{gens: []uint32{1}, free: []uint32{0}}
}

// Acquire takes a slot from the free list, growing the pool when empty.
func (p *Pool) Acquire() Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.gens))
		p.gens = append(p.gens, 1)
	}
	p.live++
	return makeHandle(idx, p.gens[idx])
}

// Release returns a slot to the free list. Releasing a dead handle is a no-op,
// so double-release cannot corrupt the free list.
func (p *Pool) Release(h Handle) {
	if !p.Alive(h) {
		return
	}
	idx := h.Index()
	p.gens[idx]++
	p.free = append(p.free, idx)
	p.live--
}

// Alive reports whether the handle still refers to the slot it was acquired
// for.
func (p *Pool) Alive(h Handle) bool {
	idx := h.Index()
	return idx < uint32(len(p.gens)) && p.gens[idx] == h.Gen()
}

// Live returns the number of currently-acquired slots.
func (p *Pool) Live() int { return p.live }

// Cap returns the total number of slots ever allocated.
func (p *Pool) Cap() int { return len(p.gens) }
