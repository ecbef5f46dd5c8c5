package world

// Point is a 2D coordinate. Towers live in grid-cell coordinates, enemies and
// projectiles in continuous coordinates; the two spaces must never be
// compared without an explicit cell-size conversion (see State.CellCenter).
type Point struct {
	X float64
	Y float64
}

// EffectKind discriminates visual effect records.
type EffectKind int

const (
	EffectBeam      EffectKind = iota // hitscan flash from tower to target
	EffectChain                       // chain-lightning path through all hops
	EffectPulse                       // expanding area pulse around a tower
	EffectExplosion                   // splash impact
)

// Effect is a short-lived, auto-expiring visual record. The rendering layer
// reads these back; they carry no simulation authority and may be dropped
// freely.
type Effect struct {
	Kind     EffectKind
	Points   []Point // beam: [from, to]; chain: full hop path; pulse/explosion: [center]
	Radius   float64 // pulse and explosion only
	Created  float64
	Duration float64
}

// Expired reports whether the record has outlived its duration.
func (e *Effect) Expired(now float64) bool {
	return now-e.Created >= e.Duration
}
