package event

// Kind discriminates event types on the bus. Handlers subscribe per kind and
// may assert the concrete struct for that kind.
type Kind uint8

const (
	KindProjectileFired Kind = iota
	KindProjectileHit
	KindEnemyKilled
	KindEnemyLeaked
	KindDamageNumber
	KindGoldNumber
	KindExplosion
	KindGravityPulse
	KindWaveStarted
	KindWaveCompleted
	KindPhaseChanged
	KindCreditsChanged
	KindTowerPlaced
	KindTowerUpgraded
	KindTowerSold
	KindGameStarted
	KindGameOver
)

// Event is implemented by every event struct. At is the simulation time the
// event was emitted, in the same seconds as cooldowns and effect durations.
type Event interface {
	EventKind() Kind
	At() float64
}

// --- Combat events ---

// ProjectileFired is emitted when a tower hands a projectile to the travel
// system. Subscribers: rendering (muzzle flash), audio.
type ProjectileFired struct {
	Time      float64
	TowerID   int32
	TargetID  int32
	X, Y      float64 // launch position
	AOERadius float64 // zero for non-splash rounds
}

func (ProjectileFired) EventKind() Kind { return KindProjectileFired }
func (e ProjectileFired) At() float64 { return e.Time }

// ProjectileHit is emitted on impact, after the primary target took direct
// damage. The combat module's splash handler subscribes to apply area damage
// around the impact point, excluding PrimaryID.
type ProjectileHit struct {
	Time      float64
	TowerID   int32
	PrimaryID int32
	X, Y      float64 // impact point
	Damage    int
	AOERadius float64
}

func (ProjectileHit) EventKind() Kind { return KindProjectileHit }
func (e ProjectileHit) At() float64 { return e.Time }

// EnemyKilled is emitted when damage drops an enemy to zero health. Reward is
// snapshotted before the enemy record is recycled, so it is always the real
// bounty even though the pooled record has been reset by delivery time.
type EnemyKilled struct {
	Time    float64
	EnemyID int32
	TowerID int32 // killing tower, 0 when unattributed
	Reward  int
	X, Y    float64
}

func (EnemyKilled) EventKind() Kind { return KindEnemyKilled }
func (e EnemyKilled) At() float64 { return e.Time }

// EnemyLeaked is emitted when an enemy reaches the end of the path. No kill
// or credit events accompany a leak.
type EnemyLeaked struct {
	Time      float64
	EnemyID   int32
	LivesLeft int
}

func (EnemyLeaked) EventKind() Kind { return KindEnemyLeaked }
func (e EnemyLeaked) At() float64 { return e.Time }

// --- Visual-request events (no simulation authority, may be dropped) ---

type DamageNumber struct {
	Time   float64
	X, Y   float64
	Amount int
}

func (DamageNumber) EventKind() Kind { return KindDamageNumber }
func (e DamageNumber) At() float64 { return e.Time }

type GoldNumber struct {
	Time   float64
	X, Y   float64
	Amount int
}

func (GoldNumber) EventKind() Kind { return KindGoldNumber }
func (e GoldNumber) At() float64 { return e.Time }

type Explosion struct {
	Time   float64
	X, Y   float64
	Radius float64
}

func (Explosion) EventKind() Kind { return KindExplosion }
func (e Explosion) At() float64 { return e.Time }

type GravityPulse struct {
	Time    float64
	TowerID int32
	X, Y    float64
	Radius  float64
}

func (GravityPulse) EventKind() Kind { return KindGravityPulse }
func (e GravityPulse) At() float64 { return e.Time }

// --- Wave / session events ---

type WaveStarted struct {
	Time    float64
	Wave    int
	Enemies int
}

func (WaveStarted) EventKind() Kind { return KindWaveStarted }
func (e WaveStarted) At() float64 { return e.Time }

type WaveCompleted struct {
	Time float64
	Wave int
}

func (WaveCompleted) EventKind() Kind { return KindWaveCompleted }
func (e WaveCompleted) At() float64 { return e.Time }

// PhaseChanged is emitted on every phase transition, validated or forced.
// From/To carry phase names so UI subscribers need no simulation imports.
type PhaseChanged struct {
	Time   float64
	From   string
	To     string
	Forced bool
}

func (PhaseChanged) EventKind() Kind { return KindPhaseChanged }
func (e PhaseChanged) At() float64 { return e.Time }

type CreditsChanged struct {
	Time    float64
	Delta   int
	Balance int
}

func (CreditsChanged) EventKind() Kind { return KindCreditsChanged }
func (e CreditsChanged) At() float64 { return e.Time }

type TowerPlaced struct {
	Time    float64
	TowerID int32
	Type    string
	CX, CY  int
}

func (TowerPlaced) EventKind() Kind { return KindTowerPlaced }
func (e TowerPlaced) At() float64 { return e.Time }

type TowerUpgraded struct {
	Time    float64
	TowerID int32
	Level   int
}

func (TowerUpgraded) EventKind() Kind { return KindTowerUpgraded }
func (e TowerUpgraded) At() float64 { return e.Time }

type TowerSold struct {
	Time    float64
	TowerID int32
	Refund  int
}

func (TowerSold) EventKind() Kind { return KindTowerSold }
func (e TowerSold) At() float64 { return e.Time }

type GameStarted struct {
	Time float64
}

func (GameStarted) EventKind() Kind { return KindGameStarted }
func (e GameStarted) At() float64 { return e.Time }

// GameOver is emitted exactly once per run, on entry to Victory or Defeat.
type GameOver struct {
	Time    float64
	Victory bool
	Wave    int
}

func (GameOver) EventKind() Kind { return KindGameOver }
func (e GameOver) At() float64 { return e.Time }
