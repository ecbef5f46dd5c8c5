package system

import (
	"github.com/LupusDei/space-towers-sub000/internal/config"
	"github.com/LupusDei/space-towers-sub000/internal/core/event"
	"github.com/LupusDei/space-towers-sub000/internal/data"
	"github.com/LupusDei/space-towers-sub000/internal/world"
	"go.uber.org/zap"
)

// Deps holds the shared dependencies injected into every tick system. One
// instance is built per simulation (and per test); there are no singletons
// anywhere, so isolated simulations never share state.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	State   *world.State
	Phase   *world.PhaseMachine
	Clock   *world.Clock
	Bus     *event.Bus
	Towers  *data.TowerTypeTable
	Enemies *data.EnemyTypeTable
	Waves   *data.WaveTable
}
