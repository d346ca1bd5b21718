package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// Listener reacts to gameplay events in the context of a match, with a typed
// context entity: the transient Participant for the first dispatch group, the
// durable Player for the second. Implementations embed BaseListener and
// override only the hooks they care about.
type Listener[C any] interface {
	OnKill(ctx context.Context, sc *ServerContext, m *models.Match, c *C, data *PlayerDeathData, firstBlood bool)
	OnDeath(ctx context.Context, sc *ServerContext, m *models.Match, c *C, data *PlayerDeathData, firstBlood bool)
	OnChat(ctx context.Context, sc *ServerContext, m *models.Match, c *C, data *PlayerChatData)
	OnKillstreak(ctx context.Context, sc *ServerContext, m *models.Match, c *C, amount int)
	OnKillstreakEnd(ctx context.Context, sc *ServerContext, m *models.Match, c *C, amount int)
	OnPartyJoin(ctx context.Context, sc *ServerContext, m *models.Match, c *C, partyName string)
	OnPartyLeave(ctx context.Context, sc *ServerContext, m *models.Match, c *C)
	OnMatchEnd(ctx context.Context, sc *ServerContext, m *models.Match, c *C, end *MatchEndData)
	OnDestroyableDamage(ctx context.Context, sc *ServerContext, m *models.Match, c *C, destroyable *models.DestroyableGoal, blockCount int)
	OnDestroyableDestroy(ctx context.Context, sc *ServerContext, m *models.Match, c *C, percentage float64, blockCount int)
	OnCoreLeak(ctx context.Context, sc *ServerContext, m *models.Match, c *C, percentage float64, blockCount int)
	OnControlPointCapture(ctx context.Context, sc *ServerContext, m *models.Match, c *C, contributors int)
	OnFlagPlace(ctx context.Context, sc *ServerContext, m *models.Match, c *C, heldTime int64)
	OnFlagPickup(ctx context.Context, sc *ServerContext, m *models.Match, c *C)
	OnFlagDrop(ctx context.Context, sc *ServerContext, m *models.Match, c *C, heldTime int64)
	OnFlagDefend(ctx context.Context, sc *ServerContext, m *models.Match, c *C)
	OnWoolPlace(ctx context.Context, sc *ServerContext, m *models.Match, c *C, heldTime int64)
	OnWoolPickup(ctx context.Context, sc *ServerContext, m *models.Match, c *C)
	OnWoolDrop(ctx context.Context, sc *ServerContext, m *models.Match, c *C, heldTime int64)
	OnWoolDefend(ctx context.Context, sc *ServerContext, m *models.Match, c *C)
}

// BaseListener provides no-op defaults for every hook.
type BaseListener[C any] struct{}

func (BaseListener[C]) OnKill(context.Context, *ServerContext, *models.Match, *C, *PlayerDeathData, bool) {
}
func (BaseListener[C]) OnDeath(context.Context, *ServerContext, *models.Match, *C, *PlayerDeathData, bool) {
}
func (BaseListener[C]) OnChat(context.Context, *ServerContext, *models.Match, *C, *PlayerChatData) {}
func (BaseListener[C]) OnKillstreak(context.Context, *ServerContext, *models.Match, *C, int)      {}
func (BaseListener[C]) OnKillstreakEnd(context.Context, *ServerContext, *models.Match, *C, int)   {}
func (BaseListener[C]) OnPartyJoin(context.Context, *ServerContext, *models.Match, *C, string)    {}
func (BaseListener[C]) OnPartyLeave(context.Context, *ServerContext, *models.Match, *C)           {}
func (BaseListener[C]) OnMatchEnd(context.Context, *ServerContext, *models.Match, *C, *MatchEndData) {
}
func (BaseListener[C]) OnDestroyableDamage(context.Context, *ServerContext, *models.Match, *C, *models.DestroyableGoal, int) {
}
func (BaseListener[C]) OnDestroyableDestroy(context.Context, *ServerContext, *models.Match, *C, float64, int) {
}
func (BaseListener[C]) OnCoreLeak(context.Context, *ServerContext, *models.Match, *C, float64, int) {
}
func (BaseListener[C]) OnControlPointCapture(context.Context, *ServerContext, *models.Match, *C, int) {
}
func (BaseListener[C]) OnFlagPlace(context.Context, *ServerContext, *models.Match, *C, int64) {}
func (BaseListener[C]) OnFlagPickup(context.Context, *ServerContext, *models.Match, *C)       {}
func (BaseListener[C]) OnFlagDrop(context.Context, *ServerContext, *models.Match, *C, int64)  {}
func (BaseListener[C]) OnFlagDefend(context.Context, *ServerContext, *models.Match, *C)       {}
func (BaseListener[C]) OnWoolPlace(context.Context, *ServerContext, *models.Match, *C, int64) {}
func (BaseListener[C]) OnWoolPickup(context.Context, *ServerContext, *models.Match, *C)       {}
func (BaseListener[C]) OnWoolDrop(context.Context, *ServerContext, *models.Match, *C, int64)  {}
func (BaseListener[C]) OnWoolDefend(context.Context, *ServerContext, *models.Match, *C)       {}
