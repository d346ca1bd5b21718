package socket

import (
	"context"
	"fmt"

	"github.com/warzonemc/mars-api/internal/models"
)

// XP awards per action.
const (
	xpBeginnerAssistMax = 10

	xpWin               = 200
	xpLoss              = 100
	xpDraw              = 150
	xpKill              = 40
	xpDeath             = 1
	xpFirstBlood        = 7
	xpWoolObjective     = 60
	xpFlagObjective     = 150
	xpFlagTimeBonus     = 100
	xpPointCaptureMax   = 100
	xpDestroyableWhole  = 200
	xpKillstreakCoefficient = 10
)

// XPGain applies the beginner-assist multiplier of 10 minus the level, never
// below 1: 9x at level 1, plain XP from level 9 on.
func XPGain(rawXP, level int) int {
	multiplier := xpBeginnerAssistMax - level
	if multiplier < 1 {
		multiplier = 1
	}
	return rawXP * multiplier
}

// AwardXP adds XP to the profile, emits the plugin-bound gain packet on the
// server's connection and bumps the XP leaderboard. rawOnly bypasses the
// beginner assist (used for match-result awards).
func AwardXP(ctx context.Context, sc *ServerContext, player *models.Player, rawXP int, reason string, notify, rawOnly bool) {
	increment := rawXP
	if !rawOnly {
		increment = XPGain(rawXP, player.Stats.Level())
		// the multiplier can never shrink a gain, but historic data was
		// written with this guard in place
		if increment < rawXP {
			increment = rawXP
		}
	}
	player.Stats.XP += increment

	sc.Call(EventPlayerXPGain, PlayerXPGainData{
		PlayerID: player.ID,
		Gain:     increment,
		Reason:   reason,
		Notify:   notify,
	})

	sc.State.Leaderboards.XP.Increment(ctx, player.IDName(), int64(increment))
}

// PlayerXPListener converts gameplay into XP. XP gain re-enters the outbound
// channel: every award emits a packet back to the originating server.
type PlayerXPListener struct {
	BaseListener[models.Player]
}

func (PlayerXPListener) OnKill(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, _ *PlayerDeathData, firstBlood bool) {
	AwardXP(ctx, sc, player, xpKill, "Kill", true, false)
	if firstBlood {
		AwardXP(ctx, sc, player, xpFirstBlood, "First blood", true, false)
	}
}

func (PlayerXPListener) OnDeath(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, _ *PlayerDeathData, _ bool) {
	AwardXP(ctx, sc, player, xpDeath, "Death", false, false)
}

func (PlayerXPListener) OnKillstreak(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, amount int) {
	AwardXP(ctx, sc, player, xpKillstreakCoefficient*amount, fmt.Sprintf("Killstreak x%d", amount), true, false)
}

func (PlayerXPListener) OnDestroyableDamage(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, destroyable *models.DestroyableGoal, blockCount int) {
	if destroyable.BreaksRequired <= 0 {
		return
	}
	xp := (xpDestroyableWhole / destroyable.BreaksRequired) * blockCount
	AwardXP(ctx, sc, player, xp, "Damaged objective", true, false)
}

func (PlayerXPListener) OnCoreLeak(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, percentage float64, _ int) {
	AwardXP(ctx, sc, player, int(percentage*xpDestroyableWhole), "Leaked core", true, false)
}

func (PlayerXPListener) OnControlPointCapture(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, contributors int) {
	xp := xpPointCaptureMax - (contributors+1)*10
	if xp < 20 {
		xp = 20
	}
	AwardXP(ctx, sc, player, xp, "Captured point", true, false)
}

func (PlayerXPListener) OnFlagPlace(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, heldTime int64) {
	xp := xpFlagObjective + xpFlagTimeBonus - int(heldTime/1000)
	AwardXP(ctx, sc, player, xp, "Captured flag", true, false)
}

func (PlayerXPListener) OnFlagPickup(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player) {
	AwardXP(ctx, sc, player, xpFlagObjective, "Picked up flag", true, false)
}

func (PlayerXPListener) OnFlagDefend(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player) {
	AwardXP(ctx, sc, player, xpFlagObjective, "Defended flag", true, false)
}

func (PlayerXPListener) OnWoolPlace(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player, _ int64) {
	AwardXP(ctx, sc, player, xpWoolObjective, "Captured wool", true, false)
}

func (PlayerXPListener) OnWoolPickup(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player) {
	AwardXP(ctx, sc, player, xpWoolObjective, "Picked up wool", true, false)
}

func (PlayerXPListener) OnWoolDefend(ctx context.Context, sc *ServerContext, _ *models.Match, player *models.Player) {
	AwardXP(ctx, sc, player, xpWoolObjective, "Defended wool", true, false)
}

func (PlayerXPListener) OnMatchEnd(ctx context.Context, sc *ServerContext, m *models.Match, player *models.Player, end *MatchEndData) {
	participant, ok := m.Participants[player.ID]
	if !ok {
		return
	}
	minPlaytime := ParticipationThreshold(m.Length(nowMillis()))
	if float64(participant.Stats.GamePlaytime) <= minPlaytime {
		return
	}

	switch participant.MatchResult(m, end.WinningParties) {
	case models.ResultWin:
		AwardXP(ctx, sc, player, xpWin, "Victory", true, true)
	case models.ResultLose:
		AwardXP(ctx, sc, player, xpLoss, "Defeat", true, true)
	case models.ResultTie:
		AwardXP(ctx, sc, player, xpDraw, "Tie", true, true)
	}
}
