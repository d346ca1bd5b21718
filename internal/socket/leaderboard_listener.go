package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// LeaderboardListener mirrors in-match metrics into the redis sorted sets.
// Non-tracking matches skip every hook.
type LeaderboardListener struct {
	BaseListener[models.Participant]
}

func (LeaderboardListener) OnKill(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ *PlayerDeathData, firstBlood bool) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.Kills.Increment(ctx, p.IDName(), 1)
	if firstBlood {
		sc.State.Leaderboards.FirstBloods.Increment(ctx, p.IDName(), 1)
	}
}

func (LeaderboardListener) OnDeath(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ *PlayerDeathData, _ bool) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.Deaths.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnKillstreak(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, amount int) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.HighestKillstreak.SetIfHigher(ctx, p.IDName(), int64(amount))
}

func (LeaderboardListener) OnDestroyableDestroy(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ float64, blockCount int) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.DestroyableDestroys.Increment(ctx, p.IDName(), 1)
	sc.State.Leaderboards.DestroyableBlockDestroys.Increment(ctx, p.IDName(), int64(blockCount))
}

func (LeaderboardListener) OnCoreLeak(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ float64, blockCount int) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.CoreLeaks.Increment(ctx, p.IDName(), 1)
	sc.State.Leaderboards.CoreBlockDestroys.Increment(ctx, p.IDName(), int64(blockCount))
}

func (LeaderboardListener) OnFlagPlace(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.FlagCaptures.Increment(ctx, p.IDName(), 1)
	sc.State.Leaderboards.FlagHoldTime.Increment(ctx, p.IDName(), heldTime)
}

func (LeaderboardListener) OnFlagPickup(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.FlagPickups.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnFlagDrop(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.FlagDrops.Increment(ctx, p.IDName(), 1)
	sc.State.Leaderboards.FlagHoldTime.Increment(ctx, p.IDName(), heldTime)
}

func (LeaderboardListener) OnFlagDefend(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.FlagDefends.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnWoolPlace(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ int64) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.WoolCaptures.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnWoolPickup(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.WoolPickups.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnWoolDrop(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ int64) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.WoolDrops.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnWoolDefend(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.WoolDefends.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnControlPointCapture(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, _ int) {
	if !m.IsTrackingStats() {
		return
	}
	sc.State.Leaderboards.ControlPointCaptures.Increment(ctx, p.IDName(), 1)
}

func (LeaderboardListener) OnMatchEnd(ctx context.Context, sc *ServerContext, m *models.Match, p *models.Participant, end *MatchEndData) {
	if !m.IsTrackingStats() {
		return
	}

	switch p.MatchResult(m, end.WinningParties) {
	case models.ResultWin:
		sc.State.Leaderboards.Wins.Increment(ctx, p.IDName(), 1)
	case models.ResultLose:
		sc.State.Leaderboards.Losses.Increment(ctx, p.IDName(), 1)
	case models.ResultTie:
		sc.State.Leaderboards.Ties.Increment(ctx, p.IDName(), 1)
	}

	sc.State.Leaderboards.MatchesPlayed.Increment(ctx, p.IDName(), 1)
	sc.State.Leaderboards.MessagesSent.Increment(ctx, p.IDName(), int64(p.Stats.Messages.Total()))
	sc.State.Leaderboards.GamePlaytime.Increment(ctx, p.IDName(), p.Stats.GamePlaytime)
}
