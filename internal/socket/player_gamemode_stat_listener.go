package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// PlayerGamemodeStatListener segregates the same counters as
// PlayerStatListener by each gamemode of the level. Non-tracking matches
// still count here, under the virtual Arcade bucket.
type PlayerGamemodeStatListener struct {
	BaseListener[models.Player]
}

func (PlayerGamemodeStatListener) OnKill(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerDeathData, firstBlood bool) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Kills++
		if firstBlood {
			stats.FirstBloods++
		}
		if data.Cause == models.CauseVoid {
			stats.VoidKills++
		}
		stats.WeaponKills[weaponName(data)]++
	})
}

func (PlayerGamemodeStatListener) OnDeath(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerDeathData, firstBlood bool) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Deaths++
		if data.Cause == models.CauseVoid {
			stats.VoidDeaths++
		}
		if firstBlood {
			stats.FirstBloodsSuffered++
		}
		if data.IsMurder() {
			stats.WeaponDeaths[weaponName(data)]++
		}
	})
}

func (PlayerGamemodeStatListener) OnChat(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerChatData) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		switch data.Channel {
		case ChatGlobal:
			stats.Messages.Global++
		case ChatTeam:
			stats.Messages.Team++
		case ChatStaff:
			stats.Messages.Staff++
		}
	})
}

func (PlayerGamemodeStatListener) OnKillstreak(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, amount int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Killstreaks[amount]++
	})
}

func (PlayerGamemodeStatListener) OnKillstreakEnd(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, amount int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.KillstreaksEnded[amount]++
	})
}

func (PlayerGamemodeStatListener) OnDestroyableDamage(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ *models.DestroyableGoal, blockCount int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.DestroyableBlockDestroys += blockCount
	})
}

func (PlayerGamemodeStatListener) OnDestroyableDestroy(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ float64, _ int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.DestroyableDestroys++
	})
}

func (PlayerGamemodeStatListener) OnCoreLeak(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ float64, blockCount int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.CoreLeaks++
		stats.Objectives.CoreBlockDestroys += blockCount
	})
}

func (PlayerGamemodeStatListener) OnControlPointCapture(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.ControlPointCaptures++
	})
}

func (PlayerGamemodeStatListener) OnFlagPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.FlagCaptures++
		stats.Objectives.TotalFlagHoldTime += heldTime
	})
}

func (PlayerGamemodeStatListener) OnFlagPickup(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.FlagPickups++
	})
}

func (PlayerGamemodeStatListener) OnFlagDrop(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.FlagDrops++
		stats.Objectives.TotalFlagHoldTime += heldTime
	})
}

func (PlayerGamemodeStatListener) OnFlagDefend(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.FlagDefends++
	})
}

func (PlayerGamemodeStatListener) OnWoolPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int64) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.WoolCaptures++
	})
}

func (PlayerGamemodeStatListener) OnWoolPickup(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.WoolPickups++
	})
}

func (PlayerGamemodeStatListener) OnWoolDrop(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int64) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.WoolDrops++
	})
}

func (PlayerGamemodeStatListener) OnWoolDefend(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		stats.Objectives.WoolDefends++
	})
}

func (PlayerGamemodeStatListener) OnMatchEnd(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, end *MatchEndData) {
	participant, ok := m.Participants[player.ID]
	if !ok {
		return
	}

	big := end.StatsFor(player.ID)
	minPlaytime := ParticipationThreshold(m.Length(nowMillis()))
	isPlaying := participant.PartyName != nil
	result := participant.MatchResult(m, end.WinningParties)

	var timeBeforeJoining int64
	if m.StartedAt != nil && participant.FirstJoinedMatchAt > *m.StartedAt {
		timeBeforeJoining = participant.FirstJoinedMatchAt - *m.StartedAt
	}
	presentAtStart := float64(timeBeforeJoining) < minPlaytime

	player.ModifyGamemodeStats(m, func(stats *models.PlayerStats) {
		for block, count := range big.Blocks.BlocksBroken {
			stats.BlocksBroken[block] += count
		}
		for block, count := range big.Blocks.BlocksPlaced {
			stats.BlocksPlaced[block] += count
		}

		stats.BowShotsTaken += big.BowShotsTaken
		stats.BowShotsHit += big.BowShotsHit
		stats.DamageGiven += big.DamageGiven
		stats.DamageTaken += big.DamageTaken
		stats.DamageGivenBow += big.DamageGivenBow

		if float64(participant.Stats.GamePlaytime) > minPlaytime {
			switch result {
			case models.ResultTie:
				stats.Ties++
			case models.ResultWin:
				stats.Wins++
			case models.ResultLose:
				stats.Losses++
			}
			stats.Matches++
		}
		if presentAtStart {
			stats.MatchesPresentStart++
		}
		if participant.Stats.TimeAway < maxFullPresenceTimeAway && isPlaying {
			stats.MatchesPresentFull++
		}
		if isPlaying {
			stats.MatchesPresentEnd++
		}

		stats.GamePlaytime += participant.Stats.GamePlaytime
	})
}

// weaponName is the raw weapon attribution used by the gamemode buckets,
// which predate the projectile normalization in SafeWeapon.
func weaponName(data *PlayerDeathData) string {
	if data.Weapon != nil {
		return *data.Weapon
	}
	return "NONE"
}
